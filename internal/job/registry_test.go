package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsIncreasingJIDs(t *testing.T) {
	t.Parallel()

	r := NewRegistry(DefaultCapacity, nil)

	prev := 0
	for pid := 100; pid < 110; pid++ {
		jid, ok := r.Add(pid, Background, "cmd")
		require.True(t, ok)
		assert.Greater(t, jid, prev)
		prev = jid
	}
}

func TestAddRejectsInvalidPID(t *testing.T) {
	t.Parallel()

	r := NewRegistry(DefaultCapacity, nil)

	_, ok := r.Add(0, Background, "cmd")
	assert.False(t, ok)
	_, ok = r.Add(-5, Background, "cmd")
	assert.False(t, ok)
	assert.Empty(t, r.List())
}

func TestAddFullTableUnchanged(t *testing.T) {
	t.Parallel()

	r := NewRegistry(16, nil)
	for pid := 1; pid <= 16; pid++ {
		_, ok := r.Add(pid+1000, Background, "cmd")
		require.True(t, ok)
	}

	before := r.List()
	require.Len(t, before, 16)

	_, ok := r.Add(5000, Background, "late")
	assert.False(t, ok)
	assert.Equal(t, before, r.List())
}

func TestRemoveRecomputesNextJID(t *testing.T) {
	t.Parallel()

	r := NewRegistry(DefaultCapacity, nil)
	jid1, _ := r.Add(101, Background, "a")
	jid2, _ := r.Add(102, Background, "b")
	jid3, _ := r.Add(103, Background, "c")
	require.Equal(t, []int{1, 2, 3}, []int{jid1, jid2, jid3})

	// Dropping the highest jid frees its id for reuse.
	require.True(t, r.Remove(103))
	jid4, ok := r.Add(104, Background, "d")
	require.True(t, ok)
	assert.Equal(t, 3, jid4)

	// Dropping a middle jid does not: the counter stays past the max.
	require.True(t, r.Remove(102))
	jid5, ok := r.Add(105, Background, "e")
	require.True(t, ok)
	assert.Equal(t, 4, jid5)
}

func TestRemoveUnknownPIDIsNoOp(t *testing.T) {
	t.Parallel()

	r := NewRegistry(DefaultCapacity, nil)
	r.Add(101, Background, "a")

	assert.False(t, r.Remove(999))
	assert.False(t, r.Remove(0))
	assert.Len(t, r.List(), 1)
}

func TestSingleForegroundInvariant(t *testing.T) {
	t.Parallel()

	r := NewRegistry(DefaultCapacity, nil)
	r.Add(101, Foreground, "fg")
	r.Add(102, Background, "bg")
	r.Add(103, Stopped, "st")

	assert.Equal(t, 101, r.ForegroundPID())

	fgCount := 0
	for _, j := range r.List() {
		if j.State == Foreground {
			fgCount++
		}
	}
	assert.Equal(t, 1, fgCount)

	// Moving the foreground job out leaves none.
	r.SetState(101, Stopped)
	assert.Equal(t, 0, r.ForegroundPID())
}

func TestLookupsTreatSmallIDsAsAbsent(t *testing.T) {
	t.Parallel()

	r := NewRegistry(DefaultCapacity, nil)
	r.Add(101, Background, "a")

	_, ok := r.ByPID(0)
	assert.False(t, ok)
	_, ok = r.ByJID(0)
	assert.False(t, ok)
	_, ok = r.ByPID(-1)
	assert.False(t, ok)
	assert.Equal(t, 0, r.JIDFor(999))
}

func TestListSlotOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry(DefaultCapacity, nil)
	r.Add(101, Background, "a")
	r.Add(102, Background, "b")
	r.Add(103, Background, "c")

	// Removing and re-adding occupies the freed slot, so slot order is not
	// insertion order.
	r.Remove(102)
	r.Add(104, Background, "d")

	var pids []int
	for _, j := range r.List() {
		pids = append(pids, j.PID)
	}
	assert.Equal(t, []int{101, 104, 103}, pids)
}

func TestStateLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Foreground", Foreground.Label())
	assert.Equal(t, "Running", Background.Label())
	assert.Equal(t, "Stopped", Stopped.Label())
}

func TestWaitNotForeground(t *testing.T) {
	t.Parallel()

	r := NewRegistry(DefaultCapacity, nil)
	r.Add(101, Foreground, "fg")

	done := make(chan struct{})
	go func() {
		r.WaitNotForeground(101)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("waiter returned while job was still foreground")
	case <-time.After(50 * time.Millisecond):
	}

	r.SetState(101, Stopped)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter did not wake after state change")
	}
}

func TestWaitNotForegroundReturnsOnRemoval(t *testing.T) {
	t.Parallel()

	r := NewRegistry(DefaultCapacity, nil)
	r.Add(101, Foreground, "fg")

	done := make(chan struct{})
	go func() {
		r.WaitNotForeground(101)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	r.Remove(101)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter did not wake after removal")
	}
}

func TestWaitNotForegroundUntrackedPID(t *testing.T) {
	t.Parallel()

	r := NewRegistry(DefaultCapacity, nil)
	// Must return immediately for a pid the table has never seen.
	r.WaitNotForeground(424242)
}
