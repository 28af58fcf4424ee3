package job

import (
	"log/slog"
	"sync"
)

// DefaultCapacity bounds the number of concurrently tracked jobs.
const DefaultCapacity = 16

// Registry is a fixed-capacity slot table of jobs. It is written from the
// evaluator (spawn registration, bg/fg transitions) and from the notification
// relay (stop transitions, removals), so every access goes through the mutex.
// The condition variable is broadcast on every mutation; the foreground waiter
// blocks on it instead of polling.
type Registry struct {
	mu      sync.Mutex
	cond    *sync.Cond
	slots   []Job
	nextJID int
	logger  *slog.Logger
}

// NewRegistry creates an empty registry. A capacity below 1 falls back to
// DefaultCapacity.
func NewRegistry(capacity int, logger *slog.Logger) *Registry {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		slots:   make([]Job, capacity),
		nextJID: 1,
		logger:  logger,
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Add registers a new job in the first empty slot and assigns it the next job
// id. It returns the assigned jid and false when pid is invalid or the table
// is full; a full table leaves all existing entries untouched.
//
// Job ids only ever grow between removals. The original table reset its
// counter to 1 once it exceeded the capacity, which can collide with a live
// job; this implementation keeps the counter monotonic instead.
func (r *Registry) Add(pid int, state State, cmdline string) (int, bool) {
	if pid < 1 {
		return 0, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i].PID != 0 {
			continue
		}
		r.slots[i] = Job{
			PID:     pid,
			JID:     r.nextJID,
			State:   state,
			Cmdline: cmdline,
		}
		r.nextJID++
		r.logger.Debug("added job",
			"jid", r.slots[i].JID,
			"pid", pid,
			"cmdline", cmdline,
		)
		r.cond.Broadcast()
		return r.slots[i].JID, true
	}
	return 0, false
}

// Remove clears the slot holding pid and recomputes the next job id as one
// past the largest still-active jid, so ids are reused once the jobs holding
// them are gone. Returns false when no active slot matches.
func (r *Registry) Remove(pid int) bool {
	if pid < 1 {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i].PID != pid {
			continue
		}
		r.slots[i] = Job{}
		r.nextJID = r.maxJIDLocked() + 1
		r.logger.Debug("removed job", "pid", pid)
		r.cond.Broadcast()
		return true
	}
	return false
}

// SetState transitions the job holding pid. Returns false when no active slot
// matches.
func (r *Registry) SetState(pid int, state State) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i].PID == pid && pid != 0 {
			r.slots[i].State = state
			r.cond.Broadcast()
			return true
		}
	}
	return false
}

// ByPID returns a copy of the job with the given process id.
func (r *Registry) ByPID(pid int) (Job, bool) {
	if pid < 1 {
		return Job{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i].PID == pid {
			return r.slots[i], true
		}
	}
	return Job{}, false
}

// ByJID returns a copy of the job with the given job id.
func (r *Registry) ByJID(jid int) (Job, bool) {
	if jid < 1 {
		return Job{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i].PID != 0 && r.slots[i].JID == jid {
			return r.slots[i], true
		}
	}
	return Job{}, false
}

// JIDFor maps a process id to its job id, or 0 when untracked.
func (r *Registry) JIDFor(pid int) int {
	j, ok := r.ByPID(pid)
	if !ok {
		return 0
	}
	return j.JID
}

// ForegroundPID returns the process id of the unique foreground job, or 0.
func (r *Registry) ForegroundPID() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i].PID != 0 && r.slots[i].State == Foreground {
			return r.slots[i].PID
		}
	}
	return 0
}

// List returns copies of all active jobs in slot order.
func (r *Registry) List() []Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Job, 0, len(r.slots))
	for i := range r.slots {
		if r.slots[i].PID != 0 {
			out = append(out, r.slots[i])
		}
	}
	return out
}

// WaitNotForeground blocks until the job holding pid is gone from the table
// or is no longer in the Foreground state. Mutations are broadcast by the
// writers, so this needs no polling interval.
func (r *Registry) WaitNotForeground(pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		j := r.findByPIDLocked(pid)
		if j == nil || j.State != Foreground {
			return
		}
		r.cond.Wait()
	}
}

func (r *Registry) findByPIDLocked(pid int) *Job {
	if pid < 1 {
		return nil
	}
	for i := range r.slots {
		if r.slots[i].PID == pid {
			return &r.slots[i]
		}
	}
	return nil
}

func (r *Registry) maxJIDLocked() int {
	max := 0
	for i := range r.slots {
		if r.slots[i].PID != 0 && r.slots[i].JID > max {
			max = r.slots[i].JID
		}
	}
	return max
}
