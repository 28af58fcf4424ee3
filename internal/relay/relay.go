package relay

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/mattjoyce/jobsh/internal/job"
	"github.com/mattjoyce/jobsh/internal/log"
)

// sigChanBuffer absorbs bursts while event handling (or a Pause window) is in
// progress. Coalesced SIGCHLD deliveries are harmless because the drain loop
// reaps every reportable child per wakeup.
const sigChanBuffer = 32

// Relay turns asynchronous process signals into ordinary registry mutations.
//
// Instead of constraining handlers to reentrancy-safe operations, a single
// goroutine owns signal delivery: it reaps children, forwards keyboard
// interrupts and stops to the foreground process group, and performs all
// registry mutation and output formatting in normal goroutine context.
type Relay struct {
	registry *job.Registry
	out      io.Writer
	logger   *slog.Logger

	sigCh chan os.Signal
	done  chan struct{}

	// gate makes the evaluator's spawn-then-register sequence atomic with
	// respect to event handling. Signals arriving while the gate is held
	// queue in sigCh and are processed after Resume.
	gate sync.Mutex

	exit func(int)
}

// New creates a Relay mutating registry and writing user-visible reports to out.
func New(registry *job.Registry, out io.Writer) *Relay {
	return &Relay{
		registry: registry,
		out:      out,
		logger:   log.WithComponent("relay"),
		sigCh:    make(chan os.Signal, sigChanBuffer),
		done:     make(chan struct{}),
		exit:     os.Exit,
	}
}

// Start installs signal delivery and launches the relay goroutine.
func (r *Relay) Start() error {
	if r.registry == nil {
		return fmt.Errorf("relay requires a job registry")
	}
	signal.Notify(r.sigCh, unix.SIGCHLD, unix.SIGINT, unix.SIGTSTP, unix.SIGQUIT)
	go r.run()
	r.logger.Debug("relay started")
	return nil
}

// Stop uninstalls signal delivery and terminates the relay goroutine.
func (r *Relay) Stop() {
	signal.Stop(r.sigCh)
	close(r.done)
}

// Pause blocks event handling until Resume. Held by the evaluator across
// spawn+register so a fast-exiting child cannot be reaped before its job
// exists in the registry.
func (r *Relay) Pause() {
	r.gate.Lock()
}

// Resume re-enables event handling.
func (r *Relay) Resume() {
	r.gate.Unlock()
}

func (r *Relay) run() {
	for {
		select {
		case <-r.done:
			return
		case sig := <-r.sigCh:
			r.gate.Lock()
			r.handle(sig)
			r.gate.Unlock()
		}
	}
}

func (r *Relay) handle(sig os.Signal) {
	switch sig {
	case unix.SIGCHLD:
		r.reapChildren()
	case unix.SIGINT:
		r.forwardToForeground(unix.SIGINT)
	case unix.SIGTSTP:
		r.forwardToForeground(unix.SIGTSTP)
	case unix.SIGQUIT:
		fmt.Fprintln(r.out, "Terminating after receipt of SIGQUIT signal")
		r.exit(1)
	}
}

// reapChildren drains every child whose status changed, without blocking on
// children that have not. Stopped children transition their job to Stopped;
// terminated children remove it, with a report when an uncaught signal did
// the killing.
func (r *Relay) reapChildren() {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG|unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil || pid <= 0 {
			return
		}

		switch {
		case ws.Stopped():
			jid := r.registry.JIDFor(pid)
			fmt.Fprintf(r.out, "Job [%d] (%d) stopped by signal %d\n", jid, pid, int(ws.StopSignal()))
			r.registry.SetState(pid, job.Stopped)
		case ws.Signaled():
			jid := r.registry.JIDFor(pid)
			fmt.Fprintf(r.out, "Job [%d] (%d) terminated by signal %d\n", jid, pid, int(ws.Signal()))
			r.registry.Remove(pid)
		case ws.Exited():
			r.registry.Remove(pid)
		}
	}
}

// forwardToForeground sends sig to the foreground job's whole process group.
// With no foreground job this is a strict no-op: signaling group 0 would hit
// the shell's own group.
func (r *Relay) forwardToForeground(sig unix.Signal) {
	pid := r.registry.ForegroundPID()
	if pid == 0 {
		return
	}
	if err := unix.Kill(-pid, sig); err != nil {
		r.logger.Warn("forward signal to foreground group", "pid", pid, "signal", sig, "error", err)
	}
}
