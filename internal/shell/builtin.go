package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattjoyce/jobsh/internal/job"
)

// runBuiltin executes argv if it names a builtin, reporting whether it did.
func (s *Shell) runBuiltin(argv []string) bool {
	switch argv[0] {
	case "quit":
		s.exit(0)
		return true
	case "jobs":
		s.listJobs()
		return true
	case "bg", "fg":
		s.doBgFg(argv)
		return true
	}
	return false
}

// listJobs prints every active job in table-slot order.
func (s *Shell) listJobs() {
	for _, j := range s.registry.List() {
		fmt.Fprintf(s.out, "[%d] (%d) %s %s\n", j.JID, j.PID, j.State.Label(), j.Cmdline)
	}
}

// doBgFg resolves the job argument and performs the bg/fg transition.
// Both send SIGCONT to the whole process group unconditionally: a no-op for a
// running target, exactly what a stopped one needs.
func (s *Shell) doBgFg(argv []string) {
	name := argv[0]
	if len(argv) < 2 {
		fmt.Fprintf(s.out, "%s command requires PID or %%jobid argument\n", name)
		return
	}

	target, ok := s.resolveJob(name, argv[1])
	if !ok {
		return
	}

	if err := s.signaler.Continue(target.PID); err != nil {
		s.logger.Warn("continue process group", "pid", target.PID, "error", err)
	}

	if name == "bg" {
		s.registry.SetState(target.PID, job.Background)
		fmt.Fprintf(s.out, "[%d] (%d) %s\n", target.JID, target.PID, target.Cmdline)
		return
	}

	s.registry.SetState(target.PID, job.Foreground)
	s.registry.WaitNotForeground(target.PID)
}

// resolveJob interprets arg as a PID (digits) or %jobid and looks it up,
// printing the appropriate diagnostic when it cannot.
func (s *Shell) resolveJob(name, arg string) (job.Job, bool) {
	switch {
	case isDigits(arg):
		pid, _ := strconv.Atoi(arg)
		j, ok := s.registry.ByPID(pid)
		if !ok {
			fmt.Fprintf(s.out, "(%d): No such process\n", pid)
			return job.Job{}, false
		}
		return j, true

	case strings.HasPrefix(arg, "%") && isDigits(arg[1:]):
		jid, _ := strconv.Atoi(arg[1:])
		j, ok := s.registry.ByJID(jid)
		if !ok {
			fmt.Fprintf(s.out, "%s: No such job\n", arg)
			return job.Job{}, false
		}
		return j, true

	default:
		fmt.Fprintf(s.out, "%s: argument must be a PID or %%jobid\n", name)
		return job.Job{}, false
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
