package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"syscall"

	"github.com/mattjoyce/jobsh/internal/job"
	"github.com/mattjoyce/jobsh/internal/parser"
)

// Eval transforms one command line into effect: builtins run in-process,
// anything else is spawned as an external job.
func (s *Shell) Eval(line string) {
	argv, background := parser.Parse(line)
	if len(argv) == 0 {
		return
	}

	if s.runBuiltin(argv) {
		return
	}

	s.runExternal(argv, background, line)
}

// runExternal spawns argv as a new process group and registers it as a job.
// The relay is paused across spawn+register so a child that exits instantly
// cannot be reaped before its job exists.
func (s *Shell) runExternal(argv []string, background bool, cmdline string) {
	s.relay.Pause()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = s.childStdin
	cmd.Stdout = s.childStdout
	cmd.Stderr = s.childStderr
	// The child leads its own process group, so keyboard-originated signals
	// reach it only when the relay forwards them.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		s.relay.Resume()
		if isCommandNotFound(err) {
			fmt.Fprintf(s.out, "%s: Command not found.\n", argv[0])
			return
		}
		// Process creation failed for environmental reasons; this shell
		// treats that as fatal.
		fmt.Fprintf(s.out, "Fork error: %v\n", err)
		s.exit(1)
		return
	}

	pid := cmd.Process.Pid
	state := job.Foreground
	if background {
		state = job.Background
	}

	jid, added := s.registry.Add(pid, state, cmdline)
	s.relay.Resume()

	if !added {
		// The process is already running untracked; reported, not repaired.
		fmt.Fprintln(s.out, "Tried to create too many jobs")
		return
	}

	if background {
		fmt.Fprintf(s.out, "[%d] (%d) %s\n", jid, pid, cmdline)
		return
	}
	s.registry.WaitNotForeground(pid)
}

// isCommandNotFound reports whether a spawn failure means the executable is
// missing or not runnable, as opposed to an environmental failure. ENOEXEC
// covers a file that exists but the kernel cannot run (no shebang, not ELF).
func isCommandNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, syscall.ENOEXEC)
}
