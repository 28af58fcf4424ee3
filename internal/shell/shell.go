package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"

	"github.com/mattjoyce/jobsh/internal/config"
	"github.com/mattjoyce/jobsh/internal/history"
	"github.com/mattjoyce/jobsh/internal/job"
	"github.com/mattjoyce/jobsh/internal/log"
	"github.com/mattjoyce/jobsh/internal/relay"
)

// groupSignaler delivers continue notifications to a job's whole process
// group. Split out so builtin tests can observe transitions without live
// processes.
type groupSignaler interface {
	Continue(pid int) error
}

type unixGroupSignaler struct{}

func (unixGroupSignaler) Continue(pid int) error {
	return unix.Kill(-pid, unix.SIGCONT)
}

// Shell owns the read-evaluate loop and the synchronous side of job control.
type Shell struct {
	cfg      *config.Config
	registry *job.Registry
	relay    *relay.Relay
	hist     *history.Store
	out      io.Writer
	logger   *slog.Logger

	signaler groupSignaler
	exit     func(int)

	prompt     string
	emitPrompt bool

	// Child process stdio; the interactive defaults are the shell's own.
	childStdin  io.Reader
	childStdout io.Writer
	childStderr io.Writer
}

// New wires a Shell. hist may be nil when history is disabled.
func New(cfg *config.Config, registry *job.Registry, rel *relay.Relay, hist *history.Store, out io.Writer, emitPrompt bool) *Shell {
	return &Shell{
		cfg:         cfg,
		registry:    registry,
		relay:       rel,
		hist:        hist,
		out:         out,
		logger:      log.WithComponent("shell"),
		signaler:    unixGroupSignaler{},
		exit:        os.Exit,
		prompt:      renderPrompt(cfg, emitPrompt),
		emitPrompt:  emitPrompt,
		childStdin:  os.Stdin,
		childStdout: os.Stdout,
		childStderr: os.Stderr,
	}
}

// renderPrompt styles the prompt when one will be emitted and a color is
// configured. Lipgloss degrades to plain text when stdout is not a terminal,
// so piped runs never see escape sequences.
func renderPrompt(cfg *config.Config, emit bool) string {
	if !emit || cfg.Shell.PromptColor == "" {
		return cfg.Shell.Prompt
	}
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(cfg.Shell.PromptColor))
	return style.Render(cfg.Shell.Prompt)
}

// Run executes the read-evaluate loop until end of input. A read error is
// returned to the caller as fatal; end-of-input is a normal nil return.
func (s *Shell) Run(in io.Reader) error {
	reader := bufio.NewReader(in)
	for {
		if s.emitPrompt {
			fmt.Fprint(s.out, s.prompt)
		}

		line, err := reader.ReadString('\n')
		atEOF := errors.Is(err, io.EOF)
		if err != nil && !atEOF {
			return fmt.Errorf("read command line: %w", err)
		}

		line = strings.TrimRight(line, "\n")
		if s.hist != nil && strings.TrimSpace(line) != "" {
			if herr := s.hist.Append(context.Background(), line); herr != nil {
				s.logger.Warn("record history", "error", herr)
			}
		}
		s.Eval(line)

		if atEOF {
			return nil
		}
	}
}
