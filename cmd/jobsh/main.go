package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/mattjoyce/jobsh/internal/config"
	"github.com/mattjoyce/jobsh/internal/history"
	"github.com/mattjoyce/jobsh/internal/job"
	"github.com/mattjoyce/jobsh/internal/log"
	"github.com/mattjoyce/jobsh/internal/relay"
	"github.com/mattjoyce/jobsh/internal/shell"
	"github.com/mattjoyce/jobsh/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("jobsh", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		help       = fs.Bool("h", false, "print this message")
		verbose    = fs.Bool("v", false, "print additional diagnostic information")
		noPrompt   = fs.Bool("p", false, "do not emit a command prompt")
		configPath = fs.String("config", "", "path to configuration file")
	)

	if err := fs.Parse(args); err != nil || *help {
		usage()
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobsh: %v\n", err)
		return 1
	}

	setupLogging(cfg, *verbose)
	logger := log.WithComponent("main")

	ctx := context.Background()

	var hist *history.Store
	if cfg.HistoryEnabled() {
		db, err := storage.OpenSQLite(ctx, cfg.History.Path)
		if err != nil {
			// History is a convenience; a broken db must not keep the
			// shell from starting.
			logger.Warn("open history database", "path", cfg.History.Path, "error", err)
		} else {
			defer db.Close()
			hist = history.New(db)
			logger = log.WithSession(hist.SessionID()).With("component", "main")
		}
	}

	registry := job.NewRegistry(cfg.Shell.MaxJobs, log.WithComponent("registry"))

	rel := relay.New(registry, os.Stdout)
	if err := rel.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "jobsh: install notification handlers: %v\n", err)
		return 1
	}
	defer rel.Stop()

	// Scripted drivers pipe commands in and still expect the prompt, so only
	// -p suppresses it; TTY detection just informs logging and styling.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	emitPrompt := !*noPrompt

	logger.Info("jobsh starting",
		"interactive", interactive,
		"max_jobs", cfg.Shell.MaxJobs,
		"history", hist != nil,
	)

	sh := shell.New(cfg, registry, rel, hist, os.Stdout, emitPrompt)
	if err := sh.Run(os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "jobsh: %v\n", err)
		return 1
	}
	return 0
}

// setupLogging routes diagnostics away from the interactive stdout path:
// verbose mode streams text to stderr at debug level, otherwise records go to
// the configured log file. A file that cannot be opened silently degrades to
// discarding, never to polluting the terminal.
func setupLogging(cfg *config.Config, verbose bool) {
	if verbose {
		log.Setup("debug", "text", os.Stderr)
		return
	}

	var w io.Writer = io.Discard
	if cfg.Log.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err == nil {
			if f, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				w = f
			}
		}
	}
	log.Setup(cfg.Log.Level, cfg.Log.Format, w)
}

func usage() {
	fmt.Print(`Usage: jobsh [-hvp] [--config PATH]
   -h        print this message
   -v        print additional diagnostic information
   -p        do not emit a command prompt
   --config  path to configuration file
`)
}
