// Package cmd implements the CLI command structure for tasktrack.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktrack/internal/config"
	"github.com/nibzard/tasktrack/internal/logging"
	"github.com/nibzard/tasktrack/internal/store"
	"github.com/nibzard/tasktrack/internal/task"
	"github.com/nibzard/tasktrack/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// now is the time source handed to every clock; tests pin it.
var now = time.Now

// app carries the per-invocation state shared by command handlers.
type app struct {
	cfg    *config.Config
	log    *log.Logger
	clock  *task.Clock
	out    io.Writer
	styled bool
}

// listHandler runs against the loaded task list. The list is saved after it
// returns nil and left untouched on disk otherwise.
type listHandler func(ctx context.Context, a *app, l *task.List, args []string) error

var listCommands = map[string]listHandler{
	"add":    addCommand,
	"list":   listCommand,
	"ls":     listCommand,
	"report": reportCommand,
	"query":  queryCommand,
	"done":   doneCommand,
	"delete": deleteCommand,
	"rm":     deleteCommand,
	"tui":    tuiCommand,
}

// Run executes the tasktrack CLI.
func Run(ctx context.Context, args []string) error {
	return Execute(ctx, args, os.Stdout, os.Stderr)
}

// Execute runs the CLI writing results to stdout and diagnostics to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasktrack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stdout)
		return nil
	}
	subcommand, rest := remaining[0], remaining[1:]

	switch subcommand {
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	case "config":
		return configCommand(cws, rest, stdout)
	}

	a, err := newApp(cws.Config, stdout, stderr)
	if err != nil {
		return err
	}

	if subcommand == "doctor" {
		return doctorCommand(ctx, a, cws, rest)
	}
	handler, ok := listCommands[subcommand]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
	return a.withList(ctx, handler, rest)
}

// newApp builds the logger and clock from the loaded config.
func newApp(cfg *config.Config, stdout, stderr io.Writer) (*app, error) {
	logger, err := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	if err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}
	clock, err := task.NewClock(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	clock.NowFunc = now
	return &app{
		cfg:    cfg,
		log:    logger,
		clock:  clock,
		out:    stdout,
		styled: useColor(cfg.Color, stdout),
	}, nil
}

// withList loads the task list, runs h, and saves the list back.
func (a *app) withList(ctx context.Context, h listHandler, args []string) (err error) {
	st, err := store.Open(a.cfg.Store, a.cfg.DataFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing store: %w", cerr)
		}
	}()

	l, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading tasks from %s: %w", st.Path(), err)
	}
	l.MaxNameLength = a.cfg.MaxNameLength
	a.log.Debug("loaded tasks", "store", a.cfg.Store, "path", st.Path(), "count", l.Len())

	if err := h(ctx, a, l, args); err != nil {
		return err
	}

	if err := st.Save(ctx, l); err != nil {
		return fmt.Errorf("saving tasks to %s: %w", st.Path(), err)
	}
	a.log.Debug("saved tasks", "path", st.Path(), "count", l.Len())
	return nil
}

// useColor resolves the color mode against the output writer.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return ui.IsTTY(w)
	}
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasktrack version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasktrack - a personal to-do list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasktrack [global options] <command> [options] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add [-due MM/DD/YYYY] [-priority N] <name...>")
	fmt.Fprintln(w, "                     Add a task")
	fmt.Fprintln(w, "  list               List incomplete tasks")
	fmt.Fprintln(w, "  report             List every task with creation and completion times")
	fmt.Fprintln(w, "  query <term...>    List incomplete tasks whose name contains any term")
	fmt.Fprintln(w, "  done <id>          Mark a task complete")
	fmt.Fprintln(w, "  delete <id>        Remove a task")
	fmt.Fprintln(w, "  tui [-all]         Browse and update tasks interactively")
	fmt.Fprintln(w, "  doctor [-v]        Check config and task file validity")
	fmt.Fprintln(w, "  config [-example]  Show effective configuration")
	fmt.Fprintln(w, "  version            Show version information")
	fmt.Fprintln(w, "  help               Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global options:")

	prev := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(prev)
}
