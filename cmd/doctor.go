package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/tasktrack/internal/config"
	"github.com/nibzard/tasktrack/internal/store"
	"github.com/nibzard/tasktrack/internal/task"
)

// doctorCommand checks the config files, timezone, and task store.
func doctorCommand(ctx context.Context, a *app, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tasktrack doctor", flag.ContinueOnError)
	fs.SetOutput(a.out)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := a.out
	cfg := a.cfg
	fmt.Fprintln(w, "tasktrack doctor")
	fmt.Fprintln(w, "================")
	fmt.Fprintln(w)

	allOK := true

	// Config files
	fmt.Fprintln(w, "Config files:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "  ✅ None found (using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	fmt.Fprintf(w, "  ✅ Timezone: %s\n", a.clock.Location)
	fmt.Fprintln(w)

	// Task store
	fmt.Fprintf(w, "Task store: %s (%s)\n", cfg.DataFile, cfg.Store)
	info, err := os.Stat(cfg.DataFile)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (created on first save)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		fmt.Fprintln(w, "  ✅ OK")
		if !checkStore(ctx, a, *verbose) {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. tasktrack may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkStore loads the task store and reports what it holds.
func checkStore(ctx context.Context, a *app, verbose bool) bool {
	w := a.out
	st, err := store.Open(a.cfg.Store, a.cfg.DataFile)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Open error: %v\n", err)
		return false
	}
	defer st.Close()

	l, err := st.Load(ctx)
	if err != nil {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(w, "     - %s\n", line)
		}
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")

	pending := len(l.Pending(nil))
	fmt.Fprintf(w, "  Tasks: %d (%d pending, %d completed)\n", l.Len(), pending, l.Len()-pending)
	if overdue := countOverdue(l, a.clock.Today()); overdue > 0 {
		fmt.Fprintf(w, "  ⚠️  %d pending task(s) past their due date\n", overdue)
	}
	if !l.IsSorted() {
		fmt.Fprintln(w, "  ⚠️  Tasks are not in due date order (fixed on next add)")
	}
	if verbose {
		for _, t := range l.All() {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Fprintf(w, "    - [%s] %d: %s\n", mark, t.ID, t.Name)
		}
	}
	return true
}

// countOverdue counts pending tasks due strictly before today.
func countOverdue(l *task.List, today task.Date) int {
	n := 0
	for _, t := range l.Pending(nil) {
		if t.Due != nil && t.Due.Compare(today) < 0 {
			n++
		}
	}
	return n
}
