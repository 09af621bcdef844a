package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/tasktrack/internal/table"
	"github.com/nibzard/tasktrack/internal/task"
	"github.com/nibzard/tasktrack/internal/ui"
)

// reportTimeLayout formats creation and completion stamps in report output.
const reportTimeLayout = "Mon Jan _2 15:04:05 MST 2006"

const missingCell = "-"

var listColumns = []table.Column{
	{Title: "ID", Width: 5},
	{Title: "Age", Width: 5},
	{Title: "Due Date", Width: 11},
	{Title: "Priority", Width: 11},
	{Title: "Task"},
}

var reportColumns = []table.Column{
	{Title: "ID", Width: 5},
	{Title: "Age", Width: 5},
	{Title: "Due Date", Width: 11},
	{Title: "Priority", Width: 11},
	{Title: "Task", Width: 20},
	{Title: "Created", Width: 30},
	{Title: "Completed"},
}

// addCommand creates a task from the remaining arguments.
func addCommand(ctx context.Context, a *app, l *task.List, args []string) error {
	fs := flag.NewFlagSet("tasktrack add", flag.ContinueOnError)
	fs.SetOutput(a.out)
	due := fs.String("due", "", "Due date (MM/DD/YYYY)")
	priority := fs.Int("priority", a.cfg.DefaultPriority, "Task priority")

	if err := fs.Parse(args); err != nil {
		return err
	}

	name := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if name == "" {
		return fmt.Errorf("add requires a task name")
	}

	// The name is checked before the due date so an overlong name is
	// reported even when the date is also bad.
	if err := l.ValidateName(name); err != nil {
		if errors.Is(err, task.ErrNameTooLong) {
			a.log.Warn("task not added", "err", err)
			fmt.Fprintf(a.out, "Please enter a task name with less than %d characters in length.\n", nameLimit(l)+1)
			return nil
		}
		return err
	}

	var dueDate *task.Date
	if *due != "" {
		d, err := task.ParseDate(*due)
		if err != nil {
			return err
		}
		dueDate = &d
	}

	t, err := l.Add(name, *priority, dueDate, a.clock.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created task %d\n", t.ID)
	return nil
}

// listCommand prints incomplete tasks.
func listCommand(ctx context.Context, a *app, l *task.List, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return a.renderPending(l, nil)
}

// queryCommand prints incomplete tasks whose name matches any term.
func queryCommand(ctx context.Context, a *app, l *task.List, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("query requires at least one search term")
	}
	ids := l.Query(args)
	a.log.Debug("query matched", "terms", args, "ids", ids)
	return a.renderPending(l, ids)
}

// reportCommand prints every task with creation and completion times.
func reportCommand(ctx context.Context, a *app, l *task.List, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	now := a.clock.Now()
	loc := a.clock.Location
	var rows [][]string
	for _, t := range l.All() {
		completed := missingCell
		if t.CompletedAt != nil {
			completed = t.CompletedAt.In(loc).Format(reportTimeLayout)
		}
		rows = append(rows, append(taskCells(t, now),
			t.Created.In(loc).Format(reportTimeLayout),
			completed,
		))
	}
	tbl := table.New(reportColumns...)
	tbl.Styled = a.styled
	return tbl.Render(a.out, rows)
}

// doneCommand marks a task complete.
func doneCommand(ctx context.Context, a *app, l *task.List, args []string) error {
	id, err := parseID("done", args)
	if err != nil {
		return err
	}
	_, err = l.Done(id, a.clock.Now())
	switch {
	case errors.Is(err, task.ErrNotFound):
		fmt.Fprintf(a.out, "Could not complete. Task %d not in list.\n", id)
	case errors.Is(err, task.ErrAlreadyCompleted):
		fmt.Fprintf(a.out, "Task %d already completed\n", id)
	case err != nil:
		return err
	default:
		fmt.Fprintf(a.out, "Completed task %d\n", id)
	}
	return nil
}

// deleteCommand removes a task.
func deleteCommand(ctx context.Context, a *app, l *task.List, args []string) error {
	id, err := parseID("delete", args)
	if err != nil {
		return err
	}
	if _, err := l.Delete(id); err != nil {
		if errors.Is(err, task.ErrNotFound) {
			fmt.Fprintf(a.out, "Could not delete. Task %d not in list.\n", id)
			return nil
		}
		return err
	}
	fmt.Fprintf(a.out, "Deleted task %d\n", id)
	return nil
}

// tuiCommand launches the interactive browser over the loaded list.
func tuiCommand(ctx context.Context, a *app, l *task.List, args []string) error {
	fs := flag.NewFlagSet("tasktrack tui", flag.ContinueOnError)
	fs.SetOutput(a.out)
	all := fs.Bool("all", false, "Start with completed tasks shown")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return ui.RunTUI(ctx, l, a.clock, ui.WithColor(a.styled), ui.WithShowAll(*all), ui.WithOutput(a.out))
}

func (a *app) renderPending(l *task.List, filter []int) error {
	now := a.clock.Now()
	var rows [][]string
	for _, t := range l.Pending(filter) {
		rows = append(rows, taskCells(t, now))
	}
	tbl := table.New(listColumns...)
	tbl.Styled = a.styled
	return tbl.Render(a.out, rows)
}

// taskCells returns the id, age, due, priority, and name cells for t.
func taskCells(t task.Task, now time.Time) []string {
	due := missingCell
	if t.Due != nil {
		due = t.Due.String()
	}
	return []string{
		strconv.Itoa(t.ID),
		fmt.Sprintf("%dd", task.AgeDays(t.Created, now)),
		due,
		strconv.Itoa(t.Priority),
		t.Name,
	}
}

func nameLimit(l *task.List) int {
	if l.MaxNameLength > 0 {
		return l.MaxNameLength
	}
	return task.DefaultMaxNameLength
}

// parseID reads the single task id argument of done and delete.
func parseID(command string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s requires exactly one task id", command)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}
