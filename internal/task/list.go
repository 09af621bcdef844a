package task

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultMaxNameLength is the longest task name accepted by Add.
const DefaultMaxNameLength = 20

// DefaultPriority is the priority given to tasks when none is specified.
const DefaultPriority = 1

// ErrAlreadyCompleted is returned by Done when the task was already complete.
var ErrAlreadyCompleted = errors.New("task already completed")

// Task represents a single to-do entry.
type Task struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Priority    int        `json:"priority"`
	Created     time.Time  `json:"created"`
	Due         *Date      `json:"due,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// List is the ordered task collection.
type List struct {
	Tasks []Task
	// MaxNameLength bounds names passed to Add. Zero means DefaultMaxNameLength.
	MaxNameLength int
}

// NewList wraps tasks in a List. The slice is used as is.
func NewList(tasks []Task) *List {
	return &List{Tasks: tasks}
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.Tasks)
}

// MaxID returns the largest id in the list, or 0 when it is empty.
func (l *List) MaxID() int {
	largest := 0
	for _, t := range l.Tasks {
		if t.ID > largest {
			largest = t.ID
		}
	}
	return largest
}

// Get returns a copy of the task with the given id.
func (l *List) Get(id int) (Task, bool) {
	if i := l.index(id); i >= 0 {
		return l.Tasks[i], true
	}
	return Task{}, false
}

func (l *List) index(id int) int {
	for i := range l.Tasks {
		if l.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// ValidateName checks a task name against the list's length limit.
func (l *List) ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Path: "name", Err: ErrEmptyName}
	}
	limit := l.MaxNameLength
	if limit <= 0 {
		limit = DefaultMaxNameLength
	}
	if n := utf8.RuneCountInString(name); n > limit {
		return &ValidationError{
			Path: "name",
			Err:  fmt.Errorf("%w: %d characters, limit is %d", ErrNameTooLong, n, limit),
		}
	}
	return nil
}

// Add creates a task with the next unused id, stores it, and re-sorts the list.
func (l *List) Add(name string, priority int, due *Date, now time.Time) (Task, error) {
	if err := l.ValidateName(name); err != nil {
		return Task{}, err
	}
	t := Task{
		ID:       l.MaxID() + 1,
		Name:     name,
		Priority: priority,
		Created:  now,
	}
	if due != nil {
		d := *due
		t.Due = &d
	}
	l.Tasks = append(l.Tasks, t)
	l.Sort()
	return t, nil
}

// Sort orders tasks by due date (undated last) and then priority.
// Ties keep their current relative order.
func (l *List) Sort() {
	sort.SliceStable(l.Tasks, func(i, j int) bool {
		return Less(l.Tasks[i], l.Tasks[j])
	})
}

// Less reports whether a sorts before b by (effective due date, priority).
func Less(a, b Task) bool {
	if c := CompareDue(a.Due, b.Due); c != 0 {
		return c < 0
	}
	return a.Priority < b.Priority
}

// IsSorted reports whether the list is in (due date, priority) order.
func (l *List) IsSorted() bool {
	return sort.SliceIsSorted(l.Tasks, func(i, j int) bool {
		return Less(l.Tasks[i], l.Tasks[j])
	})
}

// Done marks a task completed and stamps now as its completion time.
// Completing a task twice leaves the first completion time in place and
// returns ErrAlreadyCompleted.
func (l *List) Done(id int, now time.Time) (Task, error) {
	i := l.index(id)
	if i < 0 {
		return Task{}, fmt.Errorf("complete task %d: %w", id, ErrNotFound)
	}
	t := &l.Tasks[i]
	if t.Completed {
		return *t, fmt.Errorf("complete task %d: %w", id, ErrAlreadyCompleted)
	}
	t.Completed = true
	t.CompletedAt = &now
	return *t, nil
}

// Delete removes the task with the given id.
func (l *List) Delete(id int) (Task, error) {
	i := l.index(id)
	if i < 0 {
		return Task{}, fmt.Errorf("delete task %d: %w", id, ErrNotFound)
	}
	removed := l.Tasks[i]
	l.Tasks = append(l.Tasks[:i], l.Tasks[i+1:]...)
	return removed, nil
}

// All returns every task, completed or not, in list order.
func (l *List) All() []Task {
	out := make([]Task, len(l.Tasks))
	copy(out, l.Tasks)
	return out
}

// Pending returns incomplete tasks in list order. A nil filter selects all
// of them; otherwise only tasks whose id is in filter are returned, so an
// empty non-nil filter returns nothing.
func (l *List) Pending(filter []int) []Task {
	var allowed map[int]bool
	if filter != nil {
		allowed = make(map[int]bool, len(filter))
		for _, id := range filter {
			allowed[id] = true
		}
	}

	var out []Task
	for _, t := range l.Tasks {
		if t.Completed {
			continue
		}
		if allowed != nil && !allowed[t.ID] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Query returns the ids of tasks whose name contains any of the terms,
// ignoring case. The result is never nil.
func (l *List) Query(terms []string) []int {
	lowered := make([]string, 0, len(terms))
	for _, term := range terms {
		lowered = append(lowered, strings.ToLower(term))
	}

	ids := make([]int, 0)
	for _, t := range l.Tasks {
		name := strings.ToLower(t.Name)
		for _, term := range lowered {
			if strings.Contains(name, term) {
				ids = append(ids, t.ID)
				break
			}
		}
	}
	return ids
}

// Check reports structural problems in a loaded list: duplicate ids,
// non-positive ids, blank names, and completion stamps on open tasks.
func (l *List) Check() []error {
	var errs []error
	seen := make(map[int]bool, len(l.Tasks))
	for i, t := range l.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if t.ID <= 0 {
			errs = append(errs, &ValidationError{Path: path + ".id", Err: fmt.Errorf("must be positive, got %d", t.ID)})
		} else if seen[t.ID] {
			errs = append(errs, &ValidationError{Path: path + ".id", Err: fmt.Errorf("duplicate id %d", t.ID)})
		}
		seen[t.ID] = true
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, &ValidationError{Path: path + ".name", Err: ErrEmptyName})
		}
		if !t.Completed && t.CompletedAt != nil {
			errs = append(errs, &ValidationError{Path: path + ".completed_at", Err: fmt.Errorf("set on an incomplete task")})
		}
	}
	return errs
}
