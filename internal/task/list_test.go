package task

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func datePtr(y int, m time.Month, d int) *Date {
	dt := NewDate(y, m, d)
	return &dt
}

func TestAddAssignsIncreasingIDs(t *testing.T) {
	l := NewList(nil)

	var last int
	for i, name := range []string{"first", "second", "third", "fourth"} {
		task, err := l.Add(name, 1, nil, testNow)
		if err != nil {
			t.Fatalf("Add(%q) error = %v", name, err)
		}
		if task.ID <= last {
			t.Errorf("Add #%d id = %d, want > %d", i, task.ID, last)
		}
		last = task.ID
	}
	if last != 4 {
		t.Errorf("last id = %d, want 4", last)
	}

	seen := map[int]bool{}
	for _, task := range l.Tasks {
		if seen[task.ID] {
			t.Errorf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestAddFirstIDIsOne(t *testing.T) {
	l := NewList(nil)
	task, err := l.Add("only", 1, nil, testNow)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if task.ID != 1 {
		t.Errorf("ID = %d, want 1", task.ID)
	}
	if !task.Created.Equal(testNow) {
		t.Errorf("Created = %v, want %v", task.Created, testNow)
	}
	if task.Completed || task.CompletedAt != nil {
		t.Errorf("new task should be incomplete, got %+v", task)
	}
}

func TestAddDoesNotReuseIDsBelowMax(t *testing.T) {
	l := NewList(nil)
	for _, name := range []string{"a", "b", "c"} {
		if _, err := l.Add(name, 1, nil, testNow); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := l.Delete(2); err != nil {
		t.Fatal(err)
	}
	task, err := l.Add("d", 1, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if task.ID != 4 {
		t.Errorf("ID = %d, want 4", task.ID)
	}
}

func TestAddKeepsSortOrder(t *testing.T) {
	l := NewList(nil)
	adds := []struct {
		name     string
		priority int
		due      *Date
	}{
		{"no due p2", 2, nil},
		{"late p1", 1, datePtr(2024, 5, 1)},
		{"no due p1", 1, nil},
		{"early p3", 3, datePtr(2024, 4, 1)},
		{"early p1", 1, datePtr(2024, 4, 1)},
	}
	for _, a := range adds {
		if _, err := l.Add(a.name, a.priority, a.due, testNow); err != nil {
			t.Fatalf("Add(%q) error = %v", a.name, err)
		}
		if !l.IsSorted() {
			t.Fatalf("list not sorted after adding %q", a.name)
		}
	}

	want := []string{"early p1", "early p3", "late p1", "no due p1", "no due p2"}
	for i, task := range l.Tasks {
		if task.Name != want[i] {
			t.Errorf("Tasks[%d] = %q, want %q", i, task.Name, want[i])
		}
	}
}

func TestAddSortIsStable(t *testing.T) {
	l := NewList(nil)
	for _, name := range []string{"one", "two", "three"} {
		if _, err := l.Add(name, 1, nil, testNow); err != nil {
			t.Fatal(err)
		}
	}
	for i, want := range []string{"one", "two", "three"} {
		if l.Tasks[i].Name != want {
			t.Errorf("Tasks[%d] = %q, want %q", i, l.Tasks[i].Name, want)
		}
	}
}

func TestAddValidatesName(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		input   string
		wantErr error
	}{
		{name: "at default limit", input: strings.Repeat("x", 20)},
		{name: "over default limit", input: strings.Repeat("x", 21), wantErr: ErrNameTooLong},
		{name: "custom limit", limit: 5, input: "sixsix", wantErr: ErrNameTooLong},
		{name: "multibyte counted as runes", input: strings.Repeat("é", 20)},
		{name: "blank", input: "   ", wantErr: ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &List{MaxNameLength: tt.limit}
			_, err := l.Add(tt.input, 1, nil, testNow)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Add() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Add() error = %v, want %v", err, tt.wantErr)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Path != "name" {
				t.Errorf("expected ValidationError on name, got %#v", err)
			}
			if l.Len() != 0 {
				t.Errorf("rejected task was stored")
			}
		})
	}
}

func TestAddCopiesDueDate(t *testing.T) {
	l := NewList(nil)
	due := NewDate(2024, 6, 1)
	task, err := l.Add("copy", 1, &due, testNow)
	if err != nil {
		t.Fatal(err)
	}
	due.Day = 9
	if task.Due.Day != 1 || l.Tasks[0].Due.Day != 1 {
		t.Errorf("stored due date changed with caller's value")
	}
}

func TestDone(t *testing.T) {
	l := NewList(nil)
	if _, err := l.Add("finish me", 1, nil, testNow); err != nil {
		t.Fatal(err)
	}

	first := testNow.Add(time.Hour)
	task, err := l.Done(1, first)
	if err != nil {
		t.Fatalf("Done() error = %v", err)
	}
	if !task.Completed || task.CompletedAt == nil || !task.CompletedAt.Equal(first) {
		t.Errorf("Done() task = %+v", task)
	}

	t.Run("second call keeps completion", func(t *testing.T) {
		task, err := l.Done(1, first.Add(time.Hour))
		if !errors.Is(err, ErrAlreadyCompleted) {
			t.Fatalf("Done() error = %v, want ErrAlreadyCompleted", err)
		}
		if !task.Completed {
			t.Error("task became incomplete")
		}
		if !task.CompletedAt.Equal(first) {
			t.Errorf("CompletedAt = %v, want %v", task.CompletedAt, first)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := l.Done(99, first)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Done(99) error = %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteTwice(t *testing.T) {
	l := NewList(nil)
	for _, name := range []string{"keep", "drop"} {
		if _, err := l.Add(name, 1, nil, testNow); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := l.Delete(2)
	if err != nil {
		t.Fatalf("Delete(2) error = %v", err)
	}
	if removed.Name != "drop" {
		t.Errorf("removed %q, want drop", removed.Name)
	}
	if _, ok := l.Get(2); ok {
		t.Error("task 2 still present")
	}

	_, err = l.Delete(2)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete(2) error = %v, want ErrNotFound", err)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestPending(t *testing.T) {
	l := NewList(nil)
	for _, name := range []string{"a", "b", "c"} {
		if _, err := l.Add(name, 1, nil, testNow); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := l.Done(2, testNow); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter []int
		want   []int
	}{
		{name: "nil filter", filter: nil, want: []int{1, 3}},
		{name: "empty filter", filter: []int{}, want: nil},
		{name: "filter drops completed", filter: []int{2, 3}, want: []int{3}},
		{name: "unknown ids", filter: []int{42}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Pending(tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("Pending() = %d tasks, want %d", len(got), len(tt.want))
			}
			for i, task := range got {
				if task.Completed {
					t.Errorf("Pending() returned completed task %d", task.ID)
				}
				if task.ID != tt.want[i] {
					t.Errorf("Pending()[%d].ID = %d, want %d", i, task.ID, tt.want[i])
				}
			}
		})
	}
}

func TestQuery(t *testing.T) {
	l := NewList(nil)
	for _, name := range []string{"abcTask", "other", "ABC done", "xyz"} {
		if _, err := l.Add(name, 1, nil, testNow); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := l.Done(3, testNow); err != nil {
		t.Fatal(err)
	}

	ids := l.Query([]string{"ABC"})
	if len(ids) != 2 {
		t.Fatalf("Query(ABC) = %v, want two ids", ids)
	}

	pending := l.Pending(ids)
	if len(pending) != 1 || pending[0].Name != "abcTask" {
		t.Errorf("Pending(Query(ABC)) = %+v, want only abcTask", pending)
	}

	t.Run("any term matches", func(t *testing.T) {
		ids := l.Query([]string{"nope", "XY"})
		if len(ids) != 1 || ids[0] != 4 {
			t.Errorf("Query() = %v, want [4]", ids)
		}
	})

	t.Run("no match is empty not nil", func(t *testing.T) {
		ids := l.Query([]string{"zzz"})
		if ids == nil || len(ids) != 0 {
			t.Errorf("Query() = %#v, want empty slice", ids)
		}
		if got := l.Pending(ids); len(got) != 0 {
			t.Errorf("Pending(empty) = %+v, want none", got)
		}
	})
}

func TestCheck(t *testing.T) {
	l := NewList([]Task{
		{ID: 1, Name: "ok"},
		{ID: 1, Name: "dup"},
		{ID: 0, Name: "zero"},
		{ID: 3, Name: " "},
		{ID: 4, Name: "stamp", CompletedAt: &testNow},
	})
	errs := l.Check()
	if len(errs) != 4 {
		t.Fatalf("Check() = %v, want 4 errors", errs)
	}
	if !strings.Contains(errs[0].Error(), "duplicate id 1") {
		t.Errorf("errs[0] = %v", errs[0])
	}
	if NewList([]Task{{ID: 1, Name: "fine"}}).Check() != nil {
		t.Error("Check() on valid list returned errors")
	}
}

func TestMaxIDAndSort(t *testing.T) {
	l := NewList([]Task{
		{ID: 4, Name: "undated low", Priority: 3},
		{ID: 9, Name: "due later", Priority: 1, Due: datePtr(2024, time.April, 2)},
		{ID: 2, Name: "undated high", Priority: 1},
		{ID: 7, Name: "due soon", Priority: 2, Due: datePtr(2024, time.March, 11)},
	})

	if got := l.MaxID(); got != 9 {
		t.Errorf("MaxID() = %d, want 9", got)
	}
	if got := NewList(nil).MaxID(); got != 0 {
		t.Errorf("empty MaxID() = %d, want 0", got)
	}
	if l.IsSorted() {
		t.Fatal("fixture should start unsorted")
	}

	l.Sort()
	var ids []int
	for _, task := range l.Tasks {
		ids = append(ids, task.ID)
	}
	want := []int{7, 9, 2, 4}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("sorted ids = %v, want %v", ids, want)
		}
	}
	if !l.IsSorted() {
		t.Error("IsSorted() = false after Sort")
	}

	task, ok := l.Get(9)
	if !ok || task.Name != "due later" {
		t.Errorf("Get(9) = %+v, %v", task, ok)
	}
}
