package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nibzard/tasktrack/internal/task"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    priority INTEGER NOT NULL,
    created TEXT NOT NULL,
    due TEXT,
    completed INTEGER NOT NULL DEFAULT 0,
    completed_at TEXT
);
`

// SQLiteStore keeps the task list in a SQLite database file.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// NewSQLiteStore records the database path. The database is opened lazily
// so that a load against a missing file does not create it.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	return &SQLiteStore{path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database if it was opened.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	s.db = db
	return db, nil
}

// hasTasksTable reports whether the schema has been created.
func hasTasksTable(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'tasks'`).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect schema: %w", err)
	}
	return n > 0, nil
}

// Load reads every task in stored order. A missing database, or one without
// a tasks table, yields an empty list. Load never writes to the database.
func (s *SQLiteStore) Load(ctx context.Context) (*task.List, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
			return task.NewList(nil), nil
		}
	}
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := hasTasksTable(ctx, db)
	if err != nil {
		return nil, err
	}
	if !ok {
		return task.NewList(nil), nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, name, priority, created, due, completed, completed_at FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}

	l := task.NewList(tasks)
	if errs := l.Check(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid task database: %w", errors.Join(errs...))
	}
	return l, nil
}

func scanTask(rows *sql.Rows) (task.Task, error) {
	var (
		t           task.Task
		created     string
		due         sql.NullString
		completed   int
		completedAt sql.NullString
	)
	if err := rows.Scan(&t.ID, &t.Name, &t.Priority, &created, &due, &completed, &completedAt); err != nil {
		return t, fmt.Errorf("scan task: %w", err)
	}

	var err error
	if t.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return t, fmt.Errorf("task %d created: %w", t.ID, err)
	}
	if due.Valid {
		d, err := time.Parse(task.StorageDateLayout, due.String)
		if err != nil {
			return t, fmt.Errorf("task %d due: %w", t.ID, err)
		}
		date := task.DateOf(d)
		t.Due = &date
	}
	t.Completed = completed != 0
	if completedAt.Valid {
		at, err := time.Parse(time.RFC3339Nano, completedAt.String)
		if err != nil {
			return t, fmt.Errorf("task %d completed_at: %w", t.ID, err)
		}
		t.CompletedAt = &at
	}
	return t, nil
}

// Save replaces every stored row with the list inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, l *task.List) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tasks (id, position, name, priority, created, due, completed, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range l.Tasks {
		var due, completedAt sql.NullString
		if t.Due != nil {
			due = sql.NullString{String: t.Due.ISO(), Valid: true}
		}
		if t.CompletedAt != nil {
			completedAt = sql.NullString{String: t.CompletedAt.Format(time.RFC3339Nano), Valid: true}
		}
		completed := 0
		if t.Completed {
			completed = 1
		}
		if _, err := stmt.ExecContext(ctx, t.ID, i, t.Name, t.Priority,
			t.Created.Format(time.RFC3339Nano), due, completed, completedAt); err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tasks: %w", err)
	}
	return nil
}
