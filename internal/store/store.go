// Package store persists the task list between invocations.
//
// Every store writes the whole list on Save; there are no incremental
// updates. A store whose backing file does not exist yet loads as an empty
// list.
package store

import (
	"context"
	"fmt"

	"github.com/nibzard/tasktrack/internal/task"
	"github.com/nibzard/tasktrack/internal/utils"
)

// Driver names accepted by Open.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// SchemaVersion is the version written into every task file.
const SchemaVersion = 1

// Store loads and saves the full task list.
type Store interface {
	Load(ctx context.Context) (*task.List, error)
	Save(ctx context.Context, l *task.List) error
	Path() string
	Close() error
}

// Open returns the store for driver at path.
func Open(driver, path string) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	switch utils.NormalizeName(driver) {
	case "", DriverJSON:
		return NewJSONStore(path), nil
	case DriverSQLite, "sqlite3":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q (want %s or %s)", driver, DriverJSON, DriverSQLite)
	}
}
