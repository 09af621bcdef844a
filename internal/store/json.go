package store

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasktrack/internal/task"
	"github.com/nibzard/tasktrack/internal/utils"
)

//go:embed tasks.schema.json
var schemaSource string

const schemaURL = "tasks.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// document is the on-disk layout of a JSON task file.
type document struct {
	SchemaVersion int         `json:"schema_version"`
	Tasks         []task.Task `json:"tasks"`
}

// JSONStore keeps the task list in a single JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store backed by the JSON file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the task file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Close is a no-op; the file is only open during Load and Save.
func (s *JSONStore) Close() error {
	return nil
}

// Load reads and validates the task file. A missing file yields an empty list.
func (s *JSONStore) Load(ctx context.Context) (*task.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return task.NewList(nil), nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return Decode(data)
}

// Save writes the whole list with 2-space indentation and a trailing newline.
func (s *JSONStore) Save(ctx context.Context, l *task.List) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(l)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create task file dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}

// Encode renders a list as a task file document.
func Encode(l *task.List) ([]byte, error) {
	doc := document{SchemaVersion: SchemaVersion, Tasks: l.Tasks}
	if doc.Tasks == nil {
		doc.Tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task file: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode validates a task file document and returns its list.
func Decode(data []byte) (*task.List, error) {
	if errs := Validate(data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid task file: %w", errors.Join(errs...))
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	return task.NewList(doc.Tasks), nil
}

// Validate checks raw task file bytes against the embedded JSON Schema and
// the list invariants that the schema cannot express.
func Validate(data []byte) []error {
	schema, err := taskSchema()
	if err != nil {
		return []error{fmt.Errorf("compile task schema: %w", err)}
	}

	var instance interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&instance); err != nil {
		return []error{fmt.Errorf("parse task file: %w", err)}
	}

	if err := schema.Validate(instance); err != nil {
		var errs []error
		collectSchemaErrors(&errs, err)
		return errs
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return []error{fmt.Errorf("parse task file: %w", err)}
	}
	return task.NewList(doc.Tasks).Check()
}

func taskSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader([]byte(schemaSource))); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

func collectSchemaErrors(errs *[]error, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		*errs = append(*errs, err)
		return
	}
	collectValidationCauses(errs, ve)
}

func collectValidationCauses(errs *[]error, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		*errs = append(*errs, &task.ValidationError{
			Path: utils.JSONPointerToPath(ve.InstanceLocation),
			Err:  errors.New(ve.Message),
		})
		return
	}
	for _, cause := range ve.Causes {
		collectValidationCauses(errs, cause)
	}
}
