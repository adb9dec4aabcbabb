package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/arthur-debert/dispatchgrid/source"
	"github.com/arthur-debert/dispatchgrid/storage"
)

// CLIError is a failed command as shown to the user: what was attempted,
// why it failed and what to try next
type CLIError struct {
	Operation   string // e.g. "view table", "hide columns"
	Cause       string // e.g. `unknown column "zip"`
	Details     string // text of the underlying error, if any
	Suggestions []string
	Underlying  error
}

func (e *CLIError) Error() string {
	op := e.Operation
	if op == "" {
		op = "run command"
	}
	lines := []string{"Failed to " + op}
	if e.Cause != "" {
		lines[0] += ": " + e.Cause
	}
	if e.Details != "" {
		lines[0] += " (" + e.Details + ")"
	}
	if len(e.Suggestions) > 0 {
		lines = append(lines, "", "Suggestions:")
		for i, s := range e.Suggestions {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, s))
		}
	}
	return strings.Join(lines, "\n")
}

func (e *CLIError) Unwrap() error { return e.Underlying }

// NewValidationError reports a bad argument or flag value
func NewValidationError(operation, field, value string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("invalid %s: %q", field, value),
		Suggestions: suggestions,
	}
}

// NewUnknownColumnError reports a column key the table does not have
func NewUnknownColumnError(operation, key string, available []string) *CLIError {
	e := &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("unknown column %q", key),
		Suggestions: []string{"Run 'gridctl columns list <file>' to see the column keys"},
	}
	if len(available) > 0 {
		e.Suggestions = append(e.Suggestions, "Available columns: "+strings.Join(available, ", "))
	}
	return e
}

// NewConfigError reports an unusable configuration value
func NewConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       "configuration error: " + issue,
		Suggestions: suggestions,
	}
}

// NewStoreError reports a failure reading the row file or the layout store
func NewStoreError(operation string, underlying error, suggestions ...string) *CLIError {
	e := &CLIError{
		Operation:   operation,
		Cause:       storeCause(underlying),
		Suggestions: suggestions,
		Underlying:  underlying,
	}
	if underlying != nil {
		e.Details = underlying.Error()
	}
	return e
}

func storeCause(err error) string {
	switch {
	case err == nil:
		return "operation failed"
	case errors.Is(err, fs.ErrNotExist):
		return "file not found"
	case errors.Is(err, fs.ErrPermission):
		return "insufficient permissions to access file"
	case errors.Is(err, storage.ErrLocked), strings.Contains(err.Error(), "database is locked"):
		return "layout store is currently locked by another process"
	case errors.Is(err, source.ErrUnknownFormat):
		return "unsupported file format"
	case errors.Is(err, storage.ErrClosed):
		return "layout store is closed"
	}
	return "operation failed"
}

// WrapError gives err a CLI context. An existing CLIError keeps its own
// but inherits operation when it has none.
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}
	return NewStoreError(operation, err, suggestions...)
}

// CommonSuggestions are the hints shared by several commands
var CommonSuggestions = struct {
	CheckFile   string
	CheckStore  string
	CheckConfig string
	CheckPerms  string
}{
	CheckFile:   "Verify the row file exists and ends in .json, .jsonl, .yaml, .yml or .csv",
	CheckStore:  "Verify --store and --store-path point to a usable layout store",
	CheckConfig: "Check your configuration file or GRIDCTL_* environment variables",
	CheckPerms:  "Check file permissions and directory access",
}
