package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dispatchgrid/source"
	"github.com/arthur-debert/dispatchgrid/storage"
	"github.com/arthur-debert/dispatchgrid/types"
)

func TestParseFilters(t *testing.T) {
	got, err := parseFilters("view", []string{"status=PENDING", " city =Zagreb", "driver=", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, []filterArg{
		{key: "status", value: "PENDING"},
		{key: "city", value: "Zagreb"},
		{key: "driver", value: ""},
		{key: "note", value: "a=b"},
	}, got)

	for _, bad := range []string{"status", "=PENDING", "  =x"} {
		_, err := parseFilters("view", []string{bad})
		var cliErr *CLIError
		assert.True(t, errors.As(err, &cliErr), bad)
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		arg  string
		want types.SortState
	}{
		{"eta", types.SortState{Key: "eta", Direction: types.SortAsc}},
		{"eta:asc", types.SortState{Key: "eta", Direction: types.SortAsc}},
		{"eta:DESC", types.SortState{Key: "eta", Direction: types.SortDesc}},
		{"address.city:desc", types.SortState{Key: "address.city", Direction: types.SortDesc}},
	}
	for _, tt := range tests {
		got, err := parseSort("view", tt.arg)
		require.NoError(t, err, tt.arg)
		assert.Equal(t, tt.want, got, tt.arg)
	}

	for _, bad := range []string{"", ":asc", "eta:sideways"} {
		_, err := parseSort("view", bad)
		assert.Error(t, err, bad)
	}
}

func TestStorageKeyFor(t *testing.T) {
	assert.Equal(t, "orders", storageKeyFor("/data/orders.json"))
	assert.Equal(t, "stops.2026", storageKeyFor("stops.2026.csv"))
	assert.Equal(t, "README", storageKeyFor("README"))
	assert.Equal(t, ".env", storageKeyFor("/x/.env"))
}

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "Postal Code", columnLabel("address.postal_code"))
	assert.Equal(t, "Weight Kg", columnLabel("weight_kg"))
	assert.Equal(t, "Eta", columnLabel("eta"))
	assert.Equal(t, "Due Date", columnLabel("due-date"))
}

func TestBuildColumns(t *testing.T) {
	cols := buildColumns([]string{"id", " ", "city"}, "id")
	require.Len(t, cols, 2)
	assert.False(t, cols[0].Filterable())
	assert.True(t, cols[0].Sortable())
	assert.True(t, cols[1].Filterable())
	assert.Equal(t, "City", cols[1].Label)
}

func TestCLIErrorFormatting(t *testing.T) {
	err := NewUnknownColumnError("hide columns", "zip", []string{"id", "city"})
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, `Failed to hide columns: unknown column "zip"`))
	assert.Contains(t, msg, "Suggestions:")
	assert.Contains(t, msg, "2. Available columns: id, city")
}

func TestNewStoreErrorCauses(t *testing.T) {
	tests := []struct {
		err   error
		cause string
	}{
		{fmt.Errorf("open x: %w", fs.ErrNotExist), "file not found"},
		{fmt.Errorf("open x: %w", fs.ErrPermission), "insufficient permissions to access file"},
		{fmt.Errorf("%w after 3 attempts", storage.ErrLocked), "layout store is currently locked by another process"},
		{errors.New("database is locked (5) (SQLITE_BUSY)"), "layout store is currently locked by another process"},
		{fmt.Errorf("%w: notes.txt", source.ErrUnknownFormat), "unsupported file format"},
		{errors.New("something else entirely"), "operation failed"},
	}
	for _, tt := range tests {
		err := NewStoreError("view table", tt.err)
		assert.Equal(t, tt.cause, err.Cause, tt.err.Error())
		assert.Equal(t, tt.err.Error(), err.Details)
		assert.ErrorIs(t, err, tt.err)
	}
}

func TestWrapErrorKeepsCLIError(t *testing.T) {
	orig := NewValidationError("", "page", "0")
	wrapped := WrapError("view table", orig)

	var cliErr *CLIError
	require.True(t, errors.As(wrapped, &cliErr))
	assert.Same(t, orig, cliErr)
	assert.Equal(t, "view table", cliErr.Operation)
	assert.Nil(t, WrapError("view table", nil))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel(" DEBUG "))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("chatty"))
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var debug, warn bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}
	logger := slog.New(h).With("table", "orders")

	logger.Debug("layout changed")
	logger.Warn("store unavailable")

	assert.Contains(t, debug.String(), "layout changed")
	assert.Contains(t, debug.String(), "store unavailable")
	assert.NotContains(t, warn.String(), "layout changed")
	assert.Contains(t, warn.String(), "table=orders")
}
