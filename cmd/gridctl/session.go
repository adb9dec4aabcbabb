package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/arthur-debert/dispatchgrid/grid"
	"github.com/arthur-debert/dispatchgrid/source"
	"github.com/arthur-debert/dispatchgrid/storage"
	"github.com/arthur-debert/dispatchgrid/types"
)

// flushTimeout bounds the final layout write when a command ends
const flushTimeout = 5 * time.Second

// session is one loaded row file bound to its persisted layout
type session struct {
	cfg   Config
	path  string
	key   string
	table *source.Table
	grid  *grid.Controller[source.Record]
	prefs *storage.Async
}

// openSession loads path, opens the layout store and builds the controller
func (cli *CLI) openSession(operation, path string) (*session, error) {
	cfg := loadConfig(cli.viperInst)

	table, err := source.ReadFile(path)
	if err != nil {
		return nil, WrapError(operation, err, CommonSuggestions.CheckFile)
	}

	kind, err := storage.ParseKind(cfg.Store)
	if err != nil {
		return nil, NewConfigError(operation, err.Error(),
			fmt.Sprintf("Use one of: %s", kindNames()), CommonSuggestions.CheckConfig)
	}
	storePath := cfg.StorePath
	if storePath == "" {
		storePath = defaultStorePath(kind)
	}
	store, err := storage.Open(kind, storePath)
	if err != nil {
		return nil, WrapError(operation, err, CommonSuggestions.CheckStore, CommonSuggestions.CheckPerms)
	}
	prefs := storage.NewAsync(store, storage.AsyncOptions{Logger: cli.logger})

	key := cfg.Key
	if key == "" {
		key = storageKeyFor(path)
	}

	ctrl, err := grid.New(buildColumns(table.Columns, cfg.IDField), source.IDOf(cfg.IDField),
		grid.WithPreferences(prefs, key),
		grid.WithConfig(cfg.Grid),
		grid.WithLogger(cli.logger),
	)
	if err != nil {
		_ = prefs.Close()
		return nil, WrapError(operation, err, CommonSuggestions.CheckFile)
	}
	ctrl.SetRows(table.Records)

	cli.logger.Debug("session opened",
		"file", path,
		"rows", len(table.Records),
		"columns", len(table.Columns),
		"store", string(kind),
		"store_path", storePath,
		"key", key)

	return &session{cfg: cfg, path: path, key: key, table: table, grid: ctrl, prefs: prefs}, nil
}

// Close writes pending layout changes and releases the store
func (s *session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := s.prefs.Flush(ctx); err != nil {
		_ = s.prefs.Close()
		return err
	}
	return s.prefs.Close()
}

// column returns the definition of key, or a CLIError listing the keys
func (s *session) column(operation, key string) (types.ColumnDef[source.Record], error) {
	for _, col := range s.grid.Columns() {
		if col.Key == key {
			return col, nil
		}
	}
	return types.ColumnDef[source.Record]{}, NewUnknownColumnError(operation, key, s.table.Columns)
}

// storageKeyFor derives the layout key from the file name: orders.json -> orders
func storageKeyFor(path string) string {
	base := filepath.Base(path)
	if key := strings.TrimSuffix(base, filepath.Ext(base)); key != "" {
		return key
	}
	return base
}

// buildColumns defines one column per source key. The id column gets no
// value filter: every value is unique.
func buildColumns(keys []string, idField string) []types.ColumnDef[source.Record] {
	cols := make([]types.ColumnDef[source.Record], 0, len(keys))
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			continue
		}
		cols = append(cols, types.ColumnDef[source.Record]{
			Key:           key,
			Label:         columnLabel(key),
			DisableFilter: key == idField,
		})
	}
	return cols
}

// columnLabel turns "address.postal_code" into "Postal Code"
func columnLabel(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 && i < len(key)-1 {
		key = key[i+1:]
	}
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func kindNames() string {
	names := make([]string, 0, len(storage.Kinds()))
	for _, k := range storage.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
