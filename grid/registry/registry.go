// Package registry holds the static column description of one table.
package registry

import (
	"github.com/arthur-debert/dispatchgrid/internal/validation"
	"github.com/arthur-debert/dispatchgrid/types"
)

var (
	// ErrDuplicateColumn is returned when two columns share a key
	ErrDuplicateColumn = validation.ErrDuplicateKey

	// ErrEmptyColumnKey is returned for a column without a key
	ErrEmptyColumnKey = validation.ErrEmptyKey
)

// Registry is an immutable, validated set of column definitions
type Registry[T any] struct {
	columns []types.ColumnDef[T]
	index   map[string]int
}

// New validates columns and builds a registry.
// Registry order is the default layout order.
func New[T any](columns ...types.ColumnDef[T]) (*Registry[T], error) {
	keys := make([]string, len(columns))
	for i, c := range columns {
		keys[i] = c.Key
	}
	if err := validation.ValidateColumnKeys(keys); err != nil {
		return nil, err
	}

	r := &Registry[T]{
		columns: append([]types.ColumnDef[T](nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range r.columns {
		r.index[c.Key] = i
	}
	return r, nil
}

// MustNew is like New but panics on invalid columns.
// Intended for package-level column tables.
func MustNew[T any](columns ...types.ColumnDef[T]) *Registry[T] {
	r, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of columns
func (r *Registry[T]) Len() int { return len(r.columns) }

// Columns returns the definitions in registry order
func (r *Registry[T]) Columns() []types.ColumnDef[T] {
	return append([]types.ColumnDef[T](nil), r.columns...)
}

// Keys returns the keys in registry order
func (r *Registry[T]) Keys() []string {
	keys := make([]string, len(r.columns))
	for i, c := range r.columns {
		keys[i] = c.Key
	}
	return keys
}

// Specs returns the layout-relevant part of every column
func (r *Registry[T]) Specs() []types.ColumnSpec {
	specs := make([]types.ColumnSpec, len(r.columns))
	for i, c := range r.columns {
		specs[i] = c.Spec()
	}
	return specs
}

// Get looks a column up by key
func (r *Registry[T]) Get(key string) (types.ColumnDef[T], bool) {
	i, ok := r.index[key]
	if !ok {
		return types.ColumnDef[T]{}, false
	}
	return r.columns[i], true
}

// Has reports whether key is registered
func (r *Registry[T]) Has(key string) bool {
	_, ok := r.index[key]
	return ok
}

// Position returns the registry index of key, or -1
func (r *Registry[T]) Position(key string) int {
	if i, ok := r.index[key]; ok {
		return i
	}
	return -1
}

// Filterable returns the columns that get a filter menu
func (r *Registry[T]) Filterable() []types.ColumnDef[T] {
	var out []types.ColumnDef[T]
	for _, c := range r.columns {
		if c.Filterable() {
			out = append(out, c)
		}
	}
	return out
}

// StringValue returns row's stringified value for key; unknown keys are blank
func (r *Registry[T]) StringValue(key string, row T) string {
	c, ok := r.Get(key)
	if !ok {
		return ""
	}
	return c.StringValue(row)
}
