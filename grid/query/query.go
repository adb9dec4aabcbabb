// Package query evaluates the filter, search and sort state of a table
// against its rows.
//
// A Processor stringifies every cell once per row set and answers each
// evaluation from that table: the filtered, sorted row indexes and the
// cascading distinct values that populate each column's filter menu.
package query

import (
	"github.com/arthur-debert/dispatchgrid/grid/registry"
	"github.com/arthur-debert/dispatchgrid/types"
)

// Request is the transient table state one evaluation depends on
type Request struct {
	// Visible lists the rendered column keys; the global query only
	// searches these
	Visible []string

	Filters types.FilterState
	Sort    types.SortState
}

// Result is the outcome of one evaluation
type Result struct {
	// Rows holds indexes into the loaded rows, filtered and sorted
	Rows []int

	// Distinct maps every filterable column key to its menu values.
	// Columns with an empty cascade pool map to an empty slice.
	Distinct map[string][]string
}

// Option configures a Processor
type Option func(*config)

type config struct {
	locale string
}

// WithLocale sets the BCP 47 tag used for string collation
func WithLocale(tag string) Option {
	return func(c *config) {
		if tag != "" {
			c.locale = tag
		}
	}
}

// Processor evaluates requests against one row set
type Processor[T any] struct {
	registry *registry.Registry[T]
	compare  *Comparator
	rows     []T
	cells    [][]string
}

// NewProcessor creates a processor for reg's columns with no rows loaded
func NewProcessor[T any](reg *registry.Registry[T], opts ...Option) *Processor[T] {
	cfg := config{locale: types.DefaultLocale}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Processor[T]{
		registry: reg,
		compare:  NewComparator(cfg.locale),
	}
}

// Load replaces the row set and stringifies its cells
func (p *Processor[T]) Load(rows []T) {
	columns := p.registry.Columns()
	p.rows = rows
	p.cells = make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(columns))
		for j, c := range columns {
			cells[j] = c.StringValue(row)
		}
		p.cells[i] = cells
	}
}

// Rows returns the loaded rows
func (p *Processor[T]) Rows() []T { return p.rows }

// Len returns the number of loaded rows
func (p *Processor[T]) Len() int { return len(p.rows) }

// Cell returns the stringified value of column key in row i
func (p *Processor[T]) Cell(i int, key string) string {
	col := p.registry.Position(key)
	if col < 0 || i < 0 || i >= len(p.cells) {
		return ""
	}
	return p.cells[i][col]
}

// Comparator returns the comparator used for sorting and menu ordering
func (p *Processor[T]) Comparator() *Comparator { return p.compare }

// Execute runs filter, search and sort in that order
func (p *Processor[T]) Execute(req Request) Result {
	rows, distinct := p.Filter(req.Visible, req.Filters)
	p.Sort(rows, req.Sort)
	return Result{Rows: rows, Distinct: distinct}
}

// Select maps row indexes back to rows
func (p *Processor[T]) Select(indexes []int) []T {
	out := make([]T, len(indexes))
	for i, idx := range indexes {
		out[i] = p.rows[idx]
	}
	return out
}
