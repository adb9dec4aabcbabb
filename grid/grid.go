// Package grid composes the column registry, layout manager, query engine
// and pager into the one controller a list page talks to.
//
// A Controller is synchronous and owned by a single goroutine. Intents
// mutate state and mark derived values stale; View recomputes them on
// demand and memoises the result until the next relevant intent.
package grid

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arthur-debert/dispatchgrid/grid/layout"
	"github.com/arthur-debert/dispatchgrid/grid/paging"
	"github.com/arthur-debert/dispatchgrid/grid/query"
	"github.com/arthur-debert/dispatchgrid/grid/registry"
	"github.com/arthur-debert/dispatchgrid/internal/validation"
	"github.com/arthur-debert/dispatchgrid/types"
)

var (
	// ErrNilIDFunc is returned when New is called without an id function
	ErrNilIDFunc = errors.New("grid: idOf must not be nil")

	// ErrDuplicateColumn and ErrEmptyColumnKey are the registry's
	// configuration errors
	ErrDuplicateColumn = registry.ErrDuplicateColumn
	ErrEmptyColumnKey  = registry.ErrEmptyColumnKey
)

// Controller is the per-table state machine
type Controller[T any] struct {
	registry  *registry.Registry[T]
	idOf      func(T) string
	layout    *layout.Manager
	processor *query.Processor[T]
	pager     *paging.Pager
	selection *paging.Selection

	filters types.FilterState
	sort    types.SortState
	ids     []string

	store        PreferenceStore
	storageKey   string
	storeTimeout time.Duration
	autoPrune    bool
	config       types.GridConfig
	logger       *slog.Logger

	result     query.Result
	queryStale bool
	view       View[T]
	viewStale  bool
}

// New validates columns and creates a controller with no rows.
// With WithPreferences the persisted layout is loaded once here; any load
// failure falls back to the registry defaults.
func New[T any](columns []types.ColumnDef[T], idOf func(T) string, opts ...Option) (*Controller[T], error) {
	reg, err := registry.New(columns...)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	if idOf == nil {
		return nil, ErrNilIDFunc
	}

	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	s.config = s.config.Normalized()

	if s.store != nil {
		if err := validation.ValidateStorageKey(s.storageKey); err != nil {
			return nil, fmt.Errorf("grid: %w", err)
		}
		s.logger = s.logger.With("table", s.storageKey)
	}

	c := &Controller[T]{
		registry:     reg,
		idOf:         idOf,
		pager:        paging.NewPager(s.config.PageSize),
		selection:    paging.NewSelection(),
		filters:      types.NewFilterState(),
		store:        s.store,
		storageKey:   s.storageKey,
		storeTimeout: s.storeTimeout,
		autoPrune:    s.autoPrune,
		config:       s.config,
		logger:       s.logger,
		queryStale:   true,
		viewStale:    true,
	}
	c.processor = query.NewProcessor(reg, query.WithLocale(s.config.Locale))
	c.layout = layout.New(reg.Specs(),
		layout.WithMinWidth(s.config.MinColumnWidth),
		layout.WithDefaultWidth(s.config.DefaultColumnWidth),
		layout.WithLogger(s.logger),
		layout.WithOnChange(c.saveLayout),
	)
	c.loadLayout()

	return c, nil
}

// MustNew is like New but panics on a configuration error
func MustNew[T any](columns []types.ColumnDef[T], idOf func(T) string, opts ...Option) *Controller[T] {
	c, err := New(columns, idOf, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Controller[T]) invalidate() {
	c.queryStale = true
	c.viewStale = true
}

// SetRows replaces the row source. The current page is clamped to the new
// row count and, unless auto-prune is off, selected ids missing from rows
// are dropped.
func (c *Controller[T]) SetRows(rows []T) {
	c.processor.Load(rows)
	c.ids = make([]string, len(rows))
	for i, row := range rows {
		c.ids[i] = c.idOf(row)
	}
	if c.autoPrune {
		if n := c.selection.Prune(c.ids); n > 0 {
			c.logger.Debug("selection pruned", "dropped", n)
		}
	}
	c.invalidate()
}

// SetColumns swaps the column registry, reconciling the layout with it.
// Filters and the sort on removed columns are dropped.
func (c *Controller[T]) SetColumns(columns []types.ColumnDef[T]) error {
	reg, err := registry.New(columns...)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	rows := c.processor.Rows()
	c.registry = reg
	c.processor = query.NewProcessor(reg, query.WithLocale(c.config.Locale))
	c.processor.Load(rows)
	c.layout.Reconcile(reg.Specs())

	for key := range c.filters.Columns {
		if col, ok := reg.Get(key); !ok || !col.Filterable() {
			c.filters.Clear(key)
		}
	}
	if col, ok := reg.Get(c.sort.Key); c.sort.Active() && (!ok || !col.Sortable()) {
		c.sort = types.SortState{}
	}
	c.pager.Reset()
	c.invalidate()
	return nil
}

// Filter intents

// SetGlobalQuery sets the free-text query and returns to page 0
func (c *Controller[T]) SetGlobalQuery(q string) {
	if q == c.filters.GlobalQuery {
		return
	}
	c.filters.GlobalQuery = q
	c.filtersChanged()
}

// ToggleColumnFilterValue adds value to key's filter or removes it.
// It returns whether value is selected afterwards; unknown and
// non-filterable columns are ignored.
func (c *Controller[T]) ToggleColumnFilterValue(key, value string) bool {
	if col, ok := c.registry.Get(key); !ok || !col.Filterable() {
		return false
	}
	selected := c.filters.Toggle(key, value)
	c.filtersChanged()
	return selected
}

// ClearColumnFilter removes key's filter
func (c *Controller[T]) ClearColumnFilter(key string) {
	if !c.filters.Active(key) {
		return
	}
	c.filters.Clear(key)
	c.filtersChanged()
}

// ClearAllFilters removes every column filter and the global query
func (c *Controller[T]) ClearAllFilters() {
	if c.filters.ActiveCount() == 0 && c.filters.GlobalQuery == "" {
		return
	}
	c.filters.ClearAll()
	c.filtersChanged()
}

func (c *Controller[T]) filtersChanged() {
	c.pager.Reset()
	c.invalidate()
}

// Sort intents

// SortBy applies a header click on key and returns the resulting sort.
// Unknown and non-sortable columns leave the sort unchanged.
func (c *Controller[T]) SortBy(key string) types.SortState {
	if col, ok := c.registry.Get(key); !ok || !col.Sortable() {
		return c.sort
	}
	c.sort = c.sort.Next(key)
	c.pager.Reset()
	c.invalidate()
	return c.sort
}

// SetSort sets the sort directly. It reports false for unknown or
// non-sortable keys and unknown directions.
func (c *Controller[T]) SetSort(state types.SortState) bool {
	switch state.Direction {
	case types.SortNone:
		state = types.SortState{}
	case types.SortAsc, types.SortDesc:
		if col, ok := c.registry.Get(state.Key); !ok || !col.Sortable() {
			return false
		}
	default:
		return false
	}
	if state == c.sort {
		return true
	}
	c.sort = state
	c.pager.Reset()
	c.invalidate()
	return true
}

// Layout intents

// ToggleVisibility flips key's visibility and returns the new value
func (c *Controller[T]) ToggleVisibility(key string) bool {
	if !c.registry.Has(key) {
		return false
	}
	visible := c.layout.ToggleVisibility(key)
	c.visibilityChanged()
	return visible
}

// SetColumnVisible shows or hides key and reports whether it changed
func (c *Controller[T]) SetColumnVisible(key string, visible bool) bool {
	if !c.layout.SetVisible(key, visible) {
		return false
	}
	c.visibilityChanged()
	return true
}

// The global query only searches visible columns
func (c *Controller[T]) visibilityChanged() {
	if c.filters.GlobalQuery != "" {
		c.queryStale = true
	}
	c.viewStale = true
}

// Reorder moves dragged in front of target
func (c *Controller[T]) Reorder(dragged, target string) bool {
	if !c.layout.Reorder(dragged, target) {
		return false
	}
	c.viewStale = true
	return true
}

// MoveColumnToEnd moves key behind every other column
func (c *Controller[T]) MoveColumnToEnd(key string) bool {
	if !c.layout.MoveToEnd(key) {
		return false
	}
	c.viewStale = true
	return true
}

// Resize sets key's width and returns the clamped width, or 0 for unknown
// keys
func (c *Controller[T]) Resize(key string, px int) int {
	w := c.layout.Resize(key, px)
	if w > 0 {
		c.viewStale = true
	}
	return w
}

// ResetLayout restores the registry defaults and persists them
func (c *Controller[T]) ResetLayout() {
	c.layout.Reset()
	c.visibilityChanged()
}

// Selection intents

// ToggleRow flips id's selection and returns whether it is selected
func (c *Controller[T]) ToggleRow(id string) bool {
	selected := c.selection.Toggle(id)
	c.viewStale = true
	return selected
}

// ToggleAllOnPage selects every id unless all are already selected, in
// which case it deselects them
func (c *Controller[T]) ToggleAllOnPage(ids []string) paging.TriState {
	state := c.selection.ToggleAll(ids)
	c.viewStale = true
	return state
}

// ToggleCurrentPage is ToggleAllOnPage over the rows of the current page
func (c *Controller[T]) ToggleCurrentPage() paging.TriState {
	return c.ToggleAllOnPage(c.View().RowIDs)
}

// PruneSelection keeps only selected ids present in live and returns how
// many were dropped
func (c *Controller[T]) PruneSelection(live []string) int {
	n := c.selection.Prune(live)
	if n > 0 {
		c.viewStale = true
	}
	return n
}

// ClearSelection deselects every row
func (c *Controller[T]) ClearSelection() {
	if c.selection.Len() == 0 {
		return
	}
	c.selection.Clear()
	c.viewStale = true
}

// Page intents

// SetPage moves to page n, clamped to the last page. Negative pages are
// rejected.
func (c *Controller[T]) SetPage(n int) bool {
	c.refresh()
	if !c.pager.SetPage(n, len(c.result.Rows)) {
		return false
	}
	c.viewStale = true
	return true
}

// SetPageSize changes the page size and returns to page 0. Negative sizes
// are rejected; 0 shows all rows.
func (c *Controller[T]) SetPageSize(n int) bool {
	if !c.pager.SetPageSize(n) {
		return false
	}
	c.viewStale = true
	return true
}

// Read side

// Layout returns a copy of the current layout
func (c *Controller[T]) Layout() types.LayoutState { return c.layout.State() }

// ColumnWidth returns key's rendered width, hidden columns included
func (c *Controller[T]) ColumnWidth(key string) int { return c.layout.Width(key) }

// Columns returns every column definition in registry order
func (c *Controller[T]) Columns() []types.ColumnDef[T] { return c.registry.Columns() }

// Filters returns a copy of the filter state
func (c *Controller[T]) Filters() types.FilterState { return c.filters.Clone() }

// Sort returns the active sort
func (c *Controller[T]) Sort() types.SortState { return c.sort }

// Selected returns the selected ids, sorted
func (c *Controller[T]) Selected() []string { return c.selection.IDs() }

// SelectedRows returns the loaded rows whose id is selected, in source order
func (c *Controller[T]) SelectedRows() []T {
	if c.selection.Len() == 0 {
		return nil
	}
	rows := c.processor.Rows()
	var out []T
	for i, id := range c.ids {
		if c.selection.Has(id) {
			out = append(out, rows[i])
		}
	}
	return out
}

// FilteredRows returns every row passing the filters, sorted, across all
// pages
func (c *Controller[T]) FilteredRows() []T {
	c.refresh()
	return c.processor.Select(c.result.Rows)
}

// StringValue returns row's stringified value for key
func (c *Controller[T]) StringValue(key string, row T) string {
	return c.registry.StringValue(key, row)
}
