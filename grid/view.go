package grid

import (
	"github.com/arthur-debert/dispatchgrid/grid/paging"
	"github.com/arthur-debert/dispatchgrid/grid/query"
	"github.com/arthur-debert/dispatchgrid/types"
)

// Column is a rendered column of a View
type Column struct {
	Key        string
	Label      string
	Width      int
	Sortable   bool
	Filterable bool

	// Sort is the column's direction when it is the active sort column
	Sort types.SortDirection

	// ActiveFilters is the number of values selected in its filter
	ActiveFilters int
}

// View is everything a renderer needs for one frame. Views are cached
// between intents and must be treated as read-only.
type View[T any] struct {
	// Columns are the visible columns in layout order
	Columns []Column

	// Rows and RowIDs are the current page
	Rows   []T
	RowIDs []string

	// Distinct holds the filter menu of every filterable column, hidden
	// columns included
	Distinct map[string][]string

	Selected      []string
	PageSelection paging.TriState

	Sort      types.SortState
	Filters   types.FilterState
	Page      types.PageState
	PageCount int

	FilteredCount int
	TotalCount    int
}

// View returns the current snapshot, recomputing only what changed since
// the last call
func (c *Controller[T]) View() View[T] {
	c.refresh()
	if c.viewStale {
		c.view = c.buildView()
		c.viewStale = false
	}
	return c.view
}

// refresh reruns filter, search and sort when one of their inputs changed
func (c *Controller[T]) refresh() {
	if !c.queryStale {
		return
	}
	c.result = c.processor.Execute(query.Request{
		Visible: c.layout.VisibleOrder(),
		Filters: c.filters,
		Sort:    c.sort,
	})
	c.pager.Clamp(len(c.result.Rows))
	c.queryStale = false
	c.viewStale = true
}

func (c *Controller[T]) buildView() View[T] {
	page := c.pager.State()
	start, end := paging.Bounds(len(c.result.Rows), page)
	pageRows := c.result.Rows[start:end]

	ids := make([]string, len(pageRows))
	for i, idx := range pageRows {
		ids[i] = c.ids[idx]
	}

	return View[T]{
		Columns:       c.visibleColumns(),
		Rows:          c.processor.Select(pageRows),
		RowIDs:        ids,
		Distinct:      c.result.Distinct,
		Selected:      c.selection.IDs(),
		PageSelection: c.selection.State(ids),
		Sort:          c.sort,
		Filters:       c.filters.Clone(),
		Page:          page,
		PageCount:     c.pager.PageCount(len(c.result.Rows)),
		FilteredCount: len(c.result.Rows),
		TotalCount:    c.processor.Len(),
	}
}

func (c *Controller[T]) visibleColumns() []Column {
	keys := c.layout.VisibleOrder()
	out := make([]Column, 0, len(keys))
	for _, key := range keys {
		def, ok := c.registry.Get(key)
		if !ok {
			continue
		}
		col := Column{
			Key:           key,
			Label:         def.Label,
			Width:         c.layout.Width(key),
			Sortable:      def.Sortable(),
			Filterable:    def.Filterable(),
			ActiveFilters: c.filters.Columns[key].Len(),
		}
		if c.sort.Active() && c.sort.Key == key {
			col.Sort = c.sort.Direction
		}
		if col.Label == "" {
			col.Label = key
		}
		out = append(out, col)
	}
	return out
}
