// Package paging slices a sorted row set into pages and tracks the set of
// selected row ids across filter, sort and page changes.
package paging

import "github.com/arthur-debert/dispatchgrid/types"

// PageCount returns the number of pages for total rows. A page size of 0
// shows everything on one page, and an empty result is still one page.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Bounds returns the [start, end) row range of the current page
func Bounds(total int, state types.PageState) (int, int) {
	if total <= 0 {
		return 0, 0
	}
	if state.PageSize <= 0 {
		return 0, total
	}
	start := state.CurrentPage * state.PageSize
	if start >= total || start < 0 {
		return total, total
	}
	end := start + state.PageSize
	if end > total {
		end = total
	}
	return start, end
}

// Slice returns the rows of the current page
func Slice[T any](rows []T, state types.PageState) []T {
	start, end := Bounds(len(rows), state)
	return rows[start:end]
}

// Pager owns a table's PageState
type Pager struct {
	state types.PageState
}

// NewPager starts on page 0. Negative sizes use the default page size.
func NewPager(pageSize int) *Pager {
	if pageSize < 0 {
		pageSize = types.DefaultPageSize
	}
	return &Pager{state: types.PageState{PageSize: pageSize}}
}

// State returns the current page state
func (p *Pager) State() types.PageState { return p.state }

// PageCount returns the page count for total rows at the current page size
func (p *Pager) PageCount(total int) int {
	return PageCount(total, p.state.PageSize)
}

// Clamp keeps the current page inside [0, PageCount(total)-1].
// It reports whether the page moved.
func (p *Pager) Clamp(total int) bool {
	last := p.PageCount(total) - 1
	switch {
	case p.state.CurrentPage > last:
		p.state.CurrentPage = last
	case p.state.CurrentPage < 0:
		p.state.CurrentPage = 0
	default:
		return false
	}
	return true
}

// SetPage moves to page n, clamped to the last page for total rows.
// Negative pages are rejected.
func (p *Pager) SetPage(n, total int) bool {
	if n < 0 {
		return false
	}
	before := p.state.CurrentPage
	p.state.CurrentPage = n
	p.Clamp(total)
	return p.state.CurrentPage != before
}

// SetPageSize changes the page size and returns to page 0.
// Negative sizes are rejected.
func (p *Pager) SetPageSize(n int) bool {
	if n < 0 {
		return false
	}
	changed := p.state.PageSize != n || p.state.CurrentPage != 0
	p.state = types.PageState{PageSize: n}
	return changed
}

// Reset returns to page 0, as every filter or sort change does
func (p *Pager) Reset() {
	p.state.CurrentPage = 0
}
