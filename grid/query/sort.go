package query

import (
	"slices"

	"github.com/arthur-debert/dispatchgrid/types"
)

// Sort orders row indexes in place by the active sort column.
// Inactive sorts and unknown or non-sortable keys leave the order untouched.
// Ties keep their input order.
func (p *Processor[T]) Sort(rows []int, state types.SortState) {
	if !state.Active() {
		return
	}
	col := p.registry.Position(state.Key)
	if col < 0 {
		return
	}
	if c, _ := p.registry.Get(state.Key); !c.Sortable() {
		return
	}

	desc := state.Direction == types.SortDesc
	slices.SortStableFunc(rows, func(a, b int) int {
		r := p.compare.Compare(p.cells[a][col], p.cells[b][col])
		if desc {
			return -r
		}
		return r
	})
}
