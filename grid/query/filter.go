package query

import (
	"sort"

	"github.com/arthur-debert/dispatchgrid/search"
	"github.com/arthur-debert/dispatchgrid/types"
)

// columnFilter is one restricting filter resolved to its cell column
type columnFilter struct {
	col int
	set types.ValueSet
}

// Filter returns the indexes of rows that match the global query over the
// visible columns and every active column filter, in input order, together
// with the cascading distinct values of every filterable column.
//
// The pool of column X holds the rows that match the query and every filter
// except X's own. It is built in the same pass: a row failing no filter
// feeds every pool, a row failing exactly one filter feeds only that
// column's pool.
func (p *Processor[T]) Filter(visible []string, filters types.FilterState) ([]int, map[string][]string) {
	columns := p.registry.Columns()

	searchCols := make([]int, 0, len(visible))
	for _, key := range visible {
		if col := p.registry.Position(key); col >= 0 {
			searchCols = append(searchCols, col)
		}
	}

	var active []columnFilter
	for key, set := range filters.Columns {
		if set.Len() == 0 {
			continue
		}
		col := p.registry.Position(key)
		if col < 0 || !columns[col].Filterable() {
			continue
		}
		active = append(active, columnFilter{col: col, set: set})
	}
	sort.Slice(active, func(i, j int) bool { return active[i].col < active[j].col })

	pools := make(map[int]types.ValueSet)
	var filterable []int
	for col, c := range columns {
		if c.Filterable() {
			filterable = append(filterable, col)
			pools[col] = make(types.ValueSet)
		}
	}

	matcher := search.NewMatcher(filters.GlobalQuery)
	rows := make([]int, 0, len(p.cells))
	for i, cells := range p.cells {
		if !matchesQuery(matcher, cells, searchCols) {
			continue
		}

		failing, failed := 0, -1
		for _, f := range active {
			if !f.set.Has(cells[f.col]) {
				failing++
				failed = f.col
				if failing > 1 {
					break
				}
			}
		}

		switch failing {
		case 0:
			rows = append(rows, i)
			for _, col := range filterable {
				pools[col].Add(cells[col])
			}
		case 1:
			pools[failed].Add(cells[failed])
		}
	}

	distinct := make(map[string][]string, len(filterable))
	for _, col := range filterable {
		distinct[columns[col].Key] = p.compare.OrderValues(pools[col])
	}
	return rows, distinct
}

func matchesQuery(m search.Matcher, cells []string, cols []int) bool {
	if m.Empty() {
		return true
	}
	for _, col := range cols {
		if m.Match(cells[col]) {
			return true
		}
	}
	return false
}
