package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dispatchgrid/types"
)

// queryFlags are the transient filter and sort settings shared by view,
// distinct, export and browse
type queryFlags struct {
	filters []string
	query   string
	sort    string
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&q.filters, "filter", nil, "Column filter key=value; repeat to accept several values")
	cmd.Flags().StringVarP(&q.query, "query", "q", "", "Case-insensitive search across visible columns")
	cmd.Flags().StringVarP(&q.sort, "sort", "s", "", "Sort column, optionally key:asc or key:desc")
}

// apply pushes the flags into the session's controller
func (q *queryFlags) apply(operation string, s *session) error {
	filters, err := parseFilters(operation, q.filters)
	if err != nil {
		return err
	}
	for _, f := range filters {
		col, err := s.column(operation, f.key)
		if err != nil {
			return err
		}
		if !col.Filterable() {
			return NewValidationError(operation, "filter", f.key+"="+f.value,
				"Column "+f.key+" has no value filter; use --query to search it")
		}
		if !s.grid.Filters().Columns[f.key].Has(f.value) {
			s.grid.ToggleColumnFilterValue(f.key, f.value)
		}
	}

	s.grid.SetGlobalQuery(strings.TrimSpace(q.query))

	if q.sort == "" {
		return nil
	}
	state, err := parseSort(operation, q.sort)
	if err != nil {
		return err
	}
	col, err := s.column(operation, state.Key)
	if err != nil {
		return err
	}
	if !col.Sortable() || !s.grid.SetSort(state) {
		return NewValidationError(operation, "sort", q.sort, "Column "+state.Key+" cannot be sorted")
	}
	return nil
}

type filterArg struct {
	key   string
	value string
}

// parseFilters splits key=value pairs. The value may be empty to match
// blank cells and may itself contain '='.
func parseFilters(operation string, args []string) ([]filterArg, error) {
	out := make([]filterArg, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, NewValidationError(operation, "filter", arg,
				"Use format: --filter key=value",
				"Repeat --filter for several values or columns")
		}
		out = append(out, filterArg{key: key, value: value})
	}
	return out, nil
}

// parseSort accepts "key", "key:asc" and "key:desc"
func parseSort(operation, arg string) (types.SortState, error) {
	key, dir, hasDir := strings.Cut(arg, ":")
	state := types.SortState{Key: strings.TrimSpace(key), Direction: types.SortAsc}
	if hasDir {
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "asc":
		case "desc":
			state.Direction = types.SortDesc
		default:
			return types.SortState{}, NewValidationError(operation, "sort direction", dir, "Use asc or desc")
		}
	}
	if state.Key == "" {
		return types.SortState{}, NewValidationError(operation, "sort", arg, "Use format: --sort key[:asc|desc]")
	}
	return state, nil
}
