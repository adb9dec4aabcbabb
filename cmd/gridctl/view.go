package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dispatchgrid/formats"
	"github.com/arthur-debert/dispatchgrid/grid"
	"github.com/arthur-debert/dispatchgrid/search"
	"github.com/arthur-debert/dispatchgrid/source"
)

func (cli *CLI) newViewCommand() *cobra.Command {
	var (
		q         queryFlags
		page      int
		highlight bool
	)

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Show one page of the filtered, sorted rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "view table"
			if page < 1 {
				return NewValidationError(operation, "page", fmt.Sprint(page), "Pages start at 1")
			}

			s, err := cli.openSession(operation, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := q.apply(operation, s); err != nil {
				return err
			}
			format, err := formats.Get(s.cfg.Format)
			if err != nil {
				return NewValidationError(operation, "format", s.cfg.Format, err.Error())
			}
			s.grid.SetPage(page - 1)

			v := s.grid.View()
			marker := search.NewMatcher("")
			if highlight {
				marker = search.NewMatcher(v.Filters.GlobalQuery)
			}
			if err := format.Render(cli.stdout, tabulate(s.grid, v.Columns, v.Rows, marker)); err != nil {
				return WrapError(operation, err)
			}
			if format.Name == "table" {
				_, _ = fmt.Fprintln(cli.stdout, pageSummary(v))
			}
			return nil
		},
	}

	q.register(cmd)
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number, starting at 1")
	cmd.Flags().BoolVar(&highlight, "highlight", false, "Mark --query matches in cells")
	return cmd
}

// tabulate converts rows into an exportable table over cols. A non-empty
// marker wraps its matches in the default highlight markers.
func tabulate(g *grid.Controller[source.Record], cols []grid.Column, rows []source.Record, marker search.Matcher) formats.Table {
	t := formats.Table{
		Headers: make([]formats.Header, len(cols)),
		Rows:    make([][]string, 0, len(rows)),
	}
	for i, col := range cols {
		t.Headers[i] = formats.Header{Key: col.Key, Label: col.Label}
	}
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = g.StringValue(col.Key, row)
			if !marker.Empty() {
				cells[i] = marker.Highlight(cells[i], search.HighlightOptions{})
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func pageSummary(v grid.View[source.Record]) string {
	summary := fmt.Sprintf("page %d of %d, %d of %d rows", v.Page.CurrentPage+1, v.PageCount, v.FilteredCount, v.TotalCount)
	if n := v.Filters.ActiveCount(); n > 0 {
		summary += fmt.Sprintf(", %d column filters", n)
	}
	if v.Sort.Active() {
		summary += fmt.Sprintf(", sorted by %s %s", v.Sort.Key, v.Sort.Direction)
	}
	return summary
}
