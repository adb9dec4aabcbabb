package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// blankLabel stands in for the empty value in menus
const blankLabel = "(blank)"

func (cli *CLI) newDistinctCommand() *cobra.Command {
	var q queryFlags

	cmd := &cobra.Command{
		Use:   "distinct <file> <column>",
		Short: "List the filter menu of a column under the other filters",
		Long: `List the values a column's filter menu offers. The menu honours every
other column filter and the search query but not the column's own filter, so
each listed value selects at least one row. Values already selected are
marked with '*'.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "list distinct values"
			s, err := cli.openSession(operation, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			col, err := s.column(operation, args[1])
			if err != nil {
				return err
			}
			if !col.Filterable() {
				return NewValidationError(operation, "column", col.Key, "Column "+col.Key+" has no value filter")
			}
			if err := q.apply(operation, s); err != nil {
				return err
			}

			v := s.grid.View()
			selected := v.Filters.Columns[col.Key]
			for _, value := range v.Distinct[col.Key] {
				mark := " "
				if selected.Has(value) {
					mark = "*"
				}
				label := value
				if label == "" {
					label = blankLabel
				}
				_, _ = fmt.Fprintf(cli.stdout, "%s %s\n", mark, label)
			}
			return nil
		},
	}

	q.register(cmd)
	return cmd
}
