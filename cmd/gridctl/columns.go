package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dispatchgrid/formats"
)

func (cli *CLI) newColumnsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Inspect and change the persisted column layout",
		Long: `Change the column layout of a row file. Changes are saved under the
table's storage key (--key, default: the file name without extension) and
apply to every later view, export and browse of that table.`,
	}
	cmd.AddCommand(
		cli.newColumnsListCommand(),
		cli.newColumnsVisibilityCommand("show", true),
		cli.newColumnsVisibilityCommand("hide", false),
		cli.newColumnsMoveCommand(),
		cli.newColumnsResizeCommand(),
		cli.newColumnsResetCommand(),
	)
	return cmd
}

func (cli *CLI) newColumnsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "List every column in layout order, hidden ones included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "list columns"
			s, err := cli.openSession(operation, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			return cli.printColumns(operation, s)
		},
	}
}

func (cli *CLI) printColumns(operation string, s *session) error {
	format, err := formats.Get(s.cfg.Format)
	if err != nil {
		return NewValidationError(operation, "format", s.cfg.Format, err.Error())
	}

	layout := s.grid.Layout()
	t := formats.Table{Headers: []formats.Header{
		{Key: "key", Label: "Key"},
		{Key: "label", Label: "Label"},
		{Key: "visible", Label: "Visible"},
		{Key: "width", Label: "Width"},
		{Key: "sortable", Label: "Sortable"},
		{Key: "filterable", Label: "Filterable"},
	}}
	for _, key := range layout.Order {
		col, err := s.column(operation, key)
		if err != nil {
			return err
		}
		visible, ok := layout.Visible[key]
		t.Rows = append(t.Rows, []string{
			key,
			col.Label,
			strconv.FormatBool(!ok || visible),
			strconv.Itoa(s.grid.ColumnWidth(key)),
			strconv.FormatBool(col.Sortable()),
			strconv.FormatBool(col.Filterable()),
		})
	}
	return format.Render(cli.stdout, t)
}

func (cli *CLI) printVisibleOrder(s *session) {
	v := s.grid.View()
	keys := make([]string, len(v.Columns))
	for i, col := range v.Columns {
		keys[i] = col.Key
	}
	_, _ = fmt.Fprintf(cli.stdout, "visible: %s\n", strings.Join(keys, " "))
}

func (cli *CLI) newColumnsVisibilityCommand(verb string, visible bool) *cobra.Command {
	short := "Show hidden columns"
	if !visible {
		short = "Hide columns; they keep their place in the order"
	}
	return &cobra.Command{
		Use:   verb + " <file> <column>...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			operation := verb + " columns"
			s, err := cli.openSession(operation, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			for _, key := range args[1:] {
				if _, err := s.column(operation, key); err != nil {
					return err
				}
				s.grid.SetColumnVisible(key, visible)
			}
			cli.printVisibleOrder(s)
			return nil
		},
	}
}

func (cli *CLI) newColumnsMoveCommand() *cobra.Command {
	var before string

	cmd := &cobra.Command{
		Use:   "move <file> <column>",
		Short: "Move a column in front of another one, or to the end",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "move column"
			s, err := cli.openSession(operation, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			key := args[1]
			if _, err := s.column(operation, key); err != nil {
				return err
			}
			if before == "" {
				s.grid.MoveColumnToEnd(key)
			} else {
				if _, err := s.column(operation, before); err != nil {
					return err
				}
				s.grid.Reorder(key, before)
			}
			cli.printVisibleOrder(s)
			return nil
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Place the column in front of this one (default: move to the end)")
	return cmd
}

func (cli *CLI) newColumnsResizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <file> <column> <pixels>",
		Short: "Set a column width; widths below the minimum are raised to it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "resize column"
			px, err := strconv.Atoi(args[2])
			if err != nil {
				return NewValidationError(operation, "width", args[2], "Width is a whole number of pixels")
			}

			s, err := cli.openSession(operation, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if _, err := s.column(operation, args[1]); err != nil {
				return err
			}
			width := s.grid.Resize(args[1], px)
			_, _ = fmt.Fprintf(cli.stdout, "%s: %dpx\n", args[1], width)
			return nil
		},
	}
}

func (cli *CLI) newColumnsResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <file>",
		Short: "Restore the default order, visibility and widths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "reset columns"
			s, err := cli.openSession(operation, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			s.grid.ResetLayout()
			cli.printVisibleOrder(s)
			return nil
		},
	}
}
