package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dispatchgrid/formats"
	"github.com/arthur-debert/dispatchgrid/search"
)

func (cli *CLI) newExportCommand() *cobra.Command {
	var (
		q        queryFlags
		output   string
		selected []string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write every filtered row over the visible columns",
		Long: `Export the filtered and sorted rows across all pages, with the visible
columns in layout order. The format comes from --format, or from the
extension of --output when --format is not set.

With --select, only the listed row ids are exported, in file order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "export table"
			s, err := cli.openSession(operation, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := q.apply(operation, s); err != nil {
				return err
			}

			format, err := cli.exportFormat(cmd, s, output)
			if err != nil {
				return NewValidationError(operation, "format", s.cfg.Format, err.Error())
			}

			rows := s.grid.FilteredRows()
			if len(selected) > 0 {
				seen := make(map[string]bool, len(selected))
				for _, id := range selected {
					if !seen[id] {
						seen[id] = true
						s.grid.ToggleRow(id)
					}
				}
				rows = s.grid.SelectedRows()
			}
			table := tabulate(s.grid, s.grid.View().Columns, rows, search.NewMatcher(""))

			var buf bytes.Buffer
			if err := format.Render(&buf, table); err != nil {
				return WrapError(operation, err)
			}
			if output == "" {
				if _, err := cli.stdout.Write(buf.Bytes()); err != nil {
					return WrapError(operation, err)
				}
			} else {
				if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
					return WrapError(operation, err, CommonSuggestions.CheckPerms)
				}
				if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
					return WrapError(operation, err, CommonSuggestions.CheckPerms)
				}
			}
			cli.logger.Info("table exported", "file", args[0], "rows", len(table.Rows), "format", format.Name, "output", output)
			return nil
		},
	}

	q.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringSliceVar(&selected, "select", nil, "Export only these row ids")
	return cmd
}

// exportFormat prefers an explicit --format, then the output extension,
// then the configured default
func (cli *CLI) exportFormat(cmd *cobra.Command, s *session, output string) (*formats.Format, error) {
	explicit := cmd.Flags().Changed("format") || cli.viperInst.InConfig("format") || os.Getenv("GRIDCTL_FORMAT") != ""
	if !explicit && output != "" {
		if f, ok := formats.ForExtension(filepath.Ext(output)); ok {
			return f, nil
		}
	}
	return formats.Get(s.cfg.Format)
}
