package formats

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TableText renders a boxed terminal table
var TableText = &Format{
	Name:      "table",
	Extension: ".txt",
	Render: func(w io.Writer, t Table) error {
		return write(w, newWriter(t).Render())
	},
}

// Markdown renders a GitHub-flavoured pipe table
var Markdown = &Format{
	Name:      "markdown",
	Extension: ".md",
	Render: func(w io.Writer, t Table) error {
		return write(w, newWriter(t).RenderMarkdown())
	},
}

// CSV renders RFC 4180 comma-separated values with a header line
var CSV = &Format{
	Name:      "csv",
	Extension: ".csv",
	Render: func(w io.Writer, t Table) error {
		return write(w, newWriter(t).RenderCSV())
	},
}

// HTML renders a <table> fragment
var HTML = &Format{
	Name:      "html",
	Extension: ".html",
	Render: func(w io.Writer, t Table) error {
		return write(w, newWriter(t).RenderHTML())
	},
}

func newWriter(t Table) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h.Title()
	}
	tw.AppendHeader(header)

	for _, cells := range t.Rows {
		row := make(table.Row, len(t.Headers))
		for i := range t.Headers {
			if i < len(cells) {
				row[i] = cells[i]
			} else {
				row[i] = ""
			}
		}
		tw.AppendRow(row)
	}
	return tw
}

func write(w io.Writer, s string) error {
	if s != "" && s[len(s)-1] != '\n' {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

func init() {
	mustRegister(TableText)
	mustRegister(Markdown)
	mustRegister(CSV)
	mustRegister(HTML)
}
