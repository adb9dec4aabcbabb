package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dispatchgrid/grid"
	"github.com/arthur-debert/dispatchgrid/search"
	"github.com/arthur-debert/dispatchgrid/source"
)

// pxPerCell converts layout pixel widths to terminal cells
const pxPerCell = 8

// prefixGutter leaves room for the selection checkbox
const prefixGutter = "    "

// resizeStep is the width change of one +/- key press, in pixels
const resizeStep = 20

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	activeColStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("212"))
	cursorStyle    = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	matchStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type browseKeys struct {
	Up, Down, Left, Right key.Binding
	NextPage, PrevPage    key.Binding
	Sort, Filter, Clear   key.Binding
	ClearAll, Search      key.Binding
	Select, SelectPage    key.Binding
	Hide, MoveLeft        key.Binding
	MoveRight, Wider      key.Binding
	Narrower, Reset, Quit key.Binding
}

var keys = browseKeys{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
	NextPage:   key.NewBinding(key.WithKeys("pgdown", "n"), key.WithHelp("n", "next page")),
	PrevPage:   key.NewBinding(key.WithKeys("pgup", "p"), key.WithHelp("p", "prev page")),
	Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter by cell")),
	Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear column filter")),
	ClearAll:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Select:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("x", "select")),
	SelectPage: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page")),
	Hide:       key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide column")),
	MoveLeft:   key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "move left")),
	MoveRight:  key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "move right")),
	Wider:      key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "wider")),
	Narrower:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower")),
	Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset layout")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// browseModel is an interactive grid over one session
type browseModel struct {
	grid   *grid.Controller[source.Record]
	title  string
	query  textinput.Model
	typing bool
	row    int
	col    int
	status string
	width  int
}

func newBrowseModel(s *session) browseModel {
	q := textinput.New()
	q.Placeholder = "search visible columns"
	q.Prompt = "/ "
	q.CharLimit = 200
	q.SetValue(s.grid.Filters().GlobalQuery)

	return browseModel{grid: s.grid, title: s.path, query: q, width: 120}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.typing {
			return m.updateQuery(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

func (m browseModel) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.typing = false
		m.query.Blur()
		m.grid.SetGlobalQuery(strings.TrimSpace(m.query.Value()))
		m.row = 0
		return m, nil
	case tea.KeyEsc:
		m.typing = false
		m.query.Blur()
		m.query.SetValue(m.grid.Filters().GlobalQuery)
		return m, nil
	}
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m browseModel) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.grid.View()
	m.status = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, keys.Down):
		if m.row < len(v.Rows)-1 {
			m.row++
		}
	case key.Matches(msg, keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(msg, keys.Right):
		if m.col < len(v.Columns)-1 {
			m.col++
		}
	case key.Matches(msg, keys.NextPage):
		if m.grid.SetPage(v.Page.CurrentPage + 1) {
			m.row = 0
		}
	case key.Matches(msg, keys.PrevPage):
		if v.Page.CurrentPage > 0 && m.grid.SetPage(v.Page.CurrentPage-1) {
			m.row = 0
		}
	case key.Matches(msg, keys.Search):
		m.typing = true
		m.query.Focus()
		return m, textinput.Blink
	case key.Matches(msg, keys.ClearAll):
		m.grid.ClearAllFilters()
		m.query.SetValue("")
		m.row = 0
	case key.Matches(msg, keys.SelectPage):
		m.status = "page selection: " + m.grid.ToggleCurrentPage().String()
	case key.Matches(msg, keys.Reset):
		m.grid.ResetLayout()
		m.col = 0
	case key.Matches(msg, keys.Select):
		if m.row < len(v.RowIDs) {
			m.grid.ToggleRow(v.RowIDs[m.row])
		}
	default:
		if m.col < len(v.Columns) {
			m.columnKey(msg, v)
		}
	}

	m.clampCursor()
	return m, nil
}

// columnKey applies the bindings that act on the column under the cursor
func (m *browseModel) columnKey(msg tea.KeyMsg, v grid.View[source.Record]) {
	col := v.Columns[m.col]
	switch {
	case key.Matches(msg, keys.Sort):
		if !col.Sortable {
			m.status = col.Label + " cannot be sorted"
			return
		}
		m.grid.SortBy(col.Key)
		m.row = 0
	case key.Matches(msg, keys.Filter):
		if !col.Filterable || m.row >= len(v.Rows) {
			m.status = col.Label + " has no value filter"
			return
		}
		value := m.grid.StringValue(col.Key, v.Rows[m.row])
		m.grid.ToggleColumnFilterValue(col.Key, value)
		m.row = 0
	case key.Matches(msg, keys.Clear):
		m.grid.ClearColumnFilter(col.Key)
	case key.Matches(msg, keys.Hide):
		if len(v.Columns) == 1 {
			m.status = "the last visible column cannot be hidden"
			return
		}
		m.grid.SetColumnVisible(col.Key, false)
	case key.Matches(msg, keys.MoveLeft):
		if m.col > 0 {
			m.grid.Reorder(col.Key, v.Columns[m.col-1].Key)
			m.col--
		}
	case key.Matches(msg, keys.MoveRight):
		if m.col < len(v.Columns)-1 {
			m.grid.Reorder(v.Columns[m.col+1].Key, col.Key)
			m.col++
		}
	case key.Matches(msg, keys.Wider):
		m.grid.Resize(col.Key, col.Width+resizeStep)
	case key.Matches(msg, keys.Narrower):
		m.grid.Resize(col.Key, col.Width-resizeStep)
	}
}

func (m *browseModel) clampCursor() {
	v := m.grid.View()
	if m.col >= len(v.Columns) {
		m.col = len(v.Columns) - 1
	}
	if m.col < 0 {
		m.col = 0
	}
	if m.row >= len(v.Rows) {
		m.row = len(v.Rows) - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m browseModel) View() string {
	v := m.grid.View()
	matcher := search.NewMatcher(v.Filters.GlobalQuery)
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n")
	if m.typing || v.Filters.GlobalQuery != "" {
		b.WriteString(m.query.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	cols := fitColumns(v.Columns, m.col, m.width)
	active := ""
	if m.col < len(v.Columns) {
		active = v.Columns[m.col].Key
	}
	widths := make([]int, len(cols))
	header := make([]string, len(cols))
	for i, col := range cols {
		widths[i] = cells(col.Width)
		label := col.Label
		switch col.Sort {
		case "asc":
			label += " ▲"
		case "desc":
			label += " ▼"
		}
		if col.ActiveFilters > 0 {
			label += fmt.Sprintf(" [%d]", col.ActiveFilters)
		}
		style := headerStyle
		if col.Key == active {
			style = activeColStyle
		}
		header[i] = style.Render(fit(label, widths[i]))
	}
	b.WriteString(prefixGutter + strings.Join(header, " ") + "\n")

	selected := make(map[string]bool, len(v.Selected))
	for _, id := range v.Selected {
		selected[id] = true
	}
	for r, row := range v.Rows {
		mark := "[ ] "
		if selected[v.RowIDs[r]] {
			mark = "[x] "
		}
		line := make([]string, len(cols))
		for i, col := range cols {
			line[i] = highlight(fit(m.grid.StringValue(col.Key, row), widths[i]), matcher)
		}
		text := mark + strings.Join(line, " ")
		if r == m.row {
			text = cursorStyle.Render(text)
		}
		b.WriteString(text + "\n")
	}
	if len(v.Rows) == 0 {
		b.WriteString(mutedStyle.Render("    no matching rows") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s, %d selected (page %s)",
		pageSummary(v), len(v.Selected), v.PageSelection)))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status) + "\n")
	}
	b.WriteString(mutedStyle.Render(helpLine()))
	return b.String()
}

// fitColumns returns the run of columns, starting early enough to include
// the cursor column, that fits in width terminal cells
func fitColumns(cols []grid.Column, cursor, width int) []grid.Column {
	if len(cols) == 0 {
		return cols
	}
	if cursor >= len(cols) {
		cursor = len(cols) - 1
	}
	used := func(from, to int) int {
		n := len(prefixGutter)
		for _, c := range cols[from:to] {
			n += cells(c.Width) + 1
		}
		return n
	}
	start := 0
	for start < cursor && used(start, cursor+1) > width {
		start++
	}
	end := cursor + 1
	for end < len(cols) && used(start, end+1) <= width {
		end++
	}
	return cols[start:end]
}

func helpLine() string {
	bindings := []key.Binding{keys.Sort, keys.Filter, keys.Clear, keys.Search, keys.Select, keys.SelectPage,
		keys.Hide, keys.MoveLeft, keys.MoveRight, keys.Wider, keys.Narrower, keys.NextPage, keys.PrevPage, keys.Reset, keys.Quit}
	parts := make([]string, len(bindings))
	for i, kb := range bindings {
		parts[i] = kb.Help().Key + " " + kb.Help().Desc
	}
	return strings.Join(parts, "  ")
}

// cells converts a pixel width to terminal cells, at least 4
func cells(px int) int {
	if n := px / pxPerCell; n > 4 {
		return n
	}
	return 4
}

// fit pads or truncates s to exactly n terminal cells
func fit(s string, n int) string {
	w := lipgloss.Width(s)
	if w == n {
		return s
	}
	if w < n {
		return s + strings.Repeat(" ", n-w)
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func highlight(s string, m search.Matcher) string {
	matches := m.FindMatches(s)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, match := range matches {
		b.WriteString(s[last:match.Start])
		b.WriteString(matchStyle.Render(match.Text))
		last = match.End
	}
	b.WriteString(s[last:])
	return b.String()
}

func (cli *CLI) newBrowseCommand() *cobra.Command {
	var q queryFlags

	cmd := &cobra.Command{
		Use:   "browse <file>",
		Short: "Browse the table interactively",
		Long: `Open an interactive grid. Layout changes made while browsing (sorting
aside, which is transient) are saved when the command exits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "browse table"
			s, err := cli.openSession(operation, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := q.apply(operation, s); err != nil {
				return err
			}

			p := tea.NewProgram(newBrowseModel(s), tea.WithAltScreen(), tea.WithContext(cmd.Context()),
				tea.WithInput(cli.stdin), tea.WithOutput(cli.stdout))
			if _, err := p.Run(); err != nil {
				return WrapError(operation, err)
			}
			return nil
		},
	}

	q.register(cmd)
	return cmd
}
