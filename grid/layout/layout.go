// Package layout owns the column order, visibility and widths of one table
// instance.
//
// Every mutation leaves Order as a permutation of the live registry keys.
// Committed mutations are reported through the OnChange hook so the caller
// can persist them.
package layout

import (
	"log/slog"

	"github.com/arthur-debert/dispatchgrid/types"
)

// Manager tracks a table's LayoutState
type Manager struct {
	specs    []types.ColumnSpec
	byKey    map[string]types.ColumnSpec
	state    types.LayoutState
	minWidth int
	defWidth int
	onChange func(types.LayoutState)
	logger   *slog.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithMinWidth sets the smallest width Resize can produce
func WithMinWidth(px int) Option {
	return func(m *Manager) {
		if px > 0 {
			m.minWidth = px
		}
	}
}

// WithDefaultWidth sets the width of columns without override or hint
func WithDefaultWidth(px int) Option {
	return func(m *Manager) {
		if px > 0 {
			m.defWidth = px
		}
	}
}

// WithOnChange registers a hook called with a copy of the state after every
// committed mutation
func WithOnChange(fn func(types.LayoutState)) Option {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// WithLogger sets the logger used for mutation tracing
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a manager holding the registry defaults for specs
func New(specs []types.ColumnSpec, opts ...Option) *Manager {
	m := &Manager{
		minWidth: types.MinColumnWidth,
		defWidth: types.DefaultColumnWidth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.defWidth < m.minWidth {
		m.defWidth = m.minWidth
	}
	m.setSpecs(specs)
	m.state = m.defaults()
	return m
}

func (m *Manager) setSpecs(specs []types.ColumnSpec) {
	m.specs = append([]types.ColumnSpec(nil), specs...)
	m.byKey = make(map[string]types.ColumnSpec, len(specs))
	for _, s := range specs {
		m.byKey[s.Key] = s
	}
}

func (m *Manager) defaults() types.LayoutState {
	st := types.LayoutState{
		Order:   make([]string, 0, len(m.specs)),
		Visible: make(map[string]bool, len(m.specs)),
		Widths:  make(map[string]int),
	}
	for _, s := range m.specs {
		st.Order = append(st.Order, s.Key)
		st.Visible[s.Key] = s.DefaultVisible
	}
	return st
}

// State returns a copy of the current layout
func (m *Manager) State() types.LayoutState {
	return m.state.Clone()
}

// MinWidth returns the resize floor in pixels
func (m *Manager) MinWidth() int { return m.minWidth }

// Apply replaces the layout with a persisted one, healed against the
// current registry. A nil state keeps the registry defaults.
// Apply does not fire OnChange: loading is not a user mutation.
func (m *Manager) Apply(persisted *types.LayoutState) {
	if persisted == nil {
		m.state = m.defaults()
		return
	}
	m.state = persisted.Clone()
	m.heal()
}

// Reconcile adopts a new column registry. Keys no longer registered are
// dropped from order, visibility and widths; new keys are appended in
// registry order with their default visibility.
func (m *Manager) Reconcile(specs []types.ColumnSpec) {
	before := m.state.Clone()
	m.setSpecs(specs)
	m.heal()
	if !equalState(before, m.state) {
		m.commit("reconcile")
	}
}

// heal restores the permutation invariant of the current state
func (m *Manager) heal() {
	order := make([]string, 0, len(m.specs))
	seen := make(map[string]bool, len(m.specs))
	for _, key := range m.state.Order {
		if _, known := m.byKey[key]; !known || seen[key] {
			continue
		}
		seen[key] = true
		order = append(order, key)
	}

	visible := make(map[string]bool, len(m.specs))
	for _, s := range m.specs {
		if !seen[s.Key] {
			order = append(order, s.Key)
			seen[s.Key] = true
			visible[s.Key] = s.DefaultVisible
			continue
		}
		if v, ok := m.state.Visible[s.Key]; ok {
			visible[s.Key] = v
		} else {
			visible[s.Key] = s.DefaultVisible
		}
	}

	widths := make(map[string]int, len(m.state.Widths))
	for key, w := range m.state.Widths {
		if _, known := m.byKey[key]; !known || w <= 0 {
			continue
		}
		widths[key] = m.clamp(w)
	}

	m.state = types.LayoutState{Order: order, Visible: visible, Widths: widths}
}

// Reset restores registry defaults and reports the change
func (m *Manager) Reset() {
	m.state = m.defaults()
	m.commit("reset")
}

// IsVisible reports whether key is shown. Unknown keys are not.
func (m *Manager) IsVisible(key string) bool {
	if _, known := m.byKey[key]; !known {
		return false
	}
	return m.shown(key)
}

// shown treats a key missing from Visible as visible
func (m *Manager) shown(key string) bool {
	v, ok := m.state.Visible[key]
	return !ok || v
}

// VisibleOrder returns the rendered column keys in order
func (m *Manager) VisibleOrder() []string {
	out := make([]string, 0, len(m.state.Order))
	for _, key := range m.state.Order {
		if m.shown(key) {
			out = append(out, key)
		}
	}
	return out
}

// Order returns every column key in layout order, hidden ones included
func (m *Manager) Order() []string {
	return append([]string(nil), m.state.Order...)
}

// ToggleVisibility flips key's visibility. The key keeps its place in
// Order. It returns the new visibility; unknown keys return false and
// change nothing.
func (m *Manager) ToggleVisibility(key string) bool {
	if _, known := m.byKey[key]; !known {
		return false
	}
	visible := !m.IsVisible(key)
	m.state.Visible[key] = visible
	m.commit("toggle_visibility", "key", key, "visible", visible)
	return visible
}

// SetVisible shows or hides key. It reports whether anything changed.
func (m *Manager) SetVisible(key string, visible bool) bool {
	if _, known := m.byKey[key]; !known || m.IsVisible(key) == visible {
		return false
	}
	m.state.Visible[key] = visible
	m.commit("set_visible", "key", key, "visible", visible)
	return true
}

// Reorder moves dragged so it sits immediately in front of target.
// dragged is removed first and reinserted at target's resulting index.
// It is a no-op when the keys are equal or either is unknown.
func (m *Manager) Reorder(dragged, target string) bool {
	if dragged == target {
		return false
	}
	from := indexOf(m.state.Order, dragged)
	if from < 0 || indexOf(m.state.Order, target) < 0 {
		return false
	}

	order := make([]string, 0, len(m.state.Order))
	order = append(order, m.state.Order[:from]...)
	order = append(order, m.state.Order[from+1:]...)

	to := indexOf(order, target)
	order = append(order, "")
	copy(order[to+1:], order[to:])
	order[to] = dragged

	m.state.Order = order
	m.commit("reorder", "dragged", dragged, "target", target)
	return true
}

// MoveToEnd moves key behind every other column.
// Reorder can only place a column in front of another one.
func (m *Manager) MoveToEnd(key string) bool {
	from := indexOf(m.state.Order, key)
	if from < 0 || from == len(m.state.Order)-1 {
		return false
	}
	order := make([]string, 0, len(m.state.Order))
	order = append(order, m.state.Order[:from]...)
	order = append(order, m.state.Order[from+1:]...)
	m.state.Order = append(order, key)
	m.commit("move_to_end", "key", key)
	return true
}

// Resize sets key's width, clamped to the minimum width.
// It returns the stored width, or 0 for unknown keys.
func (m *Manager) Resize(key string, px int) int {
	if _, known := m.byKey[key]; !known {
		return 0
	}
	w := m.clamp(px)
	m.state.Widths[key] = w
	m.commit("resize", "key", key, "width", w)
	return w
}

// Width returns key's rendered width: user override, then the column's
// hint, then the global default.
func (m *Manager) Width(key string) int {
	if w, ok := m.state.Widths[key]; ok {
		return w
	}
	if s, ok := m.byKey[key]; ok && s.WidthHint > 0 {
		return m.clamp(s.WidthHint)
	}
	return m.defWidth
}

func (m *Manager) clamp(px int) int {
	if px < m.minWidth {
		return m.minWidth
	}
	return px
}

func (m *Manager) commit(op string, attrs ...any) {
	m.logger.Debug("layout changed", append([]any{"operation", op}, attrs...)...)
	if m.onChange != nil {
		m.onChange(m.state.Clone())
	}
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}

func equalState(a, b types.LayoutState) bool {
	if len(a.Order) != len(b.Order) || len(a.Visible) != len(b.Visible) || len(a.Widths) != len(b.Widths) {
		return false
	}
	for i := range a.Order {
		if a.Order[i] != b.Order[i] {
			return false
		}
	}
	for k, v := range a.Visible {
		if bv, ok := b.Visible[k]; !ok || bv != v {
			return false
		}
	}
	for k, v := range a.Widths {
		if bv, ok := b.Widths[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
