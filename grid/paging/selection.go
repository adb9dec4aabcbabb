package paging

import "sort"

// TriState is the state of a page's "select all" checkbox
type TriState int

const (
	None TriState = iota
	Some
	All
)

func (s TriState) String() string {
	switch s {
	case Some:
		return "some"
	case All:
		return "all"
	}
	return "none"
}

// Selection is a set of row ids. The zero value is an empty selection.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns a selection holding ids
func NewSelection(ids ...string) *Selection {
	s := &Selection{ids: make(map[string]struct{}, len(ids))}
	s.Select(ids...)
	return s
}

// Has reports whether id is selected
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids
func (s *Selection) Len() int { return len(s.ids) }

// Toggle flips id and returns whether it is selected afterwards
func (s *Selection) Toggle(id string) bool {
	if s.Has(id) {
		delete(s.ids, id)
		return false
	}
	s.Select(id)
	return true
}

// Select adds ids
func (s *Selection) Select(ids ...string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{}, len(ids))
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Deselect removes ids
func (s *Selection) Deselect(ids ...string) {
	for _, id := range ids {
		delete(s.ids, id)
	}
}

// ToggleAll clears pageIDs when every one is selected and selects all of
// them otherwise. It returns the page's state afterwards.
func (s *Selection) ToggleAll(pageIDs []string) TriState {
	if len(pageIDs) == 0 {
		return None
	}
	if s.State(pageIDs) == All {
		s.Deselect(pageIDs...)
		return None
	}
	s.Select(pageIDs...)
	return All
}

// State reports how much of pageIDs is selected. An empty page is None.
func (s *Selection) State(pageIDs []string) TriState {
	selected := 0
	for _, id := range pageIDs {
		if s.Has(id) {
			selected++
		}
	}
	switch {
	case selected == 0:
		return None
	case selected == len(pageIDs):
		return All
	}
	return Some
}

// Prune drops every id missing from live and returns how many were dropped
func (s *Selection) Prune(live []string) int {
	keep := make(map[string]struct{}, len(live))
	for _, id := range live {
		keep[id] = struct{}{}
	}
	dropped := 0
	for id := range s.ids {
		if _, ok := keep[id]; !ok {
			delete(s.ids, id)
			dropped++
		}
	}
	return dropped
}

// IDs returns the selected ids sorted
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clear deselects everything
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}
