package paging

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection()
	if !s.Toggle("o-1") {
		t.Error("expected o-1 to be selected")
	}
	if s.Toggle("o-1") {
		t.Error("expected o-1 to be deselected")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty selection, got %v", s.IDs())
	}
}

func TestSelection_ZeroValue(t *testing.T) {
	var s Selection
	if s.Has("o-1") || s.Len() != 0 {
		t.Fatal("zero selection should be empty")
	}
	if !s.Toggle("o-1") {
		t.Error("expected o-1 to be selected")
	}
	if got := s.ToggleAll([]string{"o-1", "o-2"}); got != All {
		t.Errorf("ToggleAll = %v, want all", got)
	}
	if diff := cmp.Diff([]string{"o-1", "o-2"}, s.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestSelection_State(t *testing.T) {
	s := NewSelection("a", "b", "z")

	tests := []struct {
		page []string
		want TriState
	}{
		{nil, None},
		{[]string{"c", "d"}, None},
		{[]string{"a", "c"}, Some},
		{[]string{"a", "b"}, All},
	}
	for _, tt := range tests {
		if got := s.State(tt.page); got != tt.want {
			t.Errorf("State(%v) = %s, want %s", tt.page, got, tt.want)
		}
	}
}

func TestSelection_ToggleAll(t *testing.T) {
	page := []string{"a", "b", "c"}

	t.Run("partial page selects the rest", func(t *testing.T) {
		s := NewSelection("a", "x")
		if got := s.ToggleAll(page); got != All {
			t.Errorf("expected All, got %s", got)
		}
		if diff := cmp.Diff([]string{"a", "b", "c", "x"}, s.IDs()); diff != "" {
			t.Errorf("IDs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("full page clears the page only", func(t *testing.T) {
		s := NewSelection("a", "b", "c", "x")
		if got := s.ToggleAll(page); got != None {
			t.Errorf("expected None, got %s", got)
		}
		if diff := cmp.Diff([]string{"x"}, s.IDs()); diff != "" {
			t.Errorf("IDs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty page", func(t *testing.T) {
		s := NewSelection("x")
		if got := s.ToggleAll(nil); got != None || s.Len() != 1 {
			t.Errorf("empty page should be a no-op, got %s with %v", got, s.IDs())
		}
	})
}

func TestSelection_ToggleAllTwiceRestoresFullOrEmptyPage(t *testing.T) {
	page := []string{"a", "b"}
	for _, start := range [][]string{{}, {"a", "b"}, {"a", "b", "x"}, {"y"}} {
		s := NewSelection(start...)
		before := s.IDs()
		s.ToggleAll(page)
		s.ToggleAll(page)
		if diff := cmp.Diff(before, s.IDs()); diff != "" {
			t.Errorf("start %v: double toggle mismatch (-want +got):\n%s", start, diff)
		}
	}

	// a partial page goes to all, then none
	s := NewSelection("a")
	if s.ToggleAll(page) != All || s.ToggleAll(page) != None {
		t.Error("partial page should cycle to All then None")
	}
}

func TestSelection_Prune(t *testing.T) {
	s := NewSelection("o-1", "o-2", "o-3")
	if got := s.Prune([]string{"o-2", "o-9"}); got != 2 {
		t.Errorf("expected 2 pruned, got %d", got)
	}
	if diff := cmp.Diff([]string{"o-2"}, s.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	s.Clear()
	if s.Len() != 0 || s.Has("o-2") {
		t.Error("Clear should empty the selection")
	}
}
