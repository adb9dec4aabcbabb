package paging

import (
	"testing"

	"github.com/arthur-debert/dispatchgrid/types"
	"github.com/google/go-cmp/cmp"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{7, 3, 3},
		{6, 3, 2},
		{4, 3, 2},
		{1, 3, 1},
		{0, 3, 1},
		{100, 0, 1},
		{0, 0, 1},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.size); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestSlice_SevenRowsPageSizeThree(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5, 6, 7}
	var sizes []int
	for page := 0; page < PageCount(len(rows), 3); page++ {
		sizes = append(sizes, len(Slice(rows, types.PageState{PageSize: 3, CurrentPage: page})))
	}
	if diff := cmp.Diff([]int{3, 3, 1}, sizes); diff != "" {
		t.Errorf("page sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestSlice_ShowAll(t *testing.T) {
	rows := []string{"a", "b", "c"}
	if diff := cmp.Diff(rows, Slice(rows, types.PageState{PageSize: 0, CurrentPage: 4})); diff != "" {
		t.Errorf("page size 0 should show all rows (-want +got):\n%s", diff)
	}
}

func TestSlice_PastTheEnd(t *testing.T) {
	if got := Slice([]int{1, 2}, types.PageState{PageSize: 2, CurrentPage: 5}); len(got) != 0 {
		t.Errorf("expected an empty page, got %v", got)
	}
	if got := Slice([]int(nil), types.PageState{PageSize: 2}); len(got) != 0 {
		t.Errorf("expected an empty page, got %v", got)
	}
}

func TestSlice_PagesConcatenateToRows(t *testing.T) {
	for total := 0; total <= 40; total++ {
		rows := make([]int, total)
		for i := range rows {
			rows[i] = i
		}
		for size := 1; size <= 12; size++ {
			count := PageCount(total, size)
			var joined []int
			for page := 0; page < count; page++ {
				joined = append(joined, Slice(rows, types.PageState{PageSize: size, CurrentPage: page})...)
			}
			if len(joined) != total {
				t.Fatalf("total %d size %d: pages hold %d rows", total, size, len(joined))
			}
			for i := range joined {
				if joined[i] != i {
					t.Fatalf("total %d size %d: row %d out of place", total, size, i)
				}
			}
			if total > 0 {
				last := len(Slice(rows, types.PageState{PageSize: size, CurrentPage: count - 1}))
				if last != total-(count-1)*size || last < 1 || last > size {
					t.Fatalf("total %d size %d: last page has %d rows", total, size, last)
				}
			}
		}
	}
}

func TestPager_FilterShrinksResult(t *testing.T) {
	p := NewPager(3)
	if !p.SetPage(2, 7) {
		t.Fatal("expected to move to page 2")
	}

	// a filter change resets to page 0 before the new count applies
	p.Reset()
	if p.State().CurrentPage != 0 || p.PageCount(4) != 2 {
		t.Errorf("unexpected state %+v with %d pages", p.State(), p.PageCount(4))
	}
}

func TestPager_Clamp(t *testing.T) {
	p := NewPager(10)
	p.SetPage(4, 50)
	if !p.Clamp(12) {
		t.Error("expected the page to move")
	}
	if p.State().CurrentPage != 1 {
		t.Errorf("expected page 1, got %d", p.State().CurrentPage)
	}
	if p.Clamp(12) {
		t.Error("a valid page should not move")
	}
	p.Clamp(0)
	if p.State().CurrentPage != 0 {
		t.Errorf("expected page 0 for an empty result, got %d", p.State().CurrentPage)
	}
}

func TestPager_SetPage(t *testing.T) {
	p := NewPager(5)
	if p.SetPage(-1, 20) {
		t.Error("negative pages must be rejected")
	}
	p.SetPage(99, 20)
	if p.State().CurrentPage != 3 {
		t.Errorf("expected the last page, got %d", p.State().CurrentPage)
	}
	if p.SetPage(3, 20) {
		t.Error("same page is not a change")
	}
}

func TestPager_SetPageSize(t *testing.T) {
	p := NewPager(5)
	p.SetPage(2, 20)

	if p.SetPageSize(-2) {
		t.Error("negative page size must be rejected")
	}
	if !p.SetPageSize(10) {
		t.Error("expected a change")
	}
	if diff := cmp.Diff(types.PageState{PageSize: 10}, p.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	if p.SetPageSize(10) {
		t.Error("same size on page 0 is not a change")
	}
	if NewPager(-1).State().PageSize != types.DefaultPageSize {
		t.Error("negative initial size should use the default")
	}
}
