package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// AssertRowCount checks the number of rows
func AssertRowCount[T any](t testing.TB, rows []T, expected int, context ...string) {
	t.Helper()
	if len(rows) != expected {
		ctx := ""
		if len(context) > 0 {
			ctx = " " + context[0]
		}
		t.Errorf("expected %d rows%s, got %d", expected, ctx, len(rows))
	}
}

// AssertOrderIDs checks the exact ids and their order
func AssertOrderIDs(t testing.TB, orders []Order, expected ...string) {
	t.Helper()
	if diff := cmp.Diff(expected, IDs(orders)); diff != "" {
		t.Errorf("order ids mismatch (-want +got):\n%s", diff)
	}
}

// AssertContainsID verifies that id is among ids
func AssertContainsID(t testing.TB, ids []string, id string) {
	t.Helper()
	for _, got := range ids {
		if got == id {
			return
		}
	}
	t.Errorf("id %s not found in %v", id, ids)
}

// AssertNotContainsID verifies that id is not among ids
func AssertNotContainsID(t testing.TB, ids []string, id string) {
	t.Helper()
	for _, got := range ids {
		if got == id {
			t.Errorf("id %s should not be in %v", id, ids)
			return
		}
	}
}

// AssertAllHave checks that every order satisfies pred, naming the field in
// the failure message
func AssertAllHave(t testing.TB, orders []Order, field string, pred func(Order) bool) {
	t.Helper()
	for _, o := range orders {
		if !pred(o) {
			t.Errorf("order %s does not match on %s", o.ID, field)
		}
	}
}

// AssertStrings compares string slices with a diff
func AssertStrings(t testing.TB, got []string, expected ...string) {
	t.Helper()
	if expected == nil {
		expected = []string{}
	}
	if got == nil {
		got = []string{}
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
