package testutil_test

import (
	"log/slog"
	"testing"

	"github.com/arthur-debert/dispatchgrid/testutil"
	"github.com/arthur-debert/dispatchgrid/types"
)

// TestFixtureCounts keeps the documented fixture counts honest
func TestFixtureCounts(t *testing.T) {
	orders := testutil.LoadOrders(t)

	count := func(pred func(testutil.Order) bool) int {
		n := 0
		for _, o := range orders {
			if pred(o) {
				n++
			}
		}
		return n
	}
	status := func(s string) func(testutil.Order) bool {
		return func(o testutil.Order) bool { return o.Status == s }
	}
	city := func(c string) func(testutil.Order) bool {
		return func(o testutil.Order) bool { return o.Address.City == c }
	}

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"pending", count(status("PENDING")), testutil.PendingCount},
		{"delivered", count(status("DELIVERED")), testutil.DeliveredCount},
		{"in transit", count(status("IN_TRANSIT")), testutil.InTransitCount},
		{"failed", count(status("FAILED")), testutil.FailedCount},
		{"zagreb", count(city("Zagreb")), testutil.ZagrebCount},
		{"split", count(city("Split")), testutil.SplitCount},
		{"blank driver", count(func(o testutil.Order) bool { return o.Driver == "" }), testutil.BlankDriverRows},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: fixture has %d, constant says %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestOrderColumnsResolve(t *testing.T) {
	orders := testutil.LoadOrders(t)
	byKey := map[string]types.ColumnDef[testutil.Order]{}
	for _, c := range testutil.OrderColumns() {
		byKey[c.Key] = c
	}

	first := orders[0]
	tests := map[string]string{
		"id":                  "o-001",
		"address.city":        "Zagreb",
		"address.postal_code": "10000",
		"weight_kg":           "120.5",
		"priority":            "2",
		"eta":                 "2026-03-02 08:00",
	}
	for key, want := range tests {
		if got := byKey[key].StringValue(first); got != want {
			t.Errorf("%s: expected %q, got %q", key, want, got)
		}
	}
}

func TestRecordingLogger(t *testing.T) {
	logger, rec := testutil.NewRecordingLogger()
	logger.Warn("layout load failed", "key", "orders")
	logger.Debug("layout changed")

	if rec.Count(slog.LevelWarn) != 1 || rec.Count(slog.LevelDebug) != 1 {
		t.Errorf("unexpected records %v", rec.Messages())
	}
	testutil.NewTestLogger(t).Info("visible in -v output")
}
