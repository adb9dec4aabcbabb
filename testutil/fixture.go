// Package testutil provides the shared dispatch fixture and assertion
// helpers used across the module's tests.
//
// The fixture holds twelve delivery orders:
//
//	status      PENDING 4, DELIVERED 4, IN_TRANSIT 3, FAILED 1
//	city        Zagreb 4, Split 3, Rijeka 2, Osijek 1, Zadar 1, Čakovec 1
//	driver      blank on o-005 and o-009
//	vehicle     blank on o-009
package testutil

import (
	_ "embed"
	"encoding/json"
	"testing"
	"time"

	"github.com/arthur-debert/dispatchgrid/types"
)

//go:embed testdata/orders.json
var ordersJSON []byte

// Known fixture counts
const (
	OrderCount      = 12
	PendingCount    = 4
	DeliveredCount  = 4
	InTransitCount  = 3
	FailedCount     = 1
	ZagrebCount     = 4
	SplitCount      = 3
	BlankDriverRows = 2
)

// Address is the delivery address of an order
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// Order is one delivery order as listed on the dispatch dashboard
type Order struct {
	ID       string    `json:"id"`
	Customer string    `json:"customer"`
	Address  Address   `json:"address"`
	Status   string    `json:"status"`
	WeightKg float64   `json:"weight_kg"`
	Vehicle  string    `json:"vehicle"`
	Driver   string    `json:"driver"`
	Priority int       `json:"priority"`
	ETA      time.Time `json:"eta"`
}

type fixtureData struct {
	Orders []Order `json:"orders"`
}

// OrdersJSON returns the raw fixture document
func OrdersJSON() []byte {
	return append([]byte(nil), ordersJSON...)
}

// LoadOrders decodes the fixture. Each call returns fresh values.
func LoadOrders(t testing.TB) []Order {
	t.Helper()

	var fixture fixtureData
	if err := json.Unmarshal(ordersJSON, &fixture); err != nil {
		t.Fatalf("failed to parse orders fixture: %v", err)
	}
	if len(fixture.Orders) != OrderCount {
		t.Fatalf("orders fixture holds %d orders, expected %d", len(fixture.Orders), OrderCount)
	}
	return fixture.Orders
}

// OrderID is the row id function for orders
func OrderID(o Order) string { return o.ID }

// OrderColumns is the column set of the orders page
func OrderColumns() []types.ColumnDef[Order] {
	return []types.ColumnDef[Order]{
		{Key: "id", Label: "Order", DisableFilter: true, WidthHint: 90},
		{Key: "customer", Label: "Customer", WidthHint: 200},
		{Key: "address.city", Label: "City"},
		{Key: "address.postal_code", Label: "Postal code", HiddenByDefault: true},
		{Key: "status", Label: "Status"},
		{Key: "weight_kg", Label: "Weight (kg)", WidthHint: 90},
		{Key: "vehicle", Label: "Vehicle"},
		{Key: "driver", Label: "Driver"},
		{Key: "priority", Label: "Priority", WidthHint: 70},
		{
			Key:             "eta",
			Label:           "ETA",
			HiddenByDefault: true,
			DisableFilter:   true,
			ValueOf:         func(o Order) any { return o.ETA.Format("2006-01-02 15:04") },
		},
	}
}

// IDs returns the ids of orders in order
func IDs(orders []Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}
