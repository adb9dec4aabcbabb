package grid_test

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/dispatchgrid/grid"
	"github.com/arthur-debert/dispatchgrid/types"
)

type shipment struct {
	ID     int    `json:"id"`
	City   string `json:"city"`
	Status string `json:"status"`
	Driver string `json:"driver"`
}

func shipmentColumns() []types.ColumnDef[shipment] {
	return []types.ColumnDef[shipment]{
		{Key: "id", Label: "ID", DisableFilter: true},
		{Key: "city", Label: "City"},
		{Key: "status", Label: "Status"},
		{Key: "driver", Label: "Driver", HiddenByDefault: true},
	}
}

func shipmentID(s shipment) string { return fmt.Sprint(s.ID) }

func Example() {
	c := grid.MustNew(shipmentColumns(), shipmentID)
	c.SetRows([]shipment{
		{ID: 1, City: "Zagreb", Status: "PENDING"},
		{ID: 2, City: "Split", Status: "DELIVERED"},
		{ID: 3, City: "Zagreb", Status: "DELIVERED"},
	})

	c.ToggleColumnFilterValue("status", "DELIVERED")
	c.SortBy("city")

	v := c.View()
	for _, row := range v.Rows {
		fmt.Println(row.ID, row.City)
	}
	fmt.Println("city menu:", v.Distinct["city"])
	fmt.Println("status menu:", v.Distinct["status"])
	fmt.Printf("page %d of %d\n", v.Page.CurrentPage+1, v.PageCount)
	// Output:
	// 2 Split
	// 3 Zagreb
	// city menu: [Split Zagreb]
	// status menu: [DELIVERED PENDING]
	// page 1 of 1
}

func ExampleController_Reorder() {
	c := grid.MustNew(shipmentColumns(), shipmentID)
	c.ToggleVisibility("driver")
	c.Reorder("driver", "city")

	var keys []string
	for _, col := range c.View().Columns {
		keys = append(keys, col.Key)
	}
	fmt.Println(strings.Join(keys, " "))
	// Output:
	// id driver city status
}

func ExampleController_ToggleCurrentPage() {
	c := grid.MustNew(shipmentColumns(), shipmentID, grid.WithPageSize(2))
	c.SetRows([]shipment{{ID: 1}, {ID: 2}, {ID: 3}})

	c.ToggleRow("2")
	fmt.Println(c.View().PageSelection)
	fmt.Println(c.ToggleCurrentPage(), c.Selected())
	fmt.Println(c.ToggleCurrentPage(), c.Selected())
	// Output:
	// some
	// all [1 2]
	// none []
}
