package product

import (
	"testing"
)

func TestComputeInventoryStats(t *testing.T) {
	products := []Product{
		{Name: "Desk", Price: 250, Inventory: 0},
		{Name: "Lamp", Price: 40, Inventory: 8},
		{Name: "Chair", Price: 120.5, Inventory: 20},
		{Name: "Cable", Price: 5, Inventory: 15},
	}

	stats := ComputeInventoryStats(products, 15)

	if stats.TotalProducts != 4 {
		t.Errorf("TotalProducts = %d, want 4", stats.TotalProducts)
	}
	if stats.LowStock != 2 {
		t.Errorf("LowStock = %d, want 2", stats.LowStock)
	}
	if stats.OutOfStock != 1 {
		t.Errorf("OutOfStock = %d, want 1", stats.OutOfStock)
	}
	wantValue := 0*250 + 8*40 + 20*120.5 + 15*5.0
	if stats.TotalValue != wantValue {
		t.Errorf("TotalValue = %v, want %v", stats.TotalValue, wantValue)
	}
}

func TestComputeInventoryStats_Empty(t *testing.T) {
	stats := ComputeInventoryStats(nil, 0)
	if stats != (InventoryStats{}) {
		t.Errorf("ComputeInventoryStats(nil) = %+v, want zero value", stats)
	}
}

func TestStockLevelOf(t *testing.T) {
	tests := []struct {
		inventory int
		want      StockLevel
	}{
		{0, OutOfStock},
		{1, LowStock},
		{14, LowStock},
		{15, InStock},
		{500, InStock},
	}

	for _, tt := range tests {
		if got := StockLevelOf(tt.inventory, 15); got != tt.want {
			t.Errorf("StockLevelOf(%d) = %v, want %v", tt.inventory, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Desk Lamp", "desk-lamp"},
		{"punctuation", "Ergo Chair (Mk II)", "ergo-chair-mk-ii"},
		{"leading and trailing", "  --USB-C Hub--  ", "usb-c-hub"},
		{"unicode letters", "Café Table", "café-table"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilterNormalize(t *testing.T) {
	got := Filter{Search: "  lamp ", Category: "All"}.Normalize()
	if got.Search != "lamp" || got.Category != "" {
		t.Errorf("Normalize() = %+v, want search=lamp category empty", got)
	}

	got = Filter{Category: "Furniture"}.Normalize()
	if got.Category != "Furniture" {
		t.Errorf("Normalize().Category = %q, want Furniture", got.Category)
	}
}
