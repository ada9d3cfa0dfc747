package product

// DefaultLowStockThreshold is the inventory level below which a product
// counts as low stock.
const DefaultLowStockThreshold = 15

// InventoryStats summarises stock levels across the catalog.
type InventoryStats struct {
	TotalProducts int     `json:"total_products"`
	LowStock      int     `json:"low_stock"`
	OutOfStock    int     `json:"out_of_stock"`
	TotalValue    float64 `json:"total_value"`
}

// ComputeInventoryStats aggregates products. Out-of-stock products are also
// counted as low stock, matching the dashboard's "needs restocking" view.
func ComputeInventoryStats(products []Product, lowStockThreshold int) InventoryStats {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}

	var stats InventoryStats
	for _, p := range products {
		stats.TotalProducts++
		if p.Inventory < lowStockThreshold {
			stats.LowStock++
		}
		if p.Inventory == 0 {
			stats.OutOfStock++
		}
		stats.TotalValue += float64(p.Inventory) * p.Price
	}
	return stats
}

// StockLevel labels a single product's inventory.
type StockLevel string

const (
	InStock    StockLevel = "in_stock"
	LowStock   StockLevel = "low_stock"
	OutOfStock StockLevel = "out_of_stock"
)

// StockLevelOf classifies an inventory count against the threshold.
func StockLevelOf(inventory, lowStockThreshold int) StockLevel {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	switch {
	case inventory <= 0:
		return OutOfStock
	case inventory < lowStockThreshold:
		return LowStock
	default:
		return InStock
	}
}
