package models

// StatusCount is one bucket of a group-by-status query.
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

// OrderValueStats aggregates order counts and values.
type OrderValueStats struct {
	TotalOrders  int64   `db:"total_orders" json:"total_orders"`
	TotalValue   float64 `db:"total_value" json:"total_value"`
	AverageValue float64 `db:"average_value" json:"average_value"`
}

// CustomerStat is one row of the top-customers report.
type CustomerStat struct {
	Name       string  `db:"customer_name" json:"name"`
	OrderCount int64   `db:"order_count" json:"order_count"`
	TotalValue float64 `db:"total_value" json:"total_value"`
}

// InventorySummary aggregates the counter rows.
type InventorySummary struct {
	TotalItems    int64 `db:"total_items" json:"total_items"`
	TotalQuantity int64 `db:"total_quantity" json:"total_quantity"`
}

// ProductStock is one row of the top-stocked-products report.
type ProductStock struct {
	SKU      string `db:"sku" json:"sku"`
	Name     string `db:"name" json:"name"`
	Quantity int64  `db:"quantity" json:"quantity"`
}

// WarehouseUtilization reports used versus total capacity per site.
type WarehouseUtilization struct {
	Name        string `json:"name"`
	Utilization int    `json:"utilization"`
}

// OrderAnalytics is the order analytics report.
type OrderAnalytics struct {
	TotalOrders       int64            `json:"total_orders"`
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	TotalValue        float64          `json:"total_value"`
	AverageOrderValue float64          `json:"average_order_value"`
	TopCustomers      []CustomerStat   `json:"top_customers"`
}

// InventoryAnalytics is the inventory analytics report.
type InventoryAnalytics struct {
	TotalItems           int64                  `json:"total_items"`
	LowStockCount        int                    `json:"low_stock_count"`
	TotalQuantity        int64                  `json:"total_quantity"`
	TopMovingProducts    []ProductStock         `json:"top_moving_products"`
	WarehouseUtilization []WarehouseUtilization `json:"warehouse_utilization"`
}
