package service

import (
	"context"

	"warehouse-service/internal/models"
)

// AnalyticsStore is the read-only aggregate surface the reports run on.
type AnalyticsStore interface {
	OrderStatusCounts(ctx context.Context) ([]models.StatusCount, error)
	OrderValueStats(ctx context.Context) (*models.OrderValueStats, error)
	TopCustomers(ctx context.Context, limit int) ([]models.CustomerStat, error)
	InventorySummary(ctx context.Context) (*models.InventorySummary, error)
	TopStockedProducts(ctx context.Context, limit int) ([]models.ProductStock, error)
	LowStockInventory(ctx context.Context) ([]models.LowStockItem, error)
	ListWarehouses(ctx context.Context) ([]models.Warehouse, error)
}

// AnalyticsService assembles the dashboard reports.
type AnalyticsService struct {
	store AnalyticsStore
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// OrderAnalytics reports order volume, value and top customers.
func (a *AnalyticsService) OrderAnalytics(ctx context.Context) (*models.OrderAnalytics, error) {
	counts, err := a.store.OrderStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := a.store.OrderValueStats(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := a.store.TopCustomers(ctx, 5)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	return &models.OrderAnalytics{
		TotalOrders:       stats.TotalOrders,
		OrdersByStatus:    byStatus,
		TotalValue:        stats.TotalValue,
		AverageOrderValue: stats.AverageValue,
		TopCustomers:      customers,
	}, nil
}

// InventoryAnalytics reports stock levels, low-stock pressure and
// advisory warehouse utilization.
func (a *AnalyticsService) InventoryAnalytics(ctx context.Context) (*models.InventoryAnalytics, error) {
	summary, err := a.store.InventorySummary(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := a.store.LowStockInventory(ctx)
	if err != nil {
		return nil, err
	}
	top, err := a.store.TopStockedProducts(ctx, 5)
	if err != nil {
		return nil, err
	}
	warehouses, err := a.store.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}

	utilization := make([]models.WarehouseUtilization, 0, len(warehouses))
	for _, w := range warehouses {
		pct := 0
		if w.TotalCapacity > 0 {
			pct = w.UsedCapacity * 100 / w.TotalCapacity
		}
		utilization = append(utilization, models.WarehouseUtilization{
			Name:        w.Name,
			Utilization: pct,
		})
	}

	return &models.InventoryAnalytics{
		TotalItems:           summary.TotalItems,
		LowStockCount:        len(lowStock),
		TotalQuantity:        summary.TotalQuantity,
		TopMovingProducts:    top,
		WarehouseUtilization: utilization,
	}, nil
}
