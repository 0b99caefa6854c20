package store

import (
	"context"

	"warehouse-service/internal/models"
)

// OrderStatusCounts groups orders by status
func (s *Store) OrderStatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	var counts []models.StatusCount
	err := s.q.SelectContext(ctx, &counts,
		"SELECT status, count(*) AS count FROM orders GROUP BY status")
	return counts, mapErr(err)
}

// OrderValueStats aggregates order counts and values in one pass
func (s *Store) OrderValueStats(ctx context.Context) (*models.OrderValueStats, error) {
	var stats models.OrderValueStats
	err := s.q.GetContext(ctx, &stats, `
		SELECT count(*) AS total_orders,
		       COALESCE(sum(total_value), 0) AS total_value,
		       COALESCE(avg(total_value), 0) AS average_value
		FROM orders`)
	if err != nil {
		return nil, mapErr(err)
	}
	return &stats, nil
}

// TopCustomers returns the customers with the most orders
func (s *Store) TopCustomers(ctx context.Context, limit int) ([]models.CustomerStat, error) {
	var customers []models.CustomerStat
	err := s.q.SelectContext(ctx, &customers, `
		SELECT customer_name, count(*) AS order_count, COALESCE(sum(total_value), 0) AS total_value
		FROM orders
		GROUP BY customer_name
		ORDER BY order_count DESC
		LIMIT $1`, limit)
	return customers, mapErr(err)
}

// InventorySummary aggregates the counter rows
func (s *Store) InventorySummary(ctx context.Context) (*models.InventorySummary, error) {
	var summary models.InventorySummary
	err := s.q.GetContext(ctx, &summary, `
		SELECT count(*) AS total_items, COALESCE(sum(quantity_total), 0) AS total_quantity
		FROM inventory`)
	if err != nil {
		return nil, mapErr(err)
	}
	return &summary, nil
}

// TopStockedProducts returns the products with the largest on-hand totals
func (s *Store) TopStockedProducts(ctx context.Context, limit int) ([]models.ProductStock, error) {
	var products []models.ProductStock
	err := s.q.SelectContext(ctx, &products, `
		SELECT p.sku, p.name, COALESCE(sum(i.quantity_total), 0) AS quantity
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		GROUP BY p.sku, p.name
		ORDER BY quantity DESC
		LIMIT $1`, limit)
	return products, mapErr(err)
}
