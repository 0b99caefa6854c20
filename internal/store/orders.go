package store

import (
	"context"
	"fmt"

	"warehouse-service/internal/models"
)

// CreateOrder inserts an order row
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO orders (id, order_number, customer_name, customer_email, customer_phone, status, priority, total_value, due_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := s.q.GetContext(ctx, o, query,
		o.ID, o.OrderNumber, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.Status, o.Priority, o.TotalValue, o.DueDate, o.Notes)
	return mapErr(err)
}

// CreateOrderItem inserts an order line
func (s *Store) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO order_items (id, order_id, product_id, quantity_ordered, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.OrderID, item.ProductID, item.QuantityOrdered, item.UnitPrice, item.TotalPrice)
	return mapErr(err)
}

// GetOrder retrieves an order by ID
func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.getOne(ctx, &o, fmt.Sprintf("order %s", id),
		"SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderForUpdate locks and returns the order row so concurrent status
// transitions serialize. Must be called inside WithTx.
func (s *Store) GetOrderForUpdate(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.getOne(ctx, &o, fmt.Sprintf("order %s", id),
		"SELECT * FROM orders WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders retrieves orders matching the filter with a total count
func (s *Store) ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error) {
	where, args := "", []interface{}{}
	and := func(cond string) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		and(fmt.Sprintf("(order_number ILIKE $%d OR customer_name ILIKE $%d OR customer_email ILIKE $%d)", n, n, n))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		and(fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		and(fmt.Sprintf("priority = $%d", len(args)))
	}

	var total int
	if err := s.q.GetContext(ctx, &total, "SELECT count(*) FROM orders"+where, args...); err != nil {
		return nil, 0, mapErr(err)
	}

	query := fmt.Sprintf("SELECT * FROM orders%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		where, f.Limit, f.Offset())
	var orders []models.Order
	if err := s.q.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, mapErr(err)
	}
	return orders, total, nil
}

// OrderItems retrieves all lines of an order
func (s *Store) OrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.q.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, mapErr(err)
}

// UpdateOrder writes the mutable order fields; status changes go through
// SetOrderStatus so transitions stay in one place.
func (s *Store) UpdateOrder(ctx context.Context, o *models.Order) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE orders
		SET customer_name = $1, customer_email = $2, customer_phone = $3,
		    priority = $4, due_date = $5, notes = $6, updated_at = NOW()
		WHERE id = $7`,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.Priority, o.DueDate, o.Notes, o.ID)
	return checkAffected(res, err, "order", o.ID)
}

// SetOrderStatus updates order status
func (s *Store) SetOrderStatus(ctx context.Context, id, status string) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	return checkAffected(res, err, "order", id)
}

// DeleteOrder hard-deletes an order; its items go with it via cascade.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	return checkAffected(res, err, "order", id)
}
