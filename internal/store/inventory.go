package store

import (
	"context"
	"fmt"
	"time"

	"warehouse-service/internal/models"
)

// CreateInventory inserts a counter row
func (s *Store) CreateInventory(ctx context.Context, inv *models.Inventory) error {
	query := `
		INSERT INTO inventory (id, product_id, warehouse_id, location, quantity_available, quantity_reserved, quantity_total, last_counted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := s.q.GetContext(ctx, inv, query,
		inv.ID, inv.ProductID, inv.WarehouseID, inv.Location,
		inv.QuantityAvailable, inv.QuantityReserved, inv.QuantityTotal, inv.LastCounted)
	return mapErr(err)
}

// GetInventory retrieves a counter row by ID
func (s *Store) GetInventory(ctx context.Context, id string) (*models.Inventory, error) {
	var inv models.Inventory
	err := s.getOne(ctx, &inv, fmt.Sprintf("inventory %s", id),
		"SELECT * FROM inventory WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInventory retrieves counter rows matching the filter with a total count
func (s *Store) ListInventory(ctx context.Context, f models.InventoryFilter) ([]models.Inventory, int, error) {
	where, args := "", []interface{}{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		cond = fmt.Sprintf(cond, len(args))
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	if f.WarehouseID != "" {
		add("i.warehouse_id = $%d", f.WarehouseID)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		cond := fmt.Sprintf("i.product_id IN (SELECT id FROM products WHERE name ILIKE $%d OR sku ILIKE $%d)", n, n)
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}
	if f.LowStock {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += "i.quantity_available <= (SELECT minimum_stock FROM products p WHERE p.id = i.product_id)"
	}

	var total int
	if err := s.q.GetContext(ctx, &total, "SELECT count(*) FROM inventory i"+where, args...); err != nil {
		return nil, 0, mapErr(err)
	}

	query := fmt.Sprintf("SELECT i.* FROM inventory i%s ORDER BY i.updated_at DESC LIMIT %d OFFSET %d",
		where, f.Limit, f.Offset())
	var items []models.Inventory
	if err := s.q.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, mapErr(err)
	}
	return items, total, nil
}

// InventoryForUpdate locks and returns the row for (product, warehouse).
// Must be called inside WithTx; the lock is held until the transaction
// ends.
func (s *Store) InventoryForUpdate(ctx context.Context, productID, warehouseID string) (*models.Inventory, error) {
	var inv models.Inventory
	err := s.getOne(ctx, &inv, fmt.Sprintf("inventory for product %s in warehouse %s", productID, warehouseID),
		"SELECT * FROM inventory WHERE product_id = $1 AND warehouse_id = $2 ORDER BY created_at LIMIT 1 FOR UPDATE",
		productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FirstInventoryByProduct returns the first known row for a product
// across warehouses.
func (s *Store) FirstInventoryByProduct(ctx context.Context, productID string) (*models.Inventory, error) {
	var inv models.Inventory
	err := s.getOne(ctx, &inv, fmt.Sprintf("inventory for product %s", productID),
		"SELECT * FROM inventory WHERE product_id = $1 ORDER BY created_at LIMIT 1", productID)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FirstInventoryByProductForUpdate is FirstInventoryByProduct with a row
// lock. Must be called inside WithTx.
func (s *Store) FirstInventoryByProductForUpdate(ctx context.Context, productID string) (*models.Inventory, error) {
	var inv models.Inventory
	err := s.getOne(ctx, &inv, fmt.Sprintf("inventory for product %s", productID),
		"SELECT * FROM inventory WHERE product_id = $1 ORDER BY created_at LIMIT 1 FOR UPDATE", productID)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateInventoryQuantities writes all three counters in one statement so
// a row is never observable with a partially applied change.
func (s *Store) UpdateInventoryQuantities(ctx context.Context, id string, available, reserved, total int) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE inventory
		SET quantity_available = $1, quantity_reserved = $2, quantity_total = $3, updated_at = NOW()
		WHERE id = $4`,
		available, reserved, total, id)
	return checkAffected(res, err, "inventory", id)
}

// SetInventoryLocation moves a row to a new bin location
func (s *Store) SetInventoryLocation(ctx context.Context, id, location string) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE inventory SET location = $1, updated_at = NOW() WHERE id = $2", location, id)
	return checkAffected(res, err, "inventory", id)
}

// SetInventoryLastCounted stamps the row after a physical receipt or count
func (s *Store) SetInventoryLastCounted(ctx context.Context, id string, at time.Time) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE inventory SET last_counted = $1, updated_at = NOW() WHERE id = $2", at, id)
	return checkAffected(res, err, "inventory", id)
}

// DeleteInventory removes a counter row
func (s *Store) DeleteInventory(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM inventory WHERE id = $1", id)
	return checkAffected(res, err, "inventory", id)
}

// LowStockInventory returns rows at or below their product's minimum stock
func (s *Store) LowStockInventory(ctx context.Context) ([]models.LowStockItem, error) {
	var items []models.LowStockItem
	err := s.q.SelectContext(ctx, &items, `
		SELECT i.id AS inventory_id, i.product_id, p.sku, p.name AS product_name,
		       i.warehouse_id, i.location, i.quantity_available, p.minimum_stock
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE i.quantity_available <= p.minimum_stock
		ORDER BY i.quantity_available`)
	return items, mapErr(err)
}

// InsertAdjustment appends an audit record; adjustments are never updated
// or deleted.
func (s *Store) InsertAdjustment(ctx context.Context, adj *models.InventoryAdjustment) error {
	query := `
		INSERT INTO inventory_adjustments (id, product_id, warehouse_id, adjustment_type, quantity_before, quantity_after, quantity_change, reason, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := s.q.GetContext(ctx, adj, query,
		adj.ID, adj.ProductID, adj.WarehouseID, adj.AdjustmentType,
		adj.QuantityBefore, adj.QuantityAfter, adj.QuantityChange, adj.Reason, adj.UserID)
	return mapErr(err)
}

// ListAdjustments returns the most recent audit records for a product
func (s *Store) ListAdjustments(ctx context.Context, productID string, limit int) ([]models.InventoryAdjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	var adjs []models.InventoryAdjustment
	err := s.q.SelectContext(ctx, &adjs,
		"SELECT * FROM inventory_adjustments WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2",
		productID, limit)
	return adjs, mapErr(err)
}

// InsertReservation creates a hold on stock for one order item
func (s *Store) InsertReservation(ctx context.Context, r *models.InventoryReservation) error {
	query := `
		INSERT INTO inventory_reservations (id, product_id, order_id, quantity_reserved, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := s.q.GetContext(ctx, r, query,
		r.ID, r.ProductID, r.OrderID, r.QuantityReserved, r.Status, r.ExpiresAt)
	return mapErr(err)
}

// ActiveReservationsByOrder returns the order's active holds, locked for
// the transaction so concurrent release paths cannot double-decrement.
func (s *Store) ActiveReservationsByOrder(ctx context.Context, orderID string) ([]models.InventoryReservation, error) {
	var reservations []models.InventoryReservation
	err := s.q.SelectContext(ctx, &reservations,
		"SELECT * FROM inventory_reservations WHERE order_id = $1 AND status = $2 ORDER BY created_at FOR UPDATE",
		orderID, models.ReservationActive)
	return reservations, mapErr(err)
}

// SetReservationStatus transitions a single reservation
func (s *Store) SetReservationStatus(ctx context.Context, id, status string) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE inventory_reservations SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id)
	return checkAffected(res, err, "reservation", id)
}

// ExpiredActiveReservations returns up to limit holds past their expiry,
// oldest first, skipping rows another sweep already locked.
func (s *Store) ExpiredActiveReservations(ctx context.Context, cutoff time.Time, limit int) ([]models.InventoryReservation, error) {
	var reservations []models.InventoryReservation
	err := s.q.SelectContext(ctx, &reservations, `
		SELECT * FROM inventory_reservations
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED`,
		models.ReservationActive, cutoff, limit)
	return reservations, mapErr(err)
}
