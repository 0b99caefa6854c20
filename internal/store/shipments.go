package store

import (
	"context"
	"fmt"
	"time"

	"warehouse-service/internal/models"
)

// CreateInboundShipment inserts a shipment header
func (s *Store) CreateInboundShipment(ctx context.Context, sh *models.InboundShipment) error {
	query := `
		INSERT INTO inbound_shipments (id, receiving_id, supplier_name, po_number, status, expected_date, total_items, total_value, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := s.q.GetContext(ctx, sh, query,
		sh.ID, sh.ReceivingID, sh.SupplierName, sh.PONumber, sh.Status,
		sh.ExpectedDate, sh.TotalItems, sh.TotalValue, sh.Notes)
	return mapErr(err)
}

// CreateInboundItem inserts a shipment line
func (s *Store) CreateInboundItem(ctx context.Context, item *models.InboundShipmentItem) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO inbound_shipment_items (id, shipment_id, product_id, quantity_expected, unit_cost, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.ShipmentID, item.ProductID, item.QuantityExpected, item.UnitCost, item.TotalCost)
	return mapErr(err)
}

// GetInboundShipment retrieves a shipment header by ID
func (s *Store) GetInboundShipment(ctx context.Context, id string) (*models.InboundShipment, error) {
	var sh models.InboundShipment
	err := s.getOne(ctx, &sh, fmt.Sprintf("inbound shipment %s", id),
		"SELECT * FROM inbound_shipments WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// ListInboundShipments retrieves shipments matching the filter with a total count
func (s *Store) ListInboundShipments(ctx context.Context, f models.ShipmentFilter) ([]models.InboundShipment, int, error) {
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
		and(fmt.Sprintf("(receiving_id ILIKE $%d OR supplier_name ILIKE $%d OR po_number ILIKE $%d)", n, n, n))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		and(fmt.Sprintf("status = $%d", len(args)))
	}

	var total int
	if err := s.q.GetContext(ctx, &total, "SELECT count(*) FROM inbound_shipments"+where, args...); err != nil {
		return nil, 0, mapErr(err)
	}

	query := fmt.Sprintf("SELECT * FROM inbound_shipments%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		where, f.Limit, f.Offset())
	var shipments []models.InboundShipment
	if err := s.q.SelectContext(ctx, &shipments, query, args...); err != nil {
		return nil, 0, mapErr(err)
	}
	return shipments, total, nil
}

// InboundItems retrieves all lines of a shipment
func (s *Store) InboundItems(ctx context.Context, shipmentID string) ([]models.InboundShipmentItem, error) {
	var items []models.InboundShipmentItem
	err := s.q.SelectContext(ctx, &items,
		"SELECT * FROM inbound_shipment_items WHERE shipment_id = $1 ORDER BY id", shipmentID)
	return items, mapErr(err)
}

// UpdateInboundShipment writes the mutable header fields
func (s *Store) UpdateInboundShipment(ctx context.Context, sh *models.InboundShipment) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE inbound_shipments
		SET supplier_name = $1, po_number = $2, status = $3, expected_date = $4, notes = $5, updated_at = NOW()
		WHERE id = $6`,
		sh.SupplierName, sh.PONumber, sh.Status, sh.ExpectedDate, sh.Notes, sh.ID)
	return checkAffected(res, err, "inbound shipment", sh.ID)
}

// SetInboundReceived stamps the shipment RECEIVED
func (s *Store) SetInboundReceived(ctx context.Context, id string, at time.Time) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE inbound_shipments SET status = $1, received_date = $2, updated_at = NOW() WHERE id = $3`,
		models.InboundStatusReceived, at, id)
	return checkAffected(res, err, "inbound shipment", id)
}

// PendingInboundShipments returns shipments still expected, soonest first
func (s *Store) PendingInboundShipments(ctx context.Context) ([]models.InboundShipment, error) {
	var shipments []models.InboundShipment
	err := s.q.SelectContext(ctx, &shipments, `
		SELECT * FROM inbound_shipments
		WHERE status IN ($1, $2)
		ORDER BY expected_date NULLS LAST`,
		models.InboundStatusScheduled, models.InboundStatusInTransit)
	return shipments, mapErr(err)
}

// CreateOutboundShipment inserts an outbound header
func (s *Store) CreateOutboundShipment(ctx context.Context, sh *models.OutboundShipment) error {
	query := `
		INSERT INTO outbound_shipments (id, shipment_id, order_id, status, carrier, tracking_number, picker_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := s.q.GetContext(ctx, sh, query,
		sh.ID, sh.ShipmentID, sh.OrderID, sh.Status, sh.Carrier, sh.TrackingNumber, sh.PickerID)
	return mapErr(err)
}

// GetOutboundShipment retrieves an outbound header by ID
func (s *Store) GetOutboundShipment(ctx context.Context, id string) (*models.OutboundShipment, error) {
	var sh models.OutboundShipment
	err := s.getOne(ctx, &sh, fmt.Sprintf("outbound shipment %s", id),
		"SELECT * FROM outbound_shipments WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// ListOutboundShipments retrieves outbound headers matching the filter with a total count
func (s *Store) ListOutboundShipments(ctx context.Context, f models.ShipmentFilter) ([]models.OutboundShipment, int, error) {
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
		and(fmt.Sprintf("(shipment_id ILIKE $%d OR order_id IN (SELECT id FROM orders WHERE order_number ILIKE $%d OR customer_name ILIKE $%d))", n, n, n))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		and(fmt.Sprintf("status = $%d", len(args)))
	}

	var total int
	if err := s.q.GetContext(ctx, &total, "SELECT count(*) FROM outbound_shipments"+where, args...); err != nil {
		return nil, 0, mapErr(err)
	}

	query := fmt.Sprintf("SELECT * FROM outbound_shipments%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		where, f.Limit, f.Offset())
	var shipments []models.OutboundShipment
	if err := s.q.SelectContext(ctx, &shipments, query, args...); err != nil {
		return nil, 0, mapErr(err)
	}
	return shipments, total, nil
}

// SetOutboundPicking updates picker assignment and picking status
func (s *Store) SetOutboundPicking(ctx context.Context, id, pickerID, status string) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE outbound_shipments SET picker_id = $1, status = $2, updated_at = NOW() WHERE id = $3",
		pickerID, status, id)
	return checkAffected(res, err, "outbound shipment", id)
}

// SetOutboundShipped stamps the shipment SHIPPED with carrier details
func (s *Store) SetOutboundShipped(ctx context.Context, id, carrier, trackingNumber string, at time.Time) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE outbound_shipments
		SET status = $1, carrier = $2, tracking_number = $3, shipped_date = $4, updated_at = NOW()
		WHERE id = $5`,
		models.OutboundStatusShipped, carrier, trackingNumber, at, id)
	return checkAffected(res, err, "outbound shipment", id)
}
