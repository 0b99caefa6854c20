package service

import (
	"context"
	"time"

	"warehouse-service/internal/errs"
	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShipmentService drives outbound picking and shipping. Shipping an
// order funnels the order into the same completion path the status
// endpoint uses, inside the same transaction as the shipment stamp.
type ShipmentService struct {
	store     Store
	orders    *OrderService
	publisher EventPublisher
	logger    *zap.Logger
}

// NewShipmentService creates a new shipment service
func NewShipmentService(store Store, orders *OrderService, publisher EventPublisher) *ShipmentService {
	return &ShipmentService{
		store:     store,
		orders:    orders,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// createOutboundForOrder opens a PICKING shipment for the order inside
// the caller's transaction, numbered from the per-day SHP- sequence.
func createOutboundForOrder(ctx context.Context, tx Store, orderID string) (*models.OutboundShipment, error) {
	now := time.Now()
	prefix := docPrefix(docKindShipment, now)
	seq, err := tx.NextSequence(ctx, prefix)
	if err != nil {
		return nil, err
	}

	sh := &models.OutboundShipment{
		ID:         uuid.NewString(),
		ShipmentID: docNumber(prefix, seq),
		OrderID:    orderID,
		Status:     models.OutboundStatusPicking,
	}
	if err := tx.CreateOutboundShipment(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// GeneratePickList opens a PICKING shipment for the order and returns
// the lines a picker must retrieve, located by each product's first
// inventory row. A product with no row is listed at location Unknown
// with zero available so the shortfall is visible on the floor.
func (s *ShipmentService) GeneratePickList(ctx context.Context, orderID string) (*models.OutboundShipment, []models.PickListItem, error) {
	ctx, span := util.StartSpan(ctx, "ShipmentService.GeneratePickList")
	defer span.End()

	var sh *models.OutboundShipment
	err := s.store.WithTx(ctx, func(tx Store) error {
		if _, err := tx.GetOrder(ctx, orderID); err != nil {
			return err
		}
		var err error
		sh, err = createOutboundForOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.OrderItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	pickList := make([]models.PickListItem, 0, len(items))
	for _, item := range items {
		line := models.PickListItem{
			ProductID:       item.ProductID,
			QuantityOrdered: item.QuantityOrdered,
			Location:        "Unknown",
		}
		if p, ok := byID[item.ProductID]; ok {
			line.SKU = p.SKU
			line.Name = p.Name
		}
		inv, err := s.store.FirstInventoryByProduct(ctx, item.ProductID)
		switch {
		case errs.IsNotFound(err):
		case err != nil:
			return nil, nil, err
		default:
			if inv.Location != "" {
				line.Location = inv.Location
			}
			line.Available = inv.QuantityAvailable
		}
		pickList = append(pickList, line)
	}

	util.PickListsGeneratedTotal.Inc()
	s.logger.Info("Pick list generated",
		zap.String("shipment_id", sh.ShipmentID),
		zap.String("order_id", orderID),
		zap.Int("lines", len(pickList)))
	return sh, pickList, nil
}

// Get retrieves an outbound shipment.
func (s *ShipmentService) Get(ctx context.Context, id string) (*models.OutboundShipment, error) {
	return s.store.GetOutboundShipment(ctx, id)
}

// List retrieves outbound shipments matching the filter with a total count.
func (s *ShipmentService) List(ctx context.Context, f models.ShipmentFilter) ([]models.OutboundShipment, int, error) {
	f.Normalize()
	return s.store.ListOutboundShipments(ctx, f)
}

// UpdatePicking assigns a picker and moves the shipment between floor
// statuses. SHIPPED is not settable here; it only happens through
// MarkAsShipped, which completes the order.
func (s *ShipmentService) UpdatePicking(ctx context.Context, id, pickerID, status string) (*models.OutboundShipment, error) {
	if !models.ValidOutboundStatus(status) {
		return nil, errs.InvalidArgumentf("invalid shipment status %q", status)
	}
	if status == models.OutboundStatusShipped {
		return nil, errs.InvalidArgumentf("shipments move to %s through the ship operation", models.OutboundStatusShipped)
	}

	if err := s.store.SetOutboundPicking(ctx, id, pickerID, status); err != nil {
		return nil, err
	}
	return s.store.GetOutboundShipment(ctx, id)
}

// MarkAsShipped stamps the shipment SHIPPED with carrier details and
// completes its order in the same transaction, so the stock deductions,
// audit entries and reservation fulfillment are identical to completing
// the order through the status endpoint. An order that is already
// COMPLETED (a second shipment going out) is left alone.
func (s *ShipmentService) MarkAsShipped(ctx context.Context, id, carrier, trackingNumber string) (*models.OutboundShipment, error) {
	ctx, span := util.StartSpan(ctx, "ShipmentService.MarkAsShipped")
	defer span.End()

	var sh *models.OutboundShipment
	var order *models.Order
	var fromStatus string
	var stockEvents []*models.StockAdjustedEvent
	err := s.store.WithTx(ctx, func(tx Store) error {
		cur, err := tx.GetOutboundShipment(ctx, id)
		if err != nil {
			return err
		}
		if cur.Status == models.OutboundStatusShipped {
			return errs.InvalidArgumentf("shipment %s is already shipped", cur.ShipmentID)
		}

		now := time.Now()
		if err := tx.SetOutboundShipped(ctx, cur.ID, carrier, trackingNumber, now); err != nil {
			return err
		}

		order, err = tx.GetOrderForUpdate(ctx, cur.OrderID)
		if err != nil {
			return err
		}
		fromStatus = order.Status
		if order.Status != models.OrderStatusCompleted {
			stockEvents, err = s.orders.transition(ctx, tx, order, models.OrderStatusCompleted)
			if err != nil {
				return err
			}
		}

		cur.Status = models.OutboundStatusShipped
		cur.Carrier = carrier
		cur.TrackingNumber = trackingNumber
		cur.ShippedDate = &now
		sh = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.ShipmentsShippedTotal.Inc()
	if fromStatus != models.OrderStatusCompleted {
		s.orders.publishStatusChange(ctx, order, fromStatus, models.OrderStatusCompleted)
	}
	s.orders.publishStockEvents(ctx, stockEvents)

	event := &models.ShipmentShippedEvent{
		BaseEvent:      newBaseEvent(models.EventTypeShipmentShipped),
		ShipmentID:     sh.ShipmentID,
		OutboundID:     sh.ID,
		OrderID:        sh.OrderID,
		Carrier:        carrier,
		TrackingNumber: trackingNumber,
	}
	if err := s.publisher.PublishShipmentShipped(ctx, event); err != nil {
		s.logger.Error("Failed to publish ShipmentShipped event", zap.Error(err))
	}

	s.logger.Info("Shipment shipped",
		zap.String("shipment_id", sh.ShipmentID),
		zap.String("order_id", sh.OrderID),
		zap.String("carrier", carrier))
	return sh, nil
}
