package service

import (
	"context"
	"fmt"
	"time"

	"warehouse-service/internal/errs"
	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceivingService tracks inbound shipments and applies received stock
// to the inventory ledger.
type ReceivingService struct {
	store     Store
	cache     InventoryCache
	publisher EventPublisher
	logger    *zap.Logger
}

// NewReceivingService creates a new receiving service
func NewReceivingService(store Store, cache InventoryCache, publisher EventPublisher) *ReceivingService {
	return &ReceivingService{
		store:     store,
		cache:     cache,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// InboundItemRequest is one expected line of an inbound shipment.
type InboundItemRequest struct {
	ProductID        string  `json:"product_id" binding:"required"`
	QuantityExpected int     `json:"quantity_expected" binding:"required,min=1"`
	UnitCost         float64 `json:"unit_cost" binding:"min=0"`
}

// CreateInboundRequest describes a new inbound shipment.
type CreateInboundRequest struct {
	SupplierName string               `json:"supplier_name" binding:"required"`
	PONumber     string               `json:"po_number"`
	ExpectedDate *time.Time           `json:"expected_date"`
	Notes        string               `json:"notes"`
	Items        []InboundItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInboundRequest carries the mutable header fields of an inbound
// shipment. RECEIVED is not settable here; it only happens through
// MarkReceived, which applies the stock.
type UpdateInboundRequest struct {
	SupplierName *string    `json:"supplier_name"`
	PONumber     *string    `json:"po_number"`
	Status       *string    `json:"status"`
	ExpectedDate *time.Time `json:"expected_date"`
	Notes        *string    `json:"notes"`
}

// Create persists the shipment header and its lines in one transaction,
// with the RCV- number drawn from the per-day sequence and the header
// totals derived from the lines.
func (s *ReceivingService) Create(ctx context.Context, req *CreateInboundRequest) (*models.InboundShipment, []models.InboundShipmentItem, error) {
	ctx, span := util.StartSpan(ctx, "ReceivingService.Create")
	defer span.End()

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	known := make(map[string]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}
	for _, item := range req.Items {
		if !known[item.ProductID] {
			return nil, nil, errs.NotFoundf("product %s not found", item.ProductID)
		}
	}

	totalItems := 0
	var totalValue float64
	for _, item := range req.Items {
		totalItems += item.QuantityExpected
		totalValue += item.UnitCost * float64(item.QuantityExpected)
	}

	var sh *models.InboundShipment
	var items []models.InboundShipmentItem
	err = s.store.WithTx(ctx, func(tx Store) error {
		now := time.Now()
		prefix := docPrefix(docKindReceipt, now)
		seq, err := tx.NextSequence(ctx, prefix)
		if err != nil {
			return err
		}

		sh = &models.InboundShipment{
			ID:           uuid.NewString(),
			ReceivingID:  docNumber(prefix, seq),
			SupplierName: req.SupplierName,
			PONumber:     req.PONumber,
			Status:       models.InboundStatusScheduled,
			ExpectedDate: req.ExpectedDate,
			TotalItems:   totalItems,
			TotalValue:   totalValue,
			Notes:        req.Notes,
		}
		if err := tx.CreateInboundShipment(ctx, sh); err != nil {
			return err
		}

		items = items[:0]
		for _, r := range req.Items {
			item := models.InboundShipmentItem{
				ID:               uuid.NewString(),
				ShipmentID:       sh.ID,
				ProductID:        r.ProductID,
				QuantityExpected: r.QuantityExpected,
				UnitCost:         r.UnitCost,
				TotalCost:        r.UnitCost * float64(r.QuantityExpected),
			}
			if err := tx.CreateInboundItem(ctx, &item); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Inbound shipment created",
		zap.String("shipment_id", sh.ID),
		zap.String("receiving_id", sh.ReceivingID),
		zap.Int("total_items", sh.TotalItems))
	return sh, items, nil
}

// Get retrieves a shipment with its lines.
func (s *ReceivingService) Get(ctx context.Context, id string) (*models.InboundShipment, []models.InboundShipmentItem, error) {
	sh, err := s.store.GetInboundShipment(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.store.InboundItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sh, items, nil
}

// List retrieves shipments matching the filter with a total count.
func (s *ReceivingService) List(ctx context.Context, f models.ShipmentFilter) ([]models.InboundShipment, int, error) {
	f.Normalize()
	return s.store.ListInboundShipments(ctx, f)
}

// Update writes the mutable header fields of a shipment.
func (s *ReceivingService) Update(ctx context.Context, id string, req *UpdateInboundRequest) (*models.InboundShipment, error) {
	if req.Status != nil {
		switch *req.Status {
		case models.InboundStatusScheduled, models.InboundStatusInTransit, models.InboundStatusCancelled:
		default:
			return nil, errs.InvalidArgumentf("invalid inbound status %q", *req.Status)
		}
	}

	var sh *models.InboundShipment
	err := s.store.WithTx(ctx, func(tx Store) error {
		cur, err := tx.GetInboundShipment(ctx, id)
		if err != nil {
			return err
		}
		if cur.Status == models.InboundStatusReceived {
			return errs.InvalidArgumentf("inbound shipment %s is already received", cur.ReceivingID)
		}
		if req.SupplierName != nil {
			cur.SupplierName = *req.SupplierName
		}
		if req.PONumber != nil {
			cur.PONumber = *req.PONumber
		}
		if req.Status != nil {
			cur.Status = *req.Status
		}
		if req.ExpectedDate != nil {
			cur.ExpectedDate = req.ExpectedDate
		}
		if req.Notes != nil {
			cur.Notes = *req.Notes
		}
		if err := tx.UpdateInboundShipment(ctx, cur); err != nil {
			return err
		}
		sh = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// MarkReceived stamps the shipment RECEIVED and applies every line to
// the ledger in one transaction: an existing inventory row gains
// available and total, a product with no row anywhere gets one created
// at the first warehouse on record. Each line leaves an increase audit
// entry referencing the receipt.
func (s *ReceivingService) MarkReceived(ctx context.Context, id string) (*models.InboundShipment, error) {
	ctx, span := util.StartSpan(ctx, "ReceivingService.MarkReceived")
	defer span.End()

	var sh *models.InboundShipment
	var received []models.ReceivedItemData
	var touched []string
	err := s.store.WithTx(ctx, func(tx Store) error {
		cur, err := tx.GetInboundShipment(ctx, id)
		if err != nil {
			return err
		}
		if cur.Status == models.InboundStatusReceived {
			return errs.InvalidArgumentf("inbound shipment %s is already received", cur.ReceivingID)
		}
		if cur.Status == models.InboundStatusCancelled {
			return errs.InvalidArgumentf("inbound shipment %s is cancelled", cur.ReceivingID)
		}

		now := time.Now()
		if err := tx.SetInboundReceived(ctx, cur.ID, now); err != nil {
			return err
		}

		items, err := tx.InboundItems(ctx, cur.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			invID, err := s.applyReceipt(ctx, tx, cur.ReceivingID, item, now)
			if err != nil {
				return err
			}
			received = append(received, models.ReceivedItemData{
				ProductID:   item.ProductID,
				InventoryID: invID,
				Quantity:    item.QuantityExpected,
			})
			touched = append(touched, invID)
		}

		cur.Status = models.InboundStatusReceived
		cur.ReceivedDate = &now
		sh = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.ShipmentsReceivedTotal.Inc()
	for _, invID := range touched {
		if err := s.cache.InvalidateInventory(ctx, invID); err != nil {
			s.logger.Warn("Failed to invalidate inventory cache",
				zap.String("inventory_id", invID), zap.Error(err))
		}
	}

	event := &models.ShipmentReceivedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeShipmentReceived),
		ShipmentID:  sh.ID,
		ReceivingID: sh.ReceivingID,
		Items:       received,
	}
	if err := s.publisher.PublishShipmentReceived(ctx, event); err != nil {
		s.logger.Error("Failed to publish ShipmentReceived event", zap.Error(err))
	}

	s.logger.Info("Inbound shipment received",
		zap.String("shipment_id", sh.ID),
		zap.String("receiving_id", sh.ReceivingID),
		zap.Int("lines", len(received)))
	return sh, nil
}

// applyReceipt adds one received line to the ledger inside the caller's
// transaction and returns the inventory row it landed on.
func (s *ReceivingService) applyReceipt(ctx context.Context, tx Store, receivingID string, item models.InboundShipmentItem, now time.Time) (string, error) {
	inv, err := tx.FirstInventoryByProductForUpdate(ctx, item.ProductID)
	if err != nil && !errs.IsNotFound(err) {
		return "", err
	}

	var before, after int
	var warehouseID, invID string
	if inv == nil || errs.IsNotFound(err) {
		wh, err := tx.FirstWarehouse(ctx)
		if err != nil {
			return "", err
		}
		fresh := &models.Inventory{
			ID:                uuid.NewString(),
			ProductID:         item.ProductID,
			WarehouseID:       wh.ID,
			QuantityAvailable: item.QuantityExpected,
			QuantityReserved:  0,
			QuantityTotal:     item.QuantityExpected,
			LastCounted:       &now,
		}
		if err := tx.CreateInventory(ctx, fresh); err != nil {
			return "", err
		}
		before, after = 0, item.QuantityExpected
		warehouseID, invID = wh.ID, fresh.ID
	} else {
		before = inv.QuantityAvailable
		after = before + item.QuantityExpected
		total := inv.QuantityTotal + item.QuantityExpected
		if err := tx.UpdateInventoryQuantities(ctx, inv.ID, after, inv.QuantityReserved, total); err != nil {
			return "", err
		}
		if err := tx.SetInventoryLastCounted(ctx, inv.ID, now); err != nil {
			return "", err
		}
		warehouseID, invID = inv.WarehouseID, inv.ID
	}

	adj := &models.InventoryAdjustment{
		ID:             uuid.NewString(),
		ProductID:      item.ProductID,
		WarehouseID:    warehouseID,
		AdjustmentType: models.AdjustmentIncrease,
		QuantityBefore: before,
		QuantityAfter:  after,
		QuantityChange: after - before,
		Reason:         fmt.Sprintf("Inbound receipt %s", receivingID),
	}
	if err := tx.InsertAdjustment(ctx, adj); err != nil {
		return "", err
	}
	util.InventoryAdjustmentsTotal.WithLabelValues(models.AdjustmentIncrease).Inc()
	return invID, nil
}

// PendingReceipts returns shipments still expected, soonest first.
func (s *ReceivingService) PendingReceipts(ctx context.Context) ([]models.InboundShipment, error) {
	return s.store.PendingInboundShipments(ctx)
}
