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

// Ledger owns the inventory counter rows and their audit trail. All
// counter mutations flow through it (or through the order/receiving
// workflows, which write the same shape of adjustment entries inside
// their own transactions).
type Ledger struct {
	store     Store
	cache     InventoryCache
	publisher EventPublisher
	logger    *zap.Logger
}

// NewLedger creates a new inventory ledger
func NewLedger(store Store, cache InventoryCache, publisher EventPublisher) *Ledger {
	return &Ledger{
		store:     store,
		cache:     cache,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// AdjustRequest describes a manual stock adjustment.
type AdjustRequest struct {
	ProductID      string `json:"product_id" binding:"required"`
	WarehouseID    string `json:"warehouse_id" binding:"required"`
	AdjustmentType string `json:"adjustment_type" binding:"required"`
	Quantity       int    `json:"quantity" binding:"min=0"`
	Reason         string `json:"reason"`
	UserID         string `json:"user_id"`
}

// AdjustResult carries the updated record and its audit entry.
type AdjustResult struct {
	Inventory  *models.Inventory           `json:"inventory"`
	Adjustment *models.InventoryAdjustment `json:"adjustment"`
}

// Adjust applies a manual adjustment to the record for (product,
// warehouse): increase adds, decrease subtracts clamping at zero, count
// overwrites with an absolute recount. The counter update and the audit
// entry commit in one transaction; quantity_total is recomputed as
// available + reserved so the row leaves the call consistent.
func (l *Ledger) Adjust(ctx context.Context, req *AdjustRequest) (*AdjustResult, error) {
	ctx, span := util.StartSpan(ctx, "Ledger.Adjust")
	defer span.End()

	start := time.Now()
	defer func() {
		util.LedgerAdjustLatency.Observe(time.Since(start).Seconds())
	}()

	switch req.AdjustmentType {
	case models.AdjustmentIncrease, models.AdjustmentDecrease, models.AdjustmentCount:
	default:
		return nil, errs.InvalidArgumentf("invalid adjustment type %q", req.AdjustmentType)
	}
	if req.Quantity < 0 {
		return nil, errs.InvalidArgumentf("quantity must not be negative")
	}

	var result AdjustResult
	err := l.store.WithTx(ctx, func(tx Store) error {
		inv, err := tx.InventoryForUpdate(ctx, req.ProductID, req.WarehouseID)
		if err != nil {
			return err
		}

		before := inv.QuantityAvailable
		var after int
		switch req.AdjustmentType {
		case models.AdjustmentIncrease:
			after = before + req.Quantity
		case models.AdjustmentDecrease:
			after = clampZero(before - req.Quantity)
		case models.AdjustmentCount:
			after = req.Quantity
		}

		total := after + inv.QuantityReserved
		if err := tx.UpdateInventoryQuantities(ctx, inv.ID, after, inv.QuantityReserved, total); err != nil {
			return err
		}
		if req.AdjustmentType == models.AdjustmentCount {
			if err := tx.SetInventoryLastCounted(ctx, inv.ID, time.Now()); err != nil {
				return err
			}
		}

		adj := &models.InventoryAdjustment{
			ID:             uuid.NewString(),
			ProductID:      req.ProductID,
			WarehouseID:    req.WarehouseID,
			AdjustmentType: req.AdjustmentType,
			QuantityBefore: before,
			QuantityAfter:  after,
			QuantityChange: after - before,
			Reason:         req.Reason,
		}
		if req.UserID != "" {
			adj.UserID = &req.UserID
		}
		if err := tx.InsertAdjustment(ctx, adj); err != nil {
			return err
		}

		inv.QuantityAvailable = after
		inv.QuantityTotal = total
		result.Inventory = inv
		result.Adjustment = adj
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.InventoryAdjustmentsTotal.WithLabelValues(req.AdjustmentType).Inc()

	if err := l.cache.InvalidateInventory(ctx, result.Inventory.ID); err != nil {
		l.logger.Warn("Failed to invalidate inventory cache",
			zap.String("inventory_id", result.Inventory.ID),
			zap.Error(err))
	}

	event := &models.StockAdjustedEvent{
		BaseEvent:      newBaseEvent(models.EventTypeStockAdjusted),
		InventoryID:    result.Inventory.ID,
		ProductID:      req.ProductID,
		WarehouseID:    req.WarehouseID,
		AdjustmentType: req.AdjustmentType,
		QuantityBefore: result.Adjustment.QuantityBefore,
		QuantityAfter:  result.Adjustment.QuantityAfter,
		QuantityChange: result.Adjustment.QuantityChange,
		Reason:         req.Reason,
	}
	if err := l.publisher.PublishStockAdjusted(ctx, event); err != nil {
		l.logger.Error("Failed to publish StockAdjusted event", zap.Error(err))
	}

	return &result, nil
}

// CreateRecordRequest describes an explicit inventory record creation.
type CreateRecordRequest struct {
	ProductID         string `json:"product_id" binding:"required"`
	WarehouseID       string `json:"warehouse_id" binding:"required"`
	Location          string `json:"location"`
	QuantityAvailable int    `json:"quantity_available" binding:"min=0"`
	QuantityReserved  int    `json:"quantity_reserved" binding:"min=0"`
}

// CreateRecord creates a counter row with total derived from the two
// parts, never taken from the caller.
func (l *Ledger) CreateRecord(ctx context.Context, req *CreateRecordRequest) (*models.Inventory, error) {
	if _, err := l.store.GetProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}
	if _, err := l.store.GetWarehouse(ctx, req.WarehouseID); err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &models.Inventory{
		ID:                uuid.NewString(),
		ProductID:         req.ProductID,
		WarehouseID:       req.WarehouseID,
		Location:          req.Location,
		QuantityAvailable: req.QuantityAvailable,
		QuantityReserved:  req.QuantityReserved,
		QuantityTotal:     req.QuantityAvailable + req.QuantityReserved,
		LastCounted:       &now,
	}
	if err := l.store.CreateInventory(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetRecord reads a counter row through the cache.
func (l *Ledger) GetRecord(ctx context.Context, id string) (*models.Inventory, error) {
	if cached, err := l.cache.GetInventory(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	inv, err := l.store.GetInventory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.cache.SetInventory(ctx, inv); err != nil {
		l.logger.Warn("Failed to cache inventory", zap.String("inventory_id", id), zap.Error(err))
	}
	return inv, nil
}

// ListRecords lists counter rows matching the filter.
func (l *Ledger) ListRecords(ctx context.Context, f models.InventoryFilter) ([]models.Inventory, int, error) {
	f.Normalize()
	return l.store.ListInventory(ctx, f)
}

// UpdateLocation moves a record to a new bin location. Counters are not
// writable here; they change only through Adjust and the workflows.
func (l *Ledger) UpdateLocation(ctx context.Context, id, location string) (*models.Inventory, error) {
	if err := l.store.SetInventoryLocation(ctx, id, location); err != nil {
		return nil, err
	}
	inv, err := l.store.GetInventory(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = l.cache.InvalidateInventory(ctx, id)
	return inv, nil
}

// RemoveRecord deletes a counter row; the adjustment history stays.
func (l *Ledger) RemoveRecord(ctx context.Context, id string) error {
	if err := l.store.DeleteInventory(ctx, id); err != nil {
		return err
	}
	_ = l.cache.InvalidateInventory(ctx, id)
	return nil
}

// LowStockAlerts returns rows at or below their product's minimum stock.
func (l *Ledger) LowStockAlerts(ctx context.Context) ([]models.LowStockItem, error) {
	return l.store.LowStockInventory(ctx)
}

// History returns the most recent adjustment entries for a product.
func (l *Ledger) History(ctx context.Context, productID string, limit int) ([]models.InventoryAdjustment, error) {
	return l.store.ListAdjustments(ctx, productID, limit)
}
