package service

import (
	"context"
	"errors"
	"time"

	"warehouse-service/internal/errs"
	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationManager tracks the soft holds orders place on stock. A
// reservation moves quantity from the available pool into reserved
// bookkeeping without changing what is physically on hand, so
// quantity_total stays untouched; the on-hand counters only drop when
// the order completes.
type ReservationManager struct {
	store     Store
	cache     InventoryCache
	publisher EventPublisher
	ttl       time.Duration
	logger    *zap.Logger
}

// NewReservationManager creates a new reservation manager. ttl is how
// long a hold lives before the sweeper reclaims it.
func NewReservationManager(store Store, cache InventoryCache, publisher EventPublisher, ttl time.Duration) *ReservationManager {
	return &ReservationManager{
		store:     store,
		cache:     cache,
		publisher: publisher,
		ttl:       ttl,
		logger:    util.GetLogger(),
	}
}

// reserveForOrder places one hold per order line inside the caller's
// transaction. A product with no inventory row still gets a reservation
// row so the hold is released correctly later; the missing row is only
// logged. Returns the IDs of the inventory rows it touched.
func (m *ReservationManager) reserveForOrder(ctx context.Context, tx Store, order *models.Order, items []models.OrderItem) ([]string, error) {
	var touched []string
	for _, item := range items {
		inv, err := tx.FirstInventoryByProductForUpdate(ctx, item.ProductID)
		switch {
		case errors.Is(err, errs.ErrNotFound):
			m.logger.Warn("No inventory record for ordered product, reservation tracked without a hold",
				zap.String("product_id", item.ProductID),
				zap.String("order_id", order.ID))
		case err != nil:
			return nil, err
		default:
			reserved := inv.QuantityReserved + item.QuantityOrdered
			if err := tx.UpdateInventoryQuantities(ctx, inv.ID, inv.QuantityAvailable, reserved, inv.QuantityTotal); err != nil {
				return nil, err
			}
			touched = append(touched, inv.ID)
		}

		r := &models.InventoryReservation{
			ID:               uuid.NewString(),
			ProductID:        item.ProductID,
			OrderID:          order.ID,
			QuantityReserved: item.QuantityOrdered,
			Status:           models.ReservationActive,
			ExpiresAt:        time.Now().Add(m.ttl),
		}
		if err := tx.InsertReservation(ctx, r); err != nil {
			return nil, err
		}
		util.ReservationsCreatedTotal.Inc()
	}
	return touched, nil
}

// release returns all active holds of an order to the available pool
// inside the caller's transaction. Already-released orders are a no-op,
// so cancel and delete paths can call it unconditionally.
func (m *ReservationManager) release(ctx context.Context, tx Store, orderID string) ([]string, error) {
	reservations, err := tx.ActiveReservationsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var touched []string
	for _, r := range reservations {
		inv, err := tx.FirstInventoryByProductForUpdate(ctx, r.ProductID)
		switch {
		case errors.Is(err, errs.ErrNotFound):
			m.logger.Warn("No inventory record while releasing reservation",
				zap.String("product_id", r.ProductID),
				zap.String("reservation_id", r.ID))
		case err != nil:
			return nil, err
		default:
			reserved := clampZero(inv.QuantityReserved - r.QuantityReserved)
			if err := tx.UpdateInventoryQuantities(ctx, inv.ID, inv.QuantityAvailable, reserved, inv.QuantityTotal); err != nil {
				return nil, err
			}
			touched = append(touched, inv.ID)
		}

		if err := tx.SetReservationStatus(ctx, r.ID, models.ReservationExpired); err != nil {
			return nil, err
		}
		util.ReservationsReleasedTotal.Inc()
	}
	return touched, nil
}

// fulfill stamps an order's active holds FULFILLED inside the caller's
// transaction. The counter work happens in order completion, which
// already deducts the shipped quantity from all three counters.
func (m *ReservationManager) fulfill(ctx context.Context, tx Store, orderID string) error {
	reservations, err := tx.ActiveReservationsByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	for _, r := range reservations {
		if err := tx.SetReservationStatus(ctx, r.ID, models.ReservationFulfilled); err != nil {
			return err
		}
	}
	return nil
}

// Release returns an order's holds in its own transaction.
func (m *ReservationManager) Release(ctx context.Context, orderID string) error {
	var touched []string
	err := m.store.WithTx(ctx, func(tx Store) error {
		var err error
		touched, err = m.release(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return err
	}
	m.invalidate(ctx, touched)
	return nil
}

// ReleaseExpired reclaims up to batch overdue holds and returns how many
// it released. The sweeper calls this on a timer; SKIP LOCKED in the
// underlying query keeps concurrent sweeps from fighting over rows.
func (m *ReservationManager) ReleaseExpired(ctx context.Context, batch int) (int, error) {
	ctx, span := util.StartSpan(ctx, "ReservationManager.ReleaseExpired")
	defer span.End()

	var expired []models.InventoryReservation
	var touched []string
	err := m.store.WithTx(ctx, func(tx Store) error {
		rs, err := tx.ExpiredActiveReservations(ctx, time.Now(), batch)
		if err != nil {
			return err
		}
		for _, r := range rs {
			inv, err := tx.FirstInventoryByProductForUpdate(ctx, r.ProductID)
			switch {
			case errors.Is(err, errs.ErrNotFound):
				m.logger.Warn("No inventory record while expiring reservation",
					zap.String("product_id", r.ProductID),
					zap.String("reservation_id", r.ID))
			case err != nil:
				return err
			default:
				reserved := clampZero(inv.QuantityReserved - r.QuantityReserved)
				if err := tx.UpdateInventoryQuantities(ctx, inv.ID, inv.QuantityAvailable, reserved, inv.QuantityTotal); err != nil {
					return err
				}
				touched = append(touched, inv.ID)
			}
			if err := tx.SetReservationStatus(ctx, r.ID, models.ReservationExpired); err != nil {
				return err
			}
		}
		expired = rs
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	util.ReservationsExpiredTotal.Add(float64(len(expired)))
	m.invalidate(ctx, touched)

	seen := make(map[string]bool)
	var orderIDs []string
	for _, r := range expired {
		if !seen[r.OrderID] {
			seen[r.OrderID] = true
			orderIDs = append(orderIDs, r.OrderID)
		}
	}
	event := &models.ReservationsExpiredEvent{
		BaseEvent: newBaseEvent(models.EventTypeReservationsExpired),
		Count:     len(expired),
		OrderIDs:  orderIDs,
	}
	if err := m.publisher.PublishReservationsExpired(ctx, event); err != nil {
		m.logger.Error("Failed to publish ReservationsExpired event", zap.Error(err))
	}

	m.logger.Info("Released expired reservations",
		zap.Int("count", len(expired)),
		zap.Int("orders", len(orderIDs)))
	return len(expired), nil
}

func (m *ReservationManager) invalidate(ctx context.Context, inventoryIDs []string) {
	for _, id := range inventoryIDs {
		if err := m.cache.InvalidateInventory(ctx, id); err != nil {
			m.logger.Warn("Failed to invalidate inventory cache",
				zap.String("inventory_id", id), zap.Error(err))
		}
	}
}
