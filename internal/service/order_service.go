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

// orderTransitions is the legal status graph. COMPLETED and CANCELLED
// are terminal.
var orderTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
}

func transitionAllowed(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderService drives the order lifecycle. Creation, reservation and
// every status side effect commit atomically; events go out only after
// the transaction commits.
type OrderService struct {
	store        Store
	reservations *ReservationManager
	publisher    EventPublisher
	logger       *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store Store, reservations *ReservationManager, publisher EventPublisher) *OrderService {
	return &OrderService{
		store:        store,
		reservations: reservations,
		publisher:    publisher,
		logger:       util.GetLogger(),
	}
}

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price" binding:"min=0"`
}

// CreateOrderRequest describes a new order.
type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name" binding:"required"`
	CustomerEmail string             `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone string             `json:"customer_phone"`
	Priority      string             `json:"priority"`
	DueDate       *time.Time         `json:"due_date"`
	Notes         string             `json:"notes"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest carries the mutable header fields of an order.
// Status is not among them; it moves only through UpdateStatus.
type UpdateOrderRequest struct {
	CustomerName  *string    `json:"customer_name"`
	CustomerEmail *string    `json:"customer_email"`
	CustomerPhone *string    `json:"customer_phone"`
	Priority      *string    `json:"priority"`
	DueDate       *time.Time `json:"due_date"`
	Notes         *string    `json:"notes"`
}

func validPriority(p string) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent:
		return true
	}
	return false
}

// Create persists the order, its items and one stock reservation per
// item in a single transaction. The ORD- number comes from the per-day
// sequence inside that same transaction, so concurrent creates get
// unique numbers or none at all.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, []models.OrderItem, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Create")
	defer span.End()

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !validPriority(priority) {
		return nil, nil, errs.InvalidArgumentf("invalid priority %q", priority)
	}

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

	var totalValue float64
	for _, item := range req.Items {
		totalValue += item.UnitPrice * float64(item.Quantity)
	}

	var order *models.Order
	var items []models.OrderItem
	var touched []string
	err = s.store.WithTx(ctx, func(tx Store) error {
		now := time.Now()
		prefix := docPrefix(docKindOrder, now)
		seq, err := tx.NextSequence(ctx, prefix)
		if err != nil {
			return err
		}

		order = &models.Order{
			ID:            uuid.NewString(),
			OrderNumber:   docNumber(prefix, seq),
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			Status:        models.OrderStatusPending,
			Priority:      priority,
			TotalValue:    totalValue,
			DueDate:       req.DueDate,
			Notes:         req.Notes,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		items = items[:0]
		for _, r := range req.Items {
			item := models.OrderItem{
				ID:              uuid.NewString(),
				OrderID:         order.ID,
				ProductID:       r.ProductID,
				QuantityOrdered: r.Quantity,
				UnitPrice:       r.UnitPrice,
				TotalPrice:      r.UnitPrice * float64(r.Quantity),
			}
			if err := tx.CreateOrderItem(ctx, &item); err != nil {
				return err
			}
			items = append(items, item)
		}

		touched, err = s.reservations.reserveForOrder(ctx, tx, order, items)
		return err
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("create").Inc()
		return nil, nil, err
	}

	util.OrdersCreatedTotal.Inc()
	s.reservations.invalidate(ctx, touched)

	eventItems := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, models.OrderItemData{
			ProductID:       item.ProductID,
			QuantityOrdered: item.QuantityOrdered,
			UnitPrice:       item.UnitPrice,
		})
	}
	event := &models.OrderCreatedEvent{
		BaseEvent:    newBaseEvent(models.EventTypeOrderCreated),
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		TotalValue:   order.TotalValue,
		Items:        eventItems,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total_value", order.TotalValue))
	return order, items, nil
}

// Get retrieves an order with its items.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.store.OrderItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// List retrieves orders matching the filter with a total count.
func (s *OrderService) List(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error) {
	f.Normalize()
	if f.Status != "" && !models.ValidOrderStatus(f.Status) {
		return nil, 0, errs.InvalidArgumentf("invalid order status %q", f.Status)
	}
	return s.store.ListOrders(ctx, f)
}

// Update writes the mutable header fields of an order.
func (s *OrderService) Update(ctx context.Context, id string, req *UpdateOrderRequest) (*models.Order, error) {
	if req.Priority != nil && !validPriority(*req.Priority) {
		return nil, errs.InvalidArgumentf("invalid priority %q", *req.Priority)
	}

	var order *models.Order
	err := s.store.WithTx(ctx, func(tx Store) error {
		cur, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.CustomerName != nil {
			cur.CustomerName = *req.CustomerName
		}
		if req.CustomerEmail != nil {
			cur.CustomerEmail = *req.CustomerEmail
		}
		if req.CustomerPhone != nil {
			cur.CustomerPhone = *req.CustomerPhone
		}
		if req.Priority != nil {
			cur.Priority = *req.Priority
		}
		if req.DueDate != nil {
			cur.DueDate = req.DueDate
		}
		if req.Notes != nil {
			cur.Notes = *req.Notes
		}
		if err := tx.UpdateOrder(ctx, cur); err != nil {
			return err
		}
		order = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order through the lifecycle. The status write
// and all side effects (shipment creation, stock deduction, reservation
// release) commit in one transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, id, newStatus string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !models.ValidOrderStatus(newStatus) {
		return nil, errs.InvalidArgumentf("invalid order status %q", newStatus)
	}

	var order *models.Order
	var fromStatus string
	var stockEvents []*models.StockAdjustedEvent
	err := s.store.WithTx(ctx, func(tx Store) error {
		cur, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		fromStatus = cur.Status
		stockEvents, err = s.transition(ctx, tx, cur, newStatus)
		if err != nil {
			return err
		}
		order = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, order, fromStatus, newStatus)
	s.publishStockEvents(ctx, stockEvents)
	return order, nil
}

// transition applies one status change and its side effects inside the
// caller's transaction. Both the status endpoint and the shipping
// workflow funnel through here, so completion behaves identically no
// matter which door it came in. Returns the stock events to publish
// after commit.
func (s *OrderService) transition(ctx context.Context, tx Store, order *models.Order, newStatus string) ([]*models.StockAdjustedEvent, error) {
	if !transitionAllowed(order.Status, newStatus) {
		return nil, errs.InvalidArgumentf("cannot move order %s from %s to %s",
			order.OrderNumber, order.Status, newStatus)
	}

	if err := tx.SetOrderStatus(ctx, order.ID, newStatus); err != nil {
		return nil, err
	}

	var stockEvents []*models.StockAdjustedEvent
	switch newStatus {
	case models.OrderStatusProcessing:
		if _, err := createOutboundForOrder(ctx, tx, order.ID); err != nil {
			return nil, err
		}
	case models.OrderStatusCompleted:
		events, err := s.completeOrder(ctx, tx, order)
		if err != nil {
			return nil, err
		}
		stockEvents = events
		util.OrdersCompletedTotal.Inc()
	case models.OrderStatusCancelled:
		if _, err := s.reservations.release(ctx, tx, order.ID); err != nil {
			return nil, err
		}
		util.OrdersCancelledTotal.Inc()
	}

	order.Status = newStatus
	return stockEvents, nil
}

// completeOrder deducts each shipped line from all three counters,
// clamping at zero, writes the matching audit entries and marks the
// order's holds fulfilled.
func (s *OrderService) completeOrder(ctx context.Context, tx Store, order *models.Order) ([]*models.StockAdjustedEvent, error) {
	items, err := tx.OrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	var events []*models.StockAdjustedEvent
	for _, item := range items {
		inv, err := tx.FirstInventoryByProductForUpdate(ctx, item.ProductID)
		if err != nil {
			if errs.IsNotFound(err) {
				s.logger.Warn("No inventory record while completing order",
					zap.String("product_id", item.ProductID),
					zap.String("order_id", order.ID))
				continue
			}
			return nil, err
		}

		before := inv.QuantityAvailable
		available := clampZero(before - item.QuantityOrdered)
		reserved := clampZero(inv.QuantityReserved - item.QuantityOrdered)
		total := clampZero(inv.QuantityTotal - item.QuantityOrdered)
		if err := tx.UpdateInventoryQuantities(ctx, inv.ID, available, reserved, total); err != nil {
			return nil, err
		}

		adj := &models.InventoryAdjustment{
			ID:             uuid.NewString(),
			ProductID:      item.ProductID,
			WarehouseID:    inv.WarehouseID,
			AdjustmentType: models.AdjustmentDecrease,
			QuantityBefore: before,
			QuantityAfter:  available,
			QuantityChange: available - before,
			Reason:         fmt.Sprintf("Order %s completed", order.OrderNumber),
		}
		if err := tx.InsertAdjustment(ctx, adj); err != nil {
			return nil, err
		}

		events = append(events, &models.StockAdjustedEvent{
			BaseEvent:      newBaseEvent(models.EventTypeStockAdjusted),
			InventoryID:    inv.ID,
			ProductID:      item.ProductID,
			WarehouseID:    inv.WarehouseID,
			AdjustmentType: models.AdjustmentDecrease,
			QuantityBefore: before,
			QuantityAfter:  available,
			QuantityChange: available - before,
			Reason:         adj.Reason,
		})
	}

	if err := s.reservations.fulfill(ctx, tx, order.ID); err != nil {
		return nil, err
	}
	return events, nil
}

// Delete releases the order's holds and removes the order and its items
// in one transaction.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	var touched []string
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		touched, err = s.reservations.release(ctx, tx, id)
		if err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, id)
	})
	if err != nil {
		return err
	}
	s.reservations.invalidate(ctx, touched)
	return nil
}

func (s *OrderService) publishStatusChange(ctx context.Context, order *models.Order, from, to string) {
	if from == to {
		return
	}
	event := &models.OrderStatusChangedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeOrderStatusChanged),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		FromStatus:  from,
		ToStatus:    to,
	}
	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}
	s.logger.Info("Order status changed",
		zap.String("order_id", order.ID),
		zap.String("from", from),
		zap.String("to", to))
}

func (s *OrderService) publishStockEvents(ctx context.Context, events []*models.StockAdjustedEvent) {
	for _, e := range events {
		if err := s.publisher.PublishStockAdjusted(ctx, e); err != nil {
			s.logger.Error("Failed to publish StockAdjusted event", zap.Error(err))
		}
	}
}
