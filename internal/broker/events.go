package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes an OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderStatusChanged publishes an OrderStatusChanged event
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishStockAdjusted publishes a StockAdjusted event
func (ep *EventPublisher) PublishStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error {
	key := fmt.Sprintf("inventory-%s", event.InventoryID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishShipmentReceived publishes a ShipmentReceived event
func (ep *EventPublisher) PublishShipmentReceived(ctx context.Context, event *models.ShipmentReceivedEvent) error {
	key := fmt.Sprintf("inbound-%s", event.ShipmentID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishShipmentShipped publishes a ShipmentShipped event
func (ep *EventPublisher) PublishShipmentShipped(ctx context.Context, event *models.ShipmentShippedEvent) error {
	key := fmt.Sprintf("outbound-%s", event.OutboundID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishReservationsExpired publishes a ReservationsExpired event
func (ep *EventPublisher) PublishReservationsExpired(ctx context.Context, event *models.ReservationsExpiredEvent) error {
	return ep.producer.PublishEvent(ctx, "reservation-sweep", event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onStockAdjusted    func(context.Context, *models.StockAdjustedEvent) error
	onShipmentReceived func(context.Context, *models.ShipmentReceivedEvent) error
	logger             *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnStockAdjusted registers a handler for StockAdjusted events
func (eh *EventHandler) OnStockAdjusted(handler func(context.Context, *models.StockAdjustedEvent) error) {
	eh.onStockAdjusted = handler
}

// OnShipmentReceived registers a handler for ShipmentReceived events
func (eh *EventHandler) OnShipmentReceived(handler func(context.Context, *models.ShipmentReceivedEvent) error) {
	eh.onShipmentReceived = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeStockAdjusted:
		if eh.onStockAdjusted != nil {
			var event models.StockAdjustedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StockAdjusted event: %w", err)
			}
			return eh.onStockAdjusted(ctx, &event)
		}

	case models.EventTypeShipmentReceived:
		if eh.onShipmentReceived != nil {
			var event models.ShipmentReceivedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ShipmentReceived event: %w", err)
			}
			return eh.onShipmentReceived(ctx, &event)
		}

	default:
		eh.logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
