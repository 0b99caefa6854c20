package models

import "time"

// Event types
const (
	EventTypeOrderCreated        = "ORDER_CREATED"
	EventTypeOrderStatusChanged  = "ORDER_STATUS_CHANGED"
	EventTypeStockAdjusted       = "STOCK_ADJUSTED"
	EventTypeShipmentReceived    = "SHIPMENT_RECEIVED"
	EventTypeShipmentShipped     = "SHIPMENT_SHIPPED"
	EventTypeReservationsExpired = "RESERVATIONS_EXPIRED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID       string  `json:"product_id"`
	QuantityOrdered int     `json:"quantity_ordered"`
	UnitPrice       float64 `json:"unit_price"`
}

// OrderCreatedEvent published when an order and its reservations commit
type OrderCreatedEvent struct {
	BaseEvent
	OrderID      string          `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	TotalValue   float64         `json:"total_value"`
	Items        []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published after a status transition commits
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	FromStatus  string `json:"from_status"`
	ToStatus    string `json:"to_status"`
}

// StockAdjustedEvent published for every committed ledger mutation
type StockAdjustedEvent struct {
	BaseEvent
	InventoryID    string `json:"inventory_id"`
	ProductID      string `json:"product_id"`
	WarehouseID    string `json:"warehouse_id"`
	AdjustmentType string `json:"adjustment_type"`
	QuantityBefore int    `json:"quantity_before"`
	QuantityAfter  int    `json:"quantity_after"`
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason,omitempty"`
}

// ReceivedItemData describes one line applied to the ledger on receipt
type ReceivedItemData struct {
	ProductID   string `json:"product_id"`
	InventoryID string `json:"inventory_id"`
	Quantity    int    `json:"quantity"`
}

// ShipmentReceivedEvent published when an inbound shipment is received
type ShipmentReceivedEvent struct {
	BaseEvent
	ShipmentID  string             `json:"shipment_id"`
	ReceivingID string             `json:"receiving_id"`
	Items       []ReceivedItemData `json:"items"`
}

// ShipmentShippedEvent published when an outbound shipment leaves
type ShipmentShippedEvent struct {
	BaseEvent
	ShipmentID     string `json:"shipment_id"`
	OutboundID     string `json:"outbound_id"`
	OrderID        string `json:"order_id"`
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

// ReservationsExpiredEvent published after a sweep reclaims stock
type ReservationsExpiredEvent struct {
	BaseEvent
	Count    int      `json:"count"`
	OrderIDs []string `json:"order_ids"`
}
