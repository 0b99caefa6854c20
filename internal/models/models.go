package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Category groups products
type Category struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	ParentID    *string   `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Product represents a stocked SKU
type Product struct {
	ID           string         `db:"id" json:"id"`
	SKU          string         `db:"sku" json:"sku"`
	Name         string         `db:"name" json:"name"`
	Description  string         `db:"description" json:"description,omitempty"`
	CategoryID   *string        `db:"category_id" json:"category_id,omitempty"`
	UnitPrice    float64        `db:"unit_price" json:"unit_price"`
	Weight       float64        `db:"weight" json:"weight,omitempty"`
	Dimensions   types.JSONText `db:"dimensions" json:"dimensions,omitempty"`
	MinimumStock int            `db:"minimum_stock" json:"minimum_stock"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Warehouse represents a physical site. Zones is a JSON map of zone name
// to capacity/type; used capacity is advisory and not reconciled against
// inventory totals.
type Warehouse struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Address       string         `db:"address" json:"address,omitempty"`
	TotalCapacity int            `db:"total_capacity" json:"total_capacity"`
	UsedCapacity  int            `db:"used_capacity" json:"used_capacity"`
	Zones         types.JSONText `db:"zones" json:"zones,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// Inventory is the authoritative counter row per (product, warehouse).
// quantity_total tracks on-hand stock; quantity_reserved tracks the share
// of it held for open orders.
type Inventory struct {
	ID                string     `db:"id" json:"id"`
	ProductID         string     `db:"product_id" json:"product_id"`
	WarehouseID       string     `db:"warehouse_id" json:"warehouse_id"`
	Location          string     `db:"location" json:"location,omitempty"`
	QuantityAvailable int        `db:"quantity_available" json:"quantity_available"`
	QuantityReserved  int        `db:"quantity_reserved" json:"quantity_reserved"`
	QuantityTotal     int        `db:"quantity_total" json:"quantity_total"`
	LastCounted       *time.Time `db:"last_counted" json:"last_counted,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// InventoryAdjustment is the append-only audit record written alongside
// every change to quantity_available.
type InventoryAdjustment struct {
	ID             string    `db:"id" json:"id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	WarehouseID    string    `db:"warehouse_id" json:"warehouse_id"`
	AdjustmentType string    `db:"adjustment_type" json:"adjustment_type"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	Reason         string    `db:"reason" json:"reason,omitempty"`
	UserID         *string   `db:"user_id" json:"user_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// InventoryReservation is a hold placed on stock for one order item.
type InventoryReservation struct {
	ID               string    `db:"id" json:"id"`
	ProductID        string    `db:"product_id" json:"product_id"`
	OrderID          string    `db:"order_id" json:"order_id"`
	QuantityReserved int       `db:"quantity_reserved" json:"quantity_reserved"`
	Status           string    `db:"status" json:"status"`
	ExpiresAt        time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Order is the aggregate root driving reservation and shipment side
// effects on status change.
type Order struct {
	ID            string     `db:"id" json:"id"`
	OrderNumber   string     `db:"order_number" json:"order_number"`
	CustomerName  string     `db:"customer_name" json:"customer_name"`
	CustomerEmail string     `db:"customer_email" json:"customer_email,omitempty"`
	CustomerPhone string     `db:"customer_phone" json:"customer_phone,omitempty"`
	Status        string     `db:"status" json:"status"`
	Priority      string     `db:"priority" json:"priority"`
	TotalValue    float64    `db:"total_value" json:"total_value"`
	DueDate       *time.Time `db:"due_date" json:"due_date,omitempty"`
	Notes         string     `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// OrderItem is a line of an order
type OrderItem struct {
	ID              string  `db:"id" json:"id"`
	OrderID         string  `db:"order_id" json:"order_id"`
	ProductID       string  `db:"product_id" json:"product_id"`
	QuantityOrdered int     `db:"quantity_ordered" json:"quantity_ordered"`
	UnitPrice       float64 `db:"unit_price" json:"unit_price"`
	TotalPrice      float64 `db:"total_price" json:"total_price"`
}

// InboundShipment is an expected or received delivery from a supplier.
type InboundShipment struct {
	ID           string     `db:"id" json:"id"`
	ReceivingID  string     `db:"receiving_id" json:"receiving_id"`
	SupplierName string     `db:"supplier_name" json:"supplier_name"`
	PONumber     string     `db:"po_number" json:"po_number,omitempty"`
	Status       string     `db:"status" json:"status"`
	ExpectedDate *time.Time `db:"expected_date" json:"expected_date,omitempty"`
	ReceivedDate *time.Time `db:"received_date" json:"received_date,omitempty"`
	TotalItems   int        `db:"total_items" json:"total_items"`
	TotalValue   float64    `db:"total_value" json:"total_value"`
	Notes        string     `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// InboundShipmentItem is a line of an inbound shipment
type InboundShipmentItem struct {
	ID               string  `db:"id" json:"id"`
	ShipmentID       string  `db:"shipment_id" json:"shipment_id"`
	ProductID        string  `db:"product_id" json:"product_id"`
	QuantityExpected int     `db:"quantity_expected" json:"quantity_expected"`
	UnitCost         float64 `db:"unit_cost" json:"unit_cost"`
	TotalCost        float64 `db:"total_cost" json:"total_cost"`
}

// OutboundShipment tracks picking and shipping for one order.
type OutboundShipment struct {
	ID             string     `db:"id" json:"id"`
	ShipmentID     string     `db:"shipment_id" json:"shipment_id"`
	OrderID        string     `db:"order_id" json:"order_id"`
	Status         string     `db:"status" json:"status"`
	Carrier        string     `db:"carrier" json:"carrier,omitempty"`
	TrackingNumber string     `db:"tracking_number" json:"tracking_number,omitempty"`
	PickerID       string     `db:"picker_id" json:"picker_id,omitempty"`
	ShippedDate    *time.Time `db:"shipped_date" json:"shipped_date,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// PickListItem is one line a picker must retrieve; informational only.
type PickListItem struct {
	ProductID       string `json:"product_id"`
	SKU             string `json:"sku"`
	Name            string `json:"name"`
	QuantityOrdered int    `json:"quantity_ordered"`
	Location        string `json:"location"`
	Available       int    `json:"available"`
}

// LowStockItem joins an inventory row with its product's minimum stock.
type LowStockItem struct {
	InventoryID       string `db:"inventory_id" json:"inventory_id"`
	ProductID         string `db:"product_id" json:"product_id"`
	SKU               string `db:"sku" json:"sku"`
	ProductName       string `db:"product_name" json:"product_name"`
	WarehouseID       string `db:"warehouse_id" json:"warehouse_id"`
	Location          string `db:"location" json:"location,omitempty"`
	QuantityAvailable int    `db:"quantity_available" json:"quantity_available"`
	MinimumStock      int    `db:"minimum_stock" json:"minimum_stock"`
}

// Order statuses
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

// OrderStatuses lists every recognized order status.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is a recognized order status.
func ValidOrderStatus(s string) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order priorities
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Inbound shipment statuses
const (
	InboundStatusScheduled = "SCHEDULED"
	InboundStatusInTransit = "IN_TRANSIT"
	InboundStatusReceived  = "RECEIVED"
	InboundStatusCancelled = "CANCELLED"
)

// Outbound shipment statuses
const (
	OutboundStatusPicking = "PICKING"
	OutboundStatusPacked  = "PACKED"
	OutboundStatusShipped = "SHIPPED"
)

// ValidOutboundStatus reports whether s is a recognized outbound status.
func ValidOutboundStatus(s string) bool {
	return s == OutboundStatusPicking || s == OutboundStatusPacked || s == OutboundStatusShipped
}

// Adjustment types
const (
	AdjustmentIncrease = "increase"
	AdjustmentDecrease = "decrease"
	AdjustmentCount    = "count"
)

// Reservation statuses
const (
	ReservationActive    = "active"
	ReservationFulfilled = "fulfilled"
	ReservationExpired   = "expired"
)
