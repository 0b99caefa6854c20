package service

import (
	"context"
	"time"

	"warehouse-service/internal/models"
)

// Store is the persistence contract the workflows run against. Every
// operation that touches more than one record calls WithTx and performs
// its reads and writes on the transaction-bound Store passed to the
// callback; the *ForUpdate reads hold a row lock for the remainder of
// that transaction.
type Store interface {
	// WithTx runs fn inside a single database transaction. The Store
	// handed to fn is bound to that transaction; a nested WithTx joins
	// the transaction already in progress.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	CatalogStore
	InventoryStore
	ReservationStore
	OrderStore
	InboundStore
	OutboundStore

	// NextSequence atomically increments and returns the per-prefix
	// counter used for day-scoped document numbers (ORD-/RCV-/SHP-).
	// Safe under concurrent callers: numbers are unique and gapless.
	NextSequence(ctx context.Context, prefix string) (int, error)
}

// CatalogStore covers products, categories and warehouses.
type CatalogStore interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	ListProducts(ctx context.Context, f models.ListFilter) ([]models.Product, int, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) error

	CreateWarehouse(ctx context.Context, w *models.Warehouse) error
	GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]models.Warehouse, error)
	UpdateWarehouse(ctx context.Context, w *models.Warehouse) error
	DeleteWarehouse(ctx context.Context, id string) error
	// FirstWarehouse returns the oldest warehouse on record, used as the
	// default site when receiving stock for a product with no inventory
	// row yet.
	FirstWarehouse(ctx context.Context) (*models.Warehouse, error)
}

// InventoryStore covers the counter rows and the adjustment audit trail.
type InventoryStore interface {
	CreateInventory(ctx context.Context, inv *models.Inventory) error
	GetInventory(ctx context.Context, id string) (*models.Inventory, error)
	ListInventory(ctx context.Context, f models.InventoryFilter) ([]models.Inventory, int, error)
	// InventoryForUpdate locks and returns the row for (product, warehouse).
	InventoryForUpdate(ctx context.Context, productID, warehouseID string) (*models.Inventory, error)
	// FirstInventoryByProduct returns the first known row for the product
	// across warehouses, ordered by creation time.
	FirstInventoryByProduct(ctx context.Context, productID string) (*models.Inventory, error)
	FirstInventoryByProductForUpdate(ctx context.Context, productID string) (*models.Inventory, error)
	UpdateInventoryQuantities(ctx context.Context, id string, available, reserved, total int) error
	SetInventoryLocation(ctx context.Context, id, location string) error
	SetInventoryLastCounted(ctx context.Context, id string, at time.Time) error
	DeleteInventory(ctx context.Context, id string) error
	LowStockInventory(ctx context.Context) ([]models.LowStockItem, error)

	InsertAdjustment(ctx context.Context, adj *models.InventoryAdjustment) error
	ListAdjustments(ctx context.Context, productID string, limit int) ([]models.InventoryAdjustment, error)
}

// ReservationStore covers order holds on stock.
type ReservationStore interface {
	InsertReservation(ctx context.Context, r *models.InventoryReservation) error
	ActiveReservationsByOrder(ctx context.Context, orderID string) ([]models.InventoryReservation, error)
	SetReservationStatus(ctx context.Context, id, status string) error
	// ExpiredActiveReservations returns up to limit reservations that are
	// still active past their expiry cutoff, oldest first.
	ExpiredActiveReservations(ctx context.Context, cutoff time.Time, limit int) ([]models.InventoryReservation, error)
}

// OrderStore covers orders and their items.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	CreateOrderItem(ctx context.Context, item *models.OrderItem) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderForUpdate(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error)
	OrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	UpdateOrder(ctx context.Context, o *models.Order) error
	SetOrderStatus(ctx context.Context, id, status string) error
	DeleteOrder(ctx context.Context, id string) error
}

// InboundStore covers receiving.
type InboundStore interface {
	CreateInboundShipment(ctx context.Context, s *models.InboundShipment) error
	CreateInboundItem(ctx context.Context, item *models.InboundShipmentItem) error
	GetInboundShipment(ctx context.Context, id string) (*models.InboundShipment, error)
	ListInboundShipments(ctx context.Context, f models.ShipmentFilter) ([]models.InboundShipment, int, error)
	InboundItems(ctx context.Context, shipmentID string) ([]models.InboundShipmentItem, error)
	UpdateInboundShipment(ctx context.Context, s *models.InboundShipment) error
	SetInboundReceived(ctx context.Context, id string, at time.Time) error
	PendingInboundShipments(ctx context.Context) ([]models.InboundShipment, error)
}

// OutboundStore covers picking and shipping.
type OutboundStore interface {
	CreateOutboundShipment(ctx context.Context, s *models.OutboundShipment) error
	GetOutboundShipment(ctx context.Context, id string) (*models.OutboundShipment, error)
	ListOutboundShipments(ctx context.Context, f models.ShipmentFilter) ([]models.OutboundShipment, int, error)
	SetOutboundPicking(ctx context.Context, id, pickerID, status string) error
	SetOutboundShipped(ctx context.Context, id, carrier, trackingNumber string, at time.Time) error
}

// EventPublisher is the post-commit notification surface. Publish
// failures are logged by callers, never turned into operation failures.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error
	PublishShipmentReceived(ctx context.Context, event *models.ShipmentReceivedEvent) error
	PublishShipmentShipped(ctx context.Context, event *models.ShipmentShippedEvent) error
	PublishReservationsExpired(ctx context.Context, event *models.ReservationsExpiredEvent) error
}

// InventoryCache is the read-through cache for inventory rows.
type InventoryCache interface {
	GetInventory(ctx context.Context, id string) (*models.Inventory, error)
	SetInventory(ctx context.Context, inv *models.Inventory) error
	InvalidateInventory(ctx context.Context, id string) error
}
