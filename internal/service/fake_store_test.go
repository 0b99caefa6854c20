package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"warehouse-service/internal/errs"
	"warehouse-service/internal/models"
)

// fakeStore is an in-memory Store. A mutex serializes transactions,
// which is enough isolation for the workflow tests; rollback is not
// simulated, so tests only assert state after operations that either
// fully succeed or fail before mutating.
type fakeStore struct {
	mu sync.Mutex

	products     map[string]*models.Product
	categories   map[string]*models.Category
	warehouses   []*models.Warehouse
	inventory    []*models.Inventory
	adjustments  []*models.InventoryAdjustment
	reservations map[string]*models.InventoryReservation
	orders       map[string]*models.Order
	orderItems   map[string][]models.OrderItem
	inbound      map[string]*models.InboundShipment
	inboundItems map[string][]models.InboundShipmentItem
	outbound     map[string]*models.OutboundShipment
	sequences    map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:     make(map[string]*models.Product),
		categories:   make(map[string]*models.Category),
		reservations: make(map[string]*models.InventoryReservation),
		orders:       make(map[string]*models.Order),
		orderItems:   make(map[string][]models.OrderItem),
		inbound:      make(map[string]*models.InboundShipment),
		inboundItems: make(map[string][]models.InboundShipmentItem),
		outbound:     make(map[string]*models.OutboundShipment),
		sequences:    make(map[string]int),
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f)
}

func (f *fakeStore) NextSequence(ctx context.Context, prefix string) (int, error) {
	f.sequences[prefix]++
	return f.sequences[prefix], nil
}

func (f *fakeStore) CreateProduct(ctx context.Context, p *models.Product) error {
	for _, existing := range f.products {
		if existing.SKU == p.SKU {
			return errs.Conflictf("duplicate sku %s", p.SKU)
		}
	}
	cp := *p
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, errs.NotFoundf("product %s", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errs.NotFoundf("product with sku %s", sku)
}

func (f *fakeStore) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListProducts(ctx context.Context, filter models.ListFilter) ([]models.Product, int, error) {
	var out []models.Product
	for _, p := range f.products {
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return errs.NotFoundf("product %s", p.ID)
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteProduct(ctx context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return errs.NotFoundf("product %s", id)
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, c *models.Category) error {
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, errs.NotFoundf("category %s", id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	if _, ok := f.categories[c.ID]; !ok {
		return errs.NotFoundf("category %s", c.ID)
	}
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return errs.NotFoundf("category %s", id)
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeStore) CreateWarehouse(ctx context.Context, w *models.Warehouse) error {
	cp := *w
	cp.CreatedAt = time.Now()
	f.warehouses = append(f.warehouses, &cp)
	return nil
}

func (f *fakeStore) GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error) {
	for _, w := range f.warehouses {
		if w.ID == id {
			cp := *w
			return &cp, nil
		}
	}
	return nil, errs.NotFoundf("warehouse %s", id)
}

func (f *fakeStore) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var out []models.Warehouse
	for _, w := range f.warehouses {
		out = append(out, *w)
	}
	return out, nil
}

func (f *fakeStore) UpdateWarehouse(ctx context.Context, w *models.Warehouse) error {
	for i, existing := range f.warehouses {
		if existing.ID == w.ID {
			cp := *w
			f.warehouses[i] = &cp
			return nil
		}
	}
	return errs.NotFoundf("warehouse %s", w.ID)
}

func (f *fakeStore) DeleteWarehouse(ctx context.Context, id string) error {
	for i, w := range f.warehouses {
		if w.ID == id {
			f.warehouses = append(f.warehouses[:i], f.warehouses[i+1:]...)
			return nil
		}
	}
	return errs.NotFoundf("warehouse %s", id)
}

func (f *fakeStore) FirstWarehouse(ctx context.Context) (*models.Warehouse, error) {
	if len(f.warehouses) == 0 {
		return nil, errs.NotFoundf("no warehouses on record")
	}
	cp := *f.warehouses[0]
	return &cp, nil
}

func (f *fakeStore) CreateInventory(ctx context.Context, inv *models.Inventory) error {
	for _, existing := range f.inventory {
		if existing.ProductID == inv.ProductID && existing.WarehouseID == inv.WarehouseID {
			return errs.Conflictf("inventory exists for product %s in warehouse %s", inv.ProductID, inv.WarehouseID)
		}
	}
	cp := *inv
	cp.CreatedAt = time.Now()
	f.inventory = append(f.inventory, &cp)
	return nil
}

func (f *fakeStore) GetInventory(ctx context.Context, id string) (*models.Inventory, error) {
	for _, inv := range f.inventory {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, errs.NotFoundf("inventory %s", id)
}

func (f *fakeStore) ListInventory(ctx context.Context, filter models.InventoryFilter) ([]models.Inventory, int, error) {
	var out []models.Inventory
	for _, inv := range f.inventory {
		if filter.WarehouseID != "" && inv.WarehouseID != filter.WarehouseID {
			continue
		}
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (f *fakeStore) InventoryForUpdate(ctx context.Context, productID, warehouseID string) (*models.Inventory, error) {
	for _, inv := range f.inventory {
		if inv.ProductID == productID && inv.WarehouseID == warehouseID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, errs.NotFoundf("inventory for product %s in warehouse %s", productID, warehouseID)
}

func (f *fakeStore) FirstInventoryByProduct(ctx context.Context, productID string) (*models.Inventory, error) {
	for _, inv := range f.inventory {
		if inv.ProductID == productID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, errs.NotFoundf("inventory for product %s", productID)
}

func (f *fakeStore) FirstInventoryByProductForUpdate(ctx context.Context, productID string) (*models.Inventory, error) {
	return f.FirstInventoryByProduct(ctx, productID)
}

func (f *fakeStore) UpdateInventoryQuantities(ctx context.Context, id string, available, reserved, total int) error {
	for _, inv := range f.inventory {
		if inv.ID == id {
			inv.QuantityAvailable = available
			inv.QuantityReserved = reserved
			inv.QuantityTotal = total
			inv.UpdatedAt = time.Now()
			return nil
		}
	}
	return errs.NotFoundf("inventory %s", id)
}

func (f *fakeStore) SetInventoryLocation(ctx context.Context, id, location string) error {
	for _, inv := range f.inventory {
		if inv.ID == id {
			inv.Location = location
			return nil
		}
	}
	return errs.NotFoundf("inventory %s", id)
}

func (f *fakeStore) SetInventoryLastCounted(ctx context.Context, id string, at time.Time) error {
	for _, inv := range f.inventory {
		if inv.ID == id {
			t := at
			inv.LastCounted = &t
			return nil
		}
	}
	return errs.NotFoundf("inventory %s", id)
}

func (f *fakeStore) DeleteInventory(ctx context.Context, id string) error {
	for i, inv := range f.inventory {
		if inv.ID == id {
			f.inventory = append(f.inventory[:i], f.inventory[i+1:]...)
			return nil
		}
	}
	return errs.NotFoundf("inventory %s", id)
}

func (f *fakeStore) LowStockInventory(ctx context.Context) ([]models.LowStockItem, error) {
	var out []models.LowStockItem
	for _, inv := range f.inventory {
		p, ok := f.products[inv.ProductID]
		if !ok || inv.QuantityAvailable > p.MinimumStock {
			continue
		}
		out = append(out, models.LowStockItem{
			InventoryID:       inv.ID,
			ProductID:         inv.ProductID,
			SKU:               p.SKU,
			ProductName:       p.Name,
			WarehouseID:       inv.WarehouseID,
			Location:          inv.Location,
			QuantityAvailable: inv.QuantityAvailable,
			MinimumStock:      p.MinimumStock,
		})
	}
	return out, nil
}

func (f *fakeStore) InsertAdjustment(ctx context.Context, adj *models.InventoryAdjustment) error {
	cp := *adj
	cp.CreatedAt = time.Now()
	f.adjustments = append(f.adjustments, &cp)
	return nil
}

func (f *fakeStore) ListAdjustments(ctx context.Context, productID string, limit int) ([]models.InventoryAdjustment, error) {
	var out []models.InventoryAdjustment
	for i := len(f.adjustments) - 1; i >= 0; i-- {
		if f.adjustments[i].ProductID == productID {
			out = append(out, *f.adjustments[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) InsertReservation(ctx context.Context, r *models.InventoryReservation) error {
	cp := *r
	cp.CreatedAt = time.Now()
	f.reservations[r.ID] = &cp
	return nil
}

func (f *fakeStore) ActiveReservationsByOrder(ctx context.Context, orderID string) ([]models.InventoryReservation, error) {
	var out []models.InventoryReservation
	for _, r := range f.reservations {
		if r.OrderID == orderID && r.Status == models.ReservationActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) SetReservationStatus(ctx context.Context, id, status string) error {
	r, ok := f.reservations[id]
	if !ok {
		return errs.NotFoundf("reservation %s", id)
	}
	r.Status = status
	return nil
}

func (f *fakeStore) ExpiredActiveReservations(ctx context.Context, cutoff time.Time, limit int) ([]models.InventoryReservation, error) {
	var out []models.InventoryReservation
	for _, r := range f.reservations {
		if r.Status == models.ReservationActive && r.ExpiresAt.Before(cutoff) {
			out = append(out, *r)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, o *models.Order) error {
	for _, existing := range f.orders {
		if existing.OrderNumber == o.OrderNumber {
			return errs.Conflictf("duplicate order number %s", o.OrderNumber)
		}
	}
	cp := *o
	cp.CreatedAt = time.Now()
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeStore) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	f.orderItems[item.OrderID] = append(f.orderItems[item.OrderID], *item)
	return nil
}

func (f *fakeStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, errs.NotFoundf("order %s", id)
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) GetOrderForUpdate(ctx context.Context, id string) (*models.Order, error) {
	return f.GetOrder(ctx, id)
}

func (f *fakeStore) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	var out []models.Order
	for _, o := range f.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && o.Priority != filter.Priority {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (f *fakeStore) OrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	return append([]models.OrderItem(nil), f.orderItems[orderID]...), nil
}

func (f *fakeStore) UpdateOrder(ctx context.Context, o *models.Order) error {
	if _, ok := f.orders[o.ID]; !ok {
		return errs.NotFoundf("order %s", o.ID)
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeStore) SetOrderStatus(ctx context.Context, id, status string) error {
	o, ok := f.orders[id]
	if !ok {
		return errs.NotFoundf("order %s", id)
	}
	o.Status = status
	return nil
}

func (f *fakeStore) DeleteOrder(ctx context.Context, id string) error {
	if _, ok := f.orders[id]; !ok {
		return errs.NotFoundf("order %s", id)
	}
	delete(f.orders, id)
	delete(f.orderItems, id)
	for rid, r := range f.reservations {
		if r.OrderID == id {
			delete(f.reservations, rid)
		}
	}
	return nil
}

func (f *fakeStore) CreateInboundShipment(ctx context.Context, sh *models.InboundShipment) error {
	cp := *sh
	cp.CreatedAt = time.Now()
	f.inbound[sh.ID] = &cp
	return nil
}

func (f *fakeStore) CreateInboundItem(ctx context.Context, item *models.InboundShipmentItem) error {
	f.inboundItems[item.ShipmentID] = append(f.inboundItems[item.ShipmentID], *item)
	return nil
}

func (f *fakeStore) GetInboundShipment(ctx context.Context, id string) (*models.InboundShipment, error) {
	sh, ok := f.inbound[id]
	if !ok {
		return nil, errs.NotFoundf("inbound shipment %s", id)
	}
	cp := *sh
	return &cp, nil
}

func (f *fakeStore) ListInboundShipments(ctx context.Context, filter models.ShipmentFilter) ([]models.InboundShipment, int, error) {
	var out []models.InboundShipment
	for _, sh := range f.inbound {
		if filter.Status != "" && sh.Status != filter.Status {
			continue
		}
		out = append(out, *sh)
	}
	return out, len(out), nil
}

func (f *fakeStore) InboundItems(ctx context.Context, shipmentID string) ([]models.InboundShipmentItem, error) {
	return append([]models.InboundShipmentItem(nil), f.inboundItems[shipmentID]...), nil
}

func (f *fakeStore) UpdateInboundShipment(ctx context.Context, sh *models.InboundShipment) error {
	if _, ok := f.inbound[sh.ID]; !ok {
		return errs.NotFoundf("inbound shipment %s", sh.ID)
	}
	cp := *sh
	f.inbound[sh.ID] = &cp
	return nil
}

func (f *fakeStore) SetInboundReceived(ctx context.Context, id string, at time.Time) error {
	sh, ok := f.inbound[id]
	if !ok {
		return errs.NotFoundf("inbound shipment %s", id)
	}
	t := at
	sh.Status = models.InboundStatusReceived
	sh.ReceivedDate = &t
	return nil
}

func (f *fakeStore) PendingInboundShipments(ctx context.Context) ([]models.InboundShipment, error) {
	var out []models.InboundShipment
	for _, sh := range f.inbound {
		if sh.Status == models.InboundStatusScheduled || sh.Status == models.InboundStatusInTransit {
			out = append(out, *sh)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateOutboundShipment(ctx context.Context, sh *models.OutboundShipment) error {
	cp := *sh
	cp.CreatedAt = time.Now()
	f.outbound[sh.ID] = &cp
	return nil
}

func (f *fakeStore) GetOutboundShipment(ctx context.Context, id string) (*models.OutboundShipment, error) {
	sh, ok := f.outbound[id]
	if !ok {
		return nil, errs.NotFoundf("outbound shipment %s", id)
	}
	cp := *sh
	return &cp, nil
}

func (f *fakeStore) ListOutboundShipments(ctx context.Context, filter models.ShipmentFilter) ([]models.OutboundShipment, int, error) {
	var out []models.OutboundShipment
	for _, sh := range f.outbound {
		if filter.Status != "" && sh.Status != filter.Status {
			continue
		}
		out = append(out, *sh)
	}
	return out, len(out), nil
}

func (f *fakeStore) SetOutboundPicking(ctx context.Context, id, pickerID, status string) error {
	sh, ok := f.outbound[id]
	if !ok {
		return errs.NotFoundf("outbound shipment %s", id)
	}
	sh.PickerID = pickerID
	sh.Status = status
	return nil
}

func (f *fakeStore) SetOutboundShipped(ctx context.Context, id, carrier, trackingNumber string, at time.Time) error {
	sh, ok := f.outbound[id]
	if !ok {
		return errs.NotFoundf("outbound shipment %s", id)
	}
	t := at
	sh.Status = models.OutboundStatusShipped
	sh.Carrier = carrier
	sh.TrackingNumber = trackingNumber
	sh.ShippedDate = &t
	return nil
}

// outboundByOrder is a test helper.
func (f *fakeStore) outboundByOrder(orderID string) []*models.OutboundShipment {
	var out []*models.OutboundShipment
	for _, sh := range f.outbound {
		if sh.OrderID == orderID {
			out = append(out, sh)
		}
	}
	return out
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *fakePublisher) record(event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) PublishOrderCreated(ctx context.Context, e *models.OrderCreatedEvent) error {
	return p.record(e)
}

func (p *fakePublisher) PublishOrderStatusChanged(ctx context.Context, e *models.OrderStatusChangedEvent) error {
	return p.record(e)
}

func (p *fakePublisher) PublishStockAdjusted(ctx context.Context, e *models.StockAdjustedEvent) error {
	return p.record(e)
}

func (p *fakePublisher) PublishShipmentReceived(ctx context.Context, e *models.ShipmentReceivedEvent) error {
	return p.record(e)
}

func (p *fakePublisher) PublishShipmentShipped(ctx context.Context, e *models.ShipmentShippedEvent) error {
	return p.record(e)
}

func (p *fakePublisher) PublishReservationsExpired(ctx context.Context, e *models.ReservationsExpiredEvent) error {
	return p.record(e)
}

// fakeCache is a map-backed InventoryCache.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*models.Inventory
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*models.Inventory)}
}

func (c *fakeCache) GetInventory(ctx context.Context, id string) (*models.Inventory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if inv, ok := c.entries[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (c *fakeCache) SetInventory(ctx context.Context, inv *models.Inventory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *inv
	c.entries[inv.ID] = &cp
	return nil
}

func (c *fakeCache) InvalidateInventory(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}
