package service

import (
	"time"

	"warehouse-service/internal/models"
)

// fixture wires every workflow against one fake store so tests can
// drive full scenarios end to end.
type fixture struct {
	store        *fakeStore
	cache        *fakeCache
	publisher    *fakePublisher
	ledger       *Ledger
	reservations *ReservationManager
	orders       *OrderService
	receiving    *ReceivingService
	shipments    *ShipmentService
	catalog      *CatalogService
}

func newFixture() *fixture {
	st := newFakeStore()
	cache := newFakeCache()
	pub := &fakePublisher{}

	reservations := NewReservationManager(st, cache, pub, 7*24*time.Hour)
	orders := NewOrderService(st, reservations, pub)

	return &fixture{
		store:        st,
		cache:        cache,
		publisher:    pub,
		ledger:       NewLedger(st, cache, pub),
		reservations: reservations,
		orders:       orders,
		receiving:    NewReceivingService(st, cache, pub),
		shipments:    NewShipmentService(st, orders, pub),
		catalog:      NewCatalogService(st),
	}
}

func (f *fixture) seedProduct(id, sku string, minimumStock int) {
	f.store.products[id] = &models.Product{
		ID:           id,
		SKU:          sku,
		Name:         "Product " + sku,
		UnitPrice:    10,
		MinimumStock: minimumStock,
		IsActive:     true,
	}
}

func (f *fixture) seedWarehouse(id, name string) {
	f.store.warehouses = append(f.store.warehouses, &models.Warehouse{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	})
}

func (f *fixture) seedInventory(id, productID, warehouseID, location string, available, reserved int) {
	f.store.inventory = append(f.store.inventory, &models.Inventory{
		ID:                id,
		ProductID:         productID,
		WarehouseID:       warehouseID,
		Location:          location,
		QuantityAvailable: available,
		QuantityReserved:  reserved,
		QuantityTotal:     available + reserved,
		CreatedAt:         time.Now(),
	})
}

func (f *fixture) inventoryByID(id string) *models.Inventory {
	for _, inv := range f.store.inventory {
		if inv.ID == id {
			return inv
		}
	}
	return nil
}
