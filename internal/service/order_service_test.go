package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"warehouse-service/internal/errs"
	"warehouse-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderReservesStock(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedInventory("inv1", "p1", "w1", "A-1", 100, 0)

	order, items, err := f.orders.Create(context.Background(), &CreateOrderRequest{
		CustomerName: "Acme Corp",
		Items: []OrderItemRequest{
			{ProductID: "p1", Quantity: 10, UnitPrice: 2.5},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PriorityMedium, order.Priority)
	assert.Equal(t, 25.0, order.TotalValue)
	require.Len(t, items, 1)
	assert.Equal(t, 25.0, items[0].TotalPrice)

	wantPrefix := fmt.Sprintf("ORD-%s-", time.Now().Format("20060102"))
	assert.True(t, strings.HasPrefix(order.OrderNumber, wantPrefix))
	assert.Equal(t, wantPrefix+"001", order.OrderNumber)

	// Reserving moves stock within on-hand: available and total stay put.
	inv := f.inventoryByID("inv1")
	assert.Equal(t, 100, inv.QuantityAvailable)
	assert.Equal(t, 10, inv.QuantityReserved)
	assert.Equal(t, 100, inv.QuantityTotal)

	reservations, err := f.store.ActiveReservationsByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, 10, reservations[0].QuantityReserved)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), reservations[0].ExpiresAt, time.Minute)
}

func TestCreateOrderSequentialNumbers(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedInventory("inv1", "p1", "w1", "A-1", 100, 0)

	var numbers []string
	for i := 0; i < 3; i++ {
		order, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
			CustomerName: "Acme Corp",
			Items:        []OrderItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: 1}},
		})
		require.NoError(t, err)
		numbers = append(numbers, order.OrderNumber)
	}

	prefix := fmt.Sprintf("ORD-%s-", time.Now().Format("20060102"))
	assert.Equal(t, []string{prefix + "001", prefix + "002", prefix + "003"}, numbers)
}

func TestConcurrentCreatesGetUniqueNumbers(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedInventory("inv1", "p1", "w1", "A-1", 1000, 0)

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	numbers := make(map[string]bool)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
				CustomerName: "Acme Corp",
				Items:        []OrderItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: 1}},
			})
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			numbers[order.OrderNumber] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, n)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)

	_, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
		CustomerName: "Acme Corp",
		Items: []OrderItemRequest{
			{ProductID: "p1", Quantity: 1, UnitPrice: 1},
			{ProductID: "ghost", Quantity: 1, UnitPrice: 1},
		},
	})
	assert.True(t, errs.IsNotFound(err))
	assert.Empty(t, f.store.orders)
}

func TestCreateOrderWithoutInventoryRow(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)

	order, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
		CustomerName: "Acme Corp",
		Items:        []OrderItemRequest{{ProductID: "p1", Quantity: 4, UnitPrice: 1}},
	})
	require.NoError(t, err)

	// The hold is tracked even with nothing on hand, so release and
	// fulfillment stay symmetrical.
	reservations, err := f.store.ActiveReservationsByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
}

func TestCreateOrderInvalidPriority(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)

	_, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
		CustomerName: "Acme Corp",
		Priority:     "WHENEVER",
		Items:        []OrderItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: 1}},
	})
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
}

func TestCompleteOrderDeductsAllCounters(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedInventory("inv1", "p1", "w1", "A-1", 100, 0)

	order, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
		CustomerName: "Acme Corp",
		Items:        []OrderItemRequest{{ProductID: "p1", Quantity: 10, UnitPrice: 1}},
	})
	require.NoError(t, err)

	updated, err := f.orders.UpdateStatus(context.Background(), order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)

	inv := f.inventoryByID("inv1")
	assert.Equal(t, 90, inv.QuantityAvailable)
	assert.Equal(t, 0, inv.QuantityReserved)
	assert.Equal(t, 90, inv.QuantityTotal)

	// The hold is consumed, not released.
	active, err := f.store.ActiveReservationsByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
	for _, r := range f.store.reservations {
		if r.OrderID == order.ID {
			assert.Equal(t, models.ReservationFulfilled, r.Status)
		}
	}

	// Completion leaves an audit entry like any other stock movement.
	history, err := f.store.ListAdjustments(context.Background(), "p1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.AdjustmentDecrease, history[0].AdjustmentType)
	assert.Equal(t, -10, history[0].QuantityChange)
	assert.Contains(t, history[0].Reason, order.OrderNumber)
}

func TestCompleteOrderClampsAtZero(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedInventory("inv1", "p1", "w1", "A-1", 3, 0)

	order, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
		CustomerName: "Acme Corp",
		Items:        []OrderItemRequest{{ProductID: "p1", Quantity: 10, UnitPrice: 1}},
	})
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(context.Background(), order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)

	inv := f.inventoryByID("inv1")
	assert.Equal(t, 0, inv.QuantityAvailable)
	assert.Equal(t, 0, inv.QuantityReserved)
	assert.Equal(t, 0, inv.QuantityTotal)
}

func TestCancelOrderReleasesReservations(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedInventory("inv1", "p1", "w1", "A-1", 100, 0)

	order, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
		CustomerName: "Acme Corp",
		Items:        []OrderItemRequest{{ProductID: "p1", Quantity: 10, UnitPrice: 1}},
	})
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(context.Background(), order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)

	inv := f.inventoryByID("inv1")
	assert.Equal(t, 100, inv.QuantityAvailable)
	assert.Equal(t, 0, inv.QuantityReserved)
	assert.Equal(t, 100, inv.QuantityTotal)

	active, err := f.store.ActiveReservationsByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture()

	_, err := f.orders.UpdateStatus(context.Background(), "any", "SHIPPED")
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedInventory("inv1", "p1", "w1", "A-1", 100, 0)

	order, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
		CustomerName: "Acme Corp",
		Items:        []OrderItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(context.Background(), order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(context.Background(), order.ID, models.OrderStatusProcessing)
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
}

func TestProcessingOpensOutboundShipment(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedInventory("inv1", "p1", "w1", "A-1", 100, 0)

	order, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
		CustomerName: "Acme Corp",
		Items:        []OrderItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(context.Background(), order.ID, models.OrderStatusProcessing)
	require.NoError(t, err)

	shipments := f.store.outboundByOrder(order.ID)
	require.Len(t, shipments, 1)
	assert.Equal(t, models.OutboundStatusPicking, shipments[0].Status)
	assert.True(t, strings.HasPrefix(shipments[0].ShipmentID, "SHP-"))
}

func TestDeleteOrderReleasesHolds(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedInventory("inv1", "p1", "w1", "A-1", 100, 0)

	order, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
		CustomerName: "Acme Corp",
		Items:        []OrderItemRequest{{ProductID: "p1", Quantity: 10, UnitPrice: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, f.orders.Delete(context.Background(), order.ID))

	inv := f.inventoryByID("inv1")
	assert.Equal(t, 0, inv.QuantityReserved)
	_, _, err = f.orders.Get(context.Background(), order.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestCreateOrderPublishesEvent(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedInventory("inv1", "p1", "w1", "A-1", 100, 0)

	order, _, err := f.orders.Create(context.Background(), &CreateOrderRequest{
		CustomerName: "Acme Corp",
		Items:        []OrderItemRequest{{ProductID: "p1", Quantity: 2, UnitPrice: 3}},
	})
	require.NoError(t, err)

	require.NotEmpty(t, f.publisher.events)
	event, ok := f.publisher.events[0].(*models.OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, order.OrderNumber, event.OrderNumber)
	require.Len(t, event.Items, 1)
	assert.Equal(t, 2, event.Items[0].QuantityOrdered)
}
