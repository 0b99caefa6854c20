package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"warehouse-service/internal/errs"
	"warehouse-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInboundShipment(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedProduct("p2", "SKU-2", 5)

	sh, items, err := f.receiving.Create(context.Background(), &CreateInboundRequest{
		SupplierName: "Supplies Inc",
		PONumber:     "PO-42",
		Items: []InboundItemRequest{
			{ProductID: "p1", QuantityExpected: 50, UnitCost: 2},
			{ProductID: "p2", QuantityExpected: 30, UnitCost: 1},
		},
	})
	require.NoError(t, err)

	wantPrefix := fmt.Sprintf("RCV-%s-", time.Now().Format("20060102"))
	assert.Equal(t, wantPrefix+"001", sh.ReceivingID)
	assert.Equal(t, models.InboundStatusScheduled, sh.Status)
	assert.Equal(t, 80, sh.TotalItems)
	assert.Equal(t, 130.0, sh.TotalValue)
	require.Len(t, items, 2)
	assert.Equal(t, 100.0, items[0].TotalCost)
}

func TestCreateInboundUnknownProduct(t *testing.T) {
	f := newFixture()

	_, _, err := f.receiving.Create(context.Background(), &CreateInboundRequest{
		SupplierName: "Supplies Inc",
		Items:        []InboundItemRequest{{ProductID: "ghost", QuantityExpected: 1}},
	})
	assert.True(t, errs.IsNotFound(err))
}

func TestMarkReceivedCreatesInventoryAtFirstWarehouse(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedWarehouse("w2", "Overflow")

	sh, _, err := f.receiving.Create(context.Background(), &CreateInboundRequest{
		SupplierName: "Supplies Inc",
		Items:        []InboundItemRequest{{ProductID: "p1", QuantityExpected: 50, UnitCost: 2}},
	})
	require.NoError(t, err)

	received, err := f.receiving.MarkReceived(context.Background(), sh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InboundStatusReceived, received.Status)
	assert.NotNil(t, received.ReceivedDate)

	require.Len(t, f.store.inventory, 1)
	inv := f.store.inventory[0]
	assert.Equal(t, "w1", inv.WarehouseID)
	assert.Equal(t, 50, inv.QuantityAvailable)
	assert.Equal(t, 0, inv.QuantityReserved)
	assert.Equal(t, 50, inv.QuantityTotal)
	assert.NotNil(t, inv.LastCounted)

	history, err := f.store.ListAdjustments(context.Background(), "p1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.AdjustmentIncrease, history[0].AdjustmentType)
	assert.Equal(t, 0, history[0].QuantityBefore)
	assert.Equal(t, 50, history[0].QuantityAfter)
	assert.Contains(t, history[0].Reason, sh.ReceivingID)
}

func TestMarkReceivedIncrementsExistingInventory(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")
	f.seedInventory("inv1", "p1", "w1", "A-1", 10, 2)

	sh, _, err := f.receiving.Create(context.Background(), &CreateInboundRequest{
		SupplierName: "Supplies Inc",
		Items:        []InboundItemRequest{{ProductID: "p1", QuantityExpected: 5}},
	})
	require.NoError(t, err)

	_, err = f.receiving.MarkReceived(context.Background(), sh.ID)
	require.NoError(t, err)

	inv := f.inventoryByID("inv1")
	assert.Equal(t, 15, inv.QuantityAvailable)
	assert.Equal(t, 2, inv.QuantityReserved)
	assert.Equal(t, 17, inv.QuantityTotal)
}

func TestMarkReceivedTwiceRejected(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")

	sh, _, err := f.receiving.Create(context.Background(), &CreateInboundRequest{
		SupplierName: "Supplies Inc",
		Items:        []InboundItemRequest{{ProductID: "p1", QuantityExpected: 50}},
	})
	require.NoError(t, err)

	_, err = f.receiving.MarkReceived(context.Background(), sh.ID)
	require.NoError(t, err)

	_, err = f.receiving.MarkReceived(context.Background(), sh.ID)
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))

	// Stock applied exactly once.
	require.Len(t, f.store.inventory, 1)
	assert.Equal(t, 50, f.store.inventory[0].QuantityAvailable)
}

func TestMarkReceivedNoWarehouseConfigured(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)

	sh, _, err := f.receiving.Create(context.Background(), &CreateInboundRequest{
		SupplierName: "Supplies Inc",
		Items:        []InboundItemRequest{{ProductID: "p1", QuantityExpected: 50}},
	})
	require.NoError(t, err)

	_, err = f.receiving.MarkReceived(context.Background(), sh.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestMarkReceivedPublishesEvent(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")

	sh, _, err := f.receiving.Create(context.Background(), &CreateInboundRequest{
		SupplierName: "Supplies Inc",
		Items:        []InboundItemRequest{{ProductID: "p1", QuantityExpected: 50}},
	})
	require.NoError(t, err)

	_, err = f.receiving.MarkReceived(context.Background(), sh.ID)
	require.NoError(t, err)

	var event *models.ShipmentReceivedEvent
	for _, e := range f.publisher.events {
		if ev, ok := e.(*models.ShipmentReceivedEvent); ok {
			event = ev
		}
	}
	require.NotNil(t, event)
	assert.Equal(t, sh.ReceivingID, event.ReceivingID)
	require.Len(t, event.Items, 1)
	assert.Equal(t, 50, event.Items[0].Quantity)
}

func TestUpdateInboundRejectsReceivedStatus(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)

	sh, _, err := f.receiving.Create(context.Background(), &CreateInboundRequest{
		SupplierName: "Supplies Inc",
		Items:        []InboundItemRequest{{ProductID: "p1", QuantityExpected: 50}},
	})
	require.NoError(t, err)

	status := models.InboundStatusReceived
	_, err = f.receiving.Update(context.Background(), sh.ID, &UpdateInboundRequest{Status: &status})
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
}

func TestPendingReceipts(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", "SKU-1", 5)
	f.seedWarehouse("w1", "Main")

	first, _, err := f.receiving.Create(context.Background(), &CreateInboundRequest{
		SupplierName: "Supplies Inc",
		Items:        []InboundItemRequest{{ProductID: "p1", QuantityExpected: 10}},
	})
	require.NoError(t, err)

	second, _, err := f.receiving.Create(context.Background(), &CreateInboundRequest{
		SupplierName: "Supplies Inc",
		Items:        []InboundItemRequest{{ProductID: "p1", QuantityExpected: 20}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(second.ReceivingID, "-002"))

	_, err = f.receiving.MarkReceived(context.Background(), first.ID)
	require.NoError(t, err)

	pending, err := f.receiving.PendingReceipts(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
