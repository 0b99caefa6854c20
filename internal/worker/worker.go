package worker

import (
	"context"
	"time"

	"warehouse-service/internal/broker"
	"warehouse-service/internal/models"
	"warehouse-service/internal/redisclient"
	"warehouse-service/internal/service"
	"warehouse-service/internal/util"

	"go.uber.org/zap"
)

// SweepWorker periodically reclaims expired reservations. The Redis
// lock keeps replicas from sweeping concurrently; a replica that fails
// to take the lock just waits for the next tick.
type SweepWorker struct {
	reservations *service.ReservationManager
	redis        *redisclient.Client
	interval     time.Duration
	batchSize    int
	logger       *zap.Logger
	stop         chan struct{}
	done         chan struct{}
}

// NewSweepWorker creates a new reservation sweep worker
func NewSweepWorker(reservations *service.ReservationManager, redis *redisclient.Client, interval time.Duration, batchSize int) *SweepWorker {
	return &SweepWorker{
		reservations: reservations,
		redis:        redis,
		interval:     interval,
		batchSize:    batchSize,
		logger:       util.GetLogger(),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or ctx is cancelled.
func (w *SweepWorker) Start(ctx context.Context) {
	w.logger.Info("Starting reservation sweep worker",
		zap.Duration("interval", w.interval),
		zap.Int("batch_size", w.batchSize))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SweepWorker) sweep(ctx context.Context) {
	locked, err := w.redis.AcquireLock(ctx, "reservation-sweep", w.interval)
	if err != nil {
		w.logger.Error("Failed to acquire sweep lock", zap.Error(err))
		return
	}
	if !locked {
		return
	}
	defer func() {
		if err := w.redis.ReleaseLock(ctx, "reservation-sweep"); err != nil {
			w.logger.Warn("Failed to release sweep lock", zap.Error(err))
		}
	}()

	for {
		released, err := w.reservations.ReleaseExpired(ctx, w.batchSize)
		if err != nil {
			w.logger.Error("Reservation sweep failed", zap.Error(err))
			return
		}
		if released < w.batchSize {
			return
		}
	}
}

// Stop stops the worker and waits for the loop to exit.
func (w *SweepWorker) Stop() {
	w.logger.Info("Stopping reservation sweep worker")
	close(w.stop)
	<-w.done
}

// CacheWorker keeps the inventory cache warm by consuming stock events
// and re-reading the affected rows from the database.
type CacheWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewCacheWorker creates a new cache refresh worker
func NewCacheWorker(consumer *broker.Consumer, store service.Store, cache service.InventoryCache) *CacheWorker {
	logger := util.GetLogger()

	refresh := func(ctx context.Context, inventoryID string) error {
		inv, err := store.GetInventory(ctx, inventoryID)
		if err != nil {
			// Row may have been deleted since the event; drop the entry.
			return cache.InvalidateInventory(ctx, inventoryID)
		}
		return cache.SetInventory(ctx, inv)
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnStockAdjusted(func(ctx context.Context, event *models.StockAdjustedEvent) error {
		return refresh(ctx, event.InventoryID)
	})
	eventHandler.OnShipmentReceived(func(ctx context.Context, event *models.ShipmentReceivedEvent) error {
		for _, item := range event.Items {
			if err := refresh(ctx, item.InventoryID); err != nil {
				logger.Warn("Failed to refresh cached inventory",
					zap.String("inventory_id", item.InventoryID), zap.Error(err))
			}
		}
		return nil
	})

	return &CacheWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       logger,
	}
}

// Start starts the worker
func (w *CacheWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting inventory cache worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CacheWorker) Stop() error {
	w.logger.Info("Stopping inventory cache worker")
	return w.consumer.Close()
}
