package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_completed_total",
		Help: "Total number of orders completed",
	})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of orders cancelled",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order operations",
	}, []string{"reason"})

	InventoryAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_adjustments_total",
		Help: "Total number of inventory ledger adjustments",
	}, []string{"type"})

	LedgerAdjustLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_adjust_latency_seconds",
		Help:    "Latency of inventory ledger adjustments",
		Buckets: prometheus.DefBuckets,
	})

	ReservationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_reservations_created_total",
		Help: "Total number of inventory reservations created",
	})

	ReservationsReleasedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_reservations_released_total",
		Help: "Total number of inventory reservations released",
	})

	ReservationsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_reservations_expired_total",
		Help: "Total number of reservations reclaimed by the expiry sweep",
	})

	ShipmentsReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inbound_shipments_received_total",
		Help: "Total number of inbound shipments marked received",
	})

	ShipmentsShippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbound_shipments_shipped_total",
		Help: "Total number of outbound shipments marked shipped",
	})

	PickListsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pick_lists_generated_total",
		Help: "Total number of pick lists generated",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
