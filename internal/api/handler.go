package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"warehouse-service/internal/errs"
	"warehouse-service/internal/models"
	"warehouse-service/internal/service"
	"warehouse-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog   *service.CatalogService
	ledger    *service.Ledger
	orders    *service.OrderService
	receiving *service.ReceivingService
	shipments *service.ShipmentService
	analytics *service.AnalyticsService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	ledger *service.Ledger,
	orders *service.OrderService,
	receiving *service.ReceivingService,
	shipments *service.ShipmentService,
	analytics *service.AnalyticsService,
) *Handler {
	return &Handler{
		catalog:   catalog,
		ledger:    ledger,
		orders:    orders,
		receiving: receiving,
		shipments: shipments,
		analytics: analytics,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/products", h.createProduct)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/sku/:sku", h.getProductBySKU)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)

		v1.POST("/categories", h.createCategory)
		v1.GET("/categories", h.listCategories)
		v1.GET("/categories/:id", h.getCategory)
		v1.PUT("/categories/:id", h.updateCategory)
		v1.DELETE("/categories/:id", h.deleteCategory)

		v1.POST("/warehouses", h.createWarehouse)
		v1.GET("/warehouses", h.listWarehouses)
		v1.GET("/warehouses/:id", h.getWarehouse)
		v1.PUT("/warehouses/:id", h.updateWarehouse)
		v1.DELETE("/warehouses/:id", h.deleteWarehouse)

		v1.POST("/inventory", h.createInventory)
		v1.GET("/inventory", h.listInventory)
		v1.GET("/inventory/alerts/low-stock", h.lowStockAlerts)
		v1.GET("/inventory/:id", h.getInventory)
		v1.PATCH("/inventory/:id", h.updateInventoryLocation)
		v1.DELETE("/inventory/:id", h.deleteInventory)
		v1.POST("/inventory/adjust", h.adjustInventory)
		v1.GET("/inventory/adjustments/:productId", h.adjustmentHistory)

		v1.POST("/orders", h.createOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.PATCH("/orders/:id", h.updateOrder)
		v1.PATCH("/orders/:id/status", h.updateOrderStatus)
		v1.DELETE("/orders/:id", h.deleteOrder)

		v1.POST("/inbound-shipments", h.createInbound)
		v1.GET("/inbound-shipments", h.listInbound)
		v1.GET("/inbound-shipments/pending", h.pendingInbound)
		v1.GET("/inbound-shipments/:id", h.getInbound)
		v1.PATCH("/inbound-shipments/:id", h.updateInbound)
		v1.POST("/inbound-shipments/:id/receive", h.receiveInbound)

		v1.GET("/outbound-shipments", h.listOutbound)
		v1.GET("/outbound-shipments/:id", h.getOutbound)
		v1.POST("/outbound-shipments/pick-list/:orderId", h.generatePickList)
		v1.PATCH("/outbound-shipments/:id/picking", h.updatePicking)
		v1.POST("/outbound-shipments/:id/ship", h.shipOutbound)

		v1.GET("/analytics/orders", h.orderAnalytics)
		v1.GET("/analytics/inventory", h.inventoryAnalytics)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// listFilter reads the shared pagination and search query params.
func listFilter(c *gin.Context) models.ListFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return models.ListFilter{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	}
}

func paginated(c *gin.Context, key string, data interface{}, total int, f models.ListFilter) {
	c.JSON(http.StatusOK, gin.H{
		key:     data,
		"total": total,
		"page":  f.Page,
		"limit": f.Limit,
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
