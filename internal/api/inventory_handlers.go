package api

import (
	"net/http"
	"strconv"

	"warehouse-service/internal/models"
	"warehouse-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createInventory handles inventory record creation
func (h *Handler) createInventory(c *gin.Context) {
	var req service.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	inv, err := h.ledger.CreateRecord(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// listInventory handles inventory listing with filters
func (h *Handler) listInventory(c *gin.Context) {
	f := models.InventoryFilter{
		ListFilter:  listFilter(c),
		WarehouseID: c.Query("warehouse_id"),
		LowStock:    c.Query("low_stock") == "true",
	}

	records, total, err := h.ledger.ListRecords(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	f.Normalize()
	paginated(c, "inventory", records, total, f.ListFilter)
}

// getInventory handles get inventory record by ID
func (h *Handler) getInventory(c *gin.Context) {
	inv, err := h.ledger.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// updateInventoryLocation handles moving a record to a new location
func (h *Handler) updateInventoryLocation(c *gin.Context) {
	var req struct {
		Location string `json:"location" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	inv, err := h.ledger.UpdateLocation(c.Request.Context(), c.Param("id"), req.Location)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// deleteInventory handles inventory record deletion
func (h *Handler) deleteInventory(c *gin.Context) {
	if err := h.ledger.RemoveRecord(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// adjustInventory handles manual stock adjustments
func (h *Handler) adjustInventory(c *gin.Context) {
	var req service.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.ledger.Adjust(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// adjustmentHistory handles the per-product audit trail
func (h *Handler) adjustmentHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	adjustments, err := h.ledger.History(c.Request.Context(), c.Param("productId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"adjustments": adjustments})
}

// lowStockAlerts handles the low stock report
func (h *Handler) lowStockAlerts(c *gin.Context) {
	items, err := h.ledger.LowStockAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}
