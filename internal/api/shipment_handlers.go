package api

import (
	"net/http"

	"warehouse-service/internal/models"
	"warehouse-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createInbound handles inbound shipment creation
func (h *Handler) createInbound(c *gin.Context) {
	var req service.CreateInboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	sh, items, err := h.receiving.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shipment": sh, "items": items})
}

// listInbound handles inbound shipment listing with filters
func (h *Handler) listInbound(c *gin.Context) {
	f := models.ShipmentFilter{
		ListFilter: listFilter(c),
		Status:     c.Query("status"),
	}

	shipments, total, err := h.receiving.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	f.Normalize()
	paginated(c, "shipments", shipments, total, f.ListFilter)
}

// pendingInbound handles the pending receipts report
func (h *Handler) pendingInbound(c *gin.Context) {
	shipments, err := h.receiving.PendingReceipts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shipments": shipments, "count": len(shipments)})
}

// getInbound handles get inbound shipment by ID
func (h *Handler) getInbound(c *gin.Context) {
	sh, items, err := h.receiving.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shipment": sh, "items": items})
}

// updateInbound handles inbound shipment header updates
func (h *Handler) updateInbound(c *gin.Context) {
	var req service.UpdateInboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	sh, err := h.receiving.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}

// receiveInbound handles marking a shipment received and applying stock
func (h *Handler) receiveInbound(c *gin.Context) {
	sh, err := h.receiving.MarkReceived(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}

// listOutbound handles outbound shipment listing with filters
func (h *Handler) listOutbound(c *gin.Context) {
	f := models.ShipmentFilter{
		ListFilter: listFilter(c),
		Status:     c.Query("status"),
	}

	shipments, total, err := h.shipments.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	f.Normalize()
	paginated(c, "shipments", shipments, total, f.ListFilter)
}

// getOutbound handles get outbound shipment by ID
func (h *Handler) getOutbound(c *gin.Context) {
	sh, err := h.shipments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}

// generatePickList opens a picking shipment for an order
func (h *Handler) generatePickList(c *gin.Context) {
	sh, pickList, err := h.shipments.GeneratePickList(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shipment": sh, "pick_list": pickList})
}

// updatePicking handles picker assignment and floor status moves
func (h *Handler) updatePicking(c *gin.Context) {
	var req struct {
		PickerID string `json:"picker_id"`
		Status   string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	sh, err := h.shipments.UpdatePicking(c.Request.Context(), c.Param("id"), req.PickerID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}

// shipOutbound handles marking a shipment shipped
func (h *Handler) shipOutbound(c *gin.Context) {
	var req struct {
		Carrier        string `json:"carrier" binding:"required"`
		TrackingNumber string `json:"tracking_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	sh, err := h.shipments.MarkAsShipped(c.Request.Context(), c.Param("id"), req.Carrier, req.TrackingNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}

// orderAnalytics handles the order dashboard report
func (h *Handler) orderAnalytics(c *gin.Context) {
	report, err := h.analytics.OrderAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// inventoryAnalytics handles the inventory dashboard report
func (h *Handler) inventoryAnalytics(c *gin.Context) {
	report, err := h.analytics.InventoryAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
