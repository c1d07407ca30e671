// server/internal/api/handlers/delivery_handler.go
package handlers

import (
	"net/http"

	"reeutil-tradein-api-server/internal/delivery"
	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	Service *delivery.Service
}

func (h *DeliveryHandler) Receive(c *gin.Context) {
	var req delivery.ReceiveInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.Service.Receive(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DeliveryHandler) List(c *gin.Context) {
	filter := store.DeliveryFilter{
		Status: models.DeliveryStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	list, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
}

func (h *DeliveryHandler) Get(c *gin.Context) {
	d, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type DeliveryStatusRequest struct {
	Status models.DeliveryStatus `json:"status" binding:"required"`
	Notes  string                `json:"notes"`
}

func (h *DeliveryHandler) SetStatus(c *gin.Context) {
	var req DeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.Service.SetStatus(c.Request.Context(), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
