// server/internal/api/handlers/intake_handler.go
package handlers

import (
	"net/http"

	"reeutil-tradein-api-server/internal/intake"
	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"

	"github.com/gin-gonic/gin"
)

type IntakeHandler struct {
	Service *intake.Service
}

func (h *IntakeHandler) CreateConfirmation(c *gin.Context) {
	var req intake.ConfirmationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// A logged-in user overrides whatever sub came in the payload.
	if sub := c.GetString("user_sub"); sub != "" {
		req.UserSub = sub
	}

	conf, err := h.Service.CreateConfirmation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conf)
}

func (h *IntakeHandler) DispatchKit(c *gin.Context) {
	var req intake.KitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kit, err := h.Service.DispatchKit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, kit)
}

func (h *IntakeHandler) ListConfirmations(c *gin.Context) {
	filter := store.ConfirmationFilter{
		Status: models.ConfirmationStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	list, err := h.Service.ListConfirmations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
}

func (h *IntakeHandler) GetConfirmation(c *gin.Context) {
	conf, err := h.Service.GetConfirmation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conf)
}

type ProcessConfirmationRequest struct {
	Processed *bool `json:"processed" binding:"required"`
}

func (h *IntakeHandler) ProcessConfirmation(c *gin.Context) {
	var req ProcessConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conf, err := h.Service.ProcessConfirmation(c.Request.Context(), c.Param("id"), *req.Processed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conf)
}
