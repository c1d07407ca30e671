// server/internal/api/handlers/inspection_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"reeutil-tradein-api-server/internal/inspection"
	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/s3"
	"reeutil-tradein-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InspectionHandler struct {
	Service    *inspection.Service
	S3Uploader *s3.Uploader
}

func (h *InspectionHandler) List(c *gin.Context) {
	filter := store.InspectionFilter{
		Status:     models.InspectionStatus(c.Query("status")),
		Search:     c.Query("search"),
		AllSources: c.Query("allSources") == "true",
	}

	list, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
}

func (h *InspectionHandler) Get(c *gin.Context) {
	ins, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ins)
}

// Review fetches the quote and computes the full assessment for the admin
// screen.
func (h *InspectionHandler) Review(c *gin.Context) {
	res, err := h.Service.Review(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type InspectionStatusRequest struct {
	Status models.InspectionStatus `json:"status" binding:"required"`
	Notes  string                  `json:"notes"`
}

func (h *InspectionHandler) SetStatus(c *gin.Context) {
	var req InspectionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ins, err := h.Service.SetStatus(c.Request.Context(), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ins)
}

type CounterOfferRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

func (h *InspectionHandler) SendCounterOffer(c *gin.Context) {
	var req CounterOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ins, err := h.Service.SendCounterOffer(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ins)
}

type CounterOfferResponseRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

func (h *InspectionHandler) RespondCounterOffer(c *gin.Context) {
	var req CounterOfferResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ins, err := h.Service.RespondCounterOffer(c.Request.Context(), c.Param("id"), *req.Accept)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ins)
}

type PaymentRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method" binding:"required"`
}

func (h *InspectionHandler) RegisterPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ins, err := h.Service.RegisterPayment(c.Request.Context(), c.Param("id"), req.Amount, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ins)
}

func (h *InspectionHandler) Finalize(c *gin.Context) {
	var req inspection.FinalizeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ins, err := h.Service.Finalize(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ins)
}

// UploadPhoto stores an evidence photo in S3 and links it to the inspection.
func (h *InspectionHandler) UploadPhoto(c *gin.Context) {
	if h.S3Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'photo' file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	id := c.Param("id")
	objectKey := fmt.Sprintf("inspections/%s/%s%s", id, uuid.New().String()[:8], filepath.Ext(fileHeader.Filename))
	url, err := h.S3Uploader.UploadFile(c.Request.Context(), file, objectKey, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
		return
	}

	ins, err := h.Service.AddPhoto(c.Request.Context(), id, url)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ins)
}
