// server/internal/api/handlers/valuation_handler.go
package handlers

import (
	"net/http"

	"reeutil-tradein-api-server/internal/valuation"

	"github.com/gin-gonic/gin"
)

type ValuationHandler struct {
	Service *valuation.Service
}

type PriceRequest struct {
	Rule    interface{}            `json:"rule" binding:"required"`
	Answers map[string]interface{} `json:"answers"`
}

// PriceQuote evaluates a rule against answers without persisting anything.
func (h *ValuationHandler) PriceQuote(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Service.Evaluate(req.Rule, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateQuote prices the answers and stores the quote with its rule snapshot.
func (h *ValuationHandler) CreateQuote(c *gin.Context) {
	var req valuation.QuoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := h.Service.CreateQuote(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// GetQuote resolves a quote by internal id first, then by external id, so
// callers can pass whichever reference they hold.
func (h *ValuationHandler) GetQuote(c *gin.Context) {
	ref := c.Param("ref")
	q, err := h.Service.GetQuote(c.Request.Context(), ref)
	if err != nil {
		q, err = h.Service.GetQuoteByExtID(c.Request.Context(), ref)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
