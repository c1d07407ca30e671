// server/internal/api/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reeutil-tradein-api-server/internal/clients/quote"
	"reeutil-tradein-api-server/internal/delivery"
	"reeutil-tradein-api-server/internal/inspection"
	"reeutil-tradein-api-server/internal/intake"
	"reeutil-tradein-api-server/internal/store"
	"reeutil-tradein-api-server/internal/valuation"
)

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, quote.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, intake.ErrValidation),
		errors.Is(err, inspection.ErrValidation),
		errors.Is(err, delivery.ErrInvalidStatus),
		errors.Is(err, inspection.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, valuation.ErrNoActiveRule),
		errors.Is(err, inspection.ErrQuoteUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, inspection.ErrNoOffer),
		errors.Is(err, inspection.ErrPaymentBlocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
