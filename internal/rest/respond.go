// Package rest holds response helpers shared by the HTTP handlers.
package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/apperr"
)

// Error renders err according to the error taxonomy. Unknown errors are
// logged and reported as a generic 500: internal detail stays out of the
// response body.
func Error(c *gin.Context, logger *zap.Logger, err error) {
	var stockErr *apperr.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   stockErr.Error(),
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return
	}

	switch {
	case apperr.IsValidation(err), apperr.IsConflict(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case apperr.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case apperr.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	default:
		logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
