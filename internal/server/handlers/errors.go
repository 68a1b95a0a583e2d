package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
	"github.com/mamadbah2/dyecalc/internal/service/dyeing"
	"github.com/mamadbah2/dyecalc/internal/service/extraction"
	"github.com/mamadbah2/dyecalc/internal/service/invoice"
	"github.com/mamadbah2/dyecalc/internal/service/recipes"
	"github.com/mamadbah2/dyecalc/internal/service/reporting"
)

// statusFor maps service sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dyeing.ErrItemIndex),
		errors.Is(err, dyeing.ErrUnknownField),
		errors.Is(err, dyeing.ErrInvalidFieldValue),
		errors.Is(err, models.ErrUnknownCommand),
		errors.Is(err, recipes.ErrMissingID),
		errors.Is(err, reporting.ErrInvalidRecord),
		errors.Is(err, invoice.ErrInvalidInvoice),
		errors.Is(err, extraction.ErrInvalidDocument):
		return http.StatusBadRequest
	case errors.Is(err, recipes.ErrRecipeNotFound):
		return http.StatusNotFound
	case errors.Is(err, extraction.ErrExtractionFailed):
		return http.StatusBadGateway
	case errors.Is(err, recipes.ErrPersistence),
		errors.Is(err, extraction.ErrExtractionDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes {"error": "..."} and logs server-side failures.
func abortWithError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	} else {
		logger.Warn("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
