package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dunefest/internal/cache"
	apperrors "dunefest/internal/errors"
	"dunefest/internal/metrics"
	"dunefest/internal/service"
)

type Handlers struct {
	services     *service.Services
	valkeyClient *cache.ValkeyClient
	metrics      *metrics.Metrics
}

func NewHandlers(services *service.Services, valkeyClient *cache.ValkeyClient, m *metrics.Metrics) *Handlers {
	return &Handlers{
		services:     services,
		valkeyClient: valkeyClient,
		metrics:      m,
	}
}

// handleServiceError maps domain errors to HTTP status codes. Anything not
// recognized is a 500 with the detail kept out of the response body.
func (h *Handlers) handleServiceError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrInvalidSelection):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrRegistrationClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Registration is closed"})
	case errors.Is(err, apperrors.ErrNoCurrentEvent):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No current event"})
	case errors.Is(err, apperrors.ErrWorkshopFull):
		c.JSON(http.StatusConflict, gin.H{"error": "Workshop is full"})
	default:
		slog.Error(logMsg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": logMsg})
	}
}
