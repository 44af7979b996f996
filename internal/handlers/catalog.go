package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCatalog - GET /api/catalog
// The full catalog document the wizard loads once and refreshes on an
// interval: current event, packages, tables, addons and workshop
// availability, all stamped with the snapshot time.
func (h *Handlers) GetCatalog(c *gin.Context) {
	if h.valkeyClient != nil {
		rawJSON, err := h.valkeyClient.GetCatalogRaw(c.Request.Context())
		if err == nil {
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
		slog.Debug("Catalog cache miss", "error", err)
	}

	catalog := h.services.Catalog.Catalog()
	if catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog not loaded yet"})
		return
	}

	c.JSON(http.StatusOK, catalog)
}

// ListTables - GET /api/tables
func (h *Handlers) ListTables(c *gin.Context) {
	catalog := h.services.Catalog.Catalog()
	if catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog not loaded yet"})
		return
	}
	c.JSON(http.StatusOK, catalog.Tables)
}

// ListAddons - GET /api/addons
func (h *Handlers) ListAddons(c *gin.Context) {
	catalog := h.services.Catalog.Catalog()
	if catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog not loaded yet"})
		return
	}
	c.JSON(http.StatusOK, catalog.Addons)
}

// ListWorkshops - GET /api/workshops
// Workshops with derived spots_left and selectable flags.
func (h *Handlers) ListWorkshops(c *gin.Context) {
	catalog := h.services.Catalog.Catalog()
	if catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog not loaded yet"})
		return
	}
	c.JSON(http.StatusOK, catalog.Workshops)
}

// ListPackages - GET /api/packages
func (h *Handlers) ListPackages(c *gin.Context) {
	catalog := h.services.Catalog.Catalog()
	if catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog not loaded yet"})
		return
	}
	c.JSON(http.StatusOK, catalog.Packages)
}

// GetCurrentEvent - GET /api/events/current
func (h *Handlers) GetCurrentEvent(c *gin.Context) {
	event := h.services.Catalog.CurrentEvent()
	if event == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No current event"})
		return
	}
	c.JSON(http.StatusOK, event)
}
