package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dunefest/internal/models"
)

// Admin catalog management. Every mutation refreshes the catalog snapshot
// before returning, so the next quote already prices against the new data.

// CreateEvent - POST /api/admin/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Events.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListEvents - GET /api/admin/events
func (h *Handlers) ListEvents(c *gin.Context) {
	events, err := h.services.Events.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to list events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent - GET /api/admin/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.services.Events.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get event")
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEvent - PUT /api/admin/events/:id
func (h *Handlers) UpdateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Events.Update(c.Request.Context(), id, &req); err != nil {
		h.handleServiceError(c, err, "Failed to update event")
		return
	}

	c.Status(http.StatusOK)
}

// DeleteEvent - DELETE /api/admin/events/:id
func (h *Handlers) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.services.Events.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "Failed to delete event")
		return
	}

	c.Status(http.StatusOK)
}

// SetCurrentEvent - POST /api/admin/events/:id/current
// Flips the single current-event flag. The previous current event loses the
// flag in the same transaction.
func (h *Handlers) SetCurrentEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.services.Events.SetCurrent(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "Failed to set current event")
		return
	}

	c.Status(http.StatusOK)
}

// UpsertTable - PUT /api/admin/tables
func (h *Handlers) UpsertTable(c *gin.Context) {
	var req models.UpsertTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table := &models.GalaTable{
		TableNumber:      req.TableNumber,
		Price:            req.Price,
		EarlyBirdPrice:   req.EarlyBirdPrice,
		EarlyBirdEndDate: req.EarlyBirdEndDate,
		Seats:            req.Seats,
	}

	if err := h.services.Catalog.UpsertTable(c.Request.Context(), table); err != nil {
		h.handleServiceError(c, err, "Failed to upsert table")
		return
	}

	c.JSON(http.StatusOK, table)
}

// DeleteTable - DELETE /api/admin/tables/:number
func (h *Handlers) DeleteTable(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table number"})
		return
	}

	if err := h.services.Catalog.DeleteTable(c.Request.Context(), number); err != nil {
		h.handleServiceError(c, err, "Failed to delete table")
		return
	}

	c.Status(http.StatusOK)
}

// UpsertAddon - PUT /api/admin/addons
func (h *Handlers) UpsertAddon(c *gin.Context) {
	var req models.UpsertAddonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addon := &models.Addon{
		ID:          req.ID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Kind:        req.Kind,
		Sizes:       req.Sizes,
		Icon:        req.Icon,
	}

	if err := h.services.Catalog.UpsertAddon(c.Request.Context(), addon); err != nil {
		h.handleServiceError(c, err, "Failed to upsert addon")
		return
	}

	c.JSON(http.StatusOK, addon)
}

// DeleteAddon - DELETE /api/admin/addons/:id
func (h *Handlers) DeleteAddon(c *gin.Context) {
	if err := h.services.Catalog.DeleteAddon(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to delete addon")
		return
	}

	c.Status(http.StatusOK)
}

// UpsertWorkshop - PUT /api/admin/workshops
func (h *Handlers) UpsertWorkshop(c *gin.Context) {
	var req models.UpsertWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workshop := &models.Workshop{
		ID:       req.ID,
		Title:    req.Title,
		Level:    req.Level,
		Capacity: req.Capacity,
		Price:    req.Price,
	}

	if err := h.services.Catalog.UpsertWorkshop(c.Request.Context(), workshop); err != nil {
		h.handleServiceError(c, err, "Failed to upsert workshop")
		return
	}

	c.JSON(http.StatusOK, workshop)
}

// DeleteWorkshop - DELETE /api/admin/workshops/:id
func (h *Handlers) DeleteWorkshop(c *gin.Context) {
	if err := h.services.Catalog.DeleteWorkshop(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to delete workshop")
		return
	}

	c.Status(http.StatusOK)
}

// UpdatePackage - PUT /api/admin/packages/:id
// Reprices a package. Existing registrations keep their frozen totals; only
// new quotes see the change.
func (h *Handlers) UpdatePackage(c *gin.Context) {
	var req models.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg := &models.Package{
		ID:          c.Param("id"),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
	}
	if pkg.Name == "" {
		pkg.Name = pkg.ID
	}

	if err := h.services.Catalog.UpsertPackage(c.Request.Context(), pkg); err != nil {
		h.handleServiceError(c, err, "Failed to update package")
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// GetSeatingLayout - GET /api/admin/events/:id/layout
func (h *Handlers) GetSeatingLayout(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	layout, err := h.services.Layouts.Get(c.Request.Context(), eventID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get seating layout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":   layout.EventID,
		"document":   json.RawMessage(layout.Document),
		"updated_at": layout.UpdatedAt,
	})
}

// SaveSeatingLayout - PUT /api/admin/events/:id/layout
// Stores the canvas document verbatim; the server only requires valid JSON.
func (h *Handlers) SaveSeatingLayout(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req models.SeatingLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	layout, err := h.services.Layouts.Save(c.Request.Context(), eventID, req.Document)
	if err != nil {
		h.handleServiceError(c, err, "Failed to save seating layout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":   layout.EventID,
		"updated_at": layout.UpdatedAt,
	})
}
