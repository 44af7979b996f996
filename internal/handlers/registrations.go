package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "dunefest/internal/errors"
	"dunefest/internal/models"
)

// Quote - POST /api/registrations/quote
// Prices an in-progress selection. Advisory only; the submit endpoint
// recomputes the total against whatever catalog snapshot is live then.
func (h *Handlers) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Registrations.Quote(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to compute quote")
		return
	}

	if h.metrics != nil {
		h.metrics.QuotesTotal.Inc()
	}

	c.JSON(http.StatusOK, response)
}

// SubmitRegistration - POST /api/registrations
func (h *Handlers) SubmitRegistration(c *gin.Context) {
	var req models.SubmitRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Registrations.Submit(c.Request.Context(), &req)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RegistrationsTotal.WithLabelValues(submitOutcome(err)).Inc()
		}
		h.handleServiceError(c, err, "Failed to submit registration")
		return
	}

	if h.metrics != nil {
		h.metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	}

	c.JSON(http.StatusCreated, response)
}

func submitOutcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidSelection):
		return "invalid"
	case errors.Is(err, apperrors.ErrRegistrationClosed), errors.Is(err, apperrors.ErrNoCurrentEvent):
		return "closed"
	case errors.Is(err, apperrors.ErrWorkshopFull):
		return "workshop_full"
	default:
		return "error"
	}
}

// GetRegistration - GET /api/registrations/:id
func (h *Handlers) GetRegistration(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
		return
	}

	reg, err := h.services.Registrations.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get registration")
		return
	}

	c.JSON(http.StatusOK, reg)
}

// GetRegistrationQR - GET /api/registrations/:id/qr
// The check-in code as a PNG. Encodes the opaque reference.
func (h *Handlers) GetRegistrationQR(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
		return
	}

	png, err := h.services.Registrations.QRCode(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Failed to generate QR code")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// InitiatePayment - POST /api/registrations/:id/payment
// Starts a gateway payment and returns the hosted payment page URL.
func (h *Handlers) InitiatePayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
		return
	}

	paymentURL, err := h.services.Registrations.InitiatePayment(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Failed to initiate payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_url": paymentURL})
}

// OnPaymentUpdates - POST /api/payments/notifications
// Webhook receiver for the payment gateway.
func (h *Handlers) OnPaymentUpdates(c *gin.Context) {
	var notification models.PaymentNotificationPayload
	if err := c.ShouldBindJSON(&notification); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Registrations.HandlePaymentNotification(c.Request.Context(), &notification); err != nil {
		h.handleServiceError(c, err, "Failed to handle payment notification")
		return
	}

	c.Status(http.StatusOK)
}

// NotifyPaymentCompleted - GET /api/payments/success
// Browser return URL from the hosted payment page. The webhook is the
// authoritative signal; this drives the same transition so a registration
// does not stay pending when the webhook is delayed.
func (h *Handlers) NotifyPaymentCompleted(c *gin.Context) {
	orderID := c.Query("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}

	notification := &models.PaymentNotificationPayload{OrderID: orderID, Status: "COMPLETED"}
	if err := h.services.Registrations.HandlePaymentNotification(c.Request.Context(), notification); err != nil {
		h.handleServiceError(c, err, "Failed to record payment success")
		return
	}

	c.Status(http.StatusOK)
}

// NotifyPaymentFailed - GET /api/payments/fail
func (h *Handlers) NotifyPaymentFailed(c *gin.Context) {
	orderID := c.Query("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}

	notification := &models.PaymentNotificationPayload{OrderID: orderID, Status: "FAILED"}
	if err := h.services.Registrations.HandlePaymentNotification(c.Request.Context(), notification); err != nil {
		h.handleServiceError(c, err, "Failed to record payment failure")
		return
	}

	c.Status(http.StatusOK)
}

// SearchRegistrations - GET /api/admin/registrations
// Admin dashboard search backed by the registrations index.
func (h *Handlers) SearchRegistrations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 100"})
		return
	}

	response, err := h.services.Registrations.Search(c.Request.Context(),
		c.Query("query"),
		c.Query("package_type"),
		c.Query("payment_status"),
		page, pageSize)
	if err != nil {
		h.handleServiceError(c, err, "Failed to search registrations")
		return
	}

	c.JSON(http.StatusOK, response)
}
