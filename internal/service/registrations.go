package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "dunefest/internal/errors"
	"dunefest/internal/external"
	"dunefest/internal/logger"
	"dunefest/internal/messaging"
	"dunefest/internal/models"
	"dunefest/internal/pricing"
	"dunefest/internal/qr"
	"dunefest/internal/repository"
	"dunefest/internal/search"
)

type RegistrationService struct {
	registrationRepo *repository.RegistrationRepository
	workshopRepo     *repository.WorkshopRepository
	catalog          *CatalogService
	paymentClient    *external.PaymentClient
	esClient         *search.ElasticsearchClient
	natsClient       *messaging.NATSClient
	qrGenerator      *qr.Generator
}

func NewRegistrationService(repos *repository.Repositories, catalog *CatalogService, paymentClient *external.PaymentClient, esClient *search.ElasticsearchClient, natsClient *messaging.NATSClient) *RegistrationService {
	return &RegistrationService{
		registrationRepo: repos.Registrations,
		workshopRepo:     repos.Workshops,
		catalog:          catalog,
		paymentClient:    paymentClient,
		esClient:         esClient,
		natsClient:       natsClient,
		qrGenerator:      qr.NewGenerator(256),
	}
}

// Quote prices an in-progress selection against the current snapshot. The
// result is advisory; submission recomputes from whatever snapshot is
// current at that moment.
func (s *RegistrationService) Quote(ctx context.Context, req *models.QuoteRequest) (*models.QuoteResponse, error) {
	snap := s.catalog.Snapshot()
	if snap == nil {
		return nil, apperrors.ErrNoCurrentEvent
	}

	sel := req.Selection()
	if !sel.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrInvalidSelection, req.Role)
	}
	sel.NormalizeTransport(snap)

	quote := pricing.Compute(snap, sel, time.Now())

	return &models.QuoteResponse{
		Quote:      quote,
		CanAdvance: sel.CanAdvanceSeating(),
		TakenAt:    snap.TakenAt,
	}, nil
}

// Submit validates the final selection, prices it authoritatively against
// the live snapshot and freezes the result. Client-side totals are never
// trusted. The insert and every workshop enrollment commit together or not
// at all.
func (s *RegistrationService) Submit(ctx context.Context, req *models.SubmitRegistrationRequest) (*models.SubmitRegistrationResponse, error) {
	event := s.catalog.CurrentEvent()
	if event == nil {
		return nil, apperrors.ErrNoCurrentEvent
	}
	now := time.Now()
	if !event.RegistrationOpen(now) {
		return nil, apperrors.ErrRegistrationClosed
	}

	snap := s.catalog.Snapshot()
	if snap == nil {
		return nil, apperrors.ErrNoCurrentEvent
	}

	sel := req.Selection()
	sel.NormalizeTransport(snap)
	if err := s.validateSubmission(req, sel, snap); err != nil {
		return nil, err
	}

	quote := pricing.Compute(snap, sel, now)

	var wantsWorkshops *bool
	switch sel.Workshops {
	case pricing.ChoiceWants:
		v := true
		wantsWorkshops = &v
	case pricing.ChoiceDeclines:
		v := false
		wantsWorkshops = &v
	}

	reg := &models.Registration{
		EventID:        event.ID,
		Role:           string(sel.Role),
		PackageType:    string(sel.PackageType),
		LeaderInfo:     req.LeaderInfo,
		FollowerInfo:   req.FollowerInfo,
		Addons:         addonLines(sel),
		SizedAddons:    sizedLines(sel),
		TableNumber:    sel.TableNumber,
		WantsWorkshops: wantsWorkshops,
		WorkshopIDs:    sel.WorkshopIDs,
		AddonsTotal:    quote.AddonsTotal,
		SeatCharge:     quote.SeatCharge,
		TotalAmount:    quote.Total,
		PaymentStatus:  models.PaymentStatusPending,
	}
	if req.PaymentMethod != "" {
		reg.PaymentMethod = &req.PaymentMethod
	}

	tx, err := s.registrationRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.registrationRepo.CreateTx(ctx, tx, reg); err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	for _, workshopID := range sel.WorkshopIDs {
		if err := s.workshopRepo.Enroll(ctx, tx, workshopID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	created := models.RegistrationCreatedEvent{
		RegistrationID: reg.ID,
		Reference:      reg.Reference,
		EventID:        reg.EventID,
		PackageType:    reg.PackageType,
		Role:           reg.Role,
		TotalAmount:    reg.TotalAmount,
		Timestamp:      time.Now(),
	}
	if err := s.natsClient.Publish(models.SubjectRegistrationCreated, created); err != nil {
		logger.WithRegistration(reg.ID).Error("Failed to publish registration created event",
			"error", err)
	}

	return &models.SubmitRegistrationResponse{
		ID:        reg.ID,
		Reference: reg.Reference,
		Quote:     quote,
	}, nil
}

func (s *RegistrationService) validateSubmission(req *models.SubmitRegistrationRequest, sel *pricing.Selection, snap *pricing.Snapshot) error {
	if !sel.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrInvalidSelection, req.Role)
	}

	switch sel.Role {
	case pricing.RoleCouple:
		if req.LeaderInfo == nil || req.FollowerInfo == nil {
			return fmt.Errorf("%w: couple registration needs both leader and follower info", apperrors.ErrInvalidSelection)
		}
	case pricing.RoleLeader:
		if req.LeaderInfo == nil {
			return fmt.Errorf("%w: missing leader info", apperrors.ErrInvalidSelection)
		}
	case pricing.RoleFollower:
		if req.FollowerInfo == nil {
			return fmt.Errorf("%w: missing follower info", apperrors.ErrInvalidSelection)
		}
	}

	if !sel.CanAdvanceSeating() {
		return fmt.Errorf("%w: seating step incomplete", apperrors.ErrInvalidSelection)
	}

	// Workshop picks are only meaningful behind an affirmed evening gate.
	if len(sel.WorkshopIDs) > 0 {
		if sel.PackageType != pricing.PackageEvening || sel.Workshops != pricing.ChoiceWants {
			return fmt.Errorf("%w: workshop picks without an affirmed workshop choice", apperrors.ErrInvalidSelection)
		}
		for _, id := range sel.WorkshopIDs {
			if _, ok := snap.Workshop(id); !ok {
				return fmt.Errorf("%w: unknown workshop %q", apperrors.ErrInvalidSelection, id)
			}
		}
	}

	if sel.TableNumber != nil {
		if _, ok := snap.Table(*sel.TableNumber); !ok {
			return fmt.Errorf("%w: unknown table %d", apperrors.ErrInvalidSelection, *sel.TableNumber)
		}
	}

	return nil
}

func addonLines(sel *pricing.Selection) []models.AddonLine {
	lines := make([]models.AddonLine, len(sel.Addons))
	for i, a := range sel.Addons {
		lines[i] = models.AddonLine{AddonID: a.AddonID, Quantity: a.Quantity, Options: a.Options}
	}
	return lines
}

func sizedLines(sel *pricing.Selection) []models.SizedAddonLine {
	lines := make([]models.SizedAddonLine, len(sel.Sized))
	for i, sz := range sel.Sized {
		lines[i] = models.SizedAddonLine{AddonID: sz.AddonID, Size: sz.Size, Quantity: sz.Quantity}
	}
	return lines
}

func (s *RegistrationService) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	if reg == nil {
		return nil, apperrors.ErrNotFound
	}
	return reg, nil
}

// QRCode renders the check-in code for a registration as a PNG.
func (s *RegistrationService) QRCode(ctx context.Context, id int64) ([]byte, error) {
	reg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.qrGenerator.RegistrationPNG(reg.Reference)
}

// InitiatePayment starts a gateway payment for a pending registration and
// returns the hosted payment page URL.
func (s *RegistrationService) InitiatePayment(ctx context.Context, id int64) (string, error) {
	reg, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if reg.PaymentStatus != models.PaymentStatusPending {
		return "", fmt.Errorf("%w: registration %d is %s", apperrors.ErrInvalidSelection, id, reg.PaymentStatus)
	}

	orderID := uuid.New().String()
	email := contactEmail(reg)
	description := fmt.Sprintf("Festival registration %s", reg.Reference)

	paymentResp, err := s.paymentClient.InitPayment(ctx, reg.TotalAmount, orderID, email, description, "")
	if err != nil {
		return "", fmt.Errorf("failed to initialize payment: %w", err)
	}

	reg.PaymentStatus = models.PaymentStatusInitiated
	reg.PaymentID = &paymentResp.PaymentID
	reg.OrderID = &orderID

	if err := s.registrationRepo.UpdatePayment(ctx, reg); err != nil {
		return "", fmt.Errorf("failed to update registration: %w", err)
	}

	initiated := models.PaymentInitiatedEvent{
		RegistrationID: reg.ID,
		TotalAmount:    reg.TotalAmount,
		PaymentID:      paymentResp.PaymentID,
		Timestamp:      time.Now(),
	}
	if err := s.natsClient.Publish(models.SubjectPaymentInitiated, initiated); err != nil {
		logger.WithRegistration(reg.ID).Error("Failed to publish payment initiated event",
			"error", err)
	}

	return paymentResp.PaymentURL, nil
}

func contactEmail(reg *models.Registration) string {
	if reg.LeaderInfo != nil && reg.LeaderInfo.Email != "" {
		return reg.LeaderInfo.Email
	}
	if reg.FollowerInfo != nil {
		return reg.FollowerInfo.Email
	}
	return ""
}

// HandlePaymentNotification applies a gateway callback. Completed payments
// finalize the registration; failures release any workshop seats so they go
// back into the pool.
func (s *RegistrationService) HandlePaymentNotification(ctx context.Context, notification *models.PaymentNotificationPayload) error {
	reg, err := s.registrationRepo.GetByOrderID(ctx, notification.OrderID)
	if err != nil {
		return fmt.Errorf("failed to look up registration: %w", err)
	}
	if reg == nil {
		return apperrors.ErrNotFound
	}

	switch strings.ToUpper(notification.Status) {
	case "COMPLETED", "CONFIRMED":
		reg.PaymentStatus = models.PaymentStatusCompleted
		if err := s.registrationRepo.UpdatePayment(ctx, reg); err != nil {
			return fmt.Errorf("failed to update registration: %w", err)
		}

		completed := models.PaymentCompletedEvent{
			RegistrationID: reg.ID,
			PaymentID:      notification.PaymentID,
			OrderID:        notification.OrderID,
			Timestamp:      time.Now(),
		}
		if err := s.natsClient.Publish(models.SubjectPaymentCompleted, completed); err != nil {
			logger.WithRegistration(reg.ID).Error("Failed to publish payment completed event",
				"error", err)
		}

	case "FAILED", "REJECTED", "CANCELLED":
		reg.PaymentStatus = models.PaymentStatusFailed
		if err := s.registrationRepo.UpdatePayment(ctx, reg); err != nil {
			return fmt.Errorf("failed to update registration: %w", err)
		}

		s.releaseWorkshops(ctx, reg)

		failed := models.PaymentFailedEvent{
			RegistrationID: reg.ID,
			PaymentID:      notification.PaymentID,
			OrderID:        notification.OrderID,
			Reason:         notification.Status,
			Timestamp:      time.Now(),
		}
		if err := s.natsClient.Publish(models.SubjectPaymentFailed, failed); err != nil {
			logger.WithRegistration(reg.ID).Error("Failed to publish payment failed event",
				"error", err)
		}

	default:
		logger.WithRegistration(reg.ID).Warn("Ignoring payment notification with unknown status",
			"status", notification.Status)
	}

	return nil
}

func (s *RegistrationService) releaseWorkshops(ctx context.Context, reg *models.Registration) {
	for _, workshopID := range reg.WorkshopIDs {
		if err := s.workshopRepo.Release(ctx, workshopID); err != nil {
			logger.WithRegistration(reg.ID).Error("Failed to release workshop seat",
				"error", err,
				"workshop_id", workshopID)
		}
	}
}

// Search serves the admin dashboard registration search from the index.
func (s *RegistrationService) Search(ctx context.Context, query, packageType, paymentStatus string, page, pageSize int) (*models.RegistrationSearchResponse, error) {
	if s.esClient == nil {
		return nil, fmt.Errorf("search is not configured")
	}

	total, docs, err := s.esClient.Search(ctx, query, packageType, paymentStatus, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	items := make([]models.RegistrationSearchItem, len(docs))
	for i, doc := range docs {
		items[i] = models.RegistrationSearchItem{
			ID:            doc.ID,
			Reference:     doc.Reference,
			Role:          doc.Role,
			PackageType:   doc.PackageType,
			LeaderName:    doc.LeaderName,
			FollowerName:  doc.FollowerName,
			Email:         doc.Email,
			TotalAmount:   doc.TotalAmount,
			PaymentStatus: doc.PaymentStatus,
			CreatedAt:     doc.CreatedAt,
		}
	}

	return &models.RegistrationSearchResponse{Total: total, Items: items}, nil
}
