package jobs

import (
	"context"
	"log/slog"
	"time"

	"dunefest/internal/messaging"
	"dunefest/internal/models"
	"dunefest/internal/repository"
)

// RegistrationExpirationJob cancels registrations whose payment never
// arrived and returns their workshop seats to the pool.
type RegistrationExpirationJob struct {
	registrationRepo *repository.RegistrationRepository
	workshopRepo     *repository.WorkshopRepository
	natsClient       *messaging.NATSClient
	expiry           time.Duration
	ticker           *time.Ticker
	done             chan bool
}

func NewRegistrationExpirationJob(registrationRepo *repository.RegistrationRepository, workshopRepo *repository.WorkshopRepository, natsClient *messaging.NATSClient, expiry time.Duration) *RegistrationExpirationJob {
	return &RegistrationExpirationJob{
		registrationRepo: registrationRepo,
		workshopRepo:     workshopRepo,
		natsClient:       natsClient,
		expiry:           expiry,
		done:             make(chan bool),
	}
}

// Start begins the background job that checks for expired registrations
// every 30 seconds.
func (j *RegistrationExpirationJob) Start(ctx context.Context) {
	slog.Info("Starting registration expiration job", "check_interval", "30s", "timeout", j.expiry)

	j.ticker = time.NewTicker(30 * time.Second)

	go j.checkExpired(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.checkExpired(ctx)
			case <-j.done:
				slog.Info("Registration expiration job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job
func (j *RegistrationExpirationJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *RegistrationExpirationJob) checkExpired(ctx context.Context) {
	cutoff := time.Now().Add(-j.expiry)

	expired, err := j.registrationRepo.GetExpired(ctx, cutoff)
	if err != nil {
		slog.Error("Failed to get expired registrations", "error", err)
		return
	}

	if len(expired) == 0 {
		slog.Debug("No expired registrations found")
		return
	}

	slog.Info("Found expired registrations to process", "count", len(expired))

	for i := range expired {
		reg := &expired[i]
		if err := j.expire(ctx, reg); err != nil {
			slog.Error("Failed to expire registration",
				"error", err,
				"registration_id", reg.ID,
				"created_at", reg.CreatedAt)
		} else {
			slog.Info("Expired registration",
				"registration_id", reg.ID,
				"elapsed_time", time.Since(reg.CreatedAt).String())
		}
	}
}

// expire cancels one registration and releases its workshop seats.
func (j *RegistrationExpirationJob) expire(ctx context.Context, reg *models.Registration) error {
	reg.PaymentStatus = models.PaymentStatusCancelled
	if err := j.registrationRepo.UpdatePayment(ctx, reg); err != nil {
		return err
	}

	for _, workshopID := range reg.WorkshopIDs {
		if err := j.workshopRepo.Release(ctx, workshopID); err != nil {
			slog.Error("Failed to release workshop seat during expiration",
				"error", err,
				"workshop_id", workshopID,
				"registration_id", reg.ID)
		}
	}

	event := models.RegistrationCancelledEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		Reason:         "payment window exceeded",
		Timestamp:      time.Now(),
	}
	if err := j.natsClient.Publish(models.SubjectRegistrationCancelled, event); err != nil {
		slog.Error("Failed to publish registration cancelled event",
			"error", err,
			"registration_id", reg.ID)
	}

	return nil
}
