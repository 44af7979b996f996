package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "dunefest/internal/errors"
	"dunefest/internal/logger"
	"dunefest/internal/messaging"
	"dunefest/internal/models"
	"dunefest/internal/repository"
)

type EventService struct {
	eventRepo  *repository.EventRepository
	catalog    *CatalogService
	natsClient *messaging.NATSClient
}

func NewEventService(eventRepo *repository.EventRepository, catalog *CatalogService, natsClient *messaging.NATSClient) *EventService {
	return &EventService{
		eventRepo:  eventRepo,
		catalog:    catalog,
		natsClient: natsClient,
	}
}

func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.CreateEventResponse, error) {
	event := &models.Event{
		Name:                  req.Name,
		Year:                  req.Year,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		RegistrationOpenDate:  req.RegistrationOpenDate,
		RegistrationCloseDate: req.RegistrationCloseDate,
		Venue:                 req.Venue,
		IsActive:              true,
	}
	if req.IsActive != nil {
		event.IsActive = req.IsActive.Bool()
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &models.CreateEventResponse{ID: event.ID}, nil
}

func (s *EventService) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}
	return event, nil
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *EventService) Update(ctx context.Context, id int64, req *models.CreateEventRequest) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return apperrors.ErrNotFound
	}

	event.Name = req.Name
	event.Year = req.Year
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	event.RegistrationOpenDate = req.RegistrationOpenDate
	event.RegistrationCloseDate = req.RegistrationCloseDate
	event.Venue = req.Venue
	if req.IsActive != nil {
		event.IsActive = req.IsActive.Bool()
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	// The current event is embedded in the catalog document.
	if event.IsCurrent {
		return s.catalog.Invalidate(ctx, "events")
	}
	return nil
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// SetCurrent flips the current flag to the given event. At most one event is
// current at any time; the repository enforces the swap transactionally.
func (s *EventService) SetCurrent(ctx context.Context, id int64) error {
	if err := s.eventRepo.SetCurrent(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to set current event: %w", err)
	}

	event := models.EventCurrentChangedEvent{
		EventID:   id,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.SubjectEventCurrentChanged, event); err != nil {
		logger.Get().Error("Failed to publish current event change",
			"error", err,
			"event_id", id)
	}

	return s.catalog.Invalidate(ctx, "events")
}
