package service

import (
	"context"
	"fmt"

	apperrors "dunefest/internal/errors"
	"dunefest/internal/models"
	"dunefest/internal/repository"
)

type LayoutService struct {
	layoutRepo *repository.LayoutRepository
	eventRepo  *repository.EventRepository
}

func NewLayoutService(layoutRepo *repository.LayoutRepository, eventRepo *repository.EventRepository) *LayoutService {
	return &LayoutService{
		layoutRepo: layoutRepo,
		eventRepo:  eventRepo,
	}
}

// Get returns the seating canvas document for an event.
func (s *LayoutService) Get(ctx context.Context, eventID int64) (*models.SeatingLayout, error) {
	layout, err := s.layoutRepo.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get layout: %w", err)
	}
	if layout == nil {
		return nil, apperrors.ErrNotFound
	}
	return layout, nil
}

// Save stores the canvas document verbatim. The handler has already checked
// it parses as JSON; beyond that the document is opaque to the server.
func (s *LayoutService) Save(ctx context.Context, eventID int64, document []byte) (*models.SeatingLayout, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}

	layout := &models.SeatingLayout{
		EventID:  eventID,
		Document: document,
	}
	if err := s.layoutRepo.Save(ctx, layout); err != nil {
		return nil, fmt.Errorf("failed to save layout: %w", err)
	}
	return layout, nil
}
