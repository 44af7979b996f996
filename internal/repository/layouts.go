package repository

import (
	"context"
	"database/sql"

	"dunefest/internal/database"
	"dunefest/internal/models"
)

type LayoutRepository struct {
	db *database.DB
}

func NewLayoutRepository(db *database.DB) *LayoutRepository {
	return &LayoutRepository{db: db}
}

// Get returns the seating canvas document for an event, nil when none has
// been saved yet.
func (r *LayoutRepository) Get(ctx context.Context, eventID int64) (*models.SeatingLayout, error) {
	query := `SELECT event_id, document, updated_at FROM seating_layouts WHERE event_id = $1`

	layout := &models.SeatingLayout{}
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&layout.EventID,
		&layout.Document,
		&layout.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return layout, nil
}

// Save stores the document as-is; the canvas blob is opaque to the API.
func (r *LayoutRepository) Save(ctx context.Context, layout *models.SeatingLayout) error {
	query := `
		INSERT INTO seating_layouts (event_id, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (event_id) DO UPDATE
		SET document = EXCLUDED.document, updated_at = NOW()
		RETURNING updated_at`

	return r.db.QueryRowContext(ctx, query,
		layout.EventID,
		layout.Document,
	).Scan(&layout.UpdatedAt)
}
