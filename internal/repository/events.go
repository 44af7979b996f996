package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dunefest/internal/database"
	"dunefest/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, name, year, start_date, end_date, registration_open_date,
	registration_close_date, venue, is_active, is_current, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Year,
		&event.StartDate,
		&event.EndDate,
		&event.RegistrationOpenDate,
		&event.RegistrationCloseDate,
		&event.Venue,
		&event.IsActive,
		&event.IsCurrent,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (name, year, start_date, end_date, registration_open_date,
			registration_close_date, venue, is_active, is_current)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Year,
		event.StartDate,
		event.EndDate,
		event.RegistrationOpenDate,
		event.RegistrationCloseDate,
		event.Venue,
		event.IsActive,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return event, err
}

// GetCurrent returns the active event flagged as current, nil when none is.
func (r *EventRepository) GetCurrent(ctx context.Context) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE is_current = TRUE AND is_active = TRUE`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return event, err
}

func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY year DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	return events, rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET name = $1, year = $2, start_date = $3, end_date = $4,
		    registration_open_date = $5, registration_close_date = $6,
		    venue = $7, is_active = $8, updated_at = $9
		WHERE id = $10`

	event.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		event.Name,
		event.Year,
		event.StartDate,
		event.EndDate,
		event.RegistrationOpenDate,
		event.RegistrationCloseDate,
		event.Venue,
		event.IsActive,
		event.UpdatedAt,
		event.ID,
	)

	return err
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

// SetCurrent flips the current flag to the given event. The clear and the
// set happen in one transaction so there is never a moment with two current
// events, and the target must be active.
func (r *EventRepository) SetCurrent(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE events SET is_current = FALSE, updated_at = NOW() WHERE is_current = TRUE`); err != nil {
		return fmt.Errorf("failed to clear current flag: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE events SET is_current = TRUE, updated_at = NOW() WHERE id = $1 AND is_active = TRUE`, id)
	if err != nil {
		return fmt.Errorf("failed to set current flag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}
