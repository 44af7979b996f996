package repository

import (
	"context"
	"database/sql"

	"dunefest/internal/database"
	apperrors "dunefest/internal/errors"
	"dunefest/internal/models"
)

type WorkshopRepository struct {
	db *database.DB
}

func NewWorkshopRepository(db *database.DB) *WorkshopRepository {
	return &WorkshopRepository{db: db}
}

const workshopColumns = `id, title, level, capacity, enrolled, price, created_at, updated_at`

func scanWorkshop(row interface{ Scan(...interface{}) error }) (*models.Workshop, error) {
	w := &models.Workshop{}
	err := row.Scan(
		&w.ID,
		&w.Title,
		&w.Level,
		&w.Capacity,
		&w.Enrolled,
		&w.Price,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WorkshopRepository) List(ctx context.Context) ([]models.Workshop, error) {
	query := `SELECT ` + workshopColumns + ` FROM workshops ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workshops []models.Workshop
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, err
		}
		workshops = append(workshops, *w)
	}

	return workshops, rows.Err()
}

func (r *WorkshopRepository) GetByID(ctx context.Context, id string) (*models.Workshop, error) {
	query := `SELECT ` + workshopColumns + ` FROM workshops WHERE id = $1`

	w, err := scanWorkshop(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

func (r *WorkshopRepository) Upsert(ctx context.Context, w *models.Workshop) error {
	query := `
		INSERT INTO workshops (id, title, level, capacity, price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    level = EXCLUDED.level,
		    capacity = EXCLUDED.capacity,
		    price = EXCLUDED.price,
		    updated_at = NOW()
		RETURNING enrolled, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		w.ID,
		w.Title,
		w.Level,
		w.Capacity,
		w.Price,
	).Scan(&w.Enrolled, &w.CreatedAt, &w.UpdatedAt)
}

func (r *WorkshopRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM workshops WHERE id = $1`, id)
	return err
}

// Enroll increments the enrolled counter inside tx, guarded by capacity.
// Returns ErrWorkshopFull when no spots are left and ErrNotFound for an
// unknown id.
func (r *WorkshopRepository) Enroll(ctx context.Context, tx *sql.Tx, id string) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE workshops SET enrolled = enrolled + 1, updated_at = NOW()
		 WHERE id = $1 AND enrolled < capacity`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Distinguish a full workshop from a missing one.
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM workshops WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrWorkshopFull
}

// Release decrements the enrolled counter, clamped at zero. Used when a
// pending registration expires or is cancelled.
func (r *WorkshopRepository) Release(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE workshops SET enrolled = GREATEST(enrolled - 1, 0), updated_at = NOW()
		 WHERE id = $1`, id)
	return err
}
