package repository

import (
	"context"
	"database/sql"

	"dunefest/internal/database"
	"dunefest/internal/models"
)

type TableRepository struct {
	db *database.DB
}

func NewTableRepository(db *database.DB) *TableRepository {
	return &TableRepository{db: db}
}

const tableColumns = `table_number, price, early_bird_price, early_bird_end_date, seats, created_at, updated_at`

func (r *TableRepository) List(ctx context.Context) ([]models.GalaTable, error) {
	query := `SELECT ` + tableColumns + ` FROM gala_tables ORDER BY table_number ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []models.GalaTable
	for rows.Next() {
		var t models.GalaTable
		err := rows.Scan(
			&t.TableNumber,
			&t.Price,
			&t.EarlyBirdPrice,
			&t.EarlyBirdEndDate,
			&t.Seats,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	return tables, rows.Err()
}

func (r *TableRepository) GetByNumber(ctx context.Context, number int) (*models.GalaTable, error) {
	query := `SELECT ` + tableColumns + ` FROM gala_tables WHERE table_number = $1`

	t := &models.GalaTable{}
	err := r.db.QueryRowContext(ctx, query, number).Scan(
		&t.TableNumber,
		&t.Price,
		&t.EarlyBirdPrice,
		&t.EarlyBirdEndDate,
		&t.Seats,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Upsert creates or replaces a table by number.
func (r *TableRepository) Upsert(ctx context.Context, t *models.GalaTable) error {
	query := `
		INSERT INTO gala_tables (table_number, price, early_bird_price, early_bird_end_date, seats)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (table_number) DO UPDATE
		SET price = EXCLUDED.price,
		    early_bird_price = EXCLUDED.early_bird_price,
		    early_bird_end_date = EXCLUDED.early_bird_end_date,
		    seats = EXCLUDED.seats,
		    updated_at = NOW()
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		t.TableNumber,
		t.Price,
		t.EarlyBirdPrice,
		t.EarlyBirdEndDate,
		t.Seats,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *TableRepository) Delete(ctx context.Context, number int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM gala_tables WHERE table_number = $1`, number)
	return err
}
