package repository

import (
	"context"
	"database/sql"

	"dunefest/internal/database"
	"dunefest/internal/models"
)

type AdminRepository struct {
	db *database.DB
}

func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByEmail resolves a bearer-token subject to an operator row.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := `SELECT id, email, is_active, created_at FROM admin_users WHERE email = $1`

	admin := &models.AdminUser{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.IsActive,
		&admin.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, is_active)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET is_active = EXCLUDED.is_active
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query, admin.Email, admin.IsActive).
		Scan(&admin.ID, &admin.CreatedAt)
}
