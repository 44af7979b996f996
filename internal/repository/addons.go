package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"dunefest/internal/database"
	"dunefest/internal/models"
	"dunefest/internal/pricing"
)

type AddonRepository struct {
	db *database.DB
}

func NewAddonRepository(db *database.DB) *AddonRepository {
	return &AddonRepository{db: db}
}

const addonColumns = `id, name, price, description, kind, sizes, icon, created_at, updated_at`

func scanAddon(row interface{ Scan(...interface{}) error }) (*models.Addon, error) {
	a := &models.Addon{}
	var sizesRaw []byte
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Price,
		&a.Description,
		&a.Kind,
		&sizesRaw,
		&a.Icon,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(sizesRaw) > 0 {
		if err := json.Unmarshal(sizesRaw, &a.Sizes); err != nil {
			return nil, fmt.Errorf("failed to decode sizes for addon %s: %w", a.ID, err)
		}
	}
	// Legacy rows may predate the kind column default; resolve the tag once
	// on the way out so nothing downstream sniffs schemas.
	a.Kind = string(pricing.ResolveAddonKind(a.Kind, a.Sizes))
	return a, nil
}

func (r *AddonRepository) List(ctx context.Context) ([]models.Addon, error) {
	query := `SELECT ` + addonColumns + ` FROM addons ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addons []models.Addon
	for rows.Next() {
		addon, err := scanAddon(rows)
		if err != nil {
			return nil, err
		}
		addons = append(addons, *addon)
	}

	return addons, rows.Err()
}

func (r *AddonRepository) GetByID(ctx context.Context, id string) (*models.Addon, error) {
	query := `SELECT ` + addonColumns + ` FROM addons WHERE id = $1`

	addon, err := scanAddon(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return addon, err
}

func (r *AddonRepository) Upsert(ctx context.Context, a *models.Addon) error {
	sizes := a.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	sizesRaw, err := json.Marshal(sizes)
	if err != nil {
		return fmt.Errorf("failed to encode sizes: %w", err)
	}

	query := `
		INSERT INTO addons (id, name, price, description, kind, sizes, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    price = EXCLUDED.price,
		    description = EXCLUDED.description,
		    kind = EXCLUDED.kind,
		    sizes = EXCLUDED.sizes,
		    icon = EXCLUDED.icon,
		    updated_at = NOW()
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		a.ID,
		a.Name,
		a.Price,
		a.Description,
		a.Kind,
		sizesRaw,
		a.Icon,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *AddonRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM addons WHERE id = $1`, id)
	return err
}
