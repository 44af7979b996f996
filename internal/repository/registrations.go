package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"dunefest/internal/database"
	"dunefest/internal/models"
)

type RegistrationRepository struct {
	db *database.DB
}

func NewRegistrationRepository(db *database.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Begin opens a transaction for submit-time writes (insert + workshop
// enrollment must land together).
func (r *RegistrationRepository) Begin(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

const registrationColumns = `id, reference, event_id, role, package_type, leader_info, follower_info,
	addons, sized_addons, table_number, wants_workshops, workshop_ids,
	addons_total, seat_charge, total_amount, payment_status, payment_method,
	payment_id, order_id, created_at, updated_at`

func scanRegistration(row interface{ Scan(...interface{}) error }) (*models.Registration, error) {
	reg := &models.Registration{}
	var leaderRaw, followerRaw, addonsRaw, sizedRaw, workshopsRaw []byte

	err := row.Scan(
		&reg.ID,
		&reg.Reference,
		&reg.EventID,
		&reg.Role,
		&reg.PackageType,
		&leaderRaw,
		&followerRaw,
		&addonsRaw,
		&sizedRaw,
		&reg.TableNumber,
		&reg.WantsWorkshops,
		&workshopsRaw,
		&reg.AddonsTotal,
		&reg.SeatCharge,
		&reg.TotalAmount,
		&reg.PaymentStatus,
		&reg.PaymentMethod,
		&reg.PaymentID,
		&reg.OrderID,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(leaderRaw) > 0 {
		if err := json.Unmarshal(leaderRaw, &reg.LeaderInfo); err != nil {
			return nil, fmt.Errorf("failed to decode leader info: %w", err)
		}
	}
	if len(followerRaw) > 0 {
		if err := json.Unmarshal(followerRaw, &reg.FollowerInfo); err != nil {
			return nil, fmt.Errorf("failed to decode follower info: %w", err)
		}
	}
	if err := json.Unmarshal(addonsRaw, &reg.Addons); err != nil {
		return nil, fmt.Errorf("failed to decode addons: %w", err)
	}
	if err := json.Unmarshal(sizedRaw, &reg.SizedAddons); err != nil {
		return nil, fmt.Errorf("failed to decode sized addons: %w", err)
	}
	if err := json.Unmarshal(workshopsRaw, &reg.WorkshopIDs); err != nil {
		return nil, fmt.Errorf("failed to decode workshop ids: %w", err)
	}

	return reg, nil
}

// CreateTx inserts the frozen registration inside tx.
func (r *RegistrationRepository) CreateTx(ctx context.Context, tx *sql.Tx, reg *models.Registration) error {
	leaderRaw, err := marshalNullable(reg.LeaderInfo)
	if err != nil {
		return err
	}
	followerRaw, err := marshalNullable(reg.FollowerInfo)
	if err != nil {
		return err
	}
	addonsRaw, err := json.Marshal(emptyIfNilAddons(reg.Addons))
	if err != nil {
		return err
	}
	sizedRaw, err := json.Marshal(emptyIfNilSized(reg.SizedAddons))
	if err != nil {
		return err
	}
	workshopsRaw, err := json.Marshal(emptyIfNilStrings(reg.WorkshopIDs))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO registrations (event_id, role, package_type, leader_info, follower_info,
			addons, sized_addons, table_number, wants_workshops, workshop_ids,
			addons_total, seat_charge, total_amount, payment_status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, reference, created_at, updated_at`

	return tx.QueryRowContext(ctx, query,
		reg.EventID,
		reg.Role,
		reg.PackageType,
		leaderRaw,
		followerRaw,
		addonsRaw,
		sizedRaw,
		reg.TableNumber,
		reg.WantsWorkshops,
		workshopsRaw,
		reg.AddonsTotal,
		reg.SeatCharge,
		reg.TotalAmount,
		reg.PaymentStatus,
		reg.PaymentMethod,
	).Scan(&reg.ID, &reg.Reference, &reg.CreatedAt, &reg.UpdatedAt)
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

func (r *RegistrationRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE order_id = $1`

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

// List pages through registrations in id order; used by the reindex tool.
func (r *RegistrationRepository) List(ctx context.Context, afterID int64, limit int) ([]models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id > $1 ORDER BY id ASC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}

	return regs, rows.Err()
}

// GetExpired returns registrations stuck PENDING since before the cutoff.
func (r *RegistrationRepository) GetExpired(ctx context.Context, cutoff time.Time) ([]models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE payment_status = $1 AND created_at < $2
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, models.PaymentStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}

	return regs, rows.Err()
}

// UpdatePayment writes the payment fields; everything else in the row is
// frozen at submission.
func (r *RegistrationRepository) UpdatePayment(ctx context.Context, reg *models.Registration) error {
	query := `
		UPDATE registrations
		SET payment_status = $1, payment_method = $2, payment_id = $3, order_id = $4, updated_at = $5
		WHERE id = $6`

	reg.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		reg.PaymentStatus,
		reg.PaymentMethod,
		reg.PaymentID,
		reg.OrderID,
		reg.UpdatedAt,
		reg.ID,
	)

	return err
}

func marshalNullable(info *models.PersonInfo) ([]byte, error) {
	if info == nil {
		return nil, nil
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to encode person info: %w", err)
	}
	return raw, nil
}

func emptyIfNilAddons(lines []models.AddonLine) []models.AddonLine {
	if lines == nil {
		return []models.AddonLine{}
	}
	return lines
}

func emptyIfNilSized(lines []models.SizedAddonLine) []models.SizedAddonLine {
	if lines == nil {
		return []models.SizedAddonLine{}
	}
	return lines
}

func emptyIfNilStrings(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
