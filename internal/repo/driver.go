package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baohm88/mycabs/internal/domain"
)

type DriverRepo struct {
	db *pgxpool.Pool
}

func NewDriverRepo(db *pgxpool.Pool) *DriverRepo {
	return &DriverRepo{db: db}
}

const driverCols = `id, user_id, company_id, status, COALESCE(phone, ''), COALESCE(bio, ''), created_at, updated_at`

func (r *DriverRepo) GetByID(ctx context.Context, driverID string) (*domain.Driver, error) {
	return r.get(ctx, `SELECT `+driverCols+` FROM drivers WHERE id = $1`, driverID)
}

func (r *DriverRepo) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	return r.get(ctx, `SELECT `+driverCols+` FROM drivers WHERE user_id = $1`, userID)
}

func (r *DriverRepo) get(ctx context.Context, sql, arg string) (*domain.Driver, error) {
	d := &domain.Driver{}
	err := r.db.QueryRow(ctx, sql, arg).Scan(
		&d.ID, &d.UserID, &d.CompanyID, &d.Status, &d.Phone, &d.Bio, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, err
	}
	return d, nil
}

// CreateIfMissing resolves the driver profile for a user, inserting an
// unassigned "available" profile on first contact. The unique index on
// user_id keeps concurrent first calls from creating two profiles.
func (r *DriverRepo) CreateIfMissing(ctx context.Context, userID string) (*domain.Driver, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO drivers (user_id, status)
		VALUES ($1, 'available')
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("cannot insert driver: %w", err)
	}
	return r.GetByUserID(ctx, userID)
}

// AssignToCompanyIfAvailable is the exclusivity primitive for hiring: the
// update only wins when the driver is unassigned or already belongs to this
// same company. Returns false when the driver is taken by someone else.
func (r *DriverRepo) AssignToCompanyIfAvailable(ctx context.Context, driverID, companyID string, status domain.DriverStatus) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE drivers
		SET company_id = $2, status = $3, updated_at = now()
		WHERE id = $1 AND (company_id IS NULL OR company_id = $2)
	`, driverID, companyID, status)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (r *DriverRepo) SetCompany(ctx context.Context, driverID, companyID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE drivers
		SET company_id = $2, updated_at = now()
		WHERE id = $1
	`, driverID, companyID)
	return err
}
