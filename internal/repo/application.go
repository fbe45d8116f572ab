package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baohm88/mycabs/internal/domain"
)

type ApplicationRepo struct {
	db *pgxpool.Pool
}

func NewApplicationRepo(db *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

func (r *ApplicationRepo) ExistsPending(ctx context.Context, driverID, companyID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM applications
			WHERE driver_id = $1 AND company_id = $2 AND status = 'Pending'
		)
	`, driverID, companyID).Scan(&exists)
	return exists, err
}

func (r *ApplicationRepo) Create(ctx context.Context, driverID, companyID string) (*domain.Application, error) {
	app := &domain.Application{
		DriverID:  driverID,
		CompanyID: companyID,
		Status:    domain.ApplicationPending,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO applications (driver_id, company_id, status)
		VALUES ($1, $2, 'Pending')
		RETURNING id, created_at
	`, driverID, companyID).Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("cannot insert application: %w", err)
	}
	return app, nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, appID string) (*domain.Application, error) {
	app := &domain.Application{}
	err := r.db.QueryRow(ctx, `
		SELECT id, driver_id, company_id, status, created_at
		FROM applications
		WHERE id = $1
	`, appID).Scan(&app.ID, &app.DriverID, &app.CompanyID, &app.Status, &app.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, appID string, status domain.ApplicationStatus) error {
	_, err := r.db.Exec(ctx, `
		UPDATE applications
		SET status = $2
		WHERE id = $1
	`, appID, status)
	return err
}

// RejectPendingByDriverExcept closes every other Pending application of the
// driver once one of them has been approved. Returns the number of rows
// rejected so the cascade worker can log it.
func (r *ApplicationRepo) RejectPendingByDriverExcept(ctx context.Context, driverID, exceptAppID string) (int64, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE applications
		SET status = 'Rejected'
		WHERE driver_id = $1 AND id <> $2 AND status = 'Pending'
	`, driverID, exceptAppID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *ApplicationRepo) FindForCompany(ctx context.Context, companyID string, q domain.HiringQuery) ([]domain.Application, int64, error) {
	return r.find(ctx, "company_id", companyID, q)
}

func (r *ApplicationRepo) FindForDriver(ctx context.Context, driverID string, q domain.HiringQuery) ([]domain.Application, int64, error) {
	return r.find(ctx, "driver_id", driverID, q)
}

func (r *ApplicationRepo) find(ctx context.Context, ownerCol, ownerID string, q domain.HiringQuery) ([]domain.Application, int64, error) {
	where := fmt.Sprintf("WHERE %s = $1", ownerCol)
	args := []any{ownerID}
	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM applications "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT id, driver_id, company_id, status, created_at
		FROM applications %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Application, error) {
		var a domain.Application
		err := row.Scan(&a.ID, &a.DriverID, &a.CompanyID, &a.Status, &a.CreatedAt)
		return a, err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
