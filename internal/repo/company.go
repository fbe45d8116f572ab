package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baohm88/mycabs/internal/domain"
)

type CompanyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepo(db *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{db: db}
}

func (r *CompanyRepo) Create(ctx context.Context, ownerUserID, name string) (*domain.Company, error) {
	c := &domain.Company{OwnerUserID: ownerUserID, Name: name}
	err := r.db.QueryRow(ctx, `
		INSERT INTO companies (owner_user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, ownerUserID, name).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, companyID string) (*domain.Company, error) {
	return r.get(ctx, `WHERE id = $1`, companyID)
}

// GetByOwnerUserID resolves the company behind an authenticated company user.
func (r *CompanyRepo) GetByOwnerUserID(ctx context.Context, userID string) (*domain.Company, error) {
	return r.get(ctx, `WHERE owner_user_id = $1`, userID)
}

func (r *CompanyRepo) get(ctx context.Context, where, arg string) (*domain.Company, error) {
	c := &domain.Company{}
	var plan, cycle *string
	var expiresAt *time.Time

	err := r.db.QueryRow(ctx, `
		SELECT id, owner_user_id, name, COALESCE(description, ''), COALESCE(address, ''),
		       membership_plan, membership_cycle, membership_expires_at,
		       created_at, updated_at
		FROM companies
	`+where, arg).Scan(
		&c.ID, &c.OwnerUserID, &c.Name, &c.Description, &c.Address,
		&plan, &cycle, &expiresAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	if plan != nil {
		c.Membership = &domain.MembershipInfo{Plan: *plan, ExpiresAt: expiresAt}
		if cycle != nil {
			c.Membership.BillingCycle = *cycle
		}
	}
	return c, nil
}

func (r *CompanyRepo) UpdateMembership(ctx context.Context, companyID string, m domain.MembershipInfo) error {
	_, err := r.db.Exec(ctx, `
		UPDATE companies
		SET membership_plan = $2, membership_cycle = $3, membership_expires_at = $4, updated_at = now()
		WHERE id = $1
	`, companyID, m.Plan, m.BillingCycle, m.ExpiresAt)
	return err
}
