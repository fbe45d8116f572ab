package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baohm88/mycabs/internal/domain"
)

type InvitationRepo struct {
	db *pgxpool.Pool
}

func NewInvitationRepo(db *pgxpool.Pool) *InvitationRepo {
	return &InvitationRepo{db: db}
}

func (r *InvitationRepo) Create(ctx context.Context, companyID, driverID, candidateEmail, note string) (*domain.Invitation, error) {
	inv := &domain.Invitation{
		CompanyID:      companyID,
		DriverID:       driverID,
		CandidateEmail: candidateEmail,
		Status:         domain.InvitationPending,
		Note:           note,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO invitations (company_id, driver_id, candidate_email, status, note)
		VALUES ($1, $2, $3, 'Pending', $4)
		RETURNING id, created_at
	`, companyID, driverID, candidateEmail, note).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("cannot insert invitation: %w", err)
	}
	return inv, nil
}

func (r *InvitationRepo) GetByID(ctx context.Context, inviteID string) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	err := r.db.QueryRow(ctx, `
		SELECT id, company_id, driver_id, candidate_email, status, note, created_at
		FROM invitations
		WHERE id = $1
	`, inviteID).Scan(&inv.ID, &inv.CompanyID, &inv.DriverID, &inv.CandidateEmail, &inv.Status, &inv.Note, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *InvitationRepo) UpdateStatus(ctx context.Context, inviteID string, status domain.InvitationStatus) error {
	_, err := r.db.Exec(ctx, `
		UPDATE invitations
		SET status = $2
		WHERE id = $1
	`, inviteID, status)
	return err
}

func (r *InvitationRepo) FindForCompany(ctx context.Context, companyID string, q domain.HiringQuery) ([]domain.Invitation, int64, error) {
	where := "WHERE company_id = $1"
	args := []any{companyID}
	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	return r.page(ctx, where, args, q)
}

// FindForCandidate matches invitations either by the resolved driver profile id
// or by the candidate's email, so invitations issued before the driver profile
// existed are still visible to that user.
func (r *InvitationRepo) FindForCandidate(ctx context.Context, key domain.CandidateKey, q domain.HiringQuery) ([]domain.Invitation, int64, error) {
	// empty key parts become NULL so the uuid comparison never matches them
	var did, email *string
	if key.DriverID != "" {
		did = &key.DriverID
	}
	if key.Email != "" {
		email = &key.Email
	}
	where := "WHERE (driver_id = $1 OR candidate_email = $2)"
	args := []any{did, email}
	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	return r.page(ctx, where, args, q)
}

func (r *InvitationRepo) page(ctx context.Context, where string, args []any, q domain.HiringQuery) ([]domain.Invitation, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM invitations "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT id, company_id, driver_id, candidate_email, status, note, created_at
		FROM invitations %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Invitation, error) {
		var inv domain.Invitation
		err := row.Scan(&inv.ID, &inv.CompanyID, &inv.DriverID, &inv.CandidateEmail, &inv.Status, &inv.Note, &inv.CreatedAt)
		return inv, err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
