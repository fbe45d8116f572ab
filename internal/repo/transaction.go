package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baohm88/mycabs/internal/domain"
)

type TransactionRepo struct {
	db *pgxpool.Pool
}

func NewTransactionRepo(db *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// Create appends one record. The ledger is append-only: there is no update or
// delete on transactions anywhere in the codebase.
func (r *TransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO transactions (type, status, amount, from_wallet_id, to_wallet_id, company_id, driver_id, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, tx.Type, tx.Status, tx.Amount, tx.FromWalletID, tx.ToWalletID, tx.CompanyID, tx.DriverID, tx.Note,
	).Scan(&tx.ID, &tx.CreatedAt)
}

func (r *TransactionRepo) FindForCompany(ctx context.Context, companyID string, q domain.TransactionsQuery) ([]domain.Transaction, int64, error) {
	return r.find(ctx, "company_id", companyID, q)
}

func (r *TransactionRepo) FindForDriver(ctx context.Context, driverID string, q domain.TransactionsQuery) ([]domain.Transaction, int64, error) {
	return r.find(ctx, "driver_id", driverID, q)
}

func (r *TransactionRepo) find(ctx context.Context, ownerCol, ownerID string, q domain.TransactionsQuery) ([]domain.Transaction, int64, error) {
	where := fmt.Sprintf("WHERE %s = $1", ownerCol)
	args := []any{ownerID}
	if q.Type != "" {
		args = append(args, q.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM transactions "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT id, type, status, amount, from_wallet_id, to_wallet_id, company_id, driver_id, note, created_at
		FROM transactions %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		var t domain.Transaction
		err := row.Scan(&t.ID, &t.Type, &t.Status, &t.Amount, &t.FromWalletID, &t.ToWalletID,
			&t.CompanyID, &t.DriverID, &t.Note, &t.CreatedAt)
		return t, err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
