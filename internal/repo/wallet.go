package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/baohm88/mycabs/internal/domain"
)

type WalletRepo struct {
	db *pgxpool.Pool
}

func NewWalletRepo(db *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{db: db}
}

// GetOrCreate returns the wallet for (ownerType, ownerID), inserting a zero
// balance row if none exists. The unique index on (owner_type, owner_id) plus
// ON CONFLICT DO NOTHING keeps concurrent first calls from creating duplicates.
func (r *WalletRepo) GetOrCreate(ctx context.Context, ownerType domain.OwnerType, ownerID string) (*domain.Wallet, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO wallets (owner_type, owner_id)
		VALUES ($1, $2)
		ON CONFLICT (owner_type, owner_id) DO NOTHING
	`, ownerType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("cannot insert wallet: %w", err)
	}

	w := &domain.Wallet{}
	err = r.db.QueryRow(ctx, `
		SELECT id, owner_type, owner_id, balance, low_balance_threshold, created_at, updated_at
		FROM wallets
		WHERE owner_type = $1 AND owner_id = $2
	`, ownerType, ownerID).Scan(
		&w.ID, &w.OwnerType, &w.OwnerID, &w.Balance, &w.LowBalanceThreshold, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot load wallet: %w", err)
	}
	return w, nil
}

func (r *WalletRepo) Credit(ctx context.Context, walletID string, amount decimal.Decimal) error {
	_, err := r.db.Exec(ctx, `
		UPDATE wallets
		SET balance = balance + $2, updated_at = now()
		WHERE id = $1
	`, walletID, amount)
	return err
}

// TryDebit subtracts amount only when the current balance covers it. The
// balance check and the subtraction are one statement, so a racing pair of
// debits on the same wallet cannot jointly overdraw it.
func (r *WalletRepo) TryDebit(ctx context.Context, walletID string, amount decimal.Decimal) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE wallets
		SET balance = balance - $2, updated_at = now()
		WHERE id = $1 AND balance >= $2
	`, walletID, amount)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}
