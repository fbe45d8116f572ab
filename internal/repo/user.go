package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baohm88/mycabs/internal/domain"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	u := &domain.User{}
	var role string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, lower(email), role, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&u.ID, &u.Name, &u.Email, &u.EmailLower, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Role, err = domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts the account. The unique index on lower(email) enforces one
// account per address regardless of case.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string, role domain.Role) (*domain.User, error) {
	u := &domain.User{Name: name, Email: email, Role: role}
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lower(email), created_at
	`, name, email, passwordHash, role.String()).Scan(&u.ID, &u.EmailLower, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// GetByEmail returns the account and its password hash, matching the address
// case insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	u := &domain.User{}
	var role, hash string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, lower(email), password, role, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.EmailLower, &hash, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	u.Role, err = domain.ParseRole(role)
	if err != nil {
		return nil, "", err
	}
	return u, hash, nil
}
