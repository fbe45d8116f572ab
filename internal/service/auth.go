package service

import (
	"context"
	"log/slog"

	"github.com/baohm88/mycabs/internal/domain"
	"github.com/baohm88/mycabs/pkg"
)

type UserAccountStore interface {
	Create(ctx context.Context, name, email, passwordHash string, role domain.Role) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, string, error)
}

type CompanyCreator interface {
	Create(ctx context.Context, ownerUserID, name string) (*domain.Company, error)
}

// AuthService registers accounts and issues tokens. A Company registration
// also creates the company profile the owner acts through.
type AuthService struct {
	slogger   *slog.Logger
	users     UserAccountStore
	companies CompanyCreator
	secret    []byte
}

func NewAuthService(slogger *slog.Logger, users UserAccountStore, companies CompanyCreator, secret []byte) *AuthService {
	return &AuthService{slogger: slogger, users: users, companies: companies, secret: secret}
}

func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := pkg.HashPassword(req.Password, s.secret)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, req.Name, req.Email, hash, role)
	if err != nil {
		return nil, err
	}

	if role == domain.RoleCompany {
		name := req.CompanyName
		if name == "" {
			name = req.Name
		}
		if _, err := s.companies.Create(ctx, user.ID, name); err != nil {
			return nil, err
		}
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, hash, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	ok, err := pkg.CheckPassword(req.Password, hash, s.secret)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*domain.AuthResponse, error) {
	token, err := pkg.GenerateTokenMyClaims(&pkg.MyClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role.String(),
	}, s.secret)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{Token: token, User: user}, nil
}
