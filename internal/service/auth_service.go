package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/user-service/internal/auth"
	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/repository"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

const (
	identifierMaxLen = 255
	passwordMinLen   = 8
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account and issues its first token.
func (s *AuthService) Register(ctx context.Context, identifier, password string) (string, time.Time, error) {
	if err := validateCredentials(identifier, password); err != nil {
		return "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", time.Time{}, err
	}

	account := &domain.Account{
		Identifier:   strings.TrimSpace(identifier),
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentifier) {
			return "", time.Time{}, apperrors.NewValidationError("registration failed",
				map[string]any{"identifier": "already registered"})
		}
		return "", time.Time{}, err
	}

	return s.tokenMgr.GenerateToken(account.ID)
}

// Login authenticates an account and issues a fresh token. Unknown
// identifiers and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, time.Time, error) {
	if err := validateCredentials(identifier, password); err != nil {
		return "", time.Time{}, err
	}

	account, err := s.accounts.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", time.Time{}, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	return s.tokenMgr.GenerateToken(account.ID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func validateCredentials(identifier, password string) error {
	details := map[string]any{}
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		details["identifier"] = "must not be empty"
	} else if len(trimmed) > identifierMaxLen {
		details["identifier"] = "must be at most 255 characters"
	}
	if len(password) < passwordMinLen {
		details["password"] = "must be at least 8 characters"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid credentials payload", details)
	}
	return nil
}
