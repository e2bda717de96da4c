package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/repository"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4, // minimum cost keeps tests fast
		},
	}
	return NewAuthService(cfg, repository.NewAccountRepository(setupTestDB(t)))
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	token, _, err := svc.Register(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.AccountID)

	loginToken, _, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	loginClaims, err := svc.TokenManager().ParseToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, claims.AccountID, loginClaims.AccountID)
}

func TestAuthService_Register_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, _, err := svc.Register(ctx, "", "short")
	requireValidationError(t, err, "identifier", "password")
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, _, err := svc.Register(ctx, "a@x.com", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "a@x.com", "different1")
	requireValidationError(t, err, "identifier")
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, _, err := svc.Register(ctx, "a@x.com", "secret123")
	require.NoError(t, err)

	tests := []struct {
		name       string
		identifier string
		password   string
	}{
		{name: "wrong password", identifier: "a@x.com", password: "wrongpass1"},
		{name: "unknown identifier", identifier: "b@x.com", password: "secret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.identifier, tt.password)
			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
			assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
		})
	}
}
