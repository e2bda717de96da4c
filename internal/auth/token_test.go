package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken("account-123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "account-123", claims.AccountID)
}

func TestTokenManager_ParseToken_Expired(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, _, err := tm.GenerateToken("account-123")
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_ParseToken_BadSignature(t *testing.T) {
	issuer := NewTokenManager("issuer-secret", 60)
	verifier := NewTokenManager("other-secret", 60)

	token, _, err := issuer.GenerateToken("account-123")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenManager_ParseToken_Malformed(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := tm.ParseToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestTokenManager_ParseToken_WrongAlgorithm(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "account-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
