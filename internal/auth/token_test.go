package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-lms/lumen/internal/shared"
	_ "github.com/lumen-lms/lumen/testing"
)

func newTestTokenService(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", "HS256", ttl)
	require.NoError(t, err)
	return svc
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)

	token, expiry, err := svc.Issue(42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), expiry, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)

	for _, raw := range []string{"", "abc123", "a.b.c"} {
		_, err := svc.Validate(raw)
		assert.ErrorIs(t, err, shared.ErrInvalidToken, raw)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := newTestTokenService(t, 30*time.Minute)
	token, _, err := issuer.Issue(7, "")
	require.NoError(t, err)

	other, err := NewTokenService("another-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)

	// Token issued with a 30 minute TTL, presented 31 minutes later.
	past := time.Now().UTC().Add(-31 * time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(9, 10),
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(30 * time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(raw)
	assert.ErrorIs(t, err, shared.ErrTokenExpired)
}

func TestValidateRejectsForeignIssuer(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "3",
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(raw)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestNewTokenServiceRejectsBadConfig(t *testing.T) {
	_, err := NewTokenService("", "HS256", time.Minute)
	assert.Error(t, err)

	_, err = NewTokenService("secret", "RS256", time.Minute)
	assert.Error(t, err)

	svc, err := NewTokenService("secret", "HS256", 0)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, svc.TTL())
}
