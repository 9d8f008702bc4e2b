package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lumen-lms/lumen/internal/shared"
)

const tokenIssuer = "lumen"

// Claims are the JWT claims carried by issued tokens.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim into the user id.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject", shared.ErrInvalidToken)
	}
	return id, nil
}

// TokenService issues and validates signed bearer tokens. The secret,
// algorithm and TTL are injected from configuration at construction; there is
// no ambient lookup.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenService constructs a TokenService. The algorithm must be one of the
// HMAC family (HS256/HS384/HS512).
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: token secret is required")
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenService{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the user with an absolute expiry of now + TTL.
// All timestamps are UTC.
func (s *TokenService) Issue(userID int64, role string) (string, time.Time, error) {
	if userID <= 0 {
		return "", time.Time{}, errors.New("auth: user id is required")
	}
	now := time.Now().UTC()
	expiry := now.Add(s.ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expiry, nil
}

// Validate verifies the token signature and structure. Expired tokens yield
// TokenExpired; every other failure yields InvalidToken.
func (s *TokenService) Validate(raw string) (*Claims, error) {
	if raw == "" {
		return nil, shared.ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, shared.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, shared.ErrTokenExpired
		}
		return nil, shared.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, shared.ErrInvalidToken
	}
	if claims.Issuer != tokenIssuer || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}
