package auth

import (
	"context"
	"strings"
	"time"

	"github.com/lumen-lms/lumen/internal/rbac"
	"github.com/lumen-lms/lumen/internal/shared"
)

const bearerPrefix = "Bearer "

// PermissionResolver answers whether a role set grants an action on a module.
// The gate depends on this single method, not on the rbac object graph.
type PermissionResolver interface {
	Resolve(ctx context.Context, roleIDs []int64, moduleName string, action rbac.Action) (bool, error)
}

// Gate is the single request-time authorization entry point: it combines
// token validation with permission resolution. It has no side effects and is
// safe to call any number of times per request.
type Gate struct {
	tokens   *TokenService
	users    Repository
	resolver PermissionResolver
}

// NewGate constructs a Gate.
func NewGate(tokens *TokenService, users Repository, resolver PermissionResolver) *Gate {
	return &Gate{tokens: tokens, users: users, resolver: resolver}
}

// Authenticate resolves the bearer header to its user without checking any
// permission. Failure modes: MalformedHeader, InvalidToken, TokenExpired.
func (g *Gate) Authenticate(ctx context.Context, header string) (*User, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, shared.ErrMalformedHeader
	}
	raw := strings.TrimPrefix(header, bearerPrefix)

	claims, err := g.tokens.Validate(raw)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		// A verified token for a vanished user is indistinguishable from a
		// forged one to the caller.
		return nil, shared.ErrInvalidToken
	}

	// Only the most recently issued token is live; an overwritten token is
	// rejected even though its signature still verifies.
	if !user.HasActiveToken() || *user.AccessToken != raw {
		return nil, shared.ErrInvalidToken
	}
	if !time.Now().UTC().Before(user.TokenExpiry.UTC()) {
		return nil, shared.ErrTokenExpired
	}
	return user, nil
}

// Authorize authenticates the bearer header and then resolves the user's
// roles against the permission matrix for (module, action). It returns the
// authenticated user on success or one of the typed denial errors.
func (g *Gate) Authorize(ctx context.Context, header, moduleName string, action rbac.Action) (*User, error) {
	user, err := g.Authenticate(ctx, header)
	if err != nil {
		return nil, err
	}

	roleIDs, err := g.users.RoleIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	granted, err := g.resolver.Resolve(ctx, roleIDs, moduleName, action)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, shared.ErrPermissionDenied
	}
	return user, nil
}
