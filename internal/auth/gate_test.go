package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-lms/lumen/internal/rbac"
	"github.com/lumen-lms/lumen/internal/shared"
)

// stubRepo is an in-memory Repository used across the auth tests.
type stubRepo struct {
	users     map[int64]*User
	roleIDs   map[int64][]int64
	roleNames map[int64][]string
	nextID    int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:     map[int64]*User{},
		roleIDs:   map[int64][]int64{},
		roleNames: map[int64][]string{},
	}
}

func (s *stubRepo) add(u *User) *User {
	if u.ID == 0 {
		s.nextID++
		u.ID = s.nextID
	}
	s.users[u.ID] = u
	return u
}

func (s *stubRepo) Create(_ context.Context, user *User, roleID *int64) (*User, error) {
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return nil, shared.ErrDuplicateUsername
		}
		if existing.Email == user.Email {
			return nil, shared.ErrDuplicateEmail
		}
	}
	created := s.add(user)
	if roleID != nil {
		s.roleIDs[created.ID] = append(s.roleIDs[created.ID], *roleID)
	}
	return created, nil
}

func (s *stubRepo) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindByID(_ context.Context, id int64) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (s *stubRepo) StoreToken(_ context.Context, userID int64, token string, expiry time.Time) error {
	u, ok := s.users[userID]
	if !ok {
		return shared.ErrNotFound
	}
	u.AccessToken = &token
	u.TokenExpiry = &expiry
	return nil
}

func (s *stubRepo) ClearToken(_ context.Context, userID int64) error {
	u, ok := s.users[userID]
	if !ok {
		return shared.ErrNotFound
	}
	u.AccessToken = nil
	u.TokenExpiry = nil
	return nil
}

func (s *stubRepo) RoleIDs(_ context.Context, userID int64) ([]int64, error) {
	return s.roleIDs[userID], nil
}

func (s *stubRepo) RoleNames(_ context.Context, userID int64) ([]string, error) {
	return s.roleNames[userID], nil
}

// stubResolver grants (module, action) pairs from a fixed set and counts calls.
type stubResolver struct {
	grants map[string]bool
	calls  int
}

func (s *stubResolver) Resolve(_ context.Context, roleIDs []int64, module string, action rbac.Action) (bool, error) {
	s.calls++
	if len(roleIDs) == 0 {
		return false, nil
	}
	return s.grants[module+"/"+action.String()], nil
}

func seedLoggedInUser(t *testing.T, repo *stubRepo, tokens *TokenService, roleID int64, roleName string) (*User, string) {
	t.Helper()
	user := repo.add(&User{Name: "Asel", Username: "asel", Email: "asel@example.com"})
	repo.roleIDs[user.ID] = []int64{roleID}
	repo.roleNames[user.ID] = []string{roleName}

	token, expiry, err := tokens.Issue(user.ID, roleName)
	require.NoError(t, err)
	require.NoError(t, repo.StoreToken(context.Background(), user.ID, token, expiry))
	return user, token
}

func TestAuthorizeGrantsMatchingPermission(t *testing.T) {
	tokens := newTestTokenService(t, 30*time.Minute)
	repo := newStubRepo()
	resolver := &stubResolver{grants: map[string]bool{"course_category/create": true}}
	gate := NewGate(tokens, repo, resolver)

	user, token := seedLoggedInUser(t, repo, tokens, 1, "admin")

	got, err := gate.Authorize(context.Background(), "Bearer "+token, "course_category", rbac.ActionCreate)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestAuthorizeDeniesWithoutPermission(t *testing.T) {
	tokens := newTestTokenService(t, 30*time.Minute)
	repo := newStubRepo()
	resolver := &stubResolver{grants: map[string]bool{}}
	gate := NewGate(tokens, repo, resolver)

	_, token := seedLoggedInUser(t, repo, tokens, 2, "student")

	_, err := gate.Authorize(context.Background(), "Bearer "+token, "users", rbac.ActionDelete)
	assert.ErrorIs(t, err, shared.ErrPermissionDenied)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	tokens := newTestTokenService(t, 30*time.Minute)
	gate := NewGate(tokens, newStubRepo(), &stubResolver{})

	for _, header := range []string{"", "abc123", "Token abc123", "bearer lowercase"} {
		_, err := gate.Authenticate(context.Background(), header)
		assert.ErrorIs(t, err, shared.ErrMalformedHeader, header)
	}
}

func TestAuthenticateRejectsUnknownUser(t *testing.T) {
	tokens := newTestTokenService(t, 30*time.Minute)
	gate := NewGate(tokens, newStubRepo(), &stubResolver{})

	token, _, err := tokens.Issue(99, "admin")
	require.NoError(t, err)

	_, err = gate.Authenticate(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestAuthenticateRejectsOverwrittenToken(t *testing.T) {
	tokens := newTestTokenService(t, 30*time.Minute)
	repo := newStubRepo()
	gate := NewGate(tokens, repo, &stubResolver{})

	user, oldToken := seedLoggedInUser(t, repo, tokens, 1, "admin")

	// A second login replaces the stored token; the first one dies with it.
	newToken, expiry, err := tokens.Issue(user.ID, "admin")
	require.NoError(t, err)
	require.NoError(t, repo.StoreToken(context.Background(), user.ID, newToken, expiry))

	_, err = gate.Authenticate(context.Background(), "Bearer "+oldToken)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)

	got, err := gate.Authenticate(context.Background(), "Bearer "+newToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestAuthenticateRejectsClearedToken(t *testing.T) {
	tokens := newTestTokenService(t, 30*time.Minute)
	repo := newStubRepo()
	gate := NewGate(tokens, repo, &stubResolver{})

	user, token := seedLoggedInUser(t, repo, tokens, 1, "admin")
	require.NoError(t, repo.ClearToken(context.Background(), user.ID))

	_, err := gate.Authenticate(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestAuthenticateRejectsExpiredStoredToken(t *testing.T) {
	tokens := newTestTokenService(t, 30*time.Minute)
	repo := newStubRepo()
	gate := NewGate(tokens, repo, &stubResolver{})

	user, token := seedLoggedInUser(t, repo, tokens, 1, "admin")

	// Expiry stored in a non-UTC zone must still be compared correctly.
	loc := time.FixedZone("UTC+6", 6*3600)
	past := time.Now().In(loc).Add(-time.Minute)
	user.TokenExpiry = &past

	_, err := gate.Authenticate(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, shared.ErrTokenExpired)
}

func TestAuthorizeIsIdempotent(t *testing.T) {
	tokens := newTestTokenService(t, 30*time.Minute)
	repo := newStubRepo()
	resolver := &stubResolver{grants: map[string]bool{"courses/read": true}}
	gate := NewGate(tokens, repo, resolver)

	_, token := seedLoggedInUser(t, repo, tokens, 1, "admin")

	for i := 0; i < 3; i++ {
		_, err := gate.Authorize(context.Background(), "Bearer "+token, "courses", rbac.ActionRead)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, resolver.calls)

	// Repeated checks never mutate the stored token.
	u, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, u.AccessToken)
	assert.Equal(t, token, *u.AccessToken)
}
