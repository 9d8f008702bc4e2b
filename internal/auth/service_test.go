package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-lms/lumen/internal/shared"
)

type stubActivity struct {
	entries []string
	err     error
}

func (s *stubActivity) Record(_ context.Context, userID int64, action string) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, action)
	return nil
}

func newTestService(t *testing.T, repo *stubRepo, activity *stubActivity) *Service {
	t.Helper()
	tokens := newTestTokenService(t, 30*time.Minute)
	return NewService(repo, tokens, activity, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubActivity{})

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Asel",
		Username: "asel",
		Password: "s3cret-pass",
		Email:    "asel@example.com",
		Mobile:   "700123456",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.NotEqual(t, "s3cret-pass", user.HashedPassword)
	assert.True(t, VerifyPassword("s3cret-pass", user.HashedPassword))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubActivity{})

	in := RegisterInput{Name: "Asel", Username: "asel", Password: "s3cret-pass", Email: "asel@example.com", Mobile: "700123456"}
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	in.Email = "other@example.com"
	_, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, shared.ErrDuplicateUsername)
}

func TestLoginIssuesAndStoresToken(t *testing.T) {
	repo := newStubRepo()
	activity := &stubActivity{}
	svc := newTestService(t, repo, activity)

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	user := repo.add(&User{Username: "asel", Email: "asel@example.com", HashedPassword: hash})
	repo.roleNames[user.ID] = []string{"admin"}

	got, token, err := svc.Login(context.Background(), "asel", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, []string{"admin"}, got.Roles)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AccessToken)
	assert.Equal(t, token, *stored.AccessToken)
	assert.Equal(t, []string{shared.ActivityLogin}, activity.entries)
}

func TestLoginOverwritesPreviousToken(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubActivity{})

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	user := repo.add(&User{Username: "asel", Email: "asel@example.com", HashedPassword: hash})

	_, first, err := svc.Login(context.Background(), "asel", "s3cret-pass")
	require.NoError(t, err)
	_, second, err := svc.Login(context.Background(), "asel", "s3cret-pass")
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AccessToken)
	assert.Equal(t, second, *stored.AccessToken)
	assert.NotEqual(t, first, *stored.AccessToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubActivity{})

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	repo.add(&User{Username: "asel", Email: "asel@example.com", HashedPassword: hash})

	// Unknown user and wrong password are indistinguishable to the caller.
	_, _, err = svc.Login(context.Background(), "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "asel", "wrong-pass")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginSucceedsWhenActivityLogFails(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubActivity{err: errors.New("log table gone")})

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	repo.add(&User{Username: "asel", Email: "asel@example.com", HashedPassword: hash})

	_, token, err := svc.Login(context.Background(), "asel", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogoutClearsToken(t *testing.T) {
	repo := newStubRepo()
	activity := &stubActivity{}
	svc := newTestService(t, repo, activity)

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	user := repo.add(&User{Username: "asel", Email: "asel@example.com", HashedPassword: hash})

	_, _, err = svc.Login(context.Background(), "asel", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), user.ID))

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AccessToken)
	assert.Nil(t, stored.TokenExpiry)
	assert.Equal(t, []string{shared.ActivityLogin, shared.ActivityLogout}, activity.entries)
}
