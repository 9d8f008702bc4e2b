package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumen-lms/lumen/internal/shared"
)

// ActivityRecorder appends entries to the append-only activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, userID int64, action string) error
}

// Service wraps registration and session business rules.
type Service struct {
	repo     Repository
	tokens   *TokenService
	activity ActivityRecorder
	logger   *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, tokens *TokenService, activity ActivityRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, activity: activity, logger: logger}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name       string
	Username   string
	Password   string
	Email      string
	Mobile     string
	DOB        *time.Time
	FatherName *string
	MotherName *string
	RoleID     *int64
}

// Register creates a new user with a hashed password and an optional initial
// role. Uniqueness violations surface as DuplicateUsername/DuplicateEmail.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &User{
		Name:           in.Name,
		Username:       in.Username,
		Email:          in.Email,
		Mobile:         in.Mobile,
		DOB:            in.DOB,
		FatherName:     in.FatherName,
		MotherName:     in.MotherName,
		HashedPassword: hashed,
	}
	created, err := s.repo.Create(ctx, user, in.RoleID)
	if err != nil {
		return nil, err
	}
	created.Roles, _ = s.repo.RoleNames(ctx, created.ID)
	return created, nil
}

// Login verifies credentials, issues a fresh token and persists it on the
// user row. Issuing overwrites any previous token: a user has at most one
// active session and a new login silently ends the old one.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.HashedPassword) {
		return nil, "", shared.ErrInvalidCredentials
	}

	roles, err := s.repo.RoleNames(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	roleClaim := ""
	if len(roles) > 0 {
		roleClaim = roles[0]
	}

	token, expiry, err := s.tokens.Issue(user.ID, roleClaim)
	if err != nil {
		return nil, "", err
	}
	if err := s.repo.StoreToken(ctx, user.ID, token, expiry); err != nil {
		return nil, "", err
	}

	if err := s.activity.Record(ctx, user.ID, shared.ActivityLogin); err != nil && s.logger != nil {
		// The activity log is advisory; a failed append never blocks login.
		s.logger.Warn("record login activity", slog.Any("error", err))
	}

	user.Roles = roles
	user.AccessToken = &token
	user.TokenExpiry = &expiry
	return user, token, nil
}

// Logout clears the active token and records the event.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	if err := s.repo.ClearToken(ctx, userID); err != nil {
		return err
	}
	if err := s.activity.Record(ctx, userID, shared.ActivityLogout); err != nil && s.logger != nil {
		s.logger.Warn("record logout activity", slog.Any("error", err))
	}
	return nil
}
