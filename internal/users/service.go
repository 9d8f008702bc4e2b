package users

import (
	"context"
	"fmt"
	"time"

	"github.com/lumen-lms/lumen/internal/auth"
	"github.com/lumen-lms/lumen/internal/rbac"
	"github.com/lumen-lms/lumen/internal/shared"
)

// PermissionLister supplies the joined permission view for a user's detail.
type PermissionLister interface {
	UserPermissions(ctx context.Context, userID int64) ([]rbac.UserPermission, error)
}

// Detail is the user profile enriched with role names and effective
// permissions, as returned by the detail endpoint.
type Detail struct {
	auth.User
	Permissions []rbac.UserPermission `json:"permissions"`
}

// UpdateInput carries the fields an administrator may change. A nil RoleIDs
// leaves role assignments untouched; an empty slice removes them all.
type UpdateInput struct {
	Name           string
	Email          string
	Mobile         string
	DOB            *time.Time
	FatherName     *string
	MotherName     *string
	ProfilePicture *string
	RoleIDs        []int64
}

type Service struct {
	repo  Repository
	perms PermissionLister
}

func NewService(repo Repository, perms PermissionLister) *Service {
	return &Service{repo: repo, perms: perms}
}

func (s *Service) List(ctx context.Context, p shared.Pagination) ([]auth.User, int, error) {
	users, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].Roles, _ = s.repo.RoleNames(ctx, users[i].ID)
	}
	return users, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", shared.ErrInvalidInput)
	}
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Roles, err = s.repo.RoleNames(ctx, id)
	if err != nil {
		return nil, err
	}
	perms, err := s.perms.UserPermissions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{User: *user, Permissions: perms}, nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*auth.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", shared.ErrInvalidInput)
	}
	user, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	user.Roles, _ = s.repo.RoleNames(ctx, id)
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid user id", shared.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}
