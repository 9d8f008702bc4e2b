package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumen-lms/lumen/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, p shared.Pagination) ([]Role, int, error) {
	return s.repo.List(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (Role, error) {
	if id <= 0 {
		return Role{}, fmt.Errorf("%w: invalid role id", shared.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, role Role) (Role, error) {
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return Role{}, fmt.Errorf("%w: role name is required", shared.ErrInvalidInput)
	}
	return s.repo.Create(ctx, role)
}

func (s *Service) Update(ctx context.Context, id int64, role Role) (Role, error) {
	if id <= 0 {
		return Role{}, fmt.Errorf("%w: invalid role id", shared.ErrInvalidInput)
	}
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return Role{}, fmt.Errorf("%w: role name is required", shared.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, role)
}

// Delete removes the role. Assignments and permission rows referencing it are
// removed by the schema's ON DELETE CASCADE.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid role id", shared.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}
