package modules

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

func (s *Service) List(ctx context.Context, p shared.Pagination) ([]Module, int, error) {
	return s.repo.List(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (Module, error) {
	if id <= 0 {
		return Module{}, fmt.Errorf("%w: invalid module id", shared.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

// Create normalises the name to lower snake-ish form so gate lookups, which
// match by exact name, stay predictable.
func (s *Service) Create(ctx context.Context, module Module) (Module, error) {
	module.Name = normalizeName(module.Name)
	if module.Name == "" {
		return Module{}, fmt.Errorf("%w: module name is required", shared.ErrInvalidInput)
	}
	return s.repo.Create(ctx, module)
}

func (s *Service) Update(ctx context.Context, id int64, module Module) (Module, error) {
	if id <= 0 {
		return Module{}, fmt.Errorf("%w: invalid module id", shared.ErrInvalidInput)
	}
	module.Name = normalizeName(module.Name)
	if module.Name == "" {
		return Module{}, fmt.Errorf("%w: module name is required", shared.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, module)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid module id", shared.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}

func normalizeName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return strings.ReplaceAll(name, " ", "_")
}
