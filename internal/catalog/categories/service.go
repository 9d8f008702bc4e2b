package categories

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

func (s *Service) List(ctx context.Context, p shared.Pagination) ([]Category, int, error) {
	return s.repo.List(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, fmt.Errorf("%w: invalid category id", shared.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, c Category) (Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Category{}, fmt.Errorf("%w: category name is required", shared.ErrInvalidInput)
	}
	if c.ParentID != nil && *c.ParentID <= 0 {
		c.ParentID = nil
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, id int64, c Category) (Category, error) {
	if id <= 0 {
		return Category{}, fmt.Errorf("%w: invalid category id", shared.ErrInvalidInput)
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Category{}, fmt.Errorf("%w: category name is required", shared.ErrInvalidInput)
	}
	if c.ParentID != nil && *c.ParentID == id {
		return Category{}, fmt.Errorf("%w: category cannot be its own parent", shared.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, c)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid category id", shared.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}
