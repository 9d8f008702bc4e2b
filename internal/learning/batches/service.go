package batches

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

func (s *Service) List(ctx context.Context, p shared.Pagination) ([]Batch, int, error) {
	return s.repo.List(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (Batch, error) {
	if id <= 0 {
		return Batch{}, fmt.Errorf("%w: invalid batch id", shared.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, b Batch) (Batch, error) {
	if err := validateBatch(&b); err != nil {
		return Batch{}, err
	}
	return s.repo.Create(ctx, b)
}

func (s *Service) Update(ctx context.Context, id int64, b Batch) (Batch, error) {
	if id <= 0 {
		return Batch{}, fmt.Errorf("%w: invalid batch id", shared.ErrInvalidInput)
	}
	if err := validateBatch(&b); err != nil {
		return Batch{}, err
	}
	return s.repo.Update(ctx, id, b)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid batch id", shared.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}

// Assign adds the students to the batch. Students already assigned are
// skipped; only new assignments come back.
func (s *Service) Assign(ctx context.Context, batchID int64, studentIDs []int64) ([]Assignment, error) {
	if batchID <= 0 {
		return nil, fmt.Errorf("%w: invalid batch id", shared.ErrInvalidInput)
	}
	if len(studentIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one student is required", shared.ErrInvalidInput)
	}
	seen := map[int64]struct{}{}
	unique := make([]int64, 0, len(studentIDs))
	for _, id := range studentIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: invalid student id", shared.ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return s.repo.Assign(ctx, batchID, unique)
}

func (s *Service) Assignments(ctx context.Context, batchID int64) ([]Assignment, error) {
	if batchID <= 0 {
		return nil, fmt.Errorf("%w: invalid batch id", shared.ErrInvalidInput)
	}
	return s.repo.Assignments(ctx, batchID)
}

func (s *Service) Unassign(ctx context.Context, batchID, studentID int64) error {
	if batchID <= 0 || studentID <= 0 {
		return fmt.Errorf("%w: invalid batch or student id", shared.ErrInvalidInput)
	}
	return s.repo.Unassign(ctx, batchID, studentID)
}

func validateBatch(b *Batch) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return fmt.Errorf("%w: batch name is required", shared.ErrInvalidInput)
	}
	if b.CourseID <= 0 {
		return fmt.Errorf("%w: course is required", shared.ErrInvalidInput)
	}
	if !b.EndDate.After(b.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", shared.ErrInvalidInput)
	}
	switch b.Status {
	case "":
		b.Status = "active"
	case "active", "inactive":
	default:
		return fmt.Errorf("%w: status must be active or inactive", shared.ErrInvalidInput)
	}
	return nil
}
