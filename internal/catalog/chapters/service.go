package chapters

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lumen-lms/lumen/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByCourse(ctx context.Context, courseID int64) ([]Chapter, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: invalid course id", shared.ErrInvalidInput)
	}
	return s.repo.ListByCourse(ctx, courseID)
}

// Get returns the chapter with its ordered content entries.
func (s *Service) Get(ctx context.Context, id int64) (*ChapterWithContents, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid chapter id", shared.ErrInvalidInput)
	}
	ch, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	contents, err := s.repo.Contents(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ChapterWithContents{Chapter: ch, Contents: contents}, nil
}

// CreateBatch stores a course outline in one shot. Missing order values are
// assigned by input position.
func (s *Service) CreateBatch(ctx context.Context, courseID int64, ownerID *int64, chapters []Chapter) ([]Chapter, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: invalid course id", shared.ErrInvalidInput)
	}
	if len(chapters) == 0 {
		return nil, fmt.Errorf("%w: at least one chapter is required", shared.ErrInvalidInput)
	}
	for i := range chapters {
		chapters[i].Name = strings.TrimSpace(chapters[i].Name)
		if chapters[i].Name == "" {
			return nil, fmt.Errorf("%w: chapter name is required", shared.ErrInvalidInput)
		}
		if chapters[i].Order == 0 {
			chapters[i].Order = i + 1
		}
	}
	sort.SliceStable(chapters, func(i, j int) bool { return chapters[i].Order < chapters[j].Order })
	return s.repo.CreateBatch(ctx, courseID, ownerID, chapters)
}

func (s *Service) Update(ctx context.Context, id int64, ch Chapter) (Chapter, error) {
	if id <= 0 {
		return Chapter{}, fmt.Errorf("%w: invalid chapter id", shared.ErrInvalidInput)
	}
	ch.Name = strings.TrimSpace(ch.Name)
	if ch.Name == "" {
		return Chapter{}, fmt.Errorf("%w: chapter name is required", shared.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, ch)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid chapter id", shared.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) AddContent(ctx context.Context, c Content) (Content, error) {
	if c.ChapterID <= 0 {
		return Content{}, fmt.Errorf("%w: invalid chapter id", shared.ErrInvalidInput)
	}
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return Content{}, fmt.Errorf("%w: content title is required", shared.ErrInvalidInput)
	}
	if c.ContentType == "" {
		c.ContentType = "text"
	}
	return s.repo.AddContent(ctx, c)
}

func (s *Service) UpdateContent(ctx context.Context, id int64, c Content) (Content, error) {
	if id <= 0 {
		return Content{}, fmt.Errorf("%w: invalid content id", shared.ErrInvalidInput)
	}
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return Content{}, fmt.Errorf("%w: content title is required", shared.ErrInvalidInput)
	}
	return s.repo.UpdateContent(ctx, id, c)
}

func (s *Service) DeleteContent(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid content id", shared.ErrInvalidInput)
	}
	return s.repo.DeleteContent(ctx, id)
}
