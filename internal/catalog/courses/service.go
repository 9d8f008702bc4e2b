package courses

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/lumen-lms/lumen/internal/platform/cache"
	"github.com/lumen-lms/lumen/internal/shared"
)

// Service wraps course business rules: slug derivation, list caching and
// thumbnail key generation.
type Service struct {
	repo   Repository
	cache  *cache.JSONCache
	logger *slog.Logger
	group  singleflight.Group
}

func NewService(repo Repository, listCache *cache.JSONCache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: listCache, logger: logger}
}

type listPage struct {
	Courses []Course `json:"courses"`
	Total   int      `json:"total"`
}

func listCacheKey(f ListFilter, p shared.Pagination) string {
	return "list:" + strconv.FormatInt(f.CategoryID, 10) + ":" + f.CourseType + ":" +
		f.Search + ":" + strconv.Itoa(p.Page) + ":" + strconv.Itoa(p.PerPage)
}

// List serves from the Redis cache when possible. A cache error degrades to a
// direct read; it never fails the request. Concurrent misses for the same key
// collapse into a single repository query.
func (s *Service) List(ctx context.Context, f ListFilter, p shared.Pagination) ([]Course, int, error) {
	key := listCacheKey(f, p)

	var cached listPage
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil && s.logger != nil {
		s.logger.Warn("course list cache read", slog.Any("error", err))
	}
	if hit {
		return cached.Courses, cached.Total, nil
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		courses, total, err := s.repo.List(ctx, f, p)
		if err != nil {
			return nil, err
		}
		page := listPage{Courses: courses, Total: total}
		if err := s.cache.Set(ctx, key, page); err != nil && s.logger != nil {
			s.logger.Warn("course list cache write", slog.Any("error", err))
		}
		return page, nil
	})
	if err != nil {
		return nil, 0, err
	}
	page := result.(listPage)
	return page.Courses, page.Total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Course, error) {
	if id <= 0 {
		return Course{}, fmt.Errorf("%w: invalid course id", shared.ErrInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Course, error) {
	if strings.TrimSpace(slug) == "" {
		return Course{}, fmt.Errorf("%w: slug is required", shared.ErrInvalidInput)
	}
	return s.repo.GetBySlug(ctx, slug)
}

// Create derives the slug from the title, retrying with a numeric suffix when
// the derived slug is taken.
func (s *Service) Create(ctx context.Context, c Course) (Course, error) {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return Course{}, fmt.Errorf("%w: course title is required", shared.ErrInvalidInput)
	}
	if c.CategoryID <= 0 {
		return Course{}, fmt.Errorf("%w: category is required", shared.ErrInvalidInput)
	}
	applyDefaults(&c)

	base := Slugify(c.Title)
	if base == "" {
		base = uuid.NewString()[:8]
	}
	c.Slug = base
	for attempt := 2; ; attempt++ {
		created, err := s.repo.Create(ctx, c)
		if err == nil {
			s.invalidate(ctx)
			return created, nil
		}
		if !errors.Is(err, shared.ErrDuplicate) || attempt > 5 {
			return Course{}, err
		}
		c.Slug = base + "-" + strconv.Itoa(attempt)
	}
}

func (s *Service) Update(ctx context.Context, id int64, c Course) (Course, error) {
	if id <= 0 {
		return Course{}, fmt.Errorf("%w: invalid course id", shared.ErrInvalidInput)
	}
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return Course{}, fmt.Errorf("%w: course title is required", shared.ErrInvalidInput)
	}
	applyDefaults(&c)

	updated, err := s.repo.Update(ctx, id, c)
	if err != nil {
		return Course{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid course id", shared.ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// NewThumbnailKey returns an opaque blob-store key for an uploaded thumbnail.
// Storage itself happens outside this service.
func NewThumbnailKey(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	key := "course_thumbs/" + uuid.NewString()
	if ext != "" {
		key += "." + ext
	}
	return key
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("course list cache invalidate", slog.Any("error", err))
	}
}

func applyDefaults(c *Course) {
	if c.CourseType == "" {
		c.CourseType = "free"
	}
	if c.CourseMode == "" {
		c.CourseMode = "online"
	}
	if c.Language == "" {
		c.Language = "English"
	}
	if c.Level == "" {
		c.Level = "Beginner"
	}
}
