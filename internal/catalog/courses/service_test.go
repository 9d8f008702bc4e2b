package courses

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-lms/lumen/internal/platform/cache"
	"github.com/lumen-lms/lumen/internal/shared"
)

type mockRepository struct {
	courses   map[int64]Course
	nextID    int64
	listCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{courses: map[int64]Course{}}
}

func (m *mockRepository) List(_ context.Context, f ListFilter, p shared.Pagination) ([]Course, int, error) {
	m.listCalls++
	var out []Course
	for _, c := range m.courses {
		if f.CategoryID > 0 && c.CategoryID != f.CategoryID {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return Course{}, shared.ErrNotFound
	}
	return c, nil
}

func (m *mockRepository) GetBySlug(_ context.Context, slug string) (Course, error) {
	for _, c := range m.courses {
		if c.Slug == slug {
			return c, nil
		}
	}
	return Course{}, shared.ErrNotFound
}

func (m *mockRepository) Create(_ context.Context, c Course) (Course, error) {
	for _, existing := range m.courses {
		if existing.Slug == c.Slug {
			return Course{}, fmt.Errorf("%w: course slug already exists", shared.ErrDuplicate)
		}
	}
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	m.courses[c.ID] = c
	return c, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, c Course) (Course, error) {
	existing, ok := m.courses[id]
	if !ok {
		return Course{}, shared.ErrNotFound
	}
	existing.Title = c.Title
	existing.CategoryID = c.CategoryID
	existing.Price = c.Price
	existing.UpdatedAt = time.Now().UTC()
	m.courses[id] = existing
	return existing, nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.courses[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.courses, id)
	return nil
}

func newCachedService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, cache.NewJSONCache(client, "courses:", time.Minute), logger)
}

func TestCreateCourseDerivesSlug(t *testing.T) {
	svc := newCachedService(t, newMockRepository())

	course, err := svc.Create(context.Background(), Course{Title: "Introduction to Go", CategoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, "introduction-to-go", course.Slug)
	assert.Equal(t, "free", course.CourseType)
	assert.Equal(t, "English", course.Language)
}

func TestCreateCourseSlugCollisionGetsSuffix(t *testing.T) {
	svc := newCachedService(t, newMockRepository())

	first, err := svc.Create(context.Background(), Course{Title: "Intro", CategoryID: 1})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), Course{Title: "Intro", CategoryID: 1})
	require.NoError(t, err)

	assert.Equal(t, "intro", first.Slug)
	assert.Equal(t, "intro-2", second.Slug)
}

func TestListCachesAndInvalidatesOnWrite(t *testing.T) {
	repo := newMockRepository()
	svc := newCachedService(t, repo)

	_, err := svc.Create(context.Background(), Course{Title: "Intro", CategoryID: 1})
	require.NoError(t, err)
	repo.listCalls = 0

	p := shared.NewPagination(1, 10, 0)
	_, _, err = svc.List(context.Background(), ListFilter{}, p)
	require.NoError(t, err)
	_, _, err = svc.List(context.Background(), ListFilter{}, p)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls, "second read must come from cache")

	// Any write invalidates every cached page.
	_, err = svc.Create(context.Background(), Course{Title: "Advanced", CategoryID: 1})
	require.NoError(t, err)

	list, total, err := svc.List(context.Background(), ListFilter{}, p)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)
}

func TestListDistinctFiltersGetDistinctCacheEntries(t *testing.T) {
	repo := newMockRepository()
	svc := newCachedService(t, repo)

	_, err := svc.Create(context.Background(), Course{Title: "Intro", CategoryID: 1})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), Course{Title: "Other", CategoryID: 2})
	require.NoError(t, err)

	p := shared.NewPagination(1, 10, 0)
	all, _, err := svc.List(context.Background(), ListFilter{}, p)
	require.NoError(t, err)
	filtered, _, err := svc.List(context.Background(), ListFilter{CategoryID: 2}, p)
	require.NoError(t, err)

	assert.Len(t, all, 2)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].CategoryID)
}

func TestServiceWorksWithoutCache(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(newMockRepository(), nil, logger)

	_, err := svc.Create(context.Background(), Course{Title: "Intro", CategoryID: 1})
	require.NoError(t, err)

	list, total, err := svc.List(context.Background(), ListFilter{}, shared.NewPagination(1, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)
}

func TestNewThumbnailKey(t *testing.T) {
	key := NewThumbnailKey(".PNG")
	assert.True(t, strings.HasPrefix(key, "course_thumbs/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, NewThumbnailKey(".png"))
}

func TestCreateCourseRequiresCategory(t *testing.T) {
	svc := newCachedService(t, newMockRepository())

	_, err := svc.Create(context.Background(), Course{Title: "Intro"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
