package courses

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumen-lms/lumen/internal/platform/db"
	"github.com/lumen-lms/lumen/internal/shared"
)

type Repository interface {
	List(ctx context.Context, f ListFilter, p shared.Pagination) ([]Course, int, error)
	Get(ctx context.Context, id int64) (Course, error)
	GetBySlug(ctx context.Context, slug string) (Course, error)
	Create(ctx context.Context, c Course) (Course, error)
	Update(ctx context.Context, id int64, c Course) (Course, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const courseColumns = `id, title, slug, category_id, course_type, course_mode, course_price,
	subtitle, description, language, level, topic_tags, course_thumb, promo_video_url,
	user_id, created_at, updated_at`

func scanCourse(row pgx.Row) (Course, error) {
	var c Course
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.CategoryID, &c.CourseType, &c.CourseMode,
		&c.Price, &c.Subtitle, &c.Description, &c.Language, &c.Level, &c.TopicTags,
		&c.Thumbnail, &c.PromoVideoURL, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Course{}, shared.ErrNotFound
		}
		return Course{}, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, f ListFilter, p shared.Pagination) ([]Course, int, error) {
	where := ` WHERE 1=1`
	args := []any{}

	if f.CategoryID > 0 {
		args = append(args, f.CategoryID)
		where += ` AND category_id = $` + strconv.Itoa(len(args))
	}
	if f.CourseType != "" {
		args = append(args, f.CourseType)
		where += ` AND course_type = $` + strconv.Itoa(len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += ` AND title ILIKE $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("courses: count: %w", err)
	}

	args = append(args, p.PerPage)
	limitArg := strconv.Itoa(len(args))
	args = append(args, p.Offset())
	offsetArg := strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses`+where+
			` ORDER BY created_at DESC LIMIT $`+limitArg+` OFFSET $`+offsetArg,
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("courses: list: %w", err)
	}
	defer rows.Close()

	var out []Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Course, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	return scanCourse(row)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (Course, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE slug = $1`, slug)
	return scanCourse(row)
}

func (r *repository) Create(ctx context.Context, c Course) (Course, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO courses (title, slug, category_id, course_type, course_mode, course_price,
			subtitle, description, language, level, topic_tags, course_thumb, promo_video_url, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+courseColumns,
		c.Title, c.Slug, c.CategoryID, c.CourseType, c.CourseMode, c.Price,
		c.Subtitle, c.Description, c.Language, c.Level, c.TopicTags, c.Thumbnail,
		c.PromoVideoURL, c.OwnerID)
	created, err := scanCourse(row)
	if err != nil {
		if db.IsUniqueViolation(err, "courses_slug_key") {
			return Course{}, fmt.Errorf("%w: course slug already exists", shared.ErrDuplicate)
		}
		if db.IsForeignKeyViolation(err) {
			return Course{}, fmt.Errorf("%w: category does not exist", shared.ErrNotFound)
		}
		return Course{}, fmt.Errorf("courses: create: %w", err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, c Course) (Course, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE courses
		SET title = $2, category_id = $3, course_type = $4, course_mode = $5,
			course_price = $6, subtitle = $7, description = $8, language = $9,
			level = $10, topic_tags = $11, course_thumb = $12, promo_video_url = $13,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+courseColumns,
		id, c.Title, c.CategoryID, c.CourseType, c.CourseMode, c.Price,
		c.Subtitle, c.Description, c.Language, c.Level, c.TopicTags, c.Thumbnail,
		c.PromoVideoURL)
	updated, err := scanCourse(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Course{}, fmt.Errorf("%w: category does not exist", shared.ErrNotFound)
		}
		return Course{}, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("courses: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
