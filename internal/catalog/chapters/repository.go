package chapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumen-lms/lumen/internal/platform/db"
	"github.com/lumen-lms/lumen/internal/shared"
)

type Repository interface {
	ListByCourse(ctx context.Context, courseID int64) ([]Chapter, error)
	Get(ctx context.Context, id int64) (Chapter, error)
	CreateBatch(ctx context.Context, courseID int64, ownerID *int64, chapters []Chapter) ([]Chapter, error)
	Update(ctx context.Context, id int64, ch Chapter) (Chapter, error)
	Delete(ctx context.Context, id int64) error

	Contents(ctx context.Context, chapterID int64) ([]Content, error)
	AddContent(ctx context.Context, c Content) (Content, error)
	UpdateContent(ctx context.Context, id int64, c Content) (Content, error)
	DeleteContent(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const chapterColumns = `id, course_id, chapter_name, description, "order", user_id, created_at, updated_at`
const contentColumns = `id, chapter_id, title, content_type, body, media_key, "order", created_at, updated_at`

func scanChapter(row pgx.Row) (Chapter, error) {
	var ch Chapter
	err := row.Scan(&ch.ID, &ch.CourseID, &ch.Name, &ch.Description, &ch.Order,
		&ch.OwnerID, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Chapter{}, shared.ErrNotFound
		}
		return Chapter{}, err
	}
	return ch, nil
}

func scanContent(row pgx.Row) (Content, error) {
	var c Content
	err := row.Scan(&c.ID, &c.ChapterID, &c.Title, &c.ContentType, &c.Body,
		&c.MediaKey, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Content{}, shared.ErrNotFound
		}
		return Content{}, err
	}
	return c, nil
}

func (r *repository) ListByCourse(ctx context.Context, courseID int64) ([]Chapter, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+chapterColumns+` FROM course_chapters WHERE course_id = $1 ORDER BY "order", id`,
		courseID)
	if err != nil {
		return nil, fmt.Errorf("chapters: list: %w", err)
	}
	defer rows.Close()

	var out []Chapter
	for rows.Next() {
		ch, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Chapter, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+chapterColumns+` FROM course_chapters WHERE id = $1`, id)
	return scanChapter(row)
}

// CreateBatch inserts all chapters for a course in one transaction so a partial
// outline never becomes visible.
func (r *repository) CreateBatch(ctx context.Context, courseID int64, ownerID *int64, chapters []Chapter) ([]Chapter, error) {
	var created []Chapter
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, ch := range chapters {
			row := tx.QueryRow(ctx, `
				INSERT INTO course_chapters (course_id, chapter_name, description, "order", user_id)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING `+chapterColumns,
				courseID, ch.Name, ch.Description, ch.Order, ownerID)
			inserted, err := scanChapter(row)
			if err != nil {
				return err
			}
			created = append(created, inserted)
		}
		return nil
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: course does not exist", shared.ErrNotFound)
		}
		return nil, fmt.Errorf("chapters: create batch: %w", err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, ch Chapter) (Chapter, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE course_chapters
		SET chapter_name = $2, description = $3, "order" = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+chapterColumns,
		id, ch.Name, ch.Description, ch.Order)
	return scanChapter(row)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM course_chapters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("chapters: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Contents(ctx context.Context, chapterID int64) ([]Content, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contentColumns+` FROM chapter_contents WHERE chapter_id = $1 ORDER BY "order", id`,
		chapterID)
	if err != nil {
		return nil, fmt.Errorf("chapters: list contents: %w", err)
	}
	defer rows.Close()

	var out []Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) AddContent(ctx context.Context, c Content) (Content, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO chapter_contents (chapter_id, title, content_type, body, media_key, "order")
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contentColumns,
		c.ChapterID, c.Title, c.ContentType, c.Body, c.MediaKey, c.Order)
	created, err := scanContent(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Content{}, fmt.Errorf("%w: chapter does not exist", shared.ErrNotFound)
		}
		return Content{}, fmt.Errorf("chapters: add content: %w", err)
	}
	return created, nil
}

func (r *repository) UpdateContent(ctx context.Context, id int64, c Content) (Content, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE chapter_contents
		SET title = $2, content_type = $3, body = $4, media_key = $5, "order" = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING `+contentColumns,
		id, c.Title, c.ContentType, c.Body, c.MediaKey, c.Order)
	return scanContent(row)
}

func (r *repository) DeleteContent(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM chapter_contents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("chapters: delete content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
