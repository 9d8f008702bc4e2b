package discussions

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
	ListByContent(ctx context.Context, contentID int64, p shared.Pagination) ([]Discussion, int, error)
	Get(ctx context.Context, id int64) (Discussion, error)
	Create(ctx context.Context, d Discussion) (Discussion, error)
	Delete(ctx context.Context, id int64) error
	Like(ctx context.Context, id int64) (int, error)

	Comments(ctx context.Context, discussionID int64) ([]Comment, error)
	AddComment(ctx context.Context, c Comment) (Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const discussionColumns = `id, course_id, chapter_id, content_id, user_id, title, content,
	likes, created_at, updated_at`

func scanDiscussion(row pgx.Row) (Discussion, error) {
	var d Discussion
	err := row.Scan(&d.ID, &d.CourseID, &d.ChapterID, &d.ContentID, &d.UserID,
		&d.Title, &d.Content, &d.Likes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Discussion{}, shared.ErrNotFound
		}
		return Discussion{}, err
	}
	return d, nil
}

func (r *repository) ListByContent(ctx context.Context, contentID int64, p shared.Pagination) ([]Discussion, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM discussions WHERE content_id = $1`, contentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("discussions: count: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+discussionColumns+` FROM discussions
		 WHERE content_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		contentID, p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("discussions: list: %w", err)
	}
	defer rows.Close()

	var out []Discussion
	for rows.Next() {
		d, err := scanDiscussion(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Discussion, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+discussionColumns+` FROM discussions WHERE id = $1`, id)
	return scanDiscussion(row)
}

func (r *repository) Create(ctx context.Context, d Discussion) (Discussion, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO discussions (course_id, chapter_id, content_id, user_id, title, content)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+discussionColumns,
		d.CourseID, d.ChapterID, d.ContentID, d.UserID, d.Title, d.Content)
	created, err := scanDiscussion(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Discussion{}, fmt.Errorf("%w: referenced course, chapter or content does not exist", shared.ErrNotFound)
		}
		return Discussion{}, fmt.Errorf("discussions: create: %w", err)
	}
	return created, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM discussions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("discussions: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Like(ctx context.Context, id int64) (int, error) {
	var likes int
	err := r.pool.QueryRow(ctx,
		`UPDATE discussions SET likes = likes + 1, updated_at = NOW() WHERE id = $1 RETURNING likes`,
		id).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, fmt.Errorf("discussions: like: %w", err)
	}
	return likes, nil
}

func (r *repository) Comments(ctx context.Context, discussionID int64) ([]Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, discussion_id, user_id, parent_id, content, likes, created_at
		FROM discussion_comments
		WHERE discussion_id = $1
		ORDER BY created_at, id`, discussionID)
	if err != nil {
		return nil, fmt.Errorf("discussions: list comments: %w", err)
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.DiscussionID, &c.UserID, &c.ParentID,
			&c.Content, &c.Likes, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) AddComment(ctx context.Context, c Comment) (Comment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO discussion_comments (discussion_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, discussion_id, user_id, parent_id, content, likes, created_at`,
		c.DiscussionID, c.UserID, c.ParentID, c.Content)
	var created Comment
	err := row.Scan(&created.ID, &created.DiscussionID, &created.UserID,
		&created.ParentID, &created.Content, &created.Likes, &created.CreatedAt)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Comment{}, fmt.Errorf("%w: discussion does not exist", shared.ErrNotFound)
		}
		return Comment{}, fmt.Errorf("discussions: add comment: %w", err)
	}
	return created, nil
}

func (r *repository) DeleteComment(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM discussion_comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("discussions: delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
