package categories

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
	List(ctx context.Context, p shared.Pagination) ([]Category, int, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, c Category) (Category, error)
	Update(ctx context.Context, id int64, c Category) (Category, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const categoryColumns = `id, name, description, keyword, parent_category_id, created_at, updated_at`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Keyword, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, p shared.Pagination) ([]Category, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM course_categories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("categories: count: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM course_categories ORDER BY name LIMIT $1 OFFSET $2`,
		p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("categories: list: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM course_categories WHERE id = $1`, id)
	return scanCategory(row)
}

func (r *repository) Create(ctx context.Context, c Category) (Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO course_categories (name, description, keyword, parent_category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		c.Name, c.Description, c.Keyword, c.ParentID)
	created, err := scanCategory(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Category{}, fmt.Errorf("%w: parent category does not exist", shared.ErrNotFound)
		}
		return Category{}, fmt.Errorf("categories: create: %w", err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, c Category) (Category, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE course_categories
		SET name = $2, description = $3, keyword = $4, parent_category_id = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+categoryColumns,
		id, c.Name, c.Description, c.Keyword, c.ParentID)
	updated, err := scanCategory(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Category{}, fmt.Errorf("%w: parent category does not exist", shared.ErrNotFound)
		}
		return Category{}, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM course_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("categories: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
