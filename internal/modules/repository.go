package modules

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
	List(ctx context.Context, p shared.Pagination) ([]Module, int, error)
	Get(ctx context.Context, id int64) (Module, error)
	Create(ctx context.Context, module Module) (Module, error)
	Update(ctx context.Context, id int64, module Module) (Module, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const moduleColumns = `id, name, description, created_at, updated_at`

func scanModule(row pgx.Row) (Module, error) {
	var m Module
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Module{}, shared.ErrNotFound
		}
		return Module{}, err
	}
	return m, nil
}

func (r *repository) List(ctx context.Context, p shared.Pagination) ([]Module, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM modules`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("modules: count: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+moduleColumns+` FROM modules ORDER BY name LIMIT $1 OFFSET $2`,
		p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("modules: list: %w", err)
	}
	defer rows.Close()

	var out []Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Module, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+moduleColumns+` FROM modules WHERE id = $1`, id)
	return scanModule(row)
}

func (r *repository) Create(ctx context.Context, module Module) (Module, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO modules (name, description)
		VALUES ($1, $2)
		RETURNING `+moduleColumns,
		module.Name, module.Description)
	created, err := scanModule(row)
	if err != nil {
		if db.IsUniqueViolation(err, "modules_name_key") {
			return Module{}, shared.ErrDuplicateModuleName
		}
		return Module{}, fmt.Errorf("modules: create: %w", err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, module Module) (Module, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE modules SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+moduleColumns,
		id, module.Name, module.Description)
	updated, err := scanModule(row)
	if err != nil {
		if db.IsUniqueViolation(err, "modules_name_key") {
			return Module{}, shared.ErrDuplicateModuleName
		}
		return Module{}, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("modules: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
