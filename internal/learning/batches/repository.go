package batches

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
	List(ctx context.Context, p shared.Pagination) ([]Batch, int, error)
	Get(ctx context.Context, id int64) (Batch, error)
	Create(ctx context.Context, b Batch) (Batch, error)
	Update(ctx context.Context, id int64, b Batch) (Batch, error)
	Delete(ctx context.Context, id int64) error

	Assign(ctx context.Context, batchID int64, studentIDs []int64) ([]Assignment, error)
	Assignments(ctx context.Context, batchID int64) ([]Assignment, error)
	Unassign(ctx context.Context, batchID, studentID int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const batchColumns = `id, name, description, course_id, session_id, semester_id,
	start_date, end_date, status, user_id, created_at, updated_at`

func scanBatch(row pgx.Row) (Batch, error) {
	var b Batch
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.CourseID, &b.SessionID,
		&b.SemesterID, &b.StartDate, &b.EndDate, &b.Status, &b.OwnerID,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Batch{}, shared.ErrNotFound
		}
		return Batch{}, err
	}
	return b, nil
}

func (r *repository) List(ctx context.Context, p shared.Pagination) ([]Batch, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM student_batches`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("batches: count: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+batchColumns+` FROM student_batches ORDER BY start_date DESC LIMIT $1 OFFSET $2`,
		p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("batches: list: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Batch, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+batchColumns+` FROM student_batches WHERE id = $1`, id)
	return scanBatch(row)
}

func (r *repository) Create(ctx context.Context, b Batch) (Batch, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO student_batches (name, description, course_id, session_id, semester_id,
			start_date, end_date, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+batchColumns,
		b.Name, b.Description, b.CourseID, b.SessionID, b.SemesterID,
		b.StartDate, b.EndDate, b.Status, b.OwnerID)
	created, err := scanBatch(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Batch{}, fmt.Errorf("%w: course does not exist", shared.ErrNotFound)
		}
		return Batch{}, fmt.Errorf("batches: create: %w", err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, b Batch) (Batch, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE student_batches
		SET name = $2, description = $3, session_id = $4, semester_id = $5,
			start_date = $6, end_date = $7, status = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING `+batchColumns,
		id, b.Name, b.Description, b.SessionID, b.SemesterID,
		b.StartDate, b.EndDate, b.Status)
	return scanBatch(row)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM student_batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("batches: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Assign inserts the batch assignments in one transaction. ON CONFLICT DO
// NOTHING keeps re-assignment idempotent under the unique (batch, student)
// constraint.
func (r *repository) Assign(ctx context.Context, batchID int64, studentIDs []int64) ([]Assignment, error) {
	var created []Assignment
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, studentID := range studentIDs {
			row := tx.QueryRow(ctx, `
				INSERT INTO student_batch_assignments (batch_id, student_id)
				VALUES ($1, $2)
				ON CONFLICT (batch_id, student_id) DO NOTHING
				RETURNING id, batch_id, student_id, created_at`,
				batchID, studentID)
			var a Assignment
			err := row.Scan(&a.ID, &a.BatchID, &a.StudentID, &a.CreatedAt)
			if errors.Is(err, pgx.ErrNoRows) {
				continue // already assigned
			}
			if err != nil {
				return err
			}
			created = append(created, a)
		}
		return nil
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: batch or student does not exist", shared.ErrNotFound)
		}
		return nil, fmt.Errorf("batches: assign: %w", err)
	}
	return created, nil
}

func (r *repository) Assignments(ctx context.Context, batchID int64) ([]Assignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, batch_id, student_id, created_at
		FROM student_batch_assignments
		WHERE batch_id = $1
		ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("batches: list assignments: %w", err)
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.BatchID, &a.StudentID, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) Unassign(ctx context.Context, batchID, studentID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM student_batch_assignments WHERE batch_id = $1 AND student_id = $2`,
		batchID, studentID)
	if err != nil {
		return fmt.Errorf("batches: unassign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
