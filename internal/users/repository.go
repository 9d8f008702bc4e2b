package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumen-lms/lumen/internal/auth"
	"github.com/lumen-lms/lumen/internal/platform/db"
	"github.com/lumen-lms/lumen/internal/shared"
)

// Repository covers the administrative user operations: listing, profile
// updates and role-set replacement. Credential flows live in the auth package.
type Repository interface {
	List(ctx context.Context, p shared.Pagination) ([]auth.User, int, error)
	Get(ctx context.Context, id int64) (*auth.User, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*auth.User, error)
	Delete(ctx context.Context, id int64) error
	RoleNames(ctx context.Context, userID int64) ([]string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const userColumns = `id, name, username, email, mobile, dob, father_name, mother_name,
	hashed_password, access_token, token_expiry, profile_picture, created_at, updated_at`

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Mobile, &u.DOB,
		&u.FatherName, &u.MotherName, &u.HashedPassword, &u.AccessToken,
		&u.TokenExpiry, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) List(ctx context.Context, p shared.Pagination) ([]auth.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("users: count: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var out []auth.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *u)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Update rewrites the profile fields and, when RoleIDs is non-nil, replaces
// the whole role assignment set in the same transaction.
func (r *repository) Update(ctx context.Context, id int64, in UpdateInput) (*auth.User, error) {
	var updated *auth.User
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			UPDATE users
			SET name = $2, email = $3, mobile = $4, dob = $5,
				father_name = $6, mother_name = $7, profile_picture = $8,
				updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns,
			id, in.Name, in.Email, in.Mobile, in.DOB,
			in.FatherName, in.MotherName, in.ProfilePicture)
		u, err := scanUser(row)
		if err != nil {
			return err
		}
		if in.RoleIDs != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
				return err
			}
			for _, roleID := range in.RoleIDs {
				if _, err := tx.Exec(ctx,
					`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
					id, roleID); err != nil {
					return err
				}
			}
		}
		updated = u
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			return nil, shared.ErrDuplicateEmail
		}
		if db.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: role does not exist", shared.ErrNotFound)
		}
		return nil, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) RoleNames(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("users: query role names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
