package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumen-lms/lumen/internal/platform/db"
	"github.com/lumen-lms/lumen/internal/shared"
)

// Repository is the credential store: it owns the users table and the
// user-role assignments consulted by the gate.
type Repository interface {
	Create(ctx context.Context, user *User, roleID *int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	StoreToken(ctx context.Context, userID int64, token string, expiry time.Time) error
	ClearToken(ctx context.Context, userID int64) error
	RoleIDs(ctx context.Context, userID int64) ([]int64, error)
	RoleNames(ctx context.Context, userID int64) ([]string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed credential store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const userColumns = `id, name, username, email, mobile, dob, father_name, mother_name,
	hashed_password, access_token, token_expiry, profile_picture, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
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

func (r *repository) Create(ctx context.Context, user *User, roleID *int64) (*User, error) {
	var created *User
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO users (name, username, email, mobile, dob, father_name, mother_name, hashed_password)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+userColumns,
			user.Name, user.Username, user.Email, user.Mobile, user.DOB,
			user.FatherName, user.MotherName, user.HashedPassword)
		u, err := scanUser(row)
		if err != nil {
			return err
		}
		if roleID != nil {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
				u.ID, *roleID); err != nil {
				return err
			}
		}
		created = u
		return nil
	})
	if err != nil {
		switch {
		case db.IsUniqueViolation(err, "users_username_key"):
			return nil, shared.ErrDuplicateUsername
		case db.IsUniqueViolation(err, "users_email_key"):
			return nil, shared.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return created, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *repository) StoreToken(ctx context.Context, userID int64, token string, expiry time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET access_token = $2, token_expiry = $3, updated_at = NOW()
		WHERE id = $1`,
		userID, token, expiry.UTC())
	if err != nil {
		return fmt.Errorf("auth: store token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ClearToken(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET access_token = NULL, token_expiry = NULL, updated_at = NOW()
		WHERE id = $1`,
		userID)
	if err != nil {
		return fmt.Errorf("auth: clear token: %w", err)
	}
	return nil
}

func (r *repository) RoleIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT role_id FROM user_roles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("auth: query role ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repository) RoleNames(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("auth: query role names: %w", err)
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
