package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumen-lms/lumen/internal/shared"
)

// Repository provides persistence for the permission matrix.
type Repository interface {
	// FlagsForRoles returns the permission flags of every (role, module) row
	// matching the role set and module name, as a flat list.
	FlagsForRoles(ctx context.Context, roleIDs []int64, moduleName string) ([]Flags, error)
	// Upsert writes the single permission row for (roleID, moduleID),
	// overwriting the flags if the row already exists.
	Upsert(ctx context.Context, roleID, moduleID int64, flags Flags) (Permission, error)
	// PermissionsForUser returns the permission rows of all the user's roles
	// joined with their modules.
	PermissionsForUser(ctx context.Context, userID int64) ([]UserPermission, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) FlagsForRoles(ctx context.Context, roleIDs []int64, moduleName string) ([]Flags, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT p.can_create, p.can_read, p.can_update, p.can_delete
		FROM permissions p
		JOIN modules m ON m.id = p.module_id
		WHERE p.role_id = ANY($1) AND m.name = $2`,
		roleIDs, moduleName)
	if err != nil {
		return nil, fmt.Errorf("rbac: query flags: %w", err)
	}
	defer rows.Close()

	var flags []Flags
	for rows.Next() {
		var f Flags
		if err := rows.Scan(&f.Create, &f.Read, &f.Update, &f.Delete); err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}
	return flags, rows.Err()
}

func (r *repository) Upsert(ctx context.Context, roleID, moduleID int64, flags Flags) (Permission, error) {
	var perm Permission
	err := r.pool.QueryRow(ctx, `
		INSERT INTO permissions (role_id, module_id, can_create, can_read, can_update, can_delete)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (role_id, module_id) DO UPDATE SET
			can_create = EXCLUDED.can_create,
			can_read   = EXCLUDED.can_read,
			can_update = EXCLUDED.can_update,
			can_delete = EXCLUDED.can_delete,
			updated_at = NOW()
		RETURNING id, role_id, module_id, can_create, can_read, can_update, can_delete, created_at, updated_at`,
		roleID, moduleID, flags.Create, flags.Read, flags.Update, flags.Delete).
		Scan(&perm.ID, &perm.RoleID, &perm.ModuleID,
			&perm.Create, &perm.Read, &perm.Update, &perm.Delete,
			&perm.CreatedAt, &perm.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Permission{}, fmt.Errorf("%w: role or module does not exist", shared.ErrNotFound)
		}
		return Permission{}, fmt.Errorf("rbac: upsert permission: %w", err)
	}
	return perm, nil
}

func (r *repository) PermissionsForUser(ctx context.Context, userID int64) ([]UserPermission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.role_id, r.name, p.module_id, m.name,
		       p.can_create, p.can_read, p.can_update, p.can_delete
		FROM permissions p
		JOIN roles r ON r.id = p.role_id
		JOIN modules m ON m.id = p.module_id
		JOIN user_roles ur ON ur.role_id = p.role_id
		WHERE ur.user_id = $1
		ORDER BY m.name, r.name`,
		userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("rbac: query user permissions: %w", err)
	}
	defer rows.Close()

	var perms []UserPermission
	for rows.Next() {
		var p UserPermission
		if err := rows.Scan(&p.ID, &p.RoleID, &p.RoleName, &p.ModuleID, &p.ModuleName,
			&p.Create, &p.Read, &p.Update, &p.Delete); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
