// Package rbac implements the role-permission matrix: it decides whether a
// set of roles grants an action on a named capability module.
package rbac

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lumen-lms/lumen/internal/shared"
)

// Action is one of the four permission flags a role can hold on a module.
type Action int

const (
	ActionCreate Action = iota
	ActionRead
	ActionUpdate
	ActionDelete
)

// String returns the wire name of the action.
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionRead:
		return "read"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseAction maps a wire name onto an Action.
func ParseAction(name string) (Action, error) {
	switch name {
	case "create":
		return ActionCreate, nil
	case "read":
		return ActionRead, nil
	case "update":
		return ActionUpdate, nil
	case "delete":
		return ActionDelete, nil
	default:
		return 0, fmt.Errorf("%w: unknown action %q", shared.ErrInvalidInput, name)
	}
}

// Flags holds the four independent permission booleans of one matrix row.
type Flags struct {
	Create bool `json:"can_create"`
	Read   bool `json:"can_read"`
	Update bool `json:"can_update"`
	Delete bool `json:"can_delete"`
}

// Allows reports whether the flag for the given action is set. The lookup is
// an explicit switch; no field-name reflection.
func (f Flags) Allows(a Action) bool {
	switch a {
	case ActionCreate:
		return f.Create
	case ActionRead:
		return f.Read
	case ActionUpdate:
		return f.Update
	case ActionDelete:
		return f.Delete
	default:
		return false
	}
}

// FlagsFromList converts the ordered wire tuple [create, read, update, delete]
// into Flags. Any other length is rejected.
func FlagsFromList(values []int) (Flags, error) {
	if len(values) != 4 {
		return Flags{}, fmt.Errorf("%w: permission flags must have exactly 4 entries, got %d", shared.ErrInvalidInput, len(values))
	}
	return Flags{
		Create: values[0] != 0,
		Read:   values[1] != 0,
		Update: values[2] != 0,
		Delete: values[3] != 0,
	}, nil
}

// Permission is one row of the matrix, unique per (role, module).
type Permission struct {
	ID       int64 `json:"id"`
	RoleID   int64 `json:"role_id"`
	ModuleID int64 `json:"module_id"`
	Flags
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPermission is a resolved permission row joined with its module, as
// returned by the user-permissions listing.
type UserPermission struct {
	ID         int64  `json:"id"`
	RoleID     int64  `json:"role_id"`
	RoleName   string `json:"role_name"`
	ModuleID   int64  `json:"module_id"`
	ModuleName string `json:"module_name"`
	Flags
}

// Guard produces a middleware enforcing (module, action) on a route group.
// The concrete implementation lives in the auth package; resource handlers
// depend only on this signature.
type Guard func(module string, action Action) func(http.Handler) http.Handler
