package roles

import "time"

// Role is a named grant target. Permissions attach to roles, never to users
// directly; users acquire capabilities through role assignment.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
