package modules

import "time"

// Module is a named capability surface that permissions attach to. Gate checks
// reference modules by name, so names double as stable identifiers.
type Module struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
