package categories

import "time"

// Category groups courses. Categories nest through ParentID; a nil parent
// marks a top-level category.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Keyword     *string   `json:"keyword,omitempty"`
	ParentID    *int64    `json:"parent_category_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
