package courses

import "time"

// Course is a catalog entry. Slug is derived from the title at create time and
// must stay unique; Thumbnail holds an opaque blob-store key, not a URL.
type Course struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	CategoryID    int64     `json:"category_id"`
	CourseType    string    `json:"course_type"`
	CourseMode    string    `json:"course_mode"`
	Price         float64   `json:"course_price"`
	Subtitle      *string   `json:"subtitle,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Language      string    `json:"language"`
	Level         string    `json:"level"`
	TopicTags     *string   `json:"topic_tags,omitempty"`
	Thumbnail     *string   `json:"course_thumb,omitempty"`
	PromoVideoURL *string   `json:"promo_video_url,omitempty"`
	OwnerID       *int64    `json:"user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListFilter narrows course listings.
type ListFilter struct {
	CategoryID int64
	CourseType string
	Search     string
}
