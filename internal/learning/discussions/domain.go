package discussions

import "time"

// Discussion is a thread attached to a piece of course content.
type Discussion struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"course_id"`
	ChapterID int64     `json:"chapter_id"`
	ContentID int64     `json:"content_id"`
	UserID    int64     `json:"user_id"`
	Title     *string   `json:"title,omitempty"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a reply inside a discussion. ParentID nests replies one level.
type Comment struct {
	ID           int64     `json:"id"`
	DiscussionID int64     `json:"discussion_id"`
	UserID       int64     `json:"user_id"`
	ParentID     *int64    `json:"parent_id,omitempty"`
	Content      string    `json:"content"`
	Likes        int       `json:"likes"`
	CreatedAt    time.Time `json:"created_at"`
}

// Thread is the detail view: a discussion with its comments in posting order.
type Thread struct {
	Discussion
	Comments []Comment `json:"comments"`
}
