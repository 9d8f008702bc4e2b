package chapters

import "time"

// Chapter is an ordered section of a course.
type Chapter struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"course_id"`
	Name        string    `json:"chapter_name"`
	Description *string   `json:"description,omitempty"`
	Order       int       `json:"order"`
	OwnerID     *int64    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Content is one entry inside a chapter: a video, document or quiz reference.
// Entries are returned in Order within their chapter.
type Content struct {
	ID          int64     `json:"id"`
	ChapterID   int64     `json:"chapter_id"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	Body        *string   `json:"body,omitempty"`
	MediaKey    *string   `json:"media_key,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChapterWithContents is the detail view: a chapter and its ordered entries.
type ChapterWithContents struct {
	Chapter
	Contents []Content `json:"contents"`
}
