package batches

import "time"

// Batch is a cohort of students working through a course together.
type Batch struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CourseID    int64     `json:"course_id"`
	SessionID   string    `json:"session_id"`
	SemesterID  string    `json:"semester_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	OwnerID     *int64    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Assignment links one student to one batch. The (batch, student) pair is
// unique; re-assigning is a no-op, not an error.
type Assignment struct {
	ID        int64     `json:"id"`
	BatchID   int64     `json:"batch_id"`
	StudentID int64     `json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
}
