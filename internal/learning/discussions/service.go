package discussions

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumen-lms/lumen/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByContent(ctx context.Context, contentID int64, p shared.Pagination) ([]Discussion, int, error) {
	if contentID <= 0 {
		return nil, 0, fmt.Errorf("%w: invalid content id", shared.ErrInvalidInput)
	}
	return s.repo.ListByContent(ctx, contentID, p)
}

// Get returns the discussion with its comments in posting order.
func (s *Service) Get(ctx context.Context, id int64) (*Thread, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid discussion id", shared.ErrInvalidInput)
	}
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.Comments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Thread{Discussion: d, Comments: comments}, nil
}

func (s *Service) Create(ctx context.Context, d Discussion) (Discussion, error) {
	d.Content = strings.TrimSpace(d.Content)
	if d.Content == "" {
		return Discussion{}, fmt.Errorf("%w: discussion content is required", shared.ErrInvalidInput)
	}
	if d.CourseID <= 0 || d.ChapterID <= 0 || d.ContentID <= 0 {
		return Discussion{}, fmt.Errorf("%w: course, chapter and content are required", shared.ErrInvalidInput)
	}
	if d.UserID <= 0 {
		return Discussion{}, fmt.Errorf("%w: author is required", shared.ErrInvalidInput)
	}
	return s.repo.Create(ctx, d)
}

// Delete removes a discussion. The author may delete their own thread;
// moderators pass moderator=true to delete any.
func (s *Service) Delete(ctx context.Context, id, requesterID int64, moderator bool) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid discussion id", shared.ErrInvalidInput)
	}
	if !moderator {
		d, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if d.UserID != requesterID {
			return shared.ErrPermissionDenied
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Like(ctx context.Context, id int64) (int, error) {
	if id <= 0 {
		return 0, fmt.Errorf("%w: invalid discussion id", shared.ErrInvalidInput)
	}
	return s.repo.Like(ctx, id)
}

func (s *Service) AddComment(ctx context.Context, c Comment) (Comment, error) {
	c.Content = strings.TrimSpace(c.Content)
	if c.Content == "" {
		return Comment{}, fmt.Errorf("%w: comment content is required", shared.ErrInvalidInput)
	}
	if c.DiscussionID <= 0 || c.UserID <= 0 {
		return Comment{}, fmt.Errorf("%w: discussion and author are required", shared.ErrInvalidInput)
	}
	return s.repo.AddComment(ctx, c)
}

func (s *Service) DeleteComment(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid comment id", shared.ErrInvalidInput)
	}
	return s.repo.DeleteComment(ctx, id)
}
