package shared

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Activity log actions recorded by the auth flow.
const (
	ActivityLogin  = "login"
	ActivityLogout = "logout"
)

// ActivityLogger appends entries to the activity_logs table. The log is
// append-only and is never consulted by the authorization path.
type ActivityLogger struct {
	pool *pgxpool.Pool
}

// NewActivityLogger returns a new ActivityLogger.
func NewActivityLogger(pool *pgxpool.Pool) *ActivityLogger {
	return &ActivityLogger{pool: pool}
}

// Record persists one activity entry for the user.
func (l *ActivityLogger) Record(ctx context.Context, userID int64, action string) error {
	if l == nil {
		return errors.New("activity logger not initialised")
	}
	if action == "" {
		return errors.New("activity log requires an action")
	}
	_, err := l.pool.Exec(ctx,
		`INSERT INTO activity_logs (user_id, action, occurred_at) VALUES ($1, $2, $3)`,
		userID, action, time.Now().UTC())
	return err
}

// PruneBefore deletes activity entries older than the cutoff. Used by the
// background retention job only.
func (l *ActivityLogger) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := l.pool.Exec(ctx,
		`DELETE FROM activity_logs WHERE occurred_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
