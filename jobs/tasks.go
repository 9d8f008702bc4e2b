package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTokenSweep clears expired access tokens from user rows.
	TaskTokenSweep = "token:sweep"
	// TaskActivityPrune deletes activity-log rows older than the retention window.
	TaskActivityPrune = "activity:prune"
)

// TokenSweepPayload scopes one sweep run. A zero Before means "now".
type TokenSweepPayload struct {
	Before time.Time `json:"before,omitempty"`
}

// NewTokenSweepTask constructs a token sweep task.
func NewTokenSweepTask(payload TokenSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTokenSweep, data), nil
}

// ActivityPrunePayload carries the retention window for one prune run.
type ActivityPrunePayload struct {
	RetentionHours int `json:"retention_hours"`
}

// NewActivityPruneTask constructs an activity prune task.
func NewActivityPruneTask(payload ActivityPrunePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskActivityPrune, data), nil
}
