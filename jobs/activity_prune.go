package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/lumen-lms/lumen/internal/jobs"
)

// ActivityPruner deletes activity-log rows older than a cutoff.
type ActivityPruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ActivityPruneJob deletes activity-log rows older than the retention window.
type ActivityPruneJob struct {
	activity ActivityPruner
	logger   *slog.Logger
	metrics  *jobmetrics.Metrics
}

// NewActivityPruneJob constructs an ActivityPruneJob.
func NewActivityPruneJob(activity ActivityPruner, logger *slog.Logger, metrics *jobmetrics.Metrics) *ActivityPruneJob {
	return &ActivityPruneJob{activity: activity, logger: logger, metrics: metrics}
}

// Handle processes TaskActivityPrune tasks.
func (j *ActivityPruneJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track("activity_prune")

	var payload ActivityPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	if payload.RetentionHours <= 0 {
		payload.RetentionHours = 24 * 90
	}

	cutoff := time.Now().UTC().Add(-time.Duration(payload.RetentionHours) * time.Hour)
	pruned, err := j.activity.PruneBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("activity prune", slog.Any("error", err))
		return tracker.End(err)
	}
	if pruned > 0 {
		j.logger.Info("activity prune", slog.Int64("deleted", pruned), slog.Time("cutoff", cutoff))
	}
	return tracker.End(nil)
}
