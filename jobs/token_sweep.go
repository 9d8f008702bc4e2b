package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/lumen-lms/lumen/internal/jobs"
)

// TokenSweepJob nulls out access tokens whose expiry has passed. This is
// hygiene only: the gate re-checks expiry on every request, so a missed sweep
// never extends a session.
type TokenSweepJob struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewTokenSweepJob constructs a TokenSweepJob.
func NewTokenSweepJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *TokenSweepJob {
	return &TokenSweepJob{pool: pool, logger: logger, metrics: metrics}
}

// Handle processes TaskTokenSweep tasks.
func (j *TokenSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track("token_sweep")

	var payload TokenSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	before := payload.Before
	if before.IsZero() {
		before = time.Now().UTC()
	}

	tag, err := j.pool.Exec(ctx, `
		UPDATE users
		SET access_token = NULL, token_expiry = NULL, updated_at = NOW()
		WHERE token_expiry IS NOT NULL AND token_expiry < $1`,
		before.UTC())
	if err != nil {
		j.logger.Error("token sweep", slog.Any("error", err))
		return tracker.End(err)
	}

	if swept := tag.RowsAffected(); swept > 0 {
		j.logger.Info("token sweep", slog.Int64("cleared", swept))
	}
	return tracker.End(nil)
}
