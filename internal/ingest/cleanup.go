package ingest

import (
	"context"
	"time"

	"careerhub/jobs-service/internal/model"
)

// Expirer is the slice of the job store the cleanup sweep needs.
type Expirer interface {
	MarkExpired(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cleanup expires active jobs not re-ingested within staleAfter, then
// purges expired jobs older than retention. Store errors propagate to the
// cron route.
func Cleanup(ctx context.Context, jobs Expirer, staleAfter, retention time.Duration) (*model.CleanupSummary, error) {
	now := time.Now().UTC()

	expired, err := jobs.MarkExpired(ctx, now.Add(-staleAfter))
	if err != nil {
		return nil, err
	}

	purged, err := jobs.PurgeExpired(ctx, now.Add(-retention))
	if err != nil {
		return nil, err
	}

	return &model.CleanupSummary{Expired: expired, Purged: purged}, nil
}
