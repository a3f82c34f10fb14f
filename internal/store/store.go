// Package store implements persistence for jobs, quota counters and alert
// subscribers on PostgreSQL.
package store

import (
	"context"
	"fmt"
	"time"

	"careerhub/jobs-service/internal/model"
)

// ErrNotFound is returned when a record is missing.
var ErrNotFound = fmt.Errorf("record not found")

// JobStore is the persistence contract for ingested jobs.
type JobStore interface {
	// UpsertJob inserts or updates by external id. Reports whether the
	// record was newly inserted.
	UpsertJob(ctx context.Context, job model.IngestedJob) (bool, error)
	// MarkExpired flips active jobs untouched since cutoff to expired.
	MarkExpired(ctx context.Context, cutoff time.Time) (int64, error)
	// PurgeExpired deletes expired jobs untouched since cutoff.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
	// SearchJobs returns one page of active jobs (ingested + admin-authored)
	// matching the params.
	SearchJobs(ctx context.Context, params model.SearchParams) (*model.SearchPage, error)
}

// QuotaStore tracks upstream API calls per calendar month.
type QuotaStore interface {
	Increment(ctx context.Context) error
	Used(ctx context.Context) (int, error)
}

// SubscriberStore is the persistence contract for job-alert subscribers.
type SubscriberStore interface {
	CreateSubscriber(ctx context.Context, sub *model.AlertSubscriber) error
	// Unsubscribe deactivates the subscriber holding token.
	// Returns ErrNotFound for an unknown token.
	Unsubscribe(ctx context.Context, token string) error
	// ListDueSubscribers returns active subscribers whose frequency window
	// has elapsed since their last notification.
	ListDueSubscribers(ctx context.Context, now time.Time) ([]model.AlertSubscriber, error)
	MarkNotified(ctx context.Context, subscriberID string, at time.Time) error
	// FilterUnsent drops external ids already mailed to the subscriber.
	FilterUnsent(ctx context.Context, subscriberID string, externalIDs []string) ([]string, error)
	MarkSent(ctx context.Context, subscriberID string, externalIDs []string) error
}

// AdminJobStore is the persistence contract for admin-authored listings.
type AdminJobStore interface {
	CreateAdminJob(ctx context.Context, job *model.AdminJob) error
	GetAdminJob(ctx context.Context, id string) (*model.AdminJob, error)
	ListAdminJobs(ctx context.Context) ([]model.AdminJob, error)
	UpdateAdminJob(ctx context.Context, job *model.AdminJob) error
	DeleteAdminJob(ctx context.Context, id string) error
}
