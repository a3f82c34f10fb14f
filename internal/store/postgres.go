package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements JobStore, QuotaStore, SubscriberStore and
// AdminJobStore on a single pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps pool and creates any missing tables.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	p := &Postgres{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return p, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ingested_jobs (
		external_id      TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		company          TEXT NOT NULL DEFAULT '',
		location         TEXT NOT NULL DEFAULT '',
		employment_type  TEXT NOT NULL DEFAULT 'Full-time',
		experience_level TEXT NOT NULL DEFAULT 'Mid-level',
		description      TEXT NOT NULL DEFAULT '',
		salary_min       INTEGER NOT NULL DEFAULT 0,
		salary_max       INTEGER NOT NULL DEFAULT 0,
		remote           BOOLEAN NOT NULL DEFAULT false,
		quality          TEXT NOT NULL DEFAULT 'medium',
		apply_url        TEXT NOT NULL DEFAULT '',
		posted_at        TIMESTAMPTZ,
		status           TEXT NOT NULL DEFAULT 'active',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ingested_jobs_status ON ingested_jobs (status, updated_at)`,
	`CREATE TABLE IF NOT EXISTS admin_jobs (
		id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title            TEXT NOT NULL,
		company          TEXT NOT NULL DEFAULT '',
		location         TEXT NOT NULL DEFAULT '',
		employment_type  TEXT NOT NULL DEFAULT 'Full-time',
		experience_level TEXT NOT NULL DEFAULT 'Mid-level',
		description      TEXT NOT NULL DEFAULT '',
		salary_min       INTEGER NOT NULL DEFAULT 0,
		salary_max       INTEGER NOT NULL DEFAULT 0,
		remote           BOOLEAN NOT NULL DEFAULT false,
		apply_url        TEXT NOT NULL DEFAULT '',
		posted_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS usage_counters (
		period     TEXT PRIMARY KEY,
		used       INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS alert_subscribers (
		id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email             TEXT NOT NULL UNIQUE,
		name              TEXT NOT NULL DEFAULT '',
		keywords          TEXT[] NOT NULL,
		locations         TEXT[] NOT NULL DEFAULT '{}',
		remote_only       BOOLEAN NOT NULL DEFAULT false,
		employment_types  TEXT[] NOT NULL DEFAULT '{}',
		frequency         TEXT NOT NULL DEFAULT 'weekly',
		unsubscribe_token TEXT NOT NULL UNIQUE,
		is_active         BOOLEAN NOT NULL DEFAULT true,
		last_notified_at  TIMESTAMPTZ,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS alert_sent_jobs (
		subscriber_id UUID NOT NULL REFERENCES alert_subscribers(id) ON DELETE CASCADE,
		external_id   TEXT NOT NULL,
		sent_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (subscriber_id, external_id)
	)`,
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}
