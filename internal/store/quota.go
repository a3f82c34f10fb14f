package store

import (
	"context"
	"fmt"
	"time"
)

const periodLayout = "2006-01"

// Increment bumps the upstream-call counter for the current month.
// Atomicity is whatever the single-statement UPDATE provides; concurrent
// increments may interleave but never lose the row.
func (p *Postgres) Increment(ctx context.Context) error {
	period := time.Now().UTC().Format(periodLayout)
	_, err := p.pool.Exec(ctx,
		`INSERT INTO usage_counters (period, used) VALUES ($1, 1)
		 ON CONFLICT (period) DO UPDATE
		 SET used = usage_counters.used + 1, updated_at = NOW()`,
		period,
	)
	if err != nil {
		return fmt.Errorf("increment usage counter: %w", err)
	}
	return nil
}

// Used returns the number of upstream calls consumed this month.
func (p *Postgres) Used(ctx context.Context) (int, error) {
	period := time.Now().UTC().Format(periodLayout)
	var used int
	err := p.pool.QueryRow(ctx,
		`SELECT COALESCE(
			(SELECT used FROM usage_counters WHERE period = $1), 0)`,
		period,
	).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("read usage counter: %w", err)
	}
	return used, nil
}
