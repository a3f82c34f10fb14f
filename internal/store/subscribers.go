package store

import (
	"context"
	"fmt"
	"time"

	"careerhub/jobs-service/internal/model"
)

// CreateSubscriber inserts a new subscriber and populates ID and CreatedAt.
func (p *Postgres) CreateSubscriber(ctx context.Context, sub *model.AlertSubscriber) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO alert_subscribers (
			email, name, keywords, locations, remote_only,
			employment_types, frequency, unsubscribe_token
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, is_active, created_at`,
		sub.Email, sub.Name, sub.Keywords, sub.Locations, sub.RemoteOnly,
		sub.EmploymentTypes, sub.Frequency, sub.UnsubscribeToken,
	).Scan(&sub.ID, &sub.IsActive, &sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

// Unsubscribe deactivates the subscriber holding token. The transition is
// terminal; repeating it is a no-op that still succeeds.
func (p *Postgres) Unsubscribe(ctx context.Context, token string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE alert_subscribers SET is_active = false
		 WHERE unsubscribe_token = $1`,
		token,
	)
	if err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDueSubscribers returns active subscribers whose frequency window has
// elapsed since the last notification (or who were never notified).
func (p *Postgres) ListDueSubscribers(ctx context.Context, now time.Time) ([]model.AlertSubscriber, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, email, name, keywords, locations, remote_only,
		        employment_types, frequency, unsubscribe_token,
		        is_active, last_notified_at, created_at
		 FROM alert_subscribers
		 WHERE is_active
		   AND (last_notified_at IS NULL
		        OR (frequency = 'daily'  AND last_notified_at <= $1::timestamptz - INTERVAL '1 day')
		        OR (frequency = 'weekly' AND last_notified_at <= $1::timestamptz - INTERVAL '7 days'))
		 ORDER BY created_at`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("query due subscribers: %w", err)
	}
	defer rows.Close()

	var subs []model.AlertSubscriber
	for rows.Next() {
		var s model.AlertSubscriber
		if err := rows.Scan(
			&s.ID, &s.Email, &s.Name, &s.Keywords, &s.Locations, &s.RemoteOnly,
			&s.EmploymentTypes, &s.Frequency, &s.UnsubscribeToken,
			&s.IsActive, &s.LastNotifiedAt, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// MarkNotified records the dispatch timestamp for a subscriber.
func (p *Postgres) MarkNotified(ctx context.Context, subscriberID string, at time.Time) error {
	_, err := p.pool.Exec(ctx,
		`UPDATE alert_subscribers SET last_notified_at = $1 WHERE id = $2`,
		at, subscriberID,
	)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

// FilterUnsent drops external ids that were already mailed to the
// subscriber, preserving the input order of the remainder.
func (p *Postgres) FilterUnsent(ctx context.Context, subscriberID string, externalIDs []string) ([]string, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}
	rows, err := p.pool.Query(ctx,
		`SELECT external_id FROM alert_sent_jobs
		 WHERE subscriber_id = $1 AND external_id = ANY($2)`,
		subscriberID, externalIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query sent jobs: %w", err)
	}
	defer rows.Close()

	sent := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan sent job: %w", err)
		}
		sent[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var unsent []string
	for _, id := range externalIDs {
		if !sent[id] {
			unsent = append(unsent, id)
		}
	}
	return unsent, nil
}

// MarkSent records external ids in the subscriber's sent-job ledger.
func (p *Postgres) MarkSent(ctx context.Context, subscriberID string, externalIDs []string) error {
	for _, id := range externalIDs {
		_, err := p.pool.Exec(ctx,
			`INSERT INTO alert_sent_jobs (subscriber_id, external_id)
			 VALUES ($1, $2)
			 ON CONFLICT (subscriber_id, external_id) DO NOTHING`,
			subscriberID, id,
		)
		if err != nil {
			return fmt.Errorf("mark sent %s: %w", id, err)
		}
	}
	return nil
}
