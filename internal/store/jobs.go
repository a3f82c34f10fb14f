package store

import (
	"context"
	"fmt"
	"time"

	"careerhub/jobs-service/internal/model"
)

// PageSize is the fixed number of jobs per search result page.
const PageSize = 20

// UpsertJob inserts or updates a job keyed by external id. Re-ingestion is
// last-writer-wins and always reactivates the record.
func (p *Postgres) UpsertJob(ctx context.Context, job model.IngestedJob) (bool, error) {
	var inserted bool
	err := p.pool.QueryRow(ctx,
		`INSERT INTO ingested_jobs (
			external_id, title, company, location, employment_type,
			experience_level, description, salary_min, salary_max,
			remote, quality, apply_url, posted_at, status
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 'active')
		 ON CONFLICT (external_id) DO UPDATE SET
			title            = EXCLUDED.title,
			company          = EXCLUDED.company,
			location         = EXCLUDED.location,
			employment_type  = EXCLUDED.employment_type,
			experience_level = EXCLUDED.experience_level,
			description      = EXCLUDED.description,
			salary_min       = EXCLUDED.salary_min,
			salary_max       = EXCLUDED.salary_max,
			remote           = EXCLUDED.remote,
			quality          = EXCLUDED.quality,
			apply_url        = EXCLUDED.apply_url,
			posted_at        = EXCLUDED.posted_at,
			status           = 'active',
			updated_at       = NOW()
		 RETURNING (xmax = 0)`,
		job.ExternalID, job.Title, job.Company, job.Location, job.EmploymentType,
		job.ExperienceLevel, job.Description, job.SalaryMin, job.SalaryMax,
		job.Remote, job.Quality, job.ApplyURL, nullableTime(job.PostedAt),
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert job %s: %w", job.ExternalID, err)
	}
	return inserted, nil
}

// MarkExpired flips active jobs not re-ingested since cutoff to expired.
func (p *Postgres) MarkExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx,
		`UPDATE ingested_jobs
		 SET status = 'expired', updated_at = NOW()
		 WHERE status = 'active' AND updated_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("mark expired: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PurgeExpired deletes expired jobs past the retention window.
func (p *Postgres) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM ingested_jobs
		 WHERE status = 'expired' AND updated_at <= $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("purge expired: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SearchJobs returns one page of active listings. Admin-authored jobs are
// folded in under a synthetic "admin:" external id so the search surface is
// one collection.
func (p *Postgres) SearchJobs(ctx context.Context, params model.SearchParams) (*model.SearchPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	rows, err := p.pool.Query(ctx,
		`SELECT external_id, title, company, location, employment_type,
		        experience_level, description, salary_min, salary_max,
		        remote, quality, apply_url, posted_at,
		        COUNT(*) OVER() AS total
		 FROM (
			SELECT external_id, title, company, location, employment_type,
			       experience_level, description, salary_min, salary_max,
			       remote, quality, apply_url, posted_at
			FROM ingested_jobs
			WHERE status = 'active'
			UNION ALL
			SELECT 'admin:' || id::text, title, company, location, employment_type,
			       experience_level, description, salary_min, salary_max,
			       remote, 'high', apply_url, posted_at
			FROM admin_jobs
		 ) jobs
		 WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		   AND ($2 = '' OR location ILIKE '%' || $2 || '%')
		   AND (NOT $3::boolean OR remote)
		   AND ($4 = '' OR employment_type = $4)
		 ORDER BY posted_at DESC NULLS LAST
		 LIMIT $5 OFFSET $6`,
		params.Query, params.Location, params.RemoteOnly, params.EmploymentType,
		PageSize, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	defer rows.Close()

	result := &model.SearchPage{Page: page, PageSize: PageSize, Jobs: []model.IngestedJob{}}
	for rows.Next() {
		var j model.IngestedJob
		var posted *time.Time
		if err := rows.Scan(
			&j.ExternalID, &j.Title, &j.Company, &j.Location, &j.EmploymentType,
			&j.ExperienceLevel, &j.Description, &j.SalaryMin, &j.SalaryMax,
			&j.Remote, &j.Quality, &j.ApplyURL, &posted, &result.Total,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if posted != nil {
			j.PostedAt = *posted
		}
		j.Status = model.StatusActive
		result.Jobs = append(result.Jobs, j)
	}
	return result, rows.Err()
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
