package store

import (
	"context"
	"fmt"

	"careerhub/jobs-service/internal/model"
)

const adminJobColumns = `id, title, company, location, employment_type,
	experience_level, description, salary_min, salary_max, remote,
	apply_url, posted_at, created_at, updated_at`

// CreateAdminJob inserts an admin-authored listing and populates its
// generated fields.
func (p *Postgres) CreateAdminJob(ctx context.Context, job *model.AdminJob) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO admin_jobs (
			title, company, location, employment_type, experience_level,
			description, salary_min, salary_max, remote, apply_url
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, posted_at, created_at, updated_at`,
		job.Title, job.Company, job.Location, job.EmploymentType, job.ExperienceLevel,
		job.Description, job.SalaryMin, job.SalaryMax, job.Remote, job.ApplyURL,
	).Scan(&job.ID, &job.PostedAt, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert admin job: %w", err)
	}
	return nil
}

// GetAdminJob returns one admin listing by id, or ErrNotFound.
func (p *Postgres) GetAdminJob(ctx context.Context, id string) (*model.AdminJob, error) {
	var j model.AdminJob
	err := p.pool.QueryRow(ctx,
		`SELECT `+adminJobColumns+` FROM admin_jobs WHERE id = $1`, id,
	).Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &j.EmploymentType,
		&j.ExperienceLevel, &j.Description, &j.SalaryMin, &j.SalaryMax, &j.Remote,
		&j.ApplyURL, &j.PostedAt, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, ErrNotFound
	}
	return &j, nil
}

// ListAdminJobs returns all admin listings, newest first.
func (p *Postgres) ListAdminJobs(ctx context.Context) ([]model.AdminJob, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+adminJobColumns+` FROM admin_jobs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query admin jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.AdminJob, 0)
	for rows.Next() {
		var j model.AdminJob
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Company, &j.Location, &j.EmploymentType,
			&j.ExperienceLevel, &j.Description, &j.SalaryMin, &j.SalaryMax, &j.Remote,
			&j.ApplyURL, &j.PostedAt, &j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan admin job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// UpdateAdminJob persists changes to an existing admin listing.
func (p *Postgres) UpdateAdminJob(ctx context.Context, job *model.AdminJob) error {
	err := p.pool.QueryRow(ctx,
		`UPDATE admin_jobs SET
			title = $1, company = $2, location = $3, employment_type = $4,
			experience_level = $5, description = $6, salary_min = $7,
			salary_max = $8, remote = $9, apply_url = $10, updated_at = NOW()
		 WHERE id = $11
		 RETURNING posted_at, created_at, updated_at`,
		job.Title, job.Company, job.Location, job.EmploymentType,
		job.ExperienceLevel, job.Description, job.SalaryMin,
		job.SalaryMax, job.Remote, job.ApplyURL, job.ID,
	).Scan(&job.PostedAt, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return ErrNotFound
	}
	return nil
}

// DeleteAdminJob removes an admin listing, or returns ErrNotFound.
func (p *Postgres) DeleteAdminJob(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM admin_jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete admin job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
