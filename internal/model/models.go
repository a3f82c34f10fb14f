// Package model defines shared data structures for the jobs service.
package model

import "time"

// Job status values stored in ingested_jobs.status.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// Canonical employment type labels produced by the normalizer.
const (
	EmploymentFullTime   = "Full-time"
	EmploymentPartTime   = "Part-time"
	EmploymentContract   = "Contract"
	EmploymentInternship = "Internship"
	EmploymentTemporary  = "Temporary"
)

// Experience level labels produced by the normalizer.
const (
	ExperienceSenior = "Senior"
	ExperienceMid    = "Mid-level"
	ExperienceEntry  = "Entry-level"
)

// Quality buckets assigned by the normalizer's scoring pass.
const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"
)

// Alert frequency values for AlertSubscriber.Frequency.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// IngestedJob is a normalised job offer, upserted by ExternalID.
// Salary bounds are always populated by the normalizer — either from the
// upstream record, its salary estimate, or the synthetic table.
type IngestedJob struct {
	ExternalID      string    `json:"externalId"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	EmploymentType  string    `json:"employmentType"`
	ExperienceLevel string    `json:"experienceLevel"`
	Description     string    `json:"description"`
	SalaryMin       int       `json:"salaryMin"`
	SalaryMax       int       `json:"salaryMax"`
	Remote          bool      `json:"remote"`
	Quality         string    `json:"quality"`
	ApplyURL        string    `json:"applyUrl"`
	PostedAt        time.Time `json:"postedAt"`
	Status          string    `json:"status"`
}

// AdminJob is a listing authored through the admin console rather than
// ingested from the upstream board. It surfaces in search results alongside
// ingested jobs; every mutation busts the search cache.
type AdminJob struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	EmploymentType  string    `json:"employmentType"`
	ExperienceLevel string    `json:"experienceLevel"`
	Description     string    `json:"description"`
	SalaryMin       int       `json:"salaryMin"`
	SalaryMax       int       `json:"salaryMax"`
	Remote          bool      `json:"remote"`
	ApplyURL        string    `json:"applyUrl"`
	PostedAt        time.Time `json:"postedAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// AlertSubscriber is a stored job-alert preference document.
// The only state transition is subscribed → unsubscribed (terminal),
// triggered by presenting the unsubscribe token.
type AlertSubscriber struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Keywords         []string   `json:"keywords"`
	Locations        []string   `json:"locations"`
	RemoteOnly       bool       `json:"remoteOnly"`
	EmploymentTypes  []string   `json:"employmentTypes"`
	Frequency        string     `json:"frequency"`
	UnsubscribeToken string     `json:"-"`
	IsActive         bool       `json:"isActive"`
	LastNotifiedAt   *time.Time `json:"lastNotifiedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// SearchParams is a user search request after parameter parsing.
type SearchParams struct {
	Query          string `json:"query"`
	Location       string `json:"location"`
	Page           int    `json:"page"`
	RemoteOnly     bool   `json:"remoteOnly"`
	EmploymentType string `json:"employmentType"`
}

// SearchPage is one page of search results, the unit stored in the cache.
type SearchPage struct {
	Jobs     []IngestedJob `json:"jobs"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Total    int           `json:"total"`
}

// IngestSummary is the JSON body returned by the ingestion cron endpoint.
type IngestSummary struct {
	Ingested int      `json:"ingested"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// CleanupSummary is the JSON body returned by the cleanup cron endpoint.
type CleanupSummary struct {
	Expired int64 `json:"expired"`
	Purged  int64 `json:"purged"`
}

// PrewarmSummary reports how the prewarm pass went.
type PrewarmSummary struct {
	Cached  int `json:"cached"`
	Skipped int `json:"skipped"`
}

// DispatchSummary is the JSON body returned by the alert-dispatch cron endpoint.
type DispatchSummary struct {
	Notified int      `json:"notified"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}
