// Package normalize maps raw JSearch records into the internal job shape.
// Every function here is a deterministic, stateless transform; missing
// fields fall back to defaults rather than erroring.
package normalize

import (
	"strings"
	"time"

	"careerhub/jobs-service/internal/jsearch"
	"careerhub/jobs-service/internal/model"
)

// remoteKeywords mark a listing as remote when found in title, description
// or location, independent of the upstream job_is_remote flag.
var remoteKeywords = []string{"remote", "work from home", "wfh", "anywhere"}

var seniorKeywords = []string{"senior", "lead", "principal", "staff"}

var entryKeywords = []string{"junior", "entry", "intern", "graduate"}

// employmentLabels is ordered: first substring match wins.
var employmentLabels = []struct {
	keyword string
	label   string
}{
	{"full", model.EmploymentFullTime},
	{"part", model.EmploymentPartTime},
	{"contract", model.EmploymentContract},
	{"intern", model.EmploymentInternship},
	{"temp", model.EmploymentTemporary},
}

// Job converts a raw upstream record into the internal shape.
func Job(raw jsearch.Job) model.IngestedJob {
	location := Location(raw)
	salaryMin, salaryMax := salary(raw)

	return model.IngestedJob{
		ExternalID:      raw.JobID,
		Title:           raw.JobTitle,
		Company:         raw.EmployerName,
		Location:        location,
		EmploymentType:  EmploymentType(raw.JobEmploymentType),
		ExperienceLevel: ExperienceLevel(raw.JobTitle, raw.JobDescription),
		Description:     raw.JobDescription,
		SalaryMin:       salaryMin,
		SalaryMax:       salaryMax,
		Remote:          IsRemote(raw),
		Quality:         QualityBucket(QualityScore(raw)),
		ApplyURL:        raw.JobApplyLink,
		PostedAt:        postedAt(raw.JobPostedAt),
		Status:          model.StatusActive,
	}
}

// Location joins the non-empty city/state/country parts with ", ",
// falling back to the raw location field.
func Location(raw jsearch.Job) string {
	var parts []string
	for _, p := range []string{raw.JobCity, raw.JobState, raw.JobCountry} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return raw.JobLocation
	}
	return strings.Join(parts, ", ")
}

// EmploymentType reduces an upstream label to one of the five canonical
// labels via case-insensitive substring matching, first match wins.
// Unknown input defaults to Full-time. Idempotent on canonical labels.
func EmploymentType(upstream string) string {
	lower := strings.ToLower(upstream)
	for _, e := range employmentLabels {
		if strings.Contains(lower, e.keyword) {
			return e.label
		}
	}
	return model.EmploymentFullTime
}

// IsRemote reports whether a listing is remote: the explicit upstream flag
// always wins, otherwise keyword search across title, description and
// location decides.
func IsRemote(raw jsearch.Job) bool {
	if raw.JobIsRemote {
		return true
	}
	combined := raw.JobTitle + " " + raw.JobDescription + " " + Location(raw)
	return containsAny(combined, remoteKeywords)
}

// ExperienceLevel infers seniority from keyword heuristics on title and
// description. Senior keywords are checked first.
func ExperienceLevel(title, description string) string {
	combined := title + " " + description
	if containsAny(title, seniorKeywords) || containsAny(combined, seniorKeywords) {
		return model.ExperienceSenior
	}
	if containsAny(combined, entryKeywords) {
		return model.ExperienceEntry
	}
	return model.ExperienceMid
}

// QualityScore assigns additive points for the signals a complete listing
// carries. Maximum score is 10.
func QualityScore(raw jsearch.Job) int {
	score := 0

	switch n := len(raw.JobDescription); {
	case n >= 800:
		score += 2
	case n >= 200:
		score++
	}
	if raw.EmployerLogo != "" {
		score++
	}
	if raw.JobMinSalary != nil || raw.JobMaxSalary != nil {
		score += 2
	}
	if len(raw.JobHighlights.Benefits) > 0 {
		score++
	}
	if len(raw.JobHighlights.Qualifications) > 0 || len(raw.JobHighlights.Responsibilities) > 0 {
		score++
	}
	if raw.EmployerName != "" {
		score++
	}

	if posted := postedAt(raw.JobPostedAt); !posted.IsZero() {
		switch age := time.Since(posted); {
		case age <= 7*24*time.Hour:
			score += 2
		case age <= 30*24*time.Hour:
			score++
		}
	}

	return score
}

// QualityBucket maps a score to high / medium / low.
func QualityBucket(score int) string {
	switch {
	case score >= 7:
		return model.QualityHigh
	case score >= 4:
		return model.QualityMedium
	default:
		return model.QualityLow
	}
}

func salary(raw jsearch.Job) (int, int) {
	if raw.JobMinSalary != nil || raw.JobMaxSalary != nil {
		min, max := 0, 0
		if raw.JobMinSalary != nil {
			min = int(*raw.JobMinSalary)
		}
		if raw.JobMaxSalary != nil {
			max = int(*raw.JobMaxSalary)
		}
		if min == 0 {
			min = max
		}
		if max == 0 {
			max = min
		}
		return min, max
	}

	if len(raw.EstimatedSalaries) > 0 {
		est := raw.EstimatedSalaries[0]
		return int(est.MinSalary), int(est.MaxSalary)
	}

	return EstimateSalary(raw.JobTitle, raw.JobCity)
}

func postedAt(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
