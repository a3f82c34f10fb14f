package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"careerhub/jobs-service/internal/model"
	"careerhub/jobs-service/internal/store"
)

// maxDispatchPages bounds how many search pages one subscriber's match
// sweep consumes. The sweep goes through the user search path, so repeat
// queries hit the cache.
const maxDispatchPages = 3

// maxJobsPerMail caps the listings included in a single alert email.
const maxJobsPerMail = 10

// Searcher is the user search path the dispatcher matches against.
type Searcher interface {
	Search(ctx context.Context, params model.SearchParams) (*model.SearchPage, error)
}

// Mailer delivers one alert email.
type Mailer interface {
	SendAlert(ctx context.Context, sub model.AlertSubscriber, jobs []model.IngestedJob) error
}

// Dispatcher matches subscriber preferences against current listings and
// mails the results. Previously-sent jobs are skipped via the sent-job
// ledger, so each run only delivers listings the subscriber has not seen.
type Dispatcher struct {
	subs   store.SubscriberStore
	search Searcher
	mailer Mailer
	log    *slog.Logger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(subs store.SubscriberStore, search Searcher, mailer Mailer, log *slog.Logger) *Dispatcher {
	return &Dispatcher{subs: subs, search: search, mailer: mailer, log: log}
}

// Run executes one dispatch cycle for every due subscriber.
func (d *Dispatcher) Run(ctx context.Context, now time.Time) *model.DispatchSummary {
	summary := &model.DispatchSummary{Errors: []string{}}

	due, err := d.subs.ListDueSubscribers(ctx, now)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("list subscribers: %v", err))
		return summary
	}

	for _, sub := range due {
		if ctx.Err() != nil {
			summary.Errors = append(summary.Errors, ctx.Err().Error())
			break
		}
		notified, err := d.dispatchOne(ctx, sub, now)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", sub.Email, err))
			continue
		}
		if notified {
			summary.Notified++
		} else {
			summary.Skipped++
		}
	}

	d.log.Info("alert dispatch done",
		"due", len(due), "notified", summary.Notified,
		"skipped", summary.Skipped, "errors", len(summary.Errors))
	return summary
}

// dispatchOne matches and mails a single subscriber. Reports whether an
// email went out.
func (d *Dispatcher) dispatchOne(ctx context.Context, sub model.AlertSubscriber, now time.Time) (bool, error) {
	params := queryFor(sub)

	var matches []model.IngestedJob
	for page := 1; page <= maxDispatchPages; page++ {
		params.Page = page
		result, err := d.search.Search(ctx, params)
		if err != nil {
			return false, fmt.Errorf("search page %d: %w", page, err)
		}
		matches = append(matches, filterByTypes(result.Jobs, sub.EmploymentTypes)...)
		if len(result.Jobs) < result.PageSize {
			break
		}
	}
	if len(matches) == 0 {
		return false, nil
	}

	ids := make([]string, 0, len(matches))
	byID := make(map[string]model.IngestedJob, len(matches))
	for _, j := range matches {
		ids = append(ids, j.ExternalID)
		byID[j.ExternalID] = j
	}

	unsent, err := d.subs.FilterUnsent(ctx, sub.ID, ids)
	if err != nil {
		return false, fmt.Errorf("filter sent ledger: %w", err)
	}
	if len(unsent) == 0 {
		return false, nil
	}
	if len(unsent) > maxJobsPerMail {
		unsent = unsent[:maxJobsPerMail]
	}

	fresh := make([]model.IngestedJob, 0, len(unsent))
	for _, id := range unsent {
		fresh = append(fresh, byID[id])
	}

	if err := d.mailer.SendAlert(ctx, sub, fresh); err != nil {
		return false, fmt.Errorf("send mail: %w", err)
	}

	if err := d.subs.MarkSent(ctx, sub.ID, unsent); err != nil {
		d.log.Warn("mark sent failed", "subscriber", sub.ID, "err", err)
	}
	if err := d.subs.MarkNotified(ctx, sub.ID, now); err != nil {
		d.log.Warn("mark notified failed", "subscriber", sub.ID, "err", err)
	}
	return true, nil
}

// queryFor builds the search constraint from a subscriber's preferences:
// the first two keywords and the first location.
func queryFor(sub model.AlertSubscriber) model.SearchParams {
	keywords := sub.Keywords
	if len(keywords) > 2 {
		keywords = keywords[:2]
	}
	location := ""
	if len(sub.Locations) > 0 {
		location = sub.Locations[0]
	}
	return model.SearchParams{
		Query:      strings.Join(keywords, " "),
		Location:   location,
		RemoteOnly: sub.RemoteOnly,
	}
}

// filterByTypes keeps jobs whose employment type is in the subscriber's
// filter set. An empty set keeps everything.
func filterByTypes(jobs []model.IngestedJob, types []string) []model.IngestedJob {
	if len(types) == 0 {
		return jobs
	}
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	var kept []model.IngestedJob
	for _, j := range jobs {
		if allowed[j.EmploymentType] {
			kept = append(kept, j)
		}
	}
	return kept
}
