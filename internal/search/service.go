// Package search implements the cache-fronted job search pipeline used by
// end-user requests, the prewarm cron and the alert dispatcher.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"careerhub/jobs-service/internal/cache"
	"careerhub/jobs-service/internal/jsearch"
	"careerhub/jobs-service/internal/model"
	"careerhub/jobs-service/internal/normalize"
)

// Cache is the subset of the redis cache the service needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	LastPrewarm(ctx context.Context) (time.Time, error)
	SetLastPrewarm(ctx context.Context, t time.Time) error
}

// JobStore is the subset of the job store the service needs.
type JobStore interface {
	SearchJobs(ctx context.Context, params model.SearchParams) (*model.SearchPage, error)
	UpsertJob(ctx context.Context, job model.IngestedJob) (bool, error)
}

// Upstream is the job-board adapter.
type Upstream interface {
	Search(ctx context.Context, query, location string, page, numPages int) ([]jsearch.Job, error)
}

// Quota guards the monthly upstream-call budget.
type Quota interface {
	Increment(ctx context.Context) error
	Used(ctx context.Context) (int, error)
}

// QueryPair is one (query, location) combination the prewarm pass fills.
type QueryPair struct {
	Query    string
	Location string
}

// Service resolves searches cache-first, store second, live upstream last.
type Service struct {
	cache        Cache
	jobs         JobStore
	upstream     Upstream
	quota        Quota
	monthlyCap   int
	prewarmPairs []QueryPair
	cooldown     time.Duration
	log          *slog.Logger
}

// New constructs a search Service.
func New(c Cache, jobs JobStore, upstream Upstream, quota Quota, monthlyCap int, prewarmPairs []QueryPair, cooldown time.Duration, log *slog.Logger) *Service {
	return &Service{
		cache:        c,
		jobs:         jobs,
		upstream:     upstream,
		quota:        quota,
		monthlyCap:   monthlyCap,
		prewarmPairs: prewarmPairs,
		cooldown:     cooldown,
		log:          log,
	}
}

// CacheKey canonicalizes search params into the cache key: lowercased,
// whitespace-collapsed, page floored to 1. Two requests differing only in
// case or padding share one entry.
func CacheKey(p model.SearchParams) string {
	page := p.Page
	if page < 1 {
		page = 1
	}
	remote := "0"
	if p.RemoteOnly {
		remote = "1"
	}
	return cache.Prefix + fmt.Sprintf("q=%s|l=%s|p=%d|r=%s|t=%s",
		canon(p.Query), canon(p.Location), page, remote, canon(p.EmploymentType))
}

func canon(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Search resolves a user search. Cache failures degrade to the store path
// rather than failing the request; store failures propagate.
func (s *Service) Search(ctx context.Context, params model.SearchParams) (*model.SearchPage, error) {
	key := CacheKey(params)

	raw, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("cache read failed", "key", key, "err", err)
	} else if hit {
		var page model.SearchPage
		if err := json.Unmarshal(raw, &page); err == nil {
			return &page, nil
		}
		s.log.Warn("cache entry corrupt, dropping", "key", key)
	}

	page, err := s.jobs.SearchJobs(ctx, params)
	if err != nil {
		return nil, err
	}

	if page.Total == 0 && params.Page <= 1 {
		if filled := s.fillFromUpstream(ctx, params); filled {
			page, err = s.jobs.SearchJobs(ctx, params)
			if err != nil {
				return nil, err
			}
		}
	}

	if raw, err := json.Marshal(page); err == nil {
		if err := s.cache.Set(ctx, key, raw); err != nil {
			s.log.Warn("cache write failed", "key", key, "err", err)
		}
	}

	return page, nil
}

// fillFromUpstream performs a live fetch for a query the store cannot
// answer, persisting normalized results. Reports whether anything new was
// ingested. Skips silently when the monthly quota is nearly spent.
func (s *Service) fillFromUpstream(ctx context.Context, params model.SearchParams) bool {
	if s.upstream == nil {
		return false
	}

	used, err := s.quota.Used(ctx)
	if err != nil {
		s.log.Warn("quota read failed", "err", err)
		return false
	}
	if used >= s.monthlyCap {
		s.log.Info("monthly quota reached, skipping live fetch", "used", used, "cap", s.monthlyCap)
		return false
	}

	results, err := s.upstream.Search(ctx, params.Query, params.Location, 1, 1)
	if err != nil {
		s.log.Warn("live upstream fetch failed", "query", params.Query, "err", err)
		return false
	}
	if err := s.quota.Increment(ctx); err != nil {
		s.log.Warn("quota increment failed", "err", err)
	}
	if len(results) == 0 {
		return false
	}

	stored := 0
	for _, raw := range results {
		job := normalize.Job(raw)
		if job.ExternalID == "" {
			continue
		}
		if _, err := s.jobs.UpsertJob(ctx, job); err != nil {
			s.log.Warn("upsert live result failed", "externalId", job.ExternalID, "err", err)
			continue
		}
		stored++
	}
	return stored > 0
}

// Prewarm populates the cache for the fixed list of common queries,
// honoring the cooldown window between passes.
func (s *Service) Prewarm(ctx context.Context) (*model.PrewarmSummary, error) {
	summary := &model.PrewarmSummary{}

	last, err := s.cache.LastPrewarm(ctx)
	if err != nil {
		s.log.Warn("read last prewarm failed", "err", err)
	}
	if !last.IsZero() && time.Since(last) < s.cooldown {
		summary.Skipped = len(s.prewarmPairs)
		return summary, nil
	}

	for _, pair := range s.prewarmPairs {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		params := model.SearchParams{Query: pair.Query, Location: pair.Location, Page: 1}
		if _, err := s.Search(ctx, params); err != nil {
			s.log.Warn("prewarm query failed", "query", pair.Query, "location", pair.Location, "err", err)
			summary.Skipped++
			continue
		}
		summary.Cached++
	}

	if err := s.cache.SetLastPrewarm(ctx, time.Now().UTC()); err != nil {
		s.log.Warn("record prewarm time failed", "err", err)
	}
	return summary, nil
}

// InvalidateAll deletes every cached search page. Called after admin CRUD
// mutations.
func (s *Service) InvalidateAll(ctx context.Context) (int, error) {
	return s.cache.DeletePrefix(ctx, cache.Prefix)
}
