package search_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerhub/jobs-service/internal/jsearch"
	"careerhub/jobs-service/internal/model"
	"careerhub/jobs-service/internal/search"
)

// ─── Fakes ───

type fakeCache struct {
	entries     map[string][]byte
	lastPrewarm time.Time
	getErr      error
	setCalls    int
	deleted     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	raw, ok := f.entries[key]
	return raw, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte) error {
	f.setCalls++
	f.entries[key] = value
	return nil
}

func (f *fakeCache) DeletePrefix(_ context.Context, _ string) (int, error) {
	n := len(f.entries)
	f.entries = map[string][]byte{}
	f.deleted += n
	return n, nil
}

func (f *fakeCache) LastPrewarm(_ context.Context) (time.Time, error) {
	return f.lastPrewarm, nil
}

func (f *fakeCache) SetLastPrewarm(_ context.Context, t time.Time) error {
	f.lastPrewarm = t
	return nil
}

type fakeJobStore struct {
	pages    map[string]*model.SearchPage // keyed by query
	upserted []model.IngestedJob
}

func (f *fakeJobStore) SearchJobs(_ context.Context, p model.SearchParams) (*model.SearchPage, error) {
	if page, ok := f.pages[p.Query]; ok {
		return page, nil
	}
	return &model.SearchPage{Jobs: []model.IngestedJob{}, Page: 1, PageSize: 20}, nil
}

func (f *fakeJobStore) UpsertJob(_ context.Context, job model.IngestedJob) (bool, error) {
	f.upserted = append(f.upserted, job)
	if f.pages == nil {
		f.pages = map[string]*model.SearchPage{}
	}
	// Make the freshly stored job visible to the follow-up query.
	f.pages[job.Title] = &model.SearchPage{
		Jobs: []model.IngestedJob{job}, Page: 1, PageSize: 20, Total: 1,
	}
	return true, nil
}

type fakeUpstream struct {
	jobs  []jsearch.Job
	err   error
	calls int
}

func (f *fakeUpstream) Search(_ context.Context, _, _ string, _, _ int) ([]jsearch.Job, error) {
	f.calls++
	return f.jobs, f.err
}

type fakeQuota struct {
	used       int
	increments int
}

func (f *fakeQuota) Increment(_ context.Context) error {
	f.increments++
	return nil
}

func (f *fakeQuota) Used(_ context.Context) (int, error) { return f.used, nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, nil))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newService(c *fakeCache, jobs *fakeJobStore, up *fakeUpstream, q *fakeQuota, pairs []search.QueryPair) *search.Service {
	return search.New(c, jobs, up, q, 100, pairs, 6*time.Hour, testLogger())
}

// ─── CacheKey ───

func TestCacheKeyCanonicalization(t *testing.T) {
	base := search.CacheKey(model.SearchParams{Query: "software engineer", Location: "Seattle", Page: 1})

	equivalent := []model.SearchParams{
		{Query: "Software  Engineer", Location: "SEATTLE", Page: 1},
		{Query: "  software engineer ", Location: "seattle", Page: 0},
		{Query: "software\tengineer", Location: "Seattle", Page: -3},
	}
	for _, p := range equivalent {
		assert.Equal(t, base, search.CacheKey(p))
	}

	distinct := []model.SearchParams{
		{Query: "software engineer", Location: "Seattle", Page: 2},
		{Query: "software engineer", Location: "Austin", Page: 1},
		{Query: "software engineer", Location: "Seattle", Page: 1, RemoteOnly: true},
		{Query: "software engineer", Location: "Seattle", Page: 1, EmploymentType: "Contract"},
	}
	for _, p := range distinct {
		assert.NotEqual(t, base, search.CacheKey(p))
	}
}

func TestCacheKeyPrefix(t *testing.T) {
	key := search.CacheKey(model.SearchParams{Query: "x"})
	assert.Contains(t, key, "jobs:v1:")
}

// ─── Search ───

func TestSearchCacheHit(t *testing.T) {
	c := newFakeCache()
	jobs := &fakeJobStore{}
	up := &fakeUpstream{}

	params := model.SearchParams{Query: "accountant", Page: 1}
	cached := &model.SearchPage{
		Jobs:     []model.IngestedJob{{ExternalID: "j1", Title: "Accountant"}},
		Page:     1,
		PageSize: 20,
		Total:    1,
	}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)
	c.entries[search.CacheKey(params)] = raw

	svc := newService(c, jobs, up, &fakeQuota{}, nil)
	got, err := svc.Search(context.Background(), params)
	require.NoError(t, err)

	if diff := cmp.Diff(cached, got); diff != "" {
		t.Errorf("cached page mismatch (-want +got):\n%s", diff)
	}
	assert.Zero(t, up.calls, "cache hit must not reach the upstream")
}

func TestSearchStoreHitPopulatesCache(t *testing.T) {
	c := newFakeCache()
	jobs := &fakeJobStore{pages: map[string]*model.SearchPage{
		"nurse": {
			Jobs:     []model.IngestedJob{{ExternalID: "j2", Title: "Registered Nurse"}},
			Page:     1,
			PageSize: 20,
			Total:    1,
		},
	}}
	up := &fakeUpstream{}

	svc := newService(c, jobs, up, &fakeQuota{}, nil)
	got, err := svc.Search(context.Background(), model.SearchParams{Query: "nurse", Page: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Total)
	assert.Equal(t, 1, c.setCalls)
	assert.Zero(t, up.calls, "store hit must not reach the upstream")
}

func TestSearchEmptyStoreFillsFromUpstream(t *testing.T) {
	c := newFakeCache()
	jobs := &fakeJobStore{}
	up := &fakeUpstream{jobs: []jsearch.Job{
		{JobID: "raw-1", JobTitle: "welder", EmployerName: "Forge Co", JobCity: "Austin"},
	}}
	quota := &fakeQuota{}

	svc := newService(c, jobs, up, quota, nil)
	got, err := svc.Search(context.Background(), model.SearchParams{Query: "welder", Page: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, up.calls)
	assert.Equal(t, 1, quota.increments)
	require.Len(t, jobs.upserted, 1)
	assert.Equal(t, "raw-1", jobs.upserted[0].ExternalID)
	assert.Equal(t, 1, got.Total, "follow-up query should see the stored job")
}

func TestSearchQuotaExhaustedSkipsUpstream(t *testing.T) {
	c := newFakeCache()
	jobs := &fakeJobStore{}
	up := &fakeUpstream{jobs: []jsearch.Job{{JobID: "raw-1", JobTitle: "welder"}}}
	quota := &fakeQuota{used: 100}

	svc := newService(c, jobs, up, quota, nil)
	got, err := svc.Search(context.Background(), model.SearchParams{Query: "welder", Page: 1})
	require.NoError(t, err)

	assert.Zero(t, up.calls)
	assert.Zero(t, got.Total)
}

func TestSearchDeepPageNeverFills(t *testing.T) {
	c := newFakeCache()
	jobs := &fakeJobStore{}
	up := &fakeUpstream{jobs: []jsearch.Job{{JobID: "raw-1", JobTitle: "welder"}}}

	svc := newService(c, jobs, up, &fakeQuota{}, nil)
	_, err := svc.Search(context.Background(), model.SearchParams{Query: "welder", Page: 3})
	require.NoError(t, err)

	assert.Zero(t, up.calls, "empty deep pages must not trigger a live fetch")
}

func TestSearchCacheErrorDegrades(t *testing.T) {
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	jobs := &fakeJobStore{pages: map[string]*model.SearchPage{
		"nurse": {Jobs: []model.IngestedJob{{ExternalID: "j2"}}, Page: 1, PageSize: 20, Total: 1},
	}}

	svc := newService(c, jobs, &fakeUpstream{}, &fakeQuota{}, nil)
	got, err := svc.Search(context.Background(), model.SearchParams{Query: "nurse", Page: 1})
	require.NoError(t, err, "cache failure must not fail the request")
	assert.Equal(t, 1, got.Total)
}

// ─── Prewarm ───

func TestPrewarmFillsAllPairs(t *testing.T) {
	c := newFakeCache()
	jobs := &fakeJobStore{pages: map[string]*model.SearchPage{
		"software engineer": {Jobs: []model.IngestedJob{{ExternalID: "j1"}}, Page: 1, PageSize: 20, Total: 1},
		"data analyst":      {Jobs: []model.IngestedJob{{ExternalID: "j2"}}, Page: 1, PageSize: 20, Total: 1},
	}}
	pairs := []search.QueryPair{
		{Query: "software engineer", Location: "Seattle"},
		{Query: "data analyst", Location: "Austin"},
	}

	svc := newService(c, jobs, &fakeUpstream{}, &fakeQuota{}, pairs)
	summary, err := svc.Prewarm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Cached)
	assert.Zero(t, summary.Skipped)
	assert.Len(t, c.entries, 2)
	assert.False(t, c.lastPrewarm.IsZero(), "prewarm must record its run time")
}

func TestPrewarmCooldown(t *testing.T) {
	c := newFakeCache()
	c.lastPrewarm = time.Now().Add(-1 * time.Hour) // inside the 6h window
	pairs := []search.QueryPair{
		{Query: "software engineer", Location: "Seattle"},
		{Query: "data analyst", Location: "Austin"},
	}

	svc := newService(c, &fakeJobStore{}, &fakeUpstream{}, &fakeQuota{}, pairs)
	summary, err := svc.Prewarm(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.Cached)
	assert.Equal(t, 2, summary.Skipped)
	assert.Empty(t, c.entries)
}

func TestPrewarmAfterCooldownRuns(t *testing.T) {
	c := newFakeCache()
	c.lastPrewarm = time.Now().Add(-7 * time.Hour)
	pairs := []search.QueryPair{{Query: "accountant", Location: "New York"}}

	svc := newService(c, &fakeJobStore{}, &fakeUpstream{}, &fakeQuota{}, pairs)
	summary, err := svc.Prewarm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Cached)
}

// ─── InvalidateAll ───

func TestInvalidateAll(t *testing.T) {
	c := newFakeCache()
	c.entries["jobs:v1:a"] = []byte("x")
	c.entries["jobs:v1:b"] = []byte("y")

	svc := newService(c, &fakeJobStore{}, &fakeUpstream{}, &fakeQuota{}, nil)
	n, err := svc.InvalidateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, c.entries)
}
