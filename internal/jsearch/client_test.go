package jsearch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerhub/jobs-service/internal/jsearch"
)

func newTestClient(srv *httptest.Server) *jsearch.Client {
	c := jsearch.NewClient("test-key", "jsearch.p.rapidapi.com")
	c.BaseURL = srv.URL
	return c
}

func TestSearchOK(t *testing.T) {
	var gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.Header.Get("X-RapidAPI-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"data": [
				{
					"job_id": "abc123",
					"employer_name": "Acme",
					"job_title": "Software Engineer",
					"job_city": "Seattle",
					"job_is_remote": false,
					"job_min_salary": 100000,
					"job_max_salary": 140000
				}
			]
		}`))
	}))
	defer srv.Close()

	jobs, err := newTestClient(srv).Search(context.Background(), "software engineer", "Seattle", 1, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Equal(t, "software engineer in Seattle", gotQuery)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "abc123", jobs[0].JobID)
	assert.Equal(t, "Acme", jobs[0].EmployerName)
	require.NotNil(t, jobs[0].JobMinSalary)
	assert.Equal(t, 100000.0, *jobs[0].JobMinSalary)
}

func TestSearchNoLocation(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(`{"status":"OK","data":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Search(context.Background(), "accountant", "", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "accountant", gotQuery)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer srv.Close()

	jobs, err := newTestClient(srv).Search(context.Background(), "engineer", "", 1, 1)
	assert.Error(t, err)
	assert.Nil(t, jobs)
}

func TestSearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	jobs, err := newTestClient(srv).Search(context.Background(), "engineer", "", 1, 1)
	assert.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestSearchUpstreamNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ERROR","data":[]}`))
	}))
	defer srv.Close()

	jobs, err := newTestClient(srv).Search(context.Background(), "engineer", "", 1, 1)
	assert.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestSearchMissingAPIKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := jsearch.NewClient("", "jsearch.p.rapidapi.com")
	c.BaseURL = srv.URL

	jobs, err := c.Search(context.Background(), "engineer", "", 1, 1)
	assert.NoError(t, err)
	assert.Nil(t, jobs)
	assert.False(t, called, "no HTTP request should be issued without an API key")
}
