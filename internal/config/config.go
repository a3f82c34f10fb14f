// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the jobs service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	JSearchAPIKey  string
	JSearchAPIHost string
	MonthlyQuota   int // upstream calls allowed per calendar month

	CronSecret string // bearer token for /internal/cron/* endpoints
	AdminToken string // bearer token for /api/admin/* endpoints

	CacheTTL            time.Duration
	PrewarmCooldown     time.Duration
	IngestIntervalHours int
	StaleAfter          time.Duration // active jobs untouched longer than this are expired
	Retention           time.Duration // expired jobs older than this are purged

	SeedQueries   []string
	SeedLocations []string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
	BaseURL  string // public base URL used in unsubscribe links
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	cronSecret := os.Getenv("CRON_SECRET")
	if cronSecret == "" {
		return nil, fmt.Errorf("CRON_SECRET is required")
	}

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN is required")
	}

	port := os.Getenv("JOBS_PORT")
	if port == "" {
		port = "8083"
	}

	host := os.Getenv("JSEARCH_API_HOST")
	if host == "" {
		host = "jsearch.p.rapidapi.com"
	}

	quota, err := intEnv("MONTHLY_QUOTA", 2000)
	if err != nil {
		return nil, err
	}

	ttlMinutes, err := intEnv("CACHE_TTL_MINUTES", 60)
	if err != nil {
		return nil, err
	}

	cooldownMinutes, err := intEnv("PREWARM_COOLDOWN_MINUTES", 360)
	if err != nil {
		return nil, err
	}

	interval, err := intEnv("INGEST_INTERVAL_HOURS", 12)
	if err != nil {
		return nil, err
	}

	staleDays, err := intEnv("STALE_AFTER_DAYS", 14)
	if err != nil {
		return nil, err
	}

	retentionDays, err := intEnv("RETENTION_DAYS", 30)
	if err != nil {
		return nil, err
	}

	smtpPort, err := intEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                port,
		DatabaseURL:         dbURL,
		RedisURL:            redisURL,
		JSearchAPIKey:       os.Getenv("JSEARCH_API_KEY"),
		JSearchAPIHost:      host,
		MonthlyQuota:        quota,
		CronSecret:          cronSecret,
		AdminToken:          adminToken,
		CacheTTL:            time.Duration(ttlMinutes) * time.Minute,
		PrewarmCooldown:     time.Duration(cooldownMinutes) * time.Minute,
		IngestIntervalHours: interval,
		StaleAfter:          time.Duration(staleDays) * 24 * time.Hour,
		Retention:           time.Duration(retentionDays) * 24 * time.Hour,
		SeedQueries:         listEnv("SEED_QUERIES", defaultSeedQueries),
		SeedLocations:       listEnv("SEED_LOCATIONS", defaultSeedLocations),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            smtpPort,
		SMTPUser:            os.Getenv("SMTP_USER"),
		SMTPPass:            os.Getenv("SMTP_PASS"),
		MailFrom:            envDefault("MAIL_FROM", "alerts@careerhub.example"),
		BaseURL:             envDefault("BASE_URL", "http://localhost:8083"),
	}, nil
}

var defaultSeedQueries = []string{
	"software engineer",
	"data analyst",
	"product manager",
	"registered nurse",
	"accountant",
	"customer service",
}

var defaultSeedLocations = []string{
	"New York",
	"Seattle",
	"Austin",
	"Remote",
}

func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func listEnv(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
