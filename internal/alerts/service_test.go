package alerts_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerhub/jobs-service/internal/alerts"
	"careerhub/jobs-service/internal/model"
	"careerhub/jobs-service/internal/store"
)

// fakeSubs is an in-memory SubscriberStore.
type fakeSubs struct {
	created  []*model.AlertSubscriber
	due      []model.AlertSubscriber
	sent     map[string]map[string]bool // subscriberID → externalID → sent
	notified map[string]time.Time
	unsubErr error
}

func newFakeSubs() *fakeSubs {
	return &fakeSubs{
		sent:     map[string]map[string]bool{},
		notified: map[string]time.Time{},
	}
}

func (f *fakeSubs) CreateSubscriber(_ context.Context, sub *model.AlertSubscriber) error {
	sub.ID = "sub-1"
	sub.IsActive = true
	sub.CreatedAt = time.Now().UTC()
	f.created = append(f.created, sub)
	return nil
}

func (f *fakeSubs) Unsubscribe(_ context.Context, token string) error {
	if f.unsubErr != nil {
		return f.unsubErr
	}
	for _, sub := range f.created {
		if sub.UnsubscribeToken == token {
			sub.IsActive = false
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeSubs) ListDueSubscribers(_ context.Context, _ time.Time) ([]model.AlertSubscriber, error) {
	return f.due, nil
}

func (f *fakeSubs) MarkNotified(_ context.Context, id string, at time.Time) error {
	f.notified[id] = at
	return nil
}

func (f *fakeSubs) FilterUnsent(_ context.Context, id string, ids []string) ([]string, error) {
	var out []string
	for _, ext := range ids {
		if !f.sent[id][ext] {
			out = append(out, ext)
		}
	}
	return out, nil
}

func (f *fakeSubs) MarkSent(_ context.Context, id string, ids []string) error {
	if f.sent[id] == nil {
		f.sent[id] = map[string]bool{}
	}
	for _, ext := range ids {
		f.sent[id][ext] = true
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, nil))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestSubscribeDefaults(t *testing.T) {
	subs := newFakeSubs()
	svc := alerts.NewService(subs, testLogger())

	sub, err := svc.Subscribe(context.Background(), alerts.SubscribeRequest{
		Email:    "  Jane@Example.COM ",
		Name:     " Jane ",
		Keywords: []string{" golang ", "", "backend"},
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", sub.Email)
	assert.Equal(t, "Jane", sub.Name)
	assert.Equal(t, []string{"golang", "backend"}, sub.Keywords)
	assert.Equal(t, model.FrequencyWeekly, sub.Frequency, "frequency defaults to weekly")
	assert.Len(t, sub.UnsubscribeToken, 48, "hex-encoded 24-byte token")
	assert.True(t, sub.IsActive)
}

func TestSubscribeValidation(t *testing.T) {
	svc := alerts.NewService(newFakeSubs(), testLogger())

	tests := []struct {
		name string
		req  alerts.SubscribeRequest
	}{
		{"missing email", alerts.SubscribeRequest{Keywords: []string{"go"}}},
		{"malformed email", alerts.SubscribeRequest{Email: "not-an-email", Keywords: []string{"go"}}},
		{"no keywords", alerts.SubscribeRequest{Email: "a@b.com"}},
		{"blank keywords", alerts.SubscribeRequest{Email: "a@b.com", Keywords: []string{"  ", ""}}},
		{"bad frequency", alerts.SubscribeRequest{Email: "a@b.com", Keywords: []string{"go"}, Frequency: "hourly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Subscribe(context.Background(), tt.req)
			var verr *alerts.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestSubscribeDailyFrequency(t *testing.T) {
	svc := alerts.NewService(newFakeSubs(), testLogger())

	sub, err := svc.Subscribe(context.Background(), alerts.SubscribeRequest{
		Email:     "a@b.com",
		Keywords:  []string{"go"},
		Frequency: model.FrequencyDaily,
	})
	require.NoError(t, err)
	assert.Equal(t, model.FrequencyDaily, sub.Frequency)
}

func TestUnsubscribe(t *testing.T) {
	subs := newFakeSubs()
	svc := alerts.NewService(subs, testLogger())

	sub, err := svc.Subscribe(context.Background(), alerts.SubscribeRequest{
		Email: "a@b.com", Keywords: []string{"go"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(context.Background(), sub.UnsubscribeToken))
	assert.False(t, sub.IsActive)

	// Terminal: unsubscribing again finds no active row.
	err = svc.Unsubscribe(context.Background(), "unknown-token")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUnsubscribeEmptyToken(t *testing.T) {
	svc := alerts.NewService(newFakeSubs(), testLogger())

	err := svc.Unsubscribe(context.Background(), "  ")
	var verr *alerts.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}
