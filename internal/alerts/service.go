// Package alerts implements job-alert subscriptions and the scheduled
// match-and-notify dispatch.
package alerts

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"careerhub/jobs-service/internal/model"
	"careerhub/jobs-service/internal/store"
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// SubscribeRequest is the JSON body of POST /api/alerts/subscribe.
type SubscribeRequest struct {
	Email           string   `json:"email"`
	Name            string   `json:"name"`
	Keywords        []string `json:"keywords"`
	Locations       []string `json:"locations"`
	RemoteOnly      bool     `json:"remoteOnly"`
	EmploymentTypes []string `json:"employmentTypes"`
	Frequency       string   `json:"frequency"`
}

// Service owns the subscriber lifecycle: subscribed → unsubscribed
// (terminal), nothing else.
type Service struct {
	subs store.SubscriberStore
	log  *slog.Logger
}

// NewService constructs a Service.
func NewService(subs store.SubscriberStore, log *slog.Logger) *Service {
	return &Service{subs: subs, log: log}
}

// Subscribe validates the request, generates the unsubscribe token and
// persists the subscriber.
func (s *Service) Subscribe(ctx context.Context, req SubscribeRequest) (*model.AlertSubscriber, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &ValidationError{Msg: "a valid email is required"}
	}

	keywords := trimAll(req.Keywords)
	if len(keywords) == 0 {
		return nil, &ValidationError{Msg: "at least one keyword is required"}
	}

	frequency := req.Frequency
	switch frequency {
	case "":
		frequency = model.FrequencyWeekly
	case model.FrequencyDaily, model.FrequencyWeekly:
	default:
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown frequency %q", frequency)}
	}

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate unsubscribe token: %w", err)
	}

	sub := &model.AlertSubscriber{
		Email:            email,
		Name:             strings.TrimSpace(req.Name),
		Keywords:         keywords,
		Locations:        trimAll(req.Locations),
		RemoteOnly:       req.RemoteOnly,
		EmploymentTypes:  trimAll(req.EmploymentTypes),
		Frequency:        frequency,
		UnsubscribeToken: token,
	}
	if err := s.subs.CreateSubscriber(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info("subscriber created", "email", sub.Email, "frequency", sub.Frequency)
	return sub, nil
}

// Unsubscribe deactivates the subscriber holding token.
// Returns store.ErrNotFound for an unknown token.
func (s *Service) Unsubscribe(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return &ValidationError{Msg: "token is required"}
	}
	return s.subs.Unsubscribe(ctx, token)
}

func newToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
