// Package mailer delivers job-alert emails over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	"careerhub/jobs-service/internal/model"
)

// SMTP sends alert mail through a transactional SMTP relay.
// If Host is empty, SendAlert logs and returns nil — alert dispatch then
// runs ledger-only, which keeps staging environments quiet.
type SMTP struct {
	Host    string
	Port    int
	User    string
	Pass    string
	From    string
	BaseURL string // public base URL for unsubscribe links
	log     *slog.Logger
}

// New constructs an SMTP mailer.
func New(host string, port int, user, pass, from, baseURL string, log *slog.Logger) *SMTP {
	return &SMTP{
		Host:    host,
		Port:    port,
		User:    user,
		Pass:    pass,
		From:    from,
		BaseURL: baseURL,
		log:     log,
	}
}

// SendAlert mails the matched listings to one subscriber.
func (m *SMTP) SendAlert(ctx context.Context, sub model.AlertSubscriber, jobs []model.IngestedJob) error {
	if m.Host == "" {
		m.log.Info("SMTP_HOST not set — skipping alert mail", "email", sub.Email, "jobs", len(jobs))
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(sub.Email); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject(jobs))
	msg.SetBodyString(mail.TypeTextPlain, body(m.BaseURL, sub, jobs))

	opts := []mail.Option{mail.WithPort(m.Port)}
	if m.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.User),
			mail.WithPassword(m.Pass),
		)
	}
	client, err := mail.NewClient(m.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send to %s: %w", sub.Email, err)
	}
	return nil
}

func subject(jobs []model.IngestedJob) string {
	if len(jobs) == 1 {
		return fmt.Sprintf("1 new job matching your alert: %s", jobs[0].Title)
	}
	return fmt.Sprintf("%d new jobs matching your alert", len(jobs))
}

func body(baseURL string, sub model.AlertSubscriber, jobs []model.IngestedJob) string {
	var b strings.Builder

	name := sub.Name
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\n\nNew listings matching your alert:\n\n", name)

	for _, j := range jobs {
		fmt.Fprintf(&b, "- %s", j.Title)
		if j.Company != "" {
			fmt.Fprintf(&b, " at %s", j.Company)
		}
		if j.Location != "" {
			fmt.Fprintf(&b, " (%s)", j.Location)
		}
		b.WriteString("\n")
		if j.SalaryMin > 0 {
			fmt.Fprintf(&b, "  $%d - $%d · %s\n", j.SalaryMin, j.SalaryMax, j.EmploymentType)
		}
		if j.ApplyURL != "" {
			fmt.Fprintf(&b, "  %s\n", j.ApplyURL)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Unsubscribe: %s/api/alerts/unsubscribe?token=%s\n",
		strings.TrimRight(baseURL, "/"), sub.UnsubscribeToken)
	return b.String()
}
