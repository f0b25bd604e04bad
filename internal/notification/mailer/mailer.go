// Package mailer sends transactional email for the notification service.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
)

// Email is a rendered message ready to send.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers rendered email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// welcomeTemplate is the welcome email body. Kept inline; there is only
// one template and no theming.
var welcomeTemplate = template.Must(template.New("welcome").Parse(`<html>
<body style="font-family: Helvetica, Arial, sans-serif;">
  <p>Hi {{.Name}},</p>
  <p>Welcome to CloudCart! We are excited to have you on board.</p>
  <p>To get started with CloudCart, please click here:</p>
  <p><a href="{{.DashboardURL}}" style="background: #22BC66; color: #fff; padding: 10px 18px; border-radius: 4px; text-decoration: none;">Go to Dashboard</a></p>
  <p>Need help, or have questions? Just reply to this email, we'd love to help.</p>
</body>
</html>
`))

// WelcomeSubject is the subject line for account-creation mail.
const WelcomeSubject = "Welcome to CloudCart!"

// RenderWelcome builds the welcome email for a new user.
func RenderWelcome(to, name, dashboardURL string) (Email, error) {
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, struct {
		Name         string
		DashboardURL string
	}{Name: name, DashboardURL: dashboardURL})
	if err != nil {
		return Email{}, fmt.Errorf("render welcome email: %w", err)
	}
	return Email{To: to, Subject: WelcomeSubject, HTML: buf.String()}, nil
}

// SMTPMailer sends mail over plain SMTP with AUTH.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTP configures a mailer against addr (host:port).
func NewSMTP(addr, username, password, from string) *SMTPMailer {
	host := addr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
	}
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{addr: addr, auth: auth, from: from}
}

func (m *SMTPMailer) Send(_ context.Context, email Email) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + email.To,
		"Subject: " + email.Subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		email.HTML,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email.To}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", email.To, err)
	}
	return nil
}

// LogMailer logs instead of sending, for local development without SMTP
// credentials.
type LogMailer struct {
	logger *slog.Logger
}

// NewLog builds a mailer that only logs.
func NewLog(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, email Email) error {
	m.logger.InfoContext(ctx, "would send email", "to", email.To, "subject", email.Subject)
	return nil
}
