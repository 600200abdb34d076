// Package mail sends account-lifecycle emails over SMTP.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	gomail "github.com/wneessen/go-mail"

	"datadvisor_backend/internal/platform/config"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const (
	confirmationTemplate = "confirmation_email.html.tmpl"
	resetTemplate        = "reset_password_email.html.tmpl"

	confirmationSubject = "Datadvisor - Confirm your email"
	resetSubject        = "Datadvisor - Reset password"
)

// emailData is the payload handed to the HTML templates.
type emailData struct {
	Email string
	Link  string
}

// Mailer dispatches rendered lifecycle emails through an SMTP transport.
type Mailer struct {
	cfg    config.EmailConfig
	client *gomail.Client
	tmpl   *template.Template
}

// NewMailer creates a Mailer from the SMTP configuration.
func NewMailer(cfg config.EmailConfig) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.SenderAddr == "" {
		return nil, fmt.Errorf("email sender address is required")
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Mailer{cfg: cfg, client: client, tmpl: tmpl}, nil
}

// SendConfirmation sends the email-confirmation link to the given address.
func (m *Mailer) SendConfirmation(ctx context.Context, to, link string) error {
	html, err := m.render(confirmationTemplate, emailData{Email: to, Link: link})
	if err != nil {
		return err
	}
	return m.send(ctx, to, confirmationSubject, html)
}

// SendPasswordReset sends the password-reset link to the given address.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, link string) error {
	html, err := m.render(resetTemplate, emailData{Email: to, Link: link})
	if err != nil {
		return err
	}
	return m.send(ctx, to, resetSubject, html)
}

// render executes the named embedded template.
func (m *Mailer) render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// send builds the message and dispatches it over SMTP.
// The context bounds the dial and send, so a stuck transport cannot hold an
// HTTP response open indefinitely.
func (m *Mailer) send(ctx context.Context, to, subject, html string) error {
	msg := gomail.NewMsg()

	if m.cfg.SenderName != "" {
		if err := msg.FromFormat(m.cfg.SenderName, m.cfg.SenderAddr); err != nil {
			return fmt.Errorf("failed to set from address: %w", err)
		}
	} else {
		if err := msg.From(m.cfg.SenderAddr); err != nil {
			return fmt.Errorf("failed to set from address: %w", err)
		}
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("failed to set to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, html)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
