// Package mailer delivers password-reset links. Without a configured
// provider the console notifier logs the link instead of sending it.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/internal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Notifier sends the password-reset link to a user.
type Notifier interface {
	SendPasswordReset(ctx context.Context, toEmail, resetURL string) error
}

// ConsoleNotifier writes reset links to the structured log. It is the
// default in development, where no mail system exists.
type ConsoleNotifier struct {
	Logger *slog.Logger
}

func (n *ConsoleNotifier) SendPasswordReset(ctx context.Context, toEmail, resetURL string) error {
	n.Logger.InfoContext(ctx, "password reset requested",
		slog.String("email", toEmail),
		slog.String("reset_url", resetURL),
	)
	return nil
}

// SendGridNotifier delivers reset links through the SendGrid API.
type SendGridNotifier struct {
	APIKey string
	Sender string
}

func (n *SendGridNotifier) SendPasswordReset(ctx context.Context, toEmail, resetURL string) error {
	from := mail.NewEmail("Inkwell", n.Sender)
	to := mail.NewEmail("", toEmail)
	subject := "Reset your Inkwell password"
	plain := fmt.Sprintf("Visit the link below to reset your password. The link expires in one hour.\n\n%s", resetURL)
	html := fmt.Sprintf(`<p>Visit the link below to reset your password. The link expires in one hour.</p><p><a href=%q>%s</a></p>`, resetURL, resetURL)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(n.APIKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// New picks the notifier implied by the configuration: SendGrid when
// an API key is present, console output otherwise.
func New(cfg *config.Config, logger *slog.Logger) Notifier {
	if cfg.MailAPIKey != "" {
		return &SendGridNotifier{APIKey: cfg.MailAPIKey, Sender: cfg.MailSender}
	}
	return &ConsoleNotifier{Logger: logger}
}
