package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a plain-text notification email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// SendGridNotifier delivers messages through the SendGrid v3 API.
type SendGridNotifier struct {
	client   *sendgrid.Client
	from     *mail.Email
	fallback string
}

func NewSendGridNotifier(apiKey, fromAddress, fromName, adminAddress string) *SendGridNotifier {
	return &SendGridNotifier{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail(fromName, fromAddress),
		fallback: adminAddress,
	}
}

func (n *SendGridNotifier) Send(ctx context.Context, msg Message) error {
	to := msg.To
	if to == "" {
		to = n.fallback
	}
	if to == "" {
		return fmt.Errorf("no recipient configured")
	}

	email := mail.NewSingleEmail(n.from, msg.Subject, mail.NewEmail("", to), msg.Body, "")
	if msg.ReplyTo != "" {
		email.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}

	resp, err := n.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogNotifier only records messages; used when no mail provider is set.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("service", "notifier")}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.logger.InfoContext(ctx, "notification", "to", msg.To, "subject", msg.Subject)
	return nil
}
