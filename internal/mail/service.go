package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaykit/quoterelay/internal/models"
)

// Sender delivers a composed email.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// Service implements the intake.Notifier interface by emailing the merchant
// when a new quote request arrives.
type Service struct {
	sender Sender
}

// NewService creates a mail Service over the given sender.
func NewService(sender Sender) *Service {
	return &Service{sender: sender}
}

// NotifyNewQuote composes and sends the new-quote email to the merchant's
// configured notification address.
func (s *Service) NotifyNewQuote(ctx context.Context, to string, sub *models.QuoteSubmission) error {
	if to == "" {
		return nil
	}

	subject := QuoteNotificationSubject(sub)
	if err := s.sender.Send(to, subject, QuoteNotificationHTML(sub), QuoteNotificationText(sub)); err != nil {
		return fmt.Errorf("mail: failed to send quote notification to %s: %w", to, err)
	}

	slog.InfoContext(ctx, "sent quote notification",
		"shop", sub.Shop,
		"recipient", to,
		"handle", sub.Handle,
	)
	return nil
}

// LogSender logs the composed message instead of delivering it. It is wired
// in when SMTP is not configured.
type LogSender struct{}

func (LogSender) Send(to, subject, _ string, textBody string) error {
	slog.Info("smtp not configured, logging composed email",
		"to", to,
		"subject", subject,
		"body", textBody,
	)
	return nil
}
