// Package email delivers transactional clinic email over SMTP.
package email

import (
	"context"

	"clinicdesk/platform/config"
)

// ReminderParams carries the data for an appointment reminder email.
type ReminderParams struct {
	ToEmail     string
	ClientName  string
	ServiceName string
	StartAt     string
	Address     string
}

// ReengagementParams carries the data for a re-engagement email.
type ReengagementParams struct {
	ToEmail    string
	ClientName string
	Message    string
	BookingURL string
}

// Sender delivers clinic email. The scheduler worker is the main caller.
type Sender interface {
	SendAppointmentReminder(ctx context.Context, p ReminderParams) error
	SendReengagement(ctx context.Context, p ReengagementParams) error
}

// NoopSender drops email silently. Used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendAppointmentReminder(ctx context.Context, p ReminderParams) error {
	return nil
}

func (NoopSender) SendReengagement(ctx context.Context, p ReengagementParams) error {
	return nil
}

// NewSender picks the sender implementation from configuration.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
