package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface with a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Compile-time check that SMTPSender implements Sender.
var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendAppointmentReminder sends the upcoming-appointment reminder email.
func (s *SMTPSender) SendAppointmentReminder(ctx context.Context, p ReminderParams) error {
	content, err := renderEmailTemplate("appointment_reminder.html", reminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Appointment reminder",
			Heading: "Your appointment is coming up",
		},
		ClientName:  p.ClientName,
		ServiceName: p.ServiceName,
		StartAt:     p.StartAt,
		Address:     p.Address,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, p.ToEmail, fmt.Sprintf(subjectAppointmentReminderFmt, p.ServiceName), content)
}

// SendReengagement sends a re-engagement email to an inactive client.
func (s *SMTPSender) SendReengagement(ctx context.Context, p ReengagementParams) error {
	content, err := renderEmailTemplate("reengagement.html", reengagementEmailData{
		baseEmailData: baseEmailData{
			Title:    "We miss you",
			Heading:  "It has been a while",
			CTALabel: "Book an appointment",
			CTAURL:   p.BookingURL,
		},
		ClientName: p.ClientName,
		Message:    p.Message,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, p.ToEmail, subjectReengagement, content)
}
