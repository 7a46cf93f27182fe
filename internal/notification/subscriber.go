package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinicdesk/internal/behavior/ports"
	"clinicdesk/internal/email"
	domainevents "clinicdesk/internal/events"
	"clinicdesk/internal/notification/inapp"
	"clinicdesk/platform/logger"
)

// reengagementCooldown is the minimum interval between re-engagement
// emails to the same client. The nightly sweep re-tags inactive clients
// on every run; without the cooldown they would be mailed daily.
const reengagementCooldown = 30 * 24 * time.Hour

// Subscriber translates domain events into in-app staff notifications
// and, when a mailer is wired, outbound re-engagement email.
type Subscriber struct {
	inapp *inapp.Service
	log   *logger.Logger

	mailer     email.Sender
	clients    ports.ClientDirectory
	bookingURL string

	mu       sync.Mutex
	lastSent map[uuid.UUID]time.Time
}

// NewSubscriber creates the event subscriber.
func NewSubscriber(inappSvc *inapp.Service, log *logger.Logger) *Subscriber {
	return &Subscriber{
		inapp:    inappSvc,
		log:      log,
		lastSent: make(map[uuid.UUID]time.Time),
	}
}

// SetReengagementMailer enables outbound re-engagement email for clients
// tagged inactive during profile evaluation.
func (s *Subscriber) SetReengagementMailer(mailer email.Sender, clients ports.ClientDirectory, bookingURL string) {
	s.mailer = mailer
	s.clients = clients
	s.bookingURL = bookingURL
}

// Register attaches the subscriber's handlers to the bus.
func (s *Subscriber) Register(bus domainevents.Bus) {
	bus.Subscribe(domainevents.AppointmentStatusChanged{}.EventName(),
		domainevents.HandlerFunc(s.onAppointmentStatusChanged))
	bus.Subscribe(domainevents.ProfileEvaluated{}.EventName(),
		domainevents.HandlerFunc(s.onProfileEvaluated))
}

func (s *Subscriber) onAppointmentStatusChanged(ctx context.Context, event domainevents.Event) error {
	e, ok := event.(domainevents.AppointmentStatusChanged)
	if !ok {
		return nil
	}

	switch e.NewStatus {
	case "cancelled":
		return s.inapp.Send(ctx, inapp.SendParams{
			Title:        "Appointment cancelled",
			Content:      fmt.Sprintf("The %s appointment was cancelled; the slot can be offered to the waitlist.", e.StartAt.Format("Jan 2 15:04")),
			ResourceID:   &e.AppointmentID,
			ResourceType: "appointment",
			Category:     "warning",
		})
	case "no_show":
		return s.inapp.Send(ctx, inapp.SendParams{
			Title:        "Client did not show up",
			Content:      fmt.Sprintf("The %s appointment ended as a no-show.", e.StartAt.Format("Jan 2 15:04")),
			ResourceID:   &e.AppointmentID,
			ResourceType: "appointment",
			Category:     "warning",
		})
	}
	return nil
}

// onProfileEvaluated surfaces newly risky clients to staff and mails
// inactive ones. Routine evaluations without either tag stay quiet.
func (s *Subscriber) onProfileEvaluated(ctx context.Context, event domainevents.Event) error {
	e, ok := event.(domainevents.ProfileEvaluated)
	if !ok {
		return nil
	}

	for _, tag := range e.Tags {
		switch tag {
		case "at_risk_no_show":
			if err := s.inapp.Send(ctx, inapp.SendParams{
				Title:        "Client flagged as no-show risk",
				Content:      fmt.Sprintf("Behavior evaluation flagged a no-show risk (reliability %.0f). Preferred contact channel: %s.", e.Reliability, e.PreferredChannel),
				ResourceID:   &e.ClientID,
				ResourceType: "client",
				Category:     "risk",
			}); err != nil {
				return err
			}
		case "inactive":
			if err := s.sendReengagement(ctx, e.ClientID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Subscriber) sendReengagement(ctx context.Context, clientID uuid.UUID) error {
	if s.mailer == nil || s.clients == nil {
		return nil
	}

	s.mu.Lock()
	last, seen := s.lastSent[clientID]
	now := time.Now().UTC()
	if seen && now.Sub(last) < reengagementCooldown {
		s.mu.Unlock()
		return nil
	}
	s.lastSent[clientID] = now
	s.mu.Unlock()

	client, err := s.clients.Get(ctx, clientID)
	if err != nil {
		return err
	}
	if client.Email == "" {
		return nil
	}

	return s.mailer.SendReengagement(ctx, email.ReengagementParams{
		ToEmail:    client.Email,
		ClientName: client.DisplayName,
		Message:    "It has been a while since your last visit. We would love to welcome you back; book whenever it suits you.",
		BookingURL: s.bookingURL,
	})
}
