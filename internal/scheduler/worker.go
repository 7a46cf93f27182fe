package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	apptrepo "clinicdesk/internal/appointments/repository"
	"clinicdesk/internal/behavior/engine"
	behaviorsvc "clinicdesk/internal/behavior/service"
	clientrepo "clinicdesk/internal/clients/repository"
	"clinicdesk/internal/email"
	"clinicdesk/internal/notification/inapp"
	servicerepo "clinicdesk/internal/services/repository"
	"clinicdesk/platform/apperr"
	"clinicdesk/platform/config"
	"clinicdesk/platform/logger"
	"clinicdesk/platform/phone"
)

const startAtFormat = "Mon, Jan 2 2006 at 15:04"

// Worker consumes scheduler tasks: appointment reminders and the nightly
// behavior sweep.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	appts    apptrepo.Repository
	clients  clientrepo.Repository
	services servicerepo.Repository
	behavior *behaviorsvc.Service
	mailer   email.Sender
	inapp    *inapp.Service
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, behavior *behaviorsvc.Service, mailer email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		appts:    apptrepo.New(pool),
		clients:  clientrepo.New(pool),
		services: servicerepo.New(pool),
		behavior: behavior,
		mailer:   mailer,
		inapp:    inapp.NewService(inapp.NewRepository(pool), log),
		log:      log,
	}

	mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)
	mux.HandleFunc(TaskBehaviorSweep, w.handleBehaviorSweep)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleAppointmentReminder delivers the reminder for one appointment via the
// client's preferred channel. Email is the only channel the clinic delivers
// directly; every other channel becomes an in-app task for staff.
func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return err
	}

	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return err
	}

	appt, err := w.appts.GetByID(ctx, apptID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if appt.Status != "scheduled" {
		return nil
	}

	client, err := w.clients.GetByID(ctx, appt.ClientID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	serviceName := "appointment"
	svc, err := w.services.GetByID(ctx, appt.ServiceID)
	if err == nil {
		serviceName = svc.Name
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return err
	}

	channel := preferredChannel(w.behavior.Profile(ctx, appt.ClientID, behaviorsvc.EvaluationOverrides{}))
	if channel == engine.ChannelSMS && (client.Phone == nil || !phone.CanReceiveSMS(*client.Phone)) {
		channel = engine.ChannelEmail
	}

	clientName := strings.TrimSpace(client.FirstName + " " + client.LastName)
	if clientName == "" {
		clientName = "there"
	}

	if channel == engine.ChannelEmail && client.Email != "" && w.mailer != nil {
		return w.mailer.SendAppointmentReminder(ctx, email.ReminderParams{
			ToEmail:     client.Email,
			ClientName:  clientName,
			ServiceName: serviceName,
			StartAt:     appt.StartAt.Format(startAtFormat),
		})
	}

	return w.inapp.Send(ctx, inapp.SendParams{
		Title:        "Appointment reminder due",
		Content:      fmt.Sprintf("Contact %s via %s about the %s appointment on %s.", clientName, channel, serviceName, appt.StartAt.Format(startAtFormat)),
		ResourceID:   &appt.ID,
		ResourceType: "appointment",
		Category:     "info",
	})
}

func (w *Worker) handleBehaviorSweep(ctx context.Context, _ *asynq.Task) error {
	evaluated, failures, err := w.behavior.EvaluateAll(ctx, "scheduled sweep")
	if err != nil {
		return err
	}

	for _, failure := range failures {
		w.log.Warn("behavior sweep skipped client", "client_id", failure.ClientID, "error", failure.Error)
	}
	w.log.Info("behavior sweep finished", "evaluated", evaluated, "failed", len(failures))
	return nil
}

// preferredChannel unwraps a profile evaluation, falling back to email when
// the evaluation itself fails. A broken profile must not block the reminder.
func preferredChannel(profile engine.Profile, err error) engine.Channel {
	if err != nil {
		return engine.ChannelEmail
	}
	return profile.NotificationStrategy.PreferredChannel
}
