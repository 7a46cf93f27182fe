package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	appointmentsvc "clinicdesk/internal/appointments/service"
	"clinicdesk/platform/config"
)

// behaviorSweepSpec is the cron spec for the nightly profile sweep.
const behaviorSweepSpec = "0 3 * * *"

// Client enqueues scheduler tasks from the API process.
type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
	lead      time.Duration
}

// Compile-time check that Client can serve the appointments module.
var _ appointmentsvc.ReminderScheduler = (*Client)(nil)

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	lead := cfg.GetReminderLead()
	if lead <= 0 {
		lead = 24 * time.Hour
	}

	return &Client{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		queue:     queue,
		lead:      lead,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if c.inspector != nil {
		_ = c.inspector.Close()
	}
	return c.client.Close()
}

// ScheduleReminder enqueues the reminder task for one appointment. The task
// ID is derived from the appointment so a reschedule replaces the pending
// reminder instead of adding a second one.
func (c *Client) ScheduleReminder(ctx context.Context, appointmentID uuid.UUID, startAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	if err := c.CancelReminder(ctx, appointmentID); err != nil {
		return err
	}

	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{
		AppointmentID: appointmentID.String(),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.TaskID(reminderTaskID(appointmentID)),
		asynq.ProcessAt(startAt.Add(-c.lead)),
		asynq.Queue(c.queue),
	)
	return err
}

// CancelReminder removes the pending reminder task, if any.
func (c *Client) CancelReminder(_ context.Context, appointmentID uuid.UUID) error {
	if c == nil || c.inspector == nil {
		return nil
	}

	err := c.inspector.DeleteTask(c.queue, reminderTaskID(appointmentID))
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
		return err
	}
	return nil
}

func reminderTaskID(appointmentID uuid.UUID) string {
	return "reminder:" + appointmentID.String()
}

// NewPeriodic returns an asynq scheduler that enqueues the nightly behavior
// sweep. The caller runs and shuts it down alongside the worker.
func NewPeriodic(cfg config.SchedulerConfig) (*asynq.Scheduler, error) {
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

	sched := asynq.NewScheduler(opt, nil)
	if _, err := sched.Register(behaviorSweepSpec, NewBehaviorSweepTask(), asynq.Queue(queue)); err != nil {
		return nil, err
	}
	return sched, nil
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
