package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"clinicdesk/internal/adapters"
	"clinicdesk/internal/appointments"
	"clinicdesk/internal/behavior"
	"clinicdesk/internal/clients"
	"clinicdesk/internal/email"
	"clinicdesk/internal/notification"
	"clinicdesk/internal/scheduler"
	"clinicdesk/internal/waitlist"
	"clinicdesk/platform/config"
	"clinicdesk/platform/db"
	"clinicdesk/platform/events"
	"clinicdesk/platform/logger"
	"clinicdesk/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	val := validator.New()

	// The worker evaluates profiles through the same module wiring the API
	// uses; no HTTP routes are registered here.
	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = reminderClient.Close() }()

	clientsModule := clients.NewModule(pool, val)
	appointmentsModule := appointments.NewModule(pool, val, eventBus, reminderClient, log)
	waitlistModule := waitlist.NewModule(pool, val, eventBus)

	behaviorModule := behavior.NewModule(
		adapters.NewBehaviorAppointmentReader(appointmentsModule.Service),
		adapters.NewBehaviorWaitlistReader(waitlistModule.Service),
		adapters.NewBehaviorClientDirectory(clientsModule.Service),
		eventBus,
		log,
		cfg,
		val,
	)

	// Subscribe notification handlers so sweep results reach the staff feed
	// and inactive clients get re-engagement email.
	notificationModule := notification.NewModule(pool, eventBus, log)
	notificationModule.SetReengagementMailer(sender,
		adapters.NewBehaviorClientDirectory(clientsModule.Service), cfg.GetAppBaseURL())

	periodic, err := scheduler.NewPeriodic(cfg)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}
	go func() {
		<-ctx.Done()
		periodic.Shutdown()
	}()
	go func() {
		if err := periodic.Run(); err != nil {
			log.Error("periodic scheduler stopped", "error", err)
		}
	}()

	worker, err := scheduler.NewWorker(cfg, pool, behaviorModule.Service, sender, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
