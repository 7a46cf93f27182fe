// Package service orchestrates behavior profile evaluation: it loads
// collaborator snapshots through read-only ports, runs the pure engine,
// and publishes evaluation events. All engine math lives in
// internal/behavior/engine; this layer owns I/O and fan-out only.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"clinicdesk/internal/behavior/engine"
	"clinicdesk/internal/behavior/ports"
	domainevents "clinicdesk/internal/events"
	"clinicdesk/platform/config"
	"clinicdesk/platform/logger"
)

// evaluationConcurrency bounds the batch fan-out. Evaluations are pure
// CPU work over small slices, so a small pool is enough.
const evaluationConcurrency = 8

// Service evaluates behavior profiles and generates recommendations.
type Service struct {
	appointments ports.AppointmentReader
	waitlist     ports.WaitlistReader
	clients      ports.ClientDirectory
	bus          domainevents.Bus
	log          *logger.Logger
	cfg          config.BehaviorConfig

	// lastScores remembers the previous evaluation per client so that
	// ProfileEvaluated events can carry a before/after pair. In-memory
	// only; subscribers own durable audit history.
	mu         sync.RWMutex
	lastScores map[uuid.UUID]engine.Scores
}

// New creates the behavior service.
func New(appointments ports.AppointmentReader, waitlist ports.WaitlistReader, clients ports.ClientDirectory, bus domainevents.Bus, log *logger.Logger, cfg config.BehaviorConfig) *Service {
	return &Service{
		appointments: appointments,
		waitlist:     waitlist,
		clients:      clients,
		bus:          bus,
		log:          log,
		cfg:          cfg,
		lastScores:   make(map[uuid.UUID]engine.Scores),
	}
}

// EvaluationOverrides are the per-request knobs callers may set; nil
// fields fall back to the configured defaults.
type EvaluationOverrides struct {
	WindowDays       *int
	RecencyWeighting *bool
}

func (s *Service) options(overrides EvaluationOverrides, waitlistJoins int) engine.Options {
	opts := engine.Options{
		Now:              time.Now().UTC(),
		WindowDays:       s.cfg.GetBehaviorWindowDays(),
		RecencyWeighting: s.cfg.GetBehaviorRecencyWeighting(),
		WaitlistJoins:    waitlistJoins,
	}
	if overrides.WindowDays != nil {
		opts.WindowDays = *overrides.WindowDays
	}
	if overrides.RecencyWeighting != nil {
		opts.RecencyWeighting = *overrides.RecencyWeighting
	}
	return opts
}

// Events derives the behavior event stream for one client.
func (s *Service) Events(ctx context.Context, clientID uuid.UUID) ([]engine.Event, error) {
	if _, err := s.clients.Get(ctx, clientID); err != nil {
		return nil, err
	}
	appts, err := s.appointments.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return engine.DeriveEvents(appts), nil
}

// Profile evaluates one client and publishes a ProfileEvaluated event
// carrying the previous scores when an earlier evaluation exists.
func (s *Service) Profile(ctx context.Context, clientID uuid.UUID, overrides EvaluationOverrides) (engine.Profile, error) {
	if _, err := s.clients.Get(ctx, clientID); err != nil {
		return engine.Profile{}, err
	}

	appts, err := s.appointments.ListByClient(ctx, clientID)
	if err != nil {
		return engine.Profile{}, err
	}
	entries, err := s.waitlist.ListByClient(ctx, clientID)
	if err != nil {
		return engine.Profile{}, err
	}

	opts := s.options(overrides, len(entries))
	profile, err := engine.ComputeProfile(clientID, engine.DeriveEvents(appts), opts)
	if err != nil {
		return engine.Profile{}, err
	}

	s.publishEvaluation(ctx, profile, "on-demand evaluation")
	return profile, nil
}

// ClientFailure records one client whose evaluation failed during a batch
// run. Failures never abort the batch.
type ClientFailure struct {
	ClientID uuid.UUID `json:"clientId"`
	Error    string    `json:"error"`
}

// RecommendationResult is the outcome of a batch recommendation run.
type RecommendationResult struct {
	Recommendations []engine.Recommendation `json:"recommendations"`
	Failures        []ClientFailure         `json:"failures,omitempty"`
	EvaluatedAt     time.Time               `json:"evaluatedAt"`
}

// Recommendations evaluates every client and returns the global, sorted
// action item list. Per-client loading runs concurrently; a failing client
// is reported in Failures while the rest of the batch proceeds.
func (s *Service) Recommendations(ctx context.Context) (RecommendationResult, error) {
	clients, err := s.clients.ListAll(ctx)
	if err != nil {
		return RecommendationResult{}, err
	}
	allWaitlist, err := s.waitlist.ListAll(ctx)
	if err != nil {
		return RecommendationResult{}, err
	}

	now := time.Now().UTC()
	baseOpts := s.options(EvaluationOverrides{}, 0)
	baseOpts.Now = now

	waitlistByClient := make(map[uuid.UUID][]engine.WaitlistEntry, len(clients))
	for _, entry := range allWaitlist {
		waitlistByClient[entry.ClientID] = append(waitlistByClient[entry.ClientID], entry)
	}

	contexts := make([]engine.ClientContext, len(clients))
	failures := make([]*ClientFailure, len(clients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(evaluationConcurrency)
	for i, client := range clients {
		g.Go(func() error {
			cc, err := s.buildContext(gctx, client, waitlistByClient[client.ID], baseOpts)
			if err != nil {
				failures[i] = &ClientFailure{ClientID: client.ID, Error: err.Error()}
				return nil
			}
			contexts[i] = cc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RecommendationResult{}, err
	}

	input := engine.RecommendationInput{Waitlist: allWaitlist}
	result := RecommendationResult{EvaluatedAt: now}
	for i := range contexts {
		if failures[i] != nil {
			result.Failures = append(result.Failures, *failures[i])
			continue
		}
		input.Clients = append(input.Clients, contexts[i])
	}

	result.Recommendations = engine.GenerateRecommendations(input, baseOpts)
	return result, nil
}

func (s *Service) buildContext(ctx context.Context, client ports.ClientInfo, entries []engine.WaitlistEntry, baseOpts engine.Options) (engine.ClientContext, error) {
	appts, err := s.appointments.ListByClient(ctx, client.ID)
	if err != nil {
		return engine.ClientContext{}, fmt.Errorf("load appointments: %w", err)
	}

	opts := baseOpts
	opts.WaitlistJoins = len(entries)
	profile, err := engine.ComputeProfile(client.ID, engine.DeriveEvents(appts), opts)
	if err != nil {
		return engine.ClientContext{}, fmt.Errorf("compute profile: %w", err)
	}

	return engine.ClientContext{
		Profile:      profile,
		DisplayName:  client.DisplayName,
		Appointments: appts,
		Waitlist:     entries,
	}, nil
}

// EvaluateAll re-evaluates every client and publishes a ProfileEvaluated
// event per profile. Used by the periodic sweep; returns the number of
// profiles evaluated and the per-client failures.
func (s *Service) EvaluateAll(ctx context.Context, reason string) (int, []ClientFailure, error) {
	clients, err := s.clients.ListAll(ctx)
	if err != nil {
		return 0, nil, err
	}

	var (
		mu        sync.Mutex
		evaluated int
		failures  []ClientFailure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(evaluationConcurrency)
	for _, client := range clients {
		g.Go(func() error {
			appts, err := s.appointments.ListByClient(gctx, client.ID)
			if err == nil {
				var entries []engine.WaitlistEntry
				entries, err = s.waitlist.ListByClient(gctx, client.ID)
				if err == nil {
					opts := s.options(EvaluationOverrides{}, len(entries))
					var profile engine.Profile
					profile, err = engine.ComputeProfile(client.ID, engine.DeriveEvents(appts), opts)
					if err == nil {
						s.publishEvaluation(gctx, profile, reason)
					}
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, ClientFailure{ClientID: client.ID, Error: err.Error()})
				return nil
			}
			evaluated++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return evaluated, failures, err
	}

	return evaluated, failures, nil
}

func (s *Service) publishEvaluation(ctx context.Context, profile engine.Profile, reason string) {
	s.mu.Lock()
	previous, hasPrevious := s.lastScores[profile.ClientID]
	s.lastScores[profile.ClientID] = profile.Scores
	s.mu.Unlock()

	event := domainevents.ProfileEvaluated{
		BaseEvent:        domainevents.NewBaseEvent(),
		ClientID:         profile.ClientID,
		Reliability:      profile.Scores.Reliability,
		Engagement:       profile.Scores.Engagement,
		PreferredChannel: string(profile.NotificationStrategy.PreferredChannel),
		Reason:           reason,
		EvaluatedAt:      profile.EvaluatedAt,
	}
	if hasPrevious {
		event.PreviousReliability = &previous.Reliability
		event.PreviousEngagement = &previous.Engagement
	}
	for _, tag := range profile.Tags {
		event.Tags = append(event.Tags, string(tag.ID))
	}

	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
	s.log.ProfileEvaluated(profile.ClientID.String(), profile.Scores.Reliability, profile.Scores.Engagement, len(profile.Tags))
}
