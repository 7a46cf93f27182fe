package engine

import (
	"time"

	"github.com/google/uuid"

	"clinicdesk/platform/apperr"
)

// Profile is the assembled behavior profile for one client at one
// evaluation instant. It is a value; re-evaluating builds a fresh profile
// rather than mutating a previous one.
type Profile struct {
	ClientID             uuid.UUID `json:"clientId"`
	Metrics              Metrics   `json:"metrics"`
	Scores               Scores    `json:"scores"`
	Tags                 []Tag     `json:"tags"`
	NotificationStrategy Strategy  `json:"notificationStrategy"`
	EvaluatedAt          time.Time `json:"evaluatedAt"`
	WindowDays           int       `json:"windowDays"`
	RecencyWeighting     bool      `json:"recencyWeighting"`
}

// ComputeProfile runs the full pipeline for one client: aggregate the
// derived events, score, tag, and select a strategy. Equal inputs
// (including Options.Now) produce deeply equal profiles.
//
// A client with no events gets a complete neutral profile: zero metrics,
// reliability at the neutral midpoint, engagement from waitlist joins
// only, no tags, and the default channel.
func ComputeProfile(clientID uuid.UUID, events []Event, opts Options) (Profile, error) {
	if clientID == uuid.Nil {
		return Profile{}, apperr.Validation("client id is required")
	}
	opts = opts.sanitize()

	metrics := AggregateMetrics(events, opts)
	scores := ComputeScores(metrics, opts)
	tags := AssignTags(metrics, scores)
	strategy := SelectStrategy(tags, scores)

	return Profile{
		ClientID:             clientID,
		Metrics:              metrics,
		Scores:               scores,
		Tags:                 tags,
		NotificationStrategy: strategy,
		EvaluatedAt:          opts.Now,
		WindowDays:           opts.WindowDays,
		RecencyWeighting:     opts.RecencyWeighting,
	}, nil
}
