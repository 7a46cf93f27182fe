// Package engine implements the client behavior profiling engine: a pure,
// deterministic pipeline that turns appointment history into derived events,
// windowed metrics, bounded scores, explained tags, a notification strategy,
// and prioritized outreach recommendations. The package performs no I/O;
// callers load collaborator data and pass immutable snapshots in.
package engine

import "time"

// Default evaluation settings. Every entry point takes an explicit Options
// value; there is no module-level mutable state.
const (
	// DefaultWindowDays is the trailing aggregation window.
	DefaultWindowDays = 90

	// minReliabilitySample is the weighted scheduled-event mass below which
	// the reliability score falls back to the neutral midpoint instead of
	// an overconfident extreme.
	minReliabilitySample = 2.0

	// neutralReliability is the score assigned to clients with too little
	// history to judge.
	neutralReliability = 50.0

	// engagementRecencyRefDays is the span over which the recency component
	// of the engagement score decays from full to zero.
	engagementRecencyRefDays = 30.0

	// engagementWaitlistRef is the waitlist-join count that earns the full
	// waitlist component of the engagement score.
	engagementWaitlistRef = 3.0

	// Penalty weights for the reliability formula. No-shows cost more than
	// cancellations, and short-notice cancellations cost more than those
	// made with adequate lead time.
	noShowPenalty            = 1.0
	shortNoticeCancelPenalty = 0.6
	noticedCancelPenalty     = 0.25

	// adequateCancelLeadHours separates courteous cancellations from
	// short-notice ones.
	adequateCancelLeadHours = 24.0

	// frequentCancelThreshold is the in-window cancellation count at which
	// the frequently_cancels tag fires.
	frequentCancelThreshold = 3

	// attendanceTagMinSample is the minimum in-window scheduled count for
	// the excellent_attendance tag.
	attendanceTagMinSample = 5

	// attendanceTagRate is the attendance rate the excellent_attendance
	// tag requires.
	attendanceTagRate = 0.8
)

// Options is the explicit evaluation configuration passed into every engine
// entry point. Zero values are normalized by sanitize().
type Options struct {
	// Now is the reference time for window filtering and recency weighting.
	// Evaluations with equal Now and equal inputs are identical, which is
	// what makes re-evaluation idempotent.
	Now time.Time

	// WindowDays is the trailing window over which metrics are aggregated.
	WindowDays int

	// RecencyWeighting, when set, down-weights older in-window events
	// linearly toward zero at the window edge.
	RecencyWeighting bool

	// WaitlistJoins is the client's waitlist participation count, supplied
	// by the caller from the waitlist collaborator. It feeds the engagement
	// score only.
	WaitlistJoins int
}

// sanitize returns a copy with defaults applied.
func (o Options) sanitize() Options {
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	if o.WindowDays < 1 {
		o.WindowDays = DefaultWindowDays
	}
	if o.WaitlistJoins < 0 {
		o.WaitlistJoins = 0
	}
	return o
}

// windowStart returns the inclusive lower bound of the aggregation window.
func (o Options) windowStart() time.Time {
	return o.Now.AddDate(0, 0, -o.WindowDays)
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
