package engine

import (
	"time"

	"github.com/google/uuid"
)

// Metrics is the per-client, per-window aggregate over derived events.
// The weighted counts are plain event counts when recency weighting is off;
// with weighting on, each event contributes its decay weight instead of 1.
// Raw* fields always hold unweighted in-window counts and back the tag
// rules' fixed thresholds.
type Metrics struct {
	ScheduledCount float64 `json:"scheduledCount"`
	CompletedCount float64 `json:"completedCount"`
	CancelledCount float64 `json:"cancelledCount"`
	NoShowCount    float64 `json:"noShowCount"`

	// AttendanceRate is completed/scheduled; 0 when nothing was scheduled.
	AttendanceRate float64 `json:"attendanceRate"`
	// CancelRate is cancelled/scheduled; 0 when nothing was scheduled.
	CancelRate float64 `json:"cancelRate"`
	// AvgCancelLeadHours is the (weighted) mean cancellation lead time.
	AvgCancelLeadHours float64 `json:"avgCancelLeadHours"`

	RawScheduled int `json:"rawScheduled"`
	RawCompleted int `json:"rawCompleted"`
	RawCancelled int `json:"rawCancelled"`
	RawNoShow    int `json:"rawNoShow"`

	// Cancellation mass split by lead time; feeds the reliability penalty.
	CancelledWithNotice  float64 `json:"-"`
	CancelledShortNotice float64 `json:"-"`

	// LastEventAt is the most recent event at or before Now, across the
	// full history (not window-filtered); nil when there are no events.
	LastEventAt *time.Time `json:"lastEventAt,omitempty"`

	WindowDays int `json:"windowDays"`
}

// AggregateMetrics filters events to [now - windowDays, now] and computes
// counts and rates. Counting is per booking, not per event: a booking joins
// the scheduled mass as soon as any of its events falls in the window, and
// its lifecycle event contributes the same weight as that scheduled mass.
// An appointment has at most one lifecycle event, so completed + cancelled
// + no-show mass can never exceed scheduled mass and the rates stay within
// [0, 1]. With recency weighting on, a booking's weight is the decay weight
// of its most recent in-window event (weight = 1 - age/window). Events with
// missing or zero timestamps are treated as out-of-window rather than
// failing the aggregate.
func AggregateMetrics(events []Event, opts Options) Metrics {
	opts = opts.sanitize()
	start := opts.windowStart()

	m := Metrics{WindowDays: opts.WindowDays}

	// One weight per booking, the maximum over its in-window events. A
	// completion is always at least as recent as its booking's creation
	// proxy, so this is the lifecycle event's own weight when one exists.
	weights := make(map[uuid.UUID]float64)
	for _, ev := range events {
		if ev.Timestamp.IsZero() || ev.Timestamp.After(opts.Now) || ev.Timestamp.Before(start) {
			continue
		}
		w := 1.0
		if opts.RecencyWeighting {
			ageDays := opts.Now.Sub(ev.Timestamp).Hours() / 24
			w = clamp(1-ageDays/float64(opts.WindowDays), 0, 1)
		}
		if w > weights[ev.AppointmentID] {
			weights[ev.AppointmentID] = w
		}
	}

	var leadSum, leadWeight float64
	counted := make(map[uuid.UUID]bool, len(weights))

	for _, ev := range events {
		if ev.Timestamp.IsZero() || ev.Timestamp.After(opts.Now) {
			continue
		}
		if m.LastEventAt == nil || ev.Timestamp.After(*m.LastEventAt) {
			ts := ev.Timestamp
			m.LastEventAt = &ts
		}
		if ev.Timestamp.Before(start) {
			continue
		}

		w := weights[ev.AppointmentID]
		if !counted[ev.AppointmentID] {
			counted[ev.AppointmentID] = true
			m.ScheduledCount += w
			m.RawScheduled++
		}

		switch ev.Type {
		case EventBookingCompleted:
			m.CompletedCount += w
			m.RawCompleted++
		case EventBookingCancelled:
			m.CancelledCount += w
			m.RawCancelled++
			lead := 0.0
			if ev.HoursBeforeAppointment != nil {
				lead = *ev.HoursBeforeAppointment
			}
			if lead >= adequateCancelLeadHours {
				m.CancelledWithNotice += w
			} else {
				m.CancelledShortNotice += w
			}
			leadSum += w * lead
			leadWeight += w
		case EventBookingNoShow:
			m.NoShowCount += w
			m.RawNoShow++
		}
	}

	if m.ScheduledCount > 0 {
		m.AttendanceRate = m.CompletedCount / m.ScheduledCount
		m.CancelRate = m.CancelledCount / m.ScheduledCount
	}
	if leadWeight > 0 {
		m.AvgCancelLeadHours = leadSum / leadWeight
	}

	return m
}
