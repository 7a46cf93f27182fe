package engine

import (
	"testing"
	"time"
)

func unweightedOpts() Options {
	return Options{Now: testNow, WindowDays: 90}
}

func TestAggregateOneCompletedOneCancelled(t *testing.T) {
	events := DeriveEvents([]AppointmentRecord{
		completedAppt(1, clientA, testNow.Add(-10*24*time.Hour)),
		cancelledAppt(2, clientA, testNow.Add(-5*24*time.Hour), testNow.Add(-7*24*time.Hour)),
	})

	m := AggregateMetrics(events, unweightedOpts())

	if m.ScheduledCount != 2 {
		t.Fatalf("expected scheduledCount 2, got %v", m.ScheduledCount)
	}
	if m.AttendanceRate != 0.5 {
		t.Fatalf("expected attendanceRate 0.5, got %v", m.AttendanceRate)
	}
	if m.CancelRate != 0.5 {
		t.Fatalf("expected cancelRate 0.5, got %v", m.CancelRate)
	}
	if m.CompletedCount+m.CancelledCount+m.NoShowCount > m.ScheduledCount {
		t.Fatalf("lifecycle counts exceed scheduled: %+v", m)
	}
}

func TestAggregateZeroScheduledYieldsZeroRates(t *testing.T) {
	m := AggregateMetrics(nil, unweightedOpts())

	if m.AttendanceRate != 0 || m.CancelRate != 0 || m.AvgCancelLeadHours != 0 {
		t.Fatalf("expected zero rates for empty history, got %+v", m)
	}
	if m.LastEventAt != nil {
		t.Fatalf("expected nil lastEventAt for empty history")
	}
}

func TestAggregateExcludesOutOfWindowAndZeroTimestamps(t *testing.T) {
	inWindow := DeriveEvents([]AppointmentRecord{
		completedAppt(1, clientA, testNow.Add(-10*24*time.Hour)),
	})
	old := DeriveEvents([]AppointmentRecord{
		completedAppt(2, clientA, testNow.Add(-200*24*time.Hour)),
	})
	broken := Event{ID: "broken", ClientID: clientA, Type: EventBookingCompleted}

	events := append(append(inWindow, old...), broken)
	m := AggregateMetrics(events, unweightedOpts())

	if m.RawScheduled != 1 || m.RawCompleted != 1 {
		t.Fatalf("expected only in-window events counted, got %+v", m)
	}
	// Out-of-window events still inform recency.
	if m.LastEventAt == nil {
		t.Fatalf("expected lastEventAt from history")
	}
	if want := testNow.Add(-10 * 24 * time.Hour); !m.LastEventAt.Equal(want) {
		t.Fatalf("expected lastEventAt %v, got %v", want, *m.LastEventAt)
	}
}

func TestAggregateRecencyWeighting(t *testing.T) {
	// One completion at the window midpoint: weight should be 0.5.
	events := DeriveEvents([]AppointmentRecord{
		completedAppt(1, clientA, testNow.Add(-45*24*time.Hour)),
	})
	// Drop the created event so only the completion remains in-window at
	// a known age.
	var completions []Event
	for _, ev := range events {
		if ev.Type == EventBookingCompleted {
			completions = append(completions, ev)
		}
	}

	m := AggregateMetrics(completions, Options{Now: testNow, WindowDays: 90, RecencyWeighting: true})

	if m.CompletedCount != 0.5 {
		t.Fatalf("expected weighted completedCount 0.5 at window midpoint, got %v", m.CompletedCount)
	}
	if m.RawCompleted != 1 {
		t.Fatalf("raw count must stay unweighted, got %d", m.RawCompleted)
	}
}

func TestAggregateWeightedRatiosUseWeightedDenominator(t *testing.T) {
	// Old completion, recent cancellation. With weighting, the attendance
	// rate must divide weighted completed by weighted scheduled, staying
	// within [0, 1].
	events := DeriveEvents([]AppointmentRecord{
		completedAppt(1, clientA, testNow.Add(-80*24*time.Hour)),
		cancelledAppt(2, clientA, testNow.Add(-2*24*time.Hour), testNow.Add(-4*24*time.Hour)),
	})

	m := AggregateMetrics(events, Options{Now: testNow, WindowDays: 90, RecencyWeighting: true})

	if m.AttendanceRate < 0 || m.AttendanceRate > 1 {
		t.Fatalf("attendanceRate out of range: %v", m.AttendanceRate)
	}
	if m.CancelRate < 0 || m.CancelRate > 1 {
		t.Fatalf("cancelRate out of range: %v", m.CancelRate)
	}
}

func TestAggregateCountsBookingScheduledWhenOnlyOutcomeInWindow(t *testing.T) {
	// Booked 100 days ago, completed 10 days ago: the creation falls before
	// the window start but the completion is inside it, so the booking must
	// still carry scheduled mass.
	created := testNow.Add(-100 * 24 * time.Hour)
	appt := completedAppt(1, clientA, testNow.Add(-10*24*time.Hour))
	appt.CreatedAt = &created

	m := AggregateMetrics(DeriveEvents([]AppointmentRecord{appt}), unweightedOpts())

	if m.ScheduledCount != 1 || m.CompletedCount != 1 {
		t.Fatalf("expected scheduled 1 and completed 1, got %+v", m)
	}
	if m.AttendanceRate != 1 {
		t.Fatalf("expected attendanceRate 1, got %v", m.AttendanceRate)
	}
	if m.CompletedCount+m.CancelledCount+m.NoShowCount > m.ScheduledCount {
		t.Fatalf("lifecycle counts exceed scheduled: %+v", m)
	}
}

func TestAggregateWeightedLifecycleNeverExceedsScheduled(t *testing.T) {
	// Created 80 days back, completed yesterday. The creation event decays
	// almost to zero while the completion stays near full weight; the
	// booking's scheduled mass must match the completion's weight so the
	// attendance rate cannot blow past 1.
	created := testNow.Add(-80 * 24 * time.Hour)
	appt := completedAppt(1, clientA, testNow.Add(-24*time.Hour))
	appt.CreatedAt = &created

	m := AggregateMetrics(DeriveEvents([]AppointmentRecord{appt}), Options{Now: testNow, WindowDays: 90, RecencyWeighting: true})

	if m.AttendanceRate != 1 {
		t.Fatalf("expected attendanceRate 1 for a single completed booking, got %v", m.AttendanceRate)
	}
	if sum := m.CompletedCount + m.CancelledCount + m.NoShowCount; sum > m.ScheduledCount {
		t.Fatalf("weighted lifecycle mass %v exceeds scheduled mass %v", sum, m.ScheduledCount)
	}
}

func TestAggregateCancellationLeadSplit(t *testing.T) {
	events := DeriveEvents([]AppointmentRecord{
		// 48h notice.
		cancelledAppt(1, clientA, testNow.Add(-5*24*time.Hour), testNow.Add(-7*24*time.Hour)),
		// 2h notice.
		cancelledAppt(2, clientA, testNow.Add(-3*24*time.Hour), testNow.Add(-3*24*time.Hour-2*time.Hour)),
	})

	m := AggregateMetrics(events, unweightedOpts())

	if m.CancelledWithNotice != 1 {
		t.Fatalf("expected 1 cancellation with notice, got %v", m.CancelledWithNotice)
	}
	if m.CancelledShortNotice != 1 {
		t.Fatalf("expected 1 short-notice cancellation, got %v", m.CancelledShortNotice)
	}
	if want := 25.0; m.AvgCancelLeadHours != want {
		t.Fatalf("expected avg lead %v, got %v", want, m.AvgCancelLeadHours)
	}
}
