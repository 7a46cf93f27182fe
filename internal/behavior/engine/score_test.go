package engine

import (
	"testing"
	"time"
)

func TestScoresAlwaysBounded(t *testing.T) {
	cases := []struct {
		name  string
		appts []AppointmentRecord
	}{
		{"zero events", nil},
		{"all completed", func() []AppointmentRecord {
			var out []AppointmentRecord
			for i := byte(1); i <= 20; i++ {
				out = append(out, completedAppt(i, clientA, testNow.Add(-time.Duration(i)*24*time.Hour)))
			}
			return out
		}()},
		{"all cancelled short notice", func() []AppointmentRecord {
			var out []AppointmentRecord
			for i := byte(1); i <= 20; i++ {
				start := testNow.Add(-time.Duration(i) * 24 * time.Hour)
				out = append(out, cancelledAppt(i, clientA, start, start.Add(-time.Hour)))
			}
			return out
		}()},
		{"all no-show", func() []AppointmentRecord {
			var out []AppointmentRecord
			for i := byte(1); i <= 20; i++ {
				out = append(out, noShowAppt(i, clientA, testNow.Add(-time.Duration(i)*24*time.Hour)))
			}
			return out
		}()},
	}

	for _, tc := range cases {
		for _, weighted := range []bool{false, true} {
			opts := Options{Now: testNow, WindowDays: 90, RecencyWeighting: weighted, WaitlistJoins: 10}
			m := AggregateMetrics(DeriveEvents(tc.appts), opts)
			s := ComputeScores(m, opts)

			if s.Reliability < 0 || s.Reliability > 100 {
				t.Fatalf("%s (weighted=%v): reliability out of range: %v", tc.name, weighted, s.Reliability)
			}
			if s.Engagement < 0 || s.Engagement > 100 {
				t.Fatalf("%s (weighted=%v): engagement out of range: %v", tc.name, weighted, s.Engagement)
			}
		}
	}
}

func TestReliabilityNeutralBelowMinimumSample(t *testing.T) {
	// A single no-show must not read as 0% reliable.
	m := AggregateMetrics(DeriveEvents([]AppointmentRecord{
		noShowAppt(1, clientA, testNow.Add(-5*24*time.Hour)),
	}), unweightedOpts())

	s := ComputeScores(m, unweightedOpts())
	if s.Reliability != neutralReliability {
		t.Fatalf("expected neutral reliability %v for sparse history, got %v", neutralReliability, s.Reliability)
	}
}

func TestReliabilityPenalizesNoShowsMoreThanCancellations(t *testing.T) {
	noShows := DeriveEvents([]AppointmentRecord{
		noShowAppt(1, clientA, testNow.Add(-5*24*time.Hour)),
		noShowAppt(2, clientA, testNow.Add(-10*24*time.Hour)),
		completedAppt(3, clientA, testNow.Add(-15*24*time.Hour)),
	})
	// Same shape, but courteous cancellations instead of no-shows.
	cancels := DeriveEvents([]AppointmentRecord{
		cancelledAppt(1, clientA, testNow.Add(-5*24*time.Hour), testNow.Add(-8*24*time.Hour)),
		cancelledAppt(2, clientA, testNow.Add(-10*24*time.Hour), testNow.Add(-13*24*time.Hour)),
		completedAppt(3, clientA, testNow.Add(-15*24*time.Hour)),
	})

	opts := unweightedOpts()
	noShowScore := ComputeScores(AggregateMetrics(noShows, opts), opts)
	cancelScore := ComputeScores(AggregateMetrics(cancels, opts), opts)

	if noShowScore.Reliability >= cancelScore.Reliability {
		t.Fatalf("no-shows must cost more than noticed cancellations: %v vs %v",
			noShowScore.Reliability, cancelScore.Reliability)
	}
}

func TestReliabilityShortNoticeCostsMoreThanNoticed(t *testing.T) {
	shortNotice := DeriveEvents([]AppointmentRecord{
		cancelledAppt(1, clientA, testNow.Add(-5*24*time.Hour), testNow.Add(-5*24*time.Hour-time.Hour)),
		completedAppt(2, clientA, testNow.Add(-10*24*time.Hour)),
	})
	noticed := DeriveEvents([]AppointmentRecord{
		cancelledAppt(1, clientA, testNow.Add(-5*24*time.Hour), testNow.Add(-8*24*time.Hour)),
		completedAppt(2, clientA, testNow.Add(-10*24*time.Hour)),
	})

	opts := unweightedOpts()
	short := ComputeScores(AggregateMetrics(shortNotice, opts), opts)
	polite := ComputeScores(AggregateMetrics(noticed, opts), opts)

	if short.Reliability >= polite.Reliability {
		t.Fatalf("short-notice cancellation must cost more: %v vs %v",
			short.Reliability, polite.Reliability)
	}
}

func TestEngagementRewardsRecencyAndWaitlist(t *testing.T) {
	recent := AggregateMetrics(DeriveEvents([]AppointmentRecord{
		completedAppt(1, clientA, testNow.Add(-24*time.Hour)),
	}), unweightedOpts())
	stale := AggregateMetrics(DeriveEvents([]AppointmentRecord{
		completedAppt(1, clientA, testNow.Add(-60*24*time.Hour)),
	}), unweightedOpts())

	recentScore := ComputeScores(recent, unweightedOpts())
	staleScore := ComputeScores(stale, unweightedOpts())
	if recentScore.Engagement <= staleScore.Engagement {
		t.Fatalf("recent activity must score higher: %v vs %v",
			recentScore.Engagement, staleScore.Engagement)
	}

	withWaitlist := Options{Now: testNow, WindowDays: 90, WaitlistJoins: 3}
	joined := ComputeScores(stale, withWaitlist)
	if joined.Engagement <= staleScore.Engagement {
		t.Fatalf("waitlist participation must raise engagement: %v vs %v",
			joined.Engagement, staleScore.Engagement)
	}
}

func TestEngagementZeroForEmptyHistory(t *testing.T) {
	m := AggregateMetrics(nil, unweightedOpts())
	s := ComputeScores(m, unweightedOpts())

	if s.Engagement != 0 {
		t.Fatalf("expected engagement 0 with no events and no waitlist joins, got %v", s.Engagement)
	}
}
