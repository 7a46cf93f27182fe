package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"clinicdesk/platform/apperr"
)

func TestComputeProfileIdempotent(t *testing.T) {
	events := DeriveEvents([]AppointmentRecord{
		completedAppt(1, clientA, testNow.Add(-10*24*time.Hour)),
		cancelledAppt(2, clientA, testNow.Add(-5*24*time.Hour), testNow.Add(-7*24*time.Hour)),
		noShowAppt(3, clientA, testNow.Add(-20*24*time.Hour)),
	})
	opts := Options{Now: testNow, WindowDays: 90, RecencyWeighting: true, WaitlistJoins: 1}

	first, err := ComputeProfile(clientA, events, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ComputeProfile(clientA, events, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("profiles differ across identical evaluations:\n%+v\nvs\n%+v", first, second)
	}
}

func TestComputeProfileRejectsNilClient(t *testing.T) {
	_, err := ComputeProfile(uuid.Nil, nil, Options{Now: testNow})
	if err == nil {
		t.Fatalf("expected error for nil client id")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestComputeProfileEmptyHistoryIsComplete(t *testing.T) {
	p, err := ComputeProfile(clientA, nil, Options{Now: testNow, WindowDays: 90})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ClientID != clientA {
		t.Fatalf("profile must be keyed by the client id")
	}
	if p.Scores.Reliability != neutralReliability {
		t.Fatalf("expected neutral reliability, got %v", p.Scores.Reliability)
	}
	if p.Scores.Engagement != 0 {
		t.Fatalf("expected zero engagement, got %v", p.Scores.Engagement)
	}
	if len(p.Tags) != 0 {
		t.Fatalf("expected no tags, got %v", p.Tags)
	}
	if p.NotificationStrategy.PreferredChannel != ChannelEmail {
		t.Fatalf("expected default email channel, got %q", p.NotificationStrategy.PreferredChannel)
	}
	if !p.EvaluatedAt.Equal(testNow) {
		t.Fatalf("evaluatedAt must equal the reference now, got %v", p.EvaluatedAt)
	}
}

func TestComputeProfileUsesExplicitNow(t *testing.T) {
	// Two evaluations with different reference times must not share state.
	events := DeriveEvents([]AppointmentRecord{
		completedAppt(1, clientA, testNow.Add(-24*time.Hour)),
	})

	early, err := ComputeProfile(clientA, events, Options{Now: testNow, WindowDays: 90})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	late, err := ComputeProfile(clientA, events, Options{Now: testNow.Add(60 * 24 * time.Hour), WindowDays: 90})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if early.Scores.Engagement <= late.Scores.Engagement {
		t.Fatalf("engagement must decay with the reference time: %v vs %v",
			early.Scores.Engagement, late.Scores.Engagement)
	}
}
