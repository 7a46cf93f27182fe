package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func mustProfile(t *testing.T, clientID uuid.UUID, appts []AppointmentRecord, opts Options) Profile {
	t.Helper()
	p, err := ComputeProfile(clientID, DeriveEvents(appts), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestUpcomingReminderWithin48Hours(t *testing.T) {
	opts := unweightedOpts()
	upcoming := scheduledAppt(1, clientA, testNow.Add(24*time.Hour))
	far := scheduledAppt(2, clientB, testNow.Add(10*24*time.Hour))

	recs := GenerateRecommendations(RecommendationInput{Clients: []ClientContext{
		{
			Profile:      mustProfile(t, clientA, []AppointmentRecord{upcoming}, opts),
			Appointments: []AppointmentRecord{upcoming},
		},
		{
			Profile:      mustProfile(t, clientB, []AppointmentRecord{far}, opts),
			Appointments: []AppointmentRecord{far},
		},
	}}, opts)

	var reminders []Recommendation
	for _, r := range recs {
		if r.Type == RecUpcomingReminder {
			reminders = append(reminders, r)
		}
	}
	if len(reminders) != 1 {
		t.Fatalf("expected exactly one reminder, got %v", reminders)
	}
	if reminders[0].ClientID != clientA {
		t.Fatalf("reminder for wrong client: %v", reminders[0].ClientID)
	}
	if reminders[0].Priority != 1 {
		t.Fatalf("reminders are top priority, got %d", reminders[0].Priority)
	}
	if reminders[0].RelatedID == nil || *reminders[0].RelatedID != upcoming.ID {
		t.Fatalf("reminder must reference the appointment")
	}
}

func TestCancellationRiskReminderForRiskyClient(t *testing.T) {
	opts := unweightedOpts()
	var history []AppointmentRecord
	for i := byte(1); i <= 3; i++ {
		start := testNow.Add(-time.Duration(i*5) * 24 * time.Hour)
		history = append(history, cancelledAppt(i, clientA, start, start.Add(-time.Hour)))
	}
	upcoming := scheduledAppt(9, clientA, testNow.Add(5*24*time.Hour))
	all := append(history, upcoming)

	recs := GenerateRecommendations(RecommendationInput{Clients: []ClientContext{{
		Profile:      mustProfile(t, clientA, all, opts),
		Appointments: all,
	}}}, opts)

	found := false
	for _, r := range recs {
		if r.Type == RecCancellationRiskReminder {
			found = true
			if r.Priority != 2 {
				t.Fatalf("risk reminder outside the 48h horizon is priority 2, got %d", r.Priority)
			}
		}
	}
	if !found {
		t.Fatalf("expected cancellation_risk_reminder, got %v", recs)
	}
}

func TestSlotFillOfferGoesToWaitlistCandidate(t *testing.T) {
	opts := unweightedOpts()
	freed := cancelledAppt(1, clientA, testNow.Add(3*24*time.Hour), testNow.Add(-time.Hour))

	waitlist := []WaitlistEntry{{
		ID:        apptID(0x20),
		ClientID:  clientB,
		ServiceID: serviceMassage,
		CreatedAt: testNow.Add(-2 * 24 * time.Hour),
	}}

	recs := GenerateRecommendations(RecommendationInput{
		Clients: []ClientContext{{
			Profile:      mustProfile(t, clientA, []AppointmentRecord{freed}, opts),
			Appointments: []AppointmentRecord{freed},
		}},
		Waitlist: waitlist,
	}, opts)

	found := false
	for _, r := range recs {
		if r.Type == RecSlotFillOffer {
			found = true
			if r.ClientID != clientB {
				t.Fatalf("offer must target the waitlist candidate, got %v", r.ClientID)
			}
			if r.RelatedID == nil || *r.RelatedID != freed.ID {
				t.Fatalf("offer must reference the freed appointment")
			}
		}
	}
	if !found {
		t.Fatalf("expected slot_fill_offer, got %v", recs)
	}
}

func TestRebookAfterCompletedOnlyWithoutUpcoming(t *testing.T) {
	opts := unweightedOpts()
	done := completedAppt(1, clientA, testNow.Add(-7*24*time.Hour))
	upcoming := scheduledAppt(2, clientA, testNow.Add(7*24*time.Hour))

	withUpcoming := []AppointmentRecord{done, upcoming}
	recs := GenerateRecommendations(RecommendationInput{Clients: []ClientContext{{
		Profile:      mustProfile(t, clientA, withUpcoming, opts),
		Appointments: withUpcoming,
	}}}, opts)
	for _, r := range recs {
		if r.Type == RecRebookAfterCompleted {
			t.Fatalf("no rebook prompt while a booking exists: %v", r)
		}
	}

	alone := []AppointmentRecord{done}
	recs = GenerateRecommendations(RecommendationInput{Clients: []ClientContext{{
		Profile:      mustProfile(t, clientA, alone, opts),
		Appointments: alone,
	}}}, opts)
	found := false
	for _, r := range recs {
		if r.Type == RecRebookAfterCompleted {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected rebook_after_completed, got %v", recs)
	}
}

func TestRecommendationOrderingDeterministic(t *testing.T) {
	opts := unweightedOpts()

	upcomingA := scheduledAppt(1, clientA, testNow.Add(24*time.Hour))
	staleEntry := WaitlistEntry{
		ID:        apptID(0x30),
		ClientID:  clientB,
		ServiceID: serviceMassage,
		CreatedAt: testNow.Add(-30 * 24 * time.Hour),
	}
	oldVisit := completedAppt(2, clientB, testNow.Add(-120*24*time.Hour))

	input := RecommendationInput{
		Clients: []ClientContext{
			{
				Profile:      mustProfile(t, clientA, []AppointmentRecord{upcomingA}, opts),
				Appointments: []AppointmentRecord{upcomingA},
			},
			{
				Profile:      mustProfile(t, clientB, []AppointmentRecord{oldVisit}, opts),
				Appointments: []AppointmentRecord{oldVisit},
				Waitlist:     []WaitlistEntry{staleEntry},
			},
		},
		Waitlist: []WaitlistEntry{staleEntry},
	}

	first := GenerateRecommendations(input, opts)
	second := GenerateRecommendations(input, opts)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ordering unstable across identical runs:\n%v\nvs\n%v", first, second)
	}
	if len(first) < 3 {
		t.Fatalf("expected reminder + waitlist follow-up + inactivity, got %v", first)
	}
	for i := 1; i < len(first); i++ {
		if first[i].Priority < first[i-1].Priority {
			t.Fatalf("recommendations not sorted by priority at index %d: %v", i, first)
		}
	}
	if first[0].Type != RecUpcomingReminder {
		t.Fatalf("most time-sensitive item must lead, got %v", first[0].Type)
	}
}
