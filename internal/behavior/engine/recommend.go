package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// RecommendationType is a closed enum of staff action item kinds.
type RecommendationType string

const (
	RecUpcomingReminder         RecommendationType = "upcoming_reminder"
	RecCancellationRiskReminder RecommendationType = "cancellation_risk_reminder"
	RecNoShowFollowUp           RecommendationType = "no_show_follow_up"
	RecSlotFillOffer            RecommendationType = "slot_fill_offer"
	RecWaitlistFollowUp         RecommendationType = "waitlist_follow_up"
	RecRefundReengagement       RecommendationType = "refund_reengagement"
	RecRebookAfterCompleted     RecommendationType = "rebook_after_completed"
	RecInactivityFollowUp       RecommendationType = "inactivity_follow_up"
	RecUpsell                   RecommendationType = "upsell"
)

// timeSensitivityRank orders recommendation types from most to least
// time-sensitive; it is the second sort key after priority.
var timeSensitivityRank = map[RecommendationType]int{
	RecUpcomingReminder:         0,
	RecCancellationRiskReminder: 1,
	RecNoShowFollowUp:           2,
	RecSlotFillOffer:            3,
	RecWaitlistFollowUp:         4,
	RecRefundReengagement:       5,
	RecRebookAfterCompleted:     6,
	RecInactivityFollowUp:       7,
	RecUpsell:                   8,
}

// Recommendation is one prioritized, explained staff action item.
// Recommendations are computed fresh on every request and never stored as
// mutable state; the deterministic ID lets consumers snapshot and dedup.
type Recommendation struct {
	ID       string             `json:"id"`
	ClientID uuid.UUID          `json:"clientId"`
	Type     RecommendationType `json:"type"`
	Reason   string             `json:"reason"`
	// Priority ranks urgency; 1 is the highest.
	Priority        int        `json:"priority"`
	SuggestedAction string     `json:"suggestedAction"`
	RelatedID       *uuid.UUID `json:"relatedId,omitempty"`
}

// ClientContext bundles one client's profile with the collaborator state
// the trigger conditions inspect.
type ClientContext struct {
	Profile      Profile
	DisplayName  string
	Appointments []AppointmentRecord
	Waitlist     []WaitlistEntry
}

// RecommendationInput is the full snapshot the generator scans. Waitlist
// carries every entry (not just the per-client slices) so slot-fill offers
// can rank candidates across clients.
type RecommendationInput struct {
	Clients  []ClientContext
	Waitlist []WaitlistEntry
}

// Trigger thresholds for the recommendation rules.
const (
	upcomingReminderHorizon = 48 * time.Hour
	recentActivityLookback  = 14 * 24 * time.Hour
	staleWaitlistAge        = 14 * 24 * time.Hour
)

// GenerateRecommendations scans all client contexts and emits zero or more
// action items per client. A client can receive several recommendation
// types at once. Output ordering is deterministic: ascending priority,
// then most time-sensitive type first, then client id, then related id.
func GenerateRecommendations(input RecommendationInput, opts Options) []Recommendation {
	opts = opts.sanitize()

	var recs []Recommendation
	for _, cc := range input.Clients {
		recs = append(recs, clientRecommendations(cc, input.Waitlist, opts)...)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority < recs[j].Priority
		}
		if timeSensitivityRank[recs[i].Type] != timeSensitivityRank[recs[j].Type] {
			return timeSensitivityRank[recs[i].Type] < timeSensitivityRank[recs[j].Type]
		}
		if recs[i].ClientID != recs[j].ClientID {
			return recs[i].ClientID.String() < recs[j].ClientID.String()
		}
		return relatedKey(recs[i].RelatedID) < relatedKey(recs[j].RelatedID)
	})

	return recs
}

func clientRecommendations(cc ClientContext, allWaitlist []WaitlistEntry, opts Options) []Recommendation {
	var recs []Recommendation

	profile := cc.Profile
	clientID := profile.ClientID
	name := cc.DisplayName
	if name == "" {
		name = "the client"
	}

	atRisk := hasTag(profile.Tags, TagAtRiskNoShow) || hasTag(profile.Tags, TagFrequentlyCancels)

	var nextUpcoming *AppointmentRecord
	hasUpcoming := false
	for i := range cc.Appointments {
		appt := cc.Appointments[i]
		if appt.Status != StatusScheduled || !appt.StartAt.After(opts.Now) {
			continue
		}
		hasUpcoming = true
		if nextUpcoming == nil || appt.StartAt.Before(nextUpcoming.StartAt) {
			nextUpcoming = &cc.Appointments[i]
		}
	}

	if nextUpcoming != nil && nextUpcoming.StartAt.Sub(opts.Now) <= upcomingReminderHorizon {
		recs = append(recs, newRecommendation(clientID, RecUpcomingReminder, 1,
			fmt.Sprintf("appointment starts within %d hours", int(upcomingReminderHorizon.Hours())),
			fmt.Sprintf("Send %s a reminder via %s", name, profile.NotificationStrategy.PreferredChannel),
			&nextUpcoming.ID))
	}

	if atRisk && nextUpcoming != nil {
		priority := 2
		if nextUpcoming.StartAt.Sub(opts.Now) <= upcomingReminderHorizon {
			priority = 1
		}
		recs = append(recs, newRecommendation(clientID, RecCancellationRiskReminder, priority,
			"client has a cancellation or no-show risk tag and an upcoming appointment",
			fmt.Sprintf("Confirm the upcoming appointment with %s via %s", name, profile.NotificationStrategy.PreferredChannel),
			&nextUpcoming.ID))
	}

	for i := range cc.Appointments {
		appt := cc.Appointments[i]
		switch {
		case appt.Status == StatusNoShow && within(appt.StartAt, opts.Now, recentActivityLookback):
			recs = append(recs, newRecommendation(clientID, RecNoShowFollowUp, 2,
				"client missed a recent appointment without cancelling",
				fmt.Sprintf("Reach out to %s about the missed visit and offer to rebook", name),
				&appt.ID))
		case appt.Status == StatusCancelled && appt.StartAt.After(opts.Now):
			if candidate := topSlotCandidate(allWaitlist, appt, opts); candidate != nil {
				recs = append(recs, newRecommendation(candidate.Entry.ClientID, RecSlotFillOffer, 2,
					"a cancellation freed an upcoming slot matching this client's waitlist entry",
					"Offer the freed slot to this waitlist client",
					&appt.ID))
			}
		case appt.PaymentStatus == PaymentRefunded && within(appt.StartAt, opts.Now, time.Duration(profile.WindowDays)*24*time.Hour):
			recs = append(recs, newRecommendation(clientID, RecRefundReengagement, 3,
				"client received a refund recently",
				fmt.Sprintf("Check in with %s and offer a goodwill rebooking", name),
				&appt.ID))
		case appt.Status == StatusCompleted && within(appt.StartAt, opts.Now, recentActivityLookback) && !hasUpcoming:
			recs = append(recs, newRecommendation(clientID, RecRebookAfterCompleted, 4,
				"client completed a visit recently and has nothing booked",
				fmt.Sprintf("Invite %s to book a follow-up visit", name),
				&appt.ID))
		}
	}

	for _, entry := range cc.Waitlist {
		if !entry.CreatedAt.IsZero() && opts.Now.Sub(entry.CreatedAt) > staleWaitlistAge {
			recs = append(recs, newRecommendation(clientID, RecWaitlistFollowUp, 3,
				fmt.Sprintf("waitlist entry is older than %d days", int(staleWaitlistAge.Hours()/24)),
				fmt.Sprintf("Update %s on their waitlist position or offer alternatives", name),
				&entry.ID))
		}
	}

	if hasTag(profile.Tags, TagInactive) {
		recs = append(recs, newRecommendation(clientID, RecInactivityFollowUp, 4,
			fmt.Sprintf("no booking activity in the last %d days", profile.WindowDays),
			fmt.Sprintf("Send %s a re-engagement message via %s", name, profile.NotificationStrategy.PreferredChannel),
			nil))
	}

	if hasTag(profile.Tags, TagExcellentAttendance) && profile.Scores.Engagement >= 70 {
		recs = append(recs, newRecommendation(clientID, RecUpsell, 5,
			"client attends reliably and is highly engaged",
			fmt.Sprintf("Suggest a premium or package option to %s", name),
			nil))
	}

	return recs
}

// topSlotCandidate ranks the waitlist for the cancelled appointment's
// service and returns the best candidate, skipping the cancelling client.
func topSlotCandidate(waitlist []WaitlistEntry, freed AppointmentRecord, opts Options) *WaitlistSuggestion {
	for _, s := range SuggestCandidates(waitlist, freed.ServiceID, 0, nil, opts) {
		if s.Entry.ClientID != freed.ClientID {
			out := s
			return &out
		}
	}
	return nil
}

func newRecommendation(clientID uuid.UUID, recType RecommendationType, priority int, reason, action string, relatedID *uuid.UUID) Recommendation {
	return Recommendation{
		ID:              fmt.Sprintf("%s:%s:%s", clientID, recType, relatedKey(relatedID)),
		ClientID:        clientID,
		Type:            recType,
		Reason:          reason,
		Priority:        priority,
		SuggestedAction: action,
		RelatedID:       relatedID,
	}
}

func relatedKey(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}

func within(t, now time.Time, span time.Duration) bool {
	return !t.After(now) && now.Sub(t) <= span
}
