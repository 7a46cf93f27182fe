package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func intp(v int) *int { return &v }

func entry(n byte, clientID uuid.UUID, priority *int) WaitlistEntry {
	return WaitlistEntry{
		ID:        apptID(n),
		ClientID:  clientID,
		ServiceID: serviceMassage,
		Priority:  priority,
		CreatedAt: testNow.Add(-time.Duration(n) * 24 * time.Hour),
	}
}

func TestSuggestCandidatesSortThenDedup(t *testing.T) {
	entries := []WaitlistEntry{
		entry(1, clientA, intp(2)),
		entry(2, clientB, intp(1)),
		entry(3, clientA, intp(0)),
	}

	got := SuggestCandidates(entries, serviceMassage, 0, nil, unweightedOpts())

	if len(got) != 2 {
		t.Fatalf("expected 2 deduplicated candidates, got %d", len(got))
	}
	// After the ascending sort, client A's priority-0 entry is first seen.
	if got[0].Entry.ClientID != clientA || *got[0].Entry.Priority != 0 {
		t.Fatalf("expected client A's priority-0 entry first, got %+v", got[0].Entry)
	}
	if got[1].Entry.ClientID != clientB {
		t.Fatalf("expected client B second, got %+v", got[1].Entry)
	}
}

func TestSuggestCandidatesMissingPriorityIsZero(t *testing.T) {
	entries := []WaitlistEntry{
		entry(1, clientA, intp(1)),
		entry(2, clientB, nil),
	}

	got := SuggestCandidates(entries, serviceMassage, 0, nil, unweightedOpts())
	if got[0].Entry.ClientID != clientB {
		t.Fatalf("missing priority sorts as 0, expected client B first, got %+v", got[0].Entry)
	}
	if got[0].PriorityBucket != "high" {
		t.Fatalf("priority 0 is the high bucket, got %q", got[0].PriorityBucket)
	}
	if got[1].PriorityBucket != "standard" {
		t.Fatalf("priority 1 is the standard bucket, got %q", got[1].PriorityBucket)
	}
}

func TestSuggestCandidatesStableOnTies(t *testing.T) {
	clientC := uuid.MustParse("cccccccc-0000-0000-0000-000000000003")
	entries := []WaitlistEntry{
		entry(1, clientA, intp(1)),
		entry(2, clientB, intp(1)),
		entry(3, clientC, intp(1)),
	}

	got := SuggestCandidates(entries, serviceMassage, 0, nil, unweightedOpts())
	if got[0].Entry.ClientID != clientA || got[1].Entry.ClientID != clientB || got[2].Entry.ClientID != clientC {
		t.Fatalf("ties must preserve input order, got %+v", got)
	}
}

func TestSuggestCandidatesFiltersServiceAndDedupsBeforeLimit(t *testing.T) {
	otherService := uuid.MustParse("5e222222-0000-0000-0000-000000000002")
	clientC := uuid.MustParse("cccccccc-0000-0000-0000-000000000003")

	entries := []WaitlistEntry{
		entry(1, clientA, intp(0)),
		entry(2, clientA, intp(1)), // duplicate, must not consume a slot
		entry(3, clientB, intp(2)),
		entry(4, clientC, intp(3)),
		{ID: apptID(5), ClientID: clientB, ServiceID: otherService, CreatedAt: testNow},
	}

	got := SuggestCandidates(entries, serviceMassage, 2, nil, unweightedOpts())

	if len(got) != 2 {
		t.Fatalf("expected the limit to apply after dedup, got %d results", len(got))
	}
	if got[0].Entry.ClientID != clientA || got[1].Entry.ClientID != clientB {
		t.Fatalf("expected [A, B], got %+v", got)
	}
}

func TestSuggestCandidatesScoreBreakdown(t *testing.T) {
	entries := []WaitlistEntry{entry(10, clientA, intp(0))}
	reliability := map[uuid.UUID]float64{clientA: 90}

	got := SuggestCandidates(entries, serviceMassage, 0, reliability, unweightedOpts())
	if len(got) != 1 {
		t.Fatalf("expected one candidate, got %d", len(got))
	}

	s := got[0]
	if s.Score <= 50 {
		t.Fatalf("priority, waiting time and reliability must raise the score, got %v", s.Score)
	}
	if len(s.ScoreReasons) < 3 {
		t.Fatalf("expected a reason per component, got %v", s.ScoreReasons)
	}
	if s.Score < 0 || s.Score > 100 {
		t.Fatalf("score out of range: %v", s.Score)
	}
}
