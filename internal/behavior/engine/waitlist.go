package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DefaultSuggestionLimit caps the candidate list when the caller passes no
// explicit limit.
const DefaultSuggestionLimit = 20

// WaitlistEntry is a read-only snapshot of one waitlist row.
type WaitlistEntry struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	ServiceID uuid.UUID
	// Priority orders entries; lower means more important. Entries without
	// a priority are treated as priority 0 (most important).
	Priority  *int
	Note      *string
	CreatedAt time.Time
}

// WaitlistSuggestion is one ranked candidate for a freed slot, with the
// score broken down into human-readable reasons.
type WaitlistSuggestion struct {
	Entry          WaitlistEntry `json:"entry"`
	Score          float64       `json:"score"`
	ScoreReasons   []string      `json:"scoreReasons"`
	PriorityBucket string        `json:"priorityBucket"`
}

// SuggestCandidates ranks waitlist entries for a freed slot on the given
// service. Entries are filtered by service, stable-sorted ascending by
// priority (missing priority sorts as 0), deduplicated by client keeping
// the first occurrence after the sort, and truncated to the limit.
// Dedup runs before the limit so a client's duplicate rows never consume
// result slots.
//
// The reliability map is optional; when a client's reliability score is
// present it nudges the candidate score up or down.
func SuggestCandidates(entries []WaitlistEntry, serviceID uuid.UUID, limit int, reliability map[uuid.UUID]float64, opts Options) []WaitlistSuggestion {
	opts = opts.sanitize()
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	matched := make([]WaitlistEntry, 0, len(entries))
	for _, e := range entries {
		if e.ServiceID == serviceID {
			matched = append(matched, e)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return effectivePriority(matched[i]) < effectivePriority(matched[j])
	})

	seen := make(map[uuid.UUID]struct{}, len(matched))
	suggestions := make([]WaitlistSuggestion, 0, limit)
	for _, e := range matched {
		if _, dup := seen[e.ClientID]; dup {
			continue
		}
		seen[e.ClientID] = struct{}{}
		suggestions = append(suggestions, scoreCandidate(e, reliability, opts))
		if len(suggestions) == limit {
			break
		}
	}

	return suggestions
}

func effectivePriority(e WaitlistEntry) int {
	if e.Priority == nil {
		return 0
	}
	return *e.Priority
}

func scoreCandidate(e WaitlistEntry, reliability map[uuid.UUID]float64, opts Options) WaitlistSuggestion {
	priority := effectivePriority(e)
	score := 50.0
	reasons := []string{"base score 50"}

	if bonus := clamp(30-10*float64(priority), 0, 30); bonus > 0 {
		score += bonus
		reasons = append(reasons, fmt.Sprintf("priority %d adds %.0f", priority, bonus))
	}

	if !e.CreatedAt.IsZero() {
		waitingDays := opts.Now.Sub(e.CreatedAt).Hours() / 24
		if bonus := clamp(waitingDays, 0, 15); bonus >= 1 {
			score += bonus
			reasons = append(reasons, fmt.Sprintf("waiting %.0f days adds %.0f", waitingDays, bonus))
		}
	}

	if rel, ok := reliability[e.ClientID]; ok {
		adj := (rel - neutralReliability) / 10
		score += adj
		reasons = append(reasons, fmt.Sprintf("reliability %.0f adjusts by %+.1f", rel, adj))
	}

	return WaitlistSuggestion{
		Entry:          e,
		Score:          clamp(score, 0, 100),
		ScoreReasons:   reasons,
		PriorityBucket: priorityBucket(priority),
	}
}

func priorityBucket(priority int) string {
	switch {
	case priority <= 0:
		return "high"
	case priority <= 2:
		return "standard"
	default:
		return "low"
	}
}
