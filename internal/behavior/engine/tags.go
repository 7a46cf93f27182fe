package engine

import "fmt"

// TagID identifies a behavior tag. The set is closed; rules only ever
// assign one of these values.
type TagID string

const (
	TagFrequentlyCancels   TagID = "frequently_cancels"
	TagExcellentAttendance TagID = "excellent_attendance"
	TagAtRiskNoShow        TagID = "at_risk_no_show"
	TagInactive            TagID = "inactive"
)

// Tag is an assigned behavior tag together with the human-readable reason
// naming the metric that triggered it.
type Tag struct {
	ID     TagID  `json:"id"`
	Reason string `json:"reason"`
}

type tagRule struct {
	id     TagID
	when   func(m Metrics, s Scores) bool
	reason func(m Metrics, s Scores) string
}

// tagRules is the fixed rule table. Rules are evaluated in declaration
// order and every matching rule fires; order here is the order tags appear
// in the profile.
var tagRules = []tagRule{
	{
		id: TagFrequentlyCancels,
		when: func(m Metrics, _ Scores) bool {
			return m.RawCancelled >= frequentCancelThreshold
		},
		reason: func(m Metrics, _ Scores) string {
			return fmt.Sprintf("cancelled %d appointments in the last %d days", m.RawCancelled, m.WindowDays)
		},
	},
	{
		id: TagExcellentAttendance,
		when: func(m Metrics, _ Scores) bool {
			return m.RawScheduled >= attendanceTagMinSample &&
				m.RawNoShow == 0 &&
				m.AttendanceRate >= attendanceTagRate
		},
		reason: func(m Metrics, _ Scores) string {
			return fmt.Sprintf("attendance rate %.0f%% across %d bookings with no no-shows", m.AttendanceRate*100, m.RawScheduled)
		},
	},
	{
		id: TagAtRiskNoShow,
		when: func(m Metrics, s Scores) bool {
			return m.RawNoShow >= 2 || (m.RawNoShow >= 1 && s.Reliability < 40)
		},
		reason: func(m Metrics, s Scores) string {
			return fmt.Sprintf("%d no-show(s) in the last %d days with reliability %.0f", m.RawNoShow, m.WindowDays, s.Reliability)
		},
	},
	{
		id: TagInactive,
		when: func(m Metrics, _ Scores) bool {
			return m.RawScheduled == 0 && m.RawCompleted == 0 &&
				m.RawCancelled == 0 && m.RawNoShow == 0 &&
				m.LastEventAt != nil
		},
		reason: func(m Metrics, _ Scores) string {
			return fmt.Sprintf("no booking activity in the last %d days", m.WindowDays)
		},
	},
}

// AssignTags runs the rule table against the metrics and scores. Tags come
// back in rule declaration order; a client can carry several at once.
func AssignTags(m Metrics, s Scores) []Tag {
	var tags []Tag
	for _, rule := range tagRules {
		if rule.when(m, s) {
			tags = append(tags, Tag{ID: rule.id, Reason: rule.reason(m, s)})
		}
	}
	return tags
}

func hasTag(tags []Tag, id TagID) bool {
	for _, t := range tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
