package engine

import (
	"strings"
	"testing"
	"time"
)

func metricsAndScores(t *testing.T, appts []AppointmentRecord) (Metrics, Scores) {
	t.Helper()
	opts := unweightedOpts()
	m := AggregateMetrics(DeriveEvents(appts), opts)
	return m, ComputeScores(m, opts)
}

func TestFrequentlyCancelsTag(t *testing.T) {
	var appts []AppointmentRecord
	for i := byte(1); i <= 3; i++ {
		start := testNow.Add(-time.Duration(i*5) * 24 * time.Hour)
		appts = append(appts, cancelledAppt(i, clientA, start, start.Add(-48*time.Hour)))
	}

	tags := AssignTags(metricsAndScores(t, appts))

	if !hasTag(tags, TagFrequentlyCancels) {
		t.Fatalf("expected frequently_cancels tag, got %v", tags)
	}
	for _, tag := range tags {
		if tag.ID == TagFrequentlyCancels && !strings.Contains(tag.Reason, "cancelled") {
			t.Fatalf("reason must mention cancellation, got %q", tag.Reason)
		}
	}
}

func TestExcellentAttendanceTag(t *testing.T) {
	var appts []AppointmentRecord
	for i := byte(1); i <= 5; i++ {
		appts = append(appts, completedAppt(i, clientA, testNow.Add(-time.Duration(i*7)*24*time.Hour)))
	}

	tags := AssignTags(metricsAndScores(t, appts))

	if !hasTag(tags, TagExcellentAttendance) {
		t.Fatalf("expected excellent_attendance tag, got %v", tags)
	}
	for _, tag := range tags {
		if tag.ID == TagExcellentAttendance && !strings.Contains(tag.Reason, "attendance") {
			t.Fatalf("reason must mention attendance, got %q", tag.Reason)
		}
	}
}

func TestExcellentAttendanceNeedsMinimumSample(t *testing.T) {
	// Perfect attendance over too few visits should not earn the tag.
	appts := []AppointmentRecord{
		completedAppt(1, clientA, testNow.Add(-7*24*time.Hour)),
		completedAppt(2, clientA, testNow.Add(-14*24*time.Hour)),
	}

	tags := AssignTags(metricsAndScores(t, appts))
	if hasTag(tags, TagExcellentAttendance) {
		t.Fatalf("tag must not fire below the minimum sample, got %v", tags)
	}
}

func TestAtRiskNoShowTag(t *testing.T) {
	appts := []AppointmentRecord{
		noShowAppt(1, clientA, testNow.Add(-5*24*time.Hour)),
		noShowAppt(2, clientA, testNow.Add(-10*24*time.Hour)),
	}

	tags := AssignTags(metricsAndScores(t, appts))
	if !hasTag(tags, TagAtRiskNoShow) {
		t.Fatalf("expected at_risk_no_show tag, got %v", tags)
	}
	for _, tag := range tags {
		if tag.ID == TagAtRiskNoShow && !strings.Contains(tag.Reason, "no-show") {
			t.Fatalf("reason must mention no-shows, got %q", tag.Reason)
		}
	}
}

func TestInactiveTag(t *testing.T) {
	// History exists, but all of it predates the window.
	appts := []AppointmentRecord{
		completedAppt(1, clientA, testNow.Add(-200*24*time.Hour)),
	}

	tags := AssignTags(metricsAndScores(t, appts))
	if !hasTag(tags, TagInactive) {
		t.Fatalf("expected inactive tag, got %v", tags)
	}
	for _, tag := range tags {
		if tag.ID == TagInactive && !strings.Contains(tag.Reason, "no booking activity") {
			t.Fatalf("reason must mention the inactivity, got %q", tag.Reason)
		}
	}
}

func TestNoTagsForEmptyHistory(t *testing.T) {
	tags := AssignTags(metricsAndScores(t, nil))
	if len(tags) != 0 {
		t.Fatalf("a client with no history gets no tags, got %v", tags)
	}
}

func TestMultipleTagsCoexistInDeclarationOrder(t *testing.T) {
	var appts []AppointmentRecord
	for i := byte(1); i <= 3; i++ {
		start := testNow.Add(-time.Duration(i*5) * 24 * time.Hour)
		appts = append(appts, cancelledAppt(i, clientA, start, start.Add(-time.Hour)))
	}
	appts = append(appts,
		noShowAppt(4, clientA, testNow.Add(-20*24*time.Hour)),
		noShowAppt(5, clientA, testNow.Add(-25*24*time.Hour)),
	)

	tags := AssignTags(metricsAndScores(t, appts))

	if len(tags) < 2 {
		t.Fatalf("expected coexisting tags, got %v", tags)
	}
	if tags[0].ID != TagFrequentlyCancels || tags[1].ID != TagAtRiskNoShow {
		t.Fatalf("tags must appear in rule declaration order, got %v", tags)
	}
}
