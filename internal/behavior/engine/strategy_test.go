package engine

import "testing"

func TestSelectStrategyDecisionTable(t *testing.T) {
	cases := []struct {
		name    string
		tags    []Tag
		scores  Scores
		channel Channel
	}{
		{
			name:    "no-show risk prefers sms",
			tags:    []Tag{{ID: TagAtRiskNoShow}},
			scores:  Scores{Reliability: 60, Engagement: 80},
			channel: ChannelSMS,
		},
		{
			name:    "frequent canceller prefers sms",
			tags:    []Tag{{ID: TagFrequentlyCancels}},
			scores:  Scores{Reliability: 55, Engagement: 50},
			channel: ChannelSMS,
		},
		{
			name:    "low reliability prefers sms without any tag",
			tags:    nil,
			scores:  Scores{Reliability: 30, Engagement: 50},
			channel: ChannelSMS,
		},
		{
			name:    "inactive prefers email",
			tags:    []Tag{{ID: TagInactive}},
			scores:  Scores{Reliability: 50, Engagement: 5},
			channel: ChannelEmail,
		},
		{
			name:    "excellent attendance prefers in-app",
			tags:    []Tag{{ID: TagExcellentAttendance}},
			scores:  Scores{Reliability: 95, Engagement: 60},
			channel: ChannelInApp,
		},
		{
			name:    "high engagement prefers push",
			tags:    nil,
			scores:  Scores{Reliability: 70, Engagement: 85},
			channel: ChannelPush,
		},
		{
			name:    "default is email",
			tags:    nil,
			scores:  Scores{Reliability: 60, Engagement: 40},
			channel: ChannelEmail,
		},
	}

	for _, tc := range cases {
		s := SelectStrategy(tc.tags, tc.scores)
		if s.PreferredChannel != tc.channel {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.channel, s.PreferredChannel)
		}
		if s.Rationale == "" {
			t.Fatalf("%s: strategy must carry a rationale", tc.name)
		}
	}
}

func TestRiskOutranksEngagement(t *testing.T) {
	// A risky but highly engaged client still gets the direct channel.
	s := SelectStrategy([]Tag{{ID: TagAtRiskNoShow}}, Scores{Reliability: 45, Engagement: 95})
	if s.PreferredChannel != ChannelSMS {
		t.Fatalf("risk rules must win over engagement, got %q", s.PreferredChannel)
	}
}
