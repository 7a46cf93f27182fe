package engine

// Channel is a notification delivery channel.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelInApp Channel = "in_app"
	ChannelPush  Channel = "push"
)

// Strategy is the selected delivery preference with its rationale. The
// selection is advisory; delivery code still checks channel feasibility
// (e.g. whether the client's phone can receive SMS).
type Strategy struct {
	PreferredChannel Channel `json:"preferredChannel"`
	Rationale        string  `json:"rationale"`
}

type strategyRule struct {
	when      func(tags []Tag, s Scores) bool
	channel   Channel
	rationale string
}

// strategyRules is a static decision table evaluated top to bottom; the
// first match wins. Risky clients get the most direct channel, disengaged
// ones get the least intrusive.
var strategyRules = []strategyRule{
	{
		when: func(tags []Tag, _ Scores) bool {
			return hasTag(tags, TagAtRiskNoShow)
		},
		channel:   ChannelSMS,
		rationale: "no-show risk warrants the most direct reminder channel",
	},
	{
		when: func(tags []Tag, s Scores) bool {
			return hasTag(tags, TagFrequentlyCancels) || s.Reliability < 40
		},
		channel:   ChannelSMS,
		rationale: "low reliability warrants direct confirmation prompts",
	},
	{
		when: func(tags []Tag, _ Scores) bool {
			return hasTag(tags, TagInactive)
		},
		channel:   ChannelEmail,
		rationale: "inactive clients are re-engaged through low-pressure email",
	},
	{
		when: func(tags []Tag, _ Scores) bool {
			return hasTag(tags, TagExcellentAttendance)
		},
		channel:   ChannelInApp,
		rationale: "dependable clients only need lightweight in-app notices",
	},
	{
		when: func(_ []Tag, s Scores) bool {
			return s.Engagement >= 70
		},
		channel:   ChannelPush,
		rationale: "highly engaged clients respond well to push notifications",
	},
}

// SelectStrategy picks the notification channel for a client from the
// decision table, defaulting to email when no rule matches.
func SelectStrategy(tags []Tag, s Scores) Strategy {
	for _, rule := range strategyRules {
		if rule.when(tags, s) {
			return Strategy{PreferredChannel: rule.channel, Rationale: rule.rationale}
		}
	}
	return Strategy{
		PreferredChannel: ChannelEmail,
		Rationale:        "default channel for clients without risk or engagement signals",
	}
}
