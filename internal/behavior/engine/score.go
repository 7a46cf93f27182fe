package engine

// Scores holds the two bounded behavior scores. Both live in [0, 100].
type Scores struct {
	// Reliability expresses how dependably the client shows up for booked
	// appointments. 100 means a spotless record, 50 is the neutral prior
	// for thin history.
	Reliability float64 `json:"reliability"`

	// Engagement expresses how recently and actively the client interacts
	// with the clinic (bookings plus waitlist participation).
	Engagement float64 `json:"engagement"`
}

// ComputeScores turns windowed metrics into bounded scores.
//
// Reliability starts from 100 and subtracts a weighted penalty ratio:
// no-shows count full, short-notice cancellations 0.6, cancellations with
// adequate lead time 0.25, all divided by the scheduled mass. Below a
// minimum scheduled sample the score is the neutral midpoint; a single
// no-show on a single booking should not read as "0% reliable".
//
// Engagement is a sum of two components: up to 60 points for booking
// recency (full right after an event, fading linearly over the reference
// span) and up to 40 points for waitlist participation (full at the
// reference join count). Clients with no events and no waitlist joins
// score 0.
func ComputeScores(m Metrics, opts Options) Scores {
	opts = opts.sanitize()

	return Scores{
		Reliability: reliabilityScore(m),
		Engagement:  engagementScore(m, opts),
	}
}

func reliabilityScore(m Metrics) float64 {
	if m.ScheduledCount < minReliabilitySample {
		return neutralReliability
	}

	penalty := noShowPenalty*m.NoShowCount +
		shortNoticeCancelPenalty*m.CancelledShortNotice +
		noticedCancelPenalty*m.CancelledWithNotice

	return clamp(100*(1-penalty/m.ScheduledCount), 0, 100)
}

func engagementScore(m Metrics, opts Options) float64 {
	var recency float64
	if m.LastEventAt != nil {
		ageDays := opts.Now.Sub(*m.LastEventAt).Hours() / 24
		recency = 60 * clamp(1-ageDays/engagementRecencyRefDays, 0, 1)
	}

	waitlist := 40 * clamp(float64(opts.WaitlistJoins)/engagementWaitlistRef, 0, 1)

	return clamp(recency+waitlist, 0, 100)
}
