package sequence

// TagLastRound returns a copy of the normalized events with IsLastRound set.
//
// Scanning from the tail, every event is in the last round until the first
// round-end is reached. The round-end itself closes the previous round and
// is not tagged. The match-won event is always tagged and does not count as
// a round end.
//
// An empty list is returned unchanged. A non-empty list without a match-won
// event fails with ErrNoMatchWon: the final round has no end to extend to.
func TagLastRound(events []Event) ([]Event, error) {
	tagged := make([]Event, len(events))
	copy(tagged, events)
	if len(tagged) == 0 {
		return tagged, nil
	}

	var (
		roundEnds int
		matchWon  bool
	)
	for i := len(tagged) - 1; i >= 0; i-- {
		ev := &tagged[i]
		if ev.Kind == KindMatchWon {
			ev.IsLastRound = true
			matchWon = true
			continue
		}
		if ev.Kind == KindRoundEnd {
			roundEnds++
		}
		ev.IsLastRound = roundEnds == 0
	}

	if !matchWon {
		return nil, ErrNoMatchWon
	}
	return tagged, nil
}

// matchWonTick returns the tick of the first match-won event.
func matchWonTick(events []Event) (int, bool) {
	for _, ev := range events {
		if ev.Kind == KindMatchWon {
			return ev.Tick, true
		}
	}
	return 0, false
}
