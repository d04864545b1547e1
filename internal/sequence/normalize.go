package sequence

// eventKey identifies duplicate events. The demo occasionally dispatches the
// same game event twice on one tick.
type eventKey struct {
	kind Kind
	tick int
}

// Normalize reduces the raw event stream to the events relevant for playerID:
// warm-up events are dropped, spawn and death events are kept only for the
// target player, round boundaries are always kept. Events sharing kind and
// tick are collapsed to the first occurrence. Round-end ticks are moved one
// tick earlier so a round end always sorts before a spawn on the same tick.
//
// The relative order of the input is preserved.
func Normalize(raw []Event, playerID string) []Event {
	out := make([]Event, 0, len(raw))
	seen := make(map[eventKey]struct{}, len(raw))

	for _, ev := range raw {
		if ev.IsWarmup {
			continue
		}
		if !keep(ev, playerID) {
			continue
		}

		key := eventKey{kind: ev.Kind, tick: ev.Tick}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		normalized := ev
		normalized.IsLastRound = false
		if normalized.Kind == KindRoundEnd {
			normalized.Tick--
		}
		out = append(out, normalized)
	}

	return out
}

func keep(ev Event, playerID string) bool {
	if ev.Kind.IsRoundBoundary() {
		return true
	}
	if !ev.Kind.IsPlayerEvent() {
		return false
	}
	return ev.ActorSteamID != nil && *ev.ActorSteamID == playerID
}
