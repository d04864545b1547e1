package sequence

import "fmt"

// buildState is the accumulator threaded through the forward scan.
type buildState struct {
	open      bool
	start     int // tick the open window starts at (spawn + pad)
	finished  bool
	sequences []Sequence
}

// Build scans tagged events (ascending by tick) and returns the recording
// windows in the order they were closed.
//
// A spawn opens a window spawnPad seconds later. A death closes it deathPad
// seconds after the death, a round end closes it at the (adjusted) round-end
// tick. Any other event in the last round closes the window at the match-won
// tick and ends the scan, so the final round is one uninterrupted window.
func Build(events []Event, tickRate int, opts ...Option) ([]Sequence, error) {
	if tickRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTickRate, tickRate)
	}
	cfg := newSettings(opts)

	st := buildState{sequences: make([]Sequence, 0)}
	for _, ev := range events {
		if err := st.step(ev, events, tickRate, cfg); err != nil {
			return nil, err
		}
	}

	if st.open && !st.finished {
		cfg.logger.Log("debug", fmt.Sprintf("Window opened at tick %d was never closed, dropping it", st.start))
	}
	return st.sequences, nil
}

func (st *buildState) step(ev Event, all []Event, tickRate int, cfg settings) error {
	if st.finished {
		cfg.logger.Log("debug", fmt.Sprintf("Final sequence already added, skipping %s", ev))
		return nil
	}

	if ev.Kind == KindSpawn {
		// A second spawn while open replaces the pending start.
		if st.open {
			cfg.logger.Log("warn", fmt.Sprintf("Spawn at tick %d while a window is open (start %d), restarting window", ev.Tick, st.start))
		}
		st.open = true
		st.start = ev.Tick + cfg.spawnPad*tickRate
		cfg.logger.Log("debug", fmt.Sprintf("Opening sequence at tick %d", st.start))
		return nil
	}

	if !st.open {
		return nil
	}

	if ev.IsLastRound {
		end, ok := matchWonTick(all)
		if !ok {
			return fmt.Errorf("failed to close last round at %s: %w", ev, ErrNoMatchWon)
		}
		cfg.logger.Log("debug", "Last round, ending sequence at match end")
		st.close(end, cfg)
		st.finished = true
		return nil
	}

	switch ev.Kind {
	case KindDeath:
		cfg.logger.Log("debug", "Ending sequence: player death")
		st.close(ev.Tick+cfg.deathPad*tickRate, cfg)
	case KindRoundEnd:
		cfg.logger.Log("debug", "Ending sequence: round ended")
		st.close(ev.Tick, cfg)
	default:
		cfg.logger.Log("warn", fmt.Sprintf("Event skipped: %s", ev))
	}
	return nil
}

// close ends the open window at end. Empty or inverted windows (a death
// inside the spawn pad) are discarded.
func (st *buildState) close(end int, cfg settings) {
	start := st.start
	st.open = false
	st.start = 0

	if end <= start {
		cfg.logger.Log("warn", fmt.Sprintf("Discarding empty sequence [%d, %d]", start, end))
		return
	}
	st.sequences = append(st.sequences, Sequence{StartTick: start, EndTick: end})
}

// Detect runs the full pipeline for playerID: Normalize, TagLastRound, Build.
// An event stream with nothing relevant yields no sequences.
func Detect(raw []Event, playerID string, tickRate int, opts ...Option) ([]Sequence, error) {
	normalized := Normalize(raw, playerID)
	if len(normalized) == 0 {
		return make([]Sequence, 0), nil
	}

	tagged, err := TagLastRound(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to tag last round: %w", err)
	}

	return Build(tagged, tickRate, opts...)
}
