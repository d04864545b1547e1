package input

import (
	"sort"
)

// TickSample is the player's held buttons on one observed tick. Samples are
// sparse: ticks without a parsed value are simply missing.
type TickSample struct {
	Tick    int       `json:"tick"`
	Buttons ButtonSet `json:"buttons"`
}

// Run is a continuous press of one button, in seconds relative to the start
// of its window.
type Run struct {
	Button Button  `json:"input"`
	T0     float64 `json:"t0"`
	T1     float64 `json:"t1"`
}

// Duration returns how long the button was held.
func (r Run) Duration() float64 {
	return r.T1 - r.T0
}

// BuildRuns compresses the samples inside [startTick, endTick] into press
// intervals for every tracked button.
//
// A press opens on the first sample holding the button and closes on the
// first later sample without it. Presses still open after the last sample
// close at the end of the window. Runs of one button come out in
// chronological order.
func BuildRuns(samples []TickSample, startTick, endTick, tickRate int) []Run {
	runs := make([]Run, 0)
	if tickRate <= 0 || endTick <= startTick {
		return runs
	}

	windowed := make([]TickSample, 0, len(samples))
	for _, s := range samples {
		if s.Tick >= startTick && s.Tick <= endTick {
			windowed = append(windowed, s)
		}
	}
	sort.SliceStable(windowed, func(i, j int) bool {
		return windowed[i].Tick < windowed[j].Tick
	})

	toSeconds := func(tick int) float64 {
		return float64(tick-startTick) / float64(tickRate)
	}

	// open[i] holds the press start of Tracked[i], or nil.
	open := make([]*float64, len(Tracked))
	for _, s := range windowed {
		now := toSeconds(s.Tick)
		for i, b := range Tracked {
			held := s.Buttons.Has(b)
			switch {
			case held && open[i] == nil:
				t0 := now
				open[i] = &t0
			case !held && open[i] != nil:
				runs = appendRun(runs, b, *open[i], now)
				open[i] = nil
			}
		}
	}

	end := toSeconds(endTick)
	for i, b := range Tracked {
		if open[i] != nil {
			runs = appendRun(runs, b, *open[i], end)
		}
	}
	return runs
}

// appendRun drops zero-length runs, which can only come from duplicate
// samples on one tick or a press starting on the window's last tick.
func appendRun(runs []Run, b Button, t0, t1 float64) []Run {
	if t1 <= t0 {
		return runs
	}
	return append(runs, Run{Button: b, T0: t0, T1: t1})
}

// ByButton groups runs per button, keeping their order.
func ByButton(runs []Run) map[Button][]Run {
	grouped := make(map[Button][]Run)
	for _, r := range runs {
		grouped[r.Button] = append(grouped[r.Button], r)
	}
	return grouped
}
