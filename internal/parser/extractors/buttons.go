package extractors

import (
	common "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/common"

	"cs-demo-recorder/internal/input"
)

// ButtonsExtractor keeps one button sample per tick for a single player.
type ButtonsExtractor struct {
	steamID  string
	samples  []input.TickSample
	lastTick int
}

// NewButtonsExtractor creates an extractor for steamID. An empty steamID
// records nothing.
func NewButtonsExtractor(steamID string) *ButtonsExtractor {
	return &ButtonsExtractor{
		steamID:  steamID,
		samples:  make([]input.TickSample, 0),
		lastTick: -1,
	}
}

// Wants reports whether samples for steamID are recorded.
func (e *ButtonsExtractor) Wants(steamID string) bool {
	return e.steamID != "" && steamID == e.steamID
}

// HandlePlayer records the buttons player holds at tick if player is the
// target. The mask is the one demoinfocs keeps in ButtonsPressedState.
func (e *ButtonsExtractor) HandlePlayer(player *common.Player, tick int) bool {
	if player == nil || player.SteamID64 == 0 {
		return false
	}
	steamID := *getSteamID(player)
	if !e.Wants(steamID) {
		return false
	}
	e.HandleFrame(steamID, tick, uint64(player.ButtonsPressedState))
	return true
}

// HandleFrame records the raw button mask seen at tick. Frames that repeat
// or go back to an already sampled tick are ignored.
func (e *ButtonsExtractor) HandleFrame(steamID string, tick int, raw uint64) {
	if !e.Wants(steamID) || tick <= e.lastTick {
		return
	}
	e.lastTick = tick
	e.samples = append(e.samples, input.TickSample{
		Tick:    tick,
		Buttons: input.DecodeButtons(raw),
	})
}

// GetSamples returns the collected samples in tick order.
func (e *ButtonsExtractor) GetSamples() []input.TickSample {
	return e.samples
}
