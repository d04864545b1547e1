// Package sequence turns a match's lifecycle event stream into the list of
// tick windows worth recording for one player.
//
// The pipeline is Normalize -> TagLastRound -> Build. Every stage is a pure
// function over in-memory slices; inputs are never mutated.
package sequence

import "fmt"

// Kind identifies the game events the detector cares about. Values match the
// game event names emitted by the demo.
type Kind string

const (
	KindSpawn    Kind = "player_spawn"
	KindDeath    Kind = "player_death"
	KindRoundEnd Kind = "round_officially_ended"
	KindMatchWon Kind = "cs_win_panel_match"
)

// IsRoundBoundary reports whether the kind marks a round or match boundary.
// Boundary events are kept regardless of actor.
func (k Kind) IsRoundBoundary() bool {
	return k == KindRoundEnd || k == KindMatchWon
}

// IsPlayerEvent reports whether the kind belongs to a single player's life.
func (k Kind) IsPlayerEvent() bool {
	return k == KindSpawn || k == KindDeath
}

// Event is a single occurrence in the demo at a specific tick.
type Event struct {
	Kind         Kind    `json:"kind"`
	Tick         int     `json:"tick"`
	ActorSteamID *string `json:"actorSteamId,omitempty"` // set for spawn/death
	IsWarmup     bool    `json:"isWarmup,omitempty"`
	IsLastRound  bool    `json:"isLastRound,omitempty"` // set by TagLastRound
}

// String renders the event for log lines.
func (e Event) String() string {
	if e.ActorSteamID != nil {
		return fmt.Sprintf("%s@%d (%s)", e.Kind, e.Tick, *e.ActorSteamID)
	}
	return fmt.Sprintf("%s@%d", e.Kind, e.Tick)
}

// Sequence is a window of ticks selected for recording.
type Sequence struct {
	StartTick int `json:"startTick"`
	EndTick   int `json:"endTick"`
}

// Ticks returns the window length in ticks.
func (s Sequence) Ticks() int {
	return s.EndTick - s.StartTick
}

// Seconds returns the window length in seconds at the given tick rate.
func (s Sequence) Seconds(tickRate int) float64 {
	if tickRate <= 0 {
		return 0
	}
	return float64(s.Ticks()) / float64(tickRate)
}
