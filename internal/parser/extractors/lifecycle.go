package extractors

import (
	common "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/common"

	"cs-demo-recorder/internal/sequence"
)

// LifecycleExtractor collects the spawn, death and round boundary events
// the sequence detector consumes. Events are kept in dispatch order and are
// not filtered; warm-up and actor filtering happen in sequence.Normalize.
type LifecycleExtractor struct {
	events []sequence.Event
}

// NewLifecycleExtractor creates a new lifecycle extractor.
func NewLifecycleExtractor() *LifecycleExtractor {
	return &LifecycleExtractor{
		events: make([]sequence.Event, 0),
	}
}

// HandleSpawn records a player_spawn. Spawns without a resolvable player
// are dropped since they can never match a target.
func (e *LifecycleExtractor) HandleSpawn(player *common.Player, tick int, warmup bool) {
	steamID := getSteamID(player)
	if steamID == nil {
		return
	}
	e.events = append(e.events, sequence.Event{
		Kind:         sequence.KindSpawn,
		Tick:         tick,
		ActorSteamID: steamID,
		IsWarmup:     warmup,
	})
}

// HandleDeath records a player_death for the victim.
func (e *LifecycleExtractor) HandleDeath(victim *common.Player, tick int, warmup bool) {
	steamID := getSteamID(victim)
	if steamID == nil {
		return
	}
	e.events = append(e.events, sequence.Event{
		Kind:         sequence.KindDeath,
		Tick:         tick,
		ActorSteamID: steamID,
		IsWarmup:     warmup,
	})
}

// HandleRoundEnd records a round_officially_ended.
func (e *LifecycleExtractor) HandleRoundEnd(tick int, warmup bool) {
	e.events = append(e.events, sequence.Event{
		Kind:     sequence.KindRoundEnd,
		Tick:     tick,
		IsWarmup: warmup,
	})
}

// HandleMatchWon records a cs_win_panel_match.
func (e *LifecycleExtractor) HandleMatchWon(tick int, warmup bool) {
	e.events = append(e.events, sequence.Event{
		Kind:     sequence.KindMatchWon,
		Tick:     tick,
		IsWarmup: warmup,
	})
}

// GetEvents returns all collected events.
func (e *LifecycleExtractor) GetEvents() []sequence.Event {
	return e.events
}
