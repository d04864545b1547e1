package extractors

import (
	"testing"

	common "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/common"

	"cs-demo-recorder/internal/input"
	"cs-demo-recorder/internal/sequence"
)

func TestLifecycleExtractor(t *testing.T) {
	extractor := NewLifecycleExtractor()
	player := &common.Player{SteamID64: 76561198000000001}

	extractor.HandleSpawn(player, 100, true)
	extractor.HandleSpawn(nil, 110, false)
	extractor.HandleDeath(player, 500, false)
	extractor.HandleDeath(nil, 510, false)
	extractor.HandleRoundEnd(900, false)
	extractor.HandleMatchWon(1000, false)

	events := extractor.GetEvents()
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}

	want := []struct {
		kind   sequence.Kind
		tick   int
		warmup bool
		actor  bool
	}{
		{sequence.KindSpawn, 100, true, true},
		{sequence.KindDeath, 500, false, true},
		{sequence.KindRoundEnd, 900, false, false},
		{sequence.KindMatchWon, 1000, false, false},
	}
	for i, w := range want {
		ev := events[i]
		if ev.Kind != w.kind || ev.Tick != w.tick || ev.IsWarmup != w.warmup {
			t.Errorf("event %d: expected %s@%d warmup=%v, got %v", i, w.kind, w.tick, w.warmup, ev)
		}
		if (ev.ActorSteamID != nil) != w.actor {
			t.Errorf("event %d: unexpected actor %v", i, ev.ActorSteamID)
		}
	}
	if *events[0].ActorSteamID != "76561198000000001" {
		t.Errorf("expected steam id 76561198000000001, got %s", *events[0].ActorSteamID)
	}
}

func TestButtonsExtractor(t *testing.T) {
	extractor := NewButtonsExtractor("7")

	extractor.HandleFrame("7", 640, uint64(input.InForward.Mask()))
	extractor.HandleFrame("8", 641, uint64(input.InJump.Mask()))
	extractor.HandleFrame("7", 640, uint64(input.InJump.Mask()))
	extractor.HandleFrame("7", 642, uint64(input.InForward.Mask()|input.InJump.Mask())|1<<40)

	samples := extractor.GetSamples()
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].Tick != 640 || samples[0].Buttons != input.InForward.Mask() {
		t.Errorf("unexpected first sample %+v", samples[0])
	}
	if !samples[1].Buttons.Has(input.InJump) || !samples[1].Buttons.Has(input.InForward) {
		t.Errorf("expected forward and jump, got %s", samples[1].Buttons)
	}

	if NewButtonsExtractor("").Wants("") {
		t.Errorf("empty target should not record")
	}
}

func TestButtonsExtractorHandlePlayer(t *testing.T) {
	extractor := NewButtonsExtractor("76561198000000001")
	target := &common.Player{SteamID64: 76561198000000001, ButtonsPressedState: 1<<3 | 1<<1}
	other := &common.Player{SteamID64: 76561198000000002, ButtonsPressedState: 1 << 3}

	if extractor.HandlePlayer(nil, 100) {
		t.Errorf("nil player should not be recorded")
	}
	if extractor.HandlePlayer(other, 100) {
		t.Errorf("other players should not be recorded")
	}
	if !extractor.HandlePlayer(target, 100) {
		t.Fatalf("expected target to be recorded")
	}
	target.ButtonsPressedState = 0
	extractor.HandlePlayer(target, 101)

	samples := extractor.GetSamples()
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].Tick != 100 || samples[0].Buttons != input.InForward.Mask()|input.InJump.Mask() {
		t.Errorf("unexpected first sample %+v", samples[0])
	}
	if samples[1].Buttons != 0 {
		t.Errorf("expected released buttons at tick 101, got %s", samples[1].Buttons)
	}
}

func TestRosterExtractor(t *testing.T) {
	extractor := NewRosterExtractor()

	extractor.Observe("c", "Carol", "CT", 3)
	extractor.Observe("a", "Alice", "T", 1)
	extractor.Observe("b", "Bob", "T", 2)
	extractor.Observe("a", "Alice2", "CT", 9)
	extractor.Observe("d", "Dana", "", 4)
	extractor.HandlePlayer(nil)
	extractor.HandlePlayer(&common.Player{SteamID64: 5, Team: common.TeamSpectators})

	players := extractor.GetPlayers()
	if len(players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(players))
	}

	wantOrder := []string{"a", "b", "c"}
	for i, p := range players {
		if p.SteamID != wantOrder[i] {
			t.Errorf("position %d: expected %s, got %s", i, wantOrder[i], p.SteamID)
		}
		if p.Slot != FirstSlot+i {
			t.Errorf("position %d: expected slot %d, got %d", i, FirstSlot+i, p.Slot)
		}
	}
	if players[0].Team != "CT" || players[0].Name != "Alice2" {
		t.Errorf("expected latest team and name, got %+v", players[0])
	}
	if players[0].EntityID != 1 {
		t.Errorf("expected first-seen entity id to stick, got %d", players[0].EntityID)
	}
}

func TestTeamName(t *testing.T) {
	if teamName(common.TeamTerrorists) != "T" || teamName(common.TeamCounterTerrorists) != "CT" {
		t.Errorf("unexpected team names")
	}
	if teamName(common.TeamSpectators) != "" || teamName(common.TeamUnassigned) != "" {
		t.Errorf("non-playing teams should have no name")
	}
}
