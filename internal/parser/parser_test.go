package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	events "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/events"
	"github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/msg"
)

func TestNewParserValidation(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewParser(filepath.Join(dir, "missing.dem")); err == nil || !strings.Contains(err.Error(), "failed to access demo file") {
		t.Errorf("expected access error, got %v", err)
	}

	empty := filepath.Join(dir, "empty.dem")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := NewParser(empty); err == nil || err.Error() != "demo file is empty" {
		t.Errorf("expected empty file error, got %v", err)
	}

	wrongExt := filepath.Join(dir, "match.txt")
	if err := os.WriteFile(wrongExt, []byte("data"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := NewParser(wrongExt); err == nil || err.Error() != "file does not have .dem extension" {
		t.Errorf("expected extension error, got %v", err)
	}
}

func TestEventUserID(t *testing.T) {
	short := int32(3)
	long := int32(7)

	cases := []struct {
		name string
		data map[string]*msg.CMsgSource1LegacyGameEventKeyT
		want int
		ok   bool
	}{
		{"short", map[string]*msg.CMsgSource1LegacyGameEventKeyT{"userid": {ValShort: &short}}, 3, true},
		{"long", map[string]*msg.CMsgSource1LegacyGameEventKeyT{"userid": {ValLong: &long}}, 7, true},
		{"missing", map[string]*msg.CMsgSource1LegacyGameEventKeyT{}, 0, false},
		{"nil", map[string]*msg.CMsgSource1LegacyGameEventKeyT{"userid": nil}, 0, false},
		{"untyped", map[string]*msg.CMsgSource1LegacyGameEventKeyT{"userid": {}}, 0, false},
	}
	for _, tc := range cases {
		got, ok := eventUserID(events.GenericGameEvent{Name: "player_spawn", Data: tc.data})
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s: expected (%d, %v), got (%d, %v)", tc.name, tc.want, tc.ok, got, ok)
		}
	}
}

func TestMatchDataRoster(t *testing.T) {
	data := &MatchData{
		Players: []PlayerInfo{
			{SteamID: "a", Team: "T", Slot: 4},
			{SteamID: "b", Team: "CT", Slot: 5},
		},
	}

	roster := data.Roster()
	if len(roster) != 2 || roster[1].SteamID != "b" || roster[1].Team != "CT" || roster[1].Slot != 5 {
		t.Errorf("unexpected roster %+v", roster)
	}

	if p, ok := data.FindPlayer("a"); !ok || p.Slot != 4 {
		t.Errorf("expected to find a at slot 4, got %+v, %v", p, ok)
	}
	if _, ok := data.FindPlayer("zzz"); ok {
		t.Errorf("did not expect to find zzz")
	}
}
