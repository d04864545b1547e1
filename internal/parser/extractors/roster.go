package extractors

import (
	"sort"

	common "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/common"
)

// FirstSlot is the player number given to the first roster entry.
const FirstSlot = 4

// RosterEntry is one player seen on a playing team.
type RosterEntry struct {
	SteamID  string
	Name     string
	Team     string // "T" or "CT", last team seen
	EntityID int    // controller entity index
	Slot     int    // assigned by GetPlayers
}

// RosterExtractor tracks who played and in what order they occupy slots.
type RosterExtractor struct {
	players map[string]*RosterEntry
}

// NewRosterExtractor creates a new roster extractor.
func NewRosterExtractor() *RosterExtractor {
	return &RosterExtractor{
		players: make(map[string]*RosterEntry),
	}
}

// HandlePlayer records or refreshes a participant. Spectators, bots with no
// steam id and players without an entity are skipped.
func (e *RosterExtractor) HandlePlayer(player *common.Player) {
	if !isPlaying(player) || player.SteamID64 == 0 || player.Entity == nil {
		return
	}
	e.Observe(*getSteamID(player), player.Name, teamName(player.Team), player.Entity.ID())
}

// Observe records a participant from plain values.
func (e *RosterExtractor) Observe(steamID, name, team string, entityID int) {
	if steamID == "" || team == "" {
		return
	}
	entry, ok := e.players[steamID]
	if !ok {
		e.players[steamID] = &RosterEntry{
			SteamID:  steamID,
			Name:     name,
			Team:     team,
			EntityID: entityID,
		}
		return
	}
	if name != "" {
		entry.Name = name
	}
	entry.Team = team
}

// GetPlayers returns the roster ordered by entity index, with slots
// numbered from FirstSlot. Ties break on steam id.
func (e *RosterExtractor) GetPlayers() []RosterEntry {
	out := make([]RosterEntry, 0, len(e.players))
	for _, entry := range e.players {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntityID != out[j].EntityID {
			return out[i].EntityID < out[j].EntityID
		}
		return out[i].SteamID < out[j].SteamID
	})
	for i := range out {
		out[i].Slot = FirstSlot + i
	}
	return out
}
