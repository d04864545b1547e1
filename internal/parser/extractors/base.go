package extractors

import (
	"fmt"

	common "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/common"
)

// Helper functions for team naming and steamid conversion

// getSteamID converts a player's SteamID64 to a string, handling nil players.
func getSteamID(player *common.Player) *string {
	if player == nil {
		return nil
	}
	steamID := fmt.Sprintf("%d", player.SteamID64)
	return &steamID
}

// teamName maps a team to "T" or "CT". Spectators and unassigned return "".
func teamName(team common.Team) string {
	switch team {
	case common.TeamTerrorists:
		return "T"
	case common.TeamCounterTerrorists:
		return "CT"
	default:
		return ""
	}
}

// isPlaying reports whether the player is on one of the two playing teams.
// Returns false for nil players.
func isPlaying(player *common.Player) bool {
	if player == nil {
		return false
	}
	return teamName(player.Team) != ""
}
