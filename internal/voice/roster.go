package voice

// Member is the part of a roster entry needed to pick audible slots.
type Member struct {
	SteamID string
	Team    string
	Slot    int
}

// TeamSlots returns the slots of everyone on steamID's team, the player
// included, in roster order. ok is false when steamID is not in the roster.
func TeamSlots(roster []Member, steamID string) (slots []int, ok bool) {
	var team string
	for _, m := range roster {
		if m.SteamID == steamID {
			team = m.Team
			ok = true
			break
		}
	}
	if !ok {
		return nil, false
	}

	slots = make([]int, 0, len(roster))
	for _, m := range roster {
		if m.Team == team {
			slots = append(slots, m.Slot)
		}
	}
	return slots, true
}
