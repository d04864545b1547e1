// Package input decodes the per-tick button bitmask of a player and
// compresses it into press intervals for the overlay.
package input

import (
	"strings"
)

// Button is a control input, valued by its bit position in the raw
// button mask. Bit 12 is unused.
type Button uint8

const (
	InAttack    Button = 0
	InJump      Button = 1
	InDuck      Button = 2
	InForward   Button = 3
	InBack      Button = 4
	InUse       Button = 5
	InCancel    Button = 6
	InTurnLeft  Button = 7
	InTurnRight Button = 8
	InMoveLeft  Button = 9
	InMoveRight Button = 10
	InAttack2   Button = 11
	InReload    Button = 13
	InAlt1      Button = 14
	InAlt2      Button = 15
	InSpeed     Button = 16
	InWalk      Button = 17
	InZoom      Button = 18
	InWeapon1   Button = 19
	InWeapon2   Button = 20
	InBullrush  Button = 21
	InGrenade1  Button = 22
	InGrenade2  Button = 23
	InAttack3   Button = 24
)

// buttonNames is indexed by bit position; the empty entry is the gap.
var buttonNames = [...]string{
	InAttack:    "IN_ATTACK",
	InJump:      "IN_JUMP",
	InDuck:      "IN_DUCK",
	InForward:   "IN_FORWARD",
	InBack:      "IN_BACK",
	InUse:       "IN_USE",
	InCancel:    "IN_CANCEL",
	InTurnLeft:  "IN_TURNLEFT",
	InTurnRight: "IN_TURNRIGHT",
	InMoveLeft:  "IN_MOVELEFT",
	InMoveRight: "IN_MOVERIGHT",
	InAttack2:   "IN_ATTACK2",
	InReload:    "IN_RELOAD",
	InAlt1:      "IN_ALT1",
	InAlt2:      "IN_ALT2",
	InSpeed:     "IN_SPEED",
	InWalk:      "IN_WALK",
	InZoom:      "IN_ZOOM",
	InWeapon1:   "IN_WEAPON1",
	InWeapon2:   "IN_WEAPON2",
	InBullrush:  "IN_BULLRUSH",
	InGrenade1:  "IN_GRENADE1",
	InGrenade2:  "IN_GRENADE2",
	InAttack3:   "IN_ATTACK3",
}

// AllButtons lists every named button in bit order.
var AllButtons = func() []Button {
	all := make([]Button, 0, len(buttonNames))
	for bit, name := range buttonNames {
		if name != "" {
			all = append(all, Button(bit))
		}
	}
	return all
}()

// Tracked lists the buttons drawn by the overlay, in display order.
// Other buttons are decoded but never produce runs.
var Tracked = []Button{
	InForward,
	InBack,
	InMoveLeft,
	InMoveRight,
	InJump,
	InDuck,
	InUse,
	InReload,
	InAttack,
	InAttack2,
	InSpeed,
}

// knownMask has a bit set for every named button.
var knownMask = func() ButtonSet {
	var m ButtonSet
	for _, b := range AllButtons {
		m |= b.Mask()
	}
	return m
}()

// Valid reports whether b is a named button.
func (b Button) Valid() bool {
	return int(b) < len(buttonNames) && buttonNames[b] != ""
}

// Mask returns the single-bit mask of b.
func (b Button) Mask() ButtonSet {
	return ButtonSet(1) << b
}

// String returns the engine name of the button, e.g. IN_FORWARD.
func (b Button) String() string {
	if !b.Valid() {
		return "IN_UNKNOWN"
	}
	return buttonNames[b]
}

// MarshalText encodes the button by name.
func (b Button) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// ParseButton looks a button up by its engine name (case-insensitive).
func ParseButton(name string) (Button, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, b := range AllButtons {
		if buttonNames[b] == name {
			return b, true
		}
	}
	return 0, false
}

// ButtonSet is the set of buttons held on one tick.
type ButtonSet uint32

// DecodeButtons keeps the named bits of a raw button mask. Bits outside the
// table (the gap, and scoreboard/inspect above bit 31) are dropped.
func DecodeButtons(raw uint64) ButtonSet {
	return ButtonSet(raw) & knownMask
}

// Has reports whether b is held.
func (s ButtonSet) Has(b Button) bool {
	return s&b.Mask() != 0
}

// Buttons lists the held buttons in bit order.
func (s ButtonSet) Buttons() []Button {
	held := make([]Button, 0)
	for _, b := range AllButtons {
		if s.Has(b) {
			held = append(held, b)
		}
	}
	return held
}

// String joins the held button names with "|".
func (s ButtonSet) String() string {
	held := s.Buttons()
	names := make([]string, len(held))
	for i, b := range held {
		names[i] = b.String()
	}
	return strings.Join(names, "|")
}
