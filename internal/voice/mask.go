// Package voice computes the tv_listen_voice_indices bitmask that selects
// which player slots are audible in a recorded clip.
//
// Players in a CS2 demo occupy slots 4 to 13. Slot N maps to bit N-1.
package voice

import (
	"fmt"
	"sort"
	"strings"
)

// Valid slot range, inclusive.
const (
	MinSlot = 4
	MaxSlot = 13
)

// InvalidSlotError reports a slot outside MinSlot..MaxSlot.
type InvalidSlotError struct {
	Slot int
}

func (e *InvalidSlotError) Error() string {
	return fmt.Sprintf("invalid player number: %d. Must be between %d-%d", e.Slot, MinSlot, MaxSlot)
}

// Mask returns the bitmask with bit slot-1 set for every slot. Order and
// duplicates do not matter. Any out-of-range slot fails the whole call.
func Mask(slots []int) (uint32, error) {
	var mask uint32
	for _, slot := range slots {
		if slot < MinSlot || slot > MaxSlot {
			return 0, &InvalidSlotError{Slot: slot}
		}
		mask |= 1 << uint(slot-1)
	}
	return mask, nil
}

// Slots decodes a mask back into the sorted slot numbers it selects.
func Slots(mask uint32) []int {
	slots := make([]int, 0)
	for bit := 0; bit < 32; bit++ {
		if mask&(1<<uint(bit)) != 0 {
			slots = append(slots, bit+1)
		}
	}
	return slots
}

// Breakdown is a human-readable view of a mask, used for debug output.
type Breakdown struct {
	Slots        []int  `json:"slots"`
	BitPositions []int  `json:"bitPositions"`
	Binary       string `json:"binary"`
	Hex          string `json:"hex"`
	Decimal      uint32 `json:"decimal"`
	Command      string `json:"command"`
}

// Describe computes the mask for slots and renders it in binary (grouped by
// byte), hex and as the console command.
func Describe(slots []int) (Breakdown, error) {
	mask, err := Mask(slots)
	if err != nil {
		return Breakdown{}, err
	}

	sorted := append([]int(nil), slots...)
	sort.Ints(sorted)
	bits := make([]int, len(sorted))
	for i, s := range sorted {
		bits[i] = s - 1
	}

	binary := fmt.Sprintf("%032b", mask)
	groups := make([]string, 0, 4)
	for i := 0; i < len(binary); i += 8 {
		groups = append(groups, binary[i:i+8])
	}

	return Breakdown{
		Slots:        sorted,
		BitPositions: bits,
		Binary:       strings.Join(groups, " "),
		Hex:          fmt.Sprintf("0x%08X", mask),
		Decimal:      mask,
		Command:      fmt.Sprintf("tv_listen_voice_indices %d", mask),
	}, nil
}
