// Package overlay renders press runs into an ffmpeg filter graph that draws
// a keyboard on top of a recorded clip.
package overlay

import (
	"fmt"
	"strings"

	"cs-demo-recorder/internal/input"
)

// Tile is the on-screen box of one button.
type Tile struct {
	X, Y, W, H int
	Label      string
}

// Layout places the tracked buttons on a 1080p frame: W E R on top,
// SHIFT A S D in the middle, CTRL SPACE at the bottom, mouse on the right.
var Layout = map[input.Button]Tile{
	input.InForward: {X: 210, Y: 500, W: 80, H: 80, Label: "W"},
	input.InUse:     {X: 300, Y: 500, W: 80, H: 80, Label: "E"},
	input.InReload:  {X: 390, Y: 500, W: 80, H: 80, Label: "R"},

	input.InSpeed:     {X: 20, Y: 590, W: 90, H: 80, Label: "SHIFT"},
	input.InMoveLeft:  {X: 120, Y: 590, W: 80, H: 80, Label: "A"},
	input.InBack:      {X: 210, Y: 590, W: 80, H: 80, Label: "S"},
	input.InMoveRight: {X: 300, Y: 590, W: 80, H: 80, Label: "D"},

	input.InDuck: {X: 20, Y: 680, W: 90, H: 80, Label: "CTRL"},
	input.InJump: {X: 120, Y: 680, W: 260, H: 80, Label: "SPACE"},

	input.InAttack:  {X: 390, Y: 590, W: 90, H: 80, Label: "M1"},
	input.InAttack2: {X: 390, Y: 680, W: 90, H: 80, Label: "M2"},
}

// Options controls the static layer.
type Options struct {
	// HideInactive drops the idle backgrounds and labels; only pressed
	// buttons are drawn.
	HideInactive bool
	FontSize     int
}

const defaultFontSize = 28

// FilterGraph builds the complete filter script for one clip.
func FilterGraph(runs []input.Run, opts Options) string {
	if opts.FontSize <= 0 {
		opts.FontSize = defaultFontSize
	}

	parts := []string{"[0:v]format=rgba"}
	if !opts.HideInactive {
		parts = append(parts, staticLayer(opts.FontSize))
	}
	if active := activeLayer(runs, opts.FontSize); active != "" {
		parts = append(parts, active)
	}
	return strings.Join(parts, ",") + "[vout]"
}

// tiles returns the layout in tracked order so the output is stable.
func tiles() []Tile {
	out := make([]Tile, 0, len(Layout))
	for _, b := range input.Tracked {
		if t, ok := Layout[b]; ok {
			out = append(out, t)
		}
	}
	return out
}

func staticLayer(fontSize int) string {
	ts := tiles()
	filters := make([]string, 0, len(ts)*3)

	for _, t := range ts {
		filters = append(filters, fmt.Sprintf("drawbox=x=%d:y=%d:w=%d:h=%d:color=black@0.3:t=fill",
			t.X-2, t.Y-2, t.W+4, t.H+4))
	}
	// shadow pass, offset by one pixel
	for _, t := range ts {
		filters = append(filters, drawText(t, 1, "white@0.9", fontSize, ""))
	}
	for _, t := range ts {
		filters = append(filters, drawText(t, 0, "white@0.95", fontSize, ""))
	}
	return strings.Join(filters, ",")
}

func activeLayer(runs []input.Run, fontSize int) string {
	boxes := make([]string, 0, len(runs))
	labels := make([]string, 0, len(runs))

	for _, r := range runs {
		t, ok := Layout[r.Button]
		if !ok {
			continue
		}
		enable := fmt.Sprintf("between(t,%.3f,%.3f)", r.T0, r.T1)
		boxes = append(boxes, fmt.Sprintf("drawbox=x=%d:y=%d:w=%d:h=%d:color=cyan@0.8:t=fill:enable='%s'",
			t.X, t.Y, t.W, t.H, enable))
		labels = append(labels, drawText(t, 0, "white@0.9", fontSize, enable))
	}

	return strings.Join(append(boxes, labels...), ",")
}

func drawText(t Tile, offset int, color string, fontSize int, enable string) string {
	x := fmt.Sprintf("%d + (%d - text_w) / 2", t.X, t.W)
	y := fmt.Sprintf("%d + (%d - text_h) / 2", t.Y, t.H)
	if offset != 0 {
		x = fmt.Sprintf("%s + %d", x, offset)
		y = fmt.Sprintf("%s + %d", y, offset)
	}

	f := fmt.Sprintf("drawtext=text='%s':x=%s:y=%s:fontcolor=%s:fontsize=%d:box=0", t.Label, x, y, color, fontSize)
	if enable != "" {
		f += fmt.Sprintf(":enable='%s'", enable)
	}
	return f
}
