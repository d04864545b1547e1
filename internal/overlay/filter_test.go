package overlay

import (
	"strings"
	"testing"

	"cs-demo-recorder/internal/input"
)

func TestLayoutCoversTrackedButtons(t *testing.T) {
	for _, b := range input.Tracked {
		if _, ok := Layout[b]; !ok {
			t.Errorf("no tile for tracked button %s", b)
		}
	}
}

func TestFilterGraph(t *testing.T) {
	runs := []input.Run{
		{Button: input.InForward, T0: 0, T1: 0.9375},
		{Button: input.InWalk, T0: 1, T1: 2}, // no tile
	}

	got := FilterGraph(runs, Options{})

	if !strings.HasPrefix(got, "[0:v]format=rgba,drawbox=x=208:y=498:w=84:h=84:color=black@0.3:t=fill") {
		t.Errorf("unexpected prefix: %s", got[:80])
	}
	if !strings.HasSuffix(got, "[vout]") {
		t.Errorf("expected [vout] suffix")
	}

	wantBox := "drawbox=x=210:y=500:w=80:h=80:color=cyan@0.8:t=fill:enable='between(t,0.000,0.938)'"
	if !strings.Contains(got, wantBox) {
		t.Errorf("expected active box %q in %s", wantBox, got)
	}
	wantLabel := "drawtext=text='W':x=210 + (80 - text_w) / 2:y=500 + (80 - text_h) / 2:fontcolor=white@0.9:fontsize=28:box=0:enable='between(t,0.000,0.938)'"
	if !strings.Contains(got, wantLabel) {
		t.Errorf("expected active label %q", wantLabel)
	}
	if strings.Count(got, "enable=") != 2 {
		t.Errorf("expected only the tracked run to be drawn, got %d timed filters", strings.Count(got, "enable="))
	}
}

func TestFilterGraphHideInactive(t *testing.T) {
	if got := FilterGraph(nil, Options{HideInactive: true}); got != "[0:v]format=rgba[vout]" {
		t.Errorf("unexpected graph %q", got)
	}

	got := FilterGraph([]input.Run{{Button: input.InJump, T0: 1.5, T1: 2}}, Options{HideInactive: true, FontSize: 32})
	want := "[0:v]format=rgba," +
		"drawbox=x=120:y=680:w=260:h=80:color=cyan@0.8:t=fill:enable='between(t,1.500,2.000)'," +
		"drawtext=text='SPACE':x=120 + (260 - text_w) / 2:y=680 + (80 - text_h) / 2:fontcolor=white@0.9:fontsize=32:box=0:enable='between(t,1.500,2.000)'" +
		"[vout]"
	if got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
}
