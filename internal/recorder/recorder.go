// Package recorder builds the inputs handed to the external demo recorder
// and video tools: clip paths, argument vectors and list files. Nothing in
// here runs a process.
package recorder

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"cs-demo-recorder/internal/sequence"
)

// File names the tools write next to the clips.
const (
	ConcatListName = "overlay_list.txt"
	FinalName      = "final.overlay.mp4"
)

// ConcatMode selects how overlay clips are joined.
type ConcatMode string

// Concat modes. Copy joins streams as they are; Reencode normalises every
// clip to the same codec and frame rate, for clips that do not join cleanly.
const (
	ConcatCopy     ConcatMode = "copy"
	ConcatReencode ConcatMode = "reencode"
)

// Valid reports whether m is a known mode.
func (m ConcatMode) Valid() bool {
	return m == ConcatCopy || m == ConcatReencode
}

// Settings are the recorder's video parameters.
type Settings struct {
	Framerate int
	Width     int
	Height    int
	Encoder   string
	Container string
	Concat    ConcatMode
}

// DefaultSettings records 1080p60 mp4 through FFmpeg.
func DefaultSettings() Settings {
	return Settings{
		Framerate: 60,
		Width:     1920,
		Height:    1080,
		Encoder:   "FFmpeg",
		Container: "mp4",
		Concat:    ConcatCopy,
	}
}

// ClipPath is where the recorder writes the clip of seq.
func ClipPath(outputDir string, seq sequence.Sequence) string {
	return filepath.Join(outputDir, fmt.Sprintf("sequence-1-tick-%d-to-%d.mp4", seq.StartTick, seq.EndTick))
}

var mp4Ext = regexp.MustCompile(`(?i)\.mp4$`)

// OverlayPath is the clip path with the overlay suffix.
func OverlayPath(clipPath string) string {
	return mp4Ext.ReplaceAllString(clipPath, ".overlay.mp4")
}

// FilterScriptPath is where the overlay filter graph of a clip is written.
func FilterScriptPath(clipPath string) string {
	return mp4Ext.ReplaceAllString(clipPath, ".filter.txt")
}

// VoiceCfg renders the console commands run before recording. A nil mask
// selects nobody (-1).
func VoiceCfg(mask *uint32) string {
	indices := "-1"
	if mask != nil {
		indices = strconv.FormatUint(uint64(*mask), 10)
	}
	return fmt.Sprintf(`safezonex "1"; safezoney "1"; tv_listen_voice_indices %s; tv_listen_voice_indices_h %s;`, indices, indices)
}

// Args builds the recorder command line for one sequence.
func Args(s Settings, demoPath, playerID string, seq sequence.Sequence, outputDir string, mask *uint32) []string {
	return []string{
		"video",
		demoPath,
		strconv.Itoa(seq.StartTick),
		strconv.Itoa(seq.EndTick),
		"--framerate", strconv.Itoa(s.Framerate),
		"--width", strconv.Itoa(s.Width),
		"--height", strconv.Itoa(s.Height),
		"--encoder-software", s.Encoder,
		"--ffmpeg-video-container", s.Container,
		"--player-voices",
		"--no-show-only-death-notices",
		"--no-show-x-ray",
		"--focus-player", playerID,
		"--output", outputDir,
		"--cfg", VoiceCfg(mask),
	}
}

// BurnArgs builds the ffmpeg command line that draws the overlay described
// by the filter script onto a clip. Audio is copied unchanged and video is
// locked to a constant s.Framerate.
func BurnArgs(s Settings, clipPath, filterPath, overlayPath string) []string {
	return []string{
		"-y",
		"-i", clipPath,
		"-filter_complex_script", filterPath,
		"-map", "[vout]",
		"-map", "0:a?",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
		"-vsync", "cfr",
		"-r", strconv.Itoa(s.Framerate),
		"-c:a", "copy",
		overlayPath,
	}
}

// ConcatArgs builds the ffmpeg command line that joins the clips named in
// the list file into outPath.
func ConcatArgs(s Settings, listPath, outPath string) []string {
	args := []string{"-f", "concat", "-safe", "0", "-i", listPath}
	if s.Concat == ConcatReencode {
		args = append(args,
			"-c:v", "libx264",
			"-preset", "veryfast",
			"-crf", "18",
			"-r", strconv.Itoa(s.Framerate),
			"-pix_fmt", "yuv420p",
			"-c:a", "aac",
			"-ar", "48000",
			"-b:a", "160k",
		)
	} else {
		args = append(args, "-fflags", "+genpts", "-c", "copy")
	}
	return append(args, "-movflags", "+faststart", outPath)
}

// ConcatList is the body of an ffmpeg concat-demuxer list, one clip per
// line in the given order.
func ConcatList(paths []string) string {
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = fmt.Sprintf("file '%s'", strings.ReplaceAll(p, `\`, "/"))
	}
	return strings.Join(lines, "\n")
}

// DisposablePatterns match the intermediate files a cleanup pass may delete
// once the final video exists.
var DisposablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^sequence-\d+-tick-\d+-to-\d+\.mp4$`),
	regexp.MustCompile(`(?i)^sequence-\d+-tick-\d+-to-\d+\.overlay\.mp4$`),
	regexp.MustCompile(`(?i)^sequence-\d+-tick-\d+-to-\d+\.filter\.txt$`),
	regexp.MustCompile(`(?i)^clip_\d+\.mp4$`),
	regexp.MustCompile(`(?i)^clip_\d+\.overlay\.mp4$`),
	regexp.MustCompile(`(?i)^filter\.txt$`),
	regexp.MustCompile(`(?i)^overlay_list\.txt$`),
}

// IsDisposable reports whether the base name is an intermediate artifact.
func IsDisposable(name string) bool {
	for _, re := range DisposablePatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Disposable returns the paths whose base name is an intermediate
// artifact, in the given order.
func Disposable(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if IsDisposable(filepath.Base(p)) {
			out = append(out, p)
		}
	}
	return out
}
