package ipc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Log levels accepted by Log and SetLevel, lowest first.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	"warning":  2,
	LevelError: 3,
}

// Output handles NDJSON (newline-delimited JSON) output.
// All methods are thread-safe.
type Output struct {
	mu       sync.Mutex
	w        io.Writer
	minLevel int
}

// NewOutput creates a new NDJSON output handler on stdout.
func NewOutput() *Output {
	return NewOutputTo(os.Stdout)
}

// NewOutputTo creates an NDJSON output handler writing to w.
func NewOutputTo(w io.Writer) *Output {
	return &Output{w: w, minLevel: levelRank[LevelInfo]}
}

// SetLevel drops log messages below level. Unknown levels are ignored.
func (o *Output) SetLevel(level string) {
	rank, ok := levelRank[strings.ToLower(level)]
	if !ok {
		return
	}
	o.mu.Lock()
	o.minLevel = rank
	o.mu.Unlock()
}

// Progress sends a progress update message.
func (o *Output) Progress(stage string, tick, round int, pct float64) {
	o.writeJSON(map[string]interface{}{
		"type":  "progress",
		"stage": stage,
		"tick":  tick,
		"round": round,
		"pct":   pct,
	})
}

// Log sends a log message if level is at or above the configured minimum.
func (o *Output) Log(level, msg string) {
	rank, ok := levelRank[strings.ToLower(level)]
	if !ok {
		rank = levelRank[LevelInfo]
	}
	o.mu.Lock()
	skip := rank < o.minLevel
	o.mu.Unlock()
	if skip {
		return
	}
	o.writeJSON(map[string]interface{}{
		"type":  "log",
		"level": level,
		"msg":   msg,
	})
}

// Error sends an error message. Errors are never filtered.
func (o *Output) Error(msg string) {
	o.writeJSON(map[string]interface{}{
		"type": "error",
		"msg":  msg,
	})
}

// Result sends a typed result payload, e.g. the sequences of a plan.
func (o *Output) Result(kind string, data interface{}) {
	o.writeJSON(map[string]interface{}{
		"type": "result",
		"kind": kind,
		"data": data,
	})
}

// writeJSON writes a JSON object followed by a newline.
func (o *Output) writeJSON(obj map[string]interface{}) {
	data, err := json.Marshal(obj)
	if err != nil {
		// Fallback to stderr if JSON marshaling fails
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, "%s\n", data)
}
