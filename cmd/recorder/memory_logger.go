package main

import (
	"fmt"
	"math"
	"runtime"
	"runtime/debug"
	"time"
)

// logSink is where memory lines go. ipc.Output satisfies it.
type logSink interface {
	Log(level, msg string)
}

// MemoryLogger logs memory usage periodically while a demo is parsed.
type MemoryLogger struct {
	output       logSink
	lastLog      time.Time
	interval     time.Duration
	lastTick     int
	tickInterval int
	now          func() time.Time
}

// NewMemoryLogger creates a memory logger that fires every intervalSeconds
// of wall time or every tickInterval demo ticks, whichever comes first.
func NewMemoryLogger(output logSink, intervalSeconds int, tickInterval int) *MemoryLogger {
	return &MemoryLogger{
		output:       output,
		interval:     time.Duration(intervalSeconds) * time.Second,
		lastLog:      time.Now(),
		tickInterval: tickInterval,
		now:          time.Now,
	}
}

// LogIfNeeded logs memory stats if interval has passed or tick interval reached
func (ml *MemoryLogger) LogIfNeeded(tick int) {
	if !ml.due(tick) {
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	msg := fmt.Sprintf("Memory: HeapAlloc=%.1fMB, HeapInuse=%.1fMB, HeapSys=%.1fMB, NumGC=%d, Tick=%d",
		toMB(m.HeapAlloc), toMB(m.HeapInuse), toMB(m.HeapSys), m.NumGC, tick)

	// SetMemoryLimit(-1) reads the limit without changing it.
	if limit := debug.SetMemoryLimit(-1); limit != math.MaxInt64 {
		msg += fmt.Sprintf(", Limit=%.0fMB", toMB(uint64(limit)))
	}
	ml.output.Log("info", msg)
}

// due advances the timers and reports whether a line should be written.
func (ml *MemoryLogger) due(tick int) bool {
	shouldLog := false

	// Log every N seconds
	if now := ml.now(); now.Sub(ml.lastLog) >= ml.interval {
		shouldLog = true
		ml.lastLog = now
	}

	// Also log every N ticks (if tickInterval > 0)
	if ml.tickInterval > 0 && tick > 0 && (tick-ml.lastTick) >= ml.tickInterval {
		shouldLog = true
		ml.lastTick = tick
	}

	return shouldLog
}

func toMB(b uint64) float64 {
	return float64(b) / (1024 * 1024)
}
