package app

import (
	"cs-demo-recorder/internal/metrics"
	"cs-demo-recorder/internal/overlay"
	"cs-demo-recorder/internal/recorder"
	"cs-demo-recorder/internal/sequence"
)

// Option applies a configuration option to the Planner.
type Option func(*Planner)

// WithTickRate sets the tick rate used when the demo does not report one.
func WithTickRate(tickRate int) Option {
	return func(p *Planner) {
		if tickRate > 0 {
			p.fallbackTickRate = tickRate
		}
	}
}

// WithPads sets the spawn and death padding in seconds.
func WithPads(spawnSeconds, deathSeconds int) Option {
	return func(p *Planner) {
		if spawnSeconds >= 0 {
			p.spawnPad = spawnSeconds
		}
		if deathSeconds >= 0 {
			p.deathPad = deathSeconds
		}
	}
}

// WithWorkers bounds how many windows are processed at once.
func WithWorkers(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithRecorderSettings sets the video parameters put on every clip.
func WithRecorderSettings(s recorder.Settings) Option {
	return func(p *Planner) {
		p.recorder = s
	}
}

// WithOverlayOptions sets how the key overlay is drawn.
func WithOverlayOptions(o overlay.Options) Option {
	return func(p *Planner) {
		p.overlay = o
	}
}

// WithLogger sets a custom logger for the planner.
func WithLogger(l sequence.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records every plan on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Planner) {
		if m != nil {
			p.metrics = m
		}
	}
}
