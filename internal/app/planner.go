// Package app assembles a recording plan from parsed match data: which
// windows to record, how to invoke the recorder for each, and the overlay
// drawn on top.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cs-demo-recorder/internal/input"
	"cs-demo-recorder/internal/metrics"
	"cs-demo-recorder/internal/overlay"
	"cs-demo-recorder/internal/parser"
	"cs-demo-recorder/internal/recorder"
	"cs-demo-recorder/internal/sequence"
	"cs-demo-recorder/internal/voice"
)

// Default planner configuration constants.
const (
	defaultTickRate = 64
	defaultWorkers  = 4
)

var (
	// ErrNoPlayer is returned when the request names no player.
	ErrNoPlayer = errors.New("no player id given")

	// ErrTruncatedDemo is returned when a demo ended before the match was
	// won. The last round cannot be closed without the match-won event.
	ErrTruncatedDemo = errors.New("demo ended before the match was won")
)

// Request names what to plan.
type Request struct {
	DemoPath  string
	PlayerID  string
	OutputDir string
}

// Clip is everything needed to record and decorate one window.
type Clip struct {
	Index       int               `json:"index"`
	Sequence    sequence.Sequence `json:"sequence"`
	Seconds     float64           `json:"seconds"`
	ClipPath    string            `json:"clipPath"`
	OverlayPath string            `json:"overlayPath"`
	FilterPath  string            `json:"filterPath"`
	Args        []string          `json:"args"`
	BurnArgs    []string          `json:"burnArgs"`
	Runs        []input.Run       `json:"runs"`
	FilterGraph string            `json:"filterGraph"`
}

// Plan is the full recording plan for one player of one demo.
type Plan struct {
	ID         uuid.UUID           `json:"id"`
	DemoPath   string              `json:"demoPath"`
	PlayerID   string              `json:"playerId"`
	Map        string              `json:"map"`
	TickRate   int                 `json:"tickRate"`
	VoiceMask  *uint32             `json:"voiceMask"`
	Players    []parser.PlayerInfo `json:"players"`
	Clips      []Clip              `json:"clips"`
	ConcatList string              `json:"concatList"`

	// ConcatListPath receives ConcatList; ConcatArgs joins the overlay
	// clips into FinalPath.
	ConcatListPath string   `json:"concatListPath"`
	FinalPath      string   `json:"finalPath"`
	ConcatArgs     []string `json:"concatArgs"`

	// Disposable lists the intermediate files safe to delete once
	// FinalPath exists.
	Disposable []string  `json:"disposable"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Planner builds plans. It holds configuration only and is safe for
// concurrent use.
type Planner struct {
	fallbackTickRate int
	spawnPad         int
	deathPad         int
	workers          int
	recorder         recorder.Settings
	overlay          overlay.Options
	logger           sequence.Logger
	metrics          *metrics.Manager
}

type nopLogger struct{}

func (nopLogger) Log(string, string) {}

// NewPlanner creates a planner with default configuration.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		fallbackTickRate: defaultTickRate,
		spawnPad:         sequence.DefaultSpawnPadSeconds,
		deathPad:         sequence.DefaultDeathPadSeconds,
		workers:          defaultWorkers,
		recorder:         recorder.DefaultSettings(),
		logger:           nopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan detects the windows worth recording for req.PlayerID and prepares
// every clip. Clips come out in window order.
func (p *Planner) Plan(ctx context.Context, data *parser.MatchData, req Request) (*Plan, error) {
	if req.PlayerID == "" {
		return nil, ErrNoPlayer
	}
	if data == nil {
		return nil, fmt.Errorf("no match data")
	}
	started := time.Now()

	tickRate := data.TickRate
	if tickRate <= 0 {
		tickRate = p.fallbackTickRate
		p.logger.Log("warn", fmt.Sprintf("Demo reports no tick rate, using %d", tickRate))
	}
	if data.Truncated {
		p.logger.Log("warn", "Demo ended unexpectedly, planning requires the match won event")
	}

	p.observeEvents(data.Events, req.PlayerID)

	sequences, err := sequence.Detect(data.Events, req.PlayerID, tickRate,
		sequence.WithSpawnPad(p.spawnPad),
		sequence.WithDeathPad(p.deathPad),
		sequence.WithLogger(p.logger),
	)
	if data.Truncated && errors.Is(err, sequence.ErrNoMatchWon) {
		return nil, fmt.Errorf("failed to detect sequences: %w: %w", ErrTruncatedDemo, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to detect sequences: %w", err)
	}
	p.logger.Log("info", fmt.Sprintf("Found %d sequences for player %s", len(sequences), req.PlayerID))

	mask, err := p.voiceMask(data, req.PlayerID)
	if err != nil {
		return nil, err
	}

	clips, err := p.buildClips(ctx, sequences, data.Samples, tickRate, req, mask)
	if err != nil {
		return nil, err
	}

	overlays := make([]string, len(clips))
	artifacts := make([]string, 0, 3*len(clips)+1)
	for i, c := range clips {
		overlays[i] = c.OverlayPath
		artifacts = append(artifacts, c.ClipPath, c.FilterPath, c.OverlayPath)
	}
	listPath := filepath.Join(req.OutputDir, recorder.ConcatListName)
	finalPath := filepath.Join(req.OutputDir, recorder.FinalName)
	artifacts = append(artifacts, listPath)

	plan := &Plan{
		ID:         uuid.New(),
		DemoPath:   req.DemoPath,
		PlayerID:   req.PlayerID,
		Map:        data.Map,
		TickRate:   tickRate,
		VoiceMask:  mask,
		Players:    data.Players,
		Clips:      clips,
		ConcatList: recorder.ConcatList(overlays),

		ConcatListPath: listPath,
		FinalPath:      finalPath,
		ConcatArgs:     recorder.ConcatArgs(p.recorder, listPath, finalPath),
		Disposable:     recorder.Disposable(artifacts),
		CreatedAt:      started,
	}
	if p.metrics != nil {
		p.metrics.ObservePlanDuration(time.Since(started))
	}
	return plan, nil
}

func (p *Planner) observeEvents(raw []sequence.Event, playerID string) {
	if p.metrics == nil {
		return
	}
	p.metrics.AddEvents(metrics.StageRaw, len(raw))
	p.metrics.AddEvents(metrics.StageNormalized, len(sequence.Normalize(raw, playerID)))
}

// voiceMask selects the player's team. A player missing from the roster
// yields nil, which the recorder turns into -1.
func (p *Planner) voiceMask(data *parser.MatchData, playerID string) (*uint32, error) {
	slots, ok := voice.TeamSlots(data.Roster(), playerID)
	if !ok {
		p.logger.Log("warn", fmt.Sprintf("Player %s not found in roster, voice selection disabled", playerID))
		return nil, nil
	}

	audible := make([]int, 0, len(slots))
	for _, slot := range slots {
		if slot < voice.MinSlot || slot > voice.MaxSlot {
			p.logger.Log("warn", fmt.Sprintf("Skipping roster slot %d, outside %d-%d", slot, voice.MinSlot, voice.MaxSlot))
			continue
		}
		audible = append(audible, slot)
	}

	mask, err := voice.Mask(audible)
	if err != nil {
		return nil, fmt.Errorf("failed to compute voice mask: %w", err)
	}
	p.logger.Log("debug", fmt.Sprintf("Voice mask %d for slots %v", mask, audible))
	return &mask, nil
}

// buildClips prepares every window concurrently, bounded by the worker limit.
func (p *Planner) buildClips(ctx context.Context, sequences []sequence.Sequence, samples []input.TickSample, tickRate int, req Request, mask *uint32) ([]Clip, error) {
	clips := make([]Clip, len(sequences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, seq := range sequences {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			runs := input.BuildRuns(samples, seq.StartTick, seq.EndTick, tickRate)
			clipPath := recorder.ClipPath(req.OutputDir, seq)
			overlayPath := recorder.OverlayPath(clipPath)
			filterPath := recorder.FilterScriptPath(clipPath)
			clips[i] = Clip{
				Index:       i,
				Sequence:    seq,
				Seconds:     seq.Seconds(tickRate),
				ClipPath:    clipPath,
				OverlayPath: overlayPath,
				FilterPath:  filterPath,
				Args:        recorder.Args(p.recorder, req.DemoPath, req.PlayerID, seq, req.OutputDir, mask),
				BurnArgs:    recorder.BurnArgs(p.recorder, clipPath, filterPath, overlayPath),
				Runs:        runs,
				FilterGraph: overlay.FilterGraph(runs, p.overlay),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build clips: %w", err)
	}

	if p.metrics != nil {
		for _, c := range clips {
			p.metrics.ObserveSequence(c.Seconds)
			for b, runs := range input.ByButton(c.Runs) {
				p.metrics.AddRuns(b.String(), len(runs))
			}
		}
	}
	return clips, nil
}
