package stats

import (
	"context"
	"fmt"
	"math"
	"sort"

	"cs-demo-recorder/internal/db"
	"cs-demo-recorder/internal/input"
)

// Aggregator computes per-button usage from stored runs.
type Aggregator struct {
	writer *db.Writer
}

// NewAggregator creates a new aggregator.
func NewAggregator(writer *db.Writer) *Aggregator {
	return &Aggregator{writer: writer}
}

// ComputeStats computes and stores button stats for a plan and returns them
// in tracked-button order. Buttons never pressed are omitted.
func (a *Aggregator) ComputeStats(ctx context.Context, planID string, reader *db.Reader) ([]db.ButtonStat, error) {
	plan, err := reader.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	sequences, err := reader.GetSequences(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sequences: %w", err)
	}
	runs, err := reader.GetRuns(ctx, planID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}

	var recorded float64
	for _, s := range sequences {
		if plan.TickRate > 0 {
			recorded += float64(s.EndTick-s.StartTick) / float64(plan.TickRate)
		}
	}

	// Aggregate by button
	aggregates := make(map[string]*buttonAggregate)
	for _, run := range runs {
		agg := aggregates[run.Button]
		if agg == nil {
			agg = &buttonAggregate{button: run.Button}
			aggregates[run.Button] = agg
		}
		held := run.T1 - run.T0
		agg.presses++
		agg.held += held
		agg.longest = math.Max(agg.longest, held)
	}

	stats := make([]db.ButtonStat, 0, len(aggregates))
	for _, agg := range aggregates {
		stats = append(stats, db.ButtonStat{
			PlanID:         planID,
			Button:         agg.button,
			Presses:        agg.presses,
			HeldSeconds:    agg.held,
			LongestSeconds: agg.longest,
			HeldShare:      heldShare(agg.held, recorded),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return buttonOrder(stats[i].Button) < buttonOrder(stats[j].Button)
	})

	if err := a.writer.InsertButtonStats(ctx, planID, stats); err != nil {
		return nil, fmt.Errorf("failed to store button stats: %w", err)
	}
	return stats, nil
}

type buttonAggregate struct {
	button  string
	presses int
	held    float64
	longest float64
}

// heldShare is held over recorded, clamped to 0-1.
func heldShare(held, recorded float64) float64 {
	if recorded <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, held/recorded))
}

// buttonOrder sorts tracked buttons first in their overlay order, then any
// other known button by bit, then unknown names.
func buttonOrder(name string) int {
	b, ok := input.ParseButton(name)
	if !ok {
		return math.MaxInt32
	}
	for i, tracked := range input.Tracked {
		if tracked == b {
			return i
		}
	}
	return len(input.Tracked) + int(b)
}
