package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Writer provides methods to write recording plans to the database.
type Writer struct {
	db *sql.DB
}

// NewWriter creates a new database writer.
func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db}
}

// Plan represents a stored recording plan.
type Plan struct {
	ID        string
	DemoPath  string
	PlayerID  string
	Map       string
	TickRate  int
	VoiceMask *int64 // nil when no roster entry was found
	CreatedAt time.Time
}

// Player represents a roster entry of the planned demo.
type Player struct {
	PlanID  string
	SteamID string
	Name    string
	Team    string // "T" or "CT"
	Slot    int
}

// Sequence represents one recording window of a plan.
type Sequence struct {
	PlanID      string
	Index       int
	StartTick   int
	EndTick     int
	ClipPath    string
	OverlayPath string
}

// Run represents one button press inside a sequence, in clip-relative seconds.
type Run struct {
	PlanID   string
	SeqIndex int
	Button   string
	T0       float64
	T1       float64
}

// ButtonStat represents aggregated usage of one button across a plan.
type ButtonStat struct {
	PlanID         string
	Button         string
	Presses        int
	HeldSeconds    float64
	LongestSeconds float64
	HeldShare      float64 // HeldSeconds over total recorded seconds, 0-1
}

// InsertPlan inserts or replaces a plan record.
func (w *Writer) InsertPlan(ctx context.Context, p Plan) error {
	query := `
		INSERT OR REPLACE INTO plans (id, demo_path, player_id, map, tick_rate, voice_mask, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := w.db.ExecContext(ctx, query,
		p.ID, p.DemoPath, p.PlayerID, p.Map, p.TickRate, p.VoiceMask,
		createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}
	return nil
}

// InsertPlayer inserts or replaces a player record.
func (w *Writer) InsertPlayer(ctx context.Context, p Player) error {
	query := `
		INSERT OR REPLACE INTO players (plan_id, steamid, name, team, slot)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := w.db.ExecContext(ctx, query, p.PlanID, p.SteamID, p.Name, p.Team, p.Slot)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

// InsertSequence inserts or replaces a sequence record.
func (w *Writer) InsertSequence(ctx context.Context, s Sequence) error {
	query := `
		INSERT OR REPLACE INTO sequences (plan_id, seq_index, start_tick, end_tick, clip_path, overlay_path)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := w.db.ExecContext(ctx, query, s.PlanID, s.Index, s.StartTick, s.EndTick, s.ClipPath, s.OverlayPath)
	if err != nil {
		return fmt.Errorf("failed to insert sequence: %w", err)
	}
	return nil
}

// SetMeta sets a metadata key-value pair.
func (w *Writer) SetMeta(ctx context.Context, key, value string) error {
	query := `INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`
	_, err := w.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set meta: %w", err)
	}
	return nil
}

// BatchInsertRuns inserts multiple runs in a single transaction.
func (w *Writer) BatchInsertRuns(ctx context.Context, runs []Run) error {
	if len(runs) == 0 {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO runs (plan_id, seq_index, button, t0, t1)
		VALUES (?, ?, ?, ?, ?)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range runs {
		if _, err := stmt.ExecContext(ctx, r.PlanID, r.SeqIndex, r.Button, r.T0, r.T1); err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// InsertButtonStats replaces the stats of a plan in a single transaction.
func (w *Writer) InsertButtonStats(ctx context.Context, planID string, stats []ButtonStat) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM button_stats WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("failed to clear button stats: %w", err)
	}

	query := `
		INSERT INTO button_stats (plan_id, button, presses, held_seconds, longest_seconds, held_share)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, s := range stats {
		_, err := tx.ExecContext(ctx, query, planID, s.Button, s.Presses, s.HeldSeconds, s.LongestSeconds, s.HeldShare)
		if err != nil {
			return fmt.Errorf("failed to insert stats for button %s: %w", s.Button, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
