package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrPlanNotFound is returned by GetPlan for unknown ids.
var ErrPlanNotFound = errors.New("plan not found")

// Reader provides methods to read recording plans from the database.
type Reader struct {
	db *sql.DB
}

// NewReader creates a new database reader.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// GetPlan retrieves a plan by id.
func (r *Reader) GetPlan(ctx context.Context, planID string) (*Plan, error) {
	query := `
		SELECT id, demo_path, player_id, map, tick_rate, voice_mask, created_at
		FROM plans
		WHERE id = ?
	`
	var p Plan
	var mask sql.NullInt64
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, planID).Scan(
		&p.ID, &p.DemoPath, &p.PlayerID, &p.Map, &p.TickRate, &mask, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query plan: %w", err)
	}

	if mask.Valid {
		p.VoiceMask = &mask.Int64
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = t
	}
	return &p, nil
}

// GetPlayers retrieves the roster of a plan ordered by slot.
func (r *Reader) GetPlayers(ctx context.Context, planID string) ([]Player, error) {
	query := `
		SELECT plan_id, steamid, name, team, slot
		FROM players
		WHERE plan_id = ?
		ORDER BY slot ASC
	`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]Player, 0)
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.PlanID, &p.SteamID, &p.Name, &p.Team, &p.Slot); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return players, nil
}

// GetSequences retrieves the sequences of a plan in recording order.
func (r *Reader) GetSequences(ctx context.Context, planID string) ([]Sequence, error) {
	query := `
		SELECT plan_id, seq_index, start_tick, end_tick, clip_path, overlay_path
		FROM sequences
		WHERE plan_id = ?
		ORDER BY seq_index ASC
	`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sequences: %w", err)
	}
	defer rows.Close()

	sequences := make([]Sequence, 0)
	for rows.Next() {
		var s Sequence
		if err := rows.Scan(&s.PlanID, &s.Index, &s.StartTick, &s.EndTick, &s.ClipPath, &s.OverlayPath); err != nil {
			return nil, fmt.Errorf("failed to scan sequence: %w", err)
		}
		sequences = append(sequences, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sequences: %w", err)
	}

	return sequences, nil
}

// GetRuns retrieves runs of a plan, optionally restricted to one sequence.
func (r *Reader) GetRuns(ctx context.Context, planID string, seqIndex *int) ([]Run, error) {
	query := `
		SELECT plan_id, seq_index, button, t0, t1
		FROM runs
		WHERE plan_id = ?
	`
	args := []interface{}{planID}

	if seqIndex != nil {
		query += " AND seq_index = ?"
		args = append(args, *seqIndex)
	}

	query += " ORDER BY seq_index ASC, t0 ASC, rowid ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.PlanID, &run.SeqIndex, &run.Button, &run.T0, &run.T1); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetButtonStats retrieves the stats of a plan, most held first.
func (r *Reader) GetButtonStats(ctx context.Context, planID string) ([]ButtonStat, error) {
	query := `
		SELECT plan_id, button, presses, held_seconds, longest_seconds, held_share
		FROM button_stats
		WHERE plan_id = ?
		ORDER BY held_seconds DESC, button ASC
	`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query button stats: %w", err)
	}
	defer rows.Close()

	stats := make([]ButtonStat, 0)
	for rows.Next() {
		var s ButtonStat
		if err := rows.Scan(&s.PlanID, &s.Button, &s.Presses, &s.HeldSeconds, &s.LongestSeconds, &s.HeldShare); err != nil {
			return nil, fmt.Errorf("failed to scan button stat: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating button stats: %w", err)
	}

	return stats, nil
}

// GetMeta returns the value stored under key, or "" when absent.
func (r *Reader) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query meta: %w", err)
	}
	return value, nil
}
