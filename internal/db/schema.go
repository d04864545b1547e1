package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema defines the SQLite database schema for storing recording plans.
const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plans (
	id TEXT PRIMARY KEY,
	demo_path TEXT NOT NULL,
	player_id TEXT NOT NULL,
	map TEXT NOT NULL DEFAULT '',
	tick_rate INTEGER NOT NULL,
	voice_mask INTEGER,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
	plan_id TEXT NOT NULL,
	steamid TEXT NOT NULL,
	name TEXT NOT NULL,
	team TEXT NOT NULL,
	slot INTEGER NOT NULL,
	PRIMARY KEY(plan_id, steamid),
	FOREIGN KEY(plan_id) REFERENCES plans(id)
);

CREATE TABLE IF NOT EXISTS sequences (
	plan_id TEXT NOT NULL,
	seq_index INTEGER NOT NULL,
	start_tick INTEGER NOT NULL,
	end_tick INTEGER NOT NULL,
	clip_path TEXT NOT NULL,
	overlay_path TEXT NOT NULL,
	PRIMARY KEY(plan_id, seq_index),
	FOREIGN KEY(plan_id) REFERENCES plans(id),
	CHECK(start_tick < end_tick)
);

CREATE TABLE IF NOT EXISTS runs (
	plan_id TEXT NOT NULL,
	seq_index INTEGER NOT NULL,
	button TEXT NOT NULL,
	t0 REAL NOT NULL,
	t1 REAL NOT NULL,
	FOREIGN KEY(plan_id, seq_index) REFERENCES sequences(plan_id, seq_index),
	CHECK(t0 < t1)
);

CREATE TABLE IF NOT EXISTS button_stats (
	plan_id TEXT NOT NULL,
	button TEXT NOT NULL,
	presses INTEGER NOT NULL DEFAULT 0,
	held_seconds REAL NOT NULL DEFAULT 0,
	longest_seconds REAL NOT NULL DEFAULT 0,
	held_share REAL NOT NULL DEFAULT 0,
	PRIMARY KEY(plan_id, button),
	FOREIGN KEY(plan_id) REFERENCES plans(id)
);

-- Indexes for common query patterns
CREATE INDEX IF NOT EXISTS idx_sequences_plan ON sequences(plan_id);
CREATE INDEX IF NOT EXISTS idx_runs_plan_seq ON runs(plan_id, seq_index);
CREATE INDEX IF NOT EXISTS idx_runs_button ON runs(plan_id, button);
CREATE INDEX IF NOT EXISTS idx_button_stats_plan ON button_stats(plan_id);
`

// InitSchema initializes the database schema.
// It creates all tables and indexes if they don't already exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
