package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(context.Background(), DriverPureGo, filepath.Join(t.TempDir(), "plans.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), "postgres", "x"); err == nil {
		t.Fatalf("expected an error for an unsupported driver")
	}
}

func TestPlanRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	writer := NewWriter(conn)
	reader := NewReader(conn)

	mask := int64(1448)
	created := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	plan := Plan{
		ID:        "plan-1",
		DemoPath:  "match.dem",
		PlayerID:  "765",
		Map:       "de_mirage",
		TickRate:  64,
		VoiceMask: &mask,
		CreatedAt: created,
	}
	if err := writer.InsertPlan(ctx, plan); err != nil {
		t.Fatalf("InsertPlan: %v", err)
	}
	if err := writer.InsertPlayer(ctx, Player{PlanID: "plan-1", SteamID: "765", Name: "me", Team: "T", Slot: 4}); err != nil {
		t.Fatalf("InsertPlayer: %v", err)
	}
	if err := writer.InsertPlayer(ctx, Player{PlanID: "plan-1", SteamID: "766", Name: "mate", Team: "T", Slot: 5}); err != nil {
		t.Fatalf("InsertPlayer: %v", err)
	}

	for i, window := range [][2]int{{740, 1192}, {2640, 3999}} {
		seq := Sequence{PlanID: "plan-1", Index: i, StartTick: window[0], EndTick: window[1], ClipPath: "a.mp4", OverlayPath: "a.overlay.mp4"}
		if err := writer.InsertSequence(ctx, seq); err != nil {
			t.Fatalf("InsertSequence: %v", err)
		}
	}

	runs := []Run{
		{PlanID: "plan-1", SeqIndex: 0, Button: "IN_FORWARD", T0: 0, T1: 1.5},
		{PlanID: "plan-1", SeqIndex: 0, Button: "IN_JUMP", T0: 0.5, T1: 0.75},
		{PlanID: "plan-1", SeqIndex: 1, Button: "IN_FORWARD", T0: 2, T1: 3},
	}
	if err := writer.BatchInsertRuns(ctx, runs); err != nil {
		t.Fatalf("BatchInsertRuns: %v", err)
	}
	if err := writer.SetMeta(ctx, "schema_version", "1"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}

	got, err := reader.GetPlan(ctx, "plan-1")
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got.Map != "de_mirage" || got.TickRate != 64 || got.VoiceMask == nil || *got.VoiceMask != 1448 {
		t.Errorf("unexpected plan %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("expected created at %v, got %v", created, got.CreatedAt)
	}

	players, err := reader.GetPlayers(ctx, "plan-1")
	if err != nil || len(players) != 2 || players[0].Slot != 4 || players[1].SteamID != "766" {
		t.Errorf("unexpected players %+v (%v)", players, err)
	}

	seqs, err := reader.GetSequences(ctx, "plan-1")
	if err != nil {
		t.Fatalf("GetSequences: %v", err)
	}
	if len(seqs) != 2 || seqs[0].StartTick != 740 || seqs[1].EndTick != 3999 {
		t.Errorf("unexpected sequences %+v", seqs)
	}

	all, err := reader.GetRuns(ctx, "plan-1", nil)
	if err != nil {
		t.Fatalf("GetRuns: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 runs, got %d", len(all))
	}
	second := 1
	only, err := reader.GetRuns(ctx, "plan-1", &second)
	if err != nil {
		t.Fatalf("GetRuns: %v", err)
	}
	if len(only) != 1 || only[0].T0 != 2 {
		t.Errorf("unexpected runs for sequence 1: %+v", only)
	}

	if v, err := reader.GetMeta(ctx, "schema_version"); err != nil || v != "1" {
		t.Errorf("unexpected meta %q (%v)", v, err)
	}
	if v, err := reader.GetMeta(ctx, "missing"); err != nil || v != "" {
		t.Errorf("expected empty meta, got %q (%v)", v, err)
	}
}

func TestPlanWithoutMask(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	if err := NewWriter(conn).InsertPlan(ctx, Plan{ID: "p", DemoPath: "d.dem", PlayerID: "1", TickRate: 64}); err != nil {
		t.Fatalf("InsertPlan: %v", err)
	}
	got, err := NewReader(conn).GetPlan(ctx, "p")
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got.VoiceMask != nil {
		t.Errorf("expected nil mask, got %d", *got.VoiceMask)
	}
	if got.CreatedAt.IsZero() {
		t.Errorf("expected created at to default to now")
	}
}

func TestGetPlanNotFound(t *testing.T) {
	conn := openTestDB(t)
	_, err := NewReader(conn).GetPlan(context.Background(), "nope")
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestConstraints(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	writer := NewWriter(conn)

	// Foreign keys are enforced.
	if err := writer.InsertSequence(ctx, Sequence{PlanID: "ghost", Index: 0, StartTick: 1, EndTick: 2}); err == nil {
		t.Errorf("expected foreign key violation")
	}

	if err := writer.InsertPlan(ctx, Plan{ID: "p", DemoPath: "d.dem", PlayerID: "1", TickRate: 64}); err != nil {
		t.Fatalf("InsertPlan: %v", err)
	}
	if err := writer.InsertSequence(ctx, Sequence{PlanID: "p", Index: 0, StartTick: 5, EndTick: 5}); err == nil {
		t.Errorf("expected check violation for an empty window")
	}
	if err := writer.InsertSequence(ctx, Sequence{PlanID: "p", Index: 0, StartTick: 5, EndTick: 9}); err != nil {
		t.Fatalf("InsertSequence: %v", err)
	}

	// A bad run rolls the whole batch back.
	err := writer.BatchInsertRuns(ctx, []Run{
		{PlanID: "p", SeqIndex: 0, Button: "IN_JUMP", T0: 0, T1: 1},
		{PlanID: "p", SeqIndex: 0, Button: "IN_JUMP", T0: 1, T1: 1},
	})
	if err == nil {
		t.Fatalf("expected check violation for an empty run")
	}
	runs, err := NewReader(conn).GetRuns(ctx, "p", nil)
	if err != nil {
		t.Fatalf("GetRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected batch rollback, found %d runs", len(runs))
	}
}
