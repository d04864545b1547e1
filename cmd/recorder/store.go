package main

import (
	"context"
	"fmt"

	"cs-demo-recorder/internal/app"
	"cs-demo-recorder/internal/db"
	"cs-demo-recorder/internal/ipc"
	"cs-demo-recorder/internal/stats"
)

const schemaVersion = "1"

// storePlan writes the plan and its button stats to a SQLite database.
func storePlan(ctx context.Context, driver, path string, plan *app.Plan, output *ipc.Output) error {
	output.Log("info", fmt.Sprintf("Opening database %s (%s)...", path, driver))
	conn, err := db.Open(ctx, driver, path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	writer := db.NewWriter(conn)
	planID := plan.ID.String()

	if err := writer.SetMeta(ctx, "schema_version", schemaVersion); err != nil {
		return err
	}

	var mask *int64
	if plan.VoiceMask != nil {
		m := int64(*plan.VoiceMask)
		mask = &m
	}
	err = writer.InsertPlan(ctx, db.Plan{
		ID:        planID,
		DemoPath:  plan.DemoPath,
		PlayerID:  plan.PlayerID,
		Map:       plan.Map,
		TickRate:  plan.TickRate,
		VoiceMask: mask,
		CreatedAt: plan.CreatedAt,
	})
	if err != nil {
		return err
	}

	for _, p := range plan.Players {
		player := db.Player{PlanID: planID, SteamID: p.SteamID, Name: p.Name, Team: p.Team, Slot: p.Slot}
		if err := writer.InsertPlayer(ctx, player); err != nil {
			output.Log("warn", fmt.Sprintf("Failed to insert player %s: %v", p.SteamID, err))
			// Continue with other players
		}
	}

	runs := make([]db.Run, 0)
	for _, c := range plan.Clips {
		err := writer.InsertSequence(ctx, db.Sequence{
			PlanID:      planID,
			Index:       c.Index,
			StartTick:   c.Sequence.StartTick,
			EndTick:     c.Sequence.EndTick,
			ClipPath:    c.ClipPath,
			OverlayPath: c.OverlayPath,
		})
		if err != nil {
			return err
		}
		for _, r := range c.Runs {
			runs = append(runs, db.Run{PlanID: planID, SeqIndex: c.Index, Button: r.Button.String(), T0: r.T0, T1: r.T1})
		}
	}
	if err := writer.BatchInsertRuns(ctx, runs); err != nil {
		return err
	}
	output.Log("info", fmt.Sprintf("Stored %d sequences and %d runs", len(plan.Clips), len(runs)))

	buttonStats, err := stats.NewAggregator(writer).ComputeStats(ctx, planID, db.NewReader(conn))
	if err != nil {
		return err
	}
	if err := writer.SetMeta(ctx, "last_plan_id", planID); err != nil {
		return err
	}

	output.Log("info", fmt.Sprintf("Stored stats for %d buttons (plan %s)", len(buttonStats), planID))
	return nil
}
