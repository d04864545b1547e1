package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cs-demo-recorder/internal/app"
)

// writePlanJSON writes the plan as indented JSON. The file is written next to
// the target and renamed into place so readers never see a partial plan.
func writePlanJSON(plan *app.Plan, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmpPath := outputPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	defer os.Remove(tmpPath) // no-op after a successful rename

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(plan); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync plan file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close plan file: %w", err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("failed to move plan file into place: %w", err)
	}
	return nil
}
