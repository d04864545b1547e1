package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"cs-demo-recorder/internal/app"
	"cs-demo-recorder/internal/config"
	"cs-demo-recorder/internal/db"
	"cs-demo-recorder/internal/ipc"
	"cs-demo-recorder/internal/metrics"
	"cs-demo-recorder/internal/overlay"
	"cs-demo-recorder/internal/parser"
	"cs-demo-recorder/internal/recorder"
	"cs-demo-recorder/internal/voice"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

// options are the parsed command line flags.
type options struct {
	demoPath    string
	playerID    string
	listPlayers bool
	configPath  string
	mode        string
	outputPath  string
	outPath     string
	dbDriver    string
	outputDir   string
	metricsFile string
}

func main() {
	var (
		opts          options
		memoryLimitMB int
	)
	flag.StringVar(&opts.demoPath, "demo", "", "Path to CS2 demo file")
	flag.StringVar(&opts.playerID, "player", "", "Steam ID of the player to record")
	flag.BoolVar(&opts.listPlayers, "list-players", false, "Print the roster and exit")
	flag.StringVar(&opts.configPath, "config", "", "Path to YAML config file (defaults to $CSREC_CONFIG)")
	flag.StringVar(&opts.mode, "mode", "json", "Output mode: 'json' or 'database'")
	flag.StringVar(&opts.outputPath, "output", "", "Path to output JSON file (json mode, optional)")
	flag.StringVar(&opts.outPath, "out", "", "Path to output SQLite database (required for database mode)")
	flag.StringVar(&opts.dbDriver, "db-driver", db.DriverPureGo, "SQLite driver: 'sqlite' (pure Go) or 'sqlite3' (CGO)")
	flag.StringVar(&opts.outputDir, "output-dir", "", "Directory the recorder writes clips to (overrides config)")
	flag.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	flag.IntVar(&memoryLimitMB, "memory-limit", 0, "Memory limit in MB (0 = no limit)")
	flag.Parse()

	if err := validate(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitFailure)
	}

	// This uses Go's built-in memory limit which triggers more aggressive GC
	if memoryLimitMB > 0 {
		debug.SetMemoryLimit(int64(memoryLimitMB) * 1024 * 1024)
		fmt.Fprintf(os.Stderr, "Set memory limit to %d MB\n", memoryLimitMB)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Initialize output handler
	output := ipc.NewOutput()

	cfg, err := config.Load(ctx, opts.configPath)
	if err != nil {
		output.Error(err.Error())
		os.Exit(exitFailure)
	}
	output.SetLevel(cfg.LogLevel)
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}

	if err := run(ctx, opts, cfg, output); err != nil {
		output.Error(err.Error())
		os.Exit(exitFailure)
	}

	os.Exit(exitSuccess)
}

// validate checks flag combinations.
func validate(opts options) error {
	if opts.demoPath == "" {
		return fmt.Errorf("--demo is required")
	}
	if opts.playerID == "" && !opts.listPlayers {
		return fmt.Errorf("--player is required unless --list-players is set")
	}
	switch opts.mode {
	case "json":
	case "database":
		if opts.outPath == "" {
			return fmt.Errorf("--out is required when --mode=database")
		}
	default:
		return fmt.Errorf("--mode must be 'json' or 'database'")
	}
	if opts.dbDriver != db.DriverPureGo && opts.dbDriver != db.DriverCGO {
		return fmt.Errorf("--db-driver must be '%s' or '%s'", db.DriverPureGo, db.DriverCGO)
	}
	return nil
}

func run(ctx context.Context, opts options, cfg *config.Config, output *ipc.Output) error {
	output.Log("info", fmt.Sprintf("Starting recorder planning for demo: %s", opts.demoPath))

	data, err := parseDemo(ctx, opts, output)
	if err != nil {
		return err
	}
	output.Log("info", fmt.Sprintf("Parsed %d events, %d button samples, %d players on %s",
		len(data.Events), len(data.Samples), len(data.Players), data.Map))

	if opts.listPlayers {
		output.Result("players", data.Players)
		return nil
	}

	m := metrics.NewManager()
	planner := app.NewPlanner(
		app.WithTickRate(cfg.TickRate),
		app.WithPads(cfg.SpawnPadSeconds, cfg.DeathPadSeconds),
		app.WithWorkers(cfg.Workers),
		app.WithRecorderSettings(recorder.Settings{
			Framerate: cfg.Recorder.Framerate,
			Width:     cfg.Recorder.Width,
			Height:    cfg.Recorder.Height,
			Encoder:   cfg.Recorder.Encoder,
			Container: cfg.Recorder.Container,
			Concat:    recorder.ConcatMode(cfg.Recorder.ConcatMode),
		}),
		app.WithOverlayOptions(overlay.Options{
			HideInactive: cfg.Overlay.HideInactive,
			FontSize:     cfg.Overlay.FontSize,
		}),
		app.WithLogger(output),
		app.WithMetrics(m),
	)

	plan, err := planner.Plan(ctx, data, app.Request{
		DemoPath:  opts.demoPath,
		PlayerID:  opts.playerID,
		OutputDir: cfg.OutputDir,
	})
	if err != nil {
		return err
	}

	output.Result("sequences", summarize(plan))
	if plan.VoiceMask != nil {
		if breakdown, err := voice.Describe(voice.Slots(*plan.VoiceMask)); err == nil {
			output.Result("voice", breakdown)
		}
	}

	switch opts.mode {
	case "json":
		if opts.outputPath != "" {
			if err := writePlanJSON(plan, opts.outputPath); err != nil {
				return err
			}
			output.Log("info", fmt.Sprintf("Wrote plan to %s", opts.outputPath))
		}
	case "database":
		if err := storePlan(ctx, opts.dbDriver, opts.outPath, plan, output); err != nil {
			return err
		}
	}

	if opts.metricsFile != "" {
		if err := m.WriteTextfile(opts.metricsFile); err != nil {
			output.Log("warn", err.Error())
		}
	}

	output.Log("info", "Planning complete!")
	output.Progress("complete", 0, len(plan.Clips), 1.0)
	return nil
}

// parseDemo runs the demo parser and releases it before planning starts.
func parseDemo(ctx context.Context, opts options, output *ipc.Output) (*parser.MatchData, error) {
	output.Log("info", "Creating parser...")
	p, err := parser.NewParser(opts.demoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}
	defer p.Close()

	memLogger := NewMemoryLogger(output, 10, 64*60)
	data, err := p.Parse(ctx, opts.playerID, func(stage string, tick, round int, pct float64) {
		output.Progress(stage, tick, round, pct)
		memLogger.LogIfNeeded(tick)
	})
	if err != nil {
		return nil, err
	}

	// Close parser immediately after parsing completes to free demoinfocs memory
	if closeErr := p.Close(); closeErr != nil && !strings.Contains(closeErr.Error(), "already closed") {
		output.Log("warn", fmt.Sprintf("Error closing parser: %v", closeErr))
	}
	runtime.GC()

	return data, nil
}

// sequenceSummary is the per-window line printed on stdout.
type sequenceSummary struct {
	Index     int     `json:"index"`
	StartTick int     `json:"startTick"`
	EndTick   int     `json:"endTick"`
	Seconds   float64 `json:"seconds"`
	Runs      int     `json:"runs"`
	Clip      string  `json:"clip"`
}

func summarize(plan *app.Plan) []sequenceSummary {
	out := make([]sequenceSummary, 0, len(plan.Clips))
	for _, c := range plan.Clips {
		out = append(out, sequenceSummary{
			Index:     c.Index,
			StartTick: c.Sequence.StartTick,
			EndTick:   c.Sequence.EndTick,
			Seconds:   c.Seconds,
			Runs:      len(c.Runs),
			Clip:      c.ClipPath,
		})
	}
	return out
}
