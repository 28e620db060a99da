package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/metronome/config"
	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/game"
	"github.com/lixenwraith/metronome/status"
	"github.com/lixenwraith/metronome/vmath"
)

// traceOptions is a synthetic clock script: host iterations every Step, varied by
// Jitter (fraction of Step), with an optional stall or regression every N iterations
type traceOptions struct {
	Duration     time.Duration
	Step         time.Duration
	Jitter       float64
	Seed         uint64
	StallEvery   int
	Stall        time.Duration
	RegressEvery int
	Mode         string
	Anomalies    bool
}

func newTraceCmd() *cobra.Command {
	opts := traceOptions{}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the event stream for a synthetic clock script",
		Long: `Run the simulation headless against a scripted clock and print every
reconciliation event with the wall time it was drained at.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if opts.Mode != "" {
				cfg.Mode = opts.Mode
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logFile := setupLogging(cfg.Log.Debug)
			if logFile != nil {
				defer logFile.Close()
			}
			return runTrace(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.DurationVar(&opts.Duration, "duration", time.Second, "scripted wall time to cover")
	f.DurationVar(&opts.Step, "step", 16*time.Millisecond, "mean interval between host iterations")
	f.Float64Var(&opts.Jitter, "jitter", 0.5, "step variation as a fraction of --step")
	f.Uint64Var(&opts.Seed, "seed", 1, "jitter seed")
	f.IntVar(&opts.StallEvery, "stall-every", 0, "insert a stall every N iterations (0 disables)")
	f.DurationVar(&opts.Stall, "stall", 250*time.Millisecond, "length of an inserted stall")
	f.IntVar(&opts.RegressEvery, "regress-every", 0, "step the clock backwards every N iterations (0 disables)")
	f.StringVar(&opts.Mode, "mode", "", "override the configured frame mode")
	f.BoolVar(&opts.Anomalies, "anomalies", false, "print only lost ticks, clock regressions and rollovers")
	return cmd
}

// runTrace drives a mock clock through the script and writes one line per event to out
func runTrace(ctx context.Context, out io.Writer, cfg *config.Config, opts traceOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Step <= 0 {
		return fmt.Errorf("step must be positive, got %v", opts.Step)
	}
	if opts.Jitter < 0 || opts.Jitter >= 1 {
		return fmt.Errorf("jitter must be in [0, 1), got %v", opts.Jitter)
	}
	if opts.RegressEvery != 0 && opts.RegressEvery < 3 {
		return fmt.Errorf("regress-every must be 0 or at least 3, got %d", opts.RegressEvery)
	}

	start := time.Unix(0, 0)
	clock := engine.NewMockTimeProvider(start)

	sim, err := game.NewSimulation(cfg)
	if err != nil {
		return err
	}
	m, err := engine.NewMetronome(clock, cfg.TickRate(), cfg.LagBudget)
	if err != nil {
		return err
	}

	printEvent := func(ev engine.Event) {
		if opts.Anomalies {
			switch ev.Kind {
			case engine.EventTick, engine.EventFrame, engine.EventIdle:
				return
			}
		}
		fmt.Fprintf(out, "%12v  %s\n", clock.Now().Sub(start), ev)
	}

	reg := status.NewRegistry()
	loop, err := game.NewLoop(m, sim.World, cfg.EngineMode(), nil,
		game.WithStatus(reg),
		game.OnEvent(printEvent),
	)
	if err != nil {
		return err
	}

	rng := vmath.NewFastRand(opts.Seed)
	for i := 1; clock.Now().Sub(start) <= opts.Duration; i++ {
		if _, err := loop.Step(ctx); err != nil {
			return err
		}

		step := opts.Step
		if opts.Jitter > 0 {
			step += time.Duration((rng.Float64()*2 - 1) * opts.Jitter * float64(opts.Step))
		}
		switch {
		case opts.RegressEvery > 0 && i%opts.RegressEvery == 0:
			step = -opts.Step
		case opts.StallEvery > 0 && i%opts.StallEvery == 0:
			step = opts.Stall
		}
		clock.Advance(step)
	}

	stats := m.Stats()
	fmt.Fprintf(out, "samples %d  ticks %d  frames %d  lost %d  regressions %d  rollovers %d  final tick %d\n",
		stats.Samples, stats.Ticks, stats.Frames, stats.TicksLost, stats.Regressions, stats.Rollovers,
		sim.World.Store().Current().Tick())
	return nil
}
