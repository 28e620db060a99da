package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/metronome/asset"
	"github.com/lixenwraith/metronome/audio"
	"github.com/lixenwraith/metronome/config"
	"github.com/lixenwraith/metronome/engine"
	"github.com/lixenwraith/metronome/game"
	"github.com/lixenwraith/metronome/parameter"
	"github.com/lixenwraith/metronome/render"
	"github.com/lixenwraith/metronome/status"
)

func newRunCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the ship simulation in the terminal",
		Long: `Run the ship simulation in the terminal.

Keys: w/a/s/d thrust, x stop thrust, arrows aim, c hold heading, space fire,
p pause, m mute, tab cycle frame mode, q or esc quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			return runTerminal(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	return cmd
}

// session wires one terminal run
type session struct {
	id       string
	cfg      *config.Config
	screen   tcell.Screen
	clock    *engine.PausableClock
	sim      *game.Simulation
	loop     *game.Loop
	renderer *render.TerminalRenderer
	player   *audio.SpeakerPlayer
	cues     *audio.Cues
	status   *status.Registry

	modes []engine.Mode
	mode  int
}

func runTerminal(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logFile := setupLogging(cfg.Log.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	s := &session{
		id:     uuid.NewString(),
		cfg:    cfg,
		status: status.NewRegistry(),
		modes: []engine.Mode{
			engine.MaxOneFramePerTick,
			engine.UnlimitedFrames,
			engine.TargetFramesPerSecond(engine.PerSecond(cfg.TargetFPS)),
		},
	}
	log.SetPrefix(fmt.Sprintf("[%s] ", s.id[:8]))
	log.Printf("session %s: %s ticks, lag budget %d, mode %s", s.id, cfg.TickRate(), cfg.LagBudget, cfg.Mode)

	var err error
	if s.sim, err = game.NewSimulation(cfg); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	s.screen = screen
	setCrashScreen(screen)
	defer func() {
		setCrashScreen(nil)
		screen.Fini()
	}()

	s.startAudio()
	defer s.stopAudio()

	if err := s.buildLoop(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(recoverTo(func() error {
		return s.loop.Run(ctx)
	}))
	g.Go(recoverTo(func() error {
		return s.pumpInput(ctx, cancel)
	}))
	if cfg.Metrics.Addr != "" {
		handler := newMetricsHandler(s.status, s.id)
		g.Go(recoverTo(func() error {
			return serveMetrics(ctx, cfg.Metrics.Addr, handler)
		}))
	}

	err = g.Wait()
	log.Printf("session %s ended after %d ticks", s.id, s.sim.World.Store().Current().Tick())
	return err
}

func (s *session) startAudio() {
	s.player = audio.NewSpeakerPlayer()
	s.cues = audio.NewCues(s.player, engine.NewMonotonicTimeProvider())
	if !s.cfg.Audio.Enabled {
		s.cues.SetEnabled(false)
		return
	}
	if err := s.player.Init(); err != nil {
		// Non-fatal, the simulation runs silent
		log.Printf("audio initialization failed: %v", err)
		s.cues.SetEnabled(false)
	}
}

func (s *session) stopAudio() {
	s.player.Close()
}

func (s *session) buildLoop() error {
	s.clock = engine.NewPausableClock(engine.NewMonotonicTimeProvider())
	m, err := engine.NewMetronome(s.clock, s.cfg.TickRate(), s.cfg.LagBudget)
	if err != nil {
		return err
	}

	assets := s.cfg.Render.Assets
	if assets == "" {
		assets = "."
	}
	models := asset.NewModelRegistry(os.DirFS(assets))
	if err := models.Preload(s.modelPaths()...); err != nil {
		return err
	}
	s.renderer = render.NewTerminalRenderer(s.screen, models, s.cfg.Render.Scale)

	for i, mode := range s.modes {
		if mode == s.cfg.EngineMode() {
			s.mode = i
		}
	}

	frame := render.Present(s.sim.Cols, render.RendererFunc(s.present))
	s.loop, err = game.NewLoop(m, s.sim.World, s.cfg.EngineMode(), frame,
		game.WithStatus(s.status),
		game.OnTick(func(prev, cur *engine.Generation) {
			if s.sim.FireEdges(prev, cur) > 0 {
				s.cues.Fire()
			}
		}),
		game.OnEvent(func(ev engine.Event) {
			s.cues.OnEvent(ev)
		}),
	)
	return err
}

func (s *session) modelPaths() []string {
	paths := make([]string, 0, len(s.cfg.Ships))
	for _, ship := range s.cfg.Ships {
		if ship.Model != "" {
			paths = append(paths, ship.Model)
		}
	}
	return paths
}

func (s *session) present(v render.View) error {
	s.renderer.SetStatus(statusText(s.status.Snapshot()))
	return s.renderer.Render(v)
}

// statusText summarizes loop metrics for the status line
func statusText(snap map[string]any) string {
	text := fmt.Sprintf("%v  fps %.0f  lost %v",
		snap[status.KeyMode], snap[status.KeyFPS], snap[status.KeyTicksLost])
	if paused, _ := snap[status.KeyPaused].(bool); paused {
		text += "  PAUSED"
	}
	return text
}

// pumpInput applies key presses until quit or ctx is done
func (s *session) pumpInput(ctx context.Context, cancel context.CancelFunc) error {
	events := make(chan tcell.Event, 100)
	goSafe(func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	})

	expiry := time.NewTicker(parameter.InputExpiryInterval)
	defer expiry.Stop()

	paused := s.status.Bools.Get(status.KeyPaused)
	var input inputState

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-expiry.C:
			if input.expire(time.Now()) {
				s.sim.Steer(input.controls)
			}

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.screen.Sync()
			case *tcell.EventKey:
				switch input.key(ev, time.Now()) {
				case actionQuit:
					cancel()
					return nil
				case actionSteer:
					s.sim.Steer(input.controls)
				case actionPause:
					paused.Store(s.clock.Toggle())
				case actionMute:
					s.cues.Toggle()
				case actionMode:
					s.mode = (s.mode + 1) % len(s.modes)
					if err := s.loop.SetMode(s.modes[s.mode]); err != nil {
						log.Printf("mode %s: %v", s.modes[s.mode], err)
					}
				}
			}
		}
	}
}
