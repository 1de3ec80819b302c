// Command ls-orrery is a terminal solar-system explorer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/assets"
	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/motion"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/report"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/ui"
	"github.com/litescript/ls-orrery/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode  bool
	snapshotPath string
	frameMode    bool
	startAt      float64
)

const (
	defaultFrameWidth  = 80
	defaultFrameHeight = 24
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred cleanup, including the
// log file, happens on every path.
func run(args []string) int {
	fs := flag.NewFlagSet("ls-orrery", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML settings file")
	logFile := fs.String("log-file", "", "Append logs to this file")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	speed := fs.Float64("speed", 0, "Initial speed multiplier (0.1 - 5.0)")
	paused := fs.Bool("paused", false, "Start paused")
	fps := fs.Int("fps", 0, "Frames per second")
	textureDir := fs.String("textures", "", "Texture directory")
	bodiesFile := fs.String("bodies", "", "YAML body table replacing the built-in one")
	focusID := fs.String("focus", "", "Body focused at startup (none for overview)")
	noStars := fs.Bool("no-stars", false, "Hide the starfield")
	showVersion := fs.Bool("version", false, "Print version and exit")
	fs.BoolVar(&summaryMode, "summary", false, "Print the body table instead of the TUI")
	fs.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	fs.BoolVar(&frameMode, "frame", false, "Print one rendered overview frame")
	fs.Float64Var(&startAt, "at", 0, "Simulated seconds since start")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Printf("ls-orrery v%s\n", version.Version)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
		return 2
	}

	// Flags override the file only when given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-file":
			cfg.Log.File = *logFile
		case "log-level":
			cfg.Log.Level = *logLevel
		case "speed":
			cfg.Speed = *speed
		case "paused":
			cfg.Paused = *paused
		case "fps":
			cfg.FPS = *fps
		case "textures":
			cfg.TextureDir = *textureDir
		case "bodies":
			cfg.BodiesFile = *bodiesFile
		case "focus":
			cfg.DefaultFocus = *focusID
		case "no-stars":
			enable := !*noStars
			cfg.Stars.Enable = &enable
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	headless := summaryMode || snapshotPath != "" || frameMode

	// Set up logging. The TUI owns the terminal, so without a log file it
	// stays quiet.
	var logger *logging.Logger
	switch {
	case cfg.Log.File != "":
		logger, err = logging.Open(cfg.Log.File, logging.ParseLevel(cfg.Log.Level))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		defer logger.Close()
	case headless:
		logger = logging.New(logging.ParseLevel(cfg.Log.Level))
	default:
		logger = logging.Discard()
	}

	reg := bodies.Default()
	if cfg.BodiesFile != "" {
		reg, err = bodies.LoadFile(cfg.BodiesFile)
		if err != nil {
			logger.Error("load bodies: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	sim := state.NewSimulation(state.Config{Speed: cfg.Speed, Paused: cfg.Paused, MaxEvents: cfg.MaxEvents})
	stars := scene.StarfieldConfig{
		Count:     cfg.Stars.Count,
		Seed:      cfg.Stars.Seed,
		MinRadius: cfg.Stars.MinRadius,
		MaxRadius: cfg.Stars.MaxRadius,
	}
	loader := assets.NewLoader(cfg.TextureDir, logger)

	if headless {
		if err := runHeadless(ctx, cfg, reg, sim, stars, loader, logger); err != nil {
			logger.Error("headless: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	sys := scene.Build(reg, stars)
	model := ui.New(ui.Deps{
		Config:   cfg,
		Registry: reg,
		Sim:      sim,
		System:   sys,
		Log:      logger,
		StartAt:  startAt,
	})

	// Create Bubble Tea program
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Load textures in the background; the model waits on the readiness event.
	go loadTextures(ctx, loader, reg, p, logger)

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("tui: %v", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return 1
	}
	return 0
}

func loadTextures(ctx context.Context, loader *assets.Loader, reg *bodies.Registry, p *tea.Program, logger *logging.Logger) {
	start := time.Now()
	textures, err := loader.Load(ctx, reg.All(), func(pr assets.Progress) {
		p.Send(ui.AssetsProgressMsg(pr))
	})
	logger.Debug("Textures loaded: %d in %v", len(textures), time.Since(start).Round(time.Millisecond))
	p.Send(ui.AssetsReadyMsg{Textures: textures, Err: err})
}

// runHeadless handles all headless modes without starting the TUI.
func runHeadless(ctx context.Context, cfg config.Config, reg *bodies.Registry, sim *state.Simulation, stars scene.StarfieldConfig, loader *assets.Loader, logger *logging.Logger) error {
	// A frame is the only output that shows the starfield.
	if !frameMode {
		stars.Count = 0
	}
	sys := scene.Build(reg, stars)
	frame := motion.NewUpdater(reg, sim).Seek(startAt)

	// Export JSON if requested
	if snapshotPath != "" {
		export := report.ExportSnapshot(reg, sys, frame, time.Now().UTC())
		if snapshotPath == "-" {
			if err := export.WriteJSON(os.Stdout); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(snapshotPath)
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	// Print summary table if requested
	if summaryMode {
		report.WriteSummaryTable(os.Stdout, reg)
	}

	if frameMode {
		textures, err := loader.Load(ctx, reg.All(), nil)
		if err != nil {
			return fmt.Errorf("load textures: %w", err)
		}
		for id, tex := range textures {
			sys.SetTexture(id, tex)
		}

		opts := report.FrameOptions{
			Width:  defaultFrameWidth,
			Height: defaultFrameHeight,
			Render: render.Options{Labels: render.LabelAll, HideStars: !cfg.Stars.Enabled()},
		}
		if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
			opts.Color = true
			if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 1 {
				opts.Width, opts.Height = w, h-1
			} else {
				logger.Debug("terminal size: %v", err)
			}
		}

		out, err := report.RenderFrame(sys, frame, opts)
		if err != nil {
			return err
		}
		if summaryMode {
			fmt.Println()
		}
		fmt.Println(out)
	}
	return nil
}
