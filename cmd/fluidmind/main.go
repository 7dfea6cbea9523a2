// Command fluidmind runs the fluid-dynamics concept simulation: a
// fixed 60Hz physics loop behind an HTTP/WS/SSE adapter, plus a
// headless division-experiment runner and a live terminal dashboard.
// Command-tree structure grounded on dynsim's cobra root (persistent
// flags, subcommand-per-mode, RunE error propagation).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/fluidmind/internal/api"
	"github.com/san-kum/fluidmind/internal/applog"
	"github.com/san-kum/fluidmind/internal/command"
	"github.com/san-kum/fluidmind/internal/config"
	"github.com/san-kum/fluidmind/internal/event"
	"github.com/san-kum/fluidmind/internal/physics"
	"github.com/san-kum/fluidmind/internal/simloop"
	"github.com/san-kum/fluidmind/internal/tui"
)

var (
	port       int
	preset     string
	configFile string

	dividend int
	divisor  int
	salinity float64

	frameRate int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fluidmind",
		Short: "real-time fluid-dynamics concept simulation",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the simulation loop and serve the HTTP/WS/SSE api",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&port, "port", 0, "http port (overrides $PORT and config)")
	serveCmd.Flags().StringVar(&preset, "preset", "", "named physics preset (calm, turbulent, high-salinity)")
	serveCmd.Flags().StringVar(&configFile, "config", "", "yaml config file path (overrides preset)")

	divideCmd := &cobra.Command{
		Use:   "divide",
		Short: "run a single headless division experiment and print its result",
		RunE:  runDivide,
	}
	divideCmd.Flags().IntVar(&dividend, "dividend", 7, "dividend, 1-100")
	divideCmd.Flags().IntVar(&divisor, "divisor", 3, "divisor, 1-20")
	divideCmd.Flags().Float64Var(&salinity, "salinity", 0, "salinity boost, 0-10")

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "run the simulation and attach a live terminal dashboard",
		RunE:  runMonitor,
	}
	monitorCmd.Flags().IntVar(&port, "port", 0, "http port (overrides $PORT and config)")
	monitorCmd.Flags().StringVar(&preset, "preset", "", "named physics preset (calm, turbulent, high-salinity)")
	monitorCmd.Flags().IntVar(&frameRate, "fps", 4, "dashboard refresh rate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available physics presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	consoleCmd := &cobra.Command{
		Use:   "console",
		Short: "run the simulation and attach an interactive concept-injection console",
		RunE:  runConsole,
	}
	consoleCmd.Flags().StringVar(&preset, "preset", "", "named physics preset (calm, turbulent, high-salinity)")

	rootCmd.AddCommand(serveCmd, divideCmd, monitorCmd, presetsCmd, consoleCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves a run configuration from, in priority order, an
// explicit --config file, a --preset name, or the default.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

// resolvePort applies the PORT env var and --port flag over whatever
// the config supplies, flag taking precedence over env over config.
func resolvePort(cfg *config.Config) int {
	p := cfg.Port
	if env := os.Getenv("PORT"); env != "" {
		if v, err := strconv.Atoi(env); err == nil {
			p = v
		}
	}
	if port != 0 {
		p = port
	}
	return p
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Port = resolvePort(cfg)

	log := applog.New()
	pub := event.NewBroadcaster()
	loop := simloop.New(cfg.Constants(), pub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go loop.Run(ctx)

	srv := api.New(loop, log, cfg.Port)
	log.Info("fluidmind serving on :%d (salinity=%.2f turbulence=%.2f)", cfg.Port, cfg.Salinity, cfg.Turbulence)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}

func runDivide(cmd *cobra.Command, args []string) error {
	log := applog.New()
	pub := event.NewBroadcaster()
	loop := simloop.New(physics.DefaultConstants(), pub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go loop.Run(ctx)

	log.Info("starting division: %d / %d (salinity boost %.2f)", dividend, divisor, salinity)
	if _, err := loop.Submit(ctx, command.Command{
		Kind:          command.KindStartDivision,
		Dividend:      dividend,
		Divisor:       divisor,
		SalinityBoost: salinity,
	}); err != nil {
		return fmt.Errorf("start division: %w", err)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			f := loop.Fluid()
			f.RLock()
			active := f.Experiment != nil
			results := f.ExperimentResults
			f.RUnlock()
			if active {
				continue
			}
			if len(results) == 0 {
				return fmt.Errorf("division experiment ended without a result")
			}
			res := results[len(results)-1]
			fmt.Printf("%d / %d = %d remainder %d (divisible=%v)\n", res.Dividend, res.Divisor, res.Quotient, res.Remainder, res.IsDivisible)
			fmt.Printf("  peak_jitter=%.4f velocity_sigma=%.4f turbulence_energy=%.4f ticks_to_settle=%d\n",
				res.PeakJitter, res.VelocitySigma, res.TurbulenceEnergy, res.TicksToSettle)
			fmt.Printf("  node_occupancy=%v\n", res.NodeOccupancy)
			fmt.Printf("  %s\n", res.Interpretation)
			return nil
		}
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Port = resolvePort(cfg)

	pub := event.NewBroadcaster()
	loop := simloop.New(cfg.Constants(), pub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go loop.Run(ctx)

	return tui.RunDashboard(ctx, loop, frameRate)
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pub := event.NewBroadcaster()
	loop := simloop.New(cfg.Constants(), pub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go loop.Run(ctx)

	return tui.RunConsole(loop)
}
