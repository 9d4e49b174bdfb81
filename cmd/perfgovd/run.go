package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/config"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/device"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/governor"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/pid"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/telemetry"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the governor control loop",
	// Governor settings are parsed by the config layer, not cobra.
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE:               runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(false, true, logger.IsService())
	logger.SetLogLevel(logger.LevelFromString(cfg.LogLevel))
	logger.Debug().Msg("Config loaded")

	if err := pid.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("Failed to remove pid file")
		}
	}()

	collector, err := telemetry.NewService(telemetryConfig(cfg))
	if err != nil {
		return err
	}
	defer collector.Close()

	gov := governor.New(cfg, buildProbes(cfg), governor.Collaborators{}, collector)
	defer gov.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Monitor {
		logger.Info().Msg("Monitor mode activated. Observing without actuation...")
	}

	loop(ctx, gov)
	logger.Info().Msg("Exiting...")

	return nil
}

// loop paces the governor at its frame rate target. The cap can drop while
// power is scarce, so the period is recomputed every frame.
func loop(ctx context.Context, gov *governor.Governor) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Received termination signal.")
			return
		case now := <-timer.C:
			var frameTime time.Duration
			if !last.IsZero() {
				frameTime = now.Sub(last)
			}
			last = now

			gov.Tick(now, frameTime)

			period := time.Second / time.Duration(gov.FrameRateTarget())
			delay := period - time.Since(now)
			if delay < 0 {
				delay = 0
			}
			timer.Reset(delay)
		}
	}
}

// buildProbes wires the platform metric sources. A missing sensor is not
// fatal; sampling carries the seeded value forward.
func buildProbes(cfg *config.Config) governor.Probes {
	var probes governor.Probes
	var err error

	if cfg.GPUProbe {
		probes.Thermal, err = device.NewNVMLThermalProbe()
		if err != nil {
			logger.Warn().Err(err).Msg("GPU thermal probe unavailable, falling back to thermal zones")
		}
	}
	if probes.Thermal == nil {
		probes.Thermal, err = device.NewThermalProbe()
		if err != nil {
			logger.Warn().Err(err).Msg("No thermal probe found, assuming ambient temperature")
		}
	}

	probes.Battery, err = device.NewBatteryProbe()
	if err != nil {
		logger.Warn().Err(err).Msg("No battery probe found, assuming full charge")
	}

	probes.Memory = device.NewMemoryProbe()

	return probes
}

func telemetryConfig(cfg *config.Config) telemetry.Config {
	tcfg := telemetry.DefaultConfig()
	tcfg.Enabled = cfg.Telemetry
	tcfg.DBPath = cfg.TelemetryDB

	return tcfg
}
