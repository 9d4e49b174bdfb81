package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/config"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/logger"
	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/telemetry"
)

var reportLast int

var reportCmd = &cobra.Command{
	Use:                "report",
	Short:              "Summarize recorded telemetry",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE:               runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportLast, "last", 0, "Limit the summary to the most recent N snapshots (0 = all)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(false, false, logger.IsService())

	tcfg := telemetry.DefaultConfig()
	tcfg.Enabled = true
	tcfg.DBPath = cfg.TelemetryDB
	// Read-only access, no batching goroutine needed.
	tcfg.BatchTimeout = 0

	repo, err := telemetry.NewRepository(tcfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	summary, err := repo.Summary(cmd.Context(), reportLast)
	if err != nil {
		return err
	}

	printSummary(cmd, summary)

	return nil
}

func printSummary(cmd *cobra.Command, s *telemetry.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "telemetry summary (%d snapshots, %d events)\n", s.Snapshots, s.Events)
	if s.Snapshots == 0 {
		return
	}

	fmt.Fprintf(out, "  frame time:    avg %.2fms, peak %.2fms\n", s.AvgFrameTimeUs/1000, float64(s.PeakFrameTimeUs)/1000)
	fmt.Fprintf(out, "  allocated:     avg %.1fMB, peak %.1fMB\n", s.AvgAllocated/(1<<20), float64(s.PeakAllocated)/(1<<20))
	fmt.Fprintf(out, "  battery floor: %.0f%%\n", s.MinBattery*100)
	fmt.Fprintf(out, "  avg throttle:  %.2f\n", s.AvgThrottle)
	fmt.Fprintf(out, "  peak temp:     %.1f°C\n", s.PeakTempC)
}
