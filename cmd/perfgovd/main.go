package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "perfgovd",
	Short: "Adaptive performance governor for resource-constrained devices",
	Long: `perfgovd samples frame time, memory, battery, and device temperature,
and continuously adjusts quality level, frame rate cap, and memory use to
keep the workload inside its thermal and power envelope.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
