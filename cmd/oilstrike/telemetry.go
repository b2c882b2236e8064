package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/oil-strike/internal/storage"
)

var flagTelemetryLimit int

var telemetryCmd = &cobra.Command{
	Use:   "telemetry <session>",
	Short: "Show a run's recorded steering commands",
	Long: `Print the steering commands recorded for a run. Runs are recorded when
played with --telemetry or simulated with --record; 'oilstrike scores <map>'
lists their session ids.

Examples:
  oilstrike telemetry 2b6f0c8e-1d2a-4c55-9f0e-3f1c7f0d9a11
  oilstrike telemetry <session> --limit 0`,
	Args: cobra.ExactArgs(1),
	Run:  runTelemetry,
}

func init() {
	telemetryCmd.Flags().IntVar(&flagTelemetryLimit, "limit", 20, "Commands to print (0 = all)")
}

func runTelemetry(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	cmds, err := store.Telemetry(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving telemetry: %v\n", err)
		os.Exit(1)
	}
	if len(cmds) == 0 {
		fmt.Printf("No telemetry for session %s\n", args[0])
		return
	}

	var totalMs float64
	for _, c := range cmds {
		totalMs += c.DtMs
	}
	fmt.Printf("Session %s: %d commands, %.1fs simulated\n", args[0], len(cmds), totalMs/1000)
	fmt.Println()

	shown := cmds
	if flagTelemetryLimit > 0 && len(shown) > flagTelemetryLimit {
		shown = shown[:flagTelemetryLimit]
	}
	fmt.Printf("  %-6s  %-8s  %-7s  %s\n", "Seq", "dt (ms)", "Angle", "Throttle")
	for _, c := range shown {
		fmt.Printf("  %-6d  %-8.2f  %-7.1f  %.1f\n", c.Seq, c.DtMs, c.AngleDeg, c.Throttle)
	}
	if len(shown) < len(cmds) {
		fmt.Printf("  ... %d more\n", len(cmds)-len(shown))
	}
}
