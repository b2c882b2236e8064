// oilstrike is a terminal drilling game: steer the drill down past rocks and
// magma, then geosteer through the reservoir collecting oil.
//
// Usage:
//
//	oilstrike maps                - List drilling sites
//	oilstrike play [map]          - Drill a site
//	oilstrike menu                - Pick sites interactively
//	oilstrike scores [map]        - Show run records
//	oilstrike telemetry <session> - Show a run's steering log
//	oilstrike serve               - Start SSH server for remote play
//	oilstrike simulate            - Run a headless deterministic drill
//	oilstrike sounds export <dir> - Render sound cues to WAV
//
// Global flags:
//
//	--fps <rate>        - Frame rate (default: 60)
//	--seed <value>      - RNG seed for reproducible runs
//	--db <path>         - Runs database (default: ~/.oilstrike/runs.db)
//	--config <path>     - Drill config YAML
//	--maps <path>       - Maps YAML
//	--log-level <level> - debug, info, warn, error
//	--log-file <path>   - Log destination, "-" for stderr
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/oil-strike/internal/config"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagMaps     string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "oilstrike",
	Short: "Oil Strike - drill for oil in your terminal",
	Long: `Oil Strike is a terminal drilling game. Steer the drill down through
the rock, dodging boulders and magma pockets, until it reaches the reservoir.
Then geosteer along the pay zone and collect the oil before time runs out.

Available commands:
  maps       - Show all drilling sites
  play       - Drill a site directly
  menu       - Interactive site picker
  scores     - View run records
  telemetry  - Show a run's recorded steering
  serve      - Start SSH server for remote play
  simulate   - Headless deterministic run
  sounds     - Sound cue tools

Examples:
  oilstrike maps
  oilstrike play zone-b
  oilstrike menu
  oilstrike serve --ssh :2222
  oilstrike simulate --seed 42 --steer L20,R20`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.oilstrike/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom drill config YAML")
	rootCmd.PersistentFlags().StringVar(&flagMaps, "maps", "", "Path to custom maps YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.oilstrike/oilstrike.log", `Log file ("-" for stderr)`)

	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(telemetryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(soundsCmd)
}

// newLogger builds the process logger. The terminal belongs to the game,
// so logs go to a file unless --log-file is "-".
func newLogger() (*log.Logger, func()) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
		level = log.InfoLevel
	}
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "oilstrike",
		Level:           level,
	}

	if flagLogFile == "-" {
		return log.NewWithOptions(os.Stderr, opts), func() {}
	}

	path := expandHome(flagLogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		f, openErr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if openErr == nil {
			return log.NewWithOptions(f, opts), func() { f.Close() }
		}
		err = openErr
	}
	fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
	opts.Level = log.ErrorLevel
	return log.NewWithOptions(os.Stderr, opts), func() {}
}

// loadSettings reads the drill config and maps or exits.
func loadSettings(logger *log.Logger) (config.DrillConfig, []config.MapConfig) {
	cfg, src, err := config.LoadDrill(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	maps, err := config.LoadMaps(flagMaps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading maps: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("settings loaded", "config", src, "maps", len(maps))
	return cfg, maps
}

// parseDifficulty validates a --difficulty value. Empty keeps each map's
// own preset.
func parseDifficulty(s string) config.DifficultyPreset {
	if s == "" {
		return ""
	}
	preset, ok := config.ParsePreset(s)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q (want easy, normal, hard, fixed)\n", s)
		os.Exit(1)
	}
	return preset
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
