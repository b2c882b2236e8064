package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/oil-strike/internal/audio"
	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/platform/tui"
	"github.com/vovakirdan/oil-strike/internal/sim"
	"github.com/vovakirdan/oil-strike/internal/storage"
)

var (
	flagDifficulty string
	flagMute       bool
	flagTelemetry  bool
	flagHold       time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play [map]",
	Short: "Drill a site",
	Long: `Start drilling the specified site (default zone-a).

Controls:
  Left/Right, A/D  - Steer while descending
  Up/Down, W/S     - Steer while geosteering
  P/Esc            - Pause
  B                - Back (when paused or finished)
  R                - Restart (after the run ends)
  Ctrl+S           - Save a text screenshot
  Q/Ctrl+C         - Quit

Difficulty options (override the site's own preset):
  easy   - Fewer obstacles, softer hits, longer countdown
  normal - Default tuning
  hard   - More obstacles, harder hits, shorter countdown
  fixed  - Default tuning, no scaling

Examples:
  oilstrike play
  oilstrike play zone-c
  oilstrike play zone-b --difficulty hard
  oilstrike play --mute --telemetry`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
	playCmd.Flags().BoolVar(&flagTelemetry, "telemetry", false, "Record steering commands to the runs database")
	playCmd.Flags().DurationVar(&flagHold, "hold", tui.DefaultHoldWindow, "How long a steering key stays held without a key repeat")
}

func runPlay(_ *cobra.Command, args []string) {
	logger, closeLog := newLogger()
	defer closeLog()

	drill, maps := loadSettings(logger)
	preset := parseDifficulty(flagDifficulty)

	mapID := "zone-a"
	if len(args) > 0 {
		mapID = args[0]
	}
	site, ok := config.FindMap(maps, mapID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown site %q\n", mapID)
		fmt.Fprintln(os.Stderr, "Run 'oilstrike maps' to see available sites.")
		os.Exit(1)
	}

	width, height := terminalSize()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}

	cues, closeAudio := openCues(logger)

	exit, runErr := tui.RunGame(tui.GameOptions{
		Map:        site,
		Config:     site.Apply(drill, preset),
		Store:      store,
		Cues:       cues,
		Logger:     logger,
		Seed:       flagSeed,
		FPS:        flagFPS,
		Width:      width,
		Height:     height,
		Telemetry:  flagTelemetry && store != nil,
		HoldWindow: flagHold,
	})

	closeAudio()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
	if exit.Finished {
		fmt.Printf("%s: %s, score %d, depth %dm, %d droplets\n",
			site.Title, exit.Result.Outcome, exit.Result.Score, int(exit.Result.Depth), exit.Result.Droplets)
	}
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// openCues returns the speaker output, or silence with --mute or without a
// sound device.
func openCues(logger *log.Logger) (sim.Cues, func()) {
	if flagMute {
		return sim.NopCues{}, func() {}
	}
	cues := audio.OpenOrNop(audio.Options{Logger: logger})
	if p, ok := cues.(*audio.Player); ok {
		return p, p.Close
	}
	return cues, func() {}
}
