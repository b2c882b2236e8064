package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/oil-strike/internal/platform/tui"
	"github.com/vovakirdan/oil-strike/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a site picker menu",
	Long: `Start Oil Strike in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to drill the selected site.
Press B after a run (or while paused) to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select site
  Tab          - Run records
  Q            - Quit

Examples:
  oilstrike menu
  oilstrike menu --fps 30
  oilstrike menu --db ./runs.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	menuCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
	menuCmd.Flags().BoolVar(&flagTelemetry, "telemetry", false, "Record steering commands to the runs database")
	menuCmd.Flags().DurationVar(&flagHold, "hold", tui.DefaultHoldWindow, "How long a steering key stays held without a key repeat")
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger()
	defer closeLog()

	drill, maps := loadSettings(logger)
	preset := parseDifficulty(flagDifficulty)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		store = nil
	}

	cues, closeAudio := openCues(logger)
	width, height := terminalSize()

	for {
		menuResult, err := tui.RunMenu(maps, store, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		if menuResult.Width > 0 && menuResult.Height > 0 {
			width, height = menuResult.Width, menuResult.Height
		}

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(maps, store, width, height)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		site := menuResult.Map
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
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		}
		if !exit.BackToMenu {
			break
		}
	}

	closeAudio()
	if store != nil {
		store.Close()
	}
}
