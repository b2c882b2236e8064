package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/oil-strike/internal/audio"
)

var soundsCmd = &cobra.Command{
	Use:   "sounds",
	Short: "Sound cue tools",
}

var soundsExportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Render every sound cue and loop to WAV files",
	Long: `Render each sound cue to <dir>/<cue>.wav and a short preview of each
background loop to <dir>/loop_<loop>.wav. No sound device is needed.

Examples:
  oilstrike sounds export ./sounds`,
	Args: cobra.ExactArgs(1),
	Run:  runSoundsExport,
}

func init() {
	soundsCmd.AddCommand(soundsExportCmd)
}

func runSoundsExport(_ *cobra.Command, args []string) {
	files, err := audio.ExportWAV(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting sounds: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Println(f)
	}
	fmt.Printf("Wrote %d files\n", len(files))
}
