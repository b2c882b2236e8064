package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List all drilling sites",
	Long:  `Shows every drilling site with its difficulty, depth and target layer.`,
	Run:   runMaps,
}

func runMaps(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger()
	defer closeLog()
	_, maps := loadSettings(logger)

	if len(maps) == 0 {
		fmt.Println("No drilling sites available.")
		return
	}

	fmt.Println("Drilling sites:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, m := range maps {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Printf("  %-*s  %-13s  %-6s  %-7s  %-8s  %s\n", maxIDLen, "ID", "Title", "Stars", "Level", "Depth", "Target")
	fmt.Printf("  %-*s  %-13s  %-6s  %-7s  %-8s  %s\n", maxIDLen, "--", "-----", "-----", "-----", "-----", "------")

	for _, m := range maps {
		target := "-"
		if t := m.TargetLayer(); t >= 0 {
			target = m.Layers[t].Name
		}
		stars := strings.Repeat("*", max(0, m.Stars))
		fmt.Printf("  %-*s  %-13s  %-6s  %-7s  %-8s  %s\n", maxIDLen, m.ID, m.Title, stars, m.Difficulty, m.Depth, target)
	}

	fmt.Println()
	fmt.Println("Run 'oilstrike play <id>' to drill a site.")
}
