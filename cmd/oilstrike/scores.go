package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/oil-strike/internal/config"
	"github.com/vovakirdan/oil-strike/internal/storage"
)

var (
	flagScoresLimit int
	flagClearScores bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [map]",
	Short: "Show run records",
	Long: `Without a site, show a summary for every site that has been drilled.
With a site, display its best runs (score first, then fastest).

Examples:
  oilstrike scores
  oilstrike scores zone-a
  oilstrike scores zone-a --limit 25
  oilstrike scores zone-a --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete the site's runs")
}

func runScores(_ *cobra.Command, args []string) {
	logger, closeLog := newLogger()
	defer closeLog()
	_, maps := loadSettings(logger)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		printSummary(store, maps)
		return
	}

	site, ok := config.FindMap(maps, args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown site %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'oilstrike maps' to see available sites.")
		os.Exit(1)
	}

	if flagClearScores {
		if err := store.ClearRuns(site.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs for %s\n", site.Title)
		return
	}

	runs, err := store.TopRuns(site.ID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run records - %s (%s)\n", site.Title, site.ID)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'oilstrike play %s' to set the first record!\n", site.ID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-9s  %-6s  %-4s  %-6s  %-16s  %s\n", "Rank", "Score", "Outcome", "Depth", "Oil", "Time", "Date", "Session")
	fmt.Printf("  %-4s  %-8s  %-9s  %-6s  %-4s  %-6s  %-16s  %s\n", "----", "-----", "-------", "-----", "---", "----", "----", "-------")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-9s  %-6s  %-4d  %-6s  %-16s  %s\n",
			i+1, r.Score, r.Outcome, fmt.Sprintf("%dm", int(r.Depth)), r.Droplets,
			r.Duration.Round(time.Second), r.CreatedAt.Format("2006-01-02 15:04"), r.SessionID)
	}

	fmt.Println()
	if best, err := store.HighScore(site.ID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}

// printSummary shows aggregated stats per site.
func printSummary(store *storage.Store, maps []config.MapConfig) {
	stats, err := store.AllMapStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-10s  %-13s  %-5s  %-5s  %-8s  %-8s  %s\n", "Site", "Title", "Runs", "Wins", "Best", "Avg", "Last played")
	for _, id := range ids {
		st := stats[id]
		title := "-"
		if m, ok := config.FindMap(maps, id); ok {
			title = m.Title
		}
		fmt.Printf("  %-10s  %-13s  %-5d  %-5d  %-8d  %-8.0f  %s\n",
			id, title, st.Runs, st.Wins, st.HighScore, st.AvgScore, st.LastPlayed.Format("2006-01-02 15:04"))
	}
}
