package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dvd-bounce/internal/profile"
	"github.com/vovakirdan/dvd-bounce/internal/storage"
)

var (
	flagLimit  int
	flagPlayer string
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the session history",
	Long: `Display the best sessions recorded in the shared history database.
Every finished session is stored there, across all players.

Examples:
  dvd scores
  dvd scores --limit 25
  dvd scores --player "Jim Halpert"
  dvd scores --db ./scores.db
  dvd scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of sessions to show")
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Show totals for one player instead")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the whole session history")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Println("Session history cleared.")
		return
	}

	if flagPlayer != "" {
		printPlayerStats(store, flagPlayer)
		return
	}

	sessions, err := store.TopScores(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Println("Session History")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-20s  %-7s  %-5s  %s\n", "Rank", "Time", "Player", "Bounces", "Taps", "Date")
	fmt.Printf("  %-4s  %-8s  %-20s  %-7s  %-5s  %s\n", "----", "----", "------", "-------", "----", "----")
	for i, s := range sessions {
		fmt.Printf("  %-4d  %-8s  %-20s  %-7d  %-5d  %s\n",
			i+1, profile.FormatTime(s.Score), s.Player, s.Bounces, s.Taps, s.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(); err == nil {
		fmt.Printf("Best: %s\n", profile.FormatTime(best))
	}
}

func printPlayerStats(store *storage.Store, player string) {
	stats, err := store.PlayerStats(player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}
	if stats.Games == 0 {
		fmt.Printf("No sessions recorded for %s.\n", player)
		return
	}

	fmt.Printf("Player:      %s\n", stats.Player)
	fmt.Printf("Games:       %d\n", stats.Games)
	fmt.Printf("Best:        %s\n", profile.FormatTime(stats.BestScore))
	fmt.Printf("Average:     %s\n", profile.FormatTime(stats.AvgScore))
	fmt.Printf("Total time:  %s\n", profile.FormatTime(stats.TotalTime))
	fmt.Printf("Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
}
