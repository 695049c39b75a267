package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dvd-bounce/internal/profile"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Show the personal leaderboard",
	Long: `Display the best sessions stored in the player profile.

Examples:
  dvd records
  dvd records --profile ./player_data.json`,
	Args: cobra.NoArgs,
	Run:  runRecords,
}

func runRecords(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, _ := newLogger(false)
	p := openProfiles(cfg, logger).Load()

	fmt.Printf("Records - %s\n", p.Name)
	fmt.Println()

	if len(p.Records) == 0 {
		fmt.Println("No records yet.")
		fmt.Println()
		fmt.Println("Play 'dvd play' to set the first one!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-20s  %s\n", "Rank", "Time", "Name", "Date")
	fmt.Printf("  %-4s  %-8s  %-20s  %s\n", "----", "----", "----", "----")

	shown := p.Records
	if len(shown) > cfg.Leaderboard.Display {
		shown = shown[:cfg.Leaderboard.Display]
	}
	for i, r := range shown {
		fmt.Printf("  %-4d  %-8s  %-20s  %s\n", i+1, profile.FormatTime(r.Score), r.Name, r.Date)
	}

	fmt.Println()
	fmt.Printf("Best: %s over %d games\n", profile.FormatTime(p.BestScore), p.GamesPlayed)
}
