package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dvd-bounce/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the player profile",
	Long: `Display the stored player profile and its preferences.

Examples:
  dvd profile
  dvd profile set sound off
  dvd profile set speed fast
  dvd profile set name "Dwight Schrute"`,
	Args: cobra.NoArgs,
	Run:  runProfile,
}

var profileSetCmd = &cobra.Command{
	Use:   "set <sound|name|speed> <value>",
	Short: "Change a profile preference",
	Long: `Change one preference and save the profile.

  sound  on | off
  speed  ` + strings.Join(profile.SpeedLabels, " | ") + `
  name   one of the characters listed by 'dvd profile'`,
	Args: cobra.ExactArgs(2),
	Run:  runProfileSet,
}

func init() {
	profileCmd.AddCommand(profileSetCmd)
}

func runProfile(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, _ := newLogger(false)
	store := openProfiles(cfg, logger)
	p := store.Load()

	sound := "off"
	if p.SoundEnabled {
		sound = "on"
	}

	fmt.Printf("Profile:      %s\n", store.Path())
	fmt.Printf("Name:         %s\n", p.Name)
	fmt.Printf("Best:         %s\n", profile.FormatTime(p.BestScore))
	fmt.Printf("Games played: %d\n", p.GamesPlayed)
	fmt.Printf("Total time:   %s\n", profile.FormatTime(p.TotalTime))
	fmt.Printf("Sound:        %s\n", sound)
	fmt.Printf("Speed:        %s\n", p.Speed)
	fmt.Printf("Records:      %d of %d\n", len(p.Records), store.Cap())
	fmt.Println()
	fmt.Println("Characters:")
	for _, name := range profile.Characters {
		marker := " "
		if name == p.Name {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, name)
	}
}

func runProfileSet(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger, _ := newLogger(false)
	store := openProfiles(cfg, logger)

	p, err := profile.SetPreference(store.Load(), args[0], args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := store.Save(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving profile: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s set to %s\n", strings.ToLower(args[0]), args[1])
}
