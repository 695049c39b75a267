package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/dvd-bounce/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a game right away",
	Long: `Skip the menu and start a session with the current profile.

Controls:
  Click/Space - Tap the box
  P/Esc       - Pause
  R/Enter     - Restart (after game over)
  B           - Back to menu
  Q/Ctrl+C    - Quit

Examples:
  dvd play
  dvd play --seed 42
  dvd play --fps 30 --config ./my-dvd.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	runInteractive(func(app *tui.App) {
		app.SkipMenu = true
	})
}
