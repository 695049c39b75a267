// Package main is the entry point for the dvd command.
//
// Usage:
//
//	dvd                      # Open the menu
//	dvd play                 # Jump straight into a game
//	dvd records              # Show the personal leaderboard
//	dvd scores               # Show the session history
//	dvd profile              # Show the profile
//	dvd profile set speed fast
//	dvd serve                # Host games over SSH
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/dvd-bounce/internal/config"
	"github.com/vovakirdan/dvd-bounce/internal/core"
	"github.com/vovakirdan/dvd-bounce/internal/platform/tui"
	"github.com/vovakirdan/dvd-bounce/internal/profile"
	"github.com/vovakirdan/dvd-bounce/internal/storage"
)

// Global flags
var (
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagProfile string
	flagConfig  string
	flagLogFile string
	flagDebug   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dvd",
	Short: "Keep the bouncing logo out of the corners",
	Long: `dvd is a terminal game built around the bouncing DVD logo.

The box drifts around the arena at a steady speed, bouncing off the walls.
Click it (or press space) to knock it in a new direction. Survive as long as you can: the
session ends the moment the box reaches a corner.

Examples:
  dvd                       # Open the menu
  dvd play --seed 42        # Deterministic session
  dvd records               # Personal leaderboard
  dvd profile set name "Pam Beesly"
  dvd serve --watch :8080   # SSH server with a spectator feed`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (frames per second, 0 = config value)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.dvd/scores.db", "Path to session history database")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", profile.DefaultPath, "Path to the player profile")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.dvd/dvd.log", "Log file for interactive sessions")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(serveCmd)
}

func runMenu(_ *cobra.Command, _ []string) {
	runInteractive()
}

// loadConfig resolves the game config and applies command-line overrides.
func loadConfig() config.GameConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagFPS > 0 {
		cfg.Timing.TickRate = flagFPS
	}
	return cfg
}

// newLogger builds the process logger. Interactive sessions own the
// terminal, so their logs go to a file; everything else logs to stderr.
func newLogger(toFile bool) (*log.Logger, func()) {
	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}

	opts := log.Options{ReportTimestamp: true, Level: level, Prefix: "dvd"}
	if !toFile {
		return log.NewWithOptions(os.Stderr, opts), func() {}
	}

	path := expandHome(flagLogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			return log.NewWithOptions(f, opts), func() { f.Close() } //nolint:errcheck // Best-effort close
		}
	}

	// No usable log file: stay quiet rather than draw over the game.
	opts.Level = log.FatalLevel
	return log.NewWithOptions(os.Stderr, opts), func() {}
}

func openProfiles(cfg config.GameConfig, logger *log.Logger) *profile.Store {
	return profile.NewStore(flagProfile,
		profile.WithLogger(logger),
		profile.WithLeaderboardCap(cfg.Leaderboard.Cap),
	)
}

// openScores opens the session history. A broken database only disables
// history; the game itself keeps working.
func openScores(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("session history disabled", "err", err)
		return nil
	}
	return store
}

func runtimeConfig(cfg config.GameConfig) core.RuntimeConfig {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.Timing.TickRate,
		Seed:     flagSeed,
	}
}

// runInteractive starts the local TUI, optionally straight into a game.
func runInteractive(opts ...func(*tui.App)) {
	cfg := loadConfig()
	logger, closeLog := newLogger(true)
	defer closeLog()

	scores := openScores(logger)
	if scores != nil {
		defer scores.Close()
	}

	app := tui.NewApp(cfg, runtimeConfig(cfg), openProfiles(cfg, logger), scores, logger)
	for _, opt := range opts {
		opt(app)
	}

	if err := tui.Run(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
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
