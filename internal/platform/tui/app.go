package tui

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dvd-bounce/internal/config"
	"github.com/vovakirdan/dvd-bounce/internal/core"
	"github.com/vovakirdan/dvd-bounce/internal/engine"
	"github.com/vovakirdan/dvd-bounce/internal/profile"
	"github.com/vovakirdan/dvd-bounce/internal/storage"
)

// Publisher receives live session snapshots for spectators.
// Implementations must not block the caller.
type Publisher interface {
	Publish(sessionID, player string, snap engine.Snapshot)
	Remove(sessionID string)
}

// App is the per-session application context shared by all screens.
// A local run has one App; the SSH server builds one per connection.
// It is used from the Bubble Tea update goroutine only.
type App struct {
	Config    config.GameConfig
	Runtime   core.RuntimeConfig
	Profiles  *profile.Store
	Scores    *storage.Store // Optional shared session history
	Publisher Publisher      // Optional spectator feed
	Logger    *log.Logger
	User      string // Connection owner, used in session IDs
	SkipMenu  bool   // Open straight into a game

	profile profile.Profile
}

// Outcome describes how a finished session changed the profile.
type Outcome struct {
	Score   float64
	Best    float64
	NewBest bool
	Rank    int // 1-based leaderboard position, 0 if it did not make the board
}

// NewApp creates an application context and loads the profile.
func NewApp(cfg config.GameConfig, rt core.RuntimeConfig, profiles *profile.Store, scores *storage.Store, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	if profiles == nil {
		profiles = profile.NewStore("", profile.WithLogger(logger), profile.WithLeaderboardCap(cfg.Leaderboard.Cap))
	}
	return &App{
		Config:   cfg,
		Runtime:  rt,
		Profiles: profiles,
		Scores:   scores,
		Logger:   logger,
		User:     "local",
		profile:  profiles.Load(),
	}
}

// Profile returns the current in-memory profile.
func (a *App) Profile() profile.Profile {
	return a.profile
}

// Speed returns the box speed for the profile's speed preference.
func (a *App) Speed() float64 {
	return a.Config.SpeedFor(string(a.profile.Speed))
}

// UpdateProfile applies fn to the latest stored profile and saves the
// result. The in-memory profile is updated even when saving fails; the
// save error is returned.
func (a *App) UpdateProfile(fn func(profile.Profile) (profile.Profile, error)) error {
	p, err := a.Profiles.Update(a.profile, fn)
	a.profile = p
	return err
}

// GameOver records a finished session: profile stats and leaderboard,
// then the shared session history. Persistence is best effort.
func (a *App) GameOver(score float64, stats engine.Stats) Outcome {
	out := Outcome{Score: score}

	// Another session of the same user may have saved since this one loaded.
	// The save is best effort; the store logs failures.
	a.profile, _ = a.Profiles.Update(a.profile, func(prev profile.Profile) (profile.Profile, error) {
		out.NewBest = score > prev.BestScore
		out.Rank = rankOf(prev.Records, score, a.Profiles.Cap())
		return a.Profiles.RecordGameOver(prev, score, a.profile.Name), nil
	})
	out.Best = a.profile.BestScore

	if a.Scores != nil {
		_, err := a.Scores.SaveSession(storage.Session{
			Player:  a.profile.Name,
			Score:   score,
			Ticks:   int64(stats.Ticks),
			Bounces: int64(stats.Bounces),
			Taps:    int64(stats.Taps),
		})
		if err != nil {
			a.Logger.Warn("could not record session", "err", err)
		}
	}

	a.Logger.Info("game over",
		"user", a.User,
		"player", a.profile.Name,
		"score", profile.FormatTime(score),
		"bounces", stats.Bounces,
		"new_best", out.NewBest,
	)
	return out
}

// rankOf returns where score lands once inserted after equal scores.
func rankOf(records []profile.Record, score float64, limit int) int {
	rank := 1
	for _, r := range records {
		if r.Score >= score {
			rank++
		}
	}
	if limit > 0 && rank > limit {
		return 0
	}
	return rank
}
