// Package config provides YAML-based game configuration loading for the
// DVD bounce game: arena geometry, speed presets, palette and leaderboard size.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/dvd-bounce/internal/core"
	"github.com/vovakirdan/dvd-bounce/internal/engine"
)

// GameConfig contains all tunable game parameters.
type GameConfig struct {
	Arena       ArenaConfig        `yaml:"arena"`
	Box         BoxConfig          `yaml:"box"`
	Danger      DangerConfig       `yaml:"danger"`
	Speeds      map[string]float64 `yaml:"speeds"`
	Palette     []string           `yaml:"palette"`
	Leaderboard LeaderboardConfig  `yaml:"leaderboard"`
	Timing      TimingConfig       `yaml:"timing"`
}

// ArenaConfig defines the logical play area.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BoxConfig defines the bouncing square.
type BoxConfig struct {
	Size float64 `yaml:"size"`
}

// DangerConfig defines the corner danger zones.
type DangerConfig struct {
	Radius float64 `yaml:"radius"`
}

// LeaderboardConfig defines how many records are kept and shown.
type LeaderboardConfig struct {
	Cap     int `yaml:"cap"`     // Records kept in the profile file
	Display int `yaml:"display"` // Records shown on the records screen
}

// TimingConfig defines the simulation clock.
type TimingConfig struct {
	TickRate     int  `yaml:"tick_rate"`
	ScaleByDelta bool `yaml:"scale_by_delta"`
}

// SpeedPreset represents a named speed preference.
type SpeedPreset string

const (
	SpeedSlow   SpeedPreset = "slow"
	SpeedNormal SpeedPreset = "normal"
	SpeedFast   SpeedPreset = "fast"
)

// SpeedPresets lists the presets in menu order.
var SpeedPresets = []SpeedPreset{SpeedSlow, SpeedNormal, SpeedFast}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid game config")

// Validate rejects geometry the engine cannot run.
func (c GameConfig) Validate() error {
	switch {
	case c.Arena.Width <= 0 || c.Arena.Height <= 0:
		return fmt.Errorf("%w: arena %gx%g", ErrInvalidConfig, c.Arena.Width, c.Arena.Height)
	case c.Box.Size <= 0 || c.Box.Size >= c.Arena.Width || c.Box.Size >= c.Arena.Height:
		return fmt.Errorf("%w: box size %g does not fit arena %gx%g", ErrInvalidConfig, c.Box.Size, c.Arena.Width, c.Arena.Height)
	case c.Danger.Radius <= 0:
		return fmt.Errorf("%w: danger radius %g", ErrInvalidConfig, c.Danger.Radius)
	case len(c.Palette) == 0:
		return fmt.Errorf("%w: empty palette", ErrInvalidConfig)
	case c.Leaderboard.Cap < 1:
		return fmt.Errorf("%w: leaderboard cap %d", ErrInvalidConfig, c.Leaderboard.Cap)
	case c.Timing.TickRate < 1:
		return fmt.Errorf("%w: tick rate %d", ErrInvalidConfig, c.Timing.TickRate)
	}

	for name, speed := range c.Speeds {
		if speed < 0 {
			return fmt.Errorf("%w: speed %q is negative", ErrInvalidConfig, name)
		}
	}
	if _, ok := c.Speeds[string(SpeedNormal)]; !ok {
		return fmt.Errorf("%w: missing %q speed", ErrInvalidConfig, SpeedNormal)
	}
	for _, name := range c.Palette {
		if _, ok := core.ParseColor(name); !ok {
			return fmt.Errorf("%w: unknown palette color %q", ErrInvalidConfig, name)
		}
	}
	return nil
}

// SpeedFor resolves a speed preference label. Unknown labels use normal.
func (c GameConfig) SpeedFor(label string) float64 {
	if v, ok := c.Speeds[label]; ok {
		return v
	}
	return c.Speeds[string(SpeedNormal)]
}

// Colors resolves the palette names to screen colors.
func (c GameConfig) Colors() []core.Color {
	out := make([]core.Color, 0, len(c.Palette))
	for _, name := range c.Palette {
		col, ok := core.ParseColor(name)
		if !ok {
			col = core.ColorWhite
		}
		out = append(out, col)
	}
	return out
}

// EngineConfig derives the engine parameters.
func (c GameConfig) EngineConfig() engine.Config {
	return engine.Config{
		DangerRadius: c.Danger.Radius,
		PaletteSize:  len(c.Palette),
		TickRate:     c.Timing.TickRate,
		ScaleByDelta: c.Timing.ScaleByDelta,
	}
}

// EngineArena derives the engine arena.
func (c GameConfig) EngineArena() engine.Arena {
	return engine.Arena{W: c.Arena.Width, H: c.Arena.Height}
}
