package config

import (
	_ "embed"
)

//go:embed defaults/dvd.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the built-in configuration used when no YAML
// source can be read.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Arena: ArenaConfig{
			Width:  600,
			Height: 450,
		},
		Box: BoxConfig{
			Size: 40,
		},
		Danger: DangerConfig{
			Radius: 50,
		},
		Speeds: map[string]float64{
			string(SpeedSlow):   2.0,
			string(SpeedNormal): 3.0,
			string(SpeedFast):   4.5,
		},
		Palette: []string{"red", "yellow", "green", "blue"},
		Leaderboard: LeaderboardConfig{
			Cap:     50,
			Display: 10,
		},
		Timing: TimingConfig{
			TickRate: 60,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultGameYAML
}
