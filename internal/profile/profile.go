// Package profile persists player statistics and the capped leaderboard in
// a local JSON file. Loading never fails: a missing or corrupt file yields
// the default profile. All profile updates are pure functions; the caller
// decides when to Save.
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// DateLayout is the record date format (DD.MM.YYYY).
const DateLayout = "02.01.2006"

// DefaultLeaderboardCap is the number of records kept when none is configured.
const DefaultLeaderboardCap = 50

// Characters is the fixed set of selectable player identities.
var Characters = []string{
	"Michael Scott",
	"Jim Halpert",
	"Pam Beesly",
	"Dwight Schrute",
	"Ryan Howard",
	"Andy Bernard",
	"Angela Martin",
	"Kevin Malone",
}

// DefaultCharacter is the identity of a fresh profile.
var DefaultCharacter = Characters[0]

// SpeedLabels lists the accepted speed preference labels in menu order.
var SpeedLabels = []string{"slow", "normal", "fast"}

// DefaultSpeed is the speed preference of a fresh profile.
const DefaultSpeed = "normal"

// Record is one leaderboard entry.
type Record struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Date  string  `json:"date"`
}

// Profile is the persisted player state.
type Profile struct {
	Name         string   `json:"name"`
	BestScore    float64  `json:"best_score"`
	GamesPlayed  int      `json:"games_played"`
	TotalTime    float64  `json:"total_time"`
	SoundEnabled bool     `json:"sound_enabled"`
	Speed        Speed    `json:"speed"`
	Records      []Record `json:"records"`
}

// Speed is the speed preference label. Older files may store a number;
// it is kept as its decimal text.
type Speed string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (s *Speed) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Speed(str)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("speed must be a string or number: %w", err)
	}
	*s = Speed(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// Default returns the profile used when nothing valid is stored.
func Default() Profile {
	return Profile{
		Name:         DefaultCharacter,
		SoundEnabled: true,
		Speed:        DefaultSpeed,
		Records:      []Record{},
	}
}

// Equal reports whether two profiles hold the same data field for field.
func (p Profile) Equal(o Profile) bool {
	if p.Name != o.Name || p.BestScore != o.BestScore || p.GamesPlayed != o.GamesPlayed ||
		p.TotalTime != o.TotalTime || p.SoundEnabled != o.SoundEnabled || p.Speed != o.Speed {
		return false
	}
	if len(p.Records) != len(o.Records) {
		return false
	}
	for i := range p.Records {
		if p.Records[i] != o.Records[i] {
			return false
		}
	}
	return true
}

// Decode parses a stored profile over the defaults and restores the
// leaderboard invariants (sorted, at most limit entries).
func Decode(data []byte, limit int) (Profile, error) {
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("profile: cannot decode: %w", err)
	}
	if p.Name == "" {
		p.Name = DefaultCharacter
	}
	if p.Speed == "" {
		p.Speed = DefaultSpeed
	}
	if math.IsNaN(p.BestScore) || p.BestScore < 0 {
		p.BestScore = 0
	}
	if p.GamesPlayed < 0 {
		p.GamesPlayed = 0
	}
	if math.IsNaN(p.TotalTime) || p.TotalTime < 0 {
		p.TotalTime = 0
	}
	p.Records = normalizeRecords(p.Records, limit)
	return p, nil
}

// Encode serializes a profile as indented UTF-8 JSON.
func Encode(p Profile) ([]byte, error) {
	if p.Records == nil {
		p.Records = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("profile: cannot encode: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatTime renders whole seconds as m:ss.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
