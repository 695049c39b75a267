package profile

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrUnknownCharacter  = errors.New("unknown character")
	ErrUnknownSpeed      = errors.New("unknown speed")
	ErrUnknownPreference = errors.New("unknown preference")
)

// Preference keys accepted by SetPreference.
const (
	PrefSound = "sound"
	PrefName  = "name"
	PrefSpeed = "speed"
)

// SetSoundEnabled returns p with the sound preference changed.
func SetSoundEnabled(p Profile, enabled bool) Profile {
	p.SoundEnabled = enabled
	return p
}

// SetName returns p with a new character. The name must be one of Characters.
func SetName(p Profile, name string) (Profile, error) {
	if !slices.Contains(Characters, name) {
		return p, fmt.Errorf("profile: %w: %q", ErrUnknownCharacter, name)
	}
	p.Name = name
	return p, nil
}

// SetSpeed returns p with a new speed label. The label must be one of SpeedLabels.
func SetSpeed(p Profile, label string) (Profile, error) {
	if !slices.Contains(SpeedLabels, label) {
		return p, fmt.Errorf("profile: %w: %q", ErrUnknownSpeed, label)
	}
	p.Speed = Speed(label)
	return p, nil
}

// SetPreference applies a textual key/value pair, as typed on the command line.
func SetPreference(p Profile, key, value string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case PrefSound:
		on, err := parseSwitch(value)
		if err != nil {
			return p, fmt.Errorf("profile: sound: %w", err)
		}
		return SetSoundEnabled(p, on), nil
	case PrefName:
		return SetName(p, value)
	case PrefSpeed:
		return SetSpeed(p, strings.ToLower(strings.TrimSpace(value)))
	default:
		return p, fmt.Errorf("profile: %w: %q", ErrUnknownPreference, key)
	}
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(value)
}
