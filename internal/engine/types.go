// Package engine implements the bouncing-box simulation: fixed-step position
// integration, wall reflection with color changes, and the corner-danger
// terminal condition. It holds no global state and never touches a terminal;
// hosts drive it through Start, Tick, HandleTap and the Listener callbacks.
package engine

import (
	"errors"

	"github.com/vovakirdan/dvd-bounce/internal/core"
)

// Status is the lifecycle state of a session.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusEnded
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Precondition errors returned by Start.
var (
	ErrInvalidArena  = errors.New("arena dimensions must be positive")
	ErrBoxTooLarge   = errors.New("box must be smaller than the arena")
	ErrInvalidSpeed  = errors.New("speed must be a finite non-negative number")
	ErrInvalidConfig = errors.New("invalid engine config")
)

// Arena is the fixed play area in logical units. Corners are at (0,0),
// (W,0), (0,H) and (W,H).
type Arena struct {
	W, H float64
}

// Box is the bouncing square. Pos is the top-left corner.
type Box struct {
	Pos   core.Vec
	Vel   core.Vec
	Size  float64
	Color int // Index into the configured palette
}

// Bounds returns the box's axis-aligned bounding rectangle.
func (b Box) Bounds() core.Box {
	return core.Box{Min: b.Pos, Size: core.V(b.Size, b.Size)}
}

// Center returns the center point of the box.
func (b Box) Center() core.Vec {
	return b.Bounds().Center()
}

// Speed returns the magnitude of the box's velocity.
func (b Box) Speed() float64 {
	return b.Vel.Len()
}

// Config holds the parameters that stay fixed across sessions.
type Config struct {
	DangerRadius float64 // Distance from a corner that ends the game
	PaletteSize  int     // Number of colors the box can take
	TickRate     int     // Nominal ticks per second
	ScaleByDelta bool    // Scale displacement by dt instead of a fixed step
}

// DefaultConfig returns the classic 600x450 arena parameters.
func DefaultConfig() Config {
	return Config{
		DangerRadius: 50,
		PaletteSize:  4,
		TickRate:     60,
	}
}

// Rand is the random source the engine draws directions and colors from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Listener receives session events. Callbacks run synchronously inside
// Tick on the caller's goroutine.
type Listener interface {
	GameOver(score float64)
	ScoreTick(score float64)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnGameOver  func(score float64)
	OnScoreTick func(score float64)
}

// GameOver implements Listener.
func (l ListenerFuncs) GameOver(score float64) {
	if l.OnGameOver != nil {
		l.OnGameOver(score)
	}
}

// ScoreTick implements Listener.
func (l ListenerFuncs) ScoreTick(score float64) {
	if l.OnScoreTick != nil {
		l.OnScoreTick(score)
	}
}

// Events records what happened during a single tick.
type Events struct {
	BouncedX     bool
	BouncedY     bool
	ColorChanged bool
	GameOver     bool
}

// StepResult is returned by Tick.
type StepResult struct {
	Status Status
	Score  float64
	Events Events
}
