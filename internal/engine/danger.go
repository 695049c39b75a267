package engine

import (
	"github.com/vovakirdan/dvd-bounce/internal/core"
)

// Corner indices, in the order returned by Corners.
const (
	CornerTopLeft = iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

// Corner describes how close the box center is to one arena corner.
type Corner struct {
	Pos      core.Vec
	Distance float64
	// InDanger is true when Distance < radius; this is the game-over condition.
	InDanger bool
	// Proximity rises linearly from 0 at two radii to 1 at one radius,
	// giving renderers a warning cue before the threshold is crossed.
	Proximity float64
}

// Corners returns the four arena corners.
func Corners(a Arena) [4]core.Vec {
	return [4]core.Vec{
		core.V(0, 0),
		core.V(a.W, 0),
		core.V(0, a.H),
		core.V(a.W, a.H),
	}
}

// CornerDanger evaluates every corner against a box center.
func CornerDanger(a Arena, center core.Vec, radius float64) [4]Corner {
	var out [4]Corner
	for i, c := range Corners(a) {
		d := center.Dist(c)
		out[i] = Corner{
			Pos:       c,
			Distance:  d,
			InDanger:  d < radius,
			Proximity: proximity(d, radius),
		}
	}
	return out
}

// DangerAt reports whether center lies strictly within radius of any corner.
func DangerAt(a Arena, center core.Vec, radius float64) bool {
	for _, c := range Corners(a) {
		if center.Dist(c) < radius {
			return true
		}
	}
	return false
}

func proximity(d, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return core.ClampF(2-d/radius, 0, 1)
}
