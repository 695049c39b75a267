package tui

import (
	"math"

	"github.com/vovakirdan/dvd-bounce/internal/core"
	"github.com/vovakirdan/dvd-bounce/internal/engine"
)

// Minimum screen buffer size that still shows a playable field.
const (
	minArenaCols = 20
	minArenaRows = 6
)

// ArenaView maps the logical arena onto a bordered block of terminal cells.
// The field is stretched to fill the buffer, so horizontal and vertical
// scales differ.
type ArenaView struct {
	arena engine.Arena
	cols  int
	rows  int
}

// NewArenaView creates a view of arena drawn into a cols x rows buffer.
func NewArenaView(arena engine.Arena, cols, rows int) ArenaView {
	return ArenaView{arena: arena, cols: cols, rows: rows}
}

// Fits reports whether the buffer is large enough to draw the field.
func (v ArenaView) Fits() bool {
	return v.cols >= minArenaCols && v.rows >= minArenaRows
}

// Field returns the cells inside the border.
func (v ArenaView) Field() core.Rect {
	return core.NewRect(1, 1, v.cols-2, v.rows-2)
}

// scale returns arena units per cell on each axis.
func (v ArenaView) scale() (sx, sy float64) {
	f := v.Field()
	return v.arena.W / float64(f.W), v.arena.H / float64(f.H)
}

// ToCell returns the cell containing arena point p, clamped to the field.
func (v ArenaView) ToCell(p core.Vec) (x, y int) {
	f := v.Field()
	sx, sy := v.scale()
	x = f.X + int(math.Floor(p.X/sx))
	y = f.Y + int(math.Floor(p.Y/sy))
	return core.Clamp(x, f.X, f.Right()-1), core.Clamp(y, f.Y, f.Bottom()-1)
}

// CellBounds returns the arena region covered by cell (x, y).
// The second value is false for cells outside the field.
func (v ArenaView) CellBounds(x, y int) (core.Box, bool) {
	f := v.Field()
	if !f.Contains(x, y) {
		return core.Box{}, false
	}
	sx, sy := v.scale()
	return core.Box{
		Min:  core.V(float64(x-f.X)*sx, float64(y-f.Y)*sy),
		Size: core.V(sx, sy),
	}, true
}

// TapPoint converts a click on cell (x, y) to an arena point: the point of
// that cell nearest to target. A click on any cell the box is drawn on thus
// lands inside the box.
func (v ArenaView) TapPoint(x, y int, target core.Vec) (core.Vec, bool) {
	cell, ok := v.CellBounds(x, y)
	if !ok {
		return core.Vec{}, false
	}
	return core.V(
		core.ClampF(target.X, cell.Min.X, cell.Min.X+cell.Size.X),
		core.ClampF(target.Y, cell.Min.Y, cell.Min.Y+cell.Size.Y),
	), true
}

// BoxRect returns every cell the box overlaps.
func (v ArenaView) BoxRect(b engine.Box) core.Rect {
	f := v.Field()
	sx, sy := v.scale()
	x0, y0 := v.ToCell(b.Pos)
	x1 := core.Min(f.X+int(math.Ceil((b.Pos.X+b.Size)/sx)), f.Right())
	y1 := core.Min(f.Y+int(math.Ceil((b.Pos.Y+b.Size)/sy)), f.Bottom())
	return core.NewRect(x0, y0, core.Max(x1-x0, 1), core.Max(y1-y0, 1))
}

// Draw renders the border, the corner danger zones and the box.
func (v ArenaView) Draw(s *core.Screen, box engine.Box, corners [4]engine.Corner, radius float64, palette []core.Color) {
	s.Clear()
	s.DrawBox(core.NewRect(0, 0, v.cols, v.rows), core.ColorGray)
	v.drawDanger(s, corners, radius)

	color := core.ColorWhite
	if len(palette) > 0 {
		color = palette[box.Color%len(palette)]
	}
	r := v.BoxRect(box)
	s.DrawRect(r, '█', color)
	if r.W >= 3 {
		s.DrawTextColored(r.X+(r.W-3)/2, r.Y+(r.H-1)/2, "DVD", color)
	}
}

// drawDanger shades each corner's game-over disc and, while the box is
// approaching, the warning ring around it.
func (v ArenaView) drawDanger(s *core.Screen, corners [4]engine.Corner, radius float64) {
	f := v.Field()
	for y := f.Y; y < f.Bottom(); y++ {
		for x := f.X; x < f.Right(); x++ {
			cell, _ := v.CellBounds(x, y)
			center := cell.Center()
			for _, c := range corners {
				d := center.Dist(c.Pos)
				switch {
				case d < radius:
					s.SetColored(x, y, '░', dangerColor(c.Proximity))
				case d < 2*radius && c.Proximity > 0:
					s.SetColored(x, y, '·', core.ColorDarkGray)
				default:
					continue
				}
				break
			}
		}
	}
}

func dangerColor(proximity float64) core.Color {
	switch {
	case proximity >= 0.5:
		return core.ColorBrightRed
	case proximity > 0:
		return core.ColorOrange
	default:
		return core.ColorDarkRed
	}
}
