package core

import (
	"math"
	"testing"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{"overlapping rects", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), true},
		{"non-overlapping horizontal", NewRect(0, 0, 10, 10), NewRect(15, 0, 10, 10), false},
		{"adjacent vertical (no overlap)", NewRect(0, 0, 10, 10), NewRect(0, 10, 10, 10), false},
		{"contained rect", NewRect(0, 0, 20, 20), NewRect(5, 5, 5, 5), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestBoxContainsInclusive(t *testing.T) {
	b := Box{Min: V(100, 50), Size: V(40, 40)}

	tests := []struct {
		name     string
		p        Vec
		expected bool
	}{
		{"center", V(120, 70), true},
		{"top-left edge", V(100, 50), true},
		{"bottom-right edge", V(140, 90), true},
		{"just right", V(140.01, 70), false},
		{"just above", V(120, 49.99), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.ContainsInclusive(tc.p); got != tc.expected {
				t.Errorf("ContainsInclusive(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}

	if c := b.Center(); c != V(120, 70) {
		t.Errorf("Center() = %v, expected (120, 70)", c)
	}
}

func TestVecMath(t *testing.T) {
	a := V(3, 4)
	if a.Len() != 5 {
		t.Errorf("Len() = %f, expected 5", a.Len())
	}
	if d := V(0, 0).Dist(V(60, 60)); math.Abs(d-84.852813) > 1e-5 {
		t.Errorf("Dist() = %f, expected ~84.85", d)
	}
	if got := a.Add(V(1, 1)).Sub(V(2, 2)).Scale(2); got != V(4, 6) {
		t.Errorf("Add/Sub/Scale = %v, expected (4, 6)", got)
	}

	v := FromAngle(math.Pi/2, 3)
	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y-3) > 1e-12 {
		t.Errorf("FromAngle(pi/2, 3) = %v, expected (0, 3)", v)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		if got := ClampF(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestMinMax(t *testing.T) {
	if Min(5, 10) != 5 || Min(10, 5) != 5 {
		t.Error("Min should return the smaller value")
	}
	if Max(5, 10) != 10 || Max(10, 5) != 10 {
		t.Error("Max should return the larger value")
	}
}

func TestParseColor(t *testing.T) {
	if c, ok := ParseColor(" Red "); !ok || c != ColorRed {
		t.Errorf("ParseColor(Red) = %v, %v", c, ok)
	}
	if _, ok := ParseColor("ultraviolet"); ok {
		t.Error("ParseColor should reject unknown names")
	}
}
