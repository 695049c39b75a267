package engine

// Snapshot is a read-only view of a session for renderers and spectators.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Status   string     `json:"status"`
	ArenaW   float64    `json:"arena_w"`
	ArenaH   float64    `json:"arena_h"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	VX       float64    `json:"vx"`
	VY       float64    `json:"vy"`
	Size     float64    `json:"size"`
	Color    int        `json:"color"`
	Score    float64    `json:"score"`
	Ticks    int        `json:"ticks"`
	Bounces  int        `json:"bounces"`
	Taps     int        `json:"taps"`
	Danger   [4]float64 `json:"danger"` // Per-corner proximity, see Corner.Proximity
	GameOver bool       `json:"game_over"`
}

// Stats summarizes a session's counters.
type Stats struct {
	Ticks   int
	Bounces int
	Taps    int
}

// Stats returns the current session counters.
func (e *Engine) Stats() Stats {
	return Stats{Ticks: e.ticks, Bounces: e.bounces, Taps: e.taps}
}

// Snapshot captures the current session state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Status:   e.status.String(),
		ArenaW:   e.arena.W,
		ArenaH:   e.arena.H,
		X:        e.box.Pos.X,
		Y:        e.box.Pos.Y,
		VX:       e.box.Vel.X,
		VY:       e.box.Vel.Y,
		Size:     e.box.Size,
		Color:    e.box.Color,
		Score:    e.CurrentScore(),
		Ticks:    e.ticks,
		Bounces:  e.bounces,
		Taps:     e.taps,
		GameOver: e.status == StatusEnded,
	}
	if e.status != StatusIdle {
		for i, c := range e.CornerDanger() {
			snap.Danger[i] = c.Proximity
		}
	}
	return snap
}
