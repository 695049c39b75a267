package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/dvd-bounce/internal/core"
)

// Engine owns one session's box and lifecycle state.
// It is not safe for concurrent use; a single host goroutine drives it.
type Engine struct {
	cfg      Config
	rng      Rand
	now      func() time.Time
	listener Listener

	status Status
	arena  Arena
	box    Box

	startedAt   time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
	score       float64 // Last computed elapsed seconds; frozen once Ended

	ticks   int
	bounces int
	taps    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source for directions and colors.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithSeed seeds a math/rand source for reproducible sessions.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // gameplay randomness
	}
}

// WithClock replaces time.Now for elapsed-time accounting.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithListener registers the session event listener.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.listener = l
	}
}

// New creates an idle engine.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // gameplay randomness
	}
	return e
}

// SetListener replaces the event listener. A nil listener disables callbacks.
func (e *Engine) SetListener(l Listener) {
	e.listener = l
}

// Start begins a new session: the box is centered, gets a random direction
// at the given speed and a random color, and the score clock restarts.
func (e *Engine) Start(arena Arena, boxSize, speed float64) error {
	if e.cfg.PaletteSize < 1 || e.cfg.DangerRadius <= 0 {
		return fmt.Errorf("engine: %w: palette=%d radius=%g", ErrInvalidConfig, e.cfg.PaletteSize, e.cfg.DangerRadius)
	}
	if !(arena.W > 0) || !(arena.H > 0) || math.IsInf(arena.W, 0) || math.IsInf(arena.H, 0) {
		return fmt.Errorf("engine: %w: %gx%g", ErrInvalidArena, arena.W, arena.H)
	}
	if !(boxSize > 0) || boxSize >= arena.W || boxSize >= arena.H {
		return fmt.Errorf("engine: %w: size=%g arena=%gx%g", ErrBoxTooLarge, boxSize, arena.W, arena.H)
	}
	if !(speed >= 0) || math.IsInf(speed, 0) {
		return fmt.Errorf("engine: %w: %g", ErrInvalidSpeed, speed)
	}

	e.arena = arena
	theta := e.rng.Float64() * 2 * math.Pi
	e.box = Box{
		Pos:   core.V((arena.W-boxSize)/2, (arena.H-boxSize)/2),
		Vel:   core.FromAngle(theta, speed),
		Size:  boxSize,
		Color: e.drawColor(),
	}

	e.status = StatusRunning
	e.startedAt = e.now()
	e.pausedAt = time.Time{}
	e.pausedTotal = 0
	e.score = 0
	e.ticks = 0
	e.bounces = 0
	e.taps = 0
	return nil
}

// Pause freezes a running session. The paused span is excluded from the score.
func (e *Engine) Pause() {
	if e.status != StatusRunning {
		return
	}
	e.pausedAt = e.now()
	e.score = e.elapsed(e.pausedAt)
	e.status = StatusPaused
}

// Resume continues a paused session.
func (e *Engine) Resume() {
	if e.status != StatusPaused {
		return
	}
	e.pausedTotal += e.now().Sub(e.pausedAt)
	e.pausedAt = time.Time{}
	e.status = StatusRunning
}

// TogglePause pauses a running session or resumes a paused one.
func (e *Engine) TogglePause() {
	switch e.status {
	case StatusRunning:
		e.Pause()
	case StatusPaused:
		e.Resume()
	}
}

// Stop discards the session and returns the engine to idle.
// The host stops sending ticks after calling it.
func (e *Engine) Stop() {
	e.status = StatusIdle
	e.score = 0
}

// Tick advances the simulation by one step. It does nothing unless the
// session is running. dt only matters when Config.ScaleByDelta is set;
// otherwise every tick moves the box by exactly one velocity step.
func (e *Engine) Tick(dt time.Duration) StepResult {
	if e.status != StatusRunning {
		return StepResult{Status: e.status, Score: e.CurrentScore()}
	}

	step := e.box.Vel
	if e.cfg.ScaleByDelta && dt > 0 && e.cfg.TickRate > 0 {
		step = step.Scale(dt.Seconds() * float64(e.cfg.TickRate))
	}
	e.box.Pos = e.box.Pos.Add(step)
	e.ticks++

	var ev Events
	size := e.box.Size

	if e.box.Pos.X <= 0 || e.box.Pos.X+size >= e.arena.W {
		e.box.Vel.X = -e.box.Vel.X
		e.box.Pos.X = core.ClampF(e.box.Pos.X, 0, e.arena.W-size)
		e.box.Color = e.drawColor()
		ev.BouncedX = true
		ev.ColorChanged = true
	}

	if e.box.Pos.Y <= 0 || e.box.Pos.Y+size >= e.arena.H {
		e.box.Vel.Y = -e.box.Vel.Y
		e.box.Pos.Y = core.ClampF(e.box.Pos.Y, 0, e.arena.H-size)
		if !ev.ColorChanged {
			e.box.Color = e.drawColor()
			ev.ColorChanged = true
		}
		ev.BouncedY = true
	}

	if ev.BouncedX || ev.BouncedY {
		e.bounces++
	}

	if DangerAt(e.arena, e.box.Center(), e.cfg.DangerRadius) {
		e.score = e.elapsed(e.now())
		e.status = StatusEnded
		ev.GameOver = true
		if e.listener != nil {
			e.listener.GameOver(e.score)
		}
		return StepResult{Status: e.status, Score: e.score, Events: ev}
	}

	e.score = e.elapsed(e.now())
	if e.listener != nil {
		e.listener.ScoreTick(e.score)
	}
	return StepResult{Status: e.status, Score: e.score, Events: ev}
}

// HandleTap re-randomizes the box direction, keeping its speed and color,
// when p falls inside the box's bounds (edges included) of a running
// session. It reports whether the tap hit the box.
func (e *Engine) HandleTap(p core.Vec) bool {
	if e.status != StatusRunning {
		return false
	}
	if !e.box.Bounds().ContainsInclusive(p) {
		return false
	}

	speed := e.box.Speed()
	theta := e.rng.Float64() * 2 * math.Pi
	e.box.Vel = core.FromAngle(theta, speed)
	e.taps++
	return true
}

// CurrentScore returns the elapsed seconds of the session: live while
// running, held while paused, frozen once ended and zero when idle.
func (e *Engine) CurrentScore() float64 {
	switch e.status {
	case StatusRunning:
		return e.elapsed(e.now())
	case StatusPaused, StatusEnded:
		return e.score
	default:
		return 0
	}
}

// Status returns the session status.
func (e *Engine) Status() Status {
	return e.status
}

// Box returns a copy of the box state.
func (e *Engine) Box() Box {
	return e.box
}

// Arena returns the arena of the current session.
func (e *Engine) Arena() Arena {
	return e.arena
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// CornerDanger evaluates the current box position against all corners.
// It is a pure query and never ends the session.
func (e *Engine) CornerDanger() [4]Corner {
	return CornerDanger(e.arena, e.box.Center(), e.cfg.DangerRadius)
}

func (e *Engine) elapsed(at time.Time) float64 {
	d := at.Sub(e.startedAt) - e.pausedTotal
	if d < 0 {
		return 0
	}
	return d.Seconds()
}

func (e *Engine) drawColor() int {
	if e.cfg.PaletteSize <= 1 {
		return 0
	}
	return e.rng.Intn(e.cfg.PaletteSize)
}
