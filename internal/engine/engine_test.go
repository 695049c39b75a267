package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/dvd-bounce/internal/core"
)

// scriptedRand replays fixed values so traces can be computed by hand.
type scriptedRand struct {
	floats   []float64
	ints     []int
	fi, ii   int
	intCalls int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *scriptedRand) Intn(n int) int {
	r.intCalls++
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.ii%len(r.ints)] % n
	r.ii++
	return v
}

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var classicArena = Arena{W: 600, H: 450}

const tick = time.Second / 60

func newTestEngine(t *testing.T, cfg Config, r Rand, clock *fakeClock, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithRand(r), WithClock(clock.Now)}, opts...)
	e := New(cfg, opts...)
	if err := e.Start(classicArena, 40, 3); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	return e
}

func TestStartCentersBox(t *testing.T) {
	r := &scriptedRand{floats: []float64{0}, ints: []int{2}}
	e := newTestEngine(t, DefaultConfig(), r, newFakeClock())

	box := e.Box()
	if box.Pos != core.V(280, 205) {
		t.Errorf("start position = %v, expected (280, 205)", box.Pos)
	}
	if box.Vel != core.V(3, 0) {
		t.Errorf("start velocity = %v, expected (3, 0)", box.Vel)
	}
	if box.Color != 2 {
		t.Errorf("start color = %d, expected 2", box.Color)
	}
	if e.Status() != StatusRunning {
		t.Errorf("status = %v, expected running", e.Status())
	}
}

func TestStartRejectsInvalidGeometry(t *testing.T) {
	tests := []struct {
		name    string
		arena   Arena
		size    float64
		speed   float64
		cfg     Config
		wantErr error
	}{
		{"box as tall as arena", Arena{W: 600, H: 450}, 450, 3, DefaultConfig(), ErrBoxTooLarge},
		{"zero box", Arena{W: 600, H: 450}, 0, 3, DefaultConfig(), ErrBoxTooLarge},
		{"negative speed", Arena{W: 600, H: 450}, 40, -1, DefaultConfig(), ErrInvalidSpeed},
		{"NaN speed", Arena{W: 600, H: 450}, 40, math.NaN(), DefaultConfig(), ErrInvalidSpeed},
		{"empty arena", Arena{W: 0, H: 450}, 40, 3, DefaultConfig(), ErrInvalidArena},
		{"no palette", Arena{W: 600, H: 450}, 40, 3, Config{DangerRadius: 50}, ErrInvalidConfig},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := New(tc.cfg, WithSeed(1))
			err := e.Start(tc.arena, tc.size, tc.speed)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Start() error = %v, expected %v", err, tc.wantErr)
			}
			if e.Status() != StatusIdle {
				t.Errorf("rejected Start should leave engine idle, got %v", e.Status())
			}
		})
	}
}

func TestTickContainmentAndSpeedConservation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DangerRadius = 5 // Keep sessions long so many bounces happen

	for seed := int64(1); seed <= 20; seed++ {
		clock := newFakeClock()
		e := New(cfg, WithSeed(seed), WithClock(clock.Now))
		if err := e.Start(classicArena, 40, 7.5); err != nil {
			t.Fatalf("Start() failed: %v", err)
		}

		for i := 0; i < 3000 && e.Status() == StatusRunning; i++ {
			clock.Advance(tick)
			e.Tick(tick)

			box := e.Box()
			if box.Pos.X < 0 || box.Pos.X > classicArena.W-box.Size ||
				box.Pos.Y < 0 || box.Pos.Y > classicArena.H-box.Size {
				t.Fatalf("seed %d tick %d: box escaped arena at %v", seed, i, box.Pos)
			}
			if math.Abs(box.Speed()-7.5) > 1e-9 {
				t.Fatalf("seed %d tick %d: speed changed to %f", seed, i, box.Speed())
			}
			if box.Color < 0 || box.Color >= cfg.PaletteSize {
				t.Fatalf("seed %d tick %d: color %d outside palette", seed, i, box.Color)
			}
		}
	}
}

func TestSingleColorChangeOnDoubleBounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DangerRadius = 10 // Center ends at (20,20), ~28 from the corner

	r := &scriptedRand{floats: []float64{0}, ints: []int{0, 3}}
	e := newTestEngine(t, cfg, r, newFakeClock())

	e.box.Pos = core.V(1, 1)
	e.box.Vel = core.V(-3, -3)
	callsBefore := r.intCalls

	res := e.Tick(tick)
	if !res.Events.BouncedX || !res.Events.BouncedY {
		t.Fatalf("expected both axes to bounce, got %+v", res.Events)
	}
	if !res.Events.ColorChanged {
		t.Error("expected ColorChanged")
	}
	if got := r.intCalls - callsBefore; got != 1 {
		t.Errorf("color redrawn %d times, expected exactly 1", got)
	}
	if e.Box().Color != 3 {
		t.Errorf("color = %d, expected 3", e.Box().Color)
	}
	if e.Box().Pos != core.V(0, 0) || e.Box().Vel != core.V(3, 3) {
		t.Errorf("box = %+v, expected clamped to origin moving (3,3)", e.Box())
	}
	if e.Stats().Bounces != 1 {
		t.Errorf("bounces = %d, expected 1 for a simultaneous double bounce", e.Stats().Bounces)
	}
}

func TestCornerThreshold(t *testing.T) {
	if !DangerAt(classicArena, core.V(0, 0), 50) {
		t.Error("center on the corner should be in danger")
	}
	if DangerAt(classicArena, core.V(60, 60), 50) {
		t.Error("center at (60,60) is ~84.8 from the corner and should be safe")
	}
	if DangerAt(classicArena, core.V(50, 0), 50) {
		t.Error("distance exactly equal to the radius should be safe")
	}
	if !DangerAt(classicArena, core.V(580, 440), 50) {
		t.Error("bottom-right corner should be detected")
	}
}

func TestCornerDangerProximity(t *testing.T) {
	corners := CornerDanger(classicArena, core.V(0, 75), 50)

	tl := corners[CornerTopLeft]
	if tl.InDanger {
		t.Error("75 units away should not be in danger")
	}
	if math.Abs(tl.Proximity-0.5) > 1e-9 {
		t.Errorf("proximity = %f, expected 0.5", tl.Proximity)
	}
	if corners[CornerBottomRight].Proximity != 0 {
		t.Errorf("far corner proximity = %f, expected 0", corners[CornerBottomRight].Proximity)
	}

	near := CornerDanger(classicArena, core.V(30, 0), 50)[CornerTopLeft]
	if !near.InDanger || near.Proximity != 1 {
		t.Errorf("near corner = %+v, expected in danger with proximity 1", near)
	}
}

func TestGameOverNotifiesListenerOnce(t *testing.T) {
	clock := newFakeClock()
	var gameOvers []float64
	var scoreTicks int
	listener := ListenerFuncs{
		OnGameOver:  func(s float64) { gameOvers = append(gameOvers, s) },
		OnScoreTick: func(float64) { scoreTicks++ },
	}

	r := &scriptedRand{floats: []float64{0}}
	e := newTestEngine(t, DefaultConfig(), r, clock, WithListener(listener))

	clock.Advance(2 * time.Second)
	e.Tick(tick)
	if scoreTicks != 1 {
		t.Fatalf("expected one score tick, got %d", scoreTicks)
	}

	// Center lands at (27,27), ~38 from the corner
	e.box.Pos = core.V(10, 10)
	e.box.Vel = core.V(-3, -3)
	clock.Advance(3 * time.Second)
	res := e.Tick(tick)

	if !res.Events.GameOver || res.Status != StatusEnded {
		t.Fatalf("expected game over, got %+v", res)
	}
	if len(gameOvers) != 1 || gameOvers[0] != 5 {
		t.Fatalf("GameOver callbacks = %v, expected [5]", gameOvers)
	}
	if res.Score != 5 {
		t.Errorf("final score = %f, expected 5", res.Score)
	}
}

func TestTerminalMonotonicity(t *testing.T) {
	clock := newFakeClock()
	r := &scriptedRand{floats: []float64{0}}
	e := newTestEngine(t, DefaultConfig(), r, clock)

	e.box.Pos = core.V(2, 2)
	e.box.Vel = core.V(-1, -1)
	clock.Advance(4 * time.Second)
	e.Tick(tick)
	if e.Status() != StatusEnded {
		t.Fatalf("status = %v, expected ended", e.Status())
	}

	frozenBox := e.Box()
	frozenScore := e.CurrentScore()
	for i := 0; i < 10; i++ {
		clock.Advance(time.Second)
		res := e.Tick(tick)
		if res.Status != StatusEnded || res.Events != (Events{}) {
			t.Fatalf("tick after end changed state: %+v", res)
		}
	}
	if e.Box() != frozenBox {
		t.Errorf("box moved after end: %+v vs %+v", e.Box(), frozenBox)
	}
	if e.CurrentScore() != frozenScore {
		t.Errorf("score changed after end: %f vs %f", e.CurrentScore(), frozenScore)
	}
	if e.HandleTap(e.Box().Center()) {
		t.Error("tap after end should be ignored")
	}
}

func TestPauseExcludesPausedTime(t *testing.T) {
	clock := newFakeClock()
	r := &scriptedRand{floats: []float64{0}}
	e := newTestEngine(t, DefaultConfig(), r, clock)

	clock.Advance(2 * time.Second)
	e.Tick(tick)

	e.Pause()
	posAtPause := e.Box().Pos
	clock.Advance(10 * time.Second)
	res := e.Tick(tick)
	if res.Status != StatusPaused {
		t.Fatalf("status = %v, expected paused", res.Status)
	}
	if e.Box().Pos != posAtPause {
		t.Error("box should not move while paused")
	}
	if e.CurrentScore() != 2 {
		t.Errorf("paused score = %f, expected 2", e.CurrentScore())
	}

	e.Resume()
	clock.Advance(3 * time.Second)
	res = e.Tick(tick)
	if res.Score != 5 {
		t.Errorf("score after resume = %f, expected 5 (paused span excluded)", res.Score)
	}

	e.TogglePause()
	if e.Status() != StatusPaused {
		t.Error("TogglePause should pause a running session")
	}
	e.TogglePause()
	if e.Status() != StatusRunning {
		t.Error("TogglePause should resume a paused session")
	}
}

func TestHandleTap(t *testing.T) {
	r := &scriptedRand{floats: []float64{0, 0.25}, ints: []int{1}}
	e := newTestEngine(t, DefaultConfig(), r, newFakeClock())

	if e.HandleTap(core.V(10, 10)) {
		t.Error("tap far from the box should miss")
	}

	colorBefore := e.Box().Color
	// Top-left edge of the box at (280,205) counts as a hit
	if !e.HandleTap(core.V(280, 205)) {
		t.Fatal("tap on box edge should hit")
	}
	vel := e.Box().Vel
	if math.Abs(vel.X) > 1e-12 || math.Abs(vel.Y-3) > 1e-12 {
		t.Errorf("velocity after tap = %v, expected (0, 3)", vel)
	}
	if e.Box().Color != colorBefore {
		t.Error("tap should not change color")
	}
	if e.Stats().Taps != 1 {
		t.Errorf("taps = %d, expected 1", e.Stats().Taps)
	}

	e.Pause()
	if e.HandleTap(e.Box().Center()) {
		t.Error("tap while paused should be ignored")
	}
}

func TestTapConservesSpeed(t *testing.T) {
	e := New(DefaultConfig(), WithSeed(99))
	if err := e.Start(classicArena, 40, 4.2); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	for i := 0; i < 50; i++ {
		if !e.HandleTap(e.Box().Center()) {
			t.Fatal("tap on center should hit")
		}
		if math.Abs(e.Box().Speed()-4.2) > 1e-9 {
			t.Fatalf("speed after tap %d = %f, expected 4.2", i, e.Box().Speed())
		}
	}
}

func TestEndToEndTrace(t *testing.T) {
	// theta = 0 -> velocity (3, 0); colors: 1 at start, 3 on first bounce
	r := &scriptedRand{floats: []float64{0}, ints: []int{1, 3}}
	clock := newFakeClock()
	e := newTestEngine(t, DefaultConfig(), r, clock)

	// x = 280 + 3n reaches the right wall (x+40 >= 600) at n = 94
	for i := 0; i < 93; i++ {
		clock.Advance(tick)
		res := e.Tick(tick)
		if res.Events.BouncedX || res.Events.BouncedY {
			t.Fatalf("unexpected bounce at tick %d", i+1)
		}
	}
	if got := e.Box(); got.Pos != core.V(559, 205) || got.Color != 1 {
		t.Fatalf("after 93 ticks box = %+v, expected pos (559,205) color 1", got)
	}

	clock.Advance(tick)
	res := e.Tick(tick)
	if !res.Events.BouncedX || res.Events.BouncedY || !res.Events.ColorChanged {
		t.Fatalf("tick 94 events = %+v, expected horizontal bounce with color change", res.Events)
	}
	if got := e.Box(); got.Pos != core.V(560, 205) || got.Vel != core.V(-3, 0) || got.Color != 3 {
		t.Fatalf("after bounce box = %+v, expected pos (560,205) vel (-3,0) color 3", got)
	}

	for i := 0; i < 3; i++ {
		clock.Advance(tick)
		e.Tick(tick)
	}
	if got := e.Box(); got.Pos != core.V(551, 205) {
		t.Errorf("after 97 ticks pos = %v, expected (551, 205)", got.Pos)
	}

	stats := e.Stats()
	if stats.Ticks != 97 || stats.Bounces != 1 {
		t.Errorf("stats = %+v, expected 97 ticks and 1 bounce", stats)
	}
	if e.Status() != StatusRunning {
		t.Errorf("status = %v, expected running", e.Status())
	}
}

func TestScaleByDelta(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScaleByDelta = true

	r := &scriptedRand{floats: []float64{0}}
	e := newTestEngine(t, cfg, r, newFakeClock())

	e.Tick(time.Second / 30) // two nominal frames
	if x := e.Box().Pos.X; math.Abs(x-286) > 1e-6 {
		t.Errorf("x = %f, expected ~286 for a doubled step", x)
	}

	fixed := newTestEngine(t, DefaultConfig(), &scriptedRand{floats: []float64{0}}, newFakeClock())
	fixed.Tick(time.Second)
	if x := fixed.Box().Pos.X; x != 283 {
		t.Errorf("fixed-step x = %f, expected 283 regardless of dt", x)
	}
}

func TestDeterminismWithSeed(t *testing.T) {
	run := func() Box {
		clock := newFakeClock()
		e := New(DefaultConfig(), WithSeed(12345), WithClock(clock.Now))
		if err := e.Start(classicArena, 40, 3); err != nil {
			t.Fatalf("Start() failed: %v", err)
		}
		for i := 0; i < 500 && e.Status() == StatusRunning; i++ {
			e.Tick(tick)
			if i%50 == 0 {
				e.HandleTap(e.Box().Center())
			}
		}
		return e.Box()
	}

	if a, b := run(), run(); a != b {
		t.Errorf("same seed produced different boxes: %+v vs %+v", a, b)
	}
}

func TestStopReturnsToIdle(t *testing.T) {
	r := &scriptedRand{floats: []float64{0}}
	clock := newFakeClock()
	e := newTestEngine(t, DefaultConfig(), r, clock)

	clock.Advance(time.Second)
	e.Tick(tick)
	e.Stop()

	if e.Status() != StatusIdle {
		t.Fatalf("status = %v, expected idle", e.Status())
	}
	if e.CurrentScore() != 0 {
		t.Errorf("idle score = %f, expected 0", e.CurrentScore())
	}
	before := e.Box()
	e.Tick(tick)
	if e.Box() != before {
		t.Error("tick while idle should not move the box")
	}
}

func TestSnapshot(t *testing.T) {
	r := &scriptedRand{floats: []float64{0}, ints: []int{2}}
	e := newTestEngine(t, DefaultConfig(), r, newFakeClock())

	snap := e.Snapshot()
	if snap.Status != "running" || snap.X != 280 || snap.Y != 205 || snap.Color != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
	for i, p := range snap.Danger {
		if p != 0 {
			t.Errorf("corner %d proximity = %f, expected 0 from the center", i, p)
		}
	}

	idle := New(DefaultConfig()).Snapshot()
	if idle.Status != "idle" || idle.GameOver {
		t.Errorf("idle snapshot = %+v", idle)
	}
}
