package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dvd-bounce/internal/config"
	"github.com/vovakirdan/dvd-bounce/internal/core"
	"github.com/vovakirdan/dvd-bounce/internal/engine"
	"github.com/vovakirdan/dvd-bounce/internal/profile"
	"github.com/vovakirdan/dvd-bounce/internal/storage"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testApp(t *testing.T, mutate func(*config.GameConfig)) *App {
	t.Helper()
	cfg := config.DefaultGameConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	logger := log.New(&bytes.Buffer{})
	store := profile.NewStore(filepath.Join(t.TempDir(), "player_data.json"), profile.WithLogger(logger))
	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
	return NewApp(cfg, rt, store, nil, logger)
}

type recordingPublisher struct {
	published []string
	removed   []string
}

func (p *recordingPublisher) Publish(id, player string, snap engine.Snapshot) {
	p.published = append(p.published, id)
}

func (p *recordingPublisher) Remove(id string) {
	p.removed = append(p.removed, id)
}

func TestKeyMapper(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runeKey("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionTap, false},
		{runeKey("p"), core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause, false},
		{runeKey("r"), core.ActionRestart, false},
		{runeKey("b"), core.ActionBack, false},
		{runeKey("x"), core.ActionNone, false},
	}
	for _, tc := range tests {
		action, quit := km.MapKey(tc.msg)
		if action != tc.action || quit != tc.quit {
			t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tc.msg.String(), action, quit, tc.action, tc.quit)
		}
	}

	menu := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, MenuActionLeft},
		{runeKey("l"), MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey("q"), MenuActionQuit},
	}
	for _, tc := range menu {
		if got := km.MapKeyToMenuAction(tc.msg); got != tc.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tc.msg.String(), got, tc.want)
		}
	}
}

// A 62x47 buffer leaves a 60x45 field: exactly 10 arena units per cell.
func testView() ArenaView {
	return NewArenaView(engine.Arena{W: 600, H: 450}, 62, 47)
}

func TestArenaViewMapping(t *testing.T) {
	v := testView()

	if x, y := v.ToCell(core.V(0, 0)); x != 1 || y != 1 {
		t.Errorf("ToCell(origin) = %d,%d; expected 1,1", x, y)
	}
	if x, y := v.ToCell(core.V(600, 450)); x != 60 || y != 45 {
		t.Errorf("ToCell(far corner) = %d,%d; expected clamp to 60,45", x, y)
	}

	cell, ok := v.CellBounds(2, 3)
	if !ok || cell.Min != core.V(10, 20) || cell.Size != core.V(10, 10) {
		t.Errorf("CellBounds(2,3) = %+v, %v", cell, ok)
	}
	if _, ok := v.CellBounds(0, 0); ok {
		t.Error("border cell should be outside the field")
	}

	r := v.BoxRect(engine.Box{Pos: core.V(280, 205), Size: 40})
	if r != core.NewRect(29, 21, 4, 5) {
		t.Errorf("BoxRect = %+v", r)
	}
}

func TestTapPointHitsDrawnBox(t *testing.T) {
	v := testView()
	box := engine.Box{Pos: core.V(123, 77), Size: 40}
	bounds := box.Bounds()
	r := v.BoxRect(box)

	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			p, ok := v.TapPoint(x, y, box.Center())
			if !ok || !bounds.ContainsInclusive(p) {
				t.Errorf("click on drawn cell %d,%d mapped to %+v, outside the box", x, y, p)
			}
		}
	}

	p, ok := v.TapPoint(r.Right()+2, r.Y, box.Center())
	if !ok || bounds.ContainsInclusive(p) {
		t.Errorf("click two cells right of the box mapped inside it: %+v", p)
	}
}

func TestArenaDraw(t *testing.T) {
	v := testView()
	s := core.NewScreen(62, 47)
	box := engine.Box{Pos: core.V(280, 205), Size: 40, Color: 2}
	a := engine.Arena{W: 600, H: 450}
	corners := engine.CornerDanger(a, box.Center(), 50)
	palette := []core.Color{core.ColorRed, core.ColorYellow, core.ColorGreen, core.ColorBlue}

	v.Draw(s, box, corners, 50, palette)

	if got := s.Get(0, 0); got != '┌' {
		t.Errorf("border corner = %q", got)
	}
	if got := s.Get(1, 1); got != '░' {
		t.Errorf("danger zone cell = %q, expected shading", got)
	}
	if c := s.GetCell(29, 21); c.Color != core.ColorGreen {
		t.Errorf("box cell color = %v, expected palette[2]", c.Color)
	}
	if !strings.Contains(s.Row(23), "DVD") {
		t.Errorf("box label missing from row 23: %q", s.Row(23))
	}
}

func TestGameModelRecordsGameOver(t *testing.T) {
	// The danger radius covers the center, so the first tick ends the session.
	app := testApp(t, func(c *config.GameConfig) { c.Danger.Radius = 400 })
	pub := &recordingPublisher{}
	app.Publisher = pub

	m := NewGameModel(app, 80, 24)
	if m.err != nil {
		t.Fatalf("start failed: %v", m.err)
	}

	next, cmd := m.Update(TickMsg{Session: m.sessionID, At: time.Now()})
	m = next.(GameModel)
	if cmd == nil {
		t.Error("expected the tick loop to continue")
	}

	if m.Engine().Status() != engine.StatusEnded {
		t.Fatalf("status = %v, expected ended", m.Engine().Status())
	}
	if got := app.Profile().GamesPlayed; got != 1 {
		t.Errorf("GamesPlayed = %d, expected 1", got)
	}
	if o := m.Outcome(); o.Rank != 1 || o.Best != o.Score {
		t.Errorf("outcome = %+v", o)
	}
	if _, err := os.Stat(app.Profiles.Path()); err != nil {
		t.Errorf("profile not saved: %v", err)
	}
	if len(pub.published) != 1 {
		t.Errorf("expected the final state to be published once, got %d", len(pub.published))
	}
	if !strings.Contains(m.View(), "G A M E   O V E R") {
		t.Error("expected the game-over screen")
	}

	next, _ = m.Update(runeKey("r"))
	m = next.(GameModel)
	if m.Engine().Status() != engine.StatusRunning {
		t.Errorf("status after restart = %v", m.Engine().Status())
	}

	next, _ = m.Update(runeKey("b"))
	m = next.(GameModel)
	if !m.BackToMenu() || m.Engine().Status() != engine.StatusIdle {
		t.Error("expected back to menu with the engine stopped")
	}
	if len(pub.removed) != 1 {
		t.Errorf("expected the session to leave the feed, got %v", pub.removed)
	}
}

func TestGameModelIgnoresStaleTicks(t *testing.T) {
	app := testApp(t, func(c *config.GameConfig) { c.Danger.Radius = 400 })
	m := NewGameModel(app, 80, 24)

	next, cmd := m.Update(TickMsg{Session: "someone-else", At: time.Now()})
	m = next.(GameModel)
	if cmd != nil || m.Engine().Status() != engine.StatusRunning {
		t.Error("a tick from another game must be dropped")
	}
}

func TestGameModelPause(t *testing.T) {
	app := testApp(t, nil)
	m := NewGameModel(app, 80, 24)

	next, _ := m.Update(runeKey("p"))
	m = next.(GameModel)
	if m.Engine().Status() != engine.StatusPaused {
		t.Fatalf("status = %v, expected paused", m.Engine().Status())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected pause overlay")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(GameModel)
	if m.Engine().Status() != engine.StatusRunning {
		t.Errorf("status = %v, expected running", m.Engine().Status())
	}
}

func TestSessionModelRouting(t *testing.T) {
	app := testApp(t, nil)
	var m tea.Model = NewSessionModel(app)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.(SessionModel).current; got != screenProfile {
		t.Fatalf("screen = %v, expected profile", got)
	}

	// Pick the second character.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.(SessionModel).current; got != screenMenu {
		t.Errorf("screen = %v, expected menu after choosing", got)
	}
	if app.Profile().Name != profile.Characters[1] {
		t.Errorf("Name = %q, expected %q", app.Profile().Name, profile.Characters[1])
	}

	reloaded := app.Profiles.Load()
	if reloaded.Name != profile.Characters[1] {
		t.Errorf("saved Name = %q", reloaded.Name)
	}

	m, cmd := m.Update(runeKey("q"))
	if cmd == nil || !m.(SessionModel).quitting {
		t.Error("expected quit from the menu")
	}
}

func TestSettingsChangesAreSaved(t *testing.T) {
	app := testApp(t, nil)
	m := NewSettingsModel(app, 80, 24)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SettingsModel)
	if app.Profile().SoundEnabled {
		t.Error("sound should be toggled off")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(SettingsModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(SettingsModel)
	if app.Profile().Speed != "fast" {
		t.Errorf("Speed = %q, expected fast", app.Profile().Speed)
	}
	if app.Speed() != 4.5 {
		t.Errorf("Speed() = %f, expected 4.5", app.Speed())
	}

	saved := app.Profiles.Load()
	if saved.SoundEnabled || saved.Speed != "fast" {
		t.Errorf("saved = %+v", saved)
	}
}

func TestRankOf(t *testing.T) {
	records := []profile.Record{{Score: 90}, {Score: 50}, {Score: 50}, {Score: 10}}

	tests := []struct {
		score float64
		limit int
		want  int
	}{
		{100, 50, 1},
		{50, 50, 4},
		{5, 50, 5},
		{5, 4, 0},
	}
	for _, tc := range tests {
		if got := rankOf(records, tc.score, tc.limit); got != tc.want {
			t.Errorf("rankOf(%v, %d) = %d, expected %d", tc.score, tc.limit, got, tc.want)
		}
	}
}

func TestSessionModelSkipMenu(t *testing.T) {
	app := testApp(t, nil)
	app.SkipMenu = true
	m := NewSessionModel(app)

	if m.current != screenGame || m.Init() == nil {
		t.Fatal("expected the session to open in a running game")
	}

	next, _ := m.Update(runeKey("b"))
	if got := next.(SessionModel).current; got != screenMenu {
		t.Errorf("screen = %v, expected menu after leaving the game", got)
	}
}

func TestGameOverFeedsScoreboard(t *testing.T) {
	app := testApp(t, nil)
	scores, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("failed to open scores: %v", err)
	}
	defer scores.Close()
	app.Scores = scores

	app.GameOver(12.5, engine.Stats{Ticks: 750, Bounces: 3, Taps: 2})
	app.GameOver(4, engine.Stats{Ticks: 240})

	m := NewScoreboardModel(app, 80, 24)
	if len(m.rows) != 2 || m.rows[0][2] != "0:12" {
		t.Errorf("mine rows = %v", m.rows)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.tab != tabServer {
		t.Fatalf("tab = %d, expected server", m.tab)
	}
	if len(m.rows) != 2 || m.rows[0][1] != profile.DefaultCharacter || m.rows[1][2] != "0:04" {
		t.Errorf("server rows = %v", m.rows)
	}

	sessions, err := scores.TopScores(10)
	if err != nil {
		t.Fatal(err)
	}
	if sessions[0].Bounces != 3 || sessions[0].Taps != 2 {
		t.Errorf("stored session = %+v", sessions[0])
	}

	next, _ = m.Update(runeKey("b"))
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("expected back")
	}
}

func TestScoreboardWithoutHistory(t *testing.T) {
	app := testApp(t, nil)
	m := NewScoreboardModel(app, 80, 24)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if !strings.Contains(m.View(), "No shared history") {
		t.Error("expected the no-history message on the server tab")
	}
}

func TestSanitizeUser(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"pam", "pam"},
		{"jim.halpert", "jim.halpert"},
		{"../etc/passwd", "_etc_passwd"},
		{"a b/c", "a_b_c"},
		{"", "anonymous"},
		{"..", "anonymous"},
	}
	for _, tc := range tests {
		if got := sanitizeUser(tc.in); got != tc.want {
			t.Errorf("sanitizeUser(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestSameUserSessionsShareProfile(t *testing.T) {
	cfg := config.DefaultGameConfig()
	logger := log.New(&bytes.Buffer{})
	srv := &SSHServer{
		config: SSHServerConfig{ProfilesDir: t.TempDir()},
		game:   cfg,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}

	a := NewApp(cfg, rt, srv.profileStore("alice"), nil, logger)
	b := NewApp(cfg, rt, srv.profileStore("alice"), nil, logger)

	a.GameOver(30, engine.Stats{})
	out := b.GameOver(10, engine.Stats{})

	if out.NewBest || out.Best != 30 || out.Rank != 2 {
		t.Errorf("second session outcome = %+v", out)
	}
	got := srv.profileStore("alice").Load()
	if got.GamesPlayed != 2 || got.BestScore != 30 || len(got.Records) != 2 {
		t.Errorf("stored = games %d best %v records %d; expected 2, 30, 2",
			got.GamesPlayed, got.BestScore, len(got.Records))
	}
	if len(srv.locks) != 1 {
		t.Errorf("expected one lock per profile file, got %d", len(srv.locks))
	}
}
