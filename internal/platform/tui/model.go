package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/dvd-bounce/internal/core"
	"github.com/vovakirdan/dvd-bounce/internal/engine"
	"github.com/vovakirdan/dvd-bounce/internal/profile"
)

// publishEvery throttles spectator updates to a few per second.
const publishEvery = 6

// Rows around the arena buffer: the HUD line above and the help line below.
const (
	hudRows    = 1
	footerRows = 1
)

// GameModel runs one engine session plus its game-over screen.
type GameModel struct {
	app        *App
	engine     *engine.Engine
	screen     *core.Screen
	view       ArenaView
	keyMapper  *KeyMapper
	sessionID  string
	width      int
	height     int
	lastTick   time.Time
	ticks      int
	outcome    *Outcome // Set by the engine listener when the session ends
	err        error
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game screen for the app's current profile.
func NewGameModel(app *App, width, height int) GameModel {
	opts := []engine.Option{}
	if app.Runtime.Seed != 0 {
		opts = append(opts, engine.WithSeed(app.Runtime.Seed))
	}
	eng := engine.New(app.Config.EngineConfig(), opts...)

	m := GameModel{
		app:       app,
		engine:    eng,
		keyMapper: NewKeyMapper(),
		sessionID: fmt.Sprintf("%s-%d", app.User, time.Now().UnixNano()),
		outcome:   &Outcome{},
	}
	m = m.resize(width, height)

	outcome := m.outcome
	eng.SetListener(engine.ListenerFuncs{
		OnGameOver: func(score float64) {
			*outcome = app.GameOver(score, eng.Stats())
		},
	})
	m.err = m.start()
	return m
}

func (m GameModel) start() error {
	*m.outcome = Outcome{}
	err := m.engine.Start(m.app.Config.EngineArena(), m.app.Config.Box.Size, m.app.Speed())
	if err != nil {
		m.app.Logger.Error("cannot start session", "err", err)
	}
	return err
}

func (m GameModel) resize(width, height int) GameModel {
	m.width = width
	m.height = height
	rows := core.Max(height-hudRows-footerRows, 0)
	if m.screen == nil {
		m.screen = core.NewScreen(width, rows)
	} else {
		m.screen.Resize(width, rows)
	}
	m.view = NewArenaView(m.app.Config.EngineArena(), width, rows)
	return m
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.sessionID, m.app.Config.Timing.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil
	case TickMsg:
		if msg.Session != m.sessionID {
			return m, nil
		}
		return m.handleTick(msg.At)
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionPause:
		m.engine.TogglePause()
	case core.ActionTap:
		m.engine.HandleTap(m.engine.Box().Center())
	case core.ActionBack:
		m.leave()
		m.backToMenu = true
	case core.ActionRestart, core.ActionConfirm:
		if m.engine.Status() == engine.StatusEnded {
			m.err = m.start()
			m.lastTick = time.Time{}
		}
	}
	return m, nil
}

func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.engine.Status() != engine.StatusRunning || !m.view.Fits() {
		return m, nil
	}
	p, ok := m.view.TapPoint(msg.X, msg.Y-hudRows, m.engine.Box().Center())
	if ok {
		m.engine.HandleTap(p)
	}
	return m, nil
}

func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	dt := time.Second / time.Duration(core.Max(m.app.Config.Timing.TickRate, 1))
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick)
	}
	m.lastTick = now

	m.ticks++
	switch m.engine.Status() {
	case engine.StatusRunning:
		res := m.engine.Tick(dt)
		if m.ticks%publishEvery == 0 || res.Events.GameOver {
			m.publish()
		}
	case engine.StatusPaused:
		if m.ticks%publishEvery == 0 {
			m.publish()
		}
	}

	return m, tickCmd(m.sessionID, m.app.Config.Timing.TickRate)
}

func (m GameModel) publish() {
	if m.app.Publisher == nil {
		return
	}
	m.app.Publisher.Publish(m.sessionID, m.app.Profile().Name, m.engine.Snapshot())
}

// leave ends the session without recording it.
func (m GameModel) leave() {
	m.engine.Stop()
	if m.app.Publisher != nil {
		m.app.Publisher.Remove(m.sessionID)
	}
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return centerText(alertStyle.Render("cannot start: "+m.err.Error()), m.width) +
			"\n\n" + centerText(dimStyle.Render("B: menu  Q: quit"), m.width)
	}
	if !m.view.Fits() {
		return centerText("Terminal too small", m.width)
	}

	if m.engine.Status() == engine.StatusEnded {
		return m.gameOverView()
	}

	m.view.Draw(m.screen, m.engine.Box(), m.engine.CornerDanger(), m.app.Config.Danger.Radius, m.app.Config.Colors())
	if m.engine.Status() == engine.StatusPaused {
		m.screen.DrawTextCentered(m.screen.Height()/2, " PAUSED ")
	}

	var b strings.Builder
	b.WriteString(m.hud())
	b.WriteString("\n")
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("click/space: tap the box  p: pause  b: menu  q: quit"))
	return b.String()
}

func (m GameModel) hud() string {
	p := m.app.Profile()
	left := titleStyle.Render("⏱ " + profile.FormatTime(m.engine.CurrentScore()))
	right := dimStyle.Render(fmt.Sprintf("%s  best %s", p.Name, profile.FormatTime(p.BestScore)))

	for _, c := range m.engine.CornerDanger() {
		if c.Proximity >= 0.5 {
			left += "  " + alertStyle.Render("CORNER!")
			break
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m GameModel) gameOverView() string {
	o := *m.outcome
	lines := []string{
		alertStyle.Render("G A M E   O V E R"),
		"",
		titleStyle.Render("Time  " + profile.FormatTime(o.Score)),
		"Best  " + profile.FormatTime(o.Best),
	}
	if o.NewBest {
		lines = append(lines, "", activeStyle.Render("New personal best!"))
	}
	if o.Rank > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("Leaderboard position #%d", o.Rank)))
	}
	lines = append(lines, "", dimStyle.Render("R: play again  B: menu  Q: quit"))

	var b strings.Builder
	top := core.Max((m.height-len(lines))/2, 0)
	b.WriteString(strings.Repeat("\n", top))
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

// Outcome returns the result of the last finished session.
func (m GameModel) Outcome() Outcome {
	return *m.outcome
}

// Engine exposes the running engine.
func (m GameModel) Engine() *engine.Engine {
	return m.engine
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
