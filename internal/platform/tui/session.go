package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenProfile
	screenSettings
	screenRecords
)

// SessionModel manages the full session flow: menu -> game -> menu, plus
// the profile, settings and records screens. It is the top-level model for
// both local and SSH sessions.
type SessionModel struct {
	app      *App
	width    int
	height   int
	current  screen
	menu     MenuModel
	game     *GameModel
	profile  ProfileModel
	settings SettingsModel
	records  ScoreboardModel
	quitting bool
}

// NewSessionModel creates a new session model on the main menu, or in a
// running game when app.SkipMenu is set.
func NewSessionModel(app *App) SessionModel {
	w, h := app.Runtime.ScreenW, app.Runtime.ScreenH
	m := SessionModel{
		app:    app,
		width:  w,
		height: h,
		menu:   NewMenuModel(app, w, h),
	}
	if app.SkipMenu {
		game := NewGameModel(app, w, h)
		m.game = &game
		m.current = screenGame
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.current == screenGame {
		return m.game.Init()
	}
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.current {
	case screenGame:
		return m.updateGame(msg)
	case screenProfile:
		next, _ := m.profile.Update(msg)
		m.profile = next.(ProfileModel)
		return m.afterChild(m.profile.Done(), m.profile.IsQuitting())
	case screenSettings:
		next, _ := m.settings.Update(msg)
		m.settings = next.(SettingsModel)
		return m.afterChild(m.settings.Done(), m.settings.IsQuitting())
	case screenRecords:
		next, cmd := m.records.Update(msg)
		m.records = next.(ScoreboardModel)
		if m.records.IsGoingBack() || m.records.IsQuitting() {
			return m.afterChild(m.records.IsGoingBack(), m.records.IsQuitting())
		}
		return m, cmd
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch m.menu.Selected() {
	case ChoiceQuit:
		m.quitting = true
		return m, tea.Quit
	case ChoicePlay:
		game := NewGameModel(m.app, m.width, m.height)
		m.game = &game
		m.current = screenGame
		return m, m.game.Init()
	case ChoiceProfile:
		m.profile = NewProfileModel(m.app, m.width, m.height)
		m.current = screenProfile
	case ChoiceSettings:
		m.settings = NewSettingsModel(m.app, m.width, m.height)
		m.current = screenSettings
	case ChoiceRecords:
		m.records = NewScoreboardModel(m.app, m.width, m.height)
		m.current = screenRecords
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	game := next.(GameModel)
	m.game = &game

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		m.game = nil
		return m.toMenu()
	}
	return m, cmd
}

// afterChild returns to the menu or quits once a sub-screen is finished.
func (m SessionModel) afterChild(done, quit bool) (tea.Model, tea.Cmd) {
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	if done {
		return m.toMenu()
	}
	return m, nil
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.current = screenMenu
	m.menu = NewMenuModel(m.app, m.width, m.height)
	return m, m.menu.Init()
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case screenGame:
		return m.game.View()
	case screenProfile:
		return m.profile.View()
	case screenSettings:
		return m.settings.View()
	case screenRecords:
		return m.records.View()
	default:
		return m.menu.View()
	}
}

// Run starts a local Bubble Tea program with mouse support.
func Run(app *App) error {
	p := tea.NewProgram(
		NewSessionModel(app),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
