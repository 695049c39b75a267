package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/dvd-bounce/internal/profile"
)

const (
	settingSound = iota
	settingSpeed
	settingCount
)

// SettingsModel edits the sound and speed preferences. Every change is saved.
type SettingsModel struct {
	app       *App
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	done      bool
	quitting  bool
	err       error
}

// NewSettingsModel creates the settings screen.
func NewSettingsModel(app *App, width, height int) SettingsModel {
	return SettingsModel{
		app:       app,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init implements tea.Model.
func (m SettingsModel) Init() tea.Cmd { return nil }

// Update handles navigation and value changes.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit:
			m.quitting = true
		case MenuActionBack:
			m.done = true
		case MenuActionUp:
			m.cursor = (m.cursor + settingCount - 1) % settingCount
		case MenuActionDown:
			m.cursor = (m.cursor + 1) % settingCount
		case MenuActionLeft:
			m.err = m.change(-1)
		case MenuActionRight, MenuActionSelect:
			m.err = m.change(1)
		}
	}
	return m, nil
}

// change cycles the value under the cursor by step.
func (m SettingsModel) change(step int) error {
	return m.app.UpdateProfile(func(p profile.Profile) (profile.Profile, error) {
		switch m.cursor {
		case settingSound:
			return profile.SetSoundEnabled(p, !p.SoundEnabled), nil
		case settingSpeed:
			i := max(slices.Index(profile.SpeedLabels, string(p.Speed)), 0)
			n := len(profile.SpeedLabels)
			return profile.SetSpeed(p, profile.SpeedLabels[(i+step+n)%n])
		}
		return p, nil
	})
}

// View renders the settings.
func (m SettingsModel) View() string {
	p := m.app.Profile()
	sound := "off"
	if p.SoundEnabled {
		sound = "on"
	}
	rows := []string{
		fmt.Sprintf("Sound   < %s >", sound),
		fmt.Sprintf("Speed   < %s >", p.Speed),
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SETTINGS"), m.width))
	b.WriteString("\n\n")
	for i, row := range rows {
		line := "  " + row
		if i == m.cursor {
			line = activeStyle.Render("> " + row)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(centerText(alertStyle.Render("not saved: "+m.err.Error()), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("Left/Right: change  |  Esc/B: back"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Done reports whether the screen should close.
func (m SettingsModel) Done() bool { return m.done }

// IsQuitting returns true if user requested to quit entirely.
func (m SettingsModel) IsQuitting() bool { return m.quitting }
