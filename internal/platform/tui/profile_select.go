package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/dvd-bounce/internal/profile"
)

// ProfileModel lets the player pick a character.
type ProfileModel struct {
	app       *App
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	done      bool
	quitting  bool
	err       error
}

// NewProfileModel creates the character picker, positioned on the current character.
func NewProfileModel(app *App, width, height int) ProfileModel {
	return ProfileModel{
		app:       app,
		cursor:    max(slices.Index(profile.Characters, app.Profile().Name), 0),
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init implements tea.Model.
func (m ProfileModel) Init() tea.Cmd { return nil }

// Update handles navigation and selection.
func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.cursor > 0 {
				m.cursor--
			}
		case MenuActionDown:
			if m.cursor < len(profile.Characters)-1 {
				m.cursor++
			}
		case MenuActionSelect:
			name := profile.Characters[m.cursor]
			m.err = m.app.UpdateProfile(func(p profile.Profile) (profile.Profile, error) {
				return profile.SetName(p, name)
			})
			m.done = m.err == nil
		}
	}
	return m, nil
}

// View renders the character list.
func (m ProfileModel) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("CHOOSE YOUR CHARACTER"), m.width))
	b.WriteString("\n\n")

	current := m.app.Profile().Name
	for i, name := range profile.Characters {
		mark := "  "
		if name == current {
			mark = "* "
		}
		line := "  " + mark + name
		if i == m.cursor {
			line = activeStyle.Render("> " + mark + name)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(centerText(alertStyle.Render(m.err.Error()), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("Enter: choose  |  Esc/B: back"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Done reports whether the screen should close.
func (m ProfileModel) Done() bool { return m.done }

// IsQuitting returns true if user requested to quit entirely.
func (m ProfileModel) IsQuitting() bool { return m.quitting }
