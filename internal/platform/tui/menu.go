package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/dvd-bounce/internal/profile"
)

// MenuChoice identifies the screen picked in the main menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceProfile
	ChoiceRecords
	ChoiceSettings
	ChoiceQuit
)

// MenuItem is one line of the main menu.
type MenuItem struct {
	Choice MenuChoice
	Title  string
}

var menuItems = []MenuItem{
	{ChoicePlay, "Play"},
	{ChoiceProfile, "Profile"},
	{ChoiceRecords, "Records"},
	{ChoiceSettings, "Settings"},
	{ChoiceQuit, "Quit"},
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	app       *App
	items     []MenuItem
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selected  MenuChoice
}

// NewMenuModel creates a new menu model.
func NewMenuModel(app *App, width, height int) MenuModel {
	return MenuModel{
		app:       app,
		items:     menuItems,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.selected = ChoiceQuit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		m.selected = m.items[m.cursor].Choice
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  D V D   B O U N C E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(dimStyle.Render("Keep the box out of the corners"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = activeStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, line := range profileSummary(m.app.Profile()) {
		b.WriteString(centerText(dimStyle.Render(line), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Q: Quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the picked menu entry, or ChoiceNone.
func (m MenuModel) Selected() MenuChoice {
	return m.selected
}

func profileSummary(p profile.Profile) []string {
	sound := "off"
	if p.SoundEnabled {
		sound = "on"
	}
	return []string{
		fmt.Sprintf("%s  |  best %s  |  games %d  |  total %s",
			p.Name, profile.FormatTime(p.BestScore), p.GamesPlayed, profile.FormatTime(p.TotalTime)),
		fmt.Sprintf("sound %s  |  speed %s", sound, p.Speed),
	}
}
