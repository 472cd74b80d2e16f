package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/regionshade/internal/colormat"
	"github.com/example/regionshade/internal/ipc"
	"github.com/example/regionshade/internal/slots"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	cursorRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("236"))

	emptySlotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
)

// model is the root bubbletea model for the slot browser.
type model struct {
	store  *slots.Store
	client *ipc.Client

	cursor    int
	lastError string
	statusMsg string

	daemonConnected bool
	daemonState     string

	// Edit mode
	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fInvert    bool
	fGrayscale bool
	fGrayLevel string

	width  int
	height int
}

func newModel(store *slots.Store, client *ipc.Client) model {
	m := model{
		store:  store,
		client: client,
		cursor: 1,
	}
	m.refreshDaemonStatus()
	return m
}

func (m *model) refreshDaemonStatus() {
	status, err := m.client.Status()
	if err != nil {
		m.daemonConnected = false
		m.daemonState = ""
		return
	}
	m.daemonConnected = true
	m.daemonState = status.SelectionState
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			m.cursor = (m.cursor - 1 + slots.NumSlots) % slots.NumSlots

		case "down", "j":
			m.cursor = (m.cursor + 1) % slots.NumSlots

		case "enter":
			m.loadCurrent()

		case "d":
			m.deleteCurrent()

		case "e":
			if m.store.IsValid(m.cursor) {
				m.startEditing()
				return m, m.form.Init()
			}
			m.lastError = fmt.Sprintf("slot %d is empty", m.cursor)

		case "r":
			if err := m.store.Load(); err != nil {
				m.lastError = err.Error()
			} else {
				m.statusMsg = "reloaded"
				m.lastError = ""
			}
			m.refreshDaemonStatus()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.editing = false
			m.form = nil
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.applyForm()
		m.editing = false
		m.form = nil
		return m, nil
	}

	return m, cmd
}

func (m *model) startEditing() {
	entry := m.store.Get(m.cursor)
	m.fInvert = entry.Settings.InvertEnabled
	m.fGrayscale = entry.Settings.GrayscaleEnabled
	m.fGrayLevel = strconv.Itoa(entry.Settings.GrayLevel)

	levelOpts := make([]huh.Option[string], 0, colormat.GrayLevels)
	for level := 0; level < colormat.GrayLevels; level++ {
		s := colormat.Settings{GrayLevel: level}
		label := fmt.Sprintf("%d (%d%% brightness)", level, s.BrightnessPercent())
		levelOpts = append(levelOpts, huh.NewOption(label, strconv.Itoa(level)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Invert colors").
				Value(&m.fInvert),
			huh.NewConfirm().
				Title("Grayscale").
				Value(&m.fGrayscale),
			huh.NewSelect[string]().
				Title("Brightness level").
				Options(levelOpts...).
				Value(&m.fGrayLevel),
		),
	)
	m.editing = true
}

func (m *model) applyForm() {
	entry := m.store.Get(m.cursor)

	entry.Settings.InvertEnabled = m.fInvert
	entry.Settings.GrayscaleEnabled = m.fGrayscale
	if level, err := strconv.Atoi(m.fGrayLevel); err == nil && level >= 0 && level < colormat.GrayLevels {
		entry.Settings.GrayLevel = level
	}

	m.store.Set(m.cursor, entry)
	if err := m.store.SavePreservingExisting(); err != nil {
		m.lastError = err.Error()
		return
	}
	m.lastError = ""
	m.statusMsg = fmt.Sprintf("slot %d updated", m.cursor)
}

func (m *model) loadCurrent() {
	if !m.store.IsValid(m.cursor) {
		m.lastError = fmt.Sprintf("slot %d is empty", m.cursor)
		return
	}
	if !m.daemonConnected {
		m.lastError = "daemon not running"
		return
	}
	if err := m.client.LoadSlot(m.cursor); err != nil {
		m.lastError = err.Error()
		return
	}
	m.lastError = ""
	m.statusMsg = fmt.Sprintf("loaded slot %d", m.cursor)
	m.refreshDaemonStatus()
}

func (m *model) deleteCurrent() {
	if !m.store.IsValid(m.cursor) {
		m.lastError = fmt.Sprintf("slot %d is empty", m.cursor)
		return
	}
	m.store.Clear(m.cursor)
	if err := m.store.Save(); err != nil {
		m.lastError = err.Error()
		return
	}
	m.lastError = ""
	m.statusMsg = fmt.Sprintf("slot %d cleared", m.cursor)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.editing && m.form != nil {
		header := titleStyle.Render(fmt.Sprintf("Edit slot %d", m.cursor))
		return lipgloss.JoinVertical(lipgloss.Left, header, m.form.View())
	}

	header := titleStyle.Render("Saved rectangles")
	status := m.renderStatusBar()

	rows := make([]string, 0, slots.NumSlots)
	for i := 0; i < slots.NumSlots; i++ {
		rows = append(rows, m.renderSlotRow(i))
	}
	list := lipgloss.JoinVertical(lipgloss.Left, rows...)

	help := helpBarStyle.Width(m.width).Render(
		"up/down: move  enter: load  e: edit  d: delete  r: reload  q: quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, status, "", list, "", help)
}

func (m model) renderStatusBar() string {
	var status string
	if m.daemonConnected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		status = dot + " daemon connected"
		if m.daemonState != "" {
			status += "  selection:" + m.daemonState
		}
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " daemon not running"
	}

	if m.lastError != "" {
		status += "  error: " + m.lastError
	} else if m.statusMsg != "" {
		status += "  " + m.statusMsg
	}

	return statusBarStyle.Width(m.width).Render(status)
}

func (m model) renderSlotRow(i int) string {
	cursor := "  "
	if i == m.cursor {
		cursor = "> "
	}

	var body string
	entry := m.store.Get(i)
	if !entry.Valid {
		body = emptySlotStyle.Render("(empty)")
	} else {
		s := entry.Settings
		flags := ""
		if s.InvertEnabled {
			flags += " invert"
		}
		if s.GrayscaleEnabled {
			flags += " grayscale"
		}
		body = fmt.Sprintf("%d,%d - %d,%d  %d%%%s",
			entry.Rect.Left, entry.Rect.Top,
			entry.Rect.Right, entry.Rect.Bottom,
			s.BrightnessPercent(), flags)
	}

	row := fmt.Sprintf("%s%d: %s", cursor, i, body)
	if i == m.cursor {
		return cursorRowStyle.Width(m.width).Render(row)
	}
	return row
}
