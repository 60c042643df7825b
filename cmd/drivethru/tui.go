package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/ottokiosk/otto-core/core"
	"github.com/ottokiosk/otto-core/core/menu"
)

type statusMsg orchestration.Status

type transcriptMsg string

type resetMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	menuPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))

	transcriptPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Faint(true)

	statusStyles = map[orchestration.Status]lipgloss.Style{
		orchestration.StatusIdle:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
		orchestration.StatusListening:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		orchestration.StatusProcessing: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		orchestration.StatusCompleted:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	}
)

const menuPanelWidth = 34

type kioskModel struct {
	catalog  *menu.Catalog
	presence *simulatedPresence

	status     orchestration.Status
	transcript []string
	viewport   viewport.Model
	ready      bool
	width      int
	height     int
}

func newKioskModel(catalog *menu.Catalog, presence *simulatedPresence) kioskModel {
	return kioskModel{
		catalog:  catalog,
		presence: presence,
		status:   orchestration.StatusIdle,
	}
}

func (m kioskModel) Init() tea.Cmd {
	return nil
}

func (m kioskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p":
			m.presence.togglePresent()
		case "n":
			m.presence.presentNewFace()
		case "a":
			m.presence.setPresent(false)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		transcriptWidth := max(msg.Width-menuPanelWidth-6, 20)
		transcriptHeight := max(msg.Height-5, 5)
		if !m.ready {
			m.viewport = viewport.New(transcriptWidth, transcriptHeight)
			m.ready = true
		} else {
			m.viewport.Width = transcriptWidth
			m.viewport.Height = transcriptHeight
		}
		m.refreshTranscript()

	case statusMsg:
		m.status = orchestration.Status(msg)

	case transcriptMsg:
		m.transcript = append(m.transcript, string(msg))
		m.refreshTranscript()

	case resetMsg:
		m.transcript = nil
		m.status = orchestration.StatusIdle
		m.refreshTranscript()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *kioskModel) refreshTranscript() {
	if !m.ready {
		return
	}
	wrapped := wordwrap.String(strings.Join(m.transcript, "\n"), m.viewport.Width)
	m.viewport.SetContent(wrapped)
	m.viewport.GotoBottom()
}

func (m kioskModel) View() string {
	if !m.ready {
		return "starting..."
	}

	statusStyle, ok := statusStyles[m.status]
	if !ok {
		statusStyle = titleStyle
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("Otto Drive-Thru"),
		statusStyle.Render(fmt.Sprintf("[ %s ]", m.status)),
	)

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		menuPanelStyle.Width(menuPanelWidth).Render(m.renderMenu()),
		transcriptPanelStyle.Render(m.viewport.View()),
	)

	help := helpStyle.Render("p: toggle customer  n: new customer  a: walk away  q: quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, panels, help)
}

func (m kioskModel) renderMenu() string {
	var b strings.Builder
	for i, section := range m.catalog.Sections() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(section.Name))
		b.WriteString("\n")
		for _, item := range section.Items {
			b.WriteString(fmt.Sprintf("  %-20s $%.2f\n", item.Name, item.Price))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
