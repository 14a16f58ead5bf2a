package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/crisislens/gdacs-viewer/internal/geocode"
	"github.com/crisislens/gdacs-viewer/internal/models"
)

type keyMap struct {
	Next     key.Binding
	Previous key.Binding
	OpenLink key.Binding
	Borders  key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("▶", "next event"),
		),
		Previous: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("◀", "previous event"),
		),
		OpenLink: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "open official report"),
		),
		Borders: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle border visibility"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "terminate EventViewer"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.OpenLink, k.Borders, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Previous, k.Next}, {k.OpenLink, k.Borders, k.Quit}}
}

// Model is the Bubble Tea program around a Nav. All panels re-render from
// the navigation state after every accepted command; the border flag is
// renderer state that Nav only forwards commands for.
type Model struct {
	nav    *Nav
	keys   keyMap
	help   help.Model
	styles styles

	width       int
	height      int
	showBorders bool
}

// New builds the viewer over a non-empty navigation state. openLink receives
// the report URL when the user presses the open-report key; pass nil to
// ignore those commands.
func New(nav *Nav, appearance Appearance, openLink func(url string)) Model {
	if openLink != nil {
		nav.OnOpenLink(openLink)
	}
	return Model{
		nav:         nav,
		keys:        defaultKeyMap(),
		help:        help.New(),
		styles:      newStyles(appearance),
		showBorders: true,
	}
}

// Index exposes the cursor position, mainly for tests and the window title.
func (m Model) Index() int { return m.nav.Index() }

// BordersVisible reports the renderer-owned border flag.
func (m Model) BordersVisible() bool { return m.showBorders }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.nav.Apply(CommandQuit)
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.nav.Apply(CommandNext)
		case key.Matches(msg, m.keys.Previous):
			m.nav.Apply(CommandPrevious)
		case key.Matches(msg, m.keys.OpenLink):
			m.nav.Apply(CommandOpenLink)
		case key.Matches(msg, m.keys.Borders):
			if m.nav.Apply(CommandToggleBorders) {
				m.showBorders = !m.showBorders
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	event := m.nav.Current()

	title := m.styles.Title.Render(
		fmt.Sprintf("EventViewer (%d/%d)", m.nav.Index()+1, m.nav.Len()))

	contentWidth := m.width
	if contentWidth <= 0 {
		contentWidth = 80
	}
	mapWidth := contentWidth * 2 / 5
	infoWidth := contentWidth - mapWidth - 6
	if mapWidth < 20 {
		mapWidth = 20
	}
	if infoWidth < 30 {
		infoWidth = 30
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.mapPanel(event, mapWidth),
		m.flagPanel(event, mapWidth),
		m.styles.IDLabel.Render(fmt.Sprintf("%s %s", event.Category, event.FormattedID())),
	)
	right := m.infoPanel(event, infoWidth)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		body,
		m.help.View(m.keys),
	)
}

// mapPanel is the textual stand-in for the original globe projection: the
// event marker with its hemisphere coordinates. Toggling borders switches
// the panel frame, the closest terminal analogue to country border overlays.
func (m Model) mapPanel(event models.Event, width int) string {
	lat, lon := geocode.FormatCoords(event.Latitude, event.Longitude)

	marker := alertStyle(event.AlertLevel).Render("✛")
	lines := []string{
		"",
		lipgloss.PlaceHorizontal(width, lipgloss.Center, marker),
		lipgloss.PlaceHorizontal(width, lipgloss.Center,
			m.styles.Muted.Render(fmt.Sprintf("(%s, %s)", lat, lon))),
		"",
	}

	frame := m.styles.NoBorder
	if m.showBorders {
		frame = m.styles.Panel
	}
	return frame.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) infoPanel(event models.Event, width int) string {
	sections := []string{
		lipgloss.PlaceHorizontal(width, lipgloss.Center,
			m.styles.Category.Render(event.Category.Name())),
		lipgloss.PlaceHorizontal(width, lipgloss.Center,
			alertStyle(event.AlertLevel).Render(event.AlertLevel+" alert")),
		lipgloss.PlaceHorizontal(width, lipgloss.Center,
			m.styles.Muted.Render(event.DateString())),
		"",
		m.styles.Muted.Bold(true).Render("Severity"),
		m.styles.Box.Width(width - 4).Render(event.Severity),
		m.styles.Box.Width(width - 4).Render(
			fmt.Sprintf("%d people affected", event.Population)),
	}

	if others := event.OtherCountries(); len(others) > 0 {
		sections = append(sections,
			m.styles.Box.Width(width-4).Render(
				"Other countries affected:\n"+strings.Join(others, ", ")))
	}

	return m.styles.Panel.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) flagPanel(event models.Event, width int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Country.Render(event.PrimaryCountry()),
		m.styles.Muted.Render(event.ISO2),
	)
	return m.styles.Panel.Width(width).Render(
		lipgloss.PlaceHorizontal(width-2, lipgloss.Center, content))
}
