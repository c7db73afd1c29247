package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/storage"
)

// maxReplays caps how many rows the browser loads.
const maxReplays = 100

// ReplayBrowserKeyMap defines the key bindings for the replay browser.
type ReplayBrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplayBrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ReplayBrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Select, k.Quit}}
}

// DefaultReplayBrowserKeyMap returns default key bindings.
func DefaultReplayBrowserKeyMap() ReplayBrowserKeyMap {
	return ReplayBrowserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "replay"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReplayBrowser is the Bubble Tea model listing saved replays.
type ReplayBrowser struct {
	store    *storage.Store
	replays  []storage.ReplayRecord
	loadErr  error
	selected *storage.ReplayRecord
	table    table.Model
	help     help.Model
	keys     ReplayBrowserKeyMap
	width    int
	height   int
	quitting bool
}

// NewReplayBrowser creates a browser showing the most recent replays.
func NewReplayBrowser(store *storage.Store, width, height int) ReplayBrowser {
	m := ReplayBrowser{
		store:  store,
		keys:   DefaultReplayBrowserKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ReplayBrowser) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Lines", Width: 6},
		{Title: "Result", Width: 9},
		{Title: "Seed", Width: 20},
		{Title: "Session", Width: 10},
		{Title: "Date", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load fetches the newest replays.
func (m *ReplayBrowser) load() {
	m.replays, m.loadErr = nil, nil
	if m.store != nil {
		m.replays, m.loadErr = m.store.RecentReplays(maxReplays)
	}

	rows := make([]table.Row, len(m.replays))
	for i, r := range m.replays {
		result := "quit"
		if r.GameOver {
			result = "game over"
		}
		session := r.Session
		if len(session) > 8 {
			session = session[:8]
		}
		rows[i] = table.Row{
			r.ID.String()[:8],
			fmt.Sprintf("%d", r.Lines),
			result,
			fmt.Sprintf("%d", r.Seed),
			session,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the browser.
func (m ReplayBrowser) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m ReplayBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if i := m.table.Cursor(); i >= 0 && i < len(m.replays) {
				r := m.replays[i]
				m.selected = &r
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(m.height-8, 3))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m ReplayBrowser) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(fmt.Sprintf("REPLAYS (%d)", len(m.replays))))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case m.loadErr != nil:
		b.WriteString(tableStyle.Render("cannot load replays: " + m.loadErr.Error()))
	case len(m.replays) == 0:
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(tableStyle.Render(emptyStyle.Render("No replays recorded yet.\nFinish a game to save one!")))
	default:
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Selected returns the replay chosen with enter, or nil.
func (m ReplayBrowser) Selected() *storage.ReplayRecord {
	return m.selected
}

// RunReplayBrowser shows the browser and returns the chosen replay, or nil
// if the user quit.
func RunReplayBrowser(store *storage.Store, width, height int) (*storage.ReplayRecord, error) {
	p := tea.NewProgram(NewReplayBrowser(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(ReplayBrowser)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}
