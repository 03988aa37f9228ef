package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-hunter/internal/config"
	"github.com/vovakirdan/tui-hunter/internal/present"
	"github.com/vovakirdan/tui-hunter/internal/stats"
	"github.com/vovakirdan/tui-hunter/internal/storage"
)

// Achievements view layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the page sidebar
	sidebarWidth       = 20  // Width of page sidebar
	maxEntries         = 100 // Max leaderboard entries to load
)

// LeaderboardSource reads ranked leaderboard entries.
type LeaderboardSource interface {
	TopEntries(appID uint32, board string, ascending bool, limit int) ([]storage.LeaderboardEntry, error)
}

// AchievementsKeyMap defines the key bindings for the achievements view.
type AchievementsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k AchievementsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPage, k.PrevPage, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k AchievementsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage},
		{k.Back, k.Quit},
	}
}

// DefaultAchievementsKeyMap returns default key bindings.
func DefaultAchievementsKeyMap() AchievementsKeyMap {
	return AchievementsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev page"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev page"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// AchievementsModel shows the player's achievements on the first page and
// one leaderboard per following page.
type AchievementsModel struct {
	user        string
	snapshot    stats.Snapshot
	boards      []config.LeaderboardDef
	appID       uint32
	source      LeaderboardSource
	page        int // 0 is the achievements page
	entries     []storage.LeaderboardEntry
	rows        []table.Row
	loadErr     error
	table       table.Model
	help        help.Model
	keys        AchievementsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewAchievementsModel creates the view. source may be nil, which leaves
// the leaderboard pages empty.
func NewAchievementsModel(user string, snap stats.Snapshot, cfg config.Config, source LeaderboardSource, width, height int) AchievementsModel {
	h := help.New()
	h.ShowAll = false

	m := AchievementsModel{
		user:        user,
		snapshot:    snap,
		boards:      cfg.Leaderboards,
		appID:       cfg.Platform.AppID,
		source:      source,
		keys:        DefaultAchievementsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.loadPage()
	return m
}

// pageCount is the achievements page plus one page per leaderboard.
func (m *AchievementsModel) pageCount() int {
	return 1 + len(m.boards)
}

func (m *AchievementsModel) pageTitle(page int) string {
	if page == 0 {
		return "Achievements"
	}
	return m.boards[page-1].Name
}

// createTable builds a table with the columns of the current page.
func (m *AchievementsModel) createTable() table.Model {
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}

	var columns []table.Column
	if m.page == 0 {
		columns = []table.Column{
			{Title: "ID", Width: 22},
			{Title: "Name", Width: 14},
			{Title: "Achieved", Width: 9},
		}
	} else {
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: 14},
			{Title: "Score", Width: 10},
			{Title: "Date", Width: 14},
		}
		if tableWidth > 50 {
			columns[1].Width = min(tableWidth-34, 24)
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, summary and help
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

// loadPage rebuilds the table for the current page.
func (m *AchievementsModel) loadPage() {
	m.entries = nil
	m.loadErr = nil

	if m.page == 0 {
		m.rows = achievementRows(m.snapshot)
	} else {
		def := m.boards[m.page-1]
		if m.source != nil {
			m.entries, m.loadErr = m.source.TopEntries(m.appID, def.Name, def.Ascending, maxEntries)
		}
		m.rows = leaderboardRows(m.entries)
	}

	m.table = m.createTable()
	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

func achievementRows(snap stats.Snapshot) []table.Row {
	if snap.State != stats.StateActive {
		return nil
	}
	rows := make([]table.Row, len(snap.Achievements))
	for i, a := range snap.Achievements {
		achieved := "-"
		if a.Achieved {
			achieved = "yes"
		}
		rows[i] = table.Row{a.ID.String(), a.Name, achieved}
	}
	return rows
}

func leaderboardRows(entries []storage.LeaderboardEntry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			e.User,
			fmt.Sprintf("%d", e.Score),
			e.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the achievements model.
func (m AchievementsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the achievements view.
func (m AchievementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextPage), key.Matches(msg, m.keys.Right):
			m.page = (m.page + 1) % m.pageCount()
			m.loadPage()
			return m, nil

		case key.Matches(msg, m.keys.PrevPage), key.Matches(msg, m.keys.Left):
			m.page--
			if m.page < 0 {
				m.page = m.pageCount() - 1
			}
			m.loadPage()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the achievements view.
func (m AchievementsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := strings.ToUpper(m.pageTitle(m.page))
	if m.page == 0 && m.user != "" {
		title = fmt.Sprintf("%s - %s", title, m.user)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(m.summary(), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// summary is the counters line shown under the title.
func (m AchievementsModel) summary() string {
	if msg, ok := present.StatusMessage(m.snapshot); ok {
		return msg
	}
	if m.snapshot.State != stats.StateActive {
		return "Stats not loaded"
	}
	c := m.snapshot.Counters
	return fmt.Sprintf("Games: %d  Wins: %d  Losses: %d  Feet: %.0f", c.GamesPlayed, c.Wins, c.Losses, c.FeetTraveled)
}

// renderWideLayout renders the view with the page list on the left.
func (m AchievementsModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Pages\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i := range m.pageCount() {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.page {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := m.pageTitle(i)
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the view with the page name above the table.
func (m AchievementsModel) renderNarrowLayout() string {
	var b strings.Builder

	b.WriteString(centerText(fmt.Sprintf("< %s >", m.pageTitle(m.page)), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))
	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m AchievementsModel) renderTableContent() string {
	if len(m.rows) > 0 {
		return m.table.View()
	}

	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load leaderboard:\n" + m.loadErr.Error())
	case m.page == 0:
		return emptyStyle.Render("Achievements are not available.\nStart the platform client and try again.")
	default:
		return emptyStyle.Render("No entries yet.\nFinish a round to get on the board!")
	}
}

// Rows returns the rows on the current page.
func (m AchievementsModel) Rows() []table.Row {
	return m.rows
}

// Page returns the index of the current page.
func (m AchievementsModel) Page() int {
	return m.page
}

// IsGoingBack returns true if user wants to go back to menu.
func (m AchievementsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m AchievementsModel) IsQuitting() bool {
	return m.quitting
}

// RunAchievements runs the achievements view.
// Returns true if user wants to go back to menu, false if quitting.
func RunAchievements(user string, snap stats.Snapshot, cfg config.Config, source LeaderboardSource, width, height int) (goBack bool, err error) {
	model := NewAchievementsModel(user, snap, cfg, source, width, height)

	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(AchievementsModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
