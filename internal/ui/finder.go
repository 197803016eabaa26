// Package ui is the interactive finder screen.
package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tilefinder/tilefinder/internal/finder"
	"github.com/tilefinder/tilefinder/internal/history"
	"github.com/tilefinder/tilefinder/internal/logging"
)

var uiLog = logging.ForComponent(logging.CompUI)

// Options connects the model to background change sources. All fields are
// optional.
type Options struct {
	// WorldChanges fires after the world was reloaded.
	WorldChanges <-chan struct{}
	// StorageChanges fires when another process changed stored favorites.
	StorageChanges <-chan struct{}
	// ThemeChanges delivers OS dark mode switches.
	ThemeChanges <-chan bool
	// ReloadFavorites re-reads favorites after a StorageChanges signal.
	ReloadFavorites func() error
	// RefreshInterval rescans periodically so moving viewers stay current.
	// Zero disables it.
	RefreshInterval time.Duration
}

type (
	worldChangedMsg   struct{}
	storageChangedMsg struct{}
	themeChangedMsg   bool
	refreshTickMsg    struct{}
)

// Model is the bubbletea model of the finder screen.
type Model struct {
	session *finder.Session
	opts    Options
	keys    KeyMap
	help    help.Model
	input   textinput.Model

	cursor       int
	offset       int
	showMembers  bool
	memberCursor int

	width  int
	height int

	status    string
	statusErr bool

	target *finder.Target
}

// New returns a model driving session.
func New(session *finder.Session, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter by name, or @source"
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Width = 40
	ti.SetValue(session.Query().Filter)
	ti.Focus()

	return Model{
		session: session,
		opts:    opts,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   ti,
	}
}

// Target returns the entry chosen with enter, if any.
func (m Model) Target() (finder.Target, bool) {
	if m.target == nil {
		return finder.Target{}, false
	}
	return *m.target, true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitSignal(m.opts.WorldChanges, worldChangedMsg{}),
		waitSignal(m.opts.StorageChanges, storageChangedMsg{}),
		waitTheme(m.opts.ThemeChanges),
		m.tick(),
	)
}

func waitSignal(ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return msg
	}
}

func waitTheme(ch <-chan bool) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		isDark, ok := <-ch
		if !ok {
			return nil
		}
		return themeChangedMsg(isDark)
	}
}

func (m Model) tick() tea.Cmd {
	if m.opts.RefreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.opts.RefreshInterval, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-8)
		m.clampCursor()
		return m, nil

	case worldChangedMsg:
		m.session.Refresh()
		m.clampCursor()
		return m, waitSignal(m.opts.WorldChanges, worldChangedMsg{})

	case storageChangedMsg:
		if m.opts.ReloadFavorites != nil {
			if err := m.opts.ReloadFavorites(); err != nil {
				m.flashErr(err)
			}
		}
		m.session.Refresh()
		m.clampCursor()
		return m, waitSignal(m.opts.StorageChanges, storageChangedMsg{})

	case themeChangedMsg:
		if msg {
			InitTheme(string(ThemeDark))
		} else {
			InitTheme(string(ThemeLight))
		}
		return m, waitTheme(m.opts.ThemeChanges)

	case refreshTickMsg:
		m.session.Refresh()
		m.clampCursor()
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.statusErr = "", false

	if m.showMembers {
		if handled, cmd := m.handleMemberKey(msg); handled {
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Select):
		m.session.SubmitFilter()
		if len(m.session.Rows()) == 0 {
			return m, nil
		}
		t, err := m.session.SelectEntry(m.cursor)
		if err != nil && !errors.Is(err, finder.ErrNoEntry) {
			uiLog.Warn("select_failed", slog.String("error", err.Error()))
		}
		if err != nil {
			m.flashErr(err)
			return m, nil
		}
		m.target = &t
		return m, tea.Quit

	case key.Matches(msg, m.keys.HistoryPrev):
		m.recall(history.Older)
		return m, nil

	case key.Matches(msg, m.keys.HistoryNext):
		m.recall(history.Newer)
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		if m.session.Complete() {
			m.syncInput()
		}
		return m, nil

	case key.Matches(msg, m.keys.RowDown):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.RowUp):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Favorite):
		added, err := m.session.ToggleFavorite(m.cursor)
		if err != nil {
			return m, nil
		}
		if added {
			m.flash("Added to favorites")
		} else {
			m.flash("Removed from favorites")
		}
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.CycleGroup):
		g := m.session.CycleGroup()
		m.cursor, m.offset = 0, 0
		m.flash("Group: " + g.String())
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		s := m.session.CycleSort()
		m.cursor, m.offset = 0, 0
		m.flash("Sort: " + s.String())
		return m, nil

	case key.Matches(msg, m.keys.RadiusUp):
		m.session.GrowRadius()
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.RadiusDown):
		m.session.ShrinkRadius()
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.session.Refresh()
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.ToggleDetail):
		if len(m.session.Rows()) > 0 {
			m.showMembers, m.memberCursor = true, 0
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.session.SetFilter(m.input.Value())
		m.cursor, m.offset = 0, 0
	}
	return m, cmd
}

// handleMemberKey drives the member list. It reports whether the key was
// consumed.
func (m *Model) handleMemberKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	rows := m.session.Rows()
	if m.cursor >= len(rows) {
		m.showMembers = false
		return false, nil
	}
	members := rows[m.cursor].Entry.Members

	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.ToggleDetail):
		m.showMembers = false
		return true, nil
	case key.Matches(msg, m.keys.HistoryPrev), key.Matches(msg, m.keys.RowUp):
		if m.memberCursor > 0 {
			m.memberCursor--
		}
		return true, nil
	case key.Matches(msg, m.keys.HistoryNext), key.Matches(msg, m.keys.RowDown):
		if m.memberCursor < len(members)-1 {
			m.memberCursor++
		}
		return true, nil
	case key.Matches(msg, m.keys.Select):
		t, err := m.session.SelectMember(m.cursor, m.memberCursor)
		if err != nil {
			m.flashErr(err)
			return true, nil
		}
		m.target = &t
		return true, tea.Quit
	}
	return false, nil
}

func (m *Model) recall(d history.Direction) {
	if m.session.RecallHistory(d) {
		m.syncInput()
	}
}

func (m *Model) syncInput() {
	m.input.SetValue(m.session.Query().Filter)
	m.input.CursorEnd()
	m.cursor, m.offset = 0, 0
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.session.Rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	visible := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *Model) flash(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) flashErr(err error) {
	m.status, m.statusErr = err.Error(), true
}

// listHeight is the number of rows that fit between header and footer.
func (m Model) listHeight() int {
	if m.height <= 0 {
		return 15
	}
	return max(3, m.height-9)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	q := m.session.Query()
	res := m.session.Result()
	header := titleStyle.Render("Tile Finder") + "  " +
		badgeStyle.Render(fmt.Sprintf("r=%d", q.Radius)) + " " +
		badgeStyle.Render("group:"+q.Group.String()) + " " +
		badgeStyle.Render("sort:"+q.Sort.String())
	b.WriteString(header + "\n")
	b.WriteString(inputBoxStyle.Render(m.input.View()) + "\n")

	if sugg := m.session.Suggest(3); len(sugg) > 0 && q.Filter != "" {
		b.WriteString(suggestStyle.Render("  "+strings.Join(sugg, "  ·  ")) + "\n")
	} else {
		b.WriteString("\n")
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	switch {
	case !res.HasViewer:
		b.WriteString(dimStyle.Render("  No viewer in the world") + "\n")
	case len(res.Rows) == 0:
		b.WriteString(dimStyle.Render("  Nothing found") + "\n")
	case m.showMembers && m.cursor < len(res.Rows):
		b.WriteString(m.renderMembers(res.Rows[m.cursor], width))
	default:
		b.WriteString(m.renderRows(res.Rows, width))
	}

	summary := fmt.Sprintf("%d rows · %d found · %d scanned", len(res.Rows), res.Logical, res.Scanned)
	b.WriteString("\n" + dimStyle.Render(summary))
	if m.status != "" {
		style := dimStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString("  " + style.Render(m.status))
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderRows(rows []finder.Row, width int) string {
	var b strings.Builder
	end := min(len(rows), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		b.WriteString(renderRow(rows[i], i == m.cursor, width))
		b.WriteString("\n")
	}
	return b.String()
}

// renderRow formats "★ Title  x24  Source  12.3m" fitted to width.
func renderRow(r finder.Row, selected bool, width int) string {
	star := "  "
	if r.Favorite {
		star = starStyle.Render("★ ")
	}
	count := ""
	if r.Entry.Count > 1 {
		count = fmt.Sprintf(" x%d", r.Entry.Count)
	}
	dist := fmt.Sprintf("%6.1fm", r.Entry.Distance())
	source := r.SourceName

	titleWidth := max(8, width-2-runewidth.StringWidth(count)-runewidth.StringWidth(source)-len(dist)-4)
	title := runewidth.Truncate(r.Title(), titleWidth, "…")
	title = runewidth.FillRight(title, titleWidth)

	if selected {
		line := star + title + count + "  " + source + " " + dist
		return selectedStyle.Render(line)
	}
	return star + rowStyle.Render(title) + countStyle.Render(count) + "  " +
		dimStyle.Render(source) + " " + dist
}

func (m Model) renderMembers(r finder.Row, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Title()) + dimStyle.Render(fmt.Sprintf("  %d members", len(r.Entry.Members))) + "\n")

	visible := m.listHeight() - 1
	start := 0
	if m.memberCursor >= visible {
		start = m.memberCursor - visible + 1
	}
	end := min(len(r.Entry.Members), start+visible)

	var lines []string
	for i := start; i < end; i++ {
		e := r.Entry.Members[i]
		line := fmt.Sprintf("%-24s %6.1fm  %s", e.Pos.String(), e.Distance, e.DisplayName())
		line = runewidth.Truncate(line, max(10, width-4), "…")
		if i == m.memberCursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	b.WriteString(panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	b.WriteString("\n")
	return b.String()
}
