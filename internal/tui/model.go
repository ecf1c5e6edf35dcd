// Package tui provides the BubbleTea-based terminal user interface.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/dailywords/internal/config"
	"github.com/jmylchreest/dailywords/internal/daily"
	"github.com/jmylchreest/dailywords/internal/store"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeHelp
)

// Model is the main TUI model.
type Model struct {
	cfg     *config.Config
	manager *daily.Manager

	mode Mode

	list list.Model
	help help.Model
	keys KeyMap

	selection daily.Selection
	debug     bool
	width     int
	height    int
	ready     bool

	statusMsg string
	statusErr bool

	// State file change notifications (nil = not watching)
	changes <-chan struct{}
}

// wordItem wraps a topic for the list component.
type wordItem struct {
	word  string
	index int
}

func (i wordItem) FilterValue() string { return i.word }

// wordDelegate renders one topic per line with a numbered marker.
type wordDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	marker   lipgloss.Style
}

func newWordDelegate() wordDelegate {
	return wordDelegate{
		normal:   lipgloss.NewStyle().PaddingLeft(2),
		selected: lipgloss.NewStyle().PaddingLeft(2).Bold(true).Foreground(lipgloss.Color("13")),
		marker:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	}
}

func (d wordDelegate) Height() int                             { return 1 }
func (d wordDelegate) Spacing() int                            { return 0 }
func (d wordDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render renders a list item.
func (d wordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	wi, ok := item.(wordItem)
	if !ok {
		return
	}

	style := d.normal
	marker := "·"
	if index == m.Index() {
		style = d.selected
		marker = "●"
	}

	line := fmt.Sprintf("%2d. %s", wi.index+1, wi.word)
	fmt.Fprint(w, style.Render(line)+" "+d.marker.Render(marker))
}

// New creates a new TUI model. changes may be nil.
func New(cfg *config.Config, manager *daily.Manager, changes <-chan struct{}) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	l := list.New(nil, newWordDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()

	m := Model{
		cfg:     cfg,
		manager: manager,
		mode:    ModeList,
		list:    l,
		help:    help.New(),
		keys:    DefaultKeyMap(),
		changes: changes,
	}
	m.setDebug(cfg.TUI.Debug)

	return m
}

// Selection returns the selection currently displayed.
func (m Model) Selection() daily.Selection {
	return m.selection
}

// Debug reports whether debug mode is active.
func (m Model) Debug() bool {
	return m.debug
}

func (m *Model) setDebug(on bool) {
	m.debug = on
	m.keys.DebugRefresh.SetEnabled(on)
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadSelection,
		m.scheduleMidnight(),
		m.watchForChanges,
	)
}

type selectionMsg struct {
	selection daily.Selection
	err       error
	forced    bool
}

type midnightMsg struct{}

type stateChangedMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// loadSelection reloads through the manager, regenerating when the stored day is over.
func (m Model) loadSelection() tea.Msg {
	sel, err := m.manager.LoadOrCreate()
	return selectionMsg{selection: sel, err: err}
}

// forceRegenerate replaces today's selection.
func (m Model) forceRegenerate() tea.Msg {
	sel, err := m.manager.ForceRegenerate()
	return selectionMsg{selection: sel, err: err, forced: true}
}

// scheduleMidnight arms a single tick for the next local midnight.
func (m Model) scheduleMidnight() tea.Cmd {
	delay := daily.UntilMidnight(m.manager.Now())
	slog.Debug("armed midnight tick", "delay", delay.String())
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return midnightMsg{}
	})
}

// watchForChanges waits for the state file to be replaced by another process.
func (m Model) watchForChanges() tea.Msg {
	if m.changes == nil {
		return nil
	}
	if _, ok := <-m.changes; !ok {
		return nil
	}
	return stateChangedMsg{}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width, max(msg.Height-6, 1))
		return m, nil

	case selectionMsg:
		m.setSelection(msg.selection)
		if msg.err != nil {
			return m, showStatus("Could not save selection: "+msg.err.Error(), true)
		}
		if msg.forced {
			return m, showStatus("Selection regenerated", false)
		}
		return m, nil

	case midnightMsg:
		cmds := []tea.Cmd{m.loadSelection}
		if m.cfg.Schedule.Rearm {
			cmds = append(cmds, m.scheduleMidnight())
		}
		return m, tea.Batch(cmds...)

	case stateChangedMsg:
		return m, tea.Batch(m.loadSelection, m.watchForChanges)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, showStatus("Copy failed: "+msg.err.Error(), true)
		}
		return m, showStatus("Copied to clipboard", false)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func showStatus(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

func (m *Model) setSelection(sel daily.Selection) {
	m.selection = sel
	items := make([]list.Item, len(sel.Words))
	for i, w := range sel.Words {
		items[i] = wordItem{word: w, index: i}
	}
	m.list.SetItems(items)
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleDebug):
		m.setDebug(!m.debug)
		if m.debug {
			return m, showStatus("Debug mode on", false)
		}
		return m, showStatus("Debug mode off", false)
	}

	if m.mode == ModeHelp {
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.DebugRefresh):
		return m, m.forceRegenerate
	case key.Matches(msg, m.keys.Copy):
		if len(m.selection.Words) > 0 {
			return m, m.copyToClipboard(strings.Join(m.selection.Words, "\n"))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text, m.cfg)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.viewHelp()
	default:
		return m.viewList()
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1)

	debugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("5")).
			Padding(0, 2)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func (m Model) viewList() string {
	s := titleStyle.Render(m.cfg.TUI.Title) + "\n"
	s += subtitleStyle.Render("Your learning journey for "+m.longDate()) + "\n\n"
	s += m.list.View() + "\n"

	if m.debug {
		s += debugStyle.Render("↻ Debug Refresh (" + keyStyle.Render("r") + ")") + "\n"
	}

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += statusStyle.Render(m.statusMsg)
	} else if m.cfg.TUI.ShowHelp {
		s += dimStyle.Render("Press "+keyStyle.Render("ctrl+d")+" to toggle debug mode") +
			"  " + m.help.View(m.keys)
	}

	return s
}

func (m Model) viewHelp() string {
	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"
	s += m.help.FullHelpView(m.keys.FullHelp()) + "\n\n"
	s += dimStyle.Render("Press ? or esc to return")
	return s
}

// longDate formats the selection's day for the header.
func (m Model) longDate() string {
	if t, err := time.ParseInLocation(daily.DateLayout, m.selection.Date, time.Local); err == nil {
		return t.Format("Monday, January 2, 2006")
	}
	return m.manager.Now().Format("Monday, January 2, 2006")
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config    *config.Config
	Manager   *daily.Manager
	StatePath string // State file to watch for external writes (empty = no watching)
	Logger    *slog.Logger
}

// Run starts the TUI with the given options.
func Run(opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var watcher *store.FileWatcher
	var changes <-chan struct{}
	if opts.StatePath != "" {
		var err error
		watcher, err = store.NewFileWatcher(opts.StatePath, logger)
		if err != nil {
			logger.Warn("failed to create file watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to start file watcher", "error", err)
		} else {
			changes = watcher.Changes()
		}
	}

	m := New(opts.Config, opts.Manager, changes)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()

	if watcher != nil {
		watcher.Stop()
	}

	return err
}
