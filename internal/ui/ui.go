package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ConfirmView ViewState = iota
	RunView
	ResultView
)

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *models.GenerationResult
	err    error
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	engine *tasks.Engine
	names  []string
	limit  int

	width  int
	height int

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *models.GenerationResult
	err          error

	trackList list.Model
	listReady bool
	retrying  bool

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model for a generation run over the given artists.
func NewModel(ctx context.Context, engine *tasks.Engine, names []string, limit int) *Model {
	return &Model{
		ctx:    ctx,
		view:   ConfirmView,
		engine: engine,
		names:  names,
		limit:  limit,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Result returns the completed generation result, nil if the run never finished.
func (m *Model) Result() *models.GenerationResult {
	return m.result
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.trackList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		default:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.retrying = false
		m.progressChan = nil
		if m.result != nil {
			m.buildTrackList()
		}
		return m, nil
	}

	if m.listReady {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		return m, tea.Quit
	case "y", "enter":
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		if m.result != nil && len(m.result.Missing) > 0 && !m.retrying {
			m.retrying = true
			return m, m.startRetry()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan

	go func() {
		// Publish the result before closing: the close is what wakes
		// waitForProgress, and it reads these fields immediately.
		m.result, m.err = m.engine.Generate(m.ctx, m.names, m.limit, progress)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) startRetry() tea.Cmd {
	m.view = RunView
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan
	prev := m.result

	go func() {
		m.result, m.err = m.engine.Retry(m.ctx, prev, progress)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) buildTrackList() {
	var items []list.Item
	for _, group := range m.result.Groups {
		for _, track := range group.Tracks {
			items = append(items, trackItem{track: track})
		}
	}
	for _, missing := range m.result.Missing {
		items = append(items, missingItem{missing: missing})
	}

	m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.trackList.Title = fmt.Sprintf("Resolved Tracks (%d matched, %d missing)",
		m.result.Stats.Matched, m.result.Stats.Missing)
	m.trackList.SetSize(m.width-4, m.height-10)
	m.listReady = true
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Generate setlist playlist?")
	info := fmt.Sprintf("\nArtists: %s\nSetlists per artist: %d\n",
		strings.Join(m.names, ", "), m.limit)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Generating Playlist")

	var phase string
	switch m.progress.State {
	case tasks.StateResolvingArtist:
		phase = fmt.Sprintf("Resolving artists (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.StateAggregating:
		phase = "Collecting recent setlists..."
	case tasks.StateResolvingTracks:
		phase = fmt.Sprintf("Matching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.StateFallbackSearch:
		phase = "Falling back to popular tracks..."
	case tasks.StateMerged:
		phase = "Merging results..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Generation failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	var header string
	switch m.result.Status {
	case models.StatusSuccess:
		header = styles.ok.Render("✓ Playlist Complete")
	case models.StatusPartial:
		header = styles.warn.Render(fmt.Sprintf("Playlist generated with %d missing tracks", m.result.Stats.Missing))
	default:
		header = styles.err.Render("No tracks could be matched")
	}

	helpKeys := []key.Binding{m.keys.quit}
	if len(m.result.Missing) > 0 {
		helpKeys = append([]key.Binding{m.keys.retry}, helpKeys...)
	}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n\n%s", header, m.trackList.View(), helpView)
}
