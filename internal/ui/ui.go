package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/playlist"
	"github.com/desertthunder/lightness/internal/shared"
)

// EmptyQueueLabel is shown in the expanded layout once a fetch settled with nothing queued.
const EmptyQueueLabel = "<Empty Queue>"

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	reconciler *playlist.Reconciler
	interval   time.Duration
	logger     *log.Logger
	expanded   bool
	width      int
	height     int
	queue      list.Model
	help       help.Model
	keys       keyMap
}

// NewModel creates a collapsed playlist widget polling through r every interval.
func NewModel(ctx context.Context, r *playlist.Reconciler, interval time.Duration, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if interval <= 0 {
		interval = playlist.DefaultInterval
	}

	ctx, cancel := context.WithCancel(ctx)

	queue := list.New(nil, list.NewDefaultDelegate(), 60, 12)
	queue.Title = "Up next"
	queue.SetShowHelp(false)
	queue.SetShowStatusBar(false)
	queue.SetFilteringEnabled(false)
	queue.DisableQuitKeybindings()

	return &Model{
		ctx:        ctx,
		cancel:     cancel,
		reconciler: r,
		interval:   interval,
		logger:     logger,
		queue:      queue,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// SetExpanded sets the initial layout.
func (m *Model) SetExpanded(expanded bool) { m.expanded = expanded }

// Init starts polling with an immediate fetch.
func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.queue.SetSize(max(msg.Width-4, 20), max(msg.Height-14, 4))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgQueueFetched:
			return m.handleQueueFetched(msg.data.(queueFetched))
		case MsgPollTick:
			if m.ctx.Err() != nil {
				return m, nil
			}
			return m, m.fetch()
		case MsgCommandDone:
			done := msg.data.(commandDone)
			if done.err != nil {
				m.logger.Warn("command failed", "command", done.name, "err", done.err)
			} else {
				m.logger.Debug("command sent", "command", done.name)
			}
			return m, nil
		}
	}

	return m, nil
}

// handleQueueFetched applies a settled fetch and schedules the next one.
func (m *Model) handleQueueFetched(data queueFetched) (tea.Model, tea.Cmd) {
	if m.ctx.Err() != nil {
		return m, nil
	}

	change := m.reconciler.Apply(data.resp, data.err)
	var cmds []tea.Cmd
	if change.Has(playlist.ChangedVideos) {
		cmds = append(cmds, m.queue.SetItems(videoItems(m.reconciler.QueuedVideos())))
	}
	if change != playlist.NoChange {
		m.logger.Debug("queue changed", "change", change)
	}
	cmds = append(cmds, m.schedule())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		m.expanded = !m.expanded
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.command("next", m.reconciler.NextVideo)
	}

	if !m.expanded {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.clear):
		return m, m.command("clear", m.reconciler.ClearQueue)
	case key.Matches(msg, m.keys.remove):
		item, ok := m.queue.SelectedItem().(videoItem)
		if !ok {
			return m, nil
		}
		return m, m.command("remove", func(ctx context.Context) error {
			return m.reconciler.RemoveVideo(ctx, item.video)
		})
	}

	var cmd tea.Cmd
	m.queue, cmd = m.queue.Update(msg)
	return m, cmd
}

// fetch reads the queue off the event loop. A cancelled model fetches nothing.
func (m *Model) fetch() tea.Cmd {
	return func() tea.Msg {
		if m.ctx.Err() != nil {
			return nil
		}
		resp, err := m.reconciler.Fetch(m.ctx)
		return queueFetchedMsg(resp, err)
	}
}

func (m *Model) schedule() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return pollTickMsg()
	})
}

func (m *Model) command(name string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg(name, fn(m.ctx))
	}
}

// View renders the collapsed or expanded layout.
func (m *Model) View() string {
	if !m.expanded {
		return m.renderCollapsed()
	}
	return m.renderExpanded()
}

func (m *Model) renderCollapsed() string {
	label := styles.ok.Render(m.reconciler.CurrentlyPlayingLabel())
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.toggle, m.keys.quit})
	return fmt.Sprintf("▶ %s\n\n%s", label, helpView)
}

func (m *Model) renderExpanded() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Playlist"))
	b.WriteString("\n")

	state := m.reconciler.Snapshot()
	if len(state.Videos) == 0 && !state.Loading {
		b.WriteString(styles.warn.Render(EmptyQueueLabel))
		b.WriteString("\n")
	} else {
		b.WriteString(renderNowPlaying(m.reconciler.CurrentVideo(), state))
		b.WriteString("\n")
		if len(m.queue.Items()) > 0 {
			b.WriteString(m.queue.View())
			b.WriteString("\n")
		}
	}

	helpKeys := []key.Binding{m.keys.next, m.keys.remove, m.keys.clear, m.keys.toggle, m.keys.quit}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func renderNowPlaying(current *models.PlaylistVideo, state playlist.State) string {
	if current == nil {
		return styles.panel.Render(styles.help.Render(playlist.Label(playlist.State{Loading: state.Loading})))
	}

	lines := []string{
		styles.ok.Render(current.Title),
		fmt.Sprintf("%s • %s", shared.FormatDuration(current.Duration), current.ColorMode),
	}
	if current.URL != "" {
		lines = append(lines, styles.help.Render(current.URL))
	}
	return styles.panel.Render(strings.Join(lines, "\n"))
}
