package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/playlist"
	tu "github.com/desertthunder/lightness/internal/testing"
	"github.com/desertthunder/lightness/internal/testing/mockclient"
)

func newTestModel(client *mockclient.Client) *Model {
	r := playlist.NewReconciler(client, nil)
	return NewModel(context.Background(), r, time.Millisecond, nil)
}

// collect runs cmd and flattens batches into the messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func findKind(msgs []tea.Msg, kind MsgKind) (Msg, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(Msg); ok && m.kind == kind {
			return m, true
		}
	}
	return Msg{}, false
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle runs the initial fetch and applies it.
func settle(t *testing.T, m *Model) tea.Cmd {
	t.Helper()
	msg, ok := findKind(collect(m.Init()), MsgQueueFetched)
	if !ok {
		t.Fatal("expected Init to fetch the queue")
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestModelPolling(t *testing.T) {
	t.Run("Init Fetches And Schedules", func(t *testing.T) {
		client := mockclient.New(mockclient.QueueOf(t, tu.Video(1, models.StatusPlaying), tu.Video(2, models.StatusQueued)))
		m := newTestModel(client)

		cmd := settle(t, m)
		if client.Fetches() != 1 {
			t.Errorf("expected 1 fetch, got %d", client.Fetches())
		}
		if got := m.reconciler.CurrentlyPlayingLabel(); got != "video 1" {
			t.Errorf("expected current label 'video 1', got %q", got)
		}
		if len(m.queue.Items()) != 1 {
			t.Errorf("expected 1 queued item in the list, got %d", len(m.queue.Items()))
		}

		if _, ok := findKind(collect(cmd), MsgPollTick); !ok {
			t.Fatal("expected the next tick to be scheduled after the fetch settled")
		}
	})

	t.Run("Tick Triggers Fetch", func(t *testing.T) {
		client := mockclient.New(mockclient.QueueOf(t))
		m := newTestModel(client)
		settle(t, m)

		_, cmd := m.Update(pollTickMsg())
		if _, ok := findKind(collect(cmd), MsgQueueFetched); !ok {
			t.Fatal("expected tick to fetch")
		}
		if client.Fetches() != 2 {
			t.Errorf("expected 2 fetches, got %d", client.Fetches())
		}
	})

	t.Run("Failed Fetch Keeps Polling", func(t *testing.T) {
		client := mockclient.New(mockclient.Failed(errors.New("boom")))
		m := newTestModel(client)

		cmd := settle(t, m)
		if m.reconciler.Loading() {
			t.Error("expected loading to clear after a failed fetch")
		}
		if _, ok := findKind(collect(cmd), MsgPollTick); !ok {
			t.Error("expected polling to continue after a failure")
		}
	})

	t.Run("Quit Stops Polling", func(t *testing.T) {
		client := mockclient.New(mockclient.QueueOf(t))
		m := newTestModel(client)
		settle(t, m)

		_, cmd := m.Update(runes("q"))
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatal("expected quit command")
		}

		if _, cmd := m.Update(pollTickMsg()); cmd != nil {
			t.Error("expected no fetch after quitting")
		}
		if msg := m.fetch()(); msg != nil {
			t.Errorf("expected cancelled fetch to produce nothing, got %v", msg)
		}
		if _, cmd := m.Update(queueFetchedMsg(nil, context.Canceled)); cmd != nil {
			t.Error("expected in-flight results to be dropped after quitting")
		}
		if client.Fetches() != 1 {
			t.Errorf("expected only the initial fetch, got %d", client.Fetches())
		}
	})
}

func TestModelKeys(t *testing.T) {
	t.Run("Toggle", func(t *testing.T) {
		m := newTestModel(mockclient.New(mockclient.QueueOf(t)))
		for _, k := range []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyEnter}, {Type: tea.KeySpace, Runes: []rune(" ")}} {
			before := m.expanded
			m.Update(k)
			if m.expanded == before {
				t.Errorf("expected %q to toggle the playlist", k.String())
			}
		}
	})

	t.Run("Next", func(t *testing.T) {
		client := mockclient.New(mockclient.QueueOf(t, tu.Video(4, models.StatusQueued), tu.Video(7, models.StatusPlaying)))
		m := newTestModel(client)
		settle(t, m)

		_, cmd := m.Update(runes("n"))
		msgs := collect(cmd)
		if _, ok := findKind(msgs, MsgCommandDone); !ok {
			t.Fatal("expected a command result")
		}
		if calls := client.NextCalls(); len(calls) != 1 || calls[0] != 7 {
			t.Errorf("expected next(7), got %v", calls)
		}
	})

	t.Run("Next Without Current", func(t *testing.T) {
		client := mockclient.New(mockclient.QueueOf(t, tu.Video(4, models.StatusQueued)))
		m := newTestModel(client)
		settle(t, m)

		_, cmd := m.Update(runes("n"))
		collect(cmd)
		if calls := client.NextCalls(); len(calls) != 0 {
			t.Errorf("expected no next call, got %v", calls)
		}
	})

	t.Run("Clear And Remove Need Expanded", func(t *testing.T) {
		client := mockclient.New(mockclient.QueueOf(t, tu.Video(1, models.StatusPlaying), tu.Video(2, models.StatusQueued)))
		m := newTestModel(client)
		settle(t, m)

		m.Update(runes("c"))
		m.Update(runes("x"))
		if client.Clears() != 0 || len(client.Removed()) != 0 {
			t.Fatal("expected collapsed widget to ignore clear and remove")
		}

		m.SetExpanded(true)
		_, cmd := m.Update(runes("c"))
		collect(cmd)
		if client.Clears() != 1 {
			t.Errorf("expected 1 clear, got %d", client.Clears())
		}

		_, cmd = m.Update(runes("x"))
		collect(cmd)
		if removed := client.Removed(); len(removed) != 1 || removed[0] != 2 {
			t.Errorf("expected remove(2), got %v", removed)
		}
	})

	t.Run("Command Failure Is Logged", func(t *testing.T) {
		client := mockclient.New(mockclient.QueueOf(t, tu.Video(1, models.StatusPlaying)))
		client.FailCommands(errors.New("backend said no"))
		m := newTestModel(client)
		settle(t, m)

		_, cmd := m.Update(runes("n"))
		msg, ok := findKind(collect(cmd), MsgCommandDone)
		if !ok {
			t.Fatal("expected a command result")
		}
		if _, next := m.Update(msg); next != nil {
			t.Error("expected failure to be absorbed")
		}
	})
}

func TestModelView(t *testing.T) {
	t.Run("Collapsed Loading", func(t *testing.T) {
		m := newTestModel(mockclient.New(mockclient.QueueOf(t)))
		if view := m.View(); !strings.Contains(view, playlist.LoadingLabel) {
			t.Errorf("expected loading label, got %q", view)
		}
	})

	t.Run("Collapsed Playing", func(t *testing.T) {
		m := newTestModel(mockclient.New(mockclient.QueueOf(t, tu.Video(3, models.StatusPlaying))))
		settle(t, m)
		view := m.View()
		if !strings.Contains(view, "video 3") {
			t.Errorf("expected current title, got %q", view)
		}
		if !strings.Contains(view, "next") {
			t.Errorf("expected next hint, got %q", view)
		}
	})

	t.Run("Expanded Empty", func(t *testing.T) {
		m := newTestModel(mockclient.New(mockclient.QueueOf(t)))
		m.SetExpanded(true)
		if strings.Contains(m.View(), EmptyQueueLabel) {
			t.Error("expected no empty marker while loading")
		}

		settle(t, m)
		if !strings.Contains(m.View(), EmptyQueueLabel) {
			t.Errorf("expected empty marker, got %q", m.View())
		}
	})

	t.Run("Expanded Queue", func(t *testing.T) {
		m := newTestModel(mockclient.New(mockclient.QueueOf(t, tu.Video(1, models.StatusPlaying), tu.Video(2, models.StatusQueued))))
		m.SetExpanded(true)
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		settle(t, m)

		view := m.View()
		for _, want := range []string{"Playlist", "video 1", "video 2", "clear"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in view, got %q", want, view)
			}
		}
		if strings.Contains(view, EmptyQueueLabel) {
			t.Error("did not expect empty marker")
		}
	})
}
