package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lightness/internal/services"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgQueueFetched MsgKind = iota
	MsgPollTick
	MsgCommandDone
)

type queueFetched struct {
	resp *services.QueueResponse
	err  error
}

type commandDone struct {
	name string
	err  error
}

// queueFetchedMsg is the constructor for [MsgQueueFetched]
func queueFetchedMsg(resp *services.QueueResponse, err error) Msg {
	return Msg{kind: MsgQueueFetched, data: queueFetched{resp, err}}
}

// pollTickMsg is the constructor for [MsgPollTick]
func pollTickMsg() Msg {
	return Msg{kind: MsgPollTick}
}

// commandDoneMsg is the constructor for [MsgCommandDone]
func commandDoneMsg(name string, err error) Msg {
	return Msg{kind: MsgCommandDone, data: commandDone{name, err}}
}
