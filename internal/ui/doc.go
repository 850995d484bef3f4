// Package ui implements the playlist widget as a bubbletea program.
//
// The widget has two layouts toggled with tab:
//  1. collapsed: the currently playing label and a hint for skipping to the next video
//  2. expanded: a now playing panel, the queued videos in a [list.Model] and a footer with the queue commands
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg
// union type. Polling is a chain of commands: a fetch settles as a queue message, the result is applied to the
// [playlist.Reconciler], and only then is the next tick scheduled. Quitting cancels the model's context so a pending
// tick never starts another fetch.
//
// Keyboard navigation uses vim-style bindings (j/k to move, n next, c clear, x remove, q quit) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
