// Package playlist keeps a local view of the backend queue consistent with what the server reports.
//
// A [Reconciler] owns the [State]. Each tick fetches the queue through a [services.Client], partitions it into the
// current video and the queued videos, and commits only the parts that changed. The returned [Change] tells the
// caller what to re-render.
//
// User commands ([Reconciler.NextVideo], [Reconciler.ClearQueue], [Reconciler.RemoveVideo]) only talk to the
// backend; the next tick shows their effect.
//
// A [Poller] drives the ticks on its own goroutine for headless use. The TUI drives them through bubbletea commands
// instead, calling [Reconciler.Fetch] and [Reconciler.Apply] separately.
package playlist
