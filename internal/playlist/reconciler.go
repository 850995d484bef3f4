package playlist

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/services"
	"github.com/desertthunder/lightness/internal/shared"
)

const (
	LoadingLabel = "<Loading...>"
	NothingLabel = "<Nothing>"
)

// Change is a bitmask of the state fields a tick committed.
type Change uint8

const (
	ChangedLoading Change = 1 << iota
	ChangedCurrent
	ChangedVideos

	NoChange Change = 0
)

// Has reports whether c includes all bits of other.
func (c Change) Has(other Change) bool { return c&other == other && other != 0 }

func (c Change) String() string {
	if c == NoChange {
		return "none"
	}
	var parts []string
	if c.Has(ChangedLoading) {
		parts = append(parts, "loading")
	}
	if c.Has(ChangedCurrent) {
		parts = append(parts, "current")
	}
	if c.Has(ChangedVideos) {
		parts = append(parts, "videos")
	}
	return strings.Join(parts, "|")
}

// State is the reconciled view of the backend queue.
//
// Current is tracked separately from Videos so a tick that leaves the playing identity unchanged keeps the same
// pointer.
type State struct {
	Loading bool
	Current *models.PlaylistVideo
	Videos  []models.PlaylistVideo
}

// Reconciler owns a [State] and the [services.Client] it is refreshed from.
type Reconciler struct {
	client services.Client
	logger *log.Logger

	mu    sync.RWMutex
	state State
}

// NewReconciler creates a reconciler in its initial loading state.
func NewReconciler(client services.Client, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Reconciler{
		client: client,
		logger: logger,
		state: State{
			Loading: true,
			Videos:  []models.PlaylistVideo{},
		},
	}
}

// Tick fetches the queue and applies it. The error reports why a pass left the queue untouched: a failed
// fetch, success=false or a malformed record. State is handled exactly as by [Reconciler.Apply].
func (r *Reconciler) Tick(ctx context.Context) (Change, error) {
	resp, err := r.Fetch(ctx)
	return r.apply(resp, err)
}

// Fetch calls the backend without touching local state.
func (r *Reconciler) Fetch(ctx context.Context) (*services.QueueResponse, error) {
	return r.client.GetQueue(ctx)
}

// Apply reconciles a fetch result into the state.
//
// Loading is cleared whatever the outcome. Failed, unsuccessful or unparseable results leave Current and Videos as
// they were.
func (r *Reconciler) Apply(resp *services.QueueResponse, err error) Change {
	change, _ := r.apply(resp, err)
	return change
}

func (r *Reconciler) apply(resp *services.QueueResponse, err error) (Change, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var change Change
	if r.state.Loading {
		r.state.Loading = false
		change |= ChangedLoading
	}

	switch {
	case err != nil:
		r.logger.Debug("queue fetch failed", "err", err)
		return change, err
	case resp == nil || !resp.Success:
		r.logger.Debug("queue fetch unsuccessful")
		return change, fmt.Errorf("%w: backend reported failure", shared.ErrAPIRequest)
	}

	videos, err := models.ParseQueue(resp.Queue)
	if err != nil {
		r.logger.Warn("discarding malformed queue", "err", err)
		return change, err
	}

	next := models.FindPlaying(videos)
	if currentChanged(r.state.Current, next) {
		r.state.Current = next
		change |= ChangedCurrent
	}

	if !models.EqualVideos(r.state.Videos, videos) {
		r.state.Videos = videos
		change |= ChangedVideos
	}

	return change, nil
}

// currentChanged reports whether the playing identity moved between old and next.
func currentChanged(old, next *models.PlaylistVideo) bool {
	switch {
	case old != nil && next != nil:
		return old.ID != next.ID
	case old == nil && next != nil:
		return true
	case old != nil && next == nil:
		return true
	default:
		return false
	}
}

// Snapshot returns a copy of the state safe to read without the lock.
func (r *Reconciler) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return State{
		Loading: r.state.Loading,
		Current: r.state.Current,
		Videos:  slices.Clone(r.state.Videos),
	}
}

// Loading reports whether no fetch has settled yet.
func (r *Reconciler) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Loading
}

// Current returns the change-detected current video.
func (r *Reconciler) Current() *models.PlaylistVideo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Current
}

// Videos returns a copy of the last known queue in server order.
func (r *Reconciler) Videos() []models.PlaylistVideo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.state.Videos)
}

// CurrentVideo scans the last known queue for the playing entry.
func (r *Reconciler) CurrentVideo() *models.PlaylistVideo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.FindPlaying(r.state.Videos)
}

// QueuedVideos returns every entry of the last known queue that is not playing.
func (r *Reconciler) QueuedVideos() []models.PlaylistVideo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.FilterQueued(r.state.Videos)
}

// CurrentlyPlayingLabel is the title of the current video, or a loading or nothing placeholder.
func (r *Reconciler) CurrentlyPlayingLabel() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Label(r.state)
}

// Label derives the currently playing label from s. Loading is only consulted without a current video.
func Label(s State) string {
	switch {
	case s.Current != nil:
		return s.Current.Title
	case s.Loading:
		return LoadingLabel
	default:
		return NothingLabel
	}
}

// NextVideo asks the backend to skip the current video. Without a current video nothing is sent.
func (r *Reconciler) NextVideo(ctx context.Context) error {
	current := r.Current()
	if current == nil {
		return nil
	}
	r.logger.Info("skipping video", "id", current.ID, "title", current.Title)
	return r.client.NextVideo(ctx, current.ID)
}

// ClearQueue asks the backend to clear the queue.
func (r *Reconciler) ClearQueue(ctx context.Context) error {
	r.logger.Info("clearing queue")
	return r.client.ClearQueue(ctx)
}

// RemoveVideo asks the backend to drop video from the queue.
func (r *Reconciler) RemoveVideo(ctx context.Context, video models.PlaylistVideo) error {
	r.logger.Info("removing video", "id", video.ID, "title", video.Title)
	return r.client.RemoveVideo(ctx, video)
}
