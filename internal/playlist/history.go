package playlist

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/shared"
)

// HistoryStore persists "now playing" observations.
//
// Last returns the most recent entry, or an error wrapping [shared.ErrNotFound] when there is none.
type HistoryStore interface {
	Record(entry *models.HistoryEntry) error
	Last() (*models.HistoryEntry, error)
}

// HistoryRecorder turns current-video changes into [models.HistoryEntry] rows.
//
// The last recorded video is remembered, so a restarted watcher does not record a video that was already
// playing when it stopped.
type HistoryRecorder struct {
	store  HistoryStore
	logger *log.Logger
	now    func() time.Time
	seeded bool
	lastID int64
}

// NewHistoryRecorder creates a recorder writing to store.
func NewHistoryRecorder(store HistoryStore, logger *log.Logger) *HistoryRecorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &HistoryRecorder{store: store, logger: logger, now: time.Now}
}

func (h *HistoryRecorder) seed() {
	if h.seeded {
		return
	}
	h.seeded = true

	last, err := h.store.Last()
	switch {
	case err == nil:
		h.lastID = last.VideoID()
	case !errors.Is(err, shared.ErrNotFound):
		h.logger.Warn("failed to read last history entry", "err", err)
	}
}

// Observe is an [Observer]: it records the new current video whenever the playing identity changed to a video.
func (h *HistoryRecorder) Observe(change Change, state State) {
	if !change.Has(ChangedCurrent) || state.Current == nil {
		return
	}

	h.seed()
	if state.Current.ID == h.lastID {
		h.logger.Debug("already recorded", "id", state.Current.ID)
		return
	}

	entry := models.NewHistoryEntry(*state.Current, h.now())
	if err := h.store.Record(entry); err != nil {
		h.logger.Error("failed to record history", "id", state.Current.ID, "err", err)
		return
	}
	h.lastID = state.Current.ID
	h.logger.Debug("recorded history", "id", state.Current.ID, "title", state.Current.Title)
}
