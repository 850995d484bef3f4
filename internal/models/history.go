package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for persistent models stored by the client.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

var _ Model = (*HistoryEntry)(nil)

// HistoryEntry records that a queue entry was observed as the current video.
type HistoryEntry struct {
	id        string
	videoID   int64
	title     string
	url       string
	startedAt time.Time
}

// NewHistoryEntry creates an entry for video observed playing at startedAt.
func NewHistoryEntry(video PlaylistVideo, startedAt time.Time) *HistoryEntry {
	return &HistoryEntry{
		videoID:   video.ID,
		title:     video.Title,
		url:       video.URL,
		startedAt: startedAt,
	}
}

// RestoreHistoryEntry rebuilds a persisted entry.
func RestoreHistoryEntry(id string, videoID int64, title, url string, startedAt time.Time) *HistoryEntry {
	return &HistoryEntry{id: id, videoID: videoID, title: title, url: url, startedAt: startedAt}
}

func (h *HistoryEntry) ID() string           { return h.id }
func (h *HistoryEntry) SetID(id string)      { h.id = id }
func (h *HistoryEntry) VideoID() int64       { return h.videoID }
func (h *HistoryEntry) Title() string        { return h.title }
func (h *HistoryEntry) URL() string          { return h.url }
func (h *HistoryEntry) StartedAt() time.Time { return h.startedAt }
func (h *HistoryEntry) CreatedAt() time.Time { return h.startedAt }

// Validate checks the entry can be persisted.
func (h *HistoryEntry) Validate() error {
	if h.videoID <= 0 {
		return fmt.Errorf("history entry requires a playlist video id")
	}
	if h.startedAt.IsZero() {
		return fmt.Errorf("history entry requires a start time")
	}
	return nil
}
