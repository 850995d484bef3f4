// package services defines interface Client for the lightness backend API
package services

import (
	"context"
	"encoding/json"

	"github.com/desertthunder/lightness/internal/models"
)

// Client is the set of backend operations the playlist reconciler consumes.
type Client interface {
	// GetQueue fetches the full queue. A payload with Success false is returned without an error.
	GetQueue(ctx context.Context) (*QueueResponse, error)

	// NextVideo asks the backend to skip the video identified by currentID.
	NextVideo(ctx context.Context, currentID int64) error

	// ClearQueue removes every queued and playing entry.
	ClearQueue(ctx context.Context) error

	// RemoveVideo removes a single entry from the queue.
	RemoveVideo(ctx context.Context, video models.PlaylistVideo) error
}

// QueueResponse is the payload of GET /api/queue.
//
// Records stay raw so parsing is owned by [models.ParseQueue].
type QueueResponse struct {
	Success bool              `json:"success"`
	Queue   []json.RawMessage `json:"queue"`
}

// CommandResponse is the payload of every mutating endpoint.
type CommandResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// videoRef is the request body identifying a queue entry.
type videoRef struct {
	ID int64 `json:"playlist_video_id"`
}

const (
	QueuePath  = "/api/queue"
	NextPath   = "/api/queue/next"
	ClearPath  = "/api/queue/clear"
	RemovePath = "/api/queue/remove"
)
