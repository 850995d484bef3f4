package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/services"
	"github.com/desertthunder/lightness/internal/shared"
)

// AddPath enqueues a video on the development backend. The client never calls it.
const AddPath = "/api/queue/add"

var _ Handler = (*QueueHandler)(nil)

// QueueHandler serves the queue API backed by a [QueueStore].
type QueueHandler struct {
	store  *QueueStore
	logger *log.Logger
}

// NewQueueHandler creates a handler for store.
func NewQueueHandler(store *QueueStore, logger *log.Logger) *QueueHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &QueueHandler{store: store, logger: logger}
}

// Routes implements [Handler].
func (h *QueueHandler) Routes() []string {
	return []string{services.QueuePath, services.NextPath, services.ClearPath, services.RemovePath, AddPath}
}

type videoRequest struct {
	ID        int64  `json:"playlist_video_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	ColorMode string `json:"color_mode"`
}

// ServeHTTP implements [http.Handler].
func (h *QueueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == services.QueuePath {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.getQueue(w)
		return
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req videoRequest
	if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeCommand(w, http.StatusBadRequest, err)
			return
		}
	}

	var err error
	switch r.URL.Path {
	case services.NextPath:
		err = h.store.Next(req.ID)
	case services.ClearPath:
		n := h.store.Clear()
		h.logger.Info("cleared queue", "removed", n)
	case services.RemovePath:
		err = h.store.Remove(req.ID)
	case AddPath:
		var v models.PlaylistVideo
		if v, err = h.store.Enqueue(req.Title, req.URL, models.ColorMode(req.ColorMode)); err == nil {
			h.logger.Info("enqueued video", "id", v.ID, "title", v.Title)
		}
	default:
		http.NotFound(w, r)
		return
	}

	h.writeCommand(w, http.StatusOK, err)
}

func (h *QueueHandler) getQueue(w http.ResponseWriter) {
	videos := h.store.Queue()
	raw := make([]json.RawMessage, 0, len(videos))
	for _, v := range videos {
		b, err := json.Marshal(v)
		if err != nil {
			h.logger.Error("failed to encode video", "id", v.ID, "err", err)
			writeJSON(w, http.StatusOK, services.QueueResponse{Success: false})
			return
		}
		raw = append(raw, b)
	}
	writeJSON(w, http.StatusOK, services.QueueResponse{Success: true, Queue: raw})
}

// writeCommand reports command failures as success=false, keeping 200 unless the request itself was bad.
func (h *QueueHandler) writeCommand(w http.ResponseWriter, status int, err error) {
	if err == nil {
		writeJSON(w, status, services.CommandResponse{Success: true})
		return
	}

	h.logger.Warn("command failed", "err", err)
	if errors.Is(err, shared.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, services.CommandResponse{Success: false, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
