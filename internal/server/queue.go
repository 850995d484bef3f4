package server

import (
	"fmt"
	"sync"

	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/shared"
)

// QueueStore is an in-memory playlist queue.
//
// At most one entry is playing at a time. Entries that finished, were skipped or were removed stay in the store but
// are no longer part of [QueueStore.Queue].
type QueueStore struct {
	mu     sync.Mutex
	videos []models.PlaylistVideo
	nextID int64
}

// NewQueueStore creates an empty store.
func NewQueueStore() *QueueStore {
	return &QueueStore{nextID: 1}
}

// Enqueue appends a queued entry and returns it.
func (q *QueueStore) Enqueue(title, url string, mode models.ColorMode) (models.PlaylistVideo, error) {
	if url == "" {
		return models.PlaylistVideo{}, fmt.Errorf("%w: url is required", shared.ErrInvalidInput)
	}
	if title == "" {
		title = url
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	v := models.PlaylistVideo{
		ID:        q.nextID,
		Title:     title,
		URL:       url,
		ColorMode: models.ParseColorMode(string(mode)),
		Status:    models.StatusQueued,
	}
	q.nextID++
	q.videos = append(q.videos, v)
	return v, nil
}

// Queue returns the playing and queued entries in insertion order.
func (q *QueueStore) Queue() []models.PlaylistVideo {
	q.mu.Lock()
	defer q.mu.Unlock()

	active := make([]models.PlaylistVideo, 0, len(q.videos))
	for _, v := range q.videos {
		if isActive(v.Status) {
			active = append(active, v)
		}
	}
	return active
}

// Advance finishes the playing entry, if any, and starts the next queued one. It returns the new playing entry.
func (q *QueueStore) Advance() *models.PlaylistVideo {
	q.mu.Lock()
	defer q.mu.Unlock()

	if i := q.indexOf(models.StatusPlaying); i >= 0 {
		q.videos[i].Status = models.StatusDone
	}
	return q.promote()
}

// Next skips the playing entry identified by id and starts the next queued one.
func (q *QueueStore) Next(id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.indexOf(models.StatusPlaying)
	if i < 0 || q.videos[i].ID != id {
		return fmt.Errorf("%w: video %d is not playing", shared.ErrNotFound, id)
	}

	q.videos[i].Status = models.StatusSkipped
	q.promote()
	return nil
}

// Remove deletes a queued entry. The playing entry can only be skipped with [QueueStore.Next].
func (q *QueueStore) Remove(id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.videos {
		if q.videos[i].ID != id || !isActive(q.videos[i].Status) {
			continue
		}
		if q.videos[i].IsPlaying() {
			return fmt.Errorf("%w: video %d is playing", shared.ErrInvalidInput, id)
		}
		q.videos[i].Status = models.StatusDeleted
		return nil
	}
	return fmt.Errorf("%w: video %d is not in the queue", shared.ErrNotFound, id)
}

// Clear deletes every active entry and returns how many were removed.
func (q *QueueStore) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for i := range q.videos {
		if isActive(q.videos[i].Status) {
			q.videos[i].Status = models.StatusDeleted
			n++
		}
	}
	return n
}

// promote starts the first queued entry when nothing is playing. Callers hold the lock.
func (q *QueueStore) promote() *models.PlaylistVideo {
	if i := q.indexOf(models.StatusPlaying); i >= 0 {
		v := q.videos[i]
		return &v
	}
	i := q.indexOf(models.StatusQueued)
	if i < 0 {
		return nil
	}
	q.videos[i].Status = models.StatusPlaying
	v := q.videos[i]
	return &v
}

func (q *QueueStore) indexOf(status models.Status) int {
	for i := range q.videos {
		if q.videos[i].Status == status {
			return i
		}
	}
	return -1
}

func isActive(s models.Status) bool {
	return s == models.StatusQueued || s == models.StatusPlaying
}
