// Package mockclient provides a scripted [services.Client] for tests of the packages built on top of it.
package mockclient

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/services"
)

var _ services.Client = (*Client)(nil)

// Client is a test double for [services.Client].
//
// Queue responses are served from a script; once the script is exhausted the last entry repeats.
type Client struct {
	mu        sync.Mutex
	responses []Result
	fetches   int
	next      []int64
	clears    int
	removed   []int64
	cmdErr    error
	onFetch   func(n int)
}

// Result is one scripted answer of [Client.GetQueue].
type Result struct {
	Response *services.QueueResponse
	Err      error
}

func New(responses ...Result) *Client {
	return &Client{responses: responses}
}

// Push appends a scripted answer.
func (m *Client) Push(r Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, r)
}

// FailCommands makes every mutating call return err.
func (m *Client) FailCommands(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cmdErr = err
}

// OnFetch registers a hook called with the 1-based fetch count after each GetQueue.
func (m *Client) OnFetch(fn func(n int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFetch = fn
}

func (m *Client) GetQueue(ctx context.Context) (*services.QueueResponse, error) {
	m.mu.Lock()
	m.fetches++
	n := m.fetches
	var r Result
	switch {
	case len(m.responses) == 0:
		r = Result{Err: errors.New("no scripted response")}
	case n <= len(m.responses):
		r = m.responses[n-1]
	default:
		r = m.responses[len(m.responses)-1]
	}
	hook := m.onFetch
	m.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return r.Response, r.Err
}

func (m *Client) NextVideo(ctx context.Context, currentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next = append(m.next, currentID)
	return m.cmdErr
}

func (m *Client) ClearQueue(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	return m.cmdErr
}

func (m *Client) RemoveVideo(ctx context.Context, video models.PlaylistVideo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, video.ID)
	return m.cmdErr
}

func (m *Client) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

func (m *Client) NextCalls() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.next...)
}

func (m *Client) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

func (m *Client) Removed() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.removed...)
}

// QueueOf builds a successful queue response holding videos in order.
func QueueOf(t *testing.T, videos ...models.PlaylistVideo) Result {
	t.Helper()
	raw := make([]json.RawMessage, len(videos))
	for i, v := range videos {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal fixture video: %v", err)
		}
		raw[i] = b
	}
	return Result{Response: &services.QueueResponse{Success: true, Queue: raw}}
}

// Unsuccessful is a queue response with success=false.
func Unsuccessful() Result {
	return Result{Response: &services.QueueResponse{Success: false}}
}

// Failed is a queue fetch that errored.
func Failed(err error) Result {
	return Result{Err: err}
}

