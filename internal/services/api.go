// API service for making HTTP requests to the lightness backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/shared"
	"golang.org/x/time/rate"
)

var _ Client = (*APIService)(nil)

// APIService implements [Client] against the lightness backend.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAPIService creates a new API service instance for the backend at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:5000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

// SetCommandRate limits mutating commands to perSecond with a burst of one. Zero or less removes the limit.
func (a *APIService) SetCommandRate(perSecond float64) {
	if perSecond <= 0 {
		a.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	a.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status code is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return a.do(req)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func (a *APIService) do(req *http.Request) (*APIResponse, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", shared.GenerateID())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// GetQueue fetches the backend queue.
func (a *APIService) GetQueue(ctx context.Context) (*QueueResponse, error) {
	resp, err := a.Get(ctx, QueuePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: GET %s returned status %d", shared.ErrAPIRequest, QueuePath, resp.StatusCode)
	}

	var queue QueueResponse
	if err := json.Unmarshal(resp.Body, &queue); err != nil {
		return nil, fmt.Errorf("%w: failed to decode queue: %v", shared.ErrAPIRequest, err)
	}
	return &queue, nil
}

// NextVideo skips the video currently playing.
func (a *APIService) NextVideo(ctx context.Context, currentID int64) error {
	return a.command(ctx, NextPath, videoRef{ID: currentID})
}

// ClearQueue empties the queue.
func (a *APIService) ClearQueue(ctx context.Context) error {
	return a.command(ctx, ClearPath, struct{}{})
}

// RemoveVideo removes video from the queue.
func (a *APIService) RemoveVideo(ctx context.Context, video models.PlaylistVideo) error {
	return a.command(ctx, RemovePath, videoRef{ID: video.ID})
}

// command posts body to path once the limiter allows it and checks the [CommandResponse].
func (a *APIService) command(ctx context.Context, path string, body any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRateLimited, err)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := a.Post(ctx, path, data)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: POST %s returned status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	var result CommandResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	if !result.Success {
		if result.Message != "" {
			return fmt.Errorf("%w: %s", shared.ErrAPIRequest, result.Message)
		}
		return fmt.Errorf("%w: POST %s was not successful", shared.ErrAPIRequest, path)
	}
	return nil
}
