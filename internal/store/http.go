package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sensorlog/sensorview/internal/models"
)

var (
	ErrHTTPRequest = errors.New("error making snapshot request")
	ErrHTTPStatus  = errors.New("error status from snapshot endpoint")
)

const defaultFetchTimeout = 30 * time.Second

// HTTPSource downloads the snapshot document once from a URL.
type HTTPSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

func (h HTTPSource) Name() string { return "http:" + h.URL }

func (h HTTPSource) Fetch(ctx context.Context) (models.Snapshot, error) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTTPRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTTPRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: got %d", ErrHTTPStatus, resp.StatusCode)
	}

	var snapshot models.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return snapshot, nil
}
