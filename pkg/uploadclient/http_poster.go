package uploadclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPPoster is the net/http implementation of Poster
type HTTPPoster struct {
	baseURL string
	client  *http.Client
}

// NewHTTPPoster creates a poster that sends requests to baseURL.
// A nil client gets a default with a 30 second timeout.
func NewHTTPPoster(baseURL string, client *http.Client) *HTTPPoster {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPPoster{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Post sends the multipart body to baseURL+endpoint and reads the
// full response
func (p *HTTPPoster) Post(ctx context.Context, endpoint, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+endpoint, body)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
