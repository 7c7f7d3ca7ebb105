// Package collection is a client for the record collection API served by
// internal/server.
package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient uses http.DefaultClient when httpClient is nil.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (client *Client) BaseURL() string {
	return client.baseURL
}

func (client *Client) Token() string {
	client.mu.RLock()
	defer client.mu.RUnlock()
	return client.token
}

// SetToken replaces the bearer token sent with every request. An empty token
// sends anonymous requests.
func (client *Client) SetToken(token string) {
	client.mu.Lock()
	defer client.mu.Unlock()
	client.token = token
}

func (client *Client) doRequest(ctx context.Context, method, path string, query url.Values, body, result any) error {
	target := client.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := client.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return &Error{Message: "failed to reach the server", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return parseError(resp)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}
