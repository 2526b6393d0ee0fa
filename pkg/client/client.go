// Package client is a small Go client for the POS backend, meant for
// terminal-side tooling. Retrieval methods never panic and never return
// a bare error for "nothing there": every call yields a tagged result so
// the caller can tell "no data" apart from "request failed".
package client

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Status tags the outcome of a retrieval.
type Status int

const (
	// StatusOK: the request succeeded and returned data.
	StatusOK Status = iota
	// StatusEmpty: the request succeeded but there was nothing to return.
	StatusEmpty
	// StatusNotFound: the server answered 404 for the requested resource.
	StatusNotFound
	// StatusFailed: transport error or unexpected HTTP status; Err is set.
	StatusFailed
)

type Client struct {
	BaseURL    string
	Token      string // bearer token, attached when non-empty
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
