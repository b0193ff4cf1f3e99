// Package twitter implements the provider ports against the Twitter v2
// filtered-stream API: rule management over plain REST calls and the
// long-lived streaming search connection.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jamesm2w/tweetbot-v2/internal/ports"
)

const defaultBaseURL = "https://api.twitter.com/2"

// Client talks to the filtered-stream API. It implements ports.RuleService
// and ports.StreamProvider.
//
// apiClient serves the short rule-management calls and should carry a
// timeout; streamClient serves the long-lived streaming GET and must not.
type Client struct {
	apiClient    ports.HTTPClient
	streamClient ports.HTTPClient
	bearerToken  string
	logger       ports.Logger
	baseURL      string
}

// NewClient creates a filtered-stream API client.
func NewClient(apiClient, streamClient ports.HTTPClient, bearerToken string, logger ports.Logger) *Client {
	return &Client{
		apiClient:    apiClient,
		streamClient: streamClient,
		bearerToken:  bearerToken,
		logger:       logger,
		baseURL:      defaultBaseURL,
	}
}

// do issues one JSON API request with bearer auth and decodes the response
// into out when it is non-nil.
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.apiClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
