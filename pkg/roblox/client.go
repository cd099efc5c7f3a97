package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the Roblox users API base URL.
	DefaultBaseURL = "https://users.roblox.com/v1"
)

// Client looks up Roblox users by username.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient constructs a Roblox client with sane defaults.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

// User is one entry of a username lookup result.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type lookupRequest struct {
	Usernames          []string `json:"usernames"`
	ExcludeBannedUsers bool     `json:"excludeBannedUsers"`
}

type lookupResponse struct {
	Data []User `json:"data"`
}

// LookupUsername resolves a username to a Roblox user. A nil user with a nil
// error means the name does not exist.
func (c *Client) LookupUsername(ctx context.Context, username string) (*User, error) {
	payload, err := json.Marshal(lookupRequest{Usernames: []string{username}, ExcludeBannedUsers: true})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/usernames/users", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("roblox request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roblox returned status %d", resp.StatusCode)
	}

	var out lookupResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode roblox response: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return &out.Data[0], nil
}
