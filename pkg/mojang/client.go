package mojang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the Mojang profile API base URL.
	DefaultBaseURL = "https://api.mojang.com"
)

// Client resolves Minecraft usernames to profiles.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient constructs a Mojang client with sane defaults.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

// Profile is a Minecraft account profile.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LookupUsername resolves a Minecraft username to its profile. A nil profile
// with a nil error means the name does not exist (Mojang replies 204 or 404).
func (c *Client) LookupUsername(ctx context.Context, username string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/profiles/minecraft/"+username, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mojang request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var p Profile
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("failed to decode mojang response: %w", err)
		}
		return &p, nil
	case http.StatusNoContent, http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("mojang returned status %d", resp.StatusCode)
	}
}
