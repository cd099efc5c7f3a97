package isan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the public nickname API base URL.
	DefaultBaseURL = "https://api.isan.eu.org/nickname"
)

// endpointByGame is the allow-list of titles the free API supports, mapping
// canonical game labels to the API's endpoint path. Titles absent here are
// never attempted against this provider.
var endpointByGame = map[string]string{
	"mlbb":            "ml",
	"mlbb_ru":         "ml",
	"mlbb_br":         "ml",
	"mlbb_global":     "ml",
	"mlbb_promo":      "ml",
	"mlbb_special":    "ml",
	"mlbb_exclusive":  "ml",
	"freefire_global": "ff",
	"genshin":         "gi",
	"aov":             "aov",
	"pubgm":           "pubg",
}

// Supports reports whether the free API can resolve the given canonical game.
func Supports(gameCode string) bool {
	_, ok := endpointByGame[gameCode]
	return ok
}

// Client calls the free public nickname lookup API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient constructs a client with sane defaults.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

type lookupResponse struct {
	Success  *bool  `json:"success,omitempty"`
	Status   *bool  `json:"status,omitempty"`
	Name     string `json:"name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Lookup resolves a player nickname. Returns the empty string (nil error)
// when the API answered but could not verify the player, and an error only
// for transport/decode failures or unsupported games.
func (c *Client) Lookup(ctx context.Context, gameCode, userID, zone string) (string, error) {
	path, ok := endpointByGame[gameCode]
	if !ok {
		return "", fmt.Errorf("game %q not supported by free lookup", gameCode)
	}

	q := url.Values{"id": {userID}}
	if zone != "" {
		q.Set("zone", zone)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("free lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var out lookupResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode free lookup response: %w", err)
	}

	ok = (out.Success != nil && *out.Success) || (out.Status != nil && *out.Status)
	if !ok {
		return "", nil
	}
	if out.Name != "" {
		return out.Name, nil
	}
	return out.Nickname, nil
}
