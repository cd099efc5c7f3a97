package g2bulk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the G2Bulk API base URL.
	DefaultBaseURL = "https://api.g2bulk.com/v1"
)

// Client is a minimal HTTP client for interacting with the G2Bulk API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	debug      bool
}

// NewClient constructs a new G2Bulk client with sane defaults.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		debug:      os.Getenv("ENV") == "development",
	}
}

// GetMe returns the supplier account info including the deposit balance.
func (c *Client) GetMe(ctx context.Context) (*AccountInfo, error) {
	var resp AccountInfo
	if err := c.doRequest(ctx, http.MethodGet, "/getMe", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetGames lists the direct top-up games available from the supplier.
func (c *Client) GetGames(ctx context.Context) (*GamesResponse, error) {
	var resp GamesResponse
	if err := c.doRequest(ctx, http.MethodGet, "/games", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCatalogue lists purchasable denominations for one game.
func (c *Client) GetCatalogue(ctx context.Context, gameCode string) (*CatalogueResponse, error) {
	var resp CatalogueResponse
	if err := c.doRequest(ctx, http.MethodGet, "/games/"+gameCode+"/catalogue", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetGameFields returns the identity fields a game requires at checkout.
func (c *Client) GetGameFields(ctx context.Context, gameCode string) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.doRequest(ctx, http.MethodPost, "/games/fields", map[string]string{"game": gameCode}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetGameServers returns the server/zone list for games that shard players.
func (c *Client) GetGameServers(ctx context.Context, gameCode string) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.doRequest(ctx, http.MethodPost, "/games/servers", map[string]string{"game": gameCode}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CheckPlayerID verifies a player id through the authenticated endpoint.
// The upstream response shape varies; see CheckPlayerResponse.Nickname.
func (c *Client) CheckPlayerID(ctx context.Context, gameCode, userID, serverID string) (*CheckPlayerResponse, error) {
	body := map[string]string{"game": gameCode, "user_id": userID}
	if serverID != "" {
		body["server_id"] = serverID
	}
	var resp CheckPlayerResponse
	if err := c.doRequest(ctx, http.MethodPost, "/games/checkPlayerId", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckPlayerIDPublic verifies a player id through the public endpoint.
// Success is indicated by valid == "valid" plus a non-empty name.
func (c *Client) CheckPlayerIDPublic(ctx context.Context, gameCode, userID, serverID string) (*CheckPlayerPublicResponse, error) {
	body := map[string]string{"game": gameCode, "user_id": userID}
	if serverID != "" {
		body["server_id"] = serverID
	}
	var resp CheckPlayerPublicResponse
	if err := c.doRequest(ctx, http.MethodPost, "/games/checkPlayerIdPublic", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateGameOrder places a fulfillment order for a direct top-up.
func (c *Client) CreateGameOrder(ctx context.Context, gameCode string, req OrderRequest) (*OrderResponse, error) {
	body := map[string]string{
		"catalogue_name": req.CatalogueName,
		"player_id":      req.PlayerID,
	}
	if req.ServerID != "" {
		body["server_id"] = req.ServerID
	}
	if req.Remark != "" {
		body["remark"] = req.Remark
	}
	var resp OrderResponse
	if err := c.doRequest(ctx, http.MethodPost, "/games/"+gameCode+"/order", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OrderStatus checks the state of a previously placed game order.
func (c *Client) OrderStatus(ctx context.Context, orderID, gameCode string) (*OrderStatusResponse, error) {
	body := map[string]string{"order_id": orderID, "game": gameCode}
	var resp OrderStatusResponse
	if err := c.doRequest(ctx, http.MethodPost, "/games/order/status", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProducts lists voucher/card/key products.
func (c *Client) GetProducts(ctx context.Context) (*ProductsResponse, error) {
	var resp ProductsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/products", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PurchaseProduct buys a voucher/key product.
func (c *Client) PurchaseProduct(ctx context.Context, productID string, quantity int) (json.RawMessage, error) {
	if quantity <= 0 {
		quantity = 1
	}
	var resp json.RawMessage
	if err := c.doRequest(ctx, http.MethodPost, "/products/"+productID+"/purchase", map[string]int{"quantity": quantity}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// doRequest performs the HTTP call with JSON payloads and decodes the JSON
// response into result.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	var reader io.Reader
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	// Debug logging for development
	if c.debug && payload != nil {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			RawJSON("request", payload).
			Msg("[G2BULK] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[G2BULK] Incoming response")
	}

	// G2Bulk often returns 200 with the outcome encapsulated in JSON, but
	// decode regardless of status code to surface any error message.
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
