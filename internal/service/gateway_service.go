package service

import (
	"database/sql"
	"encoding/json"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

type gatewayStore interface {
	GetBySlug(slug string) (*models.PaymentGateway, error)
	List() ([]models.PaymentGateway, error)
	Update(slug string, enabled bool, config json.RawMessage) error
}

// PublicGatewayConfig is the client-safe view of the KHQR gateway. The
// webhook secret never appears here.
type PublicGatewayConfig struct {
	ID           string  `json:"id,omitempty"`
	Enabled      bool    `json:"enabled"`
	WebsocketURL *string `json:"websocket_url"`
}

// GatewayService reads and updates payment gateway configuration.
type GatewayService struct {
	store gatewayStore
}

// NewGatewayService creates a GatewayService.
func NewGatewayService(store gatewayStore) *GatewayService {
	return &GatewayService{store: store}
}

// PublicKHQRConfig returns the gateway view safe to expose to any client.
// A missing row reports as disabled rather than an error.
func (s *GatewayService) PublicKHQRConfig() (*PublicGatewayConfig, error) {
	gw, err := s.store.GetBySlug(models.GatewaySlugKHQR)
	if err != nil {
		return nil, err
	}
	if gw == nil {
		return &PublicGatewayConfig{Enabled: false, WebsocketURL: nil}, nil
	}

	out := &PublicGatewayConfig{ID: gw.ID, Enabled: gw.Enabled}
	if cfg := gw.ParseConfig(); cfg.WebsocketURL != "" {
		out.WebsocketURL = &cfg.WebsocketURL
	}
	return out, nil
}

// WebhookSecret returns the configured KHQR webhook secret. Read per request
// so admin edits take effect without a restart. ErrGatewayDisabled when the
// gateway is off or no secret is set: the webhook must reject in that case
// rather than accept unauthenticated calls.
func (s *GatewayService) WebhookSecret() (string, error) {
	gw, err := s.store.GetBySlug(models.GatewaySlugKHQR)
	if err != nil {
		return "", err
	}
	if gw == nil || !gw.Enabled {
		return "", utils.ErrGatewayDisabled
	}
	secret := gw.ParseConfig().WebhookSecret
	if secret == "" {
		return "", utils.ErrGatewayDisabled
	}
	return secret, nil
}

// RotateWebhookSecret generates a fresh webhook secret for a gateway and
// persists it, preserving the rest of the config blob. Returns the new
// secret so the admin can copy it into the gateway dashboard; it is never
// shown again outside the admin config view.
func (s *GatewayService) RotateWebhookSecret(slug string) (string, error) {
	gw, err := s.store.GetBySlug(slug)
	if err != nil {
		return "", err
	}
	if gw == nil {
		return "", sql.ErrNoRows
	}

	secret, err := utils.GenerateWebhookSecret()
	if err != nil {
		return "", err
	}

	cfg := map[string]any{}
	if len(gw.Config) > 0 {
		if err := json.Unmarshal(gw.Config, &cfg); err != nil {
			cfg = map[string]any{}
		}
	}
	cfg["webhook_secret"] = secret

	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	if err := s.store.Update(slug, gw.Enabled, raw); err != nil {
		return "", err
	}
	return secret, nil
}

// List returns all gateways for the admin panel, configs included.
func (s *GatewayService) List() ([]models.PaymentGateway, error) {
	return s.store.List()
}

// Update sets a gateway's enabled flag and config blob.
func (s *GatewayService) Update(slug string, enabled bool, config json.RawMessage) error {
	return s.store.Update(slug, enabled, config)
}
