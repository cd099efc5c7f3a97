package models

import (
	"encoding/json"
	"time"
)

// GatewaySlugKHQR identifies the IKhode/Bakong KHQR integration row.
const GatewaySlugKHQR = "ikhode-bakong"

// PaymentGateway describes one configured payment integration. Config is an
// opaque JSON blob; WebhookSecret inside it must never reach clients.
type PaymentGateway struct {
	ID        string          `db:"id" json:"id"`
	Slug      string          `db:"slug" json:"slug"`
	Name      string          `db:"name" json:"name"`
	Enabled   bool            `db:"enabled" json:"enabled"`
	Config    json.RawMessage `db:"config" json:"-"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// GatewayConfig is the known shape of the KHQR gateway config blob.
type GatewayConfig struct {
	WebsocketURL  string `json:"websocket_url"`
	WebhookSecret string `json:"webhook_secret"`
}

// ParseConfig decodes the config blob. Unknown fields are ignored so admins
// can store extra provider settings without breaking the reader.
func (g *PaymentGateway) ParseConfig() GatewayConfig {
	var cfg GatewayConfig
	if len(g.Config) > 0 {
		_ = json.Unmarshal(g.Config, &cfg)
	}
	return cfg
}
