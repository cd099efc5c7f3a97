package models

import (
	"encoding/json"
	"time"
)

// SiteSetting is one keyed blob of storefront theming/content managed by the
// admin CMS (banner, colors, social links, ...).
type SiteSetting struct {
	Key       string          `db:"key" json:"key"`
	Value     json.RawMessage `db:"value" json:"value"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}
