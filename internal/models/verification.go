package models

import "time"

type VerificationProvider string

const (
	ProviderG2Bulk       VerificationProvider = "g2bulk"
	ProviderRoblox       VerificationProvider = "roblox"
	ProviderMinecraft    VerificationProvider = "minecraft"
	ProviderFreeFallback VerificationProvider = "free"
)

// GameVerificationConfig maps a catalog game name to an upstream ID-check
// provider. At most one active row should resolve per normalized game name.
type GameVerificationConfig struct {
	ID           string               `db:"id" json:"id"`
	GameName     string               `db:"game_name" json:"gameName"`
	APICode      string               `db:"api_code" json:"apiCode"`
	APIProvider  VerificationProvider `db:"api_provider" json:"apiProvider"`
	RequiresZone bool                 `db:"requires_zone" json:"requiresZone"`
	DefaultZone  *string              `db:"default_zone" json:"defaultZone,omitempty"`
	IsActive     bool                 `db:"is_active" json:"isActive"`
	CreatedAt    time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time            `db:"updated_at" json:"updatedAt"`
}
