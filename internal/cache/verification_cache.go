package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
)

// ConfigLoader fetches the active verification configs from the store.
type ConfigLoader func(ctx context.Context) ([]models.GameVerificationConfig, error)

// VerificationConfigCache holds the active game verification configs in
// memory for a bounded TTL. The clock is injected so expiry is testable.
// On a reload failure the previous snapshot is served stale rather than
// failing lookups.
type VerificationConfigCache struct {
	loader ConfigLoader
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	configs  []models.GameVerificationConfig
	loadedAt time.Time
}

// NewVerificationConfigCache creates the cache. now may be nil for the real
// clock.
func NewVerificationConfigCache(loader ConfigLoader, ttl time.Duration, now func() time.Time) *VerificationConfigCache {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &VerificationConfigCache{loader: loader, ttl: ttl, now: now}
}

// snapshot returns the current config list, reloading if the TTL lapsed.
func (c *VerificationConfigCache) snapshot(ctx context.Context) []models.GameVerificationConfig {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := !c.loadedAt.IsZero() && c.now().Sub(c.loadedAt) < c.ttl
	if fresh {
		return c.configs
	}

	configs, err := c.loader(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("verification config reload failed, serving stale cache")
		return c.configs
	}
	c.configs = configs
	c.loadedAt = c.now()
	return c.configs
}

// Lookup resolves a config for the given game name. Match priority: exact
// name, lower-cased name, normalized name, normalized lower-cased name.
// normalized is the canonical label produced by the name normalizer.
func (c *VerificationConfigCache) Lookup(ctx context.Context, gameName, normalized string) *models.GameVerificationConfig {
	configs := c.snapshot(ctx)
	if len(configs) == 0 {
		return nil
	}

	keys := []string{
		gameName,
		strings.ToLower(gameName),
		normalized,
		strings.ToLower(normalized),
	}
	for _, key := range keys {
		for i := range configs {
			cfg := &configs[i]
			if !cfg.IsActive {
				continue
			}
			if cfg.GameName == key || strings.ToLower(cfg.GameName) == strings.ToLower(key) {
				return cfg
			}
		}
	}
	return nil
}

// Invalidate forces a reload on the next lookup (used after admin edits).
func (c *VerificationConfigCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadedAt = time.Time{}
}
