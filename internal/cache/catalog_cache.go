package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/pkg/g2bulk"
)

const (
	catalogGamesKey     = "g2bulk:games"
	catalogCataloguePfx = "g2bulk:catalogue:"
	catalogResponsesTTL = 10 * time.Minute
)

// CatalogCache keeps recent G2Bulk catalog responses in Redis so repeated
// admin sync/stat reads and verification lookups do not hammer the supplier.
type CatalogCache struct {
	redis *RedisClient
}

// NewCatalogCache creates a CatalogCache backed by the given Redis client.
func NewCatalogCache(redis *RedisClient) *CatalogCache {
	return &CatalogCache{redis: redis}
}

// GetGames returns the cached games listing, or nil on miss.
func (c *CatalogCache) GetGames(ctx context.Context) []g2bulk.Game {
	raw, err := c.redis.Get(ctx, catalogGamesKey)
	if err != nil {
		if !IsNotFound(err) {
			log.Warn().Err(err).Msg("catalog cache read failed")
		}
		return nil
	}
	var games []g2bulk.Game
	if err := json.Unmarshal([]byte(raw), &games); err != nil {
		return nil
	}
	return games
}

// SetGames stores the games listing.
func (c *CatalogCache) SetGames(ctx context.Context, games []g2bulk.Game) {
	data, err := json.Marshal(games)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, catalogGamesKey, string(data), catalogResponsesTTL); err != nil {
		log.Warn().Err(err).Msg("catalog cache write failed")
	}
}

// GetCatalogue returns the cached catalogue for one game, or nil on miss.
func (c *CatalogCache) GetCatalogue(ctx context.Context, gameCode string) []g2bulk.Catalogue {
	raw, err := c.redis.Get(ctx, catalogCataloguePfx+gameCode)
	if err != nil {
		if !IsNotFound(err) {
			log.Warn().Err(err).Msg("catalog cache read failed")
		}
		return nil
	}
	var catalogues []g2bulk.Catalogue
	if err := json.Unmarshal([]byte(raw), &catalogues); err != nil {
		return nil
	}
	return catalogues
}

// SetCatalogue stores one game's catalogue.
func (c *CatalogCache) SetCatalogue(ctx context.Context, gameCode string, catalogues []g2bulk.Catalogue) {
	data, err := json.Marshal(catalogues)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, catalogCataloguePfx+gameCode, string(data), catalogResponsesTTL); err != nil {
		log.Warn().Err(err).Msg("catalog cache write failed")
	}
}

// Invalidate drops all catalog keys for a clean resync.
func (c *CatalogCache) Invalidate(ctx context.Context, gameCodes ...string) {
	keys := []string{catalogGamesKey}
	for _, code := range gameCodes {
		keys = append(keys, catalogCataloguePfx+code)
	}
	if err := c.redis.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidate failed")
	}
}
