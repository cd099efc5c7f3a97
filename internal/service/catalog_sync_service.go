package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/kesorhosting-wq/testtopupkesor/internal/cache"
	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/repository"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/g2bulk"
)

type supplierCatalog interface {
	GetGames(ctx context.Context) (*g2bulk.GamesResponse, error)
	GetCatalogue(ctx context.Context, gameCode string) (*g2bulk.CatalogueResponse, error)
	GetProducts(ctx context.Context) (*g2bulk.ProductsResponse, error)
}

type productMirror interface {
	Upsert(p *models.G2BulkProduct) (bool, error)
	DeactivateStale(cutoff time.Time) (int64, error)
	Stats() (*repository.SyncStats, error)
}

type gameImportStore interface {
	List(activeOnly bool) ([]models.Game, error)
	Create(g *models.Game) error
}

type packageImportStore interface {
	ListLinked() ([]models.Package, error)
	Create(p *models.Package) error
	UpdatePriceByProductID(productID string, price decimal.Decimal) (int64, error)
}

// CachedSupplier layers the Redis catalog cache over the supplier client so
// repeated listing reads inside one sync window hit Redis, not the API.
type CachedSupplier struct {
	client supplierCatalog
	cache  *cache.CatalogCache
}

// NewCachedSupplier wraps client with the catalog cache. cache may be nil.
func NewCachedSupplier(client supplierCatalog, c *cache.CatalogCache) *CachedSupplier {
	return &CachedSupplier{client: client, cache: c}
}

func (c *CachedSupplier) GetGames(ctx context.Context) (*g2bulk.GamesResponse, error) {
	if c.cache != nil {
		if games := c.cache.GetGames(ctx); games != nil {
			return &g2bulk.GamesResponse{Success: true, Games: games}, nil
		}
	}
	resp, err := c.client.GetGames(ctx)
	if err != nil {
		return nil, err
	}
	if c.cache != nil && resp.Success {
		c.cache.SetGames(ctx, resp.Games)
	}
	return resp, nil
}

func (c *CachedSupplier) GetCatalogue(ctx context.Context, gameCode string) (*g2bulk.CatalogueResponse, error) {
	if c.cache != nil {
		if cats := c.cache.GetCatalogue(ctx, gameCode); cats != nil {
			return &g2bulk.CatalogueResponse{Success: true, Catalogues: cats}, nil
		}
	}
	resp, err := c.client.GetCatalogue(ctx, gameCode)
	if err != nil {
		return nil, err
	}
	if c.cache != nil && resp.Success {
		c.cache.SetCatalogue(ctx, gameCode, resp.Catalogues)
	}
	return resp, nil
}

func (c *CachedSupplier) GetProducts(ctx context.Context) (*g2bulk.ProductsResponse, error) {
	return c.client.GetProducts(ctx)
}

// SyncProductsResult summarizes one mirror sync.
type SyncProductsResult struct {
	Synced      int `json:"synced"`
	Categories  int `json:"categories"`
	Deactivated int `json:"deactivated"`
}

// BulkImportOptions tunes a catalog import into the storefront tables.
type BulkImportOptions struct {
	PriceMarkupPercent   float64  `json:"price_markup_percent"`
	UpdateExistingPrices bool     `json:"update_existing_prices"`
	SelectedGameCodes    []string `json:"selected_game_codes"`
}

// BulkImportResult reports what an import created, skipped, and updated.
type BulkImportResult struct {
	GamesCreated       int     `json:"games_created"`
	GamesSkipped       int     `json:"games_skipped"`
	PackagesCreated    int     `json:"packages_created"`
	PackagesSkipped    int     `json:"packages_skipped"`
	PackagesUpdated    int     `json:"packages_updated"`
	PriceMarkupPercent float64 `json:"price_markup_percent"`
}

// BatchSyncDetail is the per-game outcome of a batch sync.
type BatchSyncDetail struct {
	Code   string `json:"code"`
	Synced int    `json:"synced"`
	Error  string `json:"error,omitempty"`
}

// BatchSyncResult summarizes a multi-game mirror sync.
type BatchSyncResult struct {
	TotalSynced int               `json:"total_synced"`
	Games       int               `json:"games"`
	Details     []BatchSyncDetail `json:"details"`
}

// CatalogSyncService pulls the supplier catalog into the local mirror and,
// on demand, imports it into the storefront's games/packages tables with a
// configurable markup.
type CatalogSyncService struct {
	supplier supplierCatalog
	mirror   productMirror
	games    gameImportStore
	packages packageImportStore
}

// NewCatalogSyncService creates a CatalogSyncService.
func NewCatalogSyncService(supplier supplierCatalog, mirror productMirror, games gameImportStore, packages packageImportStore) *CatalogSyncService {
	return &CatalogSyncService{supplier: supplier, mirror: mirror, games: games, packages: packages}
}

// SyncProducts refreshes the full mirror: every game catalogue entry as a
// recharge product plus every voucher/card as a card product. Entries the
// supplier no longer lists go inactive.
func (s *CatalogSyncService) SyncProducts(ctx context.Context) (*SyncProductsResult, error) {
	start := time.Now()
	synced := 0
	gameNames := map[string]struct{}{}

	gamesResp, err := s.supplier.GetGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier games: %w", err)
	}
	if gamesResp.Success {
		for _, game := range gamesResp.Games {
			catResp, err := s.supplier.GetCatalogue(ctx, game.Code)
			if err != nil || !catResp.Success {
				log.Warn().Err(err).Str("game_code", game.Code).Msg("skipping game catalogue")
				continue
			}
			for _, cat := range catResp.Catalogues {
				fields, _ := json.Marshal(map[string]string{"game_code": game.Code})
				p := &models.G2BulkProduct{
					G2BulkProductID: fmt.Sprintf("game_%s_%s", game.Code, cat.ID.String()),
					G2BulkTypeID:    cat.ID.String(),
					GameName:        game.Name,
					ProductName:     cat.Name,
					Denomination:    cat.Name,
					Price:           decimalFromNumber(cat.Amount),
					Currency:        "USD",
					ProductType:     "recharge",
					Fields:          fields,
					IsActive:        true,
				}
				if _, err := s.mirror.Upsert(p); err != nil {
					log.Error().Err(err).Str("product_id", p.G2BulkProductID).Msg("mirror upsert failed")
					continue
				}
				synced++
				gameNames[game.Name] = struct{}{}
			}
		}
	}

	productsResp, err := s.supplier.GetProducts(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to list supplier card products")
	} else if productsResp.Success {
		for _, product := range productsResp.Products {
			gameName := product.CategoryTitle
			if gameName == "" {
				gameName = "Vouchers"
			}
			fields, _ := json.Marshal(map[string]int{"stock": product.Stock})
			p := &models.G2BulkProduct{
				G2BulkProductID: "card_" + product.ID.String(),
				G2BulkTypeID:    product.ID.String(),
				GameName:        gameName,
				ProductName:     product.Title,
				Denomination:    product.Title,
				Price:           decimalFromNumber(product.UnitPrice),
				Currency:        "USD",
				ProductType:     "card",
				Fields:          fields,
				IsActive:        true,
			}
			if _, err := s.mirror.Upsert(p); err != nil {
				log.Error().Err(err).Str("product_id", p.G2BulkProductID).Msg("mirror upsert failed")
				continue
			}
			synced++
			gameNames[gameName] = struct{}{}
		}
	}

	deactivated, err := s.mirror.DeactivateStale(start)
	if err != nil {
		log.Error().Err(err).Msg("failed to deactivate stale mirror rows")
	}

	log.Info().Int("synced", synced).Int64("deactivated", deactivated).Msg("product mirror sync complete")
	return &SyncProductsResult{Synced: synced, Categories: len(gameNames), Deactivated: int(deactivated)}, nil
}

// BulkImport creates storefront games and packages from the supplier
// catalog. Existing games and packages are skipped; with
// UpdateExistingPrices set, linked package prices are refreshed to the
// marked-up supplier price.
func (s *CatalogSyncService) BulkImport(ctx context.Context, opts BulkImportOptions) (*BulkImportResult, error) {
	if opts.PriceMarkupPercent == 0 {
		opts.PriceMarkupPercent = 10
	}
	markup := decimal.NewFromFloat(1 + opts.PriceMarkupPercent/100)
	result := &BulkImportResult{PriceMarkupPercent: opts.PriceMarkupPercent}

	existingGames, err := s.games.List(false)
	if err != nil {
		return nil, err
	}
	gameIDByName := map[string]string{}
	gameIDByCode := map[string]string{}
	for _, g := range existingGames {
		gameIDByName[strings.ToLower(g.Name)] = g.ID
		if g.G2BulkCategoryID != nil {
			gameIDByCode[*g.G2BulkCategoryID] = g.ID
		}
	}

	linked, err := s.packages.ListLinked()
	if err != nil {
		return nil, err
	}
	packageByProductID := map[string]models.Package{}
	for _, p := range linked {
		packageByProductID[*p.G2BulkProductID] = p
	}

	gamesResp, err := s.supplier.GetGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier games: %w", err)
	}
	if !gamesResp.Success {
		return nil, fmt.Errorf("supplier games listing rejected: %s", gamesResp.Message)
	}

	selected := map[string]struct{}{}
	for _, code := range opts.SelectedGameCodes {
		selected[code] = struct{}{}
	}

	for _, game := range gamesResp.Games {
		if len(selected) > 0 {
			if _, ok := selected[game.Code]; !ok {
				continue
			}
		}

		gameID, exists := gameIDByCode[game.Code]
		if !exists {
			gameID, exists = gameIDByName[strings.ToLower(game.Name)]
		}
		if exists {
			result.GamesSkipped++
		} else {
			code := game.Code
			newGame := &models.Game{
				ID:               uuid.New().String(),
				Name:             game.Name,
				Image:            game.Image,
				G2BulkCategoryID: &code,
				IsActive:         true,
			}
			if err := s.games.Create(newGame); err != nil {
				log.Error().Err(err).Str("game", game.Name).Msg("failed to create game")
				continue
			}
			result.GamesCreated++
			gameID = newGame.ID
			gameIDByName[strings.ToLower(game.Name)] = gameID
			gameIDByCode[game.Code] = gameID
		}

		catResp, err := s.supplier.GetCatalogue(ctx, game.Code)
		if err != nil || !catResp.Success {
			log.Warn().Err(err).Str("game_code", game.Code).Msg("skipping game catalogue during import")
			continue
		}

		for _, cat := range catResp.Catalogues {
			productID := fmt.Sprintf("game_%s_%s", game.Code, cat.ID.String())
			finalPrice := decimalFromNumber(cat.Amount).Mul(markup).Round(2)

			if existing, ok := packageByProductID[productID]; ok {
				if opts.UpdateExistingPrices && !existing.Price.Equal(finalPrice) {
					if _, err := s.packages.UpdatePriceByProductID(productID, finalPrice); err != nil {
						log.Error().Err(err).Str("product_id", productID).Msg("failed to update package price")
					} else {
						result.PackagesUpdated++
					}
				}
				result.PackagesSkipped++
				continue
			}

			typeID := cat.ID.String()
			pid := productID
			pkg := &models.Package{
				ID:              uuid.New().String(),
				GameID:          gameID,
				Name:            cat.Name,
				Amount:          cat.Name,
				Price:           finalPrice,
				G2BulkProductID: &pid,
				G2BulkTypeID:    &typeID,
				IsActive:        true,
			}
			if err := s.packages.Create(pkg); err != nil {
				log.Error().Err(err).Str("product_id", productID).Msg("failed to create package")
				continue
			}
			result.PackagesCreated++
			packageByProductID[productID] = *pkg
		}
	}

	log.Info().
		Int("games_created", result.GamesCreated).
		Int("packages_created", result.PackagesCreated).
		Int("packages_updated", result.PackagesUpdated).
		Msg("bulk import complete")
	return result, nil
}

// SyncGamesBatch refreshes the mirror for a chosen set of game codes only.
func (s *CatalogSyncService) SyncGamesBatch(ctx context.Context, gameCodes []string) (*BatchSyncResult, error) {
	if len(gameCodes) == 0 {
		return nil, fmt.Errorf("no game codes supplied")
	}

	gamesResp, err := s.supplier.GetGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier games: %w", err)
	}
	nameByCode := map[string]string{}
	for _, g := range gamesResp.Games {
		nameByCode[g.Code] = g.Name
	}

	result := &BatchSyncResult{}
	for _, code := range gameCodes {
		detail := BatchSyncDetail{Code: code}

		catResp, err := s.supplier.GetCatalogue(ctx, code)
		if err != nil {
			detail.Error = "catalogue fetch failed"
			result.Details = append(result.Details, detail)
			continue
		}
		if !catResp.Success || len(catResp.Catalogues) == 0 {
			detail.Error = "No catalogue"
			result.Details = append(result.Details, detail)
			continue
		}

		gameName := nameByCode[code]
		if gameName == "" {
			gameName = code
		}
		for _, cat := range catResp.Catalogues {
			fields, _ := json.Marshal(map[string]string{"game_code": code})
			p := &models.G2BulkProduct{
				G2BulkProductID: fmt.Sprintf("game_%s_%s", code, cat.ID.String()),
				G2BulkTypeID:    cat.ID.String(),
				GameName:        gameName,
				ProductName:     cat.Name,
				Denomination:    cat.Name,
				Price:           decimalFromNumber(cat.Amount),
				Currency:        "USD",
				ProductType:     "recharge",
				Fields:          fields,
				IsActive:        true,
			}
			if _, err := s.mirror.Upsert(p); err != nil {
				log.Error().Err(err).Str("product_id", p.G2BulkProductID).Msg("mirror upsert failed")
				continue
			}
			detail.Synced++
		}
		result.TotalSynced += detail.Synced
		result.Details = append(result.Details, detail)
	}
	result.Games = len(result.Details)
	return result, nil
}

// Stats returns mirror counts for the admin dashboard.
func (s *CatalogSyncService) Stats() (*repository.SyncStats, error) {
	return s.mirror.Stats()
}

// decimalFromNumber parses a supplier json.Number price, defaulting to zero
// on garbage rather than aborting a whole sync.
func decimalFromNumber(n json.Number) decimal.Decimal {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
