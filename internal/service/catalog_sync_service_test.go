package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/repository"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/g2bulk"
)

type fakeSupplierCatalog struct {
	games      []g2bulk.Game
	catalogues map[string][]g2bulk.Catalogue
	products   []g2bulk.Product
}

func (f *fakeSupplierCatalog) GetGames(ctx context.Context) (*g2bulk.GamesResponse, error) {
	return &g2bulk.GamesResponse{Success: true, Games: f.games}, nil
}

func (f *fakeSupplierCatalog) GetCatalogue(ctx context.Context, gameCode string) (*g2bulk.CatalogueResponse, error) {
	return &g2bulk.CatalogueResponse{Success: true, Catalogues: f.catalogues[gameCode]}, nil
}

func (f *fakeSupplierCatalog) GetProducts(ctx context.Context) (*g2bulk.ProductsResponse, error) {
	return &g2bulk.ProductsResponse{Success: true, Products: f.products}, nil
}

type fakeMirror struct {
	upserts     []models.G2BulkProduct
	deactivated int64
}

func (f *fakeMirror) Upsert(p *models.G2BulkProduct) (bool, error) {
	f.upserts = append(f.upserts, *p)
	return true, nil
}

func (f *fakeMirror) DeactivateStale(cutoff time.Time) (int64, error) {
	return f.deactivated, nil
}

func (f *fakeMirror) Stats() (*repository.SyncStats, error) {
	return &repository.SyncStats{TotalProducts: len(f.upserts)}, nil
}

type fakeGameImportStore struct {
	games   []models.Game
	created []models.Game
}

func (f *fakeGameImportStore) List(activeOnly bool) ([]models.Game, error) {
	return f.games, nil
}

func (f *fakeGameImportStore) Create(g *models.Game) error {
	f.created = append(f.created, *g)
	return nil
}

type fakePackageImportStore struct {
	linked       []models.Package
	created      []models.Package
	priceUpdates map[string]decimal.Decimal
}

func (f *fakePackageImportStore) ListLinked() ([]models.Package, error) {
	return f.linked, nil
}

func (f *fakePackageImportStore) Create(p *models.Package) error {
	f.created = append(f.created, *p)
	return nil
}

func (f *fakePackageImportStore) UpdatePriceByProductID(productID string, price decimal.Decimal) (int64, error) {
	if f.priceUpdates == nil {
		f.priceUpdates = map[string]decimal.Decimal{}
	}
	f.priceUpdates[productID] = price
	return 1, nil
}

func supplierFixture() *fakeSupplierCatalog {
	return &fakeSupplierCatalog{
		games: []g2bulk.Game{
			{Code: "mlbb", Name: "Mobile Legends"},
			{Code: "genshin", Name: "Genshin Impact"},
		},
		catalogues: map[string][]g2bulk.Catalogue{
			"mlbb": {
				{ID: json.Number("101"), Name: "86 Diamonds", Amount: json.Number("1.44")},
				{ID: json.Number("102"), Name: "172 Diamonds", Amount: json.Number("2.88")},
			},
			"genshin": {
				{ID: json.Number("201"), Name: "60 Crystals", Amount: json.Number("0.99")},
			},
		},
		products: []g2bulk.Product{
			{ID: json.Number("900"), Title: "Steam Wallet $5", UnitPrice: json.Number("5.25"), Stock: 3, CategoryTitle: "Steam"},
		},
	}
}

func TestSyncProductsMirrorsGamesAndCards(t *testing.T) {
	mirror := &fakeMirror{deactivated: 2}
	svc := NewCatalogSyncService(supplierFixture(), mirror, &fakeGameImportStore{}, &fakePackageImportStore{})

	result, err := svc.SyncProducts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Synced)
	assert.Equal(t, 3, result.Categories) // Mobile Legends, Genshin Impact, Steam
	assert.Equal(t, 2, result.Deactivated)

	require.Len(t, mirror.upserts, 4)
	assert.Equal(t, "game_mlbb_101", mirror.upserts[0].G2BulkProductID)
	assert.Equal(t, "recharge", mirror.upserts[0].ProductType)
	assert.Equal(t, "card_900", mirror.upserts[3].G2BulkProductID)
	assert.Equal(t, "card", mirror.upserts[3].ProductType)
}

func TestBulkImportAppliesDefaultMarkup(t *testing.T) {
	games := &fakeGameImportStore{}
	packages := &fakePackageImportStore{}
	svc := NewCatalogSyncService(supplierFixture(), &fakeMirror{}, games, packages)

	result, err := svc.BulkImport(context.Background(), BulkImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.GamesCreated)
	assert.Equal(t, 3, result.PackagesCreated)
	assert.Equal(t, float64(10), result.PriceMarkupPercent)

	// 1.44 * 1.10 = 1.584 -> 1.58 after rounding to cents.
	require.NotEmpty(t, packages.created)
	assert.True(t, packages.created[0].Price.Equal(decimal.NewFromFloat(1.58)),
		"got %s", packages.created[0].Price)
}

func TestBulkImportCustomMarkup(t *testing.T) {
	packages := &fakePackageImportStore{}
	svc := NewCatalogSyncService(supplierFixture(), &fakeMirror{}, &fakeGameImportStore{}, packages)

	_, err := svc.BulkImport(context.Background(), BulkImportOptions{PriceMarkupPercent: 50})
	require.NoError(t, err)

	// 1.44 * 1.50 = 2.16
	assert.True(t, packages.created[0].Price.Equal(decimal.NewFromFloat(2.16)))
}

func TestBulkImportSkipsExistingGamesAndPackages(t *testing.T) {
	code := "mlbb"
	productID := "game_mlbb_101"
	games := &fakeGameImportStore{games: []models.Game{
		{ID: "g1", Name: "Mobile Legends", G2BulkCategoryID: &code},
	}}
	packages := &fakePackageImportStore{linked: []models.Package{
		{ID: "p1", GameID: "g1", G2BulkProductID: &productID, Price: decimal.NewFromFloat(1.58)},
	}}
	svc := NewCatalogSyncService(supplierFixture(), &fakeMirror{}, games, packages)

	result, err := svc.BulkImport(context.Background(), BulkImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.GamesSkipped)
	assert.Equal(t, 1, result.GamesCreated) // genshin is new
	assert.Equal(t, 1, result.PackagesSkipped)
	assert.Equal(t, 2, result.PackagesCreated)
	require.Len(t, games.created, 1)
	assert.Equal(t, "Genshin Impact", games.created[0].Name, "existing game must not be recreated")
}

func TestBulkImportUpdatesExistingPrices(t *testing.T) {
	code := "mlbb"
	productID := "game_mlbb_101"
	games := &fakeGameImportStore{games: []models.Game{
		{ID: "g1", Name: "Mobile Legends", G2BulkCategoryID: &code},
	}}
	packages := &fakePackageImportStore{linked: []models.Package{
		{ID: "p1", GameID: "g1", G2BulkProductID: &productID, Price: decimal.NewFromFloat(9.99)},
	}}
	svc := NewCatalogSyncService(supplierFixture(), &fakeMirror{}, games, packages)

	result, err := svc.BulkImport(context.Background(), BulkImportOptions{
		UpdateExistingPrices: true,
		SelectedGameCodes:    []string{"mlbb"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.PackagesUpdated)
	assert.True(t, packages.priceUpdates[productID].Equal(decimal.NewFromFloat(1.58)))
	assert.Equal(t, 0, result.GamesCreated, "selection filter must exclude genshin")
}

func TestSyncGamesBatchReportsPerGame(t *testing.T) {
	mirror := &fakeMirror{}
	svc := NewCatalogSyncService(supplierFixture(), mirror, &fakeGameImportStore{}, &fakePackageImportStore{})

	result, err := svc.SyncGamesBatch(context.Background(), []string{"mlbb", "unknown"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Games)
	assert.Equal(t, 2, result.TotalSynced)
	require.Len(t, result.Details, 2)
	assert.Equal(t, 2, result.Details[0].Synced)
	assert.Equal(t, "No catalogue", result.Details[1].Error)
}
