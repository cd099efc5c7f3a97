package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
)

type fakeDataGames struct {
	rows map[string]*models.Game
}

func (f *fakeDataGames) List(activeOnly bool) ([]models.Game, error) {
	out := []models.Game{}
	for _, g := range f.rows {
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeDataGames) GetByID(id string) (*models.Game, error) { return f.rows[id], nil }

func (f *fakeDataGames) Create(g *models.Game) error {
	f.rows[g.ID] = g
	return nil
}

func (f *fakeDataGames) Update(g *models.Game) error {
	f.rows[g.ID] = g
	return nil
}

type fakeDataPackages struct {
	rows    map[string]*models.Package
	special map[string]*models.SpecialPackage
}

func (f *fakeDataPackages) ListAll() ([]models.Package, error) {
	out := []models.Package{}
	for _, p := range f.rows {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeDataPackages) ListAllSpecial() ([]models.SpecialPackage, error) {
	out := []models.SpecialPackage{}
	for _, p := range f.special {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeDataPackages) GetByID(id string) (*models.Package, error) { return f.rows[id], nil }

func (f *fakeDataPackages) Create(p *models.Package) error {
	f.rows[p.ID] = p
	return nil
}

func (f *fakeDataPackages) Update(p *models.Package) error {
	f.rows[p.ID] = p
	return nil
}

func (f *fakeDataPackages) GetSpecialByID(id string) (*models.SpecialPackage, error) {
	return f.special[id], nil
}

func (f *fakeDataPackages) CreateSpecial(p *models.SpecialPackage) error {
	f.special[p.ID] = p
	return nil
}

func (f *fakeDataPackages) UpdateSpecial(p *models.SpecialPackage) error {
	f.special[p.ID] = p
	return nil
}

type fakeDataConfigs struct {
	rows map[string]*models.GameVerificationConfig
}

func (f *fakeDataConfigs) List() ([]models.GameVerificationConfig, error) {
	out := []models.GameVerificationConfig{}
	for _, c := range f.rows {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeDataConfigs) GetByID(id string) (*models.GameVerificationConfig, error) {
	return f.rows[id], nil
}

func (f *fakeDataConfigs) Create(c *models.GameVerificationConfig) error {
	f.rows[c.ID] = c
	return nil
}

func (f *fakeDataConfigs) Update(c *models.GameVerificationConfig) error {
	f.rows[c.ID] = c
	return nil
}

type fakeDataSettings struct {
	rows map[string]json.RawMessage
}

func (f *fakeDataSettings) List() ([]models.SiteSetting, error) {
	out := []models.SiteSetting{}
	for k, v := range f.rows {
		out = append(out, models.SiteSetting{Key: k, Value: v})
	}
	return out, nil
}

func (f *fakeDataSettings) Upsert(key string, value json.RawMessage) (*models.SiteSetting, error) {
	f.rows[key] = value
	return &models.SiteSetting{Key: key, Value: value}, nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateConfigCache() { c.calls++ }

func dataFixture() (*fakeDataGames, *fakeDataPackages, *fakeDataConfigs, *fakeDataSettings) {
	games := &fakeDataGames{rows: map[string]*models.Game{
		"g1": {ID: "g1", Name: "Mobile Legends", IsActive: true},
	}}
	packages := &fakeDataPackages{
		rows: map[string]*models.Package{
			"p1": {ID: "p1", GameID: "g1", Name: "86 Diamonds", IsActive: true},
		},
		special: map[string]*models.SpecialPackage{},
	}
	configs := &fakeDataConfigs{rows: map[string]*models.GameVerificationConfig{}}
	settings := &fakeDataSettings{rows: map[string]json.RawMessage{
		"banner": json.RawMessage(`{"text":"welcome"}`),
	}}
	return games, packages, configs, settings
}

func dataRouter(h *AdminDataHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/data/export", h.Export)
	r.POST("/admin/data/import", h.Import)
	return r
}

func TestDataExportIncludesAllContentTables(t *testing.T) {
	games, packages, configs, settings := dataFixture()
	r := dataRouter(NewAdminDataHandler(games, packages, configs, settings, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/data/export", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dataDump `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Games, 1)
	assert.Len(t, envelope.Data.Packages, 1)
	assert.Len(t, envelope.Data.SiteSettings, 1)
	assert.NotContains(t, w.Body.String(), "wallet", "transactional tables stay out of the dump")
}

func TestDataImportCreatesAndUpdatesByID(t *testing.T) {
	games, packages, configs, settings := dataFixture()
	invalidator := &countingInvalidator{}
	r := dataRouter(NewAdminDataHandler(games, packages, configs, settings, invalidator))

	doc := `{
		"games": [
			{"id":"g1","name":"Mobile Legends Renamed","isActive":true},
			{"id":"g2","name":"Genshin Impact","isActive":true}
		],
		"packages": [{"id":"p2","gameId":"g2","name":"60 Crystals","isActive":true}],
		"verificationConfigs": [{"id":"c1","gameName":"mlbb","apiCode":"mlbb","apiProvider":"g2bulk","isActive":true}],
		"siteSettings": [{"key":"banner","value":{"text":"sale"}}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/admin/data/import", strings.NewReader(doc))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "Mobile Legends Renamed", games.rows["g1"].Name)
	assert.Equal(t, "Genshin Impact", games.rows["g2"].Name)
	assert.Equal(t, "60 Crystals", packages.rows["p2"].Name)
	assert.Equal(t, "mlbb", configs.rows["c1"].APICode)
	assert.JSONEq(t, `{"text":"sale"}`, string(settings.rows["banner"]))
	assert.Equal(t, 1, invalidator.calls, "imported configs must invalidate the verifier cache")

	var envelope struct {
		Data map[string]tableImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, tableImportResult{Created: 1, Updated: 1}, envelope.Data["games"])
	assert.Equal(t, tableImportResult{Created: 1}, envelope.Data["packages"])
}

func TestDataImportRejectsMalformedDocument(t *testing.T) {
	games, packages, configs, settings := dataFixture()
	r := dataRouter(NewAdminDataHandler(games, packages, configs, settings, nil))

	req := httptest.NewRequest(http.MethodPost, "/admin/data/import", strings.NewReader(`{"games": "nope"`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, games.rows, 1, "nothing may be written on a rejected import")
}
