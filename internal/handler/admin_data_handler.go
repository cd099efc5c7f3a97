package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

type dataGameStore interface {
	List(activeOnly bool) ([]models.Game, error)
	GetByID(id string) (*models.Game, error)
	Create(g *models.Game) error
	Update(g *models.Game) error
}

type dataPackageStore interface {
	ListAll() ([]models.Package, error)
	ListAllSpecial() ([]models.SpecialPackage, error)
	GetByID(id string) (*models.Package, error)
	Create(p *models.Package) error
	Update(p *models.Package) error
	GetSpecialByID(id string) (*models.SpecialPackage, error)
	CreateSpecial(p *models.SpecialPackage) error
	UpdateSpecial(p *models.SpecialPackage) error
}

type dataConfigStore interface {
	List() ([]models.GameVerificationConfig, error)
	GetByID(id string) (*models.GameVerificationConfig, error)
	Create(c *models.GameVerificationConfig) error
	Update(c *models.GameVerificationConfig) error
}

type dataSettingStore interface {
	List() ([]models.SiteSetting, error)
	Upsert(key string, value json.RawMessage) (*models.SiteSetting, error)
}

// AdminDataHandler exports and imports the storefront's content tables as one
// JSON document, for backups and for seeding a fresh deployment. Accounts,
// orders, and the wallet ledger are deliberately excluded: they are live
// transactional state, not content.
type AdminDataHandler struct {
	games    dataGameStore
	packages dataPackageStore
	configs  dataConfigStore
	settings dataSettingStore
	verifier configCacheInvalidator
}

// NewAdminDataHandler constructs an AdminDataHandler. verifier may be nil.
func NewAdminDataHandler(games dataGameStore, packages dataPackageStore, configs dataConfigStore, settings dataSettingStore, verifier configCacheInvalidator) *AdminDataHandler {
	return &AdminDataHandler{games: games, packages: packages, configs: configs, settings: settings, verifier: verifier}
}

type dataDump struct {
	Games               []models.Game                   `json:"games"`
	Packages            []models.Package                `json:"packages"`
	SpecialPackages     []models.SpecialPackage         `json:"specialPackages"`
	VerificationConfigs []models.GameVerificationConfig `json:"verificationConfigs"`
	SiteSettings        []models.SiteSetting            `json:"siteSettings"`
}

// Export handles GET /admin/data/export.
func (h *AdminDataHandler) Export(c *gin.Context) {
	var dump dataDump
	var err error

	if dump.Games, err = h.games.List(false); err != nil {
		log.Error().Err(err).Msg("data export failed reading games")
		utils.Error(c, 500, "INTERNAL_ERROR", "Export failed")
		return
	}
	if dump.Packages, err = h.packages.ListAll(); err != nil {
		log.Error().Err(err).Msg("data export failed reading packages")
		utils.Error(c, 500, "INTERNAL_ERROR", "Export failed")
		return
	}
	if dump.SpecialPackages, err = h.packages.ListAllSpecial(); err != nil {
		log.Error().Err(err).Msg("data export failed reading special packages")
		utils.Error(c, 500, "INTERNAL_ERROR", "Export failed")
		return
	}
	if dump.VerificationConfigs, err = h.configs.List(); err != nil {
		log.Error().Err(err).Msg("data export failed reading verification configs")
		utils.Error(c, 500, "INTERNAL_ERROR", "Export failed")
		return
	}
	if dump.SiteSettings, err = h.settings.List(); err != nil {
		log.Error().Err(err).Msg("data export failed reading site settings")
		utils.Error(c, 500, "INTERNAL_ERROR", "Export failed")
		return
	}

	utils.Success(c, 200, "OK", dump)
}

// tableImportResult counts what happened to one table during an import.
type tableImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Import handles POST /admin/data/import. Rows are matched by primary key:
// unknown ids are created, known ids overwritten. A row that fails (e.g. a
// package whose game is absent from both the dump and the database) is
// counted and skipped rather than aborting the rest of the import.
func (h *AdminDataHandler) Import(c *gin.Context) {
	var dump dataDump
	if err := c.ShouldBindJSON(&dump); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid import document")
		return
	}

	results := gin.H{}

	// Games first so package foreign keys resolve.
	games := tableImportResult{}
	for i := range dump.Games {
		g := dump.Games[i]
		existing, err := h.games.GetByID(g.ID)
		switch {
		case err != nil:
		case existing == nil:
			if err = h.games.Create(&g); err == nil {
				games.Created++
			}
		default:
			if err = h.games.Update(&g); err == nil {
				games.Updated++
			}
		}
		if err != nil {
			games.Failed++
			log.Warn().Err(err).Str("game_id", g.ID).Msg("data import skipped game")
		}
	}
	results["games"] = games

	packages := tableImportResult{}
	for i := range dump.Packages {
		p := dump.Packages[i]
		existing, err := h.packages.GetByID(p.ID)
		switch {
		case err != nil:
		case existing == nil:
			if err = h.packages.Create(&p); err == nil {
				packages.Created++
			}
		default:
			if err = h.packages.Update(&p); err == nil {
				packages.Updated++
			}
		}
		if err != nil {
			packages.Failed++
			log.Warn().Err(err).Str("package_id", p.ID).Msg("data import skipped package")
		}
	}
	results["packages"] = packages

	special := tableImportResult{}
	for i := range dump.SpecialPackages {
		p := dump.SpecialPackages[i]
		existing, err := h.packages.GetSpecialByID(p.ID)
		switch {
		case err != nil:
		case existing == nil:
			if err = h.packages.CreateSpecial(&p); err == nil {
				special.Created++
			}
		default:
			if err = h.packages.UpdateSpecial(&p); err == nil {
				special.Updated++
			}
		}
		if err != nil {
			special.Failed++
			log.Warn().Err(err).Str("package_id", p.ID).Msg("data import skipped special package")
		}
	}
	results["specialPackages"] = special

	configs := tableImportResult{}
	for i := range dump.VerificationConfigs {
		cfg := dump.VerificationConfigs[i]
		existing, err := h.configs.GetByID(cfg.ID)
		switch {
		case err != nil:
		case existing == nil:
			if err = h.configs.Create(&cfg); err == nil {
				configs.Created++
			}
		default:
			if err = h.configs.Update(&cfg); err == nil {
				configs.Updated++
			}
		}
		if err != nil {
			configs.Failed++
			log.Warn().Err(err).Str("config_id", cfg.ID).Msg("data import skipped verification config")
		}
	}
	results["verificationConfigs"] = configs
	if configs.Created+configs.Updated > 0 && h.verifier != nil {
		h.verifier.InvalidateConfigCache()
	}

	settings := tableImportResult{}
	for _, s := range dump.SiteSettings {
		if _, err := h.settings.Upsert(s.Key, s.Value); err != nil {
			settings.Failed++
			log.Warn().Err(err).Str("key", s.Key).Msg("data import skipped site setting")
		} else {
			settings.Updated++
		}
	}
	results["siteSettings"] = settings

	utils.Success(c, 200, "Import complete", results)
}
