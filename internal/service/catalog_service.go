package service

import (
	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/repository"
)

// CatalogService serves the storefront catalog and satisfies the order
// service's price lookups.
type CatalogService struct {
	games    *repository.GameRepository
	packages *repository.PackageRepository
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(games *repository.GameRepository, packages *repository.PackageRepository) *CatalogService {
	return &CatalogService{games: games, packages: packages}
}

// ListGames returns storefront games. Admin callers pass activeOnly=false.
func (s *CatalogService) ListGames(activeOnly bool) ([]models.Game, error) {
	return s.games.List(activeOnly)
}

// GetGame returns one game, nil when unknown.
func (s *CatalogService) GetGame(id string) (*models.Game, error) {
	return s.games.GetByID(id)
}

// GetPackage returns one package, nil when unknown.
func (s *CatalogService) GetPackage(id string) (*models.Package, error) {
	return s.packages.GetByID(id)
}

// GetSpecialPackage returns one special package, nil when unknown.
func (s *CatalogService) GetSpecialPackage(id string) (*models.SpecialPackage, error) {
	return s.packages.GetSpecialByID(id)
}

// GamePackages bundles a game's regular and special packages for the
// storefront detail page.
type GamePackages struct {
	Packages        []models.Package        `json:"packages"`
	SpecialPackages []models.SpecialPackage `json:"specialPackages"`
}

// ListGamePackages returns everything purchasable for a game.
func (s *CatalogService) ListGamePackages(gameID string, activeOnly bool) (*GamePackages, error) {
	pkgs, err := s.packages.ListByGame(gameID, activeOnly)
	if err != nil {
		return nil, err
	}
	special, err := s.packages.ListSpecialByGame(gameID, activeOnly)
	if err != nil {
		return nil, err
	}
	return &GamePackages{Packages: pkgs, SpecialPackages: special}, nil
}
