package service

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/cache"
	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/g2bulk"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/isan"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/mojang"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/roblox"
)

// Provider client surfaces, narrowed so tests can substitute fakes.

type g2bulkChecker interface {
	CheckPlayerID(ctx context.Context, gameCode, userID, serverID string) (*g2bulk.CheckPlayerResponse, error)
	CheckPlayerIDPublic(ctx context.Context, gameCode, userID, serverID string) (*g2bulk.CheckPlayerPublicResponse, error)
}

type robloxLookup interface {
	LookupUsername(ctx context.Context, username string) (*roblox.User, error)
}

type mojangLookup interface {
	LookupUsername(ctx context.Context, username string) (*mojang.Profile, error)
}

type freeLookup interface {
	Lookup(ctx context.Context, gameCode, userID, zone string) (string, error)
}

// VerifyRequest is one player-ID verification attempt.
type VerifyRequest struct {
	GameName string `json:"gameName" binding:"required"`
	UserID   string `json:"userId" binding:"required"`
	ServerID string `json:"serverId"`
}

// VerifyResult is a successful verification.
type VerifyResult struct {
	Username    string `json:"username"`
	UserID      string `json:"userId"`
	ServerID    string `json:"serverId,omitempty"`
	AccountName string `json:"accountName"`
	VerifiedBy  string `json:"verifiedBy"`
}

// VerifyError carries the HTTP status and client-safe message for a failed
// verification. RequiresServerID tells the client to prompt for a zone.
type VerifyError struct {
	Status           int
	Message          string
	RequiresServerID bool
}

func (e *VerifyError) Error() string { return e.Message }

var errVerificationUnavailable = &VerifyError{
	Status:  http.StatusServiceUnavailable,
	Message: "Verification is currently unavailable for this game. Please try again later.",
}

var errPlayerNotFound = &VerifyError{
	Status:  http.StatusNotFound,
	Message: "Player ID not found or invalid",
}

// VerificationService resolves a game name and player id to a verified
// display name via the admin-configured provider for that game, with the
// hardcoded supplier mapping as the legacy path when no config row matches.
type VerificationService struct {
	configs *cache.VerificationConfigCache
	g2bulk  g2bulkChecker
	roblox  robloxLookup
	mojang  mojangLookup
	free    freeLookup
	timeout time.Duration
}

// NewVerificationService wires the adapter with its provider clients. A zero
// timeout disables the per-request deadline.
func NewVerificationService(configs *cache.VerificationConfigCache, g2 g2bulkChecker, rb robloxLookup, mc mojangLookup, free freeLookup, timeout time.Duration) *VerificationService {
	return &VerificationService{configs: configs, g2bulk: g2, roblox: rb, mojang: mc, free: free, timeout: timeout}
}

// Verify dispatches to the configured provider and normalizes the outcome.
// Failures are always *VerifyError; upstream error bodies never reach the
// client beyond a short classified message.
func (s *VerificationService) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, *VerifyError) {
	if req.GameName == "" || req.UserID == "" {
		return nil, &VerifyError{Status: http.StatusBadRequest, Message: "Missing gameName or userId"}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	normalized := NormalizeGameName(req.GameName)
	cfg := s.configs.Lookup(ctx, req.GameName, normalized)

	if cfg == nil {
		log.Debug().Str("game", req.GameName).Str("code", normalized).Msg("no verification config, using legacy supplier lookup")
		return s.verifyLegacy(ctx, normalized, req)
	}

	switch cfg.APIProvider {
	case models.ProviderRoblox:
		return s.verifyRoblox(ctx, req)
	case models.ProviderMinecraft:
		return s.verifyMinecraft(ctx, req)
	case models.ProviderFreeFallback:
		return s.verifyFree(ctx, cfg.APICode, req)
	default:
		return s.verifyG2Bulk(ctx, cfg, req)
	}
}

// verifyRoblox treats the supplied id as a username.
func (s *VerificationService) verifyRoblox(ctx context.Context, req VerifyRequest) (*VerifyResult, *VerifyError) {
	user, err := s.roblox.LookupUsername(ctx, req.UserID)
	if err != nil {
		log.Warn().Err(err).Msg("roblox lookup failed")
		return nil, errVerificationUnavailable
	}
	if user == nil {
		return nil, errPlayerNotFound
	}
	name := user.DisplayName
	if name == "" {
		name = user.Name
	}
	return &VerifyResult{
		Username:    name,
		UserID:      req.UserID,
		AccountName: name,
		VerifiedBy:  "Roblox",
	}, nil
}

func (s *VerificationService) verifyMinecraft(ctx context.Context, req VerifyRequest) (*VerifyResult, *VerifyError) {
	profile, err := s.mojang.LookupUsername(ctx, req.UserID)
	if err != nil {
		log.Warn().Err(err).Msg("mojang lookup failed")
		return nil, errVerificationUnavailable
	}
	if profile == nil {
		return nil, errPlayerNotFound
	}
	return &VerifyResult{
		Username:    profile.Name,
		UserID:      req.UserID,
		AccountName: profile.Name,
		VerifiedBy:  "Mojang",
	}, nil
}

// verifyG2Bulk calls the authenticated supplier endpoint, classifying its
// free-text errors: flagged accounts and unclassified errors fall through to
// the free lookup, a missing zone is retried once with zone "1", and genuine
// not-found responses return 404.
func (s *VerificationService) verifyG2Bulk(ctx context.Context, cfg *models.GameVerificationConfig, req VerifyRequest) (*VerifyResult, *VerifyError) {
	if cfg.RequiresZone && req.ServerID == "" {
		// Fail fast before any upstream call so the client can prompt. A
		// configured default zone never satisfies this: when a game requires
		// a zone the player must supply their own.
		return nil, &VerifyError{
			Status:           http.StatusBadRequest,
			Message:          "Server ID is required for this game",
			RequiresServerID: true,
		}
	}
	zone := req.ServerID
	if zone == "" && cfg.DefaultZone != nil {
		zone = *cfg.DefaultZone
	}

	resp, err := s.g2bulk.CheckPlayerID(ctx, cfg.APICode, req.UserID, zone)
	if err != nil {
		log.Warn().Err(err).Str("game_code", cfg.APICode).Msg("supplier player check failed")
		return s.verifyFree(ctx, cfg.APICode, req)
	}

	if resp.OK() {
		if nick := resp.Nickname(); nick != "" {
			return s.success(nick, req, "G2Bulk"), nil
		}
	}

	errText := resp.ErrorText()
	switch {
	case g2bulk.IsZoneRequired(errText) && zone == "":
		retry, err := s.g2bulk.CheckPlayerID(ctx, cfg.APICode, req.UserID, "1")
		if err == nil && retry.OK() {
			if nick := retry.Nickname(); nick != "" {
				return s.success(nick, req, "G2Bulk"), nil
			}
		}
		return nil, &VerifyError{
			Status:           http.StatusBadRequest,
			Message:          "Server ID is required for this game",
			RequiresServerID: true,
		}
	case g2bulk.IsNotFound(errText):
		return nil, errPlayerNotFound
	case g2bulk.IsFlaggedAccount(errText):
		log.Debug().Str("game_code", cfg.APICode).Str("upstream_error", errText).Msg("account flagged upstream, trying free lookup")
		return s.verifyFree(ctx, cfg.APICode, req)
	default:
		return s.verifyFree(ctx, cfg.APICode, req)
	}
}

// verifyLegacy is the original behavior: hardcoded name-to-code mapping and
// the supplier's public check endpoint.
func (s *VerificationService) verifyLegacy(ctx context.Context, gameCode string, req VerifyRequest) (*VerifyResult, *VerifyError) {
	resp, err := s.g2bulk.CheckPlayerIDPublic(ctx, gameCode, req.UserID, req.ServerID)
	if err != nil {
		log.Warn().Err(err).Str("game_code", gameCode).Msg("supplier public player check failed")
		return s.verifyFree(ctx, gameCode, req)
	}

	if resp.OK() {
		return s.success(resp.Name, req, "G2Bulk"), nil
	}

	errText := resp.Error
	if errText == "" {
		errText = resp.Message
	}
	switch {
	case g2bulk.IsZoneRequired(errText) && req.ServerID == "":
		return nil, &VerifyError{
			Status:           http.StatusBadRequest,
			Message:          "Server ID is required for this game",
			RequiresServerID: true,
		}
	case resp.Valid == "invalid" || g2bulk.IsNotFound(errText):
		return nil, errPlayerNotFound
	default:
		return s.verifyFree(ctx, gameCode, req)
	}
}

// verifyFree is the last resort: a public lookup covering a small allow-list
// of titles. Never fabricates an identity; unsupported games report 503.
func (s *VerificationService) verifyFree(ctx context.Context, gameCode string, req VerifyRequest) (*VerifyResult, *VerifyError) {
	if !isan.Supports(gameCode) {
		return nil, errVerificationUnavailable
	}
	name, err := s.free.Lookup(ctx, gameCode, req.UserID, req.ServerID)
	if err != nil {
		log.Warn().Err(err).Str("game_code", gameCode).Msg("free lookup failed")
		return nil, errVerificationUnavailable
	}
	if name == "" {
		return nil, errPlayerNotFound
	}
	return s.success(name, req, "Free Lookup"), nil
}

func (s *VerificationService) success(name string, req VerifyRequest, provider string) *VerifyResult {
	return &VerifyResult{
		Username:    name,
		UserID:      req.UserID,
		ServerID:    req.ServerID,
		AccountName: name,
		VerifiedBy:  provider,
	}
}

// InvalidateConfigCache forces the next verification to reload configs.
// Admin mutations call this so edits take effect before the TTL lapses.
func (s *VerificationService) InvalidateConfigCache() {
	s.configs.Invalidate()
}
