package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesorhosting-wq/testtopupkesor/internal/cache"
	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/g2bulk"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/mojang"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/roblox"
)

type fakeG2BulkChecker struct {
	resp       *g2bulk.CheckPlayerResponse
	err        error
	publicResp *g2bulk.CheckPlayerPublicResponse
	publicErr  error

	calls       int
	publicCalls int
	lastZone    string
}

func (f *fakeG2BulkChecker) CheckPlayerID(ctx context.Context, gameCode, userID, serverID string) (*g2bulk.CheckPlayerResponse, error) {
	f.calls++
	f.lastZone = serverID
	return f.resp, f.err
}

func (f *fakeG2BulkChecker) CheckPlayerIDPublic(ctx context.Context, gameCode, userID, serverID string) (*g2bulk.CheckPlayerPublicResponse, error) {
	f.publicCalls++
	return f.publicResp, f.publicErr
}

type fakeRoblox struct {
	user *roblox.User
	err  error
}

func (f *fakeRoblox) LookupUsername(ctx context.Context, username string) (*roblox.User, error) {
	return f.user, f.err
}

type fakeMojang struct {
	profile *mojang.Profile
	err     error
}

func (f *fakeMojang) LookupUsername(ctx context.Context, username string) (*mojang.Profile, error) {
	return f.profile, f.err
}

type fakeFree struct {
	name  string
	err   error
	calls int
}

func (f *fakeFree) Lookup(ctx context.Context, gameCode, userID, zone string) (string, error) {
	f.calls++
	return f.name, f.err
}

func configCacheWith(configs ...models.GameVerificationConfig) *cache.VerificationConfigCache {
	loader := func(ctx context.Context) ([]models.GameVerificationConfig, error) {
		return configs, nil
	}
	return cache.NewVerificationConfigCache(loader, 0, nil)
}

func mlbbConfig(requiresZone bool) models.GameVerificationConfig {
	return models.GameVerificationConfig{
		ID: "c1", GameName: "mlbb", APICode: "mlbb",
		APIProvider: models.ProviderG2Bulk, RequiresZone: requiresZone, IsActive: true,
	}
}

func TestVerifyZoneRequiredFailsFastWithoutUpstreamCall(t *testing.T) {
	g2 := &fakeG2BulkChecker{}
	svc := NewVerificationService(configCacheWith(mlbbConfig(true)), g2, &fakeRoblox{}, &fakeMojang{}, &fakeFree{}, 0)

	_, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Mobile Legends", UserID: "123"})
	require.NotNil(t, verr)
	assert.Equal(t, http.StatusBadRequest, verr.Status)
	assert.True(t, verr.RequiresServerID)
	assert.Zero(t, g2.calls, "must not call the supplier without a zone")
}

func TestVerifyZoneRequiredFailsFastDespiteDefaultZone(t *testing.T) {
	cfg := mlbbConfig(true)
	zone := "2001"
	cfg.DefaultZone = &zone

	g2 := &fakeG2BulkChecker{}
	svc := NewVerificationService(configCacheWith(cfg), g2, &fakeRoblox{}, &fakeMojang{}, &fakeFree{}, 0)

	_, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Mobile Legends", UserID: "123"})
	require.NotNil(t, verr)
	assert.Equal(t, http.StatusBadRequest, verr.Status)
	assert.True(t, verr.RequiresServerID)
	assert.Zero(t, g2.calls, "a default zone must not stand in for a required one")
}

func TestVerifyDefaultZoneSubstitutedWhenZoneOptional(t *testing.T) {
	cfg := mlbbConfig(false)
	zone := "2001"
	cfg.DefaultZone = &zone

	ok := true
	g2 := &fakeG2BulkChecker{resp: &g2bulk.CheckPlayerResponse{Success: &ok, Username: "ShadowKing"}}
	svc := NewVerificationService(configCacheWith(cfg), g2, &fakeRoblox{}, &fakeMojang{}, &fakeFree{}, 0)

	_, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Mobile Legends", UserID: "123"})
	require.Nil(t, verr)
	assert.Equal(t, "2001", g2.lastZone)
}

func TestVerifySupplierSuccess(t *testing.T) {
	ok := true
	g2 := &fakeG2BulkChecker{resp: &g2bulk.CheckPlayerResponse{Success: &ok, Username: "ShadowKing"}}
	svc := NewVerificationService(configCacheWith(mlbbConfig(true)), g2, &fakeRoblox{}, &fakeMojang{}, &fakeFree{}, 0)

	res, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Mobile Legends", UserID: "123", ServerID: "4567"})
	require.Nil(t, verr)
	assert.Equal(t, "ShadowKing", res.Username)
	assert.Equal(t, "G2Bulk", res.VerifiedBy)
	assert.Equal(t, "4567", res.ServerID)
}

func TestVerifyFlaggedAccountFallsThroughToFreeLookup(t *testing.T) {
	ok := false
	g2 := &fakeG2BulkChecker{resp: &g2bulk.CheckPlayerResponse{Success: &ok, Error: "first charge already redeemed"}}
	free := &fakeFree{name: "ShadowKing"}
	svc := NewVerificationService(configCacheWith(mlbbConfig(false)), g2, &fakeRoblox{}, &fakeMojang{}, free, 0)

	res, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Mobile Legends", UserID: "123", ServerID: "4567"})
	require.Nil(t, verr)
	assert.Equal(t, 1, free.calls)
	assert.Equal(t, "Free Lookup", res.VerifiedBy)
	assert.Equal(t, "ShadowKing", res.Username)
}

func TestVerifySupplierNotFound(t *testing.T) {
	ok := false
	g2 := &fakeG2BulkChecker{resp: &g2bulk.CheckPlayerResponse{Success: &ok, Error: "player not found"}}
	free := &fakeFree{}
	svc := NewVerificationService(configCacheWith(mlbbConfig(false)), g2, &fakeRoblox{}, &fakeMojang{}, free, 0)

	_, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Mobile Legends", UserID: "999"})
	require.NotNil(t, verr)
	assert.Equal(t, http.StatusNotFound, verr.Status)
	assert.Zero(t, free.calls, "genuine not-found must not fall through")
}

func TestVerifyZoneRequiredErrorRetriesWithDefaultZone(t *testing.T) {
	ok := false
	g2 := &fakeG2BulkChecker{resp: &g2bulk.CheckPlayerResponse{Success: &ok, Error: "zone is required"}}
	svc := NewVerificationService(configCacheWith(mlbbConfig(false)), g2, &fakeRoblox{}, &fakeMojang{}, &fakeFree{}, 0)

	_, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Mobile Legends", UserID: "123"})
	require.NotNil(t, verr)
	assert.True(t, verr.RequiresServerID)
	assert.Equal(t, 2, g2.calls, "one retry with the fallback zone")
	assert.Equal(t, "1", g2.lastZone)
}

func TestVerifyTransportErrorFallsThroughToFreeLookup(t *testing.T) {
	g2 := &fakeG2BulkChecker{err: errors.New("timeout")}
	free := &fakeFree{name: "ShadowKing"}
	svc := NewVerificationService(configCacheWith(mlbbConfig(false)), g2, &fakeRoblox{}, &fakeMojang{}, free, 0)

	res, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Mobile Legends", UserID: "123"})
	require.Nil(t, verr)
	assert.Equal(t, "Free Lookup", res.VerifiedBy)
}

func TestVerifyFreeLookupUnsupportedGame(t *testing.T) {
	cfg := models.GameVerificationConfig{
		ID: "c2", GameName: "valorant", APICode: "valorant",
		APIProvider: models.ProviderFreeFallback, IsActive: true,
	}
	free := &fakeFree{}
	svc := NewVerificationService(configCacheWith(cfg), &fakeG2BulkChecker{}, &fakeRoblox{}, &fakeMojang{}, free, 0)

	_, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Valorant", UserID: "123"})
	require.NotNil(t, verr)
	assert.Equal(t, http.StatusServiceUnavailable, verr.Status)
	assert.Zero(t, free.calls, "unsupported titles never reach the free endpoint")
}

func TestVerifyRobloxProvider(t *testing.T) {
	cfg := models.GameVerificationConfig{
		ID: "c3", GameName: "roblox", APICode: "roblox",
		APIProvider: models.ProviderRoblox, IsActive: true,
	}
	rb := &fakeRoblox{user: &roblox.User{ID: 42, Name: "builder", DisplayName: "Builder"}}
	svc := NewVerificationService(configCacheWith(cfg), &fakeG2BulkChecker{}, rb, &fakeMojang{}, &fakeFree{}, 0)

	res, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Roblox", UserID: "builder"})
	require.Nil(t, verr)
	assert.Equal(t, "Builder", res.Username)
	assert.Equal(t, "Roblox", res.VerifiedBy)
}

func TestVerifyMinecraftProviderNotFound(t *testing.T) {
	cfg := models.GameVerificationConfig{
		ID: "c4", GameName: "minecraft", APICode: "minecraft",
		APIProvider: models.ProviderMinecraft, IsActive: true,
	}
	svc := NewVerificationService(configCacheWith(cfg), &fakeG2BulkChecker{}, &fakeRoblox{}, &fakeMojang{}, &fakeFree{}, 0)

	_, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Minecraft", UserID: "nobody"})
	require.NotNil(t, verr)
	assert.Equal(t, http.StatusNotFound, verr.Status)
}

func TestVerifyLegacyPathWithoutConfig(t *testing.T) {
	g2 := &fakeG2BulkChecker{publicResp: &g2bulk.CheckPlayerPublicResponse{Valid: "valid", Name: "ShadowKing"}}
	svc := NewVerificationService(configCacheWith(), g2, &fakeRoblox{}, &fakeMojang{}, &fakeFree{}, 0)

	res, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Mobile Legends", UserID: "123"})
	require.Nil(t, verr)
	assert.Equal(t, 1, g2.publicCalls, "no config row routes through the public check")
	assert.Zero(t, g2.calls)
	assert.Equal(t, "ShadowKing", res.Username)
}

func TestVerifyLegacyInvalidPlayer(t *testing.T) {
	g2 := &fakeG2BulkChecker{publicResp: &g2bulk.CheckPlayerPublicResponse{Valid: "invalid"}}
	svc := NewVerificationService(configCacheWith(), g2, &fakeRoblox{}, &fakeMojang{}, &fakeFree{}, 0)

	_, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "Mobile Legends", UserID: "999"})
	require.NotNil(t, verr)
	assert.Equal(t, http.StatusNotFound, verr.Status)
}

func TestVerifyMissingFields(t *testing.T) {
	svc := NewVerificationService(configCacheWith(), &fakeG2BulkChecker{}, &fakeRoblox{}, &fakeMojang{}, &fakeFree{}, 0)

	_, verr := svc.Verify(context.Background(), VerifyRequest{GameName: "", UserID: ""})
	require.NotNil(t, verr)
	assert.Equal(t, http.StatusBadRequest, verr.Status)
}
