package isan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupports(t *testing.T) {
	assert.True(t, Supports("mlbb"))
	assert.True(t, Supports("mlbb_ru"))
	assert.True(t, Supports("freefire_global"))
	assert.True(t, Supports("pubgm"))
	assert.False(t, Supports("valorant"))
	assert.False(t, Supports("roblox"))
	assert.False(t, Supports(""))
}

func TestLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ml", r.URL.Path)
		assert.Equal(t, "12345", r.URL.Query().Get("id"))
		assert.Equal(t, "9876", r.URL.Query().Get("zone"))
		w.Write([]byte(`{"success":true,"name":"ShadowKing"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	name, err := c.Lookup(context.Background(), "mlbb", "12345", "9876")
	require.NoError(t, err)
	assert.Equal(t, "ShadowKing", name)
}

func TestLookupUnverifiedPlayer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	name, err := c.Lookup(context.Background(), "mlbb", "999", "")
	require.NoError(t, err, "an answered-but-unverified lookup is not a transport error")
	assert.Empty(t, name)
}

func TestLookupUnsupportedGame(t *testing.T) {
	c := NewClient("http://unused.test")
	_, err := c.Lookup(context.Background(), "valorant", "1", "")
	assert.Error(t, err)
}

func TestLookupStatusWrapper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"nickname":"ShadowKing"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	name, err := c.Lookup(context.Background(), "genshin", "800000001", "")
	require.NoError(t, err)
	assert.Equal(t, "ShadowKing", name)
}
