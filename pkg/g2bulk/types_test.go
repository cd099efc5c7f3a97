package g2bulk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPlayerResponseNicknameVariants(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"username field", `{"success":true,"username":"ShadowKing"}`, "ShadowKing"},
		{"nickname field", `{"status":true,"nickname":"ShadowKing"}`, "ShadowKing"},
		{"name field", `{"success":true,"name":"ShadowKing"}`, "ShadowKing"},
		{"nested data", `{"success":true,"data":{"nickname":"ShadowKing"}}`, "ShadowKing"},
		{"no name anywhere", `{"success":true,"data":{}}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var resp CheckPlayerResponse
			require.NoError(t, json.Unmarshal([]byte(tc.body), &resp))
			assert.Equal(t, tc.want, resp.Nickname())
		})
	}
}

func TestCheckPlayerResponseOK(t *testing.T) {
	var withError CheckPlayerResponse
	require.NoError(t, json.Unmarshal([]byte(`{"success":false,"error":"not found"}`), &withError))
	assert.False(t, withError.OK())
	assert.Equal(t, "not found", withError.ErrorText())

	var statusWrapped CheckPlayerResponse
	require.NoError(t, json.Unmarshal([]byte(`{"status":true,"nickname":"x"}`), &statusWrapped))
	assert.True(t, statusWrapped.OK())
}

func TestCheckPlayerPublicResponseOK(t *testing.T) {
	assert.True(t, (&CheckPlayerPublicResponse{Valid: "valid", Name: "ShadowKing"}).OK())
	assert.False(t, (&CheckPlayerPublicResponse{Valid: "valid"}).OK(), "valid without a name is not verified")
	assert.False(t, (&CheckPlayerPublicResponse{Valid: "invalid", Name: "x"}).OK())
}

func TestOrderResponseErrorText(t *testing.T) {
	assert.Equal(t, "out of stock", (&OrderResponse{Message: "out of stock"}).ErrorText())
	assert.Equal(t, "detail text", (&OrderResponse{Detail: "detail text"}).ErrorText())
	assert.Equal(t, "", (&OrderResponse{Success: true}).ErrorText())
}
