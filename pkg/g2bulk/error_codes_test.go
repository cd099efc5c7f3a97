package g2bulk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFlaggedAccount(t *testing.T) {
	assert.True(t, IsFlaggedAccount("First Charge promo already redeemed"))
	assert.True(t, IsFlaggedAccount("account flagged by risk control"))
	assert.False(t, IsFlaggedAccount("player not found"))
	assert.False(t, IsFlaggedAccount(""))
}

func TestIsZoneRequired(t *testing.T) {
	assert.True(t, IsZoneRequired("Zone is required for this game"))
	assert.True(t, IsZoneRequired("server_id required"))
	assert.False(t, IsZoneRequired("user id is wrong"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound("Player does not exist"))
	assert.True(t, IsNotFound("Invalid user ID"))
	assert.True(t, IsNotFound("user id is wrong"))
	assert.False(t, IsNotFound("zone required"))
}
