package g2bulk

import "strings"

// Upstream error classification.
//
// G2Bulk has no documented error-code contract; the phrases below are what
// the API has been observed to return. They are package-level variables so
// deployments can extend them without a code change when the upstream
// wording drifts.

// Flagged - the account exists but the upstream refuses this check
// (first-charge promos already redeemed, risk-control holds). Not fatal:
// verification should fall through to the next provider.
var FlaggedAccountPhrases = []string{
	"first charge",
	"first-charge",
	"already redeemed",
	"already purchased",
	"risk control",
	"account flagged",
	"not eligible",
}

// Zone required - the game shards players and the request lacked a zone.
var ZoneRequiredPhrases = []string{
	"zone required",
	"zone is required",
	"server required",
	"server_id required",
	"server id is required",
	"missing zone",
}

// Not found - genuine unknown-player responses.
var NotFoundPhrases = []string{
	"not found",
	"not exist",
	"does not exist",
	"invalid player",
	"invalid user",
	"no such user",
	"user id is wrong",
}

func matchesAny(msg string, phrases []string) bool {
	m := strings.ToLower(msg)
	for _, p := range phrases {
		if strings.Contains(m, p) {
			return true
		}
	}
	return false
}

// IsFlaggedAccount reports an "account exists but flagged" style error.
func IsFlaggedAccount(msg string) bool {
	return matchesAny(msg, FlaggedAccountPhrases)
}

// IsZoneRequired reports a "zone/server id required" style error.
func IsZoneRequired(msg string) bool {
	return matchesAny(msg, ZoneRequiredPhrases)
}

// IsNotFound reports a genuine player-not-found style error.
func IsNotFound(msg string) bool {
	return matchesAny(msg, NotFoundPhrases)
}
