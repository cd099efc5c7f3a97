package service

import (
	"regexp"
	"strings"
)

// nameRule maps an observed storefront game name to its canonical label. The
// table is ordered: the first matching rule wins, so more specific variants
// (e.g. regional Mobile Legends editions) must precede the generic entry.
type nameRule struct {
	// substrings: any one appearing in the lower-cased name is a match.
	substrings []string
	// aliases: exact lower-cased matches (short codes admins type directly).
	aliases []string
	// all, when set, requires every substring to appear.
	all bool

	canonical string
}

var nameRules = []nameRule{
	{substrings: []string{"mobile legends russia"}, aliases: []string{"mlbb_ru"}, canonical: "mlbb_ru"},
	{substrings: []string{"mobile legends brazil"}, aliases: []string{"mlbb_br"}, canonical: "mlbb_br"},
	{substrings: []string{"mobile legends global"}, aliases: []string{"mlbb_global"}, canonical: "mlbb_global"},
	{substrings: []string{"mobile legends promo"}, aliases: []string{"mlbb_promo"}, canonical: "mlbb_promo"},
	{substrings: []string{"mobile legends special"}, aliases: []string{"mlbb_special"}, canonical: "mlbb_special"},
	{substrings: []string{"mobile legends exclusive"}, aliases: []string{"mlbb_exclusive"}, canonical: "mlbb_exclusive"},
	{substrings: []string{"mobile legends"}, aliases: []string{"mlbb"}, canonical: "mlbb"},
	{substrings: []string{"magic chess"}, canonical: "magic_chest_gogo"},
	{substrings: []string{"blood strike", "bloodstrike"}, canonical: "bloodstrike"},
	{substrings: []string{"pubg"}, canonical: "pubgm"},
	{substrings: []string{"honor of kings"}, aliases: []string{"hok"}, canonical: "hok"},
	{substrings: []string{"free fire", "freefire"}, canonical: "freefire_global"},
	{substrings: []string{"valorant cambodia", "valorant_kh"}, canonical: "valorant_kh"},
	{substrings: []string{"valorant"}, canonical: "valorant"},
	{substrings: []string{"delta force"}, canonical: "deltaforce"},
	{substrings: []string{"genshin"}, canonical: "genshin"},
	{substrings: []string{"honkai", "star"}, all: true, canonical: "honkai_star_rail"},
	{substrings: []string{"zenless"}, aliases: []string{"zzz"}, canonical: "zzz"},
	{substrings: []string{"call of duty", "cod"}, canonical: "codm"},
	{substrings: []string{"arena of valor"}, aliases: []string{"aov"}, canonical: "aov"},
	{substrings: []string{"wild rift"}, canonical: "wildrift"},
	{substrings: []string{"clash of clans"}, aliases: []string{"coc"}, canonical: "coc"},
	{substrings: []string{"brawl stars"}, canonical: "brawl_stars"},
	{substrings: []string{"clash royale"}, canonical: "clash_royale"},
	{substrings: []string{"roblox"}, canonical: "roblox"},
	{substrings: []string{"minecraft"}, canonical: "minecraft"},
}

var slugStrip = regexp.MustCompile(`[^a-z0-9_]`)

func (r *nameRule) matches(name string) bool {
	for _, alias := range r.aliases {
		if name == alias {
			return true
		}
	}
	if len(r.substrings) == 0 {
		return false
	}
	if r.all {
		for _, s := range r.substrings {
			if !strings.Contains(name, s) {
				return false
			}
		}
		return true
	}
	for _, s := range r.substrings {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// NormalizeGameName maps a storefront game name to the canonical label used
// both as the supplier game code and as the verification-config lookup key.
// The mapping is deterministic: lower-case, trim, first matching rule wins.
// Unmatched names degrade to a slug of the input.
func NormalizeGameName(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	for i := range nameRules {
		if nameRules[i].matches(normalized) {
			return nameRules[i].canonical
		}
	}
	slug := strings.ReplaceAll(normalized, " ", "_")
	return slugStrip.ReplaceAllString(slug, "")
}
