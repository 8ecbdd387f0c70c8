package market

import "strings"

// MarketProfile is a country's participation in the EU market arrangements.
// Membership is static reference data keyed by Eurostat geo codes, so Greece
// is EL.
type MarketProfile struct {
	EU           bool `json:"eu"`
	Eurozone     bool `json:"eurozone"`
	SingleMarket bool `json:"single_market"`
	CustomsUnion bool `json:"customs_union"`
}

var euMembers = []string{
	"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR", "DE", "EL",
	"HU", "IE", "IT", "LV", "LT", "LU", "MT", "NL", "PL", "PT", "RO", "SK",
	"SI", "ES", "SE",
}

var (
	euSet           = codeSet(euMembers)
	eurozoneSet     = codeSet([]string{"AT", "BE", "HR", "CY", "EE", "FI", "FR", "DE", "EL", "IE", "IT", "LV", "LT", "LU", "MT", "NL", "PT", "SK", "SI", "ES"})
	singleMarketSet = codeSet(append([]string{"IS", "LI", "NO"}, euMembers...))
	customsUnionSet = codeSet(append([]string{"TR"}, euMembers...))
)

func codeSet(codes []string) map[string]struct{} {
	out := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		out[c] = struct{}{}
	}
	return out
}

// ProfileFor looks up the market arrangements for a geo code. GR is accepted
// as an alias of EL.
func ProfileFor(code string) MarketProfile {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "GR" {
		code = "EL"
	}
	has := func(set map[string]struct{}) bool {
		_, ok := set[code]
		return ok
	}
	return MarketProfile{
		EU:           has(euSet),
		Eurozone:     has(eurozoneSet),
		SingleMarket: has(singleMarketSet),
		CustomsUnion: has(customsUnionSet),
	}
}
