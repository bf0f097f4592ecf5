package domain

import "strings"

// supportedCurrencies is the enumerated set of currency codes the system
// accepts. The engine treats currency as an opaque tag carried through
// unchanged; normalization only guards against typos at the collection
// boundary.
var supportedCurrencies = map[string]struct{}{
	"USD": {},
	"EUR": {},
	"GBP": {},
	"KES": {},
	"NGN": {},
	"INR": {},
}

// IsSupportedCurrency reports whether code is one of the accepted 3-letter
// currency codes.
func IsSupportedCurrency(code string) bool {
	_, ok := supportedCurrencies[strings.ToUpper(code)]
	return ok
}

// NormalizeCurrencyCode upper-cases and validates code, falling back to
// fallback when code is empty or unsupported.
func NormalizeCurrencyCode(code, fallback string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := supportedCurrencies[normalized]; ok {
		return normalized
	}
	return fallback
}
