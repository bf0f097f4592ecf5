package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// currencyPrecision lists minor-unit digits for currencies that deviate from
// the common two decimal places.
var currencyPrecision = map[string]int32{
	"JPY": 0,
	"KWD": 3,
	"BHD": 3,
}

// FormatAmount renders an amount with the currency's minor-unit precision,
// e.g. "1500.00 USD" or "1500 JPY".
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	precision, ok := currencyPrecision[currencyCode]
	if !ok {
		precision = 2
	}
	return fmt.Sprintf("%s %s", amount.StringFixed(precision), currencyCode)
}

// FormatWithPrecision formats an amount with the given precision.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
