package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencyPrecision lists currencies printed with other than two decimals.
var currencyPrecision = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"BHD": 3,
	"KWD": 3,
}

// FormatWithCurrencyPrecision formats an amount with the minor units of the currency.
// Example: 1500000 IDR returns "1500000.00", 12.5 JPY returns "13".
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency string) string {
	precision, ok := currencyPrecision[strings.ToUpper(currency)]
	if !ok {
		precision = 2
	}
	return FormatWithPrecision(amount, precision)
}

// FormatWithPrecision formats an amount with the given precision
func FormatWithPrecision(amount decimal.Decimal, precision int32) string {
	return amount.StringFixed(precision)
}
