// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"math"
	"strconv"
	"strings"
)

// amountNoise is stripped before parsing so that model or client output such
// as "£25", "$1,200" or "25 GBP" still yields a number.
var amountNoise = strings.NewReplacer("£", "", "$", "", "€", "", ",", "", "GBP", "", "gbp", "", "USD", "", "usd", "", "EUR", "", "eur", "")

// ParseAmount parses a price-like string. It reports false for empty input,
// non-numeric text and NaN or infinite values.
//
// Example:
//
//	v, ok := utils.ParseAmount("£24.99") // 24.99, true
//	v, ok = utils.ParseAmount("cheap")   // 0, false
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(amountNoise.Replace(s))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !IsFinite(f) {
		return 0, false
	}
	return f, true
}

// AmountDefault returns ParseAmount(s) when it succeeds, otherwise def.
func AmountDefault(s string, def float64) float64 {
	if f, ok := ParseAmount(s); ok {
		return f
	}
	return def
}

// IsFinite reports whether f is neither NaN nor ±Inf.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
