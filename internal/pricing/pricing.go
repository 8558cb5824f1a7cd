// Package pricing extracts priced items out of captured page content.
// Two independent passes exist: a structured one over raw markup and a
// loose one over normalized text. They have different precision/recall
// tradeoffs and are selected explicitly by the caller, never merged.
package pricing

import (
	"math"
	"strconv"
	"strings"
)

// MaxItems bounds the output of either extraction pass.
const MaxItems = 50

// DefaultCurrency is assumed by the structured pass; the markup this
// pass targets does not carry an explicit currency.
const DefaultCurrency = "EUR"

const maxLabelLength = 120

// ParseAmount parses a display price into a float64. Everything except
// digits, '.' and ',' is stripped, ',' becomes '.', and non-finite or
// unparseable results are rejected.
func ParseAmount(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, s)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}

	return value, true
}

// NormalizeCurrency maps a matched currency token to a 3-letter code.
// Unknown tokens are passed through upper-cased.
func NormalizeCurrency(token string) string {
	switch strings.ToUpper(token) {
	case "€", "EUR", "EURO":
		return "EUR"
	case "$", "USD":
		return "USD"
	default:
		return strings.ToUpper(token)
	}
}

func truncateLabel(s string) string {
	if runes := []rune(s); len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return s
}
