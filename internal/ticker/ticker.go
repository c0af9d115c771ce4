package ticker

import (
	"math"
	"strings"
)

// Epsilon absorbs float64 round-trip error when comparing alert targets
// that originated from user-typed strings.
const Epsilon = 1e-6

// DefaultSuffix is appended to bare B3 tickers, e.g. PETR4 -> PETR4.SA.
const DefaultSuffix = ".SA"

// Alert is a standing "price at or below target" request for one symbol.
type Alert struct {
	Symbol string  `json:"symbol"`
	Target float64 `json:"target"`
}

// Normalize canonicalizes a user or sheet provided ticker symbol:
// trimmed, uppercased, exchange-suffixed when no suffix is present.
func Normalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return s
	}
	if !strings.Contains(s, ".") {
		s += DefaultSuffix
	}
	return s
}

// SameTarget reports whether two alert targets are equal within Epsilon.
func SameTarget(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Equal reports whether two alerts identify the same (symbol, target) pair.
func (a Alert) Equal(b Alert) bool {
	return a.Symbol == b.Symbol && SameTarget(a.Target, b.Target)
}
