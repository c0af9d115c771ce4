package pricefeed

import (
	"sheet-alert-bot/internal/ticker"

	log "github.com/sirupsen/logrus"
)

// Snapshot is one point-in-time read of the price sheet: normalized
// symbol -> raw price string. Sheet row order is preserved so listings
// match what the spreadsheet shows.
type Snapshot struct {
	order []string
	raw   map[string]string
}

func NewSnapshot() *Snapshot {
	return &Snapshot{raw: make(map[string]string)}
}

// Set records a raw price under the normalized symbol key.
func (s *Snapshot) Set(symbol, raw string) {
	key := ticker.Normalize(symbol)
	if key == "" {
		return
	}
	if _, exists := s.raw[key]; !exists {
		s.order = append(s.order, key)
	}
	s.raw[key] = raw
}

// Price returns the parsed price for a symbol. An absent symbol and an
// unparseable raw value are both reported as not found, never as an
// error: a hole in the sheet is a valid outcome.
func (s *Snapshot) Price(symbol string) (float64, bool) {
	raw, ok := s.raw[ticker.Normalize(symbol)]
	if !ok {
		return 0, false
	}

	value, err := Normalize(raw)
	if err != nil {
		log.Debugf("unusable price for %s: %v", symbol, err)
		return 0, false
	}
	return value, true
}

// Symbols returns up to limit symbols in sheet order. limit <= 0 means all.
func (s *Snapshot) Symbols(limit int) []string {
	if limit <= 0 || limit > len(s.order) {
		limit = len(s.order)
	}
	out := make([]string, limit)
	copy(out, s.order[:limit])
	return out
}

func (s *Snapshot) Len() int {
	return len(s.order)
}
