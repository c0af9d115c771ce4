package pricefeed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnparseable marks a raw sheet value with no usable numeric content.
var ErrUnparseable = errors.New("price string has no usable numeric value")

var nonNumeric = regexp.MustCompile(`[^\d,.]`)

// Normalize parses a loosely formatted price string from the sheet,
// e.g. "R$ 30,45" or "US$ 12.30". Everything that is not a digit, comma
// or dot is stripped, then the comma decimal separator is converted to
// the canonical dot form.
func Normalize(raw string) (float64, error) {
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, errors.Wrapf(ErrUnparseable, "raw value %q", raw)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrUnparseable, "raw value %q", raw)
	}
	return value, nil
}
