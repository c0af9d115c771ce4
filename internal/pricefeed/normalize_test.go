package pricefeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want float64
	}{
		{"brl comma decimal", "R$ 30,45", 30.45},
		{"brl no space", "R$29,90", 29.9},
		{"dollar dot decimal", "$ 12.30", 12.3},
		{"plain number", "55", 55},
		{"dot decimal no symbol", "0.87", 0.87},
		{"comma decimal no symbol", "1234,56", 1234.56},
		{"surrounding text", "preço: 10,00 ", 10.0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Normalize(c.raw)
			require.NoError(t, err)
			assert.InDelta(t, c.want, got, 1e-9)
		})
	}
}

func TestNormalizeRejectsUnusableInput(t *testing.T) {
	for _, raw := range []string{"", "R$ ", "#N/A", "Loading...", "n/d"} {
		_, err := Normalize(raw)
		assert.ErrorIs(t, err, ErrUnparseable, "raw %q", raw)
	}
}
