package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, "PETR4\\.SA", EscapeMarkdownV2("PETR4.SA"))
	assert.Equal(t, "\\(alvo\\)", EscapeMarkdownV2("(alvo)"))
	assert.Equal(t, "30,45", EscapeMarkdownV2("30,45"), "comma is not a MarkdownV2 special")
}

func TestFormatPriceBR(t *testing.T) {
	assert.Equal(t, "30,45", FormatPriceBR(30.45, false))
	assert.Equal(t, "29,90", FormatPriceBR(29.9, false))
	assert.Equal(t, "1.234,56", FormatPriceBR(1234.56, false))
	assert.Equal(t, "1\\.234,56", FormatPriceBR(1234.56, true))
}
