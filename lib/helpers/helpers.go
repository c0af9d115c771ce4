package helpers

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"strings"
)

func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

// FormatPriceBR renders a price the way the sheet does: comma decimal
// separator, dot thousand separator, two decimals.
func FormatPriceBR(price float64, escapeMarkdown bool) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	formatted := p.Sprintf("%.2f", price)

	if escapeMarkdown {
		return EscapeMarkdownV2(formatted)
	}
	return formatted
}
