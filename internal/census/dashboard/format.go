package dashboard

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.BrazilianPortuguese)
}

// FormatCount renders a count with pt-BR grouping: 1234 -> "1.234".
func FormatCount(v float64) string {
	return printer().Sprintf("%d", int64(math.Round(v)))
}

// FormatThousands renders v in thousands with one decimal: 12345 -> "12,3 mil".
func FormatThousands(v float64) string {
	return printer().Sprintf("%.1f mil", v/1000)
}
