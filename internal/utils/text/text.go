// Package text formats numbers and strings for terminal output.
package text

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultFractionDigits is the precision used for areas and densities.
const DefaultFractionDigits = 2

var printer = message.NewPrinter(language.English)

// FormatInt formats n with thousands separators.
//
// Examples:
//
//	FormatInt(372520)     // "372,520"
//	FormatInt(-1000)      // "-1,000"
func FormatInt(n int64) string {
	return printer.Sprint(number.Decimal(n))
}

// FormatDecimal formats v with thousands separators and at most
// maxFractionDigits digits after the decimal point. Trailing zeros are
// dropped, so FormatDecimal(2.5, 2) is "2.5" and FormatDecimal(3, 2) is "3".
//
// Examples:
//
//	FormatDecimal(103000, 2)     // "103,000"
//	FormatDecimal(19.2571, 2)    // "19.26"
func FormatDecimal(v float64, maxFractionDigits int) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(max(maxFractionDigits, 0))))
}

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Country names such as "Côte d'Ivoire" or "São Tomé and Príncipe" need rune
// counting rather than byte counting to line up in columns.
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate shortens s to at most width runes, marking the cut with "…".
// A width below 1 returns s unchanged.
func Truncate(s string, width int) string {
	if width < 1 || CountRunes(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}
