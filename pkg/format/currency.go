// Package format は金額の表示整形を提供する。
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Indonesian)

// Rupiah formats a monetary amount for display with id-ID digit grouping and
// zero fraction digits, e.g. 1500000 -> "Rp1.500.000". Amounts are rounded to
// whole rupiah.
func Rupiah(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0 // normalize -0
	}
	if r < 0 {
		return "-" + Rupiah(-r)
	}
	return printer.Sprintf("Rp%v", number.Decimal(r, number.MaxFractionDigits(0)))
}
