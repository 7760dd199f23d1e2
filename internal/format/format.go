// Package format renders raw market and gas quantities for chat replies.
package format

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const unavailable = "N/A"

var printer = message.NewPrinter(language.English)

// Magnitude renders v with a B or M suffix, or with thousands separators below one million.
func Magnitude(v *float64) string {
	if v == nil {
		return unavailable
	}
	value := *v
	if value >= 1e9 {
		return fmt.Sprintf("%.2f B", value/1e9)
	}
	if value >= 1e6 {
		return fmt.Sprintf("%.2f M", value/1e6)
	}
	return printer.Sprint(number.Decimal(value, number.MaxFractionDigits(3)))
}

func Price(v *float64) string {
	if v == nil {
		return unavailable
	}
	return fmt.Sprintf("$%.4f", *v)
}

// Ratio renders a fraction in [0,1] as a percentage.
func Ratio(r float64) string {
	return fmt.Sprintf("%.2f%%", r*100)
}

// Change renders the upstream 24h change as-is. A missing value renders "null".
func Change(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func Gwei(v *float64) string {
	if v == nil {
		return unavailable
	}
	return fmt.Sprintf("%.2f", *v)
}
