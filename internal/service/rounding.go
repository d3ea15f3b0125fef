package service

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Round2 rounds the binary value to two decimals, ties to even, so 1.015
// (stored just below it) becomes 1.01. NaN and infinities pass through.
func Round2(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return math.RoundToEven(f*100) / 100
}

// FormatRatio renders a ratio as "1.25x"
func FormatRatio(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nanx"
	case math.IsInf(f, 1):
		return "infx"
	case math.IsInf(f, -1):
		return "-infx"
	}
	return decimal.NewFromFloat(Round2(f)).StringFixed(2) + "x"
}

// FormatCurrency renders an amount with thousands separators and no decimals
func FormatCurrency(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "₹" + strconv.FormatFloat(f, 'f', -1, 64)
	}
	whole := decimal.NewFromFloat(f).RoundBank(0).StringFixed(0)
	neg := false
	if len(whole) > 0 && whole[0] == '-' {
		neg = true
		whole = whole[1:]
	}
	out := make([]byte, 0, len(whole)+len(whole)/3)
	for i := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, whole[i])
	}
	if neg {
		return "-₹" + string(out)
	}
	return "₹" + string(out)
}
