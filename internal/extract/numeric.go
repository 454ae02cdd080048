package extract

import (
	"strconv"
	"strings"
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ParseNumericOrDefault coerces table text into a number, returning def
// instead of failing. Thousands separators are removed and what remains must
// be ASCII digits only. Whitespace is not trimmed, so a cell whose text ends
// in a newline yields def just like decimals, signs and footnote markers.
func ParseNumericOrDefault(text string, def float64) float64 {
	s := strings.ReplaceAll(text, ",", "")
	if !isDigits(s) {
		return def
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return value
}
