// Package readings normalizes raw meter-reading text into numeric values.
// Operators type readings by hand, sometimes with Arabic-Indic digits or
// thousands separators; anything unparsable collapses to a missing value
// rather than an error.
package readings

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	MinHours     = 1
	MaxHours     = 24
	DefaultHours = 24
)

// Parse never fails: null-ish, blank or unparsable input is simply missing.
func Parse(raw string) Value {
	cleaned := normalizeDigits(raw)
	if cleaned == "" {
		return MissingValue()
	}
	num, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return MissingValue()
	}
	return FromFloat(num)
}

// FromFloat accepts an already-numeric reading. Non-finite numbers map to
// missing, same as unparsable text.
func FromFloat(num float64) Value {
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return MissingValue()
	}
	return Of(num)
}

// ParseHours parses a turbine running-hours reading. Empty defaults to a
// full day; out-of-range values clamp to [1,24].
func ParseHours(raw string) float64 {
	v := Parse(raw)
	if v.Missing {
		return DefaultHours
	}
	return ClampHours(v.Num)
}

func ClampHours(hours float64) float64 {
	if hours < MinHours {
		return MinHours
	}
	if hours > MaxHours {
		return MaxHours
	}
	return hours
}

// normalizeDigits strips whitespace and thousands-separator commas and maps
// Arabic-Indic (U+0660..U+0669) and Extended Arabic-Indic (U+06F0..U+06F9)
// digit glyphs to ASCII.
func normalizeDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == ',' || unicode.IsSpace(r):
			// thousands separator or stray whitespace
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
