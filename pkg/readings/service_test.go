package readings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		missing bool
	}{
		{"empty", "", 0, true},
		{"whitespace only", "   \t ", 0, true},
		{"plain integer", "1500", 1500, false},
		{"decimal", "12.5", 12.5, false},
		{"leading zeros", "00850", 850, false},
		{"thousands separators", "1,234,567", 1234567, false},
		{"embedded whitespace", " 1 234 ", 1234, false},
		{"arabic-indic digits", "١٢٣", 123, false},
		{"extended arabic-indic digits", "۴۵۶", 456, false},
		{"mixed glyphs", "1٢۳", 123, false},
		{"negative", "-42", -42, false},
		{"garbage", "abc", 0, true},
		{"partial garbage", "12x", 0, true},
		{"nan text", "NaN", 0, true},
		{"infinity text", "Inf", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.Equal(t, tt.missing, got.Missing)
			if !tt.missing {
				assert.Equal(t, tt.want, got.Num)
			}
		})
	}
}

func TestFromFloatNonFinite(t *testing.T) {
	assert.True(t, FromFloat(math.NaN()).Missing)
	assert.True(t, FromFloat(math.Inf(1)).Missing)
	assert.True(t, FromFloat(math.Inf(-1)).Missing)
	assert.False(t, FromFloat(0).Missing)
}

func TestMissingIsNotZero(t *testing.T) {
	// A missing reading means "stopped", not "reading zero".
	zero := Parse("0")
	missing := Parse("")
	assert.False(t, zero.Missing)
	assert.Equal(t, 0.0, zero.Num)
	assert.True(t, missing.Missing)
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"", 24}, // empty defaults to a full day
		{"0", 1}, // below range clamps to the boundary exactly
		{"-5", 1},
		{"1", 1},
		{"12.5", 12.5},
		{"24", 24},
		{"25", 24},
		{"100", 24},
		{"junk", 24},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseHours(tt.raw), "hours %q", tt.raw)
	}
}

func TestValueOr(t *testing.T) {
	assert.Equal(t, 7.0, MissingValue().Or(7))
	assert.Equal(t, 3.0, Of(3).Or(7))
}
