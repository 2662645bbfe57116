package readings

// Value is the result of parsing a raw reading. A missing value is distinct
// from zero everywhere downstream: a unit with a missing reading is stopped,
// not reading zero.
type Value struct {
	Num     float64
	Missing bool
}

func MissingValue() Value {
	return Value{Missing: true}
}

func Of(num float64) Value {
	return Value{Num: num}
}

// Or returns the parsed number, or fallback when the value is missing.
func (v Value) Or(fallback float64) float64 {
	if v.Missing {
		return fallback
	}
	return v.Num
}
