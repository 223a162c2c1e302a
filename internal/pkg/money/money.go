package money

import "math"

// Round2 rounds to 2 decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToMinor converts an amount to integer minor units (paise).
func ToMinor(v float64) int64 {
	return int64(math.Round(v * 100))
}

// FromMinor converts minor units back to an amount.
func FromMinor(v int64) float64 {
	return Round2(float64(v) / 100)
}
