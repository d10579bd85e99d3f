package invoice

import (
	"math"
	"strconv"
	"strings"
)

// ParseMoney converts a monetary token to a non-negative value rounded
// to 2 decimal places. Grouping commas and a leading currency symbol
// are stripped. Returns nil on anything that does not parse.
func ParseMoney(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return Float(Round2(v))
}

// ParsePercent converts a percentage token, with or without its
// trailing "%" marker, to a value. Returns nil on parse failure.
func ParsePercent(s string) *float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return Float(v)
}

// ParseQty converts a quantity token to an integer, tolerating a
// decimal rendering such as "2.0". Returns nil on parse failure.
func ParseQty(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return Int(int(v))
}

// ParseSerial converts a serial-number token consisting solely of
// digits. Returns nil otherwise.
func ParseSerial(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return Int(n)
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
