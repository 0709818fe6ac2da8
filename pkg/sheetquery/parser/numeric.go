package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Number is the outcome of ExtractNumber: either a parsed value or
// NotNumeric.
type Number struct {
	value   float64
	numeric bool
}

// NotNumeric is the Number for text that does not read as a number.
var NotNumeric = Number{}

// Parsed wraps v as a numeric result.
func Parsed(v float64) Number {
	return Number{value: v, numeric: true}
}

// IsNumeric reports whether the text parsed.
func (n Number) IsNumeric() bool {
	return n.numeric
}

// Float64 returns the parsed value and whether there was one.
func (n Number) Float64() (float64, bool) {
	return n.value, n.numeric
}

// String renders the value, or "NotNumeric".
func (n Number) String() string {
	if !n.numeric {
		return "NotNumeric"
	}
	return strconv.FormatFloat(n.value, 'g', -1, 64)
}

// mixedFraction matches "<whole> <numerator>/<denominator>", e.g. "1 3/4".
var mixedFraction = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)$`)

// numberNoise holds characters dropped before parsing.
var numberNoise = strings.NewReplacer("$", "", ",", "", " ", "")

// ExtractNumber reads currency, percentages, mixed fractions and plain or
// scientific decimals. Anything else is NotNumeric; it never fails.
func ExtractNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotNumeric
	}

	if m := mixedFraction.FindStringSubmatch(s); m != nil {
		return fraction(m[1], m[2], m[3])
	}

	cleaned := numberNoise.Replace(s)
	percent := false
	if strings.HasSuffix(cleaned, "%") {
		percent = true
		cleaned = strings.TrimRight(cleaned, "%")
	}

	v, ok := parseDecimal(cleaned)
	if !ok {
		return NotNumeric
	}
	if percent {
		v /= 100
	}
	return Parsed(v)
}

func fraction(whole, num, den string) Number {
	w, err := strconv.ParseFloat(whole, 64)
	if err != nil {
		return NotNumeric
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return NotNumeric
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return NotNumeric
	}
	v := w + n/d
	if math.IsInf(v, 0) {
		return NotNumeric
	}
	return Parsed(v)
}

// parseDecimal accepts decimal and exponent forms only: hex floats, NaN and
// infinities are rejected.
func parseDecimal(s string) (float64, bool) {
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
