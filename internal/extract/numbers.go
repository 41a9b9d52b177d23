package extract

import (
	"strconv"
	"strings"
)

// ParseQuantity coerces a messy cell or token into a positive quantity.
// Strips currency signs, units and grouping junk, accepts "," as a decimal
// separator. Returns 0 when nothing numeric survives.
func ParseQuantity(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteByte('.')
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}
	// "1.234.5" from grouped thousands: keep the last separator only
	if strings.Count(cleaned, ".") > 1 {
		last := strings.LastIndex(cleaned, ".")
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// trimFloat renders a quantity without a trailing ".0" noise: 2 -> "2",
// 2.5 -> "2.5".
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
