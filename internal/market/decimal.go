package market

import (
	"math"
	"strconv"
	"strings"
)

// ParseDecimal parses a French-formatted number such as "-3,5". Surrounding
// whitespace is ignored. Non-finite values are rejected.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
