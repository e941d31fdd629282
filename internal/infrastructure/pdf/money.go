package pdf

import (
	"strings"

	"github.com/shopspring/decimal"
)

// formatMoney formatea un monto a dos decimales con separadores de miles.
// Ej: 1050 → "1,050.00", 1234567.891 → "1,234,567.89"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	if n := len(intPart); n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i := 0; i < n; i++ {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, intPart[i])
		}
		intPart = string(buf)
	}

	if neg {
		return "-" + intPart + frac
	}
	return intPart + frac
}
