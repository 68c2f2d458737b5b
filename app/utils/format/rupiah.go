package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Rupiah memformat nilai decimal menjadi "Rp 1.234.567" untuk tampilan admin.
func Rupiah(amount decimal.Decimal) string {
	str := amount.StringFixed(0)

	negative := false
	if strings.HasPrefix(str, "-") {
		negative = true
		str = str[1:]
	}

	n := len(str)
	if n > 3 {
		var b strings.Builder
		for i, char := range str {
			b.WriteRune(char)
			if (n-1-i)%3 == 0 && i != n-1 {
				b.WriteRune('.')
			}
		}
		str = b.String()
	}

	if negative {
		return "-Rp " + str
	}
	return "Rp " + str
}
