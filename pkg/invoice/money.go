// pkg/invoice/money.go

package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders an amount with Indian digit grouping (12,34,567.5).
// At most two fraction digits are kept and trailing zeros are dropped.
func FormatINR(amount decimal.Decimal) string {
	s := amount.Round(2).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	out := sign + groupIndian(whole)
	if frac != "" {
		out += "." + frac
	}
	return out
}

// groupIndian groups the last three digits, then every two digits before.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
