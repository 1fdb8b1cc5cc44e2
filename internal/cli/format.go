package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatDollars formats an amount as US currency with comma grouping.
func FormatDollars(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := groupThousands(parts[0])

	result := "$" + intPart + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// FormatDecimalDollars formats a decimal amount as US currency.
func FormatDecimalDollars(d decimal.Decimal) string {
	f, _ := d.Float64()
	return FormatDollars(f)
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var groups []string
	for n > 3 {
		groups = append([]string{s[n-3:]}, groups...)
		s = s[:n-3]
		n = len(s)
	}
	return s + "," + strings.Join(groups, ",")
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatPct formats a percentage without sign.
func FormatPct(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// FormatStrike formats a strike price, dropping trailing zero cents.
func FormatStrike(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return "$" + d.Truncate(0).String()
	}
	return "$" + d.StringFixed(2)
}

// FormatRatio formats a risk:reward ratio.
func FormatRatio(d decimal.Decimal) string {
	return d.StringFixed(2) + ":1"
}

// FormatOptionalInt formats a nullable count.
func FormatOptionalInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
