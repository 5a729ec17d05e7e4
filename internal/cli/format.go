// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/month"
)

var monthNames = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// FormatMoney formats an amount in Turkish lira with two decimals.
// e.g., 1234.5 -> "₺1.234,50", -20 -> "-₺20,00"
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixedBank(2)
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + "₺" + s
	}
	return sign + "₺" + FormatNumber(n) + "," + frac
}

// FormatMoneyShort formats an amount without decimals, for tight columns.
func FormatMoneyShort(d decimal.Decimal) string {
	r := d.Round(0)
	if r.IsNegative() {
		return "-₺" + FormatNumber(r.Neg().IntPart())
	}
	return "₺" + FormatNumber(r.IntPart())
}

// FormatNumber adds dot separators to an integer.
// e.g., 1234567 -> "1.234.567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte('.')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%%%.0f", f*100)
}

// FormatDelta formats the change between two amounts with an explicit sign.
func FormatDelta(current, previous decimal.Decimal) string {
	delta := current.Sub(previous)
	if delta.IsNegative() {
		return FormatMoney(delta)
	}
	return "+" + FormatMoney(delta)
}

// FormatMonth renders a month as "Ekim 2026".
func FormatMonth(m month.Month) string {
	return monthNames[m.Month()-1] + " " + strconv.Itoa(m.Year())
}

// FormatDay renders a date as "02.01.2006".
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}

// FormatPaid renders a paid flag.
func FormatPaid(paid bool) string {
	if paid {
		return "✓"
	}
	return "·"
}

// ParseAmount reads "1234.5", "1234,5", "1.234,50" or "₺1.234,50".
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "₺"))
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}
