// Package month provides calendar-month arithmetic on YYYY-MM tokens.
package month

import (
	"fmt"
	"time"
)

const layout = "2006-01"

// Month is a calendar month counted from January of year 0.
// Arithmetic is plain integer arithmetic, so year boundaries need no special casing.
type Month int

// New returns the month for the given year and calendar month.
func New(year int, m time.Month) Month {
	return Month(year*12 + int(m) - 1)
}

// Of returns the month containing t, in t's location.
func Of(t time.Time) Month {
	return New(t.Year(), t.Month())
}

// Now returns the current wall-clock month in local time.
func Now() Month {
	return Of(time.Now())
}

// Parse reads a YYYY-MM token.
func Parse(s string) (Month, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("parsing month %q: %w", s, err)
	}
	return Of(t), nil
}

// MustParse is Parse for literals. It panics on malformed input.
func MustParse(s string) Month {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Year returns the calendar year.
func (m Month) Year() int {
	y := int(m) / 12
	if int(m) < 0 && int(m)%12 != 0 {
		y--
	}
	return y
}

// Month returns the calendar month within the year.
func (m Month) Month() time.Month {
	return time.Month(int(m)-m.Year()*12) + 1
}

// Add returns m shifted by n months; negative n goes backwards.
func (m Month) Add(n int) Month { return m + Month(n) }

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool { return m < o }

// After reports whether m is strictly later than o.
func (m Month) After(o Month) bool { return m > o }

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year(), int(m.Month()))
}

// MarshalText encodes the month as YYYY-MM, which also makes it usable as a JSON map key.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a YYYY-MM token.
func (m *Month) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Diff returns the signed number of months from a to b.
func Diff(a, b Month) int {
	return int(b - a)
}

// AddMonths shifts a YYYY-MM token by n months.
func AddMonths(s string, n int) (string, error) {
	m, err := Parse(s)
	if err != nil {
		return "", err
	}
	return m.Add(n).String(), nil
}

// Range returns n consecutive months starting at from.
func Range(from Month, n int) []Month {
	if n <= 0 {
		return nil
	}
	out := make([]Month, n)
	for i := range out {
		out[i] = from.Add(i)
	}
	return out
}
