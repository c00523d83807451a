// Package core provides the ledger domain types and money handling.
//
// This file contains functions for parsing monetary amounts from strings
// and rendering cents for display and for the wire.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ParseCents converts a non-negative decimal string to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Zero is accepted.
//
// Examples:
//
//	ParseCents("12.34") -> 1234, nil
//	ParseCents("12.345") -> 1235, nil (rounds up)
//	ParseCents("12.344") -> 1234, nil (rounds down)
//	ParseCents("0") -> 0, nil
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// ParseDecimalToCents is ParseCents restricted to strictly positive amounts.
func ParseDecimalToCents(s string) (int64, error) {
	cents, err := ParseCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

const (
	maxIntegerDigits  = 17
	maxFractionDigits = 64
)

// MoneyFromDecimal rounds d half-up (away from zero) to whole cents. d must
// already be known to fit; untrusted input goes through NewMoney.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

// NewMoney rounds d half-up to whole cents and fails with ErrInvalidAmount
// when the result does not fit in int64 cents. The scale is checked before
// any rescaling, so exponents like 1e9999999 are rejected without work.
func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsZero() {
		return Money{}, nil
	}
	exp := int(d.Exponent())
	if exp < -maxFractionDigits || d.NumDigits()+exp > maxIntegerDigits {
		return Money{}, fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}
	cents := d.Shift(2).Round(0).BigInt()
	if !cents.IsInt64() || cents.Int64() == math.MinInt64 {
		return Money{}, fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}
	return Money{Cents: cents.Int64()}, nil
}

// Decimal returns the exact decimal value of m.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (m Money) Sign() int {
	switch {
	case m.Cents > 0:
		return 1
	case m.Cents < 0:
		return -1
	}
	return 0
}

// String renders m with exactly two fractional digits and no grouping,
// e.g. "-1234.50". This is the form used for further computation.
func (m Money) String() string {
	sign, units, frac := m.parts()
	return fmt.Sprintf("%s%d.%02d", sign, units, frac)
}

// Formatted renders m for display with thousands separators, e.g. "1,234.50".
// Never parse this form back.
func (m Money) Formatted() string {
	sign, units, frac := m.parts()
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(int64(units)), frac)
}

// parts splits m into sign, whole units and cents. The magnitude is taken
// in uint64 so math.MinInt64 does not overflow.
func (m Money) parts() (sign string, units, frac uint64) {
	mag := uint64(m.Cents)
	if m.Cents < 0 {
		sign = "-"
		mag = -mag
	}
	return sign, mag / 100, mag % 100
}

// Signed renders m for day headers: "+50.00" for positive values,
// "-50.00" for negative ones and "0.00" for zero.
func (m Money) Signed() string {
	if m.Cents > 0 {
		return "+" + m.String()
	}
	return m.String()
}

// MarshalJSON encodes m as a JSON number with exactly two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*m = Money{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	v, err := NewMoney(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Share returns m as a whole percentage of total, rounded half-up.
// A zero or negative total yields 0.
func (m Money) Share(total Money) int {
	if total.Cents <= 0 {
		return 0
	}
	scaled := m.Cents * 100
	q, r := scaled/total.Cents, scaled%total.Cents
	if r < 0 {
		r = -r
	}
	if 2*r >= total.Cents {
		if scaled < 0 {
			q--
		} else {
			q++
		}
	}
	return int(q)
}
