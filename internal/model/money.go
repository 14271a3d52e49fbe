package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultCurrency is used when a price is entered without one. Manual UPI/bank transfers settle in rupees.
const DefaultCurrency = "inr"

var ErrInvalidAmount = errors.New("invalid amount")

// Money is a monetary value in the smallest currency unit (paise, cents).
// Arithmetic is integer-only.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewMoney builds a Money value in minor units.
func NewMoney(minor int64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: minor, Currency: strings.ToLower(currency)}
}

// ParseMoney parses a decimal string such as "500", "499.5" or "499.50" into minor units.
// At most two fractional digits are accepted and negative values are rejected.
func ParseMoney(s, currency string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NewMoney(0, currency), nil
	}
	if strings.HasPrefix(s, "-") {
		return Money{}, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseUint(whole, 10, 62)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	f, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return NewMoney(int64(w)*100+int64(f), currency), nil
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// Decimal renders the amount with two fractional digits, e.g. "499.50".
func (m Money) Decimal() string {
	sign := ""
	a := m.Amount
	if a < 0 {
		sign, a = "-", -a
	}
	return fmt.Sprintf("%s%d.%02d", sign, a/100, a%100)
}

func (m Money) String() string {
	return m.Decimal() + " " + strings.ToUpper(m.Currency)
}
