package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount in the store currency.
// It decodes from JSON numbers or numeric strings and encodes as a bare number.
type Money struct {
	decimal.Decimal
}

// NewMoney parses a decimal string such as "10.00".
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Money{d}, nil
}

// MustMoney is like NewMoney but panics on malformed input. Intended for
// constants and tests.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Times returns m multiplied by an integer quantity.
func (m Money) Times(quantity int) Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Plus returns m + o.
func (m Money) Plus(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// Equals reports whether two amounts are numerically equal ("10" == "10.00").
func (m Money) Equals(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// MarshalJSON encodes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts 10, 10.5, "10.50" and null.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
