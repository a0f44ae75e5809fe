package money

import (
	"bytes"
	"errors"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (kobo, cents).
// Balances are never represented as floats.
type Money int64

const Zero Money = 0

var (
	ErrNegative    = errors.New("amount must not be negative")
	ErrNotPositive = errors.New("amount must be greater than zero")
	ErrNotIntegral = errors.New("amount must be a whole number of minor units")
	ErrOverflow    = errors.New("amount is too large")
)

var (
	hundred  = decimal.NewFromInt(100)
	maxMoney = decimal.NewFromInt(math.MaxInt64)
	minMoney = decimal.NewFromInt(math.MinInt64)
)

// New returns a non-negative amount.
func New(minor int64) (Money, error) {
	if minor < 0 {
		return Zero, ErrNegative
	}
	return Money(minor), nil
}

// Positive returns an amount that is strictly greater than zero.
func Positive(minor int64) (Money, error) {
	if minor <= 0 {
		return Zero, ErrNotPositive
	}
	return Money(minor), nil
}

// FromDecimal converts a whole decimal number of minor units.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Truncate(0)) {
		return Zero, ErrNotIntegral
	}
	if d.GreaterThan(maxMoney) || d.LessThan(minMoney) {
		return Zero, ErrOverflow
	}
	return Money(d.IntPart()), nil
}

func (m Money) Add(o Money) Money { return m + o }

func (m Money) Sub(o Money) Money { return m - o }

// AddChecked adds o, failing on int64 overflow.
func (m Money) AddChecked(o Money) (Money, error) {
	r := m + o
	if (o > 0 && r < m) || (o < 0 && r > m) {
		return Zero, ErrOverflow
	}
	return r, nil
}

func (m Money) Neg() Money { return -m }

func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// MulInt multiplies by a count of units, failing on int64 overflow.
func (m Money) MulInt(n int64) (Money, error) {
	if m == 0 || n == 0 {
		return Zero, nil
	}
	r := int64(m) * n
	if r/n != int64(m) || (n == -1 && int64(m) == math.MinInt64) {
		return Zero, ErrOverflow
	}
	return Money(r), nil
}

// Percent returns m × pct / 100 truncated toward zero.
func (m Money) Percent(pct decimal.Decimal) Money {
	return Money(percentOf(m, pct).IntPart())
}

// PercentChecked is Percent that fails when the result does not fit in Money.
func (m Money) PercentChecked(pct decimal.Decimal) (Money, error) {
	return FromDecimal(percentOf(m, pct))
}

func percentOf(m Money, pct decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(m)).Mul(pct).Div(hundred).Truncate(0)
}

func (m Money) Cmp(o Money) int {
	switch {
	case m < o:
		return -1
	case m > o:
		return 1
	}
	return 0
}

func (m Money) LessThan(o Money) bool { return m < o }

func (m Money) IsZero() bool { return m == 0 }

func (m Money) IsPositive() bool { return m > 0 }

func (m Money) IsNegative() bool { return m < 0 }

func (m Money) Int64() int64 { return int64(m) }

func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

// String formats the amount in major units with two decimals, e.g. 500000 -> "5000.00".
func (m Money) String() string {
	return decimal.New(int64(m), -2).StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(m), 10), nil
}

// UnmarshalJSON accepts a JSON number (or numeric string) of minor units and rejects fractions.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	data = bytes.Trim(data, `"`)
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return err
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
