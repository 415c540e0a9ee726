package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount that travels as a plain JSON number.
type Money struct {
	decimal.Decimal
}

var Zero = Money{decimal.Zero}

func New(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

func FromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Parse accepts "150", "150.5" or "150,50".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return Zero, err
	}
	return Money{d}, nil
}

func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// DivInt divides by n, returning zero when n is not positive.
func (m Money) DivInt(n int) Money {
	if n <= 0 {
		return Zero
	}
	return Money{m.Decimal.Div(decimal.NewFromInt(int64(n)))}
}

func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		m.Decimal = decimal.Zero
		return nil
	}
	return m.Decimal.UnmarshalJSON(data)
}

// Sum adds every amount.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
