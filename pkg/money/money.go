package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for every amount.
const Scale = 2

// Amount is a decimal money value stored as DECIMAL(10,2) and rendered with
// exactly two fractional digits.
type Amount struct {
	decimal.Decimal
}

func New(d decimal.Decimal) Amount {
	return Amount{Decimal: d.Round(Scale)}
}

func Zero() Amount {
	return Amount{Decimal: decimal.Zero}
}

// Parse reads a decimal string and rejects values with more than two
// fractional digits.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q", s)
	}
	if !d.Equal(d.Round(Scale)) {
		return Amount{}, fmt.Errorf("amount %q has more than %d decimal places", s, Scale)
	}
	return Amount{Decimal: d}, nil
}

func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Mul(qty int) Amount {
	return New(a.Decimal.Mul(decimal.NewFromInt(int64(qty))))
}

func (a Amount) Add(b Amount) Amount {
	return New(a.Decimal.Add(b.Decimal))
}

func (a Amount) String() string {
	return a.StringFixed(Scale)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.StringFixed(Scale) + `"`), nil
}
