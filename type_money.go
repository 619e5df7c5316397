package brokertax

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currencies handled by the reports.
const (
	USD = money.USD
	JPY = money.JPY
)

// Money represents a monetary value.
//
// Arithmetic is only defined between values of the same currency, going from
// one currency to another requires an explicit Rate.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// fraction returns the number of minor unit digits of the currency (2 for USD, 0 for JPY).
func (m Money) fraction() int32 { return int32(m.currency().Fraction) }

// Round returns m rounded half-up to the minor unit of its currency.
func (m Money) Round() Money {
	return Money{value: m.value.Round(m.fraction()), cur: m.cur}
}

// String returns the string representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Simple wrapper around money.Money

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money                      { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money            { return Money{value: m.value.Div(n.value), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.Round().IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// MarshalJSON writes the amount rounded to the currency minor unit.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	w.Append("amount", m.value.Round(m.fraction()))
	return w.MarshalJSON()
}

// Rate converts amounts from a base currency to a quote currency.
type Rate struct {
	Base  string
	Quote string
	Value decimal.Decimal
}

// USDJPY returns the USD to JPY rate of the given value.
func USDJPY(v decimal.Decimal) Rate { return Rate{Base: USD, Quote: JPY, Value: v} }

// Convert returns m expressed in the quote currency, rounded to its minor unit.
func (r Rate) Convert(m Money) Money {
	if m.cur == r.Quote {
		return m
	}
	if m.cur != r.Base && m.cur != "" {
		panic(fmt.Sprintf("cannot convert %s with a %s/%s rate", m.cur, r.Base, r.Quote))
	}
	return Money{value: m.value.Mul(r.Value), cur: r.Quote}.Round()
}

func (r Rate) String() string { return r.Value.StringFixed(2) }
