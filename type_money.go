package tally

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is a balance in the display currency of the ledger.
//
// The ledger itself is single-currency and never converts: the currency only
// drives how values are shown.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns value in currency cur.
func M(value decimal.Decimal, cur string) Money {
	return Money{value: value, cur: cur}
}

// ParseMoney parses a stored decimal text as Money.
func ParseMoney(s, cur string) (Money, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return M(v, cur), nil
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the value formatted with the currency symbol and fraction digits.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

// Fixed returns the value with exactly two decimals and no symbol.
func (m Money) Fixed() string { return m.value.StringFixed(2) }

func (m Money) Currency() string       { return m.cur }
func (m Money) Value() decimal.Decimal { return m.value }
func (m Money) IsZero() bool           { return m.value.IsZero() }
func (m Money) IsNegative() bool       { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool     { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) Add(n Money) Money      { return Money{value: m.value.Add(n.value), cur: m.cur} }
func (m Money) Sub(n Money) Money      { return Money{value: m.value.Sub(n.value), cur: m.cur} }
func (m Money) Neg() Money             { return Money{value: m.value.Neg(), cur: m.cur} }

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
