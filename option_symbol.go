package brokertax

import (
	"fmt"
	"regexp"

	"github.com/etnz/brokertax/date"
	"github.com/shopspring/decimal"
)

// OptionType is either a call or a put.
type OptionType byte

const (
	Call OptionType = 'C'
	Put  OptionType = 'P'
)

func (t OptionType) String() string {
	if t == Put {
		return "Put"
	}
	return "Call"
}

// OptionSymbol is the parsed form of "AAPL 01/19/2024 190.00 C".
type OptionSymbol struct {
	Underlying string
	Expiry     date.Date
	Strike     decimal.Decimal
	Type       OptionType
}

var optionSymbolRE = regexp.MustCompile(`^([A-Z][A-Z0-9./]*)\s+(\d{2}/\d{2}/\d{4})\s+(\d+(?:\.\d+)?)\s+([CP])$`)

// ParseOptionSymbol parses an option contract symbol. It returns false when s
// is not an option symbol, callers then handle it as an equity.
func ParseOptionSymbol(s string) (OptionSymbol, bool) {
	m := optionSymbolRE.FindStringSubmatch(s)
	if m == nil {
		return OptionSymbol{}, false
	}
	expiry, err := date.ParseUS(m[2])
	if err != nil {
		return OptionSymbol{}, false
	}
	strike, err := decimal.NewFromString(m[3])
	if err != nil {
		return OptionSymbol{}, false
	}
	return OptionSymbol{
		Underlying: m[1],
		Expiry:     expiry,
		Strike:     strike,
		Type:       OptionType(m[4][0]),
	}, true
}

// String formats the symbol the way brokerage exports do.
func (o OptionSymbol) String() string {
	return fmt.Sprintf("%s %s %s %c", o.Underlying, o.Expiry.Format("01/02/2006"), o.Strike.StringFixed(2), byte(o.Type))
}

// Compare orders symbols by underlying, expiry, strike then type.
func (o OptionSymbol) Compare(p OptionSymbol) int {
	switch {
	case o.Underlying < p.Underlying:
		return -1
	case o.Underlying > p.Underlying:
		return 1
	}
	if c := o.Expiry.Compare(p.Expiry); c != 0 {
		return c
	}
	if c := o.Strike.Cmp(p.Strike); c != 0 {
		return c
	}
	return int(o.Type) - int(p.Type)
}

// intrinsic returns the per share intrinsic value of the option when the
// underlying trades at px.
func (o OptionSymbol) intrinsic(px decimal.Decimal) decimal.Decimal {
	v := px.Sub(o.Strike)
	if o.Type == Put {
		v = v.Neg()
	}
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
