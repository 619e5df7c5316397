package brokertax

import (
	"github.com/etnz/brokertax/date"
)

// ContractMultiplier is the number of underlying shares per option contract.
const ContractMultiplier = 100

// ClosedTrade is the realized result of one FIFO match between a closing
// quantity and an open lot.
type ClosedTrade struct {
	Lot        LotID
	Side       Side
	OpenDate   date.Date
	CloseDate  date.Date
	Quantity   Quantity
	OpenPrice  Money
	ClosePrice Money
	OpenFees   Money
	CloseFees  Money
	Gain       Money
}

// Fees returns the open and close fees allocated to the trade.
func (c ClosedTrade) Fees() Money { return c.OpenFees.Add(c.CloseFees) }

// closeMatches turns ledger matches into closed trades at closePrice.
//
// closeFees are spread over the matches pro rata of their quantity, the last
// match taking the remainder. Each gain is rounded to the cent.
func closeMatches(matches []Match, day date.Date, closePrice, closeFees Money, multiplier int) []ClosedTrade {
	var total Quantity
	for _, m := range matches {
		total = total.Add(m.Quantity)
	}
	trades := make([]ClosedTrade, 0, len(matches))
	left := closeFees
	for i, m := range matches {
		fees := left
		if i < len(matches)-1 {
			fees = closeFees.Mul(m.Quantity).Div(total).Round()
		}
		left = left.Sub(fees)

		diff := closePrice.Sub(m.Lot.Price)
		if m.Lot.Side == Short {
			diff = diff.Neg()
		}
		gain := diff.Mul(m.Quantity).Mul(Q(multiplier)).Sub(m.Fees).Sub(fees).Round()
		trades = append(trades, ClosedTrade{
			Lot:        m.Lot.ID,
			Side:       m.Lot.Side,
			OpenDate:   m.Lot.Date,
			CloseDate:  day,
			Quantity:   m.Quantity,
			OpenPrice:  m.Lot.Price,
			ClosePrice: closePrice,
			OpenFees:   m.Fees,
			CloseFees:  fees,
			Gain:       gain,
		})
	}
	return trades
}

// sumGains returns the total gain of trades.
func sumGains(trades []ClosedTrade) Money {
	total := M(0, USD)
	for _, t := range trades {
		total = total.Add(t.Gain)
	}
	return total
}
