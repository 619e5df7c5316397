package brokertax

import (
	"github.com/etnz/brokertax/date"
)

// LotID references a lot in its ledger arena.
type LotID int

// Lot is one opening fill of a position.
//
// Quantity and Fees are what remains open: both shrink as the lot is consumed
// so that the fees allocated to all matches of a lot sum to its original fee.
type Lot struct {
	ID       LotID
	Side     Side
	Date     date.Date
	Quantity Quantity
	Price    Money // per unit, before any contract multiplier
	Fees     Money
}

// Match is the portion of one lot consumed by a closing quantity.
type Match struct {
	Lot      Lot      // the lot as it was before being consumed
	Quantity Quantity // matched quantity
	Fees     Money    // open fees allocated to the match
}

// Ledger holds the open lots of one position, a FIFO queue per side.
//
// Lots live in an arena and the queues reference them by id, so a Match keeps
// pointing to the right lot even after the queue has moved on.
type Ledger struct {
	Account string
	Symbol  string

	arena  []Lot
	queues [2][]LotID
}

// NewLedger returns an empty ledger for a symbol in an account.
func NewLedger(account, symbol string) *Ledger {
	return &Ledger{Account: account, Symbol: symbol}
}

// Add appends a new lot at the tail of its side queue.
func (l *Ledger) Add(side Side, day date.Date, quantity Quantity, price, fees Money) LotID {
	id := LotID(len(l.arena))
	l.arena = append(l.arena, Lot{
		ID:       id,
		Side:     side,
		Date:     day,
		Quantity: quantity,
		Price:    price,
		Fees:     fees,
	})
	l.queues[side] = append(l.queues[side], id)
	return id
}

// Remaining returns the open quantity on one side.
func (l *Ledger) Remaining(side Side) Quantity {
	var total Quantity
	for _, id := range l.queues[side] {
		total = total.Add(l.arena[id].Quantity)
	}
	return total
}

// Total returns the open quantity on both sides.
func (l *Ledger) Total() Quantity { return l.Remaining(Long).Add(l.Remaining(Short)) }

// Lots returns a copy of the open lots of one side, oldest first.
func (l *Ledger) Lots(side Side) []Lot {
	lots := make([]Lot, 0, len(l.queues[side]))
	for _, id := range l.queues[side] {
		lots = append(lots, l.arena[id])
	}
	return lots
}

// Consume matches quantity against the lots of side, oldest first.
//
// Consumed lots have their quantity and fees reduced proportionally and are
// removed from the queue once empty. If the side holds less than quantity,
// nothing is consumed and an *InsufficientPositionError is returned.
func (l *Ledger) Consume(side Side, quantity Quantity) ([]Match, error) {
	if available := l.Remaining(side); available.LessThan(quantity) {
		return nil, &InsufficientPositionError{
			Account:   l.Account,
			Symbol:    l.Symbol,
			Side:      side,
			Requested: quantity,
			Available: available,
		}
	}

	var matches []Match
	queue := l.queues[side]
	for !quantity.IsZero() && len(queue) > 0 {
		lot := &l.arena[queue[0]]
		matched := quantity.Min(lot.Quantity)

		fees := lot.Fees
		if matched.LessThan(lot.Quantity) {
			fees = lot.Fees.Mul(matched).Div(lot.Quantity).Round()
		}
		matches = append(matches, Match{Lot: *lot, Quantity: matched, Fees: fees})

		lot.Quantity = lot.Quantity.Sub(matched)
		lot.Fees = lot.Fees.Sub(fees)
		quantity = quantity.Sub(matched)
		if lot.Quantity.IsZero() {
			queue = queue[1:]
		}
	}
	l.queues[side] = queue
	return matches, nil
}

// ConsumeAll empties one side and returns a match per lot.
func (l *Ledger) ConsumeAll(side Side) []Match {
	matches, _ := l.Consume(side, l.Remaining(side))
	return matches
}

// costBasis returns the remaining cost of one side: price times quantity plus fees.
func (l *Ledger) costBasis(side Side) Money {
	total := M(0, USD)
	for _, id := range l.queues[side] {
		lot := l.arena[id]
		total = total.Add(lot.Price.Mul(lot.Quantity)).Add(lot.Fees)
	}
	return total
}
