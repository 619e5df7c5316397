package brokertax

import (
	"github.com/etnz/brokertax/date"
)

// StockPosition is the FIFO position of one equity in one account.
type StockPosition struct {
	ledger *Ledger
	trades []ClosedTrade
}

// NewStockPosition returns an empty position.
func NewStockPosition(account, symbol string) *StockPosition {
	return &StockPosition{ledger: NewLedger(account, symbol)}
}

// Buy adds a long lot.
func (p *StockPosition) Buy(day date.Date, quantity Quantity, price, fees Money) {
	p.ledger.Add(Long, day, quantity, price, fees)
}

// Sell consumes long lots FIFO and returns the realized gain, rounded to the cent.
//
// Selling more than is held returns an *InsufficientPositionError and leaves
// the position untouched.
func (p *StockPosition) Sell(day date.Date, quantity Quantity, price, fees Money) (Money, []ClosedTrade, error) {
	matches, err := p.ledger.Consume(Long, quantity)
	if err != nil {
		return Money{}, nil, err
	}
	trades := closeMatches(matches, day, price, fees, 1)
	p.trades = append(p.trades, trades...)
	return sumGains(trades).Round(), trades, nil
}

// Remaining returns the number of shares held.
func (p *StockPosition) Remaining() Quantity { return p.ledger.Remaining(Long) }

// AverageCost returns the remaining cost basis per share, fees included.
// It is zero when nothing is held.
func (p *StockPosition) AverageCost() Money {
	remaining := p.Remaining()
	if remaining.IsZero() {
		return M(0, USD)
	}
	return p.ledger.costBasis(Long).Div(remaining)
}

// Lots returns the open lots, oldest first.
func (p *StockPosition) Lots() []Lot { return p.ledger.Lots(Long) }

// Trades returns every closed trade of the position.
func (p *StockPosition) Trades() []ClosedTrade { return p.trades }
