package brokertax

import (
	"fmt"

	"github.com/etnz/brokertax/date"
)

// Expiration is the terminal event of one lot that expired worthless.
type Expiration struct {
	Date     date.Date
	Side     Side
	Quantity Quantity
	Price    Money // open price per unit
	Fees     Money // open fees still attached to the lot
	Premium  Money // premium kept (short) or lost (long)
}

// Delivery is the stock trade forced by the assignment of a short option.
type Delivery struct {
	Date     date.Date
	Account  string
	Symbol   string
	Action   Action // ActBuy for a put, ActSell for a call
	Quantity Quantity
	Price    Money
}

// Transaction returns the synthetic stock transaction of the delivery, without fees.
func (d Delivery) Transaction() Transaction {
	return Transaction{
		Date:        d.Date,
		Account:     d.Account,
		Symbol:      d.Symbol,
		Description: "assignment delivery",
		Action:      d.Action,
		Quantity:    d.Quantity,
		Price:       d.Price,
		Fees:        M(0, USD),
		Amount:      d.Price.Mul(d.Quantity),
	}
}

// OptionResult is what one transaction realized on an option position.
type OptionResult struct {
	Trading     Money
	Premium     Money
	Trades      []ClosedTrade
	Expirations []Expiration
	Delivery    *Delivery
	Status      Status
}

// OptionPosition is the position on one option contract in one account.
//
// Long and short lots are tracked in independent FIFO queues: a closing trade
// only consumes the opposite side of its action.
type OptionPosition struct {
	Symbol OptionSymbol
	ledger *Ledger

	trades []ClosedTrade
	status Status
}

// NewOptionPosition returns an empty position on symbol.
func NewOptionPosition(account string, symbol OptionSymbol) *OptionPosition {
	return &OptionPosition{Symbol: symbol, ledger: NewLedger(account, symbol.String())}
}

// Remaining returns the open contracts on one side.
func (p *OptionPosition) Remaining(side Side) Quantity { return p.ledger.Remaining(side) }

// Total returns the open contracts on both sides.
func (p *OptionPosition) Total() Quantity { return p.ledger.Total() }

// Lots returns the open lots of one side, oldest first.
func (p *OptionPosition) Lots(side Side) []Lot { return p.ledger.Lots(side) }

// Status returns the current lifecycle state.
func (p *OptionPosition) Status() Status { return p.status }

// Trades returns every closed trade of the position.
func (p *OptionPosition) Trades() []ClosedTrade { return p.trades }

// Open adds a lot: buying to open goes long, selling to open goes short.
func (p *OptionPosition) Open(side Side, day date.Date, quantity Quantity, price, fees Money) OptionResult {
	p.ledger.Add(side, day, quantity, price, fees)
	if !p.status.IsTerminal() {
		p.status = Open
	}
	return p.result(OptionResult{})
}

// Close consumes lots of side: Short for a buy to close, Long for a sell to close.
func (p *OptionPosition) Close(side Side, day date.Date, quantity Quantity, price, fees Money) (OptionResult, error) {
	matches, err := p.ledger.Consume(side, quantity)
	if err != nil {
		return OptionResult{}, err
	}
	trades := closeMatches(matches, day, price, fees, ContractMultiplier)
	p.trades = append(p.trades, trades...)
	return p.result(OptionResult{Trading: sumGains(trades), Trades: trades}), nil
}

// Expire consumes every open lot of both sides at a zero price.
//
// The premium of short lots is kept, net of their fees; the premium paid for
// long lots is lost, fees included. Fees charged on the expiration itself
// reduce the premium result.
func (p *OptionPosition) Expire(day date.Date, fees Money) OptionResult {
	premium := M(0, USD)
	var expired []Expiration
	for _, side := range []Side{Long, Short} {
		for _, m := range p.ledger.ConsumeAll(side) {
			paid := m.Lot.Price.Mul(m.Quantity).Mul(Q(ContractMultiplier))
			var result Money
			if side == Short {
				result = paid.Sub(m.Fees).Round()
			} else {
				result = paid.Add(m.Fees).Neg().Round()
			}
			premium = premium.Add(result)
			expired = append(expired, Expiration{
				Date:     day,
				Side:     side,
				Quantity: m.Quantity,
				Price:    m.Lot.Price,
				Fees:     m.Fees,
				Premium:  result,
			})
		}
	}
	premium = premium.Sub(fees).Round()
	p.status = Expired
	return p.result(OptionResult{Premium: premium, Expirations: expired})
}

// Assign closes short lots FIFO at the intrinsic value of the option, the
// underlying being settled at the strike. px is the underlying price reported
// with the assignment, or the strike when unknown.
//
// The result carries the stock delivery: a short call delivers shares (sale
// at strike), a short put receives them (purchase at strike).
func (p *OptionPosition) Assign(day date.Date, quantity Quantity, px, fees Money) (OptionResult, error) {
	if quantity.IsZero() {
		quantity = p.Remaining(Short)
	}
	if quantity.IsZero() {
		// at least one short contract is needed.
		return OptionResult{}, &InsufficientPositionError{
			Account:   p.ledger.Account,
			Symbol:    p.ledger.Symbol,
			Side:      Short,
			Requested: Q(1),
			Available: quantity,
		}
	}
	matches, err := p.ledger.Consume(Short, quantity)
	if err != nil {
		return OptionResult{}, err
	}
	strike := M(p.Symbol.Strike, USD)
	if px.Currency() == "" {
		px = strike
	}
	settlement := M(p.Symbol.intrinsic(px.Decimal()), USD)
	trades := closeMatches(matches, day, settlement, fees, ContractMultiplier)
	p.trades = append(p.trades, trades...)
	if p.Remaining(Short).IsZero() {
		p.status = Assigned
	}

	action := ActSell
	if p.Symbol.Type == Put {
		action = ActBuy
	}
	return p.result(OptionResult{
		Trading: sumGains(trades),
		Trades:  trades,
		Delivery: &Delivery{
			Date:     day,
			Account:  p.ledger.Account,
			Symbol:   p.Symbol.Underlying,
			Action:   action,
			Quantity: quantity.Mul(Q(ContractMultiplier)),
			Price:    strike,
		},
	}), nil
}

// result completes r with the status after the transaction.
func (p *OptionPosition) result(r OptionResult) OptionResult {
	if !p.status.IsTerminal() && p.Total().IsZero() {
		p.status = Closed
	}
	if r.Trading.Currency() == "" {
		r.Trading = M(0, USD)
	}
	if r.Premium.Currency() == "" {
		r.Premium = M(0, USD)
	}
	r.Trading = r.Trading.Round()
	r.Status = p.status
	return r
}

// Apply routes an option transaction to the matching transition.
func (p *OptionPosition) Apply(tx Transaction) (OptionResult, error) {
	switch tx.Action {
	case ActBuyToOpen:
		return p.Open(Long, tx.Date, tx.Quantity, tx.price(), tx.fees()), nil
	case ActSellToOpen:
		return p.Open(Short, tx.Date, tx.Quantity, tx.price(), tx.fees()), nil
	case ActBuyToClose:
		return p.Close(Short, tx.Date, tx.Quantity, tx.price(), tx.fees())
	case ActSellToClose:
		return p.Close(Long, tx.Date, tx.Quantity, tx.price(), tx.fees())
	case ActExpired:
		return p.Expire(tx.Date, tx.fees()), nil
	case ActAssigned:
		px := Money{}
		if tx.HasPrice() && tx.Price.IsPositive() {
			px = tx.Price
		}
		return p.Assign(tx.Date, tx.Quantity, px, tx.fees())
	default:
		return OptionResult{}, fmt.Errorf("%w %q on option %s", ErrUnknownAction, tx.Action, p.Symbol)
	}
}
