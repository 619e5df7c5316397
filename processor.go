package brokertax

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/etnz/brokertax/date"
)

// RateProvider returns the USD/JPY rate to use on a given day.
// It never fails: implementations fall back to a default rate.
type RateProvider interface {
	Rate(on date.Date) Rate
}

// Warning is a transaction skipped during processing, or an input row that
// could not be read at all.
type Warning struct {
	Transaction Transaction
	Err         error
}

func (w Warning) String() string {
	if w.Transaction.Date.IsZero() {
		return w.Err.Error()
	}
	return fmt.Sprintf("%s: %v", w.Transaction, w.Err)
}

// Processor feeds transactions to the position engines and collects records.
//
// Positions are keyed by account and symbol and computed over the whole
// history passed to Process.
type Processor struct {
	rates RateProvider
	log   *slog.Logger

	options map[positionKey]*OptionPosition
	stocks  map[positionKey]*StockPosition

	optionSummaries map[positionKey]*Summary
	stockSummaries  map[positionKey]*Summary
	incomeSummaries map[positionKey]*IncomeSummary

	result Result
}

// NewProcessor returns a processor converting amounts with rates. A nil
// logger means slog.Default().
func NewProcessor(rates RateProvider, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		rates:           rates,
		log:             logger,
		options:         make(map[positionKey]*OptionPosition),
		stocks:          make(map[positionKey]*StockPosition),
		optionSummaries: make(map[positionKey]*Summary),
		stockSummaries:  make(map[positionKey]*Summary),
		incomeSummaries: make(map[positionKey]*IncomeSummary),
	}
}

// SortTransactions sorts txs chronologically. Same day transactions are
// ordered opens first, then closes, then expirations and assignments;
// the input order is kept otherwise.
func SortTransactions(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Action.rank(), b.Action.rank())
	})
}

// Process sorts and processes txs, then returns the records.
func (p *Processor) Process(txs []Transaction) *Result {
	txs = slices.Clone(txs)
	SortTransactions(txs)
	for _, tx := range txs {
		p.process(tx)
	}
	return p.Result()
}

func (p *Processor) process(tx Transaction) {
	switch Classify(tx) {
	case Option:
		p.processOption(tx)
	case Stock:
		if _, ok := ParseOptionSymbol(tx.Symbol); ok {
			p.warn(tx, fmt.Errorf("%w %q on option symbol", ErrUnknownAction, tx.Action))
			return
		}
		p.processStock(tx, false)
	case Dividend, Interest, Tax:
		p.processIncome(tx)
	case CD:
		p.log.Debug("ignoring certificate of deposit movement", "date", tx.Date, "account", tx.Account, "action", tx.Action)
	default:
		switch {
		case tx.Action.Category() == Option:
			p.warn(tx, fmt.Errorf("%w: %q", ErrNotOption, tx.Symbol))
		case isOptionSymbol(tx.Symbol):
			p.warn(tx, fmt.Errorf("%w %q on option symbol", ErrUnknownAction, tx.Action))
		default:
			p.log.Debug("ignoring transaction", "date", tx.Date, "account", tx.Account, "action", tx.Action, "symbol", tx.Symbol)
		}
	}
}

func isOptionSymbol(s string) bool {
	_, ok := ParseOptionSymbol(s)
	return ok
}

func (p *Processor) warn(tx Transaction, err error) {
	p.log.Warn("skipping transaction", "date", tx.Date, "account", tx.Account, "action", tx.Action, "symbol", tx.Symbol, "error", err)
	p.result.Warnings = append(p.result.Warnings, Warning{Transaction: tx, Err: err})
}

func (p *Processor) processOption(tx Transaction) {
	symbol, _ := ParseOptionSymbol(tx.Symbol)
	if !tx.Action.IsTerminal() && !tx.HasQuantity() {
		p.warn(tx, fmt.Errorf("%w: quantity", ErrMissingField))
		return
	}
	key := positionKey{tx.Account, tx.Symbol}
	pos, ok := p.options[key]
	if !ok {
		pos = NewOptionPosition(tx.Account, symbol)
		p.options[key] = pos
	}

	if tx.Action == ActAssigned && symbol.Type == Call {
		if err := p.checkCallDelivery(tx, pos); err != nil {
			p.warn(tx, err)
			return
		}
	}
	res, err := pos.Apply(tx)
	if err != nil {
		p.warn(tx, err)
		return
	}
	rec := newTradeRecord(Option, tx, res.Trading, res.Premium, p.rates.Rate(tx.Date))
	rec.Trades = res.Trades
	p.result.OptionTrades = append(p.result.OptionTrades, rec)

	sum, ok := p.optionSummaries[key]
	if !ok {
		sum = newSummary(Option, tx.Account, tx.Symbol, tx.Date)
		p.optionSummaries[key] = sum
	}
	sum.update(rec, pos.Total(), res.Status)
	p.log.Debug("option processed", "date", tx.Date, "account", tx.Account, "symbol", tx.Symbol, "action", tx.Action,
		"trading", rec.TradingPnL, "premium", rec.PremiumPnL, "status", res.Status)

	if res.Delivery != nil {
		p.log.Info("assignment delivery", "account", tx.Account, "symbol", res.Delivery.Symbol,
			"action", res.Delivery.Action, "quantity", res.Delivery.Quantity, "price", res.Delivery.Price)
		p.processStock(res.Delivery.Transaction(), true)
	}
}

// checkCallDelivery verifies that the shares a call assignment delivers are
// held, so that the assignment is applied entirely or not at all.
func (p *Processor) checkCallDelivery(tx Transaction, pos *OptionPosition) error {
	contracts := tx.Quantity
	if contracts.IsZero() {
		contracts = pos.Remaining(Short)
	}
	shares := contracts.Mul(Q(ContractMultiplier))
	var held Quantity
	if stock, ok := p.stocks[positionKey{tx.Account, pos.Symbol.Underlying}]; ok {
		held = stock.Remaining()
	}
	if held.LessThan(shares) {
		return fmt.Errorf("assignment delivery: %w", &InsufficientPositionError{
			Account:   tx.Account,
			Symbol:    pos.Symbol.Underlying,
			Side:      Long,
			Requested: shares,
			Available: held,
		})
	}
	return nil
}

func (p *Processor) processStock(tx Transaction, synthetic bool) {
	if !tx.HasQuantity() {
		p.warn(tx, fmt.Errorf("%w: quantity", ErrMissingField))
		return
	}
	key := positionKey{tx.Account, tx.Symbol}
	pos, ok := p.stocks[key]
	if !ok {
		pos = NewStockPosition(tx.Account, tx.Symbol)
		p.stocks[key] = pos
	}

	gain := M(0, USD)
	var trades []ClosedTrade
	switch tx.Action {
	case ActBuy:
		pos.Buy(tx.Date, tx.Quantity, tx.price(), tx.fees())
	case ActSell:
		var err error
		gain, trades, err = pos.Sell(tx.Date, tx.Quantity, tx.price(), tx.fees())
		if err != nil {
			if errors.Is(err, ErrInsufficientPosition) && synthetic {
				err = fmt.Errorf("assignment delivery: %w", err)
			}
			p.warn(tx, err)
			return
		}
	}
	rec := newTradeRecord(Stock, tx, gain, M(0, USD), p.rates.Rate(tx.Date))
	rec.Synthetic = synthetic
	rec.Trades = trades
	p.result.StockTrades = append(p.result.StockTrades, rec)

	sum, ok := p.stockSummaries[key]
	if !ok {
		sum = newSummary(Stock, tx.Account, tx.Symbol, tx.Date)
		p.stockSummaries[key] = sum
	}
	status := Open
	if pos.Remaining().IsZero() {
		status = Closed
	}
	sum.update(rec, pos.Remaining(), status)
}

func (p *Processor) processIncome(tx Transaction) {
	rate := p.rates.Rate(tx.Date)
	rec := IncomeRecord{
		Date:        tx.Date,
		Account:     tx.Account,
		Symbol:      tx.Symbol,
		Description: tx.Description,
		Kind:        tx.Action.Category(),
		Amount:      tx.Amount.Round(),
		Rate:        rate,
		AmountJPY:   rate.Convert(tx.Amount),
	}
	if rec.Amount.Currency() == "" {
		rec.Amount = M(0, USD)
	}
	p.result.Income = append(p.result.Income, rec)

	key := positionKey{tx.Account, tx.Symbol}
	sum, ok := p.incomeSummaries[key]
	if !ok {
		sum = newIncomeSummary(tx.Account, tx.Symbol)
		p.incomeSummaries[key] = sum
	}
	sum.add(rec)
}

// Result returns the records collected so far, summaries sorted.
func (p *Processor) Result() *Result {
	r := p.result
	r.OptionSummaries = sortedSummaries(p.optionSummaries, compareOptionSummaries)
	r.StockSummaries = sortedSummaries(p.stockSummaries, compareSummaries)
	r.IncomeSummaries = make([]*IncomeSummary, 0, len(p.incomeSummaries))
	for _, s := range p.incomeSummaries {
		r.IncomeSummaries = append(r.IncomeSummaries, s)
	}
	slices.SortFunc(r.IncomeSummaries, func(a, b *IncomeSummary) int {
		return cmp.Or(cmp.Compare(a.Symbol, b.Symbol), cmp.Compare(a.Account, b.Account))
	})
	r.OpenPositions = p.openPositions()
	return &r
}

// Warnings returns the transactions skipped so far.
func (p *Processor) Warnings() []Warning { return p.result.Warnings }

// OptionPosition returns the position on an option symbol, if any.
func (p *Processor) OptionPosition(account, symbol string) (*OptionPosition, bool) {
	pos, ok := p.options[positionKey{account, symbol}]
	return pos, ok
}

// StockPosition returns the position on a stock, if any.
func (p *Processor) StockPosition(account, symbol string) (*StockPosition, bool) {
	pos, ok := p.stocks[positionKey{account, symbol}]
	return pos, ok
}

func (p *Processor) openPositions() []OpenPosition {
	var open []OpenPosition
	for key, pos := range p.stocks {
		if lots := pos.Lots(); len(lots) > 0 {
			open = append(open, OpenPosition{Kind: Stock, Account: key.Account, Symbol: key.Symbol, Lots: lots, AverageCost: pos.AverageCost()})
		}
	}
	for key, pos := range p.options {
		lots := append(pos.Lots(Long), pos.Lots(Short)...)
		if len(lots) > 0 {
			open = append(open, OpenPosition{Kind: Option, Account: key.Account, Symbol: key.Symbol, Lots: lots})
		}
	}
	slices.SortFunc(open, func(a, b OpenPosition) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.Symbol, b.Symbol), cmp.Compare(a.Account, b.Account))
	})
	return open
}

func sortedSummaries(m map[positionKey]*Summary, compare func(a, b *Summary) int) []*Summary {
	list := make([]*Summary, 0, len(m))
	for _, s := range m {
		list = append(list, s)
	}
	slices.SortFunc(list, compare)
	return list
}

func compareSummaries(a, b *Summary) int {
	return cmp.Or(cmp.Compare(a.Symbol, b.Symbol), cmp.Compare(a.Account, b.Account))
}

// compareOptionSummaries orders by underlying, expiry, strike, then account.
func compareOptionSummaries(a, b *Summary) int {
	sa, _ := ParseOptionSymbol(a.Symbol)
	sb, _ := ParseOptionSymbol(b.Symbol)
	return cmp.Or(sa.Compare(sb), cmp.Compare(a.Account, b.Account))
}
