package brokertax

import (
	"github.com/etnz/brokertax/date"
)

// TradeRecord is the result of one processed option or stock transaction.
//
// Every USD amount has a JPY mirror converted at the rate of the trade date.
type TradeRecord struct {
	Kind       Category // Option or Stock
	Date       date.Date
	Account    string
	Symbol     string
	Action     Action
	Quantity   Quantity
	Price      Money
	Fees       Money
	TradingPnL Money
	PremiumPnL Money
	Rate       Rate
	Synthetic  bool // stock delivery of an option assignment

	PriceJPY      Money
	FeesJPY       Money
	TradingPnLJPY Money
	PremiumPnLJPY Money

	Trades []ClosedTrade
}

func newTradeRecord(kind Category, tx Transaction, trading, premium Money, rate Rate) TradeRecord {
	r := TradeRecord{
		Kind:       kind,
		Date:       tx.Date,
		Account:    tx.Account,
		Symbol:     tx.Symbol,
		Action:     tx.Action,
		Quantity:   tx.Quantity,
		Price:      tx.price(),
		Fees:       tx.fees(),
		TradingPnL: trading.Round(),
		PremiumPnL: premium.Round(),
		Rate:       rate,
	}
	r.PriceJPY = rate.Convert(r.Price)
	r.FeesJPY = rate.Convert(r.Fees)
	r.TradingPnLJPY = rate.Convert(r.TradingPnL)
	r.PremiumPnLJPY = rate.Convert(r.PremiumPnL)
	return r
}

// PnL returns the total realized result of the record.
func (r TradeRecord) PnL() Money { return r.TradingPnL.Add(r.PremiumPnL) }

// PnLJPY returns the total realized result of the record in yen.
func (r TradeRecord) PnLJPY() Money { return r.TradingPnLJPY.Add(r.PremiumPnLJPY) }

func (r TradeRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", r.Kind.String())
	w.Append("date", r.Date)
	w.Append("account", r.Account)
	w.Append("symbol", r.Symbol)
	w.Append("action", r.Action)
	w.Append("quantity", r.Quantity)
	w.Append("price", r.Price)
	w.Append("fees", r.Fees)
	w.Append("tradingPnL", r.TradingPnL)
	if !r.PremiumPnL.IsZero() {
		w.Append("premiumPnL", r.PremiumPnL)
	}
	w.Append("rate", r.Rate.String())
	w.Append("tradingPnLJPY", r.TradingPnLJPY)
	if !r.PremiumPnLJPY.IsZero() {
		w.Append("premiumPnLJPY", r.PremiumPnLJPY)
	}
	w.Optional("synthetic", r.Synthetic)
	return w.MarshalJSON()
}

// Summary aggregates the records of one position.
type Summary struct {
	Kind      Category
	Account   string
	Symbol    string
	OpenDate  date.Date
	CloseDate date.Date // zero while open
	Status    Status

	InitialQuantity   Quantity // quantity opened over the life of the position
	RemainingQuantity Quantity

	TradingPnL Money
	PremiumPnL Money
	Fees       Money

	TradingPnLJPY Money
	PremiumPnLJPY Money
	FeesJPY       Money
}

func newSummary(kind Category, account, symbol string, day date.Date) *Summary {
	return &Summary{
		Kind:          kind,
		Account:       account,
		Symbol:        symbol,
		OpenDate:      day,
		TradingPnL:    M(0, USD),
		PremiumPnL:    M(0, USD),
		Fees:          M(0, USD),
		TradingPnLJPY: M(0, JPY),
		PremiumPnLJPY: M(0, JPY),
		FeesJPY:       M(0, JPY),
	}
}

// update accumulates r, then records the position state after it.
func (s *Summary) update(r TradeRecord, remaining Quantity, status Status) {
	if r.Action.IsOpening() {
		s.InitialQuantity = s.InitialQuantity.Add(r.Quantity)
	}
	s.RemainingQuantity = remaining
	s.TradingPnL = s.TradingPnL.Add(r.TradingPnL)
	s.PremiumPnL = s.PremiumPnL.Add(r.PremiumPnL)
	s.Fees = s.Fees.Add(r.Fees)
	s.TradingPnLJPY = s.TradingPnLJPY.Add(r.TradingPnLJPY)
	s.PremiumPnLJPY = s.PremiumPnLJPY.Add(r.PremiumPnLJPY)
	s.FeesJPY = s.FeesJPY.Add(r.FeesJPY)

	if s.Status.IsTerminal() {
		return
	}
	s.Status = status
	if status == Open {
		s.CloseDate = date.Date{}
	} else {
		s.CloseDate = r.Date
	}
}

// PnL returns the total realized result.
func (s *Summary) PnL() Money { return s.TradingPnL.Add(s.PremiumPnL) }

// PnLJPY returns the total realized result in yen.
func (s *Summary) PnLJPY() Money { return s.TradingPnLJPY.Add(s.PremiumPnLJPY) }

func (s *Summary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", s.Kind.String())
	w.Append("account", s.Account)
	w.Append("symbol", s.Symbol)
	w.Append("openDate", s.OpenDate)
	w.Optional("closeDate", s.CloseDate)
	w.Append("status", s.Status)
	w.Append("initialQuantity", s.InitialQuantity)
	w.Append("remainingQuantity", s.RemainingQuantity)
	w.Append("tradingPnL", s.TradingPnL)
	w.Append("premiumPnL", s.PremiumPnL)
	w.Append("fees", s.Fees)
	w.Append("tradingPnLJPY", s.TradingPnLJPY)
	w.Append("premiumPnLJPY", s.PremiumPnLJPY)
	w.Append("feesJPY", s.FeesJPY)
	return w.MarshalJSON()
}

// IncomeRecord is one dividend, interest or withholding tax transaction.
type IncomeRecord struct {
	Date        date.Date
	Account     string
	Symbol      string
	Description string
	Kind        Category // Dividend, Interest or Tax
	Amount      Money
	Rate        Rate
	AmountJPY   Money
}

func (r IncomeRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", r.Date)
	w.Append("account", r.Account)
	w.Optional("symbol", r.Symbol)
	w.Optional("description", r.Description)
	w.Append("kind", r.Kind.String())
	w.Append("amount", r.Amount)
	w.Append("rate", r.Rate.String())
	w.Append("amountJPY", r.AmountJPY)
	return w.MarshalJSON()
}

// IncomeSummary totals the income of one symbol in one account.
type IncomeSummary struct {
	Account   string
	Symbol    string
	Dividends Money
	Interest  Money
	Tax       Money // withholding, usually negative

	DividendsJPY Money
	InterestJPY  Money
	TaxJPY       Money
}

func newIncomeSummary(account, symbol string) *IncomeSummary {
	return &IncomeSummary{
		Account:      account,
		Symbol:       symbol,
		Dividends:    M(0, USD),
		Interest:     M(0, USD),
		Tax:          M(0, USD),
		DividendsJPY: M(0, JPY),
		InterestJPY:  M(0, JPY),
		TaxJPY:       M(0, JPY),
	}
}

func (s *IncomeSummary) add(r IncomeRecord) {
	switch r.Kind {
	case Dividend:
		s.Dividends = s.Dividends.Add(r.Amount)
		s.DividendsJPY = s.DividendsJPY.Add(r.AmountJPY)
	case Interest:
		s.Interest = s.Interest.Add(r.Amount)
		s.InterestJPY = s.InterestJPY.Add(r.AmountJPY)
	case Tax:
		s.Tax = s.Tax.Add(r.Amount)
		s.TaxJPY = s.TaxJPY.Add(r.AmountJPY)
	}
}

// Total returns the net income: dividends and interest after tax.
func (s *IncomeSummary) Total() Money { return s.Dividends.Add(s.Interest).Add(s.Tax) }

// TotalJPY returns the net income in yen.
func (s *IncomeSummary) TotalJPY() Money { return s.DividendsJPY.Add(s.InterestJPY).Add(s.TaxJPY) }

func (s *IncomeSummary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account", s.Account)
	w.Optional("symbol", s.Symbol)
	w.Append("dividends", s.Dividends)
	w.Append("interest", s.Interest)
	w.Append("tax", s.Tax)
	w.Append("total", s.Total())
	w.Append("dividendsJPY", s.DividendsJPY)
	w.Append("interestJPY", s.InterestJPY)
	w.Append("taxJPY", s.TaxJPY)
	w.Append("totalJPY", s.TotalJPY())
	return w.MarshalJSON()
}
