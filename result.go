package brokertax

import (
	"github.com/etnz/brokertax/date"
)

// OpenPosition lists the lots still open at the end of the history.
type OpenPosition struct {
	Kind        Category
	Account     string
	Symbol      string
	Lots        []Lot
	AverageCost Money // stocks only
}

// Remaining returns the open quantity of the position across both sides.
func (o OpenPosition) Remaining() Quantity {
	var q Quantity
	for _, l := range o.Lots {
		q = q.Add(l.Quantity)
	}
	return q
}

// Result holds every record produced by a Processor.
type Result struct {
	OptionTrades    []TradeRecord
	OptionSummaries []*Summary
	StockTrades     []TradeRecord
	StockSummaries  []*Summary
	Income          []IncomeRecord
	IncomeSummaries []*IncomeSummary
	OpenPositions   []OpenPosition
	Warnings        []Warning
}

// Select returns the records of account (all when empty) dated within r.
//
// Summaries are kept when their position was alive during r. Income
// summaries are recomputed from the selected income records.
func (res *Result) Select(account string, r date.Range) *Result {
	inAccount := func(a string) bool { return account == "" || a == account }
	out := &Result{Warnings: res.Warnings}

	for _, t := range res.OptionTrades {
		if inAccount(t.Account) && r.Contains(t.Date) {
			out.OptionTrades = append(out.OptionTrades, t)
		}
	}
	for _, t := range res.StockTrades {
		if inAccount(t.Account) && r.Contains(t.Date) {
			out.StockTrades = append(out.StockTrades, t)
		}
	}
	for _, s := range res.OptionSummaries {
		if inAccount(s.Account) && s.overlaps(r) {
			out.OptionSummaries = append(out.OptionSummaries, s)
		}
	}
	for _, s := range res.StockSummaries {
		if inAccount(s.Account) && s.overlaps(r) {
			out.StockSummaries = append(out.StockSummaries, s)
		}
	}

	sums := make(map[positionKey]*IncomeSummary)
	for _, rec := range res.Income {
		if !inAccount(rec.Account) || !r.Contains(rec.Date) {
			continue
		}
		out.Income = append(out.Income, rec)
		key := positionKey{rec.Account, rec.Symbol}
		if _, ok := sums[key]; !ok {
			sums[key] = newIncomeSummary(rec.Account, rec.Symbol)
		}
		sums[key].add(rec)
	}
	for _, s := range res.IncomeSummaries {
		if sum, ok := sums[positionKey{s.Account, s.Symbol}]; ok {
			out.IncomeSummaries = append(out.IncomeSummaries, sum)
		}
	}
	for _, o := range res.OpenPositions {
		if inAccount(o.Account) {
			out.OpenPositions = append(out.OpenPositions, o)
		}
	}
	return out
}

// overlaps reports whether the position was open at some point of r.
func (s *Summary) overlaps(r date.Range) bool {
	if !r.To.IsZero() && s.OpenDate.After(r.To) {
		return false
	}
	if !r.From.IsZero() && !s.CloseDate.IsZero() && s.CloseDate.Before(r.From) {
		return false
	}
	return true
}

// Totals sums the realized results of records.
type Totals struct {
	Trading    Money
	Premium    Money
	Fees       Money
	TradingJPY Money
	PremiumJPY Money
	FeesJPY    Money
}

// TradeTotals sums trading and premium results of records.
func TradeTotals(records []TradeRecord) Totals {
	t := Totals{
		Trading: M(0, USD), Premium: M(0, USD), Fees: M(0, USD),
		TradingJPY: M(0, JPY), PremiumJPY: M(0, JPY), FeesJPY: M(0, JPY),
	}
	for _, r := range records {
		t.Trading = t.Trading.Add(r.TradingPnL)
		t.Premium = t.Premium.Add(r.PremiumPnL)
		t.Fees = t.Fees.Add(r.Fees)
		t.TradingJPY = t.TradingJPY.Add(r.TradingPnLJPY)
		t.PremiumJPY = t.PremiumJPY.Add(r.PremiumPnLJPY)
		t.FeesJPY = t.FeesJPY.Add(r.FeesJPY)
	}
	return t
}

// IncomeTotals sums income summaries into a single one without symbol.
func IncomeTotals(summaries []*IncomeSummary) *IncomeSummary {
	total := newIncomeSummary("", "")
	for _, s := range summaries {
		total.Dividends = total.Dividends.Add(s.Dividends)
		total.Interest = total.Interest.Add(s.Interest)
		total.Tax = total.Tax.Add(s.Tax)
		total.DividendsJPY = total.DividendsJPY.Add(s.DividendsJPY)
		total.InterestJPY = total.InterestJPY.Add(s.InterestJPY)
		total.TaxJPY = total.TaxJPY.Add(s.TaxJPY)
	}
	return total
}
