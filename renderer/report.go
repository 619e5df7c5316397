package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/brokertax"
	"github.com/etnz/brokertax/date"
	md "github.com/nao1215/markdown"
)

// Kind selects the sections of a report.
type Kind string

const (
	All     Kind = "all"
	Options Kind = "options"
	Stocks  Kind = "stocks"
	Income  Kind = "income"
)

// ParseKind parses a report kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case All, Options, Stocks, Income:
		return k, nil
	case "":
		return All, nil
	default:
		return "", fmt.Errorf("unknown report kind %q, want one of all, options, stocks, income", s)
	}
}

func (k Kind) has(section Kind) bool { return k == All || k == section }

// ReportMarkdown renders the selected sections of res for the period r.
func ReportMarkdown(res *brokertax.Result, kind Kind, r date.Range) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Tax Report: %s", r))

	var b strings.Builder
	b.WriteString(doc.String())
	if kind.has(Options) {
		b.WriteString(OptionsMarkdown(res))
	}
	if kind.has(Stocks) {
		b.WriteString(StocksMarkdown(res))
	}
	if kind.has(Income) {
		b.WriteString(IncomeMarkdown(res))
	}
	b.WriteString(WarningsMarkdown(res.Warnings))
	return b.String()
}

// OptionsMarkdown renders option trades and position summaries.
func OptionsMarkdown(res *brokertax.Result) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Options")
	if len(res.OptionTrades) == 0 {
		doc.PlainText("No option trade in this period.")
		return doc.String()
	}

	totals := brokertax.TradeTotals(res.OptionTrades)
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Result", "USD", "JPY"},
		Rows: [][]string{
			{"Trading P&L", totals.Trading.SignedString(), totals.TradingJPY.SignedString()},
			{"Premium P&L", totals.Premium.SignedString(), totals.PremiumJPY.SignedString()},
			{md.Bold("Total"), md.Bold(totals.Trading.Add(totals.Premium).SignedString()), md.Bold(totals.TradingJPY.Add(totals.PremiumJPY).SignedString())},
			{"Fees", totals.Fees.String(), totals.FeesJPY.String()},
		},
	})

	doc.H3("Positions")
	positions := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Symbol", "Account", "Opened", "Closed", "Status", "Remaining", "Trading", "Premium", "Fees", "Total ¥"},
	}
	for _, s := range res.OptionSummaries {
		positions.Rows = append(positions.Rows, []string{
			s.Symbol, s.Account, s.OpenDate.String(), s.CloseDate.String(), s.Status.String(),
			s.RemainingQuantity.String(),
			s.TradingPnL.SignedString(), s.PremiumPnL.SignedString(), s.Fees.String(),
			s.PnLJPY().SignedString(),
		})
	}
	doc.Table(positions)

	doc.H3("Trades")
	doc.Table(tradeTable(res.OptionTrades, true))
	return doc.String()
}

// StocksMarkdown renders stock trades and position summaries.
func StocksMarkdown(res *brokertax.Result) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Stocks")
	if len(res.StockTrades) == 0 {
		doc.PlainText("No stock trade in this period.")
		return doc.String()
	}

	totals := brokertax.TradeTotals(res.StockTrades)
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Result", "USD", "JPY"},
		Rows: [][]string{
			{md.Bold("Realized gains"), md.Bold(totals.Trading.SignedString()), md.Bold(totals.TradingJPY.SignedString())},
			{"Fees", totals.Fees.String(), totals.FeesJPY.String()},
		},
	})

	doc.H3("Positions")
	positions := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Symbol", "Account", "Opened", "Status", "Shares", "Realized", "Realized ¥"},
	}
	for _, s := range res.StockSummaries {
		positions.Rows = append(positions.Rows, []string{
			s.Symbol, s.Account, s.OpenDate.String(), s.Status.String(),
			s.RemainingQuantity.String(), s.TradingPnL.SignedString(), s.TradingPnLJPY.SignedString(),
		})
	}
	doc.Table(positions)

	doc.H3("Trades")
	doc.Table(tradeTable(res.StockTrades, false))
	return doc.String()
}

func tradeTable(records []brokertax.TradeRecord, withPremium bool) md.TableSet {
	t := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Account", "Symbol", "Action", "Quantity", "Price", "Fees", "Trading"},
	}
	if withPremium {
		t.Alignment = append(t.Alignment, md.AlignRight)
		t.Header = append(t.Header, "Premium")
	}
	t.Alignment = append(t.Alignment, md.AlignRight, md.AlignRight)
	t.Header = append(t.Header, "Rate", "Total ¥")

	for _, r := range records {
		action := string(r.Action)
		if r.Synthetic {
			action += " (assigned)"
		}
		row := []string{
			r.Date.String(), r.Account, r.Symbol, action, r.Quantity.String(),
			r.Price.String(), r.Fees.String(), r.TradingPnL.SignedString(),
		}
		if withPremium {
			row = append(row, r.PremiumPnL.SignedString())
		}
		row = append(row, r.Rate.String(), r.PnLJPY().SignedString())
		t.Rows = append(t.Rows, row)
	}
	return t
}

// IncomeMarkdown renders dividends, interest and withholding taxes.
func IncomeMarkdown(res *brokertax.Result) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Income")
	if len(res.Income) == 0 {
		doc.PlainText("No income in this period.")
		return doc.String()
	}

	summary := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Symbol", "Account", "Dividends", "Interest", "Tax", "Total", "Total ¥"},
	}
	for _, s := range res.IncomeSummaries {
		summary.Rows = append(summary.Rows, []string{
			s.Symbol, s.Account, s.Dividends.String(), s.Interest.String(), s.Tax.String(),
			s.Total().String(), s.TotalJPY().String(),
		})
	}
	total := brokertax.IncomeTotals(res.IncomeSummaries)
	summary.Rows = append(summary.Rows, []string{
		md.Bold("Total"), "", total.Dividends.String(), total.Interest.String(), total.Tax.String(),
		md.Bold(total.Total().String()), md.Bold(total.TotalJPY().String()),
	})
	doc.Table(summary)

	doc.H3("Details")
	details := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Account", "Symbol", "Kind", "Amount", "Rate", "Amount ¥"},
	}
	for _, r := range res.Income {
		details.Rows = append(details.Rows, []string{
			r.Date.String(), r.Account, r.Symbol, r.Kind.String(), r.Amount.String(), r.Rate.String(), r.AmountJPY.String(),
		})
	}
	doc.Table(details)
	return doc.String()
}

// WarningsMarkdown lists skipped transactions, nothing when there is none.
func WarningsMarkdown(warnings []brokertax.Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Warnings")
	doc.PlainText(fmt.Sprintf("%d transactions were skipped:", len(warnings)))
	var items []string
	for _, w := range warnings {
		items = append(items, w.String())
	}
	doc.BulletList(items...)
	return doc.String()
}

// LotsMarkdown renders the open lots of every position.
func LotsMarkdown(positions []brokertax.OpenPosition) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Open Lots")
	if len(positions) == 0 {
		doc.PlainText("No open position.")
		return doc.String()
	}
	for _, p := range positions {
		title := fmt.Sprintf("%s (%s)", p.Symbol, p.Account)
		doc.H2(title)
		if p.Kind == brokertax.Stock {
			doc.PlainText(fmt.Sprintf("%s shares, average cost %s", p.Remaining(), p.AverageCost))
		}
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Opened", "Side", "Quantity", "Price", "Fees"},
		}
		for _, l := range p.Lots {
			table.Rows = append(table.Rows, []string{
				l.Date.String(), l.Side.String(), l.Quantity.String(), l.Price.String(), l.Fees.String(),
			})
		}
		doc.Table(table)
	}
	return doc.String()
}
