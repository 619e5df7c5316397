package renderer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/etnz/brokertax"
)

// Format is an export file format.
type Format string

const (
	CSV   Format = "csv"
	JSONL Format = "jsonl"
)

// ParseFormat parses an export format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case CSV, JSONL:
		return f, nil
	case "":
		return CSV, nil
	default:
		return "", fmt.Errorf("unknown export format %q, want csv or jsonl", s)
	}
}

// table is one export file: a header and rows of cells, or records for jsonl.
type table struct {
	name    string
	header  []string
	rows    [][]string
	records []any
}

func tables(res *brokertax.Result) []table {
	optionTrades := table{name: "option_trades", header: []string{"date", "account", "symbol", "action", "quantity", "price", "fees", "trading_pnl", "premium_pnl", "rate", "price_jpy", "fees_jpy", "trading_pnl_jpy", "premium_pnl_jpy"}}
	for _, r := range res.OptionTrades {
		optionTrades.rows = append(optionTrades.rows, []string{
			r.Date.String(), r.Account, r.Symbol, string(r.Action), r.Quantity.String(),
			amount(r.Price), amount(r.Fees), amount(r.TradingPnL), amount(r.PremiumPnL), r.Rate.String(),
			amount(r.PriceJPY), amount(r.FeesJPY), amount(r.TradingPnLJPY), amount(r.PremiumPnLJPY),
		})
		optionTrades.records = append(optionTrades.records, r)
	}

	stockTrades := table{name: "stock_trades", header: []string{"date", "account", "symbol", "action", "quantity", "price", "fees", "realized_gain", "rate", "price_jpy", "fees_jpy", "realized_gain_jpy", "assignment"}}
	for _, r := range res.StockTrades {
		stockTrades.rows = append(stockTrades.rows, []string{
			r.Date.String(), r.Account, r.Symbol, string(r.Action), r.Quantity.String(),
			amount(r.Price), amount(r.Fees), amount(r.TradingPnL), r.Rate.String(),
			amount(r.PriceJPY), amount(r.FeesJPY), amount(r.TradingPnLJPY), fmt.Sprint(r.Synthetic),
		})
		stockTrades.records = append(stockTrades.records, r)
	}

	summaryHeader := []string{"symbol", "account", "open_date", "close_date", "status", "initial_quantity", "remaining_quantity", "trading_pnl", "premium_pnl", "fees", "trading_pnl_jpy", "premium_pnl_jpy", "fees_jpy"}
	summaries := func(name string, list []*brokertax.Summary) table {
		t := table{name: name, header: summaryHeader}
		for _, s := range list {
			t.rows = append(t.rows, []string{
				s.Symbol, s.Account, s.OpenDate.String(), s.CloseDate.String(), s.Status.String(),
				s.InitialQuantity.String(), s.RemainingQuantity.String(),
				amount(s.TradingPnL), amount(s.PremiumPnL), amount(s.Fees),
				amount(s.TradingPnLJPY), amount(s.PremiumPnLJPY), amount(s.FeesJPY),
			})
			t.records = append(t.records, s)
		}
		return t
	}

	income := table{name: "income", header: []string{"date", "account", "symbol", "kind", "description", "amount", "rate", "amount_jpy"}}
	for _, r := range res.Income {
		income.rows = append(income.rows, []string{
			r.Date.String(), r.Account, r.Symbol, r.Kind.String(), r.Description,
			amount(r.Amount), r.Rate.String(), amount(r.AmountJPY),
		})
		income.records = append(income.records, r)
	}

	incomeSummary := table{name: "income_summary", header: []string{"symbol", "account", "dividends", "interest", "tax", "total", "dividends_jpy", "interest_jpy", "tax_jpy", "total_jpy"}}
	for _, s := range res.IncomeSummaries {
		incomeSummary.rows = append(incomeSummary.rows, []string{
			s.Symbol, s.Account, amount(s.Dividends), amount(s.Interest), amount(s.Tax), amount(s.Total()),
			amount(s.DividendsJPY), amount(s.InterestJPY), amount(s.TaxJPY), amount(s.TotalJPY()),
		})
		incomeSummary.records = append(incomeSummary.records, s)
	}

	return []table{
		optionTrades,
		summaries("option_summary", res.OptionSummaries),
		stockTrades,
		summaries("stock_summary", res.StockSummaries),
		income,
		incomeSummary,
	}
}

// amount formats m as a plain number rounded to its currency minor unit.
func amount(m brokertax.Money) string {
	r := m.Round()
	if m.Currency() == brokertax.JPY {
		return r.Decimal().StringFixed(0)
	}
	return r.Decimal().StringFixed(2)
}

// Export writes one file per record kind in dir and returns their paths.
func Export(res *brokertax.Result, dir string, format Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create output directory: %w", err)
	}
	var paths []string
	for _, t := range tables(res) {
		path := filepath.Join(dir, t.name+"."+string(format))
		if err := writeFile(path, t, format); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, t table, format Format) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if format == JSONL {
		return WriteJSONL(f, t.records)
	}
	return WriteCSV(f, t.header, t.rows)
}

// WriteCSV writes a header and rows.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("cannot write csv: %w", err)
	}
	return nil
}

// WriteJSONL writes one JSON object per line.
func WriteJSONL(w io.Writer, records []any) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("cannot write json line: %w", err)
		}
	}
	return nil
}
