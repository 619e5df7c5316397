package brokertax

import (
	"errors"
	"testing"

	"github.com/etnz/brokertax/date"
	"github.com/google/go-cmp/cmp"
)

// tx is a helper for test to create transactions.
func tx(on date.Date, account, action, symbol string, quantity, price, fees float64) Transaction {
	t := Transaction{
		Date:     on,
		Account:  account,
		Symbol:   symbol,
		Action:   ParseAction(action),
		Quantity: Q(quantity),
		Fees:     usd(fees),
	}
	if price != 0 {
		t.Price = usd(price)
	}
	return t
}

func TestProcessor_PutAssignment(t *testing.T) {
	const put = "XYZ 06/21/2024 50.00 P"
	p := NewProcessor(fixedRate(150), nil)
	res := p.Process([]Transaction{
		tx(day(5, 1), "acct", "Sell to Open", put, 1, 1.5, 0.65),
		tx(day(6, 21), "acct", "Assigned", put, 1, 0, 0),
	})

	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if got := len(res.OptionTrades); got != 2 {
		t.Fatalf("len(OptionTrades) = %d, want 2", got)
	}
	if got := len(res.OptionSummaries); got != 1 {
		t.Fatalf("len(OptionSummaries) = %d, want 1", got)
	}
	sum := res.OptionSummaries[0]
	if got, want := sum.Status, Assigned; got != want {
		t.Errorf("summary status = %v, want %v", got, want)
	}
	if got, want := sum.CloseDate, day(6, 21); got != want {
		t.Errorf("summary close date = %v, want %v", got, want)
	}

	if got := len(res.StockTrades); got != 1 {
		t.Fatalf("len(StockTrades) = %d, want 1", got)
	}
	buy := res.StockTrades[0]
	if buy.Action != ActBuy || buy.Symbol != "XYZ" || !buy.Quantity.Equal(Q(100)) || !buy.Synthetic {
		t.Errorf("stock trade = %+v, want a synthetic purchase of 100 XYZ", buy)
	}
	assertMoney(t, "stock price", buy.Price, usd(50))
	assertMoney(t, "stock fees", buy.Fees, usd(0))

	pos, ok := p.StockPosition("acct", "XYZ")
	if !ok {
		t.Fatal("no stock position after assignment")
	}
	if got, want := pos.Remaining(), Q(100); !got.Equal(want) {
		t.Errorf("shares = %s, want %s", got, want)
	}
}

func TestProcessor_CoveredCall(t *testing.T) {
	const call = "XYZ 06/21/2024 55.00 C"
	res := NewProcessor(fixedRate(150), nil).Process([]Transaction{
		tx(day(1, 2), "acct", "Buy", "XYZ", 100, 50, 0),
		tx(day(5, 1), "acct", "Sell to Open", call, 1, 2, 0.65),
		tx(day(6, 21), "acct", "Assigned", call, 1, 0, 0),
	})
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if got := len(res.StockSummaries); got != 1 {
		t.Fatalf("len(StockSummaries) = %d, want 1", got)
	}
	sum := res.StockSummaries[0]
	if got, want := sum.Status, Closed; got != want {
		t.Errorf("stock status = %v, want %v", got, want)
	}
	// shares called away at the strike.
	assertMoney(t, "stock trading", sum.TradingPnL, usd(500))
	assertMoney(t, "stock trading JPY", sum.TradingPnLJPY, jpy(75000))
	assertMoney(t, "option trading", res.OptionSummaries[0].TradingPnL, usd(199.35))
}

func TestProcessor_AssignmentWithoutShortLots(t *testing.T) {
	const call = "XYZ 06/21/2024 50.00 C"
	p := NewProcessor(fixedRate(150), nil)
	res := p.Process([]Transaction{
		tx(day(5, 1), "acct", "Buy to Open", call, 2, 1, 0),
		tx(day(6, 21), "acct", "Assigned", call, 0, 0, 0),
	})
	if got := len(res.Warnings); got != 1 {
		t.Fatalf("Warnings = %v, want 1 warning", res.Warnings)
	}
	if !errors.Is(res.Warnings[0].Err, ErrInsufficientPosition) {
		t.Errorf("warning = %v, want ErrInsufficientPosition", res.Warnings[0].Err)
	}
	if got := len(res.OptionTrades); got != 1 {
		t.Errorf("len(OptionTrades) = %d, want 1", got)
	}
	if got := len(res.StockTrades); got != 0 {
		t.Errorf("len(StockTrades) = %d, want 0", got)
	}
	if got, want := res.OptionSummaries[0].Status, Open; got != want {
		t.Errorf("summary status = %v, want %v", got, want)
	}
	pos, _ := p.OptionPosition("acct", call)
	if got, want := pos.Remaining(Long), Q(2); !got.Equal(want) {
		t.Errorf("long contracts = %s, want %s", got, want)
	}
}

func TestProcessor_CallAssignmentWithoutShares(t *testing.T) {
	const call = "XYZ 06/21/2024 50.00 C"
	p := NewProcessor(fixedRate(150), nil)
	res := p.Process([]Transaction{
		tx(day(5, 1), "acct", "Sell to Open", call, 1, 1.5, 0.65),
		tx(day(6, 21), "acct", "Assigned", call, 1, 0, 0),
	})
	if got := len(res.Warnings); got != 1 {
		t.Fatalf("Warnings = %v, want 1 warning", res.Warnings)
	}
	var insufficient *InsufficientPositionError
	if !errors.As(res.Warnings[0].Err, &insufficient) {
		t.Fatalf("warning = %v, want an insufficient position", res.Warnings[0].Err)
	}
	if got, want := insufficient.Symbol, "XYZ"; got != want {
		t.Errorf("symbol = %q, want %q", got, want)
	}
	if got, want := insufficient.Requested, Q(100); !got.Equal(want) {
		t.Errorf("requested = %s, want %s", got, want)
	}

	// nothing of the assignment is applied.
	if got := len(res.OptionTrades); got != 1 {
		t.Errorf("len(OptionTrades) = %d, want 1", got)
	}
	if got := len(res.StockTrades); got != 0 {
		t.Errorf("len(StockTrades) = %d, want 0", got)
	}
	sum := res.OptionSummaries[0]
	if got, want := sum.Status, Open; got != want {
		t.Errorf("summary status = %v, want %v", got, want)
	}
	assertMoney(t, "trading", sum.TradingPnL, usd(0))
	pos, _ := p.OptionPosition("acct", call)
	if got, want := pos.Remaining(Short), Q(1); !got.Equal(want) {
		t.Errorf("short contracts = %s, want %s", got, want)
	}
}

func TestProcessor_SameDayOrdering(t *testing.T) {
	const call = "XYZ 06/21/2024 50.00 C"
	// the close is listed before the open of the same day.
	res := NewProcessor(fixedRate(150), nil).Process([]Transaction{
		tx(day(5, 1), "acct", "Buy to Close", call, 1, 0.5, 0.65),
		tx(day(5, 1), "acct", "Sell to Open", call, 1, 2, 0.65),
	})
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if got, want := []Action{res.OptionTrades[0].Action, res.OptionTrades[1].Action}, []Action{ActSellToOpen, ActBuyToClose}; !cmp.Equal(got, want) {
		t.Errorf("processing order mismatch (-got +want):\n%s", cmp.Diff(got, want))
	}
	assertMoney(t, "trading", res.OptionSummaries[0].TradingPnL, usd(148.70))
}

func TestProcessor_AccountsAreSeparate(t *testing.T) {
	const call = "XYZ 06/21/2024 50.00 C"
	res := NewProcessor(fixedRate(150), nil).Process([]Transaction{
		tx(day(5, 1), "a", "Sell to Open", call, 1, 2, 0),
		tx(day(5, 2), "b", "Buy to Close", call, 1, 1, 0),
	})
	if got := len(res.Warnings); got != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", got)
	}
	var insufficient *InsufficientPositionError
	if !errors.As(res.Warnings[0].Err, &insufficient) {
		t.Fatalf("warning = %v, want an insufficient position", res.Warnings[0].Err)
	}
	if got, want := insufficient.Account, "b"; got != want {
		t.Errorf("account = %q, want %q", got, want)
	}
}

func TestProcessor_Warnings(t *testing.T) {
	res := NewProcessor(fixedRate(150), nil).Process([]Transaction{
		tx(day(5, 1), "acct", "Sell to Open", "XYZ", 1, 2, 0),
		tx(day(5, 2), "acct", "Journal", "XYZ 06/21/2024 50.00 C", 1, 0, 0),
		tx(day(5, 3), "acct", "Sell", "XYZ", 10, 20, 0),
		tx(day(5, 4), "acct", "Wire Sent", "", 0, 0, 0),
	})
	want := []error{ErrNotOption, ErrUnknownAction, ErrInsufficientPosition}
	if len(res.Warnings) != len(want) {
		t.Fatalf("Warnings = %v, want %d warnings", res.Warnings, len(want))
	}
	for i, w := range want {
		if !errors.Is(res.Warnings[i].Err, w) {
			t.Errorf("Warnings[%d] = %v, want %v", i, res.Warnings[i].Err, w)
		}
	}
}

func TestProcessor_Income(t *testing.T) {
	div := tx(day(3, 15), "acct", "Qualified Dividend", "XYZ", 0, 0, 0)
	div.Amount = usd(12.34)
	tax := tx(day(3, 15), "acct", "NRA Tax Adj", "XYZ", 0, 0, 0)
	tax.Amount = usd(-1.23)
	cd := tx(day(3, 16), "acct", "CD Deposit Funds", "", 0, 0, 0)
	cd.Amount = usd(-1000)

	res := NewProcessor(fixedRate(150), nil).Process([]Transaction{div, tax, cd})
	if got := len(res.Income); got != 2 {
		t.Fatalf("len(Income) = %d, want 2", got)
	}
	if got := len(res.IncomeSummaries); got != 1 {
		t.Fatalf("len(IncomeSummaries) = %d, want 1", got)
	}
	s := res.IncomeSummaries[0]
	assertMoney(t, "dividends", s.Dividends, usd(12.34))
	assertMoney(t, "tax", s.Tax, usd(-1.23))
	assertMoney(t, "total", s.Total(), usd(11.11))
	// 1851 - 185
	assertMoney(t, "total JPY", s.TotalJPY(), jpy(1666))
}

func TestResult_Select(t *testing.T) {
	const call = "XYZ 06/21/2024 50.00 C"
	res := NewProcessor(fixedRate(150), nil).Process([]Transaction{
		tx(day(1, 10), "a", "Buy to Open", call, 2, 1, 0),
		tx(day(5, 10), "a", "Sell to Close", call, 1, 2, 0),
		tx(day(5, 10), "b", "Buy", "ABC", 1, 10, 0),
	})

	q2 := res.Select("a", date.NewRange(day(5, 1), date.Quarterly))
	if got := len(q2.OptionTrades); got != 1 {
		t.Errorf("len(OptionTrades) = %d, want 1", got)
	}
	if got := len(q2.OptionSummaries); got != 1 {
		t.Errorf("len(OptionSummaries) = %d, want 1", got)
	}
	if got := len(q2.StockTrades); got != 0 {
		t.Errorf("len(StockTrades) = %d, want 0", got)
	}
	// positions are computed over the whole history.
	assertMoney(t, "trading", q2.OptionTrades[0].TradingPnL, usd(100))
	assertMoney(t, "totals", TradeTotals(q2.OptionTrades).Trading, usd(100))
}
