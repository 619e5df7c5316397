package schwab

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/brokertax"
	"github.com/etnz/brokertax/date"
	"github.com/shopspring/decimal"
)

const export = `{
  "FromDate": "01/01/2024",
  "ToDate": "12/31/2024",
  "BrokerageTransactions": [
    {
      "Date": "06/21/2024 as of 06/20/2024",
      "Action": "Sell to Open",
      "Symbol": "XYZ 06/21/2024 50.00 P",
      "Description": "PUT XYZ CORP $50 EXP 06/21/24",
      "Quantity": "1",
      "Price": "$1.50",
      "Fees & Comm": "$0.65",
      "Amount": "$149.35"
    },
    {
      "Date": "06/24/2024",
      "Action": "Qualified Dividend",
      "Symbol": "ABC",
      "Description": "ABC INC",
      "Quantity": "",
      "Price": "",
      "Fees & Comm": "",
      "Amount": "$1,234.56"
    },
    {
      "Date": "not a date",
      "Action": "Buy",
      "Symbol": "ABC",
      "Quantity": "10",
      "Price": "$10.00",
      "Fees & Comm": "",
      "Amount": "-$100.00"
    },
    {
      "Date": "06/25/2024",
      "Action": "Buy",
      "Symbol": "ABC",
      "Quantity": "1,000",
      "Price": "$10.00",
      "Fees & Comm": "",
      "Amount": "-$10,000.00"
    }
  ]
}`

func TestLoader_Read(t *testing.T) {
	l := &Loader{Aliases: map[string]string{"Individual_XXX123": "main"}}
	txs, errs, err := l.Read(strings.NewReader(export), "data/Individual_XXX123.json")
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if got, want := len(txs), 3; got != want {
		t.Fatalf("len(txs) = %d, want %d", got, want)
	}
	if got, want := len(errs), 1; got != want {
		t.Fatalf("len(errs) = %d, want %d", got, want)
	}
	var rowErr *RowError
	if !errors.As(errs[0], &rowErr) || rowErr.Index != 2 {
		t.Errorf("errs[0] = %v, want a RowError on transaction #2", errs[0])
	}

	sto := txs[0]
	if got, want := sto.Date, date.New(2024, 6, 21); got != want {
		t.Errorf("Date = %v, want %v", got, want)
	}
	if got, want := sto.Account, "main"; got != want {
		t.Errorf("Account = %q, want %q", got, want)
	}
	if got, want := sto.Action, brokertax.ActSellToOpen; got != want {
		t.Errorf("Action = %q, want %q", got, want)
	}
	if got, want := sto.Price, brokertax.M(1.5, brokertax.USD); !got.Equal(want) {
		t.Errorf("Price = %v, want %v", got, want)
	}
	if got, want := sto.Fees, brokertax.M(0.65, brokertax.USD); !got.Equal(want) {
		t.Errorf("Fees = %v, want %v", got, want)
	}

	div := txs[1]
	if div.HasPrice() || div.HasQuantity() {
		t.Errorf("dividend should have neither price nor quantity: %+v", div)
	}
	if got, want := div.Amount, brokertax.M(1234.56, brokertax.USD); !got.Equal(want) {
		t.Errorf("Amount = %v, want %v", got, want)
	}

	if got, want := txs[2].Quantity, brokertax.Q(1000); !got.Equal(want) {
		t.Errorf("Quantity = %v, want %v", got, want)
	}
}

func TestLoader_Path(t *testing.T) {
	l := &Loader{Path: "$.Wrapped.BrokerageTransactions"}
	doc := `{"Wrapped": ` + export + `}`
	txs, _, err := l.Read(strings.NewReader(doc), "acct.json")
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if got, want := len(txs), 3; got != want {
		t.Errorf("len(txs) = %d, want %d", got, want)
	}

	if _, _, err := (&Loader{}).Read(strings.NewReader(`{"Other": []}`), "acct.json"); err == nil {
		t.Error("Read() without transactions should fail")
	}
}

func TestLoader_Glob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "b.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(export), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	txs, errs, err := (&Loader{}).Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		t.Fatalf("Glob() unexpected error: %v", err)
	}
	if got, want := len(txs), 6; got != want {
		t.Errorf("len(txs) = %d, want %d", got, want)
	}
	if got, want := len(errs), 2; got != want {
		t.Errorf("len(errs) = %d, want %d", got, want)
	}
	accounts := map[string]bool{}
	for _, tx := range txs {
		accounts[tx.Account] = true
	}
	if !accounts["a"] || !accounts["b"] {
		t.Errorf("accounts = %v, want a and b", accounts)
	}

	if _, _, err := (&Loader{}).Glob(filepath.Join(dir, "*.csv")); err == nil {
		t.Error("Glob() without match should fail")
	}
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"$1,234.56", "1234.56"},
		{"-$5.00", "-5"},
		{"($5.00)", "-5"},
		{"", "0"},
		{" 12 ", "12"},
	}
	for _, tc := range testCases {
		got, err := ParseAmount(tc.in)
		if err != nil {
			t.Errorf("ParseAmount(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if want := decimal.RequireFromString(tc.want); !got.Equal(want) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, want)
		}
	}
	if _, err := ParseAmount("abc"); err == nil {
		t.Error("ParseAmount(abc) should fail")
	}
}
