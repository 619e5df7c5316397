// Package schwab reads Charles Schwab brokerage transaction exports.
//
// An export is a JSON document holding a "BrokerageTransactions" array:
//
//	{
//	  "BrokerageTransactions": [
//	    {
//	      "Date": "06/21/2024 as of 06/20/2024",
//	      "Action": "Sell to Open",
//	      "Symbol": "XYZ 06/21/2024 50.00 P",
//	      "Description": "PUT XYZ CORP $50 EXP 06/21/24",
//	      "Quantity": "1",
//	      "Price": "$1.50",
//	      "Fees & Comm": "$0.65",
//	      "Amount": "$149.35"
//	    }
//	  ]
//	}
//
// Every file is one account, named after the file unless an alias is set.
package schwab

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/brokertax"
	"github.com/etnz/brokertax/date"
	"github.com/shopspring/decimal"
)

// DefaultPath is the JSONPath of the transaction array in an export.
const DefaultPath = "$.BrokerageTransactions"

// RowError is a transaction that could not be read.
type RowError struct {
	File  string
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: transaction #%d: %v", e.File, e.Index, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Loader reads exports into transactions.
type Loader struct {
	// Path locates the transaction array, DefaultPath when empty.
	Path string
	// Aliases maps a file stem to an account id.
	Aliases map[string]string
	Logger  *slog.Logger
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// Account returns the account id of an export file.
func (l *Loader) Account(file string) string {
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if alias, ok := l.Aliases[stem]; ok && alias != "" {
		return alias
	}
	return stem
}

// Glob loads every file matching patterns. Row errors are returned alongside
// the transactions that could be read.
func (l *Loader) Glob(patterns ...string) ([]brokertax.Transaction, []error, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no transaction file matches %q", patterns)
	}

	var txs []brokertax.Transaction
	var rowErrs []error
	for _, file := range files {
		t, errs, err := l.LoadFile(file)
		if err != nil {
			return nil, nil, err
		}
		txs = append(txs, t...)
		rowErrs = append(rowErrs, errs...)
	}
	return txs, rowErrs, nil
}

// LoadFile loads one export file.
func (l *Loader) LoadFile(file string) ([]brokertax.Transaction, []error, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open transactions: %w", err)
	}
	defer f.Close()
	txs, errs, err := l.Read(f, file)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read transactions from %q: %w", file, err)
	}
	l.logger().Info("transactions loaded", "file", file, "account", l.Account(file), "count", len(txs), "errors", len(errs))
	return txs, errs, nil
}

// Read decodes an export. file is used for the account id and error messages.
func (l *Loader) Read(r io.Reader, file string) ([]brokertax.Transaction, []error, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("invalid json: %w", err)
	}
	path := l.Path
	if path == "" {
		path = DefaultPath
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot find transactions at %q: %w", path, err)
	}
	rows, ok := v.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("%q is not an array", path)
	}
	// a path with a wildcard may return the array wrapped in a list.
	if len(rows) == 1 {
		if inner, ok := rows[0].([]any); ok {
			rows = inner
		}
	}

	account := l.Account(file)
	var txs []brokertax.Transaction
	var errs []error
	for i, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			errs = append(errs, &RowError{File: file, Index: i, Err: errors.New("not an object")})
			continue
		}
		tx, err := parseRow(obj, account)
		if err != nil {
			l.logger().Warn("skipping transaction", "file", file, "index", i, "error", err)
			errs = append(errs, &RowError{File: file, Index: i, Err: err})
			continue
		}
		txs = append(txs, tx)
	}
	return txs, errs, nil
}

func parseRow(obj map[string]any, account string) (brokertax.Transaction, error) {
	field := func(name string) string {
		switch v := obj[name].(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			return decimal.NewFromFloat(v).String()
		default:
			return ""
		}
	}

	on, err := date.ParseUS(field("Date"))
	if err != nil {
		return brokertax.Transaction{}, err
	}
	action := field("Action")
	if action == "" {
		return brokertax.Transaction{}, errors.New("missing action")
	}
	tx := brokertax.Transaction{
		Date:        on,
		Account:     account,
		Symbol:      field("Symbol"),
		Description: field("Description"),
		Action:      brokertax.ParseAction(action),
	}

	if s := field("Quantity"); s != "" {
		q, err := ParseAmount(s)
		if err != nil {
			return tx, fmt.Errorf("invalid quantity: %w", err)
		}
		tx.Quantity = brokertax.Q(q.Abs())
	}
	if s := field("Price"); s != "" {
		p, err := ParseAmount(s)
		if err != nil {
			return tx, fmt.Errorf("invalid price: %w", err)
		}
		tx.Price = brokertax.M(p.Abs(), brokertax.USD)
	}
	if s := field("Fees & Comm"); s != "" {
		f, err := ParseAmount(s)
		if err != nil {
			return tx, fmt.Errorf("invalid fees: %w", err)
		}
		tx.Fees = brokertax.M(f.Abs(), brokertax.USD)
	}
	// amounts are informative: an unreadable one is zero.
	a, _ := ParseAmount(field("Amount"))
	tx.Amount = brokertax.M(a, brokertax.USD)
	return tx, nil
}

// ParseAmount reads "$1,234.56", "-$5.00", "($5.00)" or "". The empty string is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}
