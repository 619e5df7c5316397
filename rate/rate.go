// Package rate provides historical USD/JPY exchange rates.
//
// Rates are read from a daily price history CSV (Date, Open, High, Low,
// Close), the Close column being the rate of the day. A lookup on a day
// without quote returns the latest known rate before it, and the default
// rate when there is none.
package rate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/etnz/brokertax"
	"github.com/etnz/brokertax/date"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// DefaultRate is used when no history is available.
var DefaultRate = decimal.NewFromInt(150)

// Table is a USD/JPY rate history. It implements brokertax.RateProvider.
//
// A Table is safe for concurrent lookups once loaded.
type Table struct {
	history date.History[decimal.Decimal]
	def     decimal.Decimal
	memo    *cache.Cache
	log     *slog.Logger
}

// New returns an empty table falling back to def.
func New(def decimal.Decimal) *Table {
	if def.IsZero() {
		def = DefaultRate
	}
	return &Table{
		def:  def,
		memo: cache.New(cache.NoExpiration, 0),
		log:  slog.Default(),
	}
}

// Load returns a table from a history file. A missing or unreadable file is
// not an error: it is logged and the table only serves the default rate.
func Load(path string, def decimal.Decimal) *Table {
	t := New(def)
	if path == "" {
		return t
	}
	f, err := os.Open(path)
	if err != nil {
		t.log.Warn("exchange rate history unavailable, using default rate", "path", path, "default", t.def, "error", err)
		return t
	}
	defer f.Close()
	if err := t.Read(f); err != nil {
		t.log.Error("cannot read exchange rate history", "path", path, "error", err)
	}
	t.log.Info("exchange rates loaded", "path", path, "days", t.history.Len())
	return t
}

// Append sets the rate of a day.
func (t *Table) Append(on date.Date, v decimal.Decimal) {
	t.history.Append(on, v)
	t.memo.Flush()
}

// Len returns the number of days with a quote.
func (t *Table) Len() int { return t.history.Len() }

// Read appends the rates of a CSV history to t. Rows that cannot be parsed
// are logged and skipped.
func (t *Table) Read(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("cannot read header: %w", err)
	}
	dateCol, closeCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return errors.New("history must have Date and Close columns")
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) <= dateCol || len(row) <= closeCol {
			t.log.Warn("skipping short exchange rate row", "line", line)
			continue
		}
		on, err := parseDay(row[dateCol])
		if err != nil {
			t.log.Warn("skipping exchange rate row", "line", line, "error", err)
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(row[closeCol]))
		if err != nil {
			t.log.Warn("skipping exchange rate row", "line", line, "date", on, "error", err)
			continue
		}
		t.history.Append(on, v)
	}
	t.memo.Flush()
	return nil
}

// parseDay reads "01/02/24" the way the history files are written, or any
// date.ParseUS format.
func parseDay(s string) (date.Date, error) {
	s = strings.TrimSpace(s)
	if on, err := time.Parse("01/02/06", s); err == nil {
		return date.New(on.Date()), nil
	}
	return date.ParseUS(s)
}

// Lookup returns the rate of the latest quote on or before day.
func (t *Table) Lookup(day date.Date) (decimal.Decimal, date.Date, bool) {
	return t.history.ValueAsOf(day)
}

// Rate returns the USD/JPY rate on day.
func (t *Table) Rate(day date.Date) brokertax.Rate {
	key := day.String()
	if v, ok := t.memo.Get(key); ok {
		return v.(brokertax.Rate)
	}
	v, quoted, ok := t.Lookup(day)
	switch {
	case !ok:
		t.log.Debug("no exchange rate before date, using default", "date", day, "default", t.def)
		v = t.def
	case quoted != day:
		t.log.Debug("no exchange rate on date, using an earlier one", "date", day, "quoted", quoted)
	}
	r := brokertax.USDJPY(v)
	t.memo.Set(key, r, cache.NoExpiration)
	return r
}
