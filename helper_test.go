package brokertax

import (
	"testing"
	"time"

	"github.com/etnz/brokertax/date"
	"github.com/shopspring/decimal"
)

// usd is a helper for test to create usd money from const
func usd(v float64) Money { return M(v, USD) }

// jpy is a helper for test to create yen money from const
func jpy(v float64) Money { return M(v, JPY) }

// day is a helper for test to create dates in 2024.
func day(month, d int) date.Date { return date.New(2024, time.Month(month), d) }

// fixedRate always returns the same USD/JPY rate.
type fixedRate float64

func (f fixedRate) Rate(date.Date) Rate { return USDJPY(decimal.NewFromFloat(float64(f))) }

// assertMoney fails the test if got != want.
func assertMoney(t *testing.T, name string, got, want Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %v (%s), want %v (%s)", name, got, got.Decimal(), want, want.Decimal())
	}
}
