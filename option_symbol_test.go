package brokertax

import (
	"testing"

	"github.com/etnz/brokertax/date"
	"github.com/shopspring/decimal"
)

func TestParseOptionSymbol(t *testing.T) {
	testCases := []struct {
		symbol string
		ok     bool
		want   OptionSymbol
	}{
		{"AAPL 01/19/2024 190.00 C", true, OptionSymbol{"AAPL", date.New(2024, 1, 19), decimal.RequireFromString("190"), Call}},
		{"SPY 12/20/2024 450 P", true, OptionSymbol{"SPY", date.New(2024, 12, 20), decimal.RequireFromString("450"), Put}},
		{"BRK.B 06/21/2024 400.50 C", true, OptionSymbol{"BRK.B", date.New(2024, 6, 21), decimal.RequireFromString("400.5"), Call}},
		{"AAPL", false, OptionSymbol{}},
		{"AAPL 01/19/2024 190.00", false, OptionSymbol{}},
		{"AAPL 2024-01-19 190.00 C", false, OptionSymbol{}},
		{"AAPL 01/19/2024 190.00 X", false, OptionSymbol{}},
		{"", false, OptionSymbol{}},
	}
	for _, tc := range testCases {
		t.Run(tc.symbol, func(t *testing.T) {
			got, ok := ParseOptionSymbol(tc.symbol)
			if ok != tc.ok {
				t.Fatalf("ParseOptionSymbol(%q) ok = %v, want %v", tc.symbol, ok, tc.ok)
			}
			if !ok {
				return
			}
			if got.Underlying != tc.want.Underlying || got.Expiry != tc.want.Expiry || !got.Strike.Equal(tc.want.Strike) || got.Type != tc.want.Type {
				t.Errorf("ParseOptionSymbol(%q) = %+v, want %+v", tc.symbol, got, tc.want)
			}
		})
	}
}

func TestOptionSymbol_String(t *testing.T) {
	s, _ := ParseOptionSymbol("XYZ 06/21/2024 50 P")
	if got, want := s.String(), "XYZ 06/21/2024 50.00 P"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
