package cmd

import (
	"testing"

	"github.com/etnz/brokertax"
	"github.com/etnz/brokertax/date"
	"github.com/google/go-cmp/cmp"
)

func TestReportRange(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		period  string
		day     string
		want    date.Range
		wantErr bool
	}{
		{name: "all dates", day: "2024-05-10", want: date.Range{}},
		{name: "year", year: 2024, want: date.Year(2024)},
		{name: "quarter", period: "quarterly", day: "2024-05-10", want: date.Range{From: date.New(2024, 4, 1), To: date.New(2024, 6, 30)}},
		{name: "month", period: "month", day: "2024-02-10", want: date.Range{From: date.New(2024, 2, 1), To: date.New(2024, 2, 29)}},
		{name: "both", year: 2024, period: "monthly", day: "2024-05-10", wantErr: true},
		{name: "bad period", period: "weekly", day: "2024-05-10", wantErr: true},
		{name: "bad date", period: "monthly", day: "tomorrow-ish", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reportRange(tt.year, tt.period, tt.day)
			if (err != nil) != tt.wantErr {
				t.Fatalf("reportRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("reportRange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectPositions(t *testing.T) {
	positions := []brokertax.OpenPosition{
		{Kind: brokertax.Stock, Account: "a", Symbol: "XYZ"},
		{Kind: brokertax.Stock, Account: "b", Symbol: "ABC"},
		{Kind: brokertax.Option, Account: "a", Symbol: "XYZ 06/21/2024 50.00 P"},
	}
	symbols := func(list []brokertax.OpenPosition) []string {
		var s []string
		for _, p := range list {
			s = append(s, p.Symbol)
		}
		return s
	}

	if diff := cmp.Diff([]string{"XYZ", "XYZ 06/21/2024 50.00 P"}, symbols(selectPositions(positions, "", []string{"xyz"}))); diff != "" {
		t.Errorf("select by underlying mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ABC"}, symbols(selectPositions(positions, "b", nil))); diff != "" {
		t.Errorf("select by account mismatch (-want +got):\n%s", diff)
	}
	if got := selectPositions(positions, "a", []string{"ABC"}); len(got) != 0 {
		t.Errorf("selectPositions() = %v, want none", got)
	}
}
