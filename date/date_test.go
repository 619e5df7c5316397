package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParseUS(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "12/31/2024", want: New(2024, time.December, 31)},
		{in: "01/05/2024 as of 12/29/2023", want: New(2024, time.January, 5)},
		{in: "3/7/2024", want: New(2024, time.March, 7)},
		{in: "2024-02-29", want: New(2024, time.February, 29)},
		{in: "06/30/24", want: New(2024, time.June, 30)},
		{in: "", wantErr: true},
		{in: "31/12/2024", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseUS(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParseUS(%q) = %v, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseUS(%q) error = %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseUS(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestRange(t *testing.T) {
	d := New(2024, time.May, 17)
	testCases := []struct {
		period Period
		want   Range
	}{
		{Monthly, Range{From: New(2024, time.May, 1), To: New(2024, time.May, 31)}},
		{Quarterly, Range{From: New(2024, time.April, 1), To: New(2024, time.June, 30)}},
		{Yearly, Year(2024)},
	}
	for _, tc := range testCases {
		t.Run(tc.period.String(), func(t *testing.T) {
			got := NewRange(d, tc.period)
			if got != tc.want {
				t.Errorf("NewRange(%v, %v) = %v, want %v", d, tc.period, got, tc.want)
			}
			if !got.Contains(d) {
				t.Errorf("%v does not contain %v", got, d)
			}
		})
	}

	if !(Range{}).Contains(d) {
		t.Error("zero Range should contain every date")
	}
	if Year(2023).Contains(d) {
		t.Errorf("Year(2023) should not contain %v", d)
	}
}
