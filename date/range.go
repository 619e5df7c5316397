package date

import (
	"fmt"
	"strings"
	"time"
)

// Period is a standard calendar period used to filter reports.
type Period int

const (
	Monthly Period = iota
	Quarterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// ParsePeriod parses a period name.
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(p) {
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return Yearly, fmt.Errorf("unknown period %s", p)
	}
}

// StartOf returns the first day of the period containing d.
func (d Date) StartOf(p Period) Date {
	switch p {
	case Monthly:
		return New(d.y, d.m, 1)
	case Quarterly:
		return New(d.y, time.Month((int(d.m)-1)/3*3+1), 1)
	default:
		return New(d.y, time.January, 1)
	}
}

// EndOf returns the last day of the period containing d.
func (d Date) EndOf(p Period) Date {
	switch p {
	case Monthly:
		return New(d.y, d.m+1, 0)
	case Quarterly:
		start := d.StartOf(Quarterly)
		return New(start.y, start.m+3, 0)
	default:
		return New(d.y, time.December, 31)
	}
}

// Range represents a range of dates, boundaries included.
// The zero Range contains every date.
type Range struct{ From, To Date }

// NewRange returns the standard period range containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Year returns the range of a calendar year.
func Year(y int) Range {
	return Range{From: New(y, time.January, 1), To: New(y, time.December, 31)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool {
	if r == (Range{}) {
		return true
	}
	return !date.Before(r.From) && !date.After(r.To)
}

// String returns a short human readable representation of the range.
func (r Range) String() string {
	if r == (Range{}) {
		return "all dates"
	}
	return fmt.Sprintf("%s to %s", r.From, r.To)
}
