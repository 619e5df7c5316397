package brokertax

import (
	"errors"
	"testing"
)

func TestLedger_FeeConservation(t *testing.T) {
	l := NewLedger("acct", "XYZ")
	l.Add(Long, day(1, 2), Q(10), usd(1), usd(1))

	total := usd(0)
	for _, q := range []int{3, 3, 3, 1} {
		matches, err := l.Consume(Long, Q(q))
		if err != nil {
			t.Fatalf("Consume(%d) unexpected error: %v", q, err)
		}
		for _, m := range matches {
			total = total.Add(m.Fees)
		}
	}
	assertMoney(t, "allocated fees", total, usd(1))
	if got := l.Remaining(Long); !got.IsZero() {
		t.Errorf("Remaining(Long) = %s, want 0", got)
	}
	if got := len(l.Lots(Long)); got != 0 {
		t.Errorf("len(Lots(Long)) = %d, want 0", got)
	}
}

func TestLedger_FIFO(t *testing.T) {
	l := NewLedger("acct", "XYZ")
	first := l.Add(Short, day(1, 2), Q(5), usd(2), usd(0))
	l.Add(Short, day(1, 5), Q(5), usd(3), usd(0))

	matches, err := l.Consume(Short, Q(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Lot.ID != first {
		t.Fatalf("Consume(3) matched %v, want only the first lot", matches)
	}
	if got, want := matches[0].Lot.Quantity, Q(5); !got.Equal(want) {
		t.Errorf("match lot quantity = %s, want the quantity before consumption %s", got, want)
	}

	matches, err = l.Consume(Short, Q(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Consume(4) got %d matches, want 2", len(matches))
	}
	if got, want := matches[0].Quantity, Q(2); !got.Equal(want) {
		t.Errorf("first match = %s, want %s", got, want)
	}
	if got, want := matches[1].Quantity, Q(2); !got.Equal(want) {
		t.Errorf("second match = %s, want %s", got, want)
	}
	if got, want := l.Remaining(Short), Q(3); !got.Equal(want) {
		t.Errorf("Remaining(Short) = %s, want %s", got, want)
	}
}

func TestLedger_Insufficient(t *testing.T) {
	l := NewLedger("acct", "XYZ")
	l.Add(Long, day(1, 2), Q(2), usd(1), usd(0.5))
	l.Add(Short, day(1, 2), Q(5), usd(1), usd(0.5))

	_, err := l.Consume(Long, Q(3))
	var insufficient *InsufficientPositionError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Consume(3) error = %v, want *InsufficientPositionError", err)
	}
	if !errors.Is(err, ErrInsufficientPosition) {
		t.Errorf("error should match ErrInsufficientPosition")
	}
	if got, want := insufficient.Shortfall(), Q(1); !got.Equal(want) {
		t.Errorf("Shortfall() = %s, want %s", got, want)
	}
	if insufficient.Symbol != "XYZ" || insufficient.Side != Long {
		t.Errorf("error = %+v, want symbol XYZ on the long side", insufficient)
	}
	// nothing was consumed
	if got, want := l.Remaining(Long), Q(2); !got.Equal(want) {
		t.Errorf("Remaining(Long) = %s, want %s", got, want)
	}
	assertMoney(t, "lot fees", l.Lots(Long)[0].Fees, usd(0.5))
}
