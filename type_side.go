package brokertax

// Side is the direction of an open position.
type Side int

const (
	// Long positions were opened by buying.
	Long Side = iota
	// Short positions were opened by selling.
	Short
)

func (s Side) String() string {
	switch s {
	case Long:
		return "Long"
	case Short:
		return "Short"
	default:
		return "unknown"
	}
}

// Status is the lifecycle state of a position summary.
type Status int

const (
	// Open positions still hold lots.
	Open Status = iota
	// Closed positions were fully offset by closing trades.
	Closed
	// Expired positions reached expiry with lots still open.
	Expired
	// Assigned positions had their short lots exercised.
	Assigned
)

func (s Status) String() string {
	switch s {
	case Open:
		return "Open"
	case Closed:
		return "Closed"
	case Expired:
		return "Expired"
	case Assigned:
		return "Assigned"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transaction is expected after s.
func (s Status) IsTerminal() bool { return s == Expired || s == Assigned }

func (s Status) MarshalJSON() ([]byte, error) { return []byte(`"` + s.String() + `"`), nil }
func (s Side) MarshalJSON() ([]byte, error)   { return []byte(`"` + s.String() + `"`), nil }
