package brokertax

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientPosition is matched by every *InsufficientPositionError.
	ErrInsufficientPosition = errors.New("insufficient position")
	// ErrNotOption is returned when an option action targets a symbol that
	// does not parse as an option contract.
	ErrNotOption = errors.New("not an option symbol")
	// ErrUnknownAction is returned for an action the engine does not handle.
	ErrUnknownAction = errors.New("unknown action")
	// ErrMissingField is returned when a transaction lacks a required quantity.
	ErrMissingField = errors.New("missing required field")
)

// InsufficientPositionError reports a close, sale or assignment larger than
// the open quantity of the position.
type InsufficientPositionError struct {
	Account   string
	Symbol    string
	Side      Side
	Requested Quantity
	Available Quantity
}

func (e *InsufficientPositionError) Error() string {
	return fmt.Sprintf("insufficient %s position in %s/%s: requested %s, available %s (short by %s)",
		e.Side, e.Account, e.Symbol, e.Requested, e.Available, e.Shortfall())
}

// Shortfall returns the quantity missing to fulfill the request.
func (e *InsufficientPositionError) Shortfall() Quantity { return e.Requested.Sub(e.Available) }

func (e *InsufficientPositionError) Is(target error) bool { return target == ErrInsufficientPosition }
