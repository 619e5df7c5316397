package brokertax

import (
	"fmt"

	"github.com/etnz/brokertax/date"
)

// Transaction is one row of a brokerage export.
//
// Quantity and Price are magnitudes, the direction is carried by the Action.
// Price and Fees are optional: a zero Money without currency means the
// field was absent from the export.
type Transaction struct {
	Date        date.Date
	Account     string
	Symbol      string
	Description string
	Action      Action
	Quantity    Quantity
	Price       Money
	Fees        Money
	Amount      Money
}

// HasPrice reports whether the export carried a price for tx.
func (tx Transaction) HasPrice() bool { return tx.Price.Currency() != "" }

// HasQuantity reports whether tx carries a non zero quantity.
func (tx Transaction) HasQuantity() bool { return !tx.Quantity.IsZero() }

// fees returns the transaction fees in USD, zero when absent.
func (tx Transaction) fees() Money {
	if tx.Fees.Currency() == "" {
		return M(0, USD)
	}
	return tx.Fees.Abs()
}

// price returns the unit price in USD, zero when absent.
func (tx Transaction) price() Money {
	if !tx.HasPrice() {
		return M(0, USD)
	}
	return tx.Price.Abs()
}

func (tx Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s %s", tx.Date, tx.Account, tx.Action, tx.Quantity, tx.Symbol)
}

// positionKey identifies a ledger: positions are never pooled across accounts.
type positionKey struct {
	Account string
	Symbol  string
}
