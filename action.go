package brokertax

import "strings"

// Action is a normalized brokerage action type, e.g. "SELL_TO_OPEN".
type Action string

// Action types found in brokerage exports.
const (
	ActBuy         Action = "BUY"
	ActSell        Action = "SELL"
	ActBuyToOpen   Action = "BUY_TO_OPEN"
	ActSellToOpen  Action = "SELL_TO_OPEN"
	ActBuyToClose  Action = "BUY_TO_CLOSE"
	ActSellToClose Action = "SELL_TO_CLOSE"
	ActExpired     Action = "EXPIRED"
	ActAssigned    Action = "ASSIGNED"

	ActQualifiedDividend Action = "QUALIFIED_DIVIDEND"
	ActCashDividend      Action = "CASH_DIVIDEND"
	ActReinvestDividend  Action = "REINVEST_DIVIDEND"
	ActPriorYearDividend Action = "PRIOR_YEAR_DIVIDEND"
	ActPrYrCashDividend  Action = "PR_YR_CASH_DIV"
	ActNonQualifiedDiv   Action = "NON-QUALIFIED_DIV"
	ActCreditInterest    Action = "CREDIT_INTEREST"
	ActBankInterest      Action = "BANK_INTEREST"
	ActBondInterest      Action = "BOND_INTEREST"
	ActCDInterest        Action = "CD_INTEREST"
	ActNRATaxAdj         Action = "NRA_TAX_ADJ"
	ActPriorYearNRATax   Action = "PRIOR_YEAR_NRA_TAX"
	ActPrYrNRATax        Action = "PR_YR_NRA_TAX"
	ActCDDepositFunds    Action = "CD_DEPOSIT_FUNDS"
	ActCDMaturity        Action = "CD_MATURITY"
	ActCDDepositAdj      Action = "CD_DEPOSIT_ADJ"
)

// Category is the family of records an action contributes to.
type Category int

const (
	Other Category = iota
	Stock
	Option
	Dividend
	Interest
	Tax
	CD
)

func (c Category) String() string {
	switch c {
	case Stock:
		return "Stock"
	case Option:
		return "Option"
	case Dividend:
		return "Dividend"
	case Interest:
		return "Interest"
	case Tax:
		return "Tax"
	case CD:
		return "CD"
	default:
		return "Other"
	}
}

var categories = map[Action]Category{
	ActBuy:               Stock,
	ActSell:              Stock,
	ActBuyToOpen:         Option,
	ActSellToOpen:        Option,
	ActBuyToClose:        Option,
	ActSellToClose:       Option,
	ActExpired:           Option,
	ActAssigned:          Option,
	ActQualifiedDividend: Dividend,
	ActCashDividend:      Dividend,
	ActReinvestDividend:  Dividend,
	ActPriorYearDividend: Dividend,
	ActPrYrCashDividend:  Dividend,
	ActNonQualifiedDiv:   Dividend,
	ActCreditInterest:    Interest,
	ActBankInterest:      Interest,
	ActBondInterest:      Interest,
	ActCDInterest:        Interest,
	ActNRATaxAdj:         Tax,
	ActPriorYearNRATax:   Tax,
	ActPrYrNRATax:        Tax,
	ActCDDepositFunds:    CD,
	ActCDMaturity:        CD,
	ActCDDepositAdj:      CD,
}

// ParseAction normalizes a raw action string: "Sell to Open" becomes SELL_TO_OPEN.
func ParseAction(raw string) Action {
	return Action(strings.Join(strings.Fields(strings.ToUpper(raw)), "_"))
}

// Category returns the category of a.
func (a Action) Category() Category { return categories[a] }

// IsOpening reports whether a adds lots to a position.
func (a Action) IsOpening() bool {
	return a == ActBuy || a == ActBuyToOpen || a == ActSellToOpen
}

// IsTerminal reports whether a ends an option position without an offsetting trade.
func (a Action) IsTerminal() bool { return a == ActExpired || a == ActAssigned }

// rank orders same-day transactions: opens, then closes, then terminal events.
func (a Action) rank() int {
	switch {
	case a.IsOpening():
		return 0
	case a.IsTerminal():
		return 2
	default:
		return 1
	}
}

// Classify returns the category of a transaction. Option actions on a
// symbol that is not an option symbol are classified as Other.
func Classify(tx Transaction) Category {
	c := tx.Action.Category()
	if c == Option {
		if _, ok := ParseOptionSymbol(tx.Symbol); !ok {
			return Other
		}
	}
	return c
}
