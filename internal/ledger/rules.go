package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/famledger/famledger/internal/database/repository"
)

// Internal-transfer categories. These ids are fixed in the seeded
// reference data and must not be renumbered.
const (
	CategoryInternalTransfer = 0
	CategoryInvestment       = 18
	CategoryDebt             = 19
)

// Movement types the transfer rule assigns.
const (
	MovementDeposit    = 4
	MovementRepayment  = 5
	MovementWithdrawal = 6
)

// IsInternalTransferCategory reports whether the category moves money
// between own accounts rather than in or out of the ledger.
func IsInternalTransferCategory(category int) bool {
	return category == CategoryInternalTransfer ||
		category == CategoryInvestment ||
		category == CategoryDebt
}

// movementTypeForTransfer classifies an internal transfer by sign and
// category. Calling it for a non-transfer category is a bug, not a
// runtime condition.
func movementTypeForTransfer(category int, amount decimal.Decimal) int {
	if amount.IsPositive() {
		return MovementWithdrawal
	}
	switch category {
	case CategoryInternalTransfer, CategoryInvestment:
		return MovementDeposit
	case CategoryDebt:
		return MovementRepayment
	}
	panic(fmt.Sprintf("movementTypeForTransfer: category %d is not an internal transfer", category))
}

// ruleContext carries everything the correction rules read besides the
// row itself. Passing the base currency here, rather than holding it as
// package state, keeps independent engines from interfering.
type ruleContext struct {
	baseCurrency     int
	subcategoryValid func(category, subcategory int) bool
	soleSubcategory  func(category int) (int, bool)
	exchangeRate     func(from, to int) (float64, bool)
}

// change is one pending correction to an optional column: untouched,
// set to a value, or cleared to null.
type change[T any] struct {
	touched bool
	value   *T
}

func setTo[T any](v T) change[T] { return change[T]{touched: true, value: &v} }
func clearOut[T any]() change[T] { return change[T]{touched: true} }

// corrections is the output of a rule evaluation: the downstream column
// writes needed to restore consistency after an edit.
type corrections struct {
	Destination  change[int]
	MovementType change[int]
	Subcategory  change[int]
	ExchangeRate change[float64]
}

func (c corrections) empty() bool {
	return !c.Destination.touched && !c.MovementType.touched &&
		!c.Subcategory.touched && !c.ExchangeRate.touched
}

// categoryCorrections keeps destination account, movement type and
// subcategory consistent with a row's category:
//   - only internal transfers keep a destination account;
//   - internal transfers get their movement type reclassified from the
//     amount's sign;
//   - a category with exactly one subcategory forces it, otherwise a
//     subcategory that no longer belongs to the category is cleared.
func categoryCorrections(t repository.Transaction, rc ruleContext) corrections {
	var c corrections
	if t.Category == nil || !IsInternalTransferCategory(*t.Category) {
		if t.DestinationAccount != nil {
			c.Destination = clearOut[int]()
		}
	} else {
		c.MovementType = setTo(movementTypeForTransfer(*t.Category, t.Amount))
	}
	if t.Category == nil {
		if t.Subcategory != nil {
			c.Subcategory = clearOut[int]()
		}
		return c
	}
	if sole, ok := rc.soleSubcategory(*t.Category); ok {
		if t.Subcategory == nil || *t.Subcategory != sole {
			c.Subcategory = setTo(sole)
		}
	} else if t.Subcategory != nil && !rc.subcategoryValid(*t.Category, *t.Subcategory) {
		c.Subcategory = clearOut[int]()
	}
	return c
}

// currencyCorrections keeps the exchange rate consistent with a row's
// currency: base-currency rows carry none, every other row carries the
// stored rate into the base currency, defaulting to 1 when no rate is
// on file.
func currencyCorrections(t repository.Transaction, rc ruleContext) corrections {
	var c corrections
	if t.Currency == rc.baseCurrency {
		if t.ExchangeRate != nil {
			c.ExchangeRate = clearOut[float64]()
		}
		return c
	}
	rate, ok := rc.exchangeRate(t.Currency, rc.baseCurrency)
	if !ok {
		rate = 1.0
	}
	c.ExchangeRate = setTo(rate)
	return c
}
