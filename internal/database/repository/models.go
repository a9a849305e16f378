package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is how operation dates and birthdays are stored.
const DateLayout = "2006-01-02"

// Account represents an Accounts row. Owners is the decoded owner set;
// the comma-joined column encoding never leaves this package.
type Account struct {
	ID       int
	Name     string
	Owners   []int
	Currency int
	Type     int
	Open     bool
}

// FamilyMember represents a Family row.
type FamilyMember struct {
	ID             int
	Name           string
	Birthday       time.Time
	TaxableIncome  decimal.Decimal
	IncomeCurrency int
	RetirementAge  int
}

// Transaction represents a Transactions row. Optional columns are
// pointers so null survives round trips.
type Transaction struct {
	ID                 int
	Account            int
	OperationDate      time.Time
	Currency           int
	Amount             decimal.Decimal
	PaymentType        *string
	Description        *string
	Category           *int
	Subcategory        *int
	MovementType       *int
	DestinationAccount *int
	ExchangeRate       *float64
}

// Category represents a Categories row.
type Category struct {
	ID   int
	Name string
}

// Subcategory represents a Subcategories row.
type Subcategory struct {
	ID       int
	Category int
	Name     string
}

// Currency represents a Currencies row.
type Currency struct {
	ID   int
	Code string
}

// MovementType represents a MovementTypes row.
type MovementType struct {
	ID   int
	Name string
}

// AccountType represents an AccountTypes row.
type AccountType struct {
	ID   int
	Name string
}

// ImportRecord is the audit row written for each statement import.
type ImportRecord struct {
	ID         string
	Filename   string
	RowCount   int
	ImportedAt string
}
