// Package importer parses bank statement exports into neutral rows the
// ledger engine can book. Parsers validate the whole file up front: a
// malformed row fails the import rather than booking a partial
// statement.
package importer

import (
	"errors"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// ErrBadStatement marks a statement rejected on parse: unexpected
// header, wrong column count, unparsable amount or date.
var ErrBadStatement = errors.New("malformed statement")

// Row is one parsed statement line.
type Row struct {
	Date        time.Time
	Amount      decimal.Decimal
	PaymentType string
	Description string
}

// Statement is a fully parsed export. Currency is the ISO code the bank
// denominates the statement in; zero-amount lines are already dropped.
type Statement struct {
	Currency string
	Rows     []Row
}

// Parser turns one bank's export dialect into a Statement.
type Parser interface {
	Format() string
	Parse(r io.Reader) (Statement, error)
}
