package importer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BarclaysParser parses Barclays current-account CSV exports: six
// columns (Number, Date, Account, Amount, Subcategory, Memo), dates as
// day/month/year, free-text memos that may themselves contain commas.
// The bank splits such memos over extra fields, so anything past the
// sixth column is folded back into the memo.
type BarclaysParser struct{}

const (
	barclaysColumns    = 6
	barclaysDateLayout = "02/01/2006"
)

var barclaysHeader = [barclaysColumns]string{"Number", "Date", "Account", "Amount", "Subcategory", "Memo"}

// Format returns the parser name.
func (BarclaysParser) Format() string { return "barclays" }

// Parse reads a Barclays CSV. Blank lines are skipped, zero-amount
// lines are silently discarded, and any malformed line fails the whole
// statement.
func (BarclaysParser) Parse(r io.Reader) (Statement, error) {
	stmt := Statement{Currency: "GBP"}
	sc := bufio.NewScanner(r)
	headerChecked := false
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		for len(parts) > barclaysColumns {
			parts[len(parts)-2] += parts[len(parts)-1]
			parts = parts[:len(parts)-1]
		}
		if len(parts) != barclaysColumns {
			return Statement{}, fmt.Errorf("%w: line %d has %d columns, want %d", ErrBadStatement, line, len(parts), barclaysColumns)
		}
		if !headerChecked {
			for i, want := range barclaysHeader {
				if !strings.EqualFold(strings.TrimSpace(parts[i]), want) {
					return Statement{}, fmt.Errorf("%w: header column %d is %q, want %q", ErrBadStatement, i+1, strings.TrimSpace(parts[i]), want)
				}
			}
			headerChecked = true
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(parts[3]))
		if err != nil {
			return Statement{}, fmt.Errorf("%w: line %d amount %q", ErrBadStatement, line, strings.TrimSpace(parts[3]))
		}
		if amount.IsZero() {
			continue
		}
		date, err := time.Parse(barclaysDateLayout, strings.TrimSpace(parts[1]))
		if err != nil {
			return Statement{}, fmt.Errorf("%w: line %d date %q", ErrBadStatement, line, strings.TrimSpace(parts[1]))
		}
		stmt.Rows = append(stmt.Rows, Row{
			Date:        date,
			Amount:      amount,
			PaymentType: strings.TrimSpace(parts[4]),
			Description: strings.TrimSpace(parts[5]),
		})
	}
	if err := sc.Err(); err != nil {
		return Statement{}, fmt.Errorf("read statement: %w", err)
	}
	if !headerChecked {
		return Statement{}, fmt.Errorf("%w: empty statement", ErrBadStatement)
	}
	return stmt, nil
}
