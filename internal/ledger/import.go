package ledger

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/famledger/famledger/internal/database/repository"
	"github.com/famledger/famledger/internal/importer"
)

// ImportFormat selects a statement dialect.
type ImportFormat int

const (
	FormatBarclays ImportFormat = iota
	// Recognised but not yet parsed.
	FormatNatwest
	FormatRevolut
)

func (f ImportFormat) parser() (importer.Parser, error) {
	switch f {
	case FormatBarclays:
		return importer.BarclaysParser{}, nil
	case FormatNatwest, FormatRevolut:
		return nil, validationf("statement format not supported yet")
	default:
		return nil, validationf("unknown statement format %d", f)
	}
}

// ImportStatement books a bank statement against account: rows are
// parsed, classified as Income or Expense by the amount's sign, and
// bulk-inserted with duplicate checking on, so re-importing an
// overlapping export only books the new lines. An audit row is recorded
// per import.
func (e *Engine) ImportStatement(ctx context.Context, account int, format ImportFormat, filename string, r io.Reader) (BatchResult, error) {
	p, err := format.parser()
	if err != nil {
		return BatchResult{}, err
	}
	stmt, err := p.Parse(r)
	if err != nil {
		return BatchResult{}, fmt.Errorf("parse %s statement: %w", p.Format(), err)
	}

	currency, ok := e.CurrencyID(stmt.Currency)
	if !ok {
		return BatchResult{}, validationf("statement currency %q not in Currencies", stmt.Currency)
	}
	income, ok := e.MovementTypeID("Income")
	if !ok {
		return BatchResult{}, validationf("movement type Income not in MovementTypes")
	}
	expense, ok := e.MovementTypeID("Expense")
	if !ok {
		return BatchResult{}, validationf("movement type Expense not in MovementTypes")
	}

	batch := TransactionBatch{
		Account:        account,
		Currencies:     []int{currency},
		OperationDates: make([]time.Time, 0, len(stmt.Rows)),
		Amounts:        make([]decimal.Decimal, 0, len(stmt.Rows)),
		PaymentTypes:   make([]string, 0, len(stmt.Rows)),
		Descriptions:   make([]string, 0, len(stmt.Rows)),
		MovementTypes:  make([]int, 0, len(stmt.Rows)),
	}
	for _, row := range stmt.Rows {
		batch.OperationDates = append(batch.OperationDates, row.Date)
		batch.Amounts = append(batch.Amounts, row.Amount)
		batch.PaymentTypes = append(batch.PaymentTypes, row.PaymentType)
		batch.Descriptions = append(batch.Descriptions, row.Description)
		if row.Amount.IsNegative() {
			batch.MovementTypes = append(batch.MovementTypes, expense)
		} else {
			batch.MovementTypes = append(batch.MovementTypes, income)
		}
	}

	res, err := e.AddTransactions(ctx, batch, true)
	if err != nil {
		return BatchResult{}, err
	}

	audit := repository.ImportRecord{
		ID:       uuid.NewString(),
		Filename: filename,
		RowCount: res.Inserted,
	}
	if err := e.imports.Insert(ctx, audit); err != nil {
		// The statement itself is booked; losing the audit row is
		// worth a warning, not a failed import.
		e.log.Warn("import audit record failed", zap.Error(err))
	}
	e.log.Info("statement imported",
		zap.String("format", p.Format()),
		zap.String("file", filename),
		zap.Int("inserted", res.Inserted),
		zap.Int("skipped", res.Skipped))
	return res, nil
}
