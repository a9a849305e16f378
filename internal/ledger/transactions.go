package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/famledger/famledger/internal/database"
	"github.com/famledger/famledger/internal/database/repository"
)

// TransactionBatch is the broadcast form of a bulk insert. Each list is
// either empty (column is null on every row), a single value (used for
// every row), or one value per row. Account, OperationDates, Currencies
// and Amounts are required.
type TransactionBatch struct {
	Account        int
	OperationDates []time.Time
	Currencies     []int
	Amounts        []decimal.Decimal
	PaymentTypes   []string
	Descriptions   []string
	Categories     []int
	Subcategories  []int
	MovementTypes  []int
	Destinations   []int
	ExchangeRates  []float64
}

// BatchResult reports what a bulk insert did.
type BatchResult struct {
	Inserted int
	Skipped  int
}

// rows resolves the broadcast rule: the row count is the longest list,
// and any list longer than one must match it exactly.
func (b TransactionBatch) rows() (int, error) {
	if b.Account <= 0 {
		return 0, validationf("account required")
	}
	if len(b.OperationDates) == 0 || len(b.Currencies) == 0 || len(b.Amounts) == 0 {
		return 0, validationf("operation dates, currencies and amounts required")
	}
	lens := []int{
		len(b.OperationDates), len(b.Currencies), len(b.Amounts),
		len(b.PaymentTypes), len(b.Descriptions), len(b.Categories),
		len(b.Subcategories), len(b.MovementTypes), len(b.Destinations),
		len(b.ExchangeRates),
	}
	n := 1
	for _, l := range lens {
		if l > n {
			n = l
		}
	}
	for _, l := range lens {
		if l > 1 && l != n {
			return 0, validationf("list of %d values does not broadcast over %d rows", l, n)
		}
	}
	return n, nil
}

// pick broadcasts a list over row i. ok is false for empty lists, which
// bind as null.
func pick[T any](s []T, i int) (value T, ok bool) {
	switch len(s) {
	case 0:
		return value, false
	case 1:
		return s[0], true
	default:
		return s[i], true
	}
}

func bindOpt[T any](s []T, i int) any {
	v, ok := pick(s, i)
	if !ok {
		return nil
	}
	return v
}

// AddTransactions bulk-inserts one batch as a single unit of work. With
// checkDuplicates set, rows whose (account, date, currency, amount,
// payment type, description) tuple already exists are skipped, counted,
// and consume no id.
func (e *Engine) AddTransactions(ctx context.Context, b TransactionBatch, checkDuplicates bool) (BatchResult, error) {
	n, err := b.rows()
	if err != nil {
		return BatchResult{}, err
	}

	var res BatchResult
	err = database.WithTx(e.db, func(tx *sql.Tx) error {
		res = BatchResult{}
		skip := make(map[int]bool)
		if checkDuplicates {
			for i := 0; i < n; i++ {
				date, _ := pick(b.OperationDates, i)
				currency, _ := pick(b.Currencies, i)
				amount, _ := pick(b.Amounts, i)
				var existing int
				err := tx.QueryRowContext(ctx, `
				SELECT Id FROM Transactions
				WHERE Account = ? AND OperationDate = ? AND Currency = ? AND Amount = ?
				AND PaymentType IS ? AND Description IS ?`,
					b.Account, date.Format(repository.DateLayout), currency, amount.String(),
					bindOpt(b.PaymentTypes, i), bindOpt(b.Descriptions, i)).Scan(&existing)
				switch err {
				case nil:
					skip[i] = true
				case sql.ErrNoRows:
				default:
					return fmt.Errorf("duplicate check row %d: %w", i, err)
				}
			}
		}

		id, err := maxID(ctx, tx, TableTransactions)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if skip[i] {
				res.Skipped++
				continue
			}
			id++
			date, _ := pick(b.OperationDates, i)
			currency, _ := pick(b.Currencies, i)
			amount, _ := pick(b.Amounts, i)
			_, err := tx.ExecContext(ctx, `
			INSERT INTO Transactions (Id, Account, OperationDate, Currency, Amount,
			 PaymentType, Description, Category, Subcategory, MovementType,
			 DestinationAccount, ExchangeRate)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id, b.Account, date.Format(repository.DateLayout), currency, amount.String(),
				bindOpt(b.PaymentTypes, i), bindOpt(b.Descriptions, i),
				bindOpt(b.Categories, i), bindOpt(b.Subcategories, i),
				bindOpt(b.MovementTypes, i), bindOpt(b.Destinations, i),
				bindOpt(b.ExchangeRates, i))
			if err != nil {
				return fmt.Errorf("insert row %d: %w", i, err)
			}
			res.Inserted++
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, fmt.Errorf("add transactions: %w", err)
	}

	e.log.Info("transactions added",
		zap.Int("account", b.Account),
		zap.Int("inserted", res.Inserted),
		zap.Int("skipped", res.Skipped))
	e.notifier.TableChanged(TableTransactions)
	e.setDirty(true)
	return res, nil
}

// RemoveTransactions deletes the given transactions. A single statement
// is its own unit of work.
func (e *Engine) RemoveTransactions(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return validationf("no transactions selected")
	}
	placeholders, args := idPlaceholders(ids)
	if _, err := e.db.ExecContext(ctx, "DELETE FROM Transactions WHERE Id IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("remove transactions: %w", err)
	}
	e.log.Info("transactions removed", zap.Ints("ids", ids))
	e.notifier.TableChanged(TableTransactions)
	e.setDirty(true)
	return nil
}
