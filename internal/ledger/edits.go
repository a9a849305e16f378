package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/famledger/famledger/internal/database/repository"
)

// The cell edits below write the primary column first and commit it,
// then forward-chain the correction rules over the committed row. The
// corrections are deliberately outside the original write's unit of
// work: a crash in between is recovered by re-reading the store.

// SetTransactionCategory updates a transaction's category (nil clears
// it) and re-derives destination account, movement type and
// subcategory.
func (e *Engine) SetTransactionCategory(ctx context.Context, id int, category *int) error {
	if err := e.updateColumn(ctx, id, "Category", optBind(category)); err != nil {
		return err
	}
	return e.correctRow(ctx, id, categoryCorrections)
}

// SetTransactionCurrency updates a transaction's currency and
// re-derives its exchange rate.
func (e *Engine) SetTransactionCurrency(ctx context.Context, id, currency int) error {
	if err := e.updateColumn(ctx, id, "Currency", currency); err != nil {
		return err
	}
	return e.correctRow(ctx, id, currencyCorrections)
}

// SetTransactionAmount updates a transaction's amount. Amount edits
// trigger no corrections on their own; movement type is only
// reclassified when the category changes.
func (e *Engine) SetTransactionAmount(ctx context.Context, id int, amount decimal.Decimal) error {
	return e.updateColumn(ctx, id, "Amount", amount.String())
}

// SetTransactionDestination updates a transaction's destination
// account. The caller is expected to only offer it for
// internal-transfer rows; the category rules clear it everywhere else.
func (e *Engine) SetTransactionDestination(ctx context.Context, id int, destination *int) error {
	return e.updateColumn(ctx, id, "DestinationAccount", optBind(destination))
}

// SetBaseCurrency switches the ledger's base currency and recomputes
// every transaction's exchange rate against it.
func (e *Engine) SetBaseCurrency(ctx context.Context, currency int) error {
	if currency == e.baseCurrency {
		return nil
	}
	known := false
	for _, c := range e.currencies {
		if c.ID == currency {
			known = true
			break
		}
	}
	if !known {
		return validationf("unknown currency %d", currency)
	}
	e.baseCurrency = currency
	e.log.Info("base currency changed", zap.Int("currency", currency))
	e.notifier.BaseCurrencyChanged(currency)

	ids, err := e.transactions.IDs(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	for _, id := range ids {
		if err := e.correctRow(ctx, id, currencyCorrections); err != nil {
			return err
		}
	}
	return nil
}

// SetBaseCurrencyCode is SetBaseCurrency by ISO code.
func (e *Engine) SetBaseCurrencyCode(ctx context.Context, code string) error {
	id, ok := e.CurrencyID(code)
	if !ok {
		return validationf("unknown currency %q", code)
	}
	return e.SetBaseCurrency(ctx, id)
}

func (e *Engine) updateColumn(ctx context.Context, id int, column string, value any) error {
	res, err := e.db.ExecContext(ctx, "UPDATE Transactions SET "+column+" = ? WHERE Id = ?", value, id)
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", column, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return validationf("no transaction with id %d", id)
	}
	e.notifier.TableChanged(TableTransactions)
	e.setDirty(true)
	return nil
}

// correctRow loads the committed row, evaluates rule against it and
// writes whatever corrections come back.
func (e *Engine) correctRow(ctx context.Context, id int, rule func(t repository.Transaction, rc ruleContext) corrections) error {
	row, err := e.transactions.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", id, err)
	}
	if row == nil {
		return validationf("no transaction with id %d", id)
	}
	c := rule(*row, e.ruleContext(ctx))
	if c.empty() {
		return nil
	}
	return e.applyCorrections(ctx, id, c)
}

func (e *Engine) applyCorrections(ctx context.Context, id int, c corrections) error {
	apply := func(column string, ch change[int]) error {
		if !ch.touched {
			return nil
		}
		return e.updateColumn(ctx, id, column, optBind(ch.value))
	}
	if err := apply("DestinationAccount", c.Destination); err != nil {
		return err
	}
	if err := apply("MovementType", c.MovementType); err != nil {
		return err
	}
	if err := apply("Subcategory", c.Subcategory); err != nil {
		return err
	}
	if c.ExchangeRate.touched {
		return e.updateColumn(ctx, id, "ExchangeRate", optBind(c.ExchangeRate.value))
	}
	return nil
}

func (e *Engine) ruleContext(ctx context.Context) ruleContext {
	return ruleContext{
		baseCurrency: e.baseCurrency,
		subcategoryValid: func(category, subcategory int) bool {
			return e.ValidSubcategory(ctx, category, subcategory)
		},
		soleSubcategory: func(category int) (int, bool) {
			return e.ForcedSubcategory(ctx, category)
		},
		exchangeRate: func(from, to int) (float64, bool) {
			rate, ok, err := e.reference.ExchangeRate(ctx, from, to)
			if err != nil {
				e.log.Warn("exchange rate lookup failed", zap.Error(err))
				return 0, false
			}
			return rate, ok
		},
	}
}

// ValidSubcategory reports whether subcategory belongs to category,
// falling back to the cached Subcategories table if the query fails.
func (e *Engine) ValidSubcategory(ctx context.Context, category, subcategory int) bool {
	ok, err := e.reference.SubcategoryBelongs(ctx, category, subcategory)
	if err == nil {
		return ok
	}
	e.log.Warn("subcategory lookup failed, using cache", zap.Error(err))
	for _, s := range e.subcategories {
		if s.Category == category && s.ID == subcategory {
			return true
		}
	}
	return false
}

// ForcedSubcategory returns the single subcategory of a category, when
// it has exactly one. Like ValidSubcategory it degrades to the cache.
func (e *Engine) ForcedSubcategory(ctx context.Context, category int) (int, bool) {
	ids, err := e.reference.SubcategoryIDs(ctx, category)
	if err != nil {
		e.log.Warn("subcategory lookup failed, using cache", zap.Error(err))
		ids = ids[:0]
		for _, s := range e.subcategories {
			if s.Category == category {
				ids = append(ids, s.ID)
			}
		}
	}
	if len(ids) == 1 {
		return ids[0], true
	}
	return 0, false
}

func optBind[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
