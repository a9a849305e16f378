// Package ledger is the mutation and consistency engine of the budget:
// it owns every write to the Accounts, Family and Transactions tables,
// keeps derived transaction fields self-consistent, and persists the
// whole store as versioned snapshot files. It assumes it is the sole
// writer of the underlying sqlite file.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/famledger/famledger/internal/database"
	"github.com/famledger/famledger/internal/database/repository"
)

// Options configures an Engine.
type Options struct {
	// Path of the working sqlite file. Created and migrated if missing.
	Path string
	// BaseCurrency id; transactions in any other currency carry an
	// exchange rate. Defaults to 1 (GBP in the seeded reference data).
	BaseCurrency int
	Logger       *zap.Logger
	Notifier     Notifier
}

// Engine mutates one budget. It is synchronous and single-threaded:
// every operation runs to completion on the caller's goroutine.
type Engine struct {
	db       *sql.DB
	path     string
	log      *zap.Logger
	notifier Notifier

	baseCurrency int
	dirty        bool
	filter       []repository.ColumnFilter

	accounts     *repository.AccountRepo
	family       *repository.FamilyRepo
	transactions *repository.TransactionRepo
	reference    *repository.ReferenceRepo
	imports      *repository.ImportRepo

	// Cached reference tables, refreshed whenever the store is
	// (re)opened. Used for code lookups and as fallback when a live
	// query fails; never a source of truth for mutations.
	currencies    []repository.Currency
	movementTypes []repository.MovementType
	subcategories []repository.Subcategory
}

// Open opens (or creates) the working store and returns an engine
// bound to it.
func Open(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Path == "" {
		return nil, validationf("database path required")
	}
	e := &Engine{
		path:         opts.Path,
		log:          opts.Logger,
		notifier:     opts.Notifier,
		baseCurrency: opts.BaseCurrency,
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.notifier == nil {
		e.notifier = NopNotifier{}
	}
	if e.baseCurrency == 0 {
		e.baseCurrency = 1
	}
	if err := e.open(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Close releases the underlying store.
func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	return err
}

func (e *Engine) open(ctx context.Context) error {
	db, err := database.Open(e.path)
	if err != nil {
		return fmt.Errorf("open budget db: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate budget db: %w", err)
	}
	e.db = db
	e.accounts = repository.NewAccountRepo(db)
	e.family = repository.NewFamilyRepo(db)
	e.transactions = repository.NewTransactionRepo(db)
	e.reference = repository.NewReferenceRepo(db)
	e.imports = repository.NewImportRepo(db)
	return e.refreshCaches(ctx)
}

func (e *Engine) refreshCaches(ctx context.Context) error {
	var err error
	if e.currencies, err = e.reference.Currencies(ctx); err != nil {
		return fmt.Errorf("load currencies: %w", err)
	}
	if e.movementTypes, err = e.reference.MovementTypes(ctx); err != nil {
		return fmt.Errorf("load movement types: %w", err)
	}
	if e.subcategories, err = e.reference.Subcategories(ctx); err != nil {
		return fmt.Errorf("load subcategories: %w", err)
	}
	return nil
}

// reopen swaps in a fresh store after a load or a new-budget reset and
// tells the collaborator every table changed.
func (e *Engine) reopen(ctx context.Context) error {
	if err := e.open(ctx); err != nil {
		return err
	}
	e.notifyAll()
	return nil
}

func (e *Engine) notifyAll() {
	for _, t := range allTables {
		e.notifier.TableChanged(t)
	}
}

// IsDirty reports whether the budget has unsaved changes.
func (e *Engine) IsDirty() bool {
	return e.dirty
}

func (e *Engine) setDirty(dirty bool) {
	if e.dirty == dirty {
		return
	}
	e.dirty = dirty
	e.notifier.DirtyChanged(dirty)
}

// BaseCurrency returns the currency id all exchange rates convert into.
func (e *Engine) BaseCurrency() int {
	return e.baseCurrency
}

// CurrencyID resolves an ISO code case-insensitively against the cached
// Currencies table. The second return is false when unknown.
func (e *Engine) CurrencyID(code string) (int, bool) {
	code = strings.TrimSpace(code)
	for _, c := range e.currencies {
		if strings.EqualFold(strings.TrimSpace(c.Code), code) {
			return c.ID, true
		}
	}
	return 0, false
}

// MovementTypeID resolves a movement-type name case-insensitively.
func (e *Engine) MovementTypeID(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for _, m := range e.movementTypes {
		if strings.EqualFold(strings.TrimSpace(m.Name), name) {
			return m.ID, true
		}
	}
	return 0, false
}

// SetTransactionsFilter replaces the structured predicate applied by
// ListTransactions. The collaborator is told to re-fetch.
func (e *Engine) SetTransactionsFilter(filters []repository.ColumnFilter) {
	e.filter = filters
	e.notifier.TableChanged(TableTransactions)
}

// ListTransactions returns transactions matching the current filter.
func (e *Engine) ListTransactions(ctx context.Context) ([]repository.Transaction, error) {
	return e.transactions.List(ctx, e.filter)
}

// ListAccounts returns all accounts.
func (e *Engine) ListAccounts(ctx context.Context) ([]repository.Account, error) {
	return e.accounts.List(ctx)
}

// ListFamilyMembers returns all family members.
func (e *Engine) ListFamilyMembers(ctx context.Context) ([]repository.FamilyMember, error) {
	return e.family.List(ctx)
}

// LastTransactionDate returns the most recent operation date, or the
// zero time on an empty ledger.
func (e *Engine) LastTransactionDate(ctx context.Context) (time.Time, error) {
	return e.transactions.LastOperationDate(ctx)
}

// maxID returns the highest id currently in table. Ids are assigned
// max+1 by the engine itself, never by the database, which is only
// sound because the engine is the sole writer.
func maxID(ctx context.Context, tx *sql.Tx, table string) (int, error) {
	var id int
	err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(Id), 0) FROM "+table).Scan(&id)
	return id, err
}

func idPlaceholders(ids []int) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(ids)), ","), args
}
