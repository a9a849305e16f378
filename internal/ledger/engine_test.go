package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/famledger/famledger/internal/database/repository"
)

func newTestEngine(t *testing.T) (*Engine, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	path := filepath.Join(t.TempDir(), "budget.sqlite")
	eng, err := Open(ctx, Options{Path: path, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng, ctx
}

// seedAccount creates one family member and one account owned by them.
func seedAccount(t *testing.T, ctx context.Context, eng *Engine) (memberID, accountID int) {
	t.Helper()
	memberID, err := eng.AddFamilyMember(ctx, "Alex", date(1980, 5, 1), decimal.NewFromInt(42000), 1, 67)
	require.NoError(t, err)
	accountID, err = eng.AddAccount(ctx, "Everyday", []int{memberID}, 1, 1)
	require.NoError(t, err)
	return memberID, accountID
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestCurrencyLookups(t *testing.T) {
	t.Parallel()
	eng, _ := newTestEngine(t)

	id, ok := eng.CurrencyID("gbp")
	require.True(t, ok)
	require.Equal(t, 1, id)

	_, ok = eng.CurrencyID("XXX")
	require.False(t, ok)

	id, ok = eng.MovementTypeID("expense")
	require.True(t, ok)
	require.Equal(t, 2, id)
}

func TestTransactionsFilter(t *testing.T) {
	t.Parallel()
	eng, ctx := newTestEngine(t)
	_, accountID := seedAccount(t, ctx, eng)

	_, err := eng.AddTransactions(ctx, TransactionBatch{
		Account:        accountID,
		OperationDates: []time.Time{date(2024, 3, 1), date(2024, 3, 2)},
		Currencies:     []int{1},
		Amounts:        []decimal.Decimal{decimal.NewFromInt(-10), decimal.NewFromInt(250)},
	}, false)
	require.NoError(t, err)

	eng.SetTransactionsFilter([]repository.ColumnFilter{
		{Column: repository.ColAmount, Op: repository.OpEq, Value: "250"},
	})
	rows, err := eng.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Amount.Equal(decimal.NewFromInt(250)))

	eng.SetTransactionsFilter(nil)
	rows, err = eng.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestLastTransactionDate(t *testing.T) {
	t.Parallel()
	eng, ctx := newTestEngine(t)

	last, err := eng.LastTransactionDate(ctx)
	require.NoError(t, err)
	require.True(t, last.IsZero())

	_, accountID := seedAccount(t, ctx, eng)
	_, err = eng.AddTransactions(ctx, TransactionBatch{
		Account:        accountID,
		OperationDates: []time.Time{date(2024, 1, 5), date(2024, 6, 30)},
		Currencies:     []int{1},
		Amounts:        []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(2)},
	}, false)
	require.NoError(t, err)

	last, err = eng.LastTransactionDate(ctx)
	require.NoError(t, err)
	require.Equal(t, date(2024, 6, 30), last)
}

type recordingNotifier struct {
	tables         []string
	dirty          []bool
	baseCurrencies []int
}

func (n *recordingNotifier) TableChanged(table string) { n.tables = append(n.tables, table) }
func (n *recordingNotifier) DirtyChanged(dirty bool)   { n.dirty = append(n.dirty, dirty) }
func (n *recordingNotifier) BaseCurrencyChanged(currency int) {
	n.baseCurrencies = append(n.baseCurrencies, currency)
}

func TestDirtyNotifications(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n := &recordingNotifier{}
	path := filepath.Join(t.TempDir(), "budget.sqlite")
	eng, err := Open(ctx, Options{Path: path, Logger: zaptest.NewLogger(t), Notifier: n})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	require.False(t, eng.IsDirty())
	_, err = eng.AddFamilyMember(ctx, "Alex", date(1980, 5, 1), decimal.Zero, 1, 67)
	require.NoError(t, err)
	require.True(t, eng.IsDirty())
	require.Contains(t, n.tables, TableFamily)
	require.Equal(t, []bool{true}, n.dirty)

	require.NoError(t, eng.SaveBudget(filepath.Join(t.TempDir(), "out.fam")))
	require.False(t, eng.IsDirty())
	require.Equal(t, []bool{true, false}, n.dirty)
}

// A base-currency switch is announced even when no row needed a rate
// correction.
func TestBaseCurrencyNotification(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n := &recordingNotifier{}
	path := filepath.Join(t.TempDir(), "budget.sqlite")
	eng, err := Open(ctx, Options{Path: path, Logger: zaptest.NewLogger(t), Notifier: n})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	eur, ok := eng.CurrencyID("EUR")
	require.True(t, ok)
	require.NoError(t, eng.SetBaseCurrency(ctx, eur))
	require.Equal(t, []int{eur}, n.baseCurrencies)

	// setting the same currency again is a no-op
	require.NoError(t, eng.SetBaseCurrency(ctx, eur))
	require.Equal(t, []int{eur}, n.baseCurrencies)
}
