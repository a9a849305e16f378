package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/famledger/famledger/internal/database/repository"
)

func stubRuleContext() ruleContext {
	return ruleContext{
		baseCurrency: 1,
		subcategoryValid: func(category, subcategory int) bool {
			return category == 2 && (subcategory == 10 || subcategory == 11)
		},
		soleSubcategory: func(category int) (int, bool) {
			if category == CategoryInternalTransfer {
				return 1, true
			}
			return 0, false
		},
		exchangeRate: func(from, to int) (float64, bool) {
			if from == 3 && to == 1 {
				return 0.79, true
			}
			return 0, false
		},
	}
}

func TestCategoryCorrectionsTransfers(t *testing.T) {
	t.Parallel()
	rc := stubRuleContext()

	// negative debt repayment
	c := categoryCorrections(repository.Transaction{
		Category: intPtr(CategoryDebt),
		Amount:   decimal.NewFromInt(-50),
	}, rc)
	require.True(t, c.MovementType.touched)
	require.Equal(t, MovementRepayment, *c.MovementType.value)
	require.False(t, c.Destination.touched)

	// positive amounts are withdrawals regardless of transfer kind
	c = categoryCorrections(repository.Transaction{
		Category: intPtr(CategoryInvestment),
		Amount:   decimal.NewFromInt(120),
	}, rc)
	require.Equal(t, MovementWithdrawal, *c.MovementType.value)

	c = categoryCorrections(repository.Transaction{
		Category: intPtr(CategoryInvestment),
		Amount:   decimal.NewFromInt(-120),
	}, rc)
	require.Equal(t, MovementDeposit, *c.MovementType.value)
}

func TestCategoryCorrectionsClearsDestination(t *testing.T) {
	t.Parallel()
	rc := stubRuleContext()

	c := categoryCorrections(repository.Transaction{
		Category:           intPtr(2),
		DestinationAccount: intPtr(4),
		Amount:             decimal.NewFromInt(-5),
	}, rc)
	require.True(t, c.Destination.touched)
	require.Nil(t, c.Destination.value)
	require.False(t, c.MovementType.touched)

	// null category clears destination and subcategory both
	c = categoryCorrections(repository.Transaction{
		DestinationAccount: intPtr(4),
		Subcategory:        intPtr(10),
		Amount:             decimal.NewFromInt(-5),
	}, rc)
	require.True(t, c.Destination.touched)
	require.Nil(t, c.Destination.value)
	require.True(t, c.Subcategory.touched)
	require.Nil(t, c.Subcategory.value)
}

func TestCategoryCorrectionsSubcategory(t *testing.T) {
	t.Parallel()
	rc := stubRuleContext()

	// a category with exactly one subcategory forces it
	c := categoryCorrections(repository.Transaction{
		Category: intPtr(CategoryInternalTransfer),
		Amount:   decimal.NewFromInt(-5),
	}, rc)
	require.True(t, c.Subcategory.touched)
	require.Equal(t, 1, *c.Subcategory.value)

	// already forced: nothing to do
	c = categoryCorrections(repository.Transaction{
		Category:    intPtr(CategoryInternalTransfer),
		Subcategory: intPtr(1),
		Amount:      decimal.NewFromInt(-5),
	}, rc)
	require.False(t, c.Subcategory.touched)

	// subcategory from another category is cleared
	c = categoryCorrections(repository.Transaction{
		Category:    intPtr(2),
		Subcategory: intPtr(99),
		Amount:      decimal.NewFromInt(-5),
	}, rc)
	require.True(t, c.Subcategory.touched)
	require.Nil(t, c.Subcategory.value)

	// a valid one is kept
	c = categoryCorrections(repository.Transaction{
		Category:    intPtr(2),
		Subcategory: intPtr(10),
		Amount:      decimal.NewFromInt(-5),
	}, rc)
	require.False(t, c.Subcategory.touched)
}

func TestCurrencyCorrections(t *testing.T) {
	t.Parallel()
	rc := stubRuleContext()

	// base currency carries no rate
	c := currencyCorrections(repository.Transaction{Currency: 1}, rc)
	require.False(t, c.ExchangeRate.touched)

	stale := 0.92
	c = currencyCorrections(repository.Transaction{Currency: 1, ExchangeRate: &stale}, rc)
	require.True(t, c.ExchangeRate.touched)
	require.Nil(t, c.ExchangeRate.value)

	// foreign currency gets the stored rate
	c = currencyCorrections(repository.Transaction{Currency: 3}, rc)
	require.True(t, c.ExchangeRate.touched)
	require.Equal(t, 0.79, *c.ExchangeRate.value)

	// no rate on file defaults to 1
	c = currencyCorrections(repository.Transaction{Currency: 4}, rc)
	require.True(t, c.ExchangeRate.touched)
	require.Equal(t, 1.0, *c.ExchangeRate.value)
}

func seedTransaction(t *testing.T, ctx context.Context, eng *Engine, accountID int) int {
	t.Helper()
	res, err := eng.AddTransactions(ctx, TransactionBatch{
		Account:        accountID,
		OperationDates: []time.Time{date(2024, 3, 1)},
		Currencies:     []int{1},
		Amounts:        []decimal.Decimal{decimal.NewFromInt(-50)},
	}, false)
	require.NoError(t, err)
	require.Equal(t, 1, res.Inserted)
	ids, err := eng.transactions.IDs(ctx)
	require.NoError(t, err)
	return ids[len(ids)-1]
}

func TestSetTransactionCategoryDerivations(t *testing.T) {
	t.Parallel()
	eng, ctx := newTestEngine(t)
	_, accountID := seedAccount(t, ctx, eng)
	id := seedTransaction(t, ctx, eng, accountID)

	// debt with a negative amount classifies as a repayment
	require.NoError(t, eng.SetTransactionCategory(ctx, id, intPtr(CategoryDebt)))
	row, err := eng.transactions.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, CategoryDebt, *row.Category)
	require.Equal(t, MovementRepayment, *row.MovementType)

	// switching to a plain expense category clears the destination set
	// while the row was a transfer
	require.NoError(t, eng.SetTransactionDestination(ctx, id, intPtr(accountID)))
	require.NoError(t, eng.SetTransactionCategory(ctx, id, intPtr(5)))
	row, err = eng.transactions.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, row.DestinationAccount)

	// category 0 has a single subcategory, so it is forced
	require.NoError(t, eng.SetTransactionCategory(ctx, id, intPtr(CategoryInternalTransfer)))
	row, err = eng.transactions.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, row.Subcategory)
	require.Equal(t, 1, *row.Subcategory)

	// clearing the category clears the subcategory with it
	require.NoError(t, eng.SetTransactionCategory(ctx, id, nil))
	row, err = eng.transactions.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, row.Category)
	require.Nil(t, row.Subcategory)

	require.ErrorIs(t, eng.SetTransactionCategory(ctx, 999, nil), ErrValidation)
}

func TestSetTransactionCurrencyDerivations(t *testing.T) {
	t.Parallel()
	eng, ctx := newTestEngine(t)
	_, accountID := seedAccount(t, ctx, eng)
	id := seedTransaction(t, ctx, eng, accountID)

	// USD against the GBP base picks up the stored rate
	usd, ok := eng.CurrencyID("USD")
	require.True(t, ok)
	require.NoError(t, eng.SetTransactionCurrency(ctx, id, usd))
	row, err := eng.transactions.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, row.ExchangeRate)
	require.Equal(t, 0.79, *row.ExchangeRate)

	// no JPY rate on file: default to 1
	jpy, ok := eng.CurrencyID("JPY")
	require.True(t, ok)
	require.NoError(t, eng.SetTransactionCurrency(ctx, id, jpy))
	row, err = eng.transactions.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 1.0, *row.ExchangeRate)

	// back to base clears the rate
	require.NoError(t, eng.SetTransactionCurrency(ctx, id, eng.BaseCurrency()))
	row, err = eng.transactions.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, row.ExchangeRate)
}

func TestSetBaseCurrencyRecomputesRates(t *testing.T) {
	t.Parallel()
	eng, ctx := newTestEngine(t)
	_, accountID := seedAccount(t, ctx, eng)

	usd, _ := eng.CurrencyID("USD")
	_, err := eng.AddTransactions(ctx, TransactionBatch{
		Account:        accountID,
		OperationDates: []time.Time{date(2024, 3, 1), date(2024, 3, 2)},
		Currencies:     []int{1, usd},
		Amounts:        []decimal.Decimal{decimal.NewFromInt(-10), decimal.NewFromInt(-20)},
	}, false)
	require.NoError(t, err)

	require.ErrorIs(t, eng.SetBaseCurrency(ctx, 999), ErrValidation)

	eur, _ := eng.CurrencyID("EUR")
	require.NoError(t, eng.SetBaseCurrency(ctx, eur))
	require.Equal(t, eur, eng.BaseCurrency())

	rows, err := eng.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		switch row.Currency {
		case 1:
			require.NotNil(t, row.ExchangeRate)
			require.Equal(t, 1.17, *row.ExchangeRate)
		case usd:
			require.NotNil(t, row.ExchangeRate)
			require.Equal(t, 0.92, *row.ExchangeRate)
		}
	}
}
