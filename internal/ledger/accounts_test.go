package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAddAccountValidation(t *testing.T) {
	t.Parallel()
	eng, ctx := newTestEngine(t)

	_, err := eng.AddAccount(ctx, "", []int{1}, 1, 1)
	require.ErrorIs(t, err, ErrValidation)

	_, err = eng.AddAccount(ctx, "Everyday", nil, 1, 1)
	require.ErrorIs(t, err, ErrValidation)

	// owner must be an existing family member
	_, err = eng.AddAccount(ctx, "Everyday", []int{99}, 1, 1)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAddAccountAssignsSequentialIDs(t *testing.T) {
	t.Parallel()
	eng, ctx := newTestEngine(t)
	memberID, err := eng.AddFamilyMember(ctx, "Alex", date(1980, 5, 1), decimal.Zero, 1, 67)
	require.NoError(t, err)

	first, err := eng.AddAccount(ctx, "Everyday", []int{memberID}, 1, 1)
	require.NoError(t, err)
	second, err := eng.AddAccount(ctx, "Savings", []int{memberID}, 1, 2)
	require.NoError(t, err)
	require.Equal(t, first+1, second)

	accounts, err := eng.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.Equal(t, []int{memberID}, accounts[0].Owners)
	require.True(t, accounts[0].Open)
}

// A failure inside the cascade must leave both the account and its
// transactions in place.
func TestRemoveAccountsRollsBackAtomically(t *testing.T) {
	t.Parallel()
	eng, ctx := newTestEngine(t)
	_, accountID := seedAccount(t, ctx, eng)

	_, err := eng.AddTransactions(ctx, TransactionBatch{
		Account:        accountID,
		OperationDates: []time.Time{date(2024, 3, 1)},
		Currencies:     []int{1},
		Amounts:        []decimal.Decimal{decimal.NewFromInt(-20)},
	}, false)
	require.NoError(t, err)

	_, err = eng.db.ExecContext(ctx, `
	CREATE TRIGGER block_account_delete BEFORE DELETE ON Accounts
	WHEN OLD.Id = 1
	BEGIN SELECT RAISE(ABORT, 'blocked by test'); END`)
	require.NoError(t, err)

	require.Error(t, eng.RemoveAccounts(ctx, []int{accountID}))

	// the transaction delete runs first and must roll back with it
	rows, err := eng.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	accounts, err := eng.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
}

func TestRemoveAccountsCascadesTransactions(t *testing.T) {
	t.Parallel()
	eng, ctx := newTestEngine(t)
	memberID, accountID := seedAccount(t, ctx, eng)

	keepID, err := eng.AddAccount(ctx, "Savings", []int{memberID}, 1, 2)
	require.NoError(t, err)

	for _, account := range []int{accountID, keepID} {
		_, err = eng.AddTransactions(ctx, TransactionBatch{
			Account:        account,
			OperationDates: []time.Time{date(2024, 3, 1)},
			Currencies:     []int{1},
			Amounts:        []decimal.Decimal{decimal.NewFromInt(-20)},
		}, false)
		require.NoError(t, err)
	}

	require.NoError(t, eng.RemoveAccounts(ctx, []int{accountID}))

	accounts, err := eng.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, keepID, accounts[0].ID)

	rows, err := eng.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, keepID, rows[0].Account)

	require.ErrorIs(t, eng.RemoveAccounts(ctx, nil), ErrValidation)
}
