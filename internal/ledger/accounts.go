package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/famledger/famledger/internal/database"
	"github.com/famledger/famledger/internal/database/repository"
)

// AddAccount inserts a new account and returns its id. Every owner id
// must name an existing family member.
func (e *Engine) AddAccount(ctx context.Context, name string, owners []int, currency, accountType int) (int, error) {
	if name == "" {
		return 0, validationf("account name required")
	}
	if len(owners) == 0 {
		return 0, validationf("account needs at least one owner")
	}
	for _, owner := range owners {
		ok, err := e.family.Exists(ctx, owner)
		if err != nil {
			return 0, fmt.Errorf("check owner %d: %w", owner, err)
		}
		if !ok {
			return 0, validationf("owner %d is not a family member", owner)
		}
	}

	var id int
	err := database.WithTx(e.db, func(tx *sql.Tx) error {
		max, err := maxID(ctx, tx, TableAccounts)
		if err != nil {
			return err
		}
		id = max + 1
		_, err = tx.ExecContext(ctx, `
		INSERT INTO Accounts (Id, Name, Owner, Currency, AccountType, AccountStatus)
		VALUES (?, ?, ?, ?, ?, 1)`,
			id, name, repository.EncodeOwners(owners), currency, accountType)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("add account: %w", err)
	}
	e.log.Info("account added", zap.Int("id", id), zap.String("name", name))
	e.notifier.TableChanged(TableAccounts)
	e.setDirty(true)
	return id, nil
}

// RemoveAccounts deletes the accounts and every transaction booked
// against them, as one unit of work.
func (e *Engine) RemoveAccounts(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return validationf("no accounts selected")
	}
	err := database.WithTx(e.db, func(tx *sql.Tx) error {
		return removeAccountsTx(ctx, tx, ids)
	})
	if err != nil {
		return fmt.Errorf("remove accounts: %w", err)
	}
	e.log.Info("accounts removed", zap.Ints("ids", ids))
	e.notifier.TableChanged(TableAccounts)
	e.notifier.TableChanged(TableTransactions)
	e.setDirty(true)
	return nil
}

// removeAccountsTx is the nested form of RemoveAccounts: it runs inside
// the caller's transaction so owner removal can fold the cascade into
// its own unit of work.
func removeAccountsTx(ctx context.Context, tx *sql.Tx, ids []int) error {
	placeholders, args := idPlaceholders(ids)
	if _, err := tx.ExecContext(ctx, "DELETE FROM Transactions WHERE Account IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("delete account transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM Accounts WHERE Id IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("delete accounts: %w", err)
	}
	return nil
}
