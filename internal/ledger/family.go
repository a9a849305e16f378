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

// AddFamilyMember inserts a new family member and returns their id.
func (e *Engine) AddFamilyMember(ctx context.Context, name string, birthday time.Time, income decimal.Decimal, incomeCurrency, retirementAge int) (int, error) {
	if name == "" {
		return 0, validationf("member name required")
	}
	var id int
	err := database.WithTx(e.db, func(tx *sql.Tx) error {
		max, err := maxID(ctx, tx, TableFamily)
		if err != nil {
			return err
		}
		id = max + 1
		_, err = tx.ExecContext(ctx, `
		INSERT INTO Family (Id, Name, Birthday, TaxableIncome, IncomeCurrency, RetirementAge)
		VALUES (?, ?, ?, ?, ?, ?)`,
			id, name, birthday.Format(repository.DateLayout), income.String(), incomeCurrency, retirementAge)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("add family member: %w", err)
	}
	e.log.Info("family member added", zap.Int("id", id), zap.String("name", name))
	e.notifier.TableChanged(TableFamily)
	e.setDirty(true)
	return id, nil
}

// RemoveFamilyMembers deletes the members and fixes up every account
// they own, in one unit of work: accounts left with no owner are
// deleted together with their transactions, accounts with remaining
// owners have the removed ids stripped from their owner set. No account
// ever survives pointing at a deleted member.
func (e *Engine) RemoveFamilyMembers(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return validationf("no family members selected")
	}
	removing := make(map[int]bool, len(ids))
	for _, id := range ids {
		removing[id] = true
	}

	var amended, orphaned []int
	err := database.WithTx(e.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT Id, Owner FROM Accounts`)
		if err != nil {
			return fmt.Errorf("scan accounts: %w", err)
		}
		newOwners := make(map[int]string)
		for rows.Next() {
			var accountID int
			var rawOwner string
			if err := rows.Scan(&accountID, &rawOwner); err != nil {
				rows.Close()
				return err
			}
			owners := repository.DecodeOwners(rawOwner)
			kept := owners[:0:0]
			for _, o := range owners {
				if !removing[o] {
					kept = append(kept, o)
				}
			}
			switch {
			case len(kept) == len(owners):
				// untouched
			case len(kept) == 0:
				orphaned = append(orphaned, accountID)
			default:
				amended = append(amended, accountID)
				newOwners[accountID] = repository.EncodeOwners(kept)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, accountID := range amended {
			if _, err := tx.ExecContext(ctx, `UPDATE Accounts SET Owner = ? WHERE Id = ?`, newOwners[accountID], accountID); err != nil {
				return fmt.Errorf("amend account %d owners: %w", accountID, err)
			}
		}
		if len(orphaned) > 0 {
			if err := removeAccountsTx(ctx, tx, orphaned); err != nil {
				return err
			}
		}
		placeholders, args := idPlaceholders(ids)
		if _, err := tx.ExecContext(ctx, "DELETE FROM Family WHERE Id IN ("+placeholders+")", args...); err != nil {
			return fmt.Errorf("delete family members: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove family members: %w", err)
	}

	e.log.Info("family members removed",
		zap.Ints("ids", ids),
		zap.Ints("accountsAmended", amended),
		zap.Ints("accountsDeleted", orphaned))
	e.notifier.TableChanged(TableFamily)
	if len(amended) > 0 || len(orphaned) > 0 {
		e.notifier.TableChanged(TableAccounts)
	}
	if len(orphaned) > 0 {
		e.notifier.TableChanged(TableTransactions)
	}
	e.setDirty(true)
	return nil
}
