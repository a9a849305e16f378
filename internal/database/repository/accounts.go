package repository

import (
	"context"
	"database/sql"
)

// AccountRepo handles accounts.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT Id, Name, Owner, Currency, AccountType, AccountStatus FROM Accounts ORDER BY Name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccountRepo) Get(ctx context.Context, id int) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT Id, Name, Owner, Currency, AccountType, AccountStatus FROM Accounts WHERE Id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func scanAccount(row scanner) (Account, error) {
	var a Account
	var owner string
	var status int
	if err := row.Scan(&a.ID, &a.Name, &owner, &a.Currency, &a.Type, &status); err != nil {
		return Account{}, err
	}
	a.Owners = DecodeOwners(owner)
	a.Open = status == 1
	return a, nil
}
