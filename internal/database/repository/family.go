package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// FamilyRepo handles family members.
type FamilyRepo struct {
	db *sql.DB
}

func NewFamilyRepo(db *sql.DB) *FamilyRepo {
	return &FamilyRepo{db: db}
}

func (r *FamilyRepo) List(ctx context.Context) ([]FamilyMember, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT Id, Name, Birthday, TaxableIncome, IncomeCurrency, RetirementAge FROM Family ORDER BY Birthday`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FamilyMember
	for rows.Next() {
		var m FamilyMember
		var birthday, income string
		if err := rows.Scan(&m.ID, &m.Name, &birthday, &income, &m.IncomeCurrency, &m.RetirementAge); err != nil {
			return nil, err
		}
		if m.Birthday, err = time.Parse(DateLayout, birthday); err != nil {
			return nil, err
		}
		if m.TaxableIncome, err = decimal.NewFromString(income); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *FamilyRepo) Exists(ctx context.Context, id int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM Family WHERE Id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
