package repository

import (
	"context"
	"database/sql"
)

// ReferenceRepo reads the fixed reference tables: categories,
// subcategories, currencies, movement types, account types and exchange
// rates. The engine never writes any of them.
type ReferenceRepo struct {
	db *sql.DB
}

func NewReferenceRepo(db *sql.DB) *ReferenceRepo {
	return &ReferenceRepo{db: db}
}

func (r *ReferenceRepo) Categories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT Id, Name FROM Categories ORDER BY Name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) Subcategories(ctx context.Context) ([]Subcategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT Id, Category, Name FROM Subcategories ORDER BY Name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Subcategory
	for rows.Next() {
		var s Subcategory
		if err := rows.Scan(&s.ID, &s.Category, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SubcategoryBelongs reports whether subcategory belongs to category.
func (r *ReferenceRepo) SubcategoryBelongs(ctx context.Context, category, subcategory int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT Id FROM Subcategories WHERE Id = ? AND Category = ?`, subcategory, category).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// SubcategoryIDs returns the subcategory ids belonging to category.
func (r *ReferenceRepo) SubcategoryIDs(ctx context.Context, category int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT Id FROM Subcategories WHERE Category = ?`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) Currencies(ctx context.Context) ([]Currency, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT Id, Currency FROM Currencies ORDER BY Id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Currency
	for rows.Next() {
		var c Currency
		if err := rows.Scan(&c.ID, &c.Code); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) MovementTypes(ctx context.Context) ([]MovementType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT Id, Name FROM MovementTypes ORDER BY Id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MovementType
	for rows.Next() {
		var m MovementType
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) AccountTypes(ctx context.Context) ([]AccountType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT Id, Name FROM AccountTypes ORDER BY Id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountType
	for rows.Next() {
		var a AccountType
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ExchangeRate resolves the stored rate between two currency ids. Rates
// are keyed by currency code, so the lookup joins through Currencies.
func (r *ReferenceRepo) ExchangeRate(ctx context.Context, fromID, toID int) (float64, bool, error) {
	var rate float64
	err := r.db.QueryRowContext(ctx, `
	SELECT er.ExchangeRate
	FROM ExchangeRates er
	JOIN Currencies cf ON cf.Currency = er.FromCurrency
	JOIN Currencies ct ON ct.Currency = er.ToCurrency
	WHERE cf.Id = ? AND ct.Id = ?`, fromID, toID).Scan(&rate)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rate, true, nil
}
