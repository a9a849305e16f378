package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionColumn names a Transactions column for structured filters,
// in table order.
type TransactionColumn int

const (
	ColID TransactionColumn = iota
	ColAccount
	ColOperationDate
	ColCurrency
	ColAmount
	ColPaymentType
	ColDescription
	ColCategory
	ColSubcategory
	ColMovementType
	ColDestinationAccount
	ColExchangeRate
)

var transactionFields = [...]string{
	"Id", "Account", "OperationDate", "Currency", "Amount", "PaymentType",
	"Description", "Category", "Subcategory", "MovementType",
	"DestinationAccount", "ExchangeRate",
}

// Field returns the column name, empty for out-of-range values.
func (c TransactionColumn) Field() string {
	if c < 0 || int(c) >= len(transactionFields) {
		return ""
	}
	return transactionFields[c]
}

// FilterOp is a comparison operator for a ColumnFilter.
type FilterOp string

const (
	OpEq   FilterOp = "="
	OpNe   FilterOp = "<>"
	OpLt   FilterOp = "<"
	OpLe   FilterOp = "<="
	OpGt   FilterOp = ">"
	OpGe   FilterOp = ">="
	OpLike FilterOp = "LIKE"
)

// ColumnFilter is one predicate of a transaction filter. Filters are
// combined with AND; values are always bound, never spliced.
type ColumnFilter struct {
	Column TransactionColumn
	Op     FilterOp
	Value  any
}

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

const transactionColumns = `Id, Account, OperationDate, Currency, Amount, PaymentType, Description, Category, Subcategory, MovementType, DestinationAccount, ExchangeRate`

func (r *TransactionRepo) List(ctx context.Context, filters []ColumnFilter) ([]Transaction, error) {
	var where []string
	var args []any
	for _, f := range filters {
		field := f.Column.Field()
		if field == "" {
			return nil, fmt.Errorf("transactions: unknown filter column %d", f.Column)
		}
		where = append(where, fmt.Sprintf("%s %s ?", field, f.Op))
		args = append(args, f.Value)
	}

	query := "SELECT " + transactionColumns + " FROM Transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY OperationDate DESC, Id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) Get(ctx context.Context, id int) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM Transactions WHERE Id = ?", id)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// IDs returns every transaction id, ascending.
func (r *TransactionRepo) IDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT Id FROM Transactions ORDER BY Id`)
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

// LastOperationDate returns the most recent operation date, or the zero
// time when the ledger has no transactions.
func (r *TransactionRepo) LastOperationDate(ctx context.Context) (time.Time, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT OperationDate FROM Transactions ORDER BY OperationDate DESC LIMIT 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(DateLayout, raw)
}

// scanner handles both Row and Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var opDate, amount string
	var payType, desc sql.NullString
	var categ, subcateg, movType, dest sql.NullInt64
	var rate sql.NullFloat64
	if err := row.Scan(&t.ID, &t.Account, &opDate, &t.Currency, &amount,
		&payType, &desc, &categ, &subcateg, &movType, &dest, &rate); err != nil {
		return Transaction{}, err
	}
	var err error
	if t.OperationDate, err = time.Parse(DateLayout, opDate); err != nil {
		return Transaction{}, err
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return Transaction{}, err
	}
	if payType.Valid {
		t.PaymentType = &payType.String
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	t.Category = nullableInt(categ)
	t.Subcategory = nullableInt(subcateg)
	t.MovementType = nullableInt(movType)
	t.DestinationAccount = nullableInt(dest)
	if rate.Valid {
		t.ExchangeRate = &rate.Float64
	}
	return t, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
