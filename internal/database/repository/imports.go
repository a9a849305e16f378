package repository

import (
	"context"
	"database/sql"
)

// ImportRepo records statement-import audit rows.
type ImportRepo struct {
	db *sql.DB
}

func NewImportRepo(db *sql.DB) *ImportRepo {
	return &ImportRepo{db: db}
}

func (r *ImportRepo) Insert(ctx context.Context, rec ImportRecord) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO Imports (Id, Filename, RowCount) VALUES (?, ?, ?)`,
		rec.ID, rec.Filename, rec.RowCount)
	return err
}

func (r *ImportRepo) List(ctx context.Context) ([]ImportRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT Id, Filename, RowCount, ImportedAt FROM Imports ORDER BY ImportedAt DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.RowCount, &rec.ImportedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
