package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type transactionRow struct {
	ID          int64
	Type        string
	Amount      float64
	Category    string
	Description string
	Date        string
}

const insertTransaction = `
INSERT INTO transactions (type, amount, category, description, date)
VALUES (?, ?, ?, ?, ?)
`

type InsertTransactionParams struct {
	Type        string
	Amount      float64
	Category    string
	Description string
	Date        string
}

func (q *Queries) InsertTransaction(ctx context.Context, arg InsertTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertTransaction, arg.Type, arg.Amount, arg.Category, arg.Description, arg.Date)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const selectColumns = `SELECT id, type, amount, category, description, date FROM transactions`

const getTransaction = selectColumns + ` WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (transactionRow, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var i transactionRow
	err := row.Scan(&i.ID, &i.Type, &i.Amount, &i.Category, &i.Description, &i.Date)
	return i, err
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteAllTransactions = `DELETE FROM transactions`

func (q *Queries) DeleteAllTransactions(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteAllTransactions)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countTransactions = `SELECT COUNT(*) FROM transactions`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTransactions).Scan(&n)
	return n, err
}

// clauses accumulates SQL fragments and their arguments, joined as a WHERE or SET list.
type clauses struct {
	conds []string
	args  []interface{}
}

func (w *clauses) add(cond string, arg interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, arg)
}

func (w *clauses) where() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func (q *Queries) SelectTransactions(ctx context.Context, w clauses, limit int) ([]transactionRow, error) {
	query := selectColumns + w.where() + ` ORDER BY date DESC, id DESC`
	args := w.args
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []transactionRow
	for rows.Next() {
		var i transactionRow
		if err := rows.Scan(&i.ID, &i.Type, &i.Amount, &i.Category, &i.Description, &i.Date); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// LastTransactionID returns the head of the listing order (date desc, id desc).
func (q *Queries) LastTransactionID(ctx context.Context, w clauses) (sql.NullInt64, error) {
	var id sql.NullInt64
	err := q.db.QueryRowContext(ctx, `SELECT id FROM transactions`+w.where()+` ORDER BY date DESC, id DESC LIMIT 1`, w.args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.NullInt64{}, nil
	}
	return id, err
}

func (q *Queries) DeleteTransactions(ctx context.Context, w clauses) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions`+w.where(), w.args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateTransaction sets the given columns in one statement.
func (q *Queries) UpdateTransaction(ctx context.Context, id int64, set clauses) (int64, error) {
	query := `UPDATE transactions SET ` + strings.Join(set.conds, ", ") + ` WHERE id = ?`
	res, err := q.db.ExecContext(ctx, query, append(set.args, id)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
