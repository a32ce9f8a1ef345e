package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"financebot/internal/core"
	"financebot/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping is used by the health endpoint.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Insert(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	tx = tx.Normalized()

	id, err := r.queries.InsertTransaction(ctx, InsertTransactionParams{
		Type:        string(tx.Kind),
		Amount:      tx.Amount.InexactFloat64(),
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.String(),
	})
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"type", tx.Kind,
		"amount", tx.Amount.StringFixed(2),
		"category", tx.Category,
		"date", tx.Date.String())

	return id, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return fromRow(row)
}

func (r *SQLiteRepository) Query(ctx context.Context, f ledger.Filter) ([]core.Transaction, error) {
	rows, err := r.queries.SelectTransactions(ctx, filterClauses(f), f.Limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Transaction deleted", "id", id)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) LastID(ctx context.Context, kind core.Kind, category string) (int64, bool, error) {
	id, err := r.queries.LastTransactionID(ctx, filterClauses(ledger.Filter{Kind: kind, Category: category}))
	if err != nil {
		return 0, false, fmt.Errorf("get last transaction id: %w", err)
	}
	return id.Int64, id.Valid, nil
}

func (r *SQLiteRepository) DeleteByCriteria(ctx context.Context, c ledger.DeleteCriteria) (int64, error) {
	if c.IsEmpty() {
		slog.WarnContext(ctx, "Refusing bulk delete without criteria")
		return 0, nil
	}

	var (
		n   int64
		err error
	)
	if c.All {
		n, err = r.queries.DeleteAllTransactions(ctx)
	} else {
		n, err = r.queries.DeleteTransactions(ctx, filterClauses(c.Filter()))
	}
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}

	slog.InfoContext(ctx, "Transactions deleted by criteria",
		"count", n,
		"all", c.All,
		"type", c.Kind,
		"category", c.Category)
	return n, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, p ledger.Patch) (bool, error) {
	clean, skipped := p.Sanitize()
	if len(skipped) > 0 {
		slog.WarnContext(ctx, "Skipping invalid update fields", "id", id, "fields", skipped)
	}
	if clean.IsEmpty() {
		return false, nil
	}

	var set clauses
	if clean.Kind != nil {
		set.add("type = ?", *clean.Kind)
	}
	if clean.Amount != nil {
		set.add("amount = ?", clean.Amount.InexactFloat64())
	}
	if clean.Category != nil {
		set.add("category = ?", *clean.Category)
	}
	if clean.Description != nil {
		set.add("description = ?", *clean.Description)
	}
	if clean.Date != nil {
		set.add("date = ?", *clean.Date)
	}

	n, err := r.queries.UpdateTransaction(ctx, id, set)
	if err != nil {
		return false, fmt.Errorf("update transaction %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func filterClauses(f ledger.Filter) clauses {
	var w clauses
	if !f.Start.IsEmpty() {
		w.add("date >= ?", f.Start.String())
	}
	if !f.End.IsEmpty() {
		w.add("date <= ?", f.End.String())
	}
	if c := core.NormalizeCategory(f.Category); c != "" {
		w.add("LOWER(category) = ?", c)
	}
	if f.Kind != "" {
		w.add("type = ?", string(f.Kind))
	}
	return w
}

func fromRow(row transactionRow) (core.Transaction, error) {
	d, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q for id %d: %w", row.Date, row.ID, err)
	}
	return core.Transaction{
		ID:          row.ID,
		Kind:        core.Kind(row.Type),
		Amount:      decimal.NewFromFloat(row.Amount).Round(2),
		Category:    row.Category,
		Description: row.Description,
		Date:        d,
	}, nil
}
