// Package criteria maps what the user refers to ("meu último gasto", "todos os
// investimentos", "o que gastei ontem") onto store calls that cannot delete or
// edit more than intended.
package criteria

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financebot/internal/core"
	"financebot/internal/dates"
	"financebot/internal/ledger"
)

var (
	// ErrAmbiguousLastExpense means the newest outflow is an investment, so "my last
	// expense" has no safe answer. Older expenses are deliberately not searched.
	ErrAmbiguousLastExpense = errors.New("last outflow is an investment")
	ErrNoMatch              = errors.New("no matching transaction")
)

type Resolver struct {
	store ledger.Store
}

func NewResolver(store ledger.Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveLast returns the id of the newest transaction of the selected class.
func (r *Resolver) ResolveLast(ctx context.Context, sel Selector) (int64, error) {
	kind, category := sel.storeCriteria()
	id, ok, err := r.store.LastID(ctx, kind, category)
	if err != nil {
		return 0, fmt.Errorf("resolve last %s: %w", sel, err)
	}
	if !ok {
		return 0, ErrNoMatch
	}
	if !sel.needsPostFilter() {
		return id, nil
	}

	tx, err := r.store.Get(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		return 0, ErrNoMatch
	}
	if err != nil {
		return 0, fmt.Errorf("resolve last %s: %w", sel, err)
	}
	if !sel.Matches(tx) {
		return 0, ErrAmbiguousLastExpense
	}
	return id, nil
}

type ListRequest struct {
	Selector Selector
	Period   dates.Period
	Category string
	Limit    int
}

// List queries the store and narrows the result for selectors the store cannot
// express. Limit is applied after narrowing.
func (r *Resolver) List(ctx context.Context, req ListRequest) ([]core.Transaction, error) {
	f, err := r.filterFor(req.Selector, req.Category, req.Period)
	if errors.Is(err, errSelectorCategoryConflict) {
		return nil, nil
	}
	if !req.Selector.needsPostFilter() {
		f.Limit = req.Limit
	}
	txs, err := r.store.Query(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if req.Selector.needsPostFilter() {
		txs = keep(txs, req.Selector.Matches)
		if req.Limit > 0 && len(txs) > req.Limit {
			txs = txs[:req.Limit]
		}
	}
	return txs, nil
}

var errSelectorCategoryConflict = errors.New("selector and category disagree")

func (r *Resolver) filterFor(sel Selector, category string, p dates.Period) (ledger.Filter, error) {
	kind, selCategory := sel.storeCriteria()
	category = core.NormalizeCategory(category)
	if selCategory != "" {
		if category != "" && category != selCategory {
			return ledger.Filter{}, errSelectorCategoryConflict
		}
		category = selCategory
	}
	return ledger.Filter{Start: p.Start, End: p.End, Kind: kind, Category: category}, nil
}

func keep(txs []core.Transaction, pred func(core.Transaction) bool) []core.Transaction {
	out := txs[:0]
	for _, tx := range txs {
		if pred(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func logFailure(ctx context.Context, op string, err error) {
	slog.ErrorContext(ctx, "Store operation failed", "operation", op, "error", err)
}
