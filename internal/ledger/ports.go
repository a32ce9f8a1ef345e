// Package ledger defines the transaction store contract shared by the SQLite and
// in-memory backends.
package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"financebot/internal/core"
)

var ErrNotFound = errors.New("transaction not found")

type (
	// Store persists transactions. Implementations must be safe for concurrent use.
	Store interface {
		Insert(ctx context.Context, tx core.Transaction) (int64, error)
		Get(ctx context.Context, id int64) (core.Transaction, error)
		// Query returns matches ordered by date desc, id desc.
		Query(ctx context.Context, f Filter) ([]core.Transaction, error)
		DeleteByID(ctx context.Context, id int64) (bool, error)
		// LastID returns the highest id matching kind and category; empty values match anything.
		LastID(ctx context.Context, kind core.Kind, category string) (int64, bool, error)
		// DeleteByCriteria removes nothing and returns 0 when the criteria are empty.
		DeleteByCriteria(ctx context.Context, c DeleteCriteria) (int64, error)
		Update(ctx context.Context, id int64, p Patch) (bool, error)
		Count(ctx context.Context) (int64, error)
	}

	// Filter fields are ANDed; zero values are ignored. Start and End are inclusive.
	Filter struct {
		Start    core.Date
		End      core.Date
		Category string
		Kind     core.Kind
		Limit    int
	}

	// DeleteCriteria selects rows for bulk deletion. Date wins over Start/End.
	DeleteCriteria struct {
		Kind     core.Kind
		Category string
		Date     core.Date
		Start    core.Date
		End      core.Date
		All      bool
	}

	// Patch carries optional field updates as received from the caller.
	Patch struct {
		Kind        *string
		Amount      *decimal.Decimal
		Category    *string
		Description *string
		Date        *string
	}
)

// Matches reports whether tx passes every set filter.
func (f Filter) Matches(tx core.Transaction) bool {
	if !f.Start.IsEmpty() && tx.Date.Before(f.Start) {
		return false
	}
	if !f.End.IsEmpty() && tx.Date.After(f.End) {
		return false
	}
	if c := core.NormalizeCategory(f.Category); c != "" && core.NormalizeCategory(tx.Category) != c {
		return false
	}
	if f.Kind != "" && tx.Kind != f.Kind {
		return false
	}
	return true
}

// IsEmpty is true when no criterion would restrict a delete.
func (c DeleteCriteria) IsEmpty() bool {
	return !c.All && c.Kind == "" && strings.TrimSpace(c.Category) == "" &&
		c.Date.IsEmpty() && c.Start.IsEmpty() && c.End.IsEmpty()
}

// Filter converts the criteria into the equivalent query filter.
func (c DeleteCriteria) Filter() Filter {
	f := Filter{Kind: c.Kind, Category: c.Category, Start: c.Start, End: c.End}
	if !c.Date.IsEmpty() {
		f.Start, f.End = c.Date, c.Date
	}
	return f
}

// Sanitize keeps the valid fields in canonical form and lists the names of the
// ones it dropped.
func (p Patch) Sanitize() (Patch, []string) {
	var out Patch
	var skipped []string

	if p.Kind != nil {
		if k, err := core.ParseKind(*p.Kind); err == nil {
			s := string(k)
			out.Kind = &s
		} else {
			skipped = append(skipped, "type")
		}
	}
	if p.Amount != nil {
		if p.Amount.IsPositive() {
			a := p.Amount.Round(2)
			out.Amount = &a
		} else {
			skipped = append(skipped, "amount")
		}
	}
	if p.Category != nil {
		if c := core.NormalizeCategory(*p.Category); c != "" {
			out.Category = &c
		} else {
			skipped = append(skipped, "category")
		}
	}
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		out.Description = &d
	}
	if p.Date != nil {
		if d, err := core.ParseDate(*p.Date); err == nil {
			s := d.String()
			out.Date = &s
		} else {
			skipped = append(skipped, "date")
		}
	}
	return out, skipped
}

func (p Patch) IsEmpty() bool {
	return p.Kind == nil && p.Amount == nil && p.Category == nil && p.Description == nil && p.Date == nil
}

// Apply returns tx with the patch fields set. The patch must be sanitized.
func (p Patch) Apply(tx core.Transaction) core.Transaction {
	if p.Kind != nil {
		tx.Kind = core.Kind(*p.Kind)
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Date != nil {
		if d, err := core.ParseDate(*p.Date); err == nil {
			tx.Date = d
		}
	}
	return tx
}
