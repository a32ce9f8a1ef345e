package criteria

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financebot/internal/core"
	"financebot/internal/dates"
	"financebot/internal/ledger"
	"financebot/internal/ledger/memory"
)

func seed(t *testing.T, s ledger.Store, kind core.Kind, amount, category, date string) int64 {
	t.Helper()
	d, err := core.ParseDate(date)
	require.NoError(t, err)
	id, err := s.Insert(context.Background(), core.Transaction{
		Kind:     kind,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     d,
	})
	require.NoError(t, err)
	return id
}

func TestParseSelector(t *testing.T) {
	tests := map[string]Selector{
		"":              Any,
		"Gastos":        Expenses,
		"despesa":       Expenses,
		"ganhos":        Gains,
		"receitas":      Gains,
		"investimentos": Investments,
		"saída":         Outflows,
		"saidas":        Outflows,
	}
	for in, want := range tests {
		got, err := ParseSelector(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSelector("transferências")
	assert.ErrorIs(t, err, ErrUnknownSelector)
}

func TestResolveLast_ExpenseSkipsNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewResolver(store)

	seed(t, store, core.Outflow, "200", "investimentos", "2024-05-18")
	mercado := seed(t, store, core.Outflow, "50", "mercado", "2024-05-18")

	id, err := r.ResolveLast(ctx, Expenses)
	require.NoError(t, err)
	assert.Equal(t, mercado, id)
}

func TestResolveLast_AmbiguousWhenNewestOutflowIsInvestment(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewResolver(store)

	seed(t, store, core.Outflow, "50", "mercado", "2024-05-18")
	inv := seed(t, store, core.Outflow, "200", "investimentos", "2024-05-18")

	_, err := r.ResolveLast(ctx, Expenses)
	assert.ErrorIs(t, err, ErrAmbiguousLastExpense)

	id, err := r.ResolveLast(ctx, Investments)
	require.NoError(t, err)
	assert.Equal(t, inv, id)

	id, err = r.ResolveLast(ctx, Outflows)
	require.NoError(t, err)
	assert.Equal(t, inv, id)

	_, err = r.ResolveLast(ctx, Gains)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolveLast_BackDatedInvestmentDoesNotShadowExpense(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewResolver(store)

	mercado := seed(t, store, core.Outflow, "50", "mercado", "2024-05-18")
	seed(t, store, core.Outflow, "200", "investimentos", "2024-05-01")

	id, err := r.ResolveLast(ctx, Expenses)
	require.NoError(t, err)
	assert.Equal(t, mercado, id)
}

func TestList_ExcludesInvestmentsFromExpenses(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewResolver(store)

	seed(t, store, core.Outflow, "200", "investimentos", "2024-05-20")
	seed(t, store, core.Outflow, "50", "mercado", "2024-05-18")
	seed(t, store, core.Outflow, "30", "farmácia", "2024-05-10")
	seed(t, store, core.Income, "1000", "salário", "2024-05-05")

	txs, err := r.List(ctx, ListRequest{Selector: Expenses, Limit: 1})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "mercado", txs[0].Category)

	txs, err = r.List(ctx, ListRequest{Selector: Expenses})
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	txs, err = r.List(ctx, ListRequest{Selector: Any, Period: dates.Period{Start: core.NewDate(2024, 5, 18), End: core.NewDate(2024, 5, 31)}})
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	txs, err = r.List(ctx, ListRequest{Selector: Investments, Category: "mercado"})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: memory.New()}
	r := NewResolver(store)
	seed(t, store.Store, core.Outflow, "50", "mercado", "2024-05-18")

	out := r.Delete(ctx, DeleteRequest{Target: Everything}, false)
	assert.Equal(t, StatusCancelled, out.Status)
	assert.Zero(t, store.calls)

	out = r.Edit(ctx, EditRequest{ID: 1, Patch: ledger.Patch{Category: ptr("x")}}, false)
	assert.Equal(t, StatusCancelled, out.Status)
	assert.Zero(t, store.calls)

	n, _ := store.Count(ctx)
	assert.EqualValues(t, 1, n)
}

func TestDelete_AllInvestmentsThenAllExpenses(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewResolver(store)

	for i := 0; i < 3; i++ {
		seed(t, store, core.Outflow, "100", "investimentos", "2024-05-18")
	}
	mercado := seed(t, store, core.Outflow, "50", "mercado", "2024-05-18")
	seed(t, store, core.Income, "1000", "salário", "2024-05-01")

	out := r.Delete(ctx, DeleteRequest{Target: AllOfType, Selector: Investments}, true)
	assert.Equal(t, StatusDone, out.Status)
	assert.EqualValues(t, 3, out.Count)

	seed(t, store, core.Outflow, "100", "investimentos", "2024-05-19")
	out = r.Delete(ctx, DeleteRequest{Target: AllOfType, Selector: Expenses}, true)
	assert.Equal(t, StatusDone, out.Status)
	assert.EqualValues(t, 1, out.Count)
	assert.Equal(t, []int64{mercado}, out.IDs)

	n, _ := store.Count(ctx)
	assert.EqualValues(t, 2, n)
}

func TestDelete_Targets(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewResolver(store)

	a := seed(t, store, core.Outflow, "50", "mercado", "2024-05-10")
	seed(t, store, core.Outflow, "30", "mercado", "2024-05-18")
	seed(t, store, core.Income, "1000", "salário", "2024-05-18")
	seed(t, store, core.Outflow, "70", "farmácia", "2024-04-02")

	out := r.Delete(ctx, DeleteRequest{Target: ByID, ID: a}, true)
	assert.Equal(t, StatusDone, out.Status)
	out = r.Delete(ctx, DeleteRequest{Target: ByID, ID: a}, true)
	assert.Equal(t, StatusNotFound, out.Status)

	out = r.Delete(ctx, DeleteRequest{Target: OnDate, Date: core.NewDate(2024, 5, 18), Selector: Gains}, true)
	assert.EqualValues(t, 1, out.Count)

	out = r.Delete(ctx, DeleteRequest{Target: InPeriod, Period: dates.Period{Status: dates.PeriodAll, Label: dates.LabelAllTime}}, true)
	assert.Equal(t, StatusFailed, out.Status)

	out = r.Delete(ctx, DeleteRequest{Target: InPeriod, Period: dates.Period{Status: dates.PeriodUnrecognized, Label: "Período 'x' não reconhecido."}}, true)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Contains(t, out.Message, "'x'")

	out = r.Delete(ctx, DeleteRequest{Target: InPeriod, Period: dates.Period{Start: core.NewDate(2024, 4, 1), End: core.NewDate(2024, 4, 30)}}, true)
	assert.EqualValues(t, 1, out.Count)

	out = r.Delete(ctx, DeleteRequest{Target: Category, Category: "MERCADO"}, true)
	assert.EqualValues(t, 1, out.Count)

	out = r.Delete(ctx, DeleteRequest{Target: AllOfType, Selector: Any}, true)
	assert.Equal(t, StatusFailed, out.Status)

	out = r.Delete(ctx, DeleteRequest{Target: Everything}, true)
	assert.Equal(t, StatusNotFound, out.Status)
}

func TestDelete_LastExpenseAmbiguous(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewResolver(store)

	seed(t, store, core.Outflow, "50", "mercado", "2024-05-18")
	seed(t, store, core.Outflow, "200", "investimentos", "2024-05-18")

	out := r.Delete(ctx, DeleteRequest{Target: Last, Selector: Expenses}, true)
	assert.Equal(t, StatusAmbiguous, out.Status)
	n, _ := store.Count(ctx)
	assert.EqualValues(t, 2, n)
}

func TestDelete_PartialFailureIsReported(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: memory.New()}
	r := NewResolver(store)

	a := seed(t, store.Store, core.Outflow, "50", "mercado", "2024-05-18")
	b := seed(t, store.Store, core.Outflow, "30", "farmácia", "2024-05-18")
	store.failDelete = map[int64]bool{a: true}

	out := r.Delete(ctx, DeleteRequest{Target: AllOfType, Selector: Expenses}, true)
	assert.Equal(t, StatusDone, out.Status)
	assert.EqualValues(t, 1, out.Count)
	assert.Equal(t, []int64{b}, out.IDs)
	assert.Equal(t, []int64{a}, out.Failed)
	assert.Error(t, out.Err)
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewResolver(store)

	seed(t, store, core.Income, "1000", "salário", "2024-05-01")
	id := seed(t, store, core.Outflow, "50", "mercado", "2024-05-18")

	out := r.Edit(ctx, EditRequest{Selector: Expenses, Patch: ledger.Patch{
		Amount: ptr(decimal.RequireFromString("55.90")),
		Date:   ptr("2024-02-30"),
	}}, true)
	require.Equal(t, StatusDone, out.Status)
	assert.Equal(t, []int64{id}, out.IDs)
	assert.Equal(t, []string{"date"}, out.Skipped)

	tx, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("55.90")))
	assert.Equal(t, "2024-05-18", tx.Date.String())

	out = r.Edit(ctx, EditRequest{ID: id, Patch: ledger.Patch{Category: ptr(" ")}}, true)
	assert.Equal(t, StatusFailed, out.Status)

	out = r.Edit(ctx, EditRequest{ID: 999, Patch: ledger.Patch{Category: ptr("x")}}, true)
	assert.Equal(t, StatusNotFound, out.Status)
}

func ptr[T any](v T) *T { return &v }

// countingStore counts every store call and can fail selected deletes.
type countingStore struct {
	ledger.Store
	calls      int
	failDelete map[int64]bool
}

func (s *countingStore) Query(ctx context.Context, f ledger.Filter) ([]core.Transaction, error) {
	s.calls++
	return s.Store.Query(ctx, f)
}

func (s *countingStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	s.calls++
	if s.failDelete[id] {
		return false, errors.New("disk full")
	}
	return s.Store.DeleteByID(ctx, id)
}

func (s *countingStore) DeleteByCriteria(ctx context.Context, c ledger.DeleteCriteria) (int64, error) {
	s.calls++
	return s.Store.DeleteByCriteria(ctx, c)
}

func (s *countingStore) Update(ctx context.Context, id int64, p ledger.Patch) (bool, error) {
	s.calls++
	return s.Store.Update(ctx, id, p)
}

func (s *countingStore) LastID(ctx context.Context, kind core.Kind, category string) (int64, bool, error) {
	s.calls++
	return s.Store.LastID(ctx, kind, category)
}
