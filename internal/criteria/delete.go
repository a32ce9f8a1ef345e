package criteria

import (
	"context"
	"errors"
	"fmt"

	"financebot/internal/core"
	"financebot/internal/dates"
	"financebot/internal/ledger"
)

type Target int

const (
	ByID Target = iota
	Last
	AllOfType
	Category
	OnDate
	InPeriod
	Everything
)

func (t Target) String() string {
	switch t {
	case ByID:
		return "id"
	case Last:
		return "last"
	case AllOfType:
		return "all_of_type"
	case Category:
		return "category"
	case OnDate:
		return "date"
	case InPeriod:
		return "period"
	case Everything:
		return "everything"
	default:
		return "unknown"
	}
}

// DeleteRequest describes what to remove. Selector narrows every target except
// ByID and Everything.
type DeleteRequest struct {
	Target   Target
	ID       int64
	Selector Selector
	Category string
	Date     core.Date
	Period   dates.Period
}

// Delete removes the requested transactions. Nothing is touched unless confirmed.
func (r *Resolver) Delete(ctx context.Context, req DeleteRequest, confirmed bool) Outcome {
	if !confirmed {
		return cancelled("Exclusão")
	}

	switch req.Target {
	case ByID:
		return r.deleteID(ctx, req.ID)
	case Last:
		id, err := r.ResolveLast(ctx, req.Selector)
		if o, ok := lastOutcome(ctx, req.Selector, err); !ok {
			return o
		}
		return r.deleteID(ctx, id)
	case Everything:
		return r.deleteMatching(ctx, ledger.DeleteCriteria{All: true}, Any)
	}

	var p dates.Period
	category := ""
	switch req.Target {
	case AllOfType:
		if req.Selector == Any {
			return failed("Informe o tipo de transação a excluir.", nil)
		}
	case Category:
		category = core.NormalizeCategory(req.Category)
		if category == "" {
			return failed("Informe a categoria a excluir.", nil)
		}
	case OnDate:
		if req.Date.IsEmpty() {
			return failed("Informe a data das transações a excluir.", nil)
		}
		p = dates.Period{Start: req.Date, End: req.Date}
	case InPeriod:
		if err := req.Period.Err(); err != nil {
			return failed(req.Period.Label, err)
		}
		if !req.Period.Bounded() {
			return failed("Para excluir tudo, peça explicitamente a exclusão de todas as transações.", nil)
		}
		p = req.Period
	default:
		return failed("Tipo de exclusão desconhecido.", fmt.Errorf("unknown delete target %d", req.Target))
	}

	f, err := r.filterFor(req.Selector, category, p)
	if errors.Is(err, errSelectorCategoryConflict) {
		return notFound("Nenhuma transação encontrada para os critérios informados.")
	}
	c := ledger.DeleteCriteria{Kind: f.Kind, Category: f.Category, Start: f.Start, End: f.End}
	if req.Target == OnDate {
		c = ledger.DeleteCriteria{Kind: f.Kind, Category: f.Category, Date: req.Date}
	}
	return r.deleteMatching(ctx, c, req.Selector)
}

func (r *Resolver) deleteID(ctx context.Context, id int64) Outcome {
	if id <= 0 {
		return failed("ID de transação inválido.", nil)
	}
	ok, err := r.store.DeleteByID(ctx, id)
	if err != nil {
		logFailure(ctx, "delete_by_id", err)
		return failed("Erro ao excluir a transação.", err)
	}
	if !ok {
		return notFound(fmt.Sprintf("Transação %d não encontrada.", id))
	}
	return Outcome{Status: StatusDone, Count: 1, IDs: []int64{id}, Message: fmt.Sprintf("Transação %d excluída.", id)}
}

// deleteMatching uses the store's bulk delete when the selector maps onto store
// criteria, and deletes one id at a time when it does not.
func (r *Resolver) deleteMatching(ctx context.Context, c ledger.DeleteCriteria, sel Selector) Outcome {
	if !sel.needsPostFilter() {
		n, err := r.store.DeleteByCriteria(ctx, c)
		if err != nil {
			logFailure(ctx, "delete_by_criteria", err)
			return failed("Erro ao excluir as transações.", err)
		}
		if n == 0 {
			return notFound("Nenhuma transação encontrada para os critérios informados.")
		}
		return Outcome{Status: StatusDone, Count: n, Message: fmt.Sprintf("%d transação(ões) excluída(s).", n)}
	}

	txs, err := r.store.Query(ctx, c.Filter())
	if err != nil {
		logFailure(ctx, "query_for_delete", err)
		return failed("Erro ao buscar as transações a excluir.", err)
	}
	txs = keep(txs, sel.Matches)
	if len(txs) == 0 {
		return notFound("Nenhuma transação encontrada para os critérios informados.")
	}

	out := Outcome{Status: StatusDone}
	for _, tx := range txs {
		ok, err := r.store.DeleteByID(ctx, tx.ID)
		if err != nil {
			logFailure(ctx, "delete_by_id", err)
			out.Failed = append(out.Failed, tx.ID)
			out.Err = err
			continue
		}
		if ok {
			out.Count++
			out.IDs = append(out.IDs, tx.ID)
		}
	}
	switch {
	case out.Count == 0 && len(out.Failed) > 0:
		out.Status = StatusFailed
		out.Message = "Erro ao excluir as transações."
	case len(out.Failed) > 0:
		out.Message = fmt.Sprintf("%d transação(ões) excluída(s); %d falharam.", out.Count, len(out.Failed))
	default:
		out.Message = fmt.Sprintf("%d transação(ões) excluída(s).", out.Count)
	}
	return out
}

// lastOutcome converts a ResolveLast error into an outcome; ok is true when
// there was no error.
func lastOutcome(ctx context.Context, sel Selector, err error) (Outcome, bool) {
	switch {
	case err == nil:
		return Outcome{}, true
	case errors.Is(err, ErrAmbiguousLastExpense):
		return Outcome{
			Status:  StatusAmbiguous,
			Message: "A última saída registrada é um investimento. Informe o ID do gasto.",
			Err:     err,
		}, false
	case errors.Is(err, ErrNoMatch):
		return notFound(fmt.Sprintf("Nenhuma transação do tipo %s encontrada.", sel)), false
	default:
		logFailure(ctx, "resolve_last", err)
		return failed("Erro ao localizar a última transação.", err), false
	}
}
