package criteria

import (
	"context"
	"fmt"
	"strings"

	"financebot/internal/ledger"
)

// EditRequest targets ID when it is set, otherwise the newest transaction of
// Selector.
type EditRequest struct {
	ID       int64
	Selector Selector
	Patch    ledger.Patch
}

func (r *Resolver) Edit(ctx context.Context, req EditRequest, confirmed bool) Outcome {
	if !confirmed {
		return cancelled("Edição")
	}

	clean, skipped := req.Patch.Sanitize()
	if clean.IsEmpty() {
		return Outcome{Status: StatusFailed, Skipped: skipped, Message: "Nenhum campo válido para atualizar."}
	}

	id := req.ID
	if id <= 0 {
		var err error
		id, err = r.ResolveLast(ctx, req.Selector)
		if o, ok := lastOutcome(ctx, req.Selector, err); !ok {
			o.Skipped = skipped
			return o
		}
	}

	ok, err := r.store.Update(ctx, id, clean)
	if err != nil {
		logFailure(ctx, "update", err)
		return Outcome{Status: StatusFailed, Skipped: skipped, Message: "Erro ao atualizar a transação.", Err: err}
	}
	if !ok {
		o := notFound(fmt.Sprintf("Transação %d não encontrada.", id))
		o.Skipped = skipped
		return o
	}

	msg := fmt.Sprintf("Transação %d atualizada.", id)
	if len(skipped) > 0 {
		msg += " Campos ignorados: " + strings.Join(skipped, ", ") + "."
	}
	return Outcome{Status: StatusDone, Count: 1, IDs: []int64{id}, Skipped: skipped, Message: msg}
}
