package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"financebot/internal/amqp"
	"financebot/internal/ledger"
	"financebot/internal/sheets"
)

// MirrorWorker keeps a spreadsheet in step with the ledger. Every resync reads
// the whole ledger and rewrites the sheet, so lost or reordered events heal on
// the next one.
type MirrorWorker struct {
	store  ledger.Store
	mirror sheets.Mirror

	mu sync.Mutex
}

func NewMirrorWorker(store ledger.Store, mirror sheets.Mirror) *MirrorWorker {
	return &MirrorWorker{store: store, mirror: mirror}
}

// HandleEvent is an amqp.Handler.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"event_id", ev.EventID,
		"op", ev.Op,
		"transaction_id", ev.TransactionID,
		"count", ev.Count)

	if _, err := w.Resync(ctx); err != nil {
		return fmt.Errorf("resync after %s: %w", ev.Op, err)
	}
	return nil
}

// Resync reports whether the sheet had to be rewritten.
func (w *MirrorWorker) Resync(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	txs, err := w.store.Query(ctx, ledger.Filter{})
	if err != nil {
		return false, fmt.Errorf("read ledger: %w", err)
	}
	want := sheets.Rows(txs)

	current, err := w.mirror.Current(ctx)
	if err != nil {
		return false, fmt.Errorf("read mirror: %w", err)
	}
	if sheets.Equal(current, want) {
		slog.DebugContext(ctx, "Mirror already up to date", "rows", len(want))
		return false, nil
	}

	if err := w.mirror.Replace(ctx, want); err != nil {
		return false, fmt.Errorf("write mirror: %w", err)
	}
	slog.InfoContext(ctx, "Mirror resynced", "transactions", len(txs))
	return true, nil
}

// RunScheduled resyncs on a cron schedule (standard five fields or descriptors
// such as "@every 15m") until ctx is done.
func (w *MirrorWorker) RunScheduled(ctx context.Context, schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := w.Resync(ctx); err != nil {
			slog.ErrorContext(ctx, "Scheduled resync failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("parse resync schedule %q: %w", schedule, err)
	}

	c.Start()
	slog.InfoContext(ctx, "Resync scheduler started", "schedule", schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	slog.InfoContext(ctx, "Resync scheduler stopped")
	return nil
}
