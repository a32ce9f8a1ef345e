package backend

import (
	"context"
	"fmt"
	"log/slog"

	"financebot/internal/amqp"
	"financebot/internal/ledger"
	"financebot/internal/ledger/memory"
	"financebot/internal/services"
	"financebot/internal/storage"
)

// Result is the assembled ledger. Store publishes mutation events when AMQP
// is configured and reachable.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Open builds the store described by cfg. An unreachable broker is logged and
// the ledger runs without publishing.
func Open(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, closeBase, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			slog.InfoContext(ctx, "Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			publisher = client
		}
	}

	if publisher == nil {
		return &Result{Store: base, Cleanup: closeBase}, nil
	}
	svc := services.NewLedgerService(base, publisher)
	return &Result{Store: svc, Cleanup: svc.Close}, nil
}

func openStore(ctx context.Context, cfg Config) (ledger.Store, CleanupFunc, error) {
	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		slog.InfoContext(ctx, "Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, repo.Close, nil

	case MemoryBackend:
		if cfg.SeedFile == "" {
			slog.InfoContext(ctx, "Initialized memory backend")
			return memory.New(), noop, nil
		}
		store, err := memory.NewFromFile(cfg.SeedFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to seed memory backend: %w", err)
		}
		slog.InfoContext(ctx, "Initialized memory backend", "seed_file", cfg.SeedFile)
		return store, noop, nil

	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func noop() error { return nil }
