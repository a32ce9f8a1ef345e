package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"financebot/internal/cache"
	"financebot/internal/core"
)

// Cached memoizes another generator. The key covers the label and every field of
// every transaction, so any change to the data produces a fresh report.
type Cached struct {
	next  Generator
	cache *cache.LRUCache[string]
}

func NewCached(next Generator, c *cache.LRUCache[string]) *Cached {
	return &Cached{next: next, cache: c}
}

func (g *Cached) Generate(ctx context.Context, txs []core.Transaction, label string) (string, error) {
	key := cacheKey(txs, label)
	if text, ok := g.cache.Get(key); ok {
		slog.DebugContext(ctx, "Report served from cache", "label", label)
		return text, nil
	}
	text, err := g.next.Generate(ctx, txs, label)
	if err != nil {
		return "", err
	}
	g.cache.Set(key, text)
	return text, nil
}

// Cache exposes the underlying LRU so it can be registered with a janitor.
func (g *Cached) Cache() *cache.LRUCache[string] { return g.cache }

func cacheKey(txs []core.Transaction, label string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00", label)
	for _, tx := range txs {
		fmt.Fprintf(h, "%d|%s|%s|%s|%s|%s\x00", tx.ID, tx.Kind, tx.Amount.String(), tx.Category, tx.Description, tx.Date.String())
	}
	return hex.EncodeToString(h.Sum(nil))
}
