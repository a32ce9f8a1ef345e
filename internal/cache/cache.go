// Package cache provides a size and TTL bounded LRU and a janitor that prunes
// expired entries in the background.
package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner is implemented by caches that can drop their expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically prunes every registered cache until its context ends.
type Janitor struct {
	caches map[string]Cleaner
}

func NewJanitor() *Janitor {
	return &Janitor{caches: make(map[string]Cleaner)}
}

// Register must be called before Run.
func (j *Janitor) Register(name string, c Cleaner) {
	j.caches[name] = c
}

// Run blocks until ctx is done.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep prunes all caches once.
func (j *Janitor) Sweep(ctx context.Context) int {
	total := 0
	for name, c := range j.caches {
		if n := c.CleanExpired(); n > 0 {
			slog.DebugContext(ctx, "Expired cache entries removed", "cache", name, "count", n)
			total += n
		}
	}
	return total
}
