package pricefeed

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Cache holds the most recent good snapshot so interactive commands can
// answer without a sheet round-trip. The reconciliation loop does not
// read from here; it always works on its own per-pass snapshot.
type Cache struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func NewCache() *Cache {
	return &Cache{snap: NewSnapshot()}
}

func (c *Cache) Update(snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
}

func (c *Cache) Price(symbol string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Price(symbol)
}

func (c *Cache) Symbols(limit int) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Symbols(limit)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Len()
}

// StartRefresher launches a background goroutine that keeps the cache
// fresh on the given interval until the context is canceled.
func StartRefresher(ctx context.Context, src Source, cache *Cache, interval, timeout time.Duration) {
	go refreshLoop(ctx, src, cache, interval, timeout)
	log.Info("🚀 Price refresher started.")
}

func refreshLoop(ctx context.Context, src Source, cache *Cache, interval, timeout time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("🔥 Panic recovered in price refresher: %v. Restarting in 10 seconds...", r)
			time.Sleep(10 * time.Second)
			go refreshLoop(ctx, src, cache, interval, timeout)
		}
	}()

	refreshOnce(ctx, src, cache, timeout)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			refreshOnce(ctx, src, cache, timeout)
		}
	}
}

func refreshOnce(ctx context.Context, src Source, cache *Cache, timeout time.Duration) {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	snap, err := src.Fetch(fetchCtx)
	if err != nil {
		// Keep serving the last good snapshot.
		log.Errorf("❌ Failed to refresh price sheet: %v", err)
		return
	}

	cache.Update(snap)
	log.Debugf("✅ Price sheet refreshed: %d symbols", snap.Len())
}
