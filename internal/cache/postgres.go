package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/veggiemap/menuscout/internal/menu"
	"github.com/veggiemap/menuscout/internal/store"
)

// Postgres persists menus through the store's menu_cache table. Failures in
// either direction never surface to the scraper: a broken read is a miss
// and a broken write is dropped with a log line.
type Postgres struct {
	store *store.Store
	ttl   time.Duration
}

func NewPostgres(st *store.Store, ttl time.Duration) *Postgres {
	return &Postgres{store: st, ttl: ttl}
}

func (p *Postgres) Get(ctx context.Context, key string) ([]menu.Item, bool) {
	payload, ts, err := p.store.GetMenuCache(ctx, Namespace+key)
	if err != nil {
		return nil, false
	}
	if p.ttl > 0 && time.Since(ts) > p.ttl {
		return nil, false
	}
	var items []menu.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		slog.Debug("menu cache entry corrupt, treating as miss", "key", key, "error", err)
		return nil, false
	}
	return items, true
}

func (p *Postgres) Set(ctx context.Context, key string, items []menu.Item) {
	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := p.store.PutMenuCache(ctx, Namespace+key, payload); err != nil {
		slog.Warn("menu cache write failed", "key", key, "error", err)
	}
}
