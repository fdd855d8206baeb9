// Package cache remembers extracted menus per restaurant so repeat lookups
// skip the network. Reads that fail for any reason are misses; writes are
// best-effort.
package cache

import (
	"context"

	"github.com/veggiemap/menuscout/internal/menu"
)

// Namespace prefixes every stored key.
const Namespace = "vegan_menu_cache:"

type Cache interface {
	Get(ctx context.Context, key string) ([]menu.Item, bool)
	Set(ctx context.Context, key string, items []menu.Item)
}
