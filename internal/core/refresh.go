package core

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/veggiemap/menuscout/internal/scrape"
	"github.com/veggiemap/menuscout/internal/store"
)

// RefreshService periodically re-scrapes restaurants whose menus have gone
// stale and trims expired cache rows.
type RefreshService struct {
	store      *store.Store
	scraper    *scrape.Scraper
	interval   time.Duration
	staleAfter time.Duration
	retention  time.Duration
	batchSize  int
}

func NewRefreshService(st *store.Store, scraper *scrape.Scraper, interval, staleAfter, retention time.Duration) *RefreshService {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 24 * time.Hour
	}
	return &RefreshService{
		store:      st,
		scraper:    scraper,
		interval:   interval,
		staleAfter: staleAfter,
		retention:  retention,
		batchSize:  50,
	}
}

func (s *RefreshService) Start(ctx context.Context) {
	go s.refreshLoop(ctx)
	if s.retention > 0 {
		go s.cleanupLoop(ctx)
	}
}

func (s *RefreshService) refreshLoop(ctx context.Context) {
	s.refreshOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshOnce(ctx)
		}
	}
}

func (s *RefreshService) refreshOnce(ctx context.Context) {
	stale, err := s.store.ListStaleRestaurants(ctx, s.staleAfter, s.batchSize)
	if err != nil {
		slog.Error("refresh failed to list stale restaurants", "error", err)
		return
	}

	for _, r := range stale {
		select {
		case <-ctx.Done():
			return
		default:
		}

		items := s.scraper.Refresh(ctx, scrape.Restaurant{
			ID:      strconv.Itoa(r.ID),
			Website: r.Website,
			PlaceID: r.PlaceID,
		})
		slog.Info("refreshed menu", "restaurant", r.Name, "items", len(items))

		if err := s.store.MarkRestaurantScraped(ctx, r.ID); err != nil {
			slog.Error("failed to mark restaurant scraped", "restaurant_id", r.ID, "error", err)
		}
	}
}

func (s *RefreshService) cleanupLoop(ctx context.Context) {
	s.cleanup(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup(ctx)
		}
	}
}

func (s *RefreshService) cleanup(ctx context.Context) {
	deleted, err := s.store.DeleteExpiredMenuCache(ctx, s.retention)
	if err != nil {
		slog.Error("cache cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("cache cleanup removed expired entries", "count", deleted)
	}
}
