// Package scrape guesses vegan menu items for a restaurant by probing
// likely menu pages and running the extraction heuristic over their text.
// Every failure degrades to an empty result; callers never see an error.
package scrape

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/veggiemap/menuscout/internal/cache"
	"github.com/veggiemap/menuscout/internal/menu"
	"github.com/veggiemap/menuscout/internal/observability"
	"github.com/veggiemap/menuscout/internal/urlutil"
)

// Restaurant is the minimal record the scraper reads from the directory.
type Restaurant struct {
	ID      string
	Website string
	PlaceID string
}

// CacheKey picks the restaurant's identity for caching: website, else place
// id, else internal id. Empty when the record has no identity at all.
func CacheKey(r Restaurant) string {
	switch {
	case r.Website != "":
		return r.Website
	case r.PlaceID != "":
		return r.PlaceID
	default:
		return r.ID
	}
}

// TextFetcher retrieves a plain-text rendering of a page.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// LinkFinder harvests extra menu-page candidates from a page's links.
type LinkFinder interface {
	MenuLinks(ctx context.Context, url string) []string
}

// Policy bounds a scrape: how many candidates to try and how long each
// candidate's fetch may take. Zero values mean all candidates and a 15s
// per-candidate timeout.
type Policy struct {
	MaxCandidates    int
	CandidateTimeout time.Duration
}

func (p Policy) timeout() time.Duration {
	if p.CandidateTimeout > 0 {
		return p.CandidateTimeout
	}
	return 15 * time.Second
}

type Scraper struct {
	fetcher  TextFetcher
	fallback TextFetcher
	links    LinkFinder
	cache    cache.Cache
	extract  menu.Config
	policy   Policy
	group    singleflight.Group
}

func NewScraper(fetcher TextFetcher, store cache.Cache) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		cache:   store,
	}
}

// SetFallback installs a second fetcher tried when the primary fails on a
// candidate.
func (s *Scraper) SetFallback(f TextFetcher) {
	s.fallback = f
}

// SetLinkFinder enables harvesting extra candidates from the site root when
// the fixed candidate list comes up empty.
func (s *Scraper) SetLinkFinder(l LinkFinder) {
	s.links = l
}

func (s *Scraper) SetPolicy(p Policy) {
	s.policy = p
}

func (s *Scraper) SetExtractConfig(cfg menu.Config) {
	s.extract = cfg
}

// ScrapeVeganMenu returns the cached menu for the restaurant, or scrapes
// one. It returns an empty list when the restaurant has no identity, no
// website, or no candidate page yields items.
func (s *Scraper) ScrapeVeganMenu(ctx context.Context, r Restaurant) []menu.Item {
	key := CacheKey(r)
	if key == "" {
		return nil
	}

	if items, ok := s.cache.Get(ctx, key); ok && len(items) > 0 {
		observability.IncCacheHit()
		return items
	}
	observability.IncCacheMiss()

	return s.scrapeShared(ctx, key, r)
}

// Refresh scrapes regardless of any cached result, overwriting the cache on
// success.
func (s *Scraper) Refresh(ctx context.Context, r Restaurant) []menu.Item {
	key := CacheKey(r)
	if key == "" {
		return nil
	}
	return s.scrapeShared(ctx, key, r)
}

// scrapeShared collapses concurrent scrapes for one key into a single
// flight; late callers get the first caller's result. The flight runs
// detached from the initiating caller's cancellation so one caller
// cancelling cannot fail the result for every sharer.
func (s *Scraper) scrapeShared(ctx context.Context, key string, r Restaurant) []menu.Item {
	if r.Website == "" {
		return nil
	}

	flightCtx := context.WithoutCancel(ctx)
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		return s.scrape(flightCtx, key, r), nil
	})
	items, _ := v.([]menu.Item)
	return items
}

func (s *Scraper) scrape(ctx context.Context, key string, r Restaurant) []menu.Item {
	candidates := urlutil.CandidateURLs(r.Website)

	tried := make(map[string]struct{})
	if items := s.tryCandidates(ctx, candidates, tried); len(items) > 0 {
		s.cache.Set(ctx, key, items)
		return items
	}

	// Fixed guesses exhausted; harvest menu links from the site itself.
	if s.links != nil && ctx.Err() == nil {
		extra := s.links.MenuLinks(ctx, urlutil.Normalize(r.Website))
		if items := s.tryCandidates(ctx, extra, tried); len(items) > 0 {
			s.cache.Set(ctx, key, items)
			return items
		}
	}

	slog.Debug("no menu items found", "restaurant", r.ID, "website", r.Website)
	return nil
}

// tryCandidates probes candidates in order. The tried set is shared across
// batches, so the attempt budget spans the whole scrape and duplicate
// candidates neither refetch nor consume it.
func (s *Scraper) tryCandidates(ctx context.Context, candidates []string, tried map[string]struct{}) []menu.Item {
	for _, candidate := range candidates {
		if s.policy.MaxCandidates > 0 && len(tried) >= s.policy.MaxCandidates {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if _, ok := tried[candidate]; ok {
			continue
		}
		tried[candidate] = struct{}{}

		if items := s.tryCandidate(ctx, candidate); len(items) > 0 {
			return items
		}
	}
	return nil
}

// tryCandidate fetches one page and extracts items from it. Any failure is
// swallowed so the caller moves on to the next candidate.
func (s *Scraper) tryCandidate(ctx context.Context, candidate string) []menu.Item {
	cctx, cancel := context.WithTimeout(ctx, s.policy.timeout())
	defer cancel()

	start := time.Now()
	text, err := s.fetcher.FetchText(cctx, candidate)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), "fetch")
		if s.fallback == nil {
			slog.Debug("candidate fetch failed", "url", candidate, "error", err)
			return nil
		}
		text, err = s.fallback.FetchText(cctx, candidate)
		if err != nil {
			observability.IncError(observability.ClassifyFetchError(err), "fetch_fallback")
			slog.Debug("candidate fetch failed", "url", candidate, "error", err)
			return nil
		}
		observability.IncPageFetched("direct")
	} else {
		observability.IncPageFetched("relay")
	}
	observability.ObserveFetchDuration(time.Since(start).Seconds())

	items := s.extract.Extract(text)
	observability.IncMenuExtracted(len(items))
	return items
}
