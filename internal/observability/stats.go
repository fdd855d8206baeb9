package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	PagesFetched      uint64            `json:"pages_fetched"`
	MenusExtracted    uint64            `json:"menus_extracted"`
	ItemsExtracted    uint64            `json:"items_extracted"`
	CacheHits         uint64            `json:"cache_hits"`
	CacheMisses       uint64            `json:"cache_misses"`
	ErrorsTotal       uint64            `json:"errors_total"`
	FetchSecondsAvg   float64           `json:"fetch_seconds_avg"`
	FetchesByKind     map[string]uint64 `json:"fetches_by_kind,omitempty"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	pagesFetched   uint64
	menusExtracted uint64
	itemsExtracted uint64
	cacheHits      uint64
	cacheMisses    uint64
	errorsTotal    uint64

	fetchCount uint64
	fetchNanos uint64

	statsMu           sync.Mutex
	fetchesByKind     = map[string]uint64{}
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func IncPageFetched(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	atomic.AddUint64(&pagesFetched, 1)
	statsMu.Lock()
	fetchesByKind[kind]++
	statsMu.Unlock()
}

func IncMenuExtracted(items int) {
	atomic.AddUint64(&menusExtracted, 1)
	if items > 0 {
		atomic.AddUint64(&itemsExtracted, uint64(items))
	}
}

func IncCacheHit() {
	atomic.AddUint64(&cacheHits, 1)
}

func IncCacheMiss() {
	atomic.AddUint64(&cacheMisses, 1)
}

func ObserveFetchDuration(seconds float64) {
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&fetchCount, 1)
	atomic.AddUint64(&fetchNanos, uint64(seconds*1e9))
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	fetchesCopy := copyMap(fetchesByKind)
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&fetchCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&fetchNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		PagesFetched:      atomic.LoadUint64(&pagesFetched),
		MenusExtracted:    atomic.LoadUint64(&menusExtracted),
		ItemsExtracted:    atomic.LoadUint64(&itemsExtracted),
		CacheHits:         atomic.LoadUint64(&cacheHits),
		CacheMisses:       atomic.LoadUint64(&cacheMisses),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		FetchSecondsAvg:   avg,
		FetchesByKind:     fetchesCopy,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
