package notifier

import (
	"strings"
	"sync"
	"time"
)

type cacheItem struct {
	ChartData  []byte
	RenderedAt time.Time
	Expiration time.Time
}

var (
	chartCache   = make(map[string]*cacheItem)
	chartCacheMu sync.Mutex
)

func cacheKey(market string, strategies []string) string {
	return market + "|" + strings.Join(strategies, "|")
}

func cacheGet(key string) (*cacheItem, bool) {
	chartCacheMu.Lock()
	defer chartCacheMu.Unlock()

	if item, found := chartCache[key]; found && time.Now().Before(item.Expiration) {
		return item, true
	}
	return nil, false
}

func cacheSet(key string, chartData []byte, duration time.Duration) *cacheItem {
	chartCacheMu.Lock()
	defer chartCacheMu.Unlock()

	item := &cacheItem{
		ChartData:  chartData,
		RenderedAt: time.Now(),
		Expiration: time.Now().Add(duration),
	}
	chartCache[key] = item
	return item
}
