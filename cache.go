package folio

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedSource is a Source that remembers successful downloads for a while.
//
// Results are cached per set of tickers, regardless of their order. Failed downloads are
// not cached so that the next cycle tries again.
type CachedSource struct {
	source Source
	lru    *expirable.LRU[string, *MarketData]
}

// NewCachedSource caches up to size results of source, each for ttl.
func NewCachedSource(source Source, size int, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source: source,
		lru:    expirable.NewLRU[string, *MarketData](size, nil, ttl),
	}
}

func cacheKey(tickers []string) string {
	keys := make([]string, 0, len(tickers))
	for _, t := range tickers {
		keys = append(keys, NormalizeTicker(t))
	}
	slices.Sort(keys)
	return strings.Join(slices.Compact(keys), ",")
}

// Fetch implements Source.
func (c *CachedSource) Fetch(ctx context.Context, tickers []string) (*MarketData, error) {
	key := cacheKey(tickers)
	if md, ok := c.lru.Get(key); ok {
		return md, nil
	}
	md, err := c.source.Fetch(ctx, tickers)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, md)
	return md, nil
}

// Purge drops every cached result.
func (c *CachedSource) Purge() { c.lru.Purge() }
