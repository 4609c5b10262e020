package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/dgraph-io/ristretto"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/anicrunch/anicrunch/internal/fetch"
)

// searchCache is a fetch.Cache the server can release on shutdown
type searchCache interface {
	fetch.Cache
	Close() error
}

// newSearchCache builds the cache named by kind
func newSearchCache(kind string, ttl time.Duration, logger *slog.Logger) (searchCache, error) {
	switch kind {
	case "bigcache":
		return newBigCache(ttl, logger)
	default:
		return newRistrettoCache(ttl)
	}
}

// === ristretto ===

// ristrettoCache holds payloads in a cost-bounded ristretto cache.
// Cost is the payload's byte size.
type ristrettoCache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

func newRistrettoCache(ttl time.Duration) (*ristrettoCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     64 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &ristrettoCache{c: c, ttl: ttl}, nil
}

func (r *ristrettoCache) Get(key string) (fetch.Payload, bool) {
	v, ok := r.c.Get(key)
	if !ok {
		return fetch.Payload{}, false
	}
	p, ok := v.(fetch.Payload)
	if !ok {
		r.c.Del(key)
		return fetch.Payload{}, false
	}
	return p, true
}

func (r *ristrettoCache) Set(key string, p fetch.Payload, ttl time.Duration) {
	if ttl <= 0 {
		ttl = r.ttl
	}
	r.c.SetWithTTL(key, p, payloadCost(p), ttl)
}

func (r *ristrettoCache) Close() error {
	r.c.Wait()
	r.c.Close()
	return nil
}

func payloadCost(p fetch.Payload) int64 {
	n := int64(len(p.Item))
	for _, it := range p.Items {
		n += int64(len(it))
	}
	return max(n, 1)
}

// === bigcache ===

// bigCache stores msgpack-encoded payloads off the GC heap. bigcache has a
// single life window, so per-entry ttls are ignored.
type bigCache struct {
	c      *bigcache.BigCache
	logger *slog.Logger
}

type cachedPayload struct {
	Items [][]byte `msgpack:"items,omitempty"`
	Item  []byte   `msgpack:"item,omitempty"`
}

func newBigCache(ttl time.Duration, logger *slog.Logger) (*bigCache, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.HardMaxCacheSize = 64 // MB
	cfg.Verbose = false
	c, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return &bigCache{c: c, logger: logger}, nil
}

func (b *bigCache) Get(key string) (fetch.Payload, bool) {
	data, err := b.c.Get(key)
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) {
			b.logger.Warn("search cache read failed", "key", key, "error", err)
		}
		return fetch.Payload{}, false
	}

	var cp cachedPayload
	if err := msgpack.Unmarshal(data, &cp); err != nil {
		_ = b.c.Delete(key)
		return fetch.Payload{}, false
	}

	p := fetch.Payload{}
	if cp.Item != nil {
		p.Item = json.RawMessage(cp.Item)
	}
	for _, it := range cp.Items {
		p.Items = append(p.Items, json.RawMessage(it))
	}
	return p, true
}

func (b *bigCache) Set(key string, p fetch.Payload, _ time.Duration) {
	cp := cachedPayload{Item: p.Item}
	for _, it := range p.Items {
		cp.Items = append(cp.Items, it)
	}
	data, err := msgpack.Marshal(&cp)
	if err != nil {
		b.logger.Warn("failed to encode search cache entry", "key", key, "error", err)
		return
	}
	if err := b.c.Set(key, data); err != nil {
		b.logger.Warn("search cache write failed", "key", key, "error", err)
	}
}

func (b *bigCache) Close() error {
	return b.c.Close()
}
