package book

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	cacheKeyPrefix = "book:"
	fillStripes    = 64
)

// fillStripe guards cache fills for the ids hashing to it. gen is bumped by
// every write, and a fill is only stored if gen did not move while the row
// was being loaded.
type fillStripe struct {
	mu  sync.Mutex
	gen uint64
}

// CachedStore is a read-through cache in front of a Store. Only FindByID is
// served from the cache; ISBN existence checks always reach the store.
// Cache failures are logged and bypassed.
//
// Fills are fenced against writes made through this CachedStore. Writes from
// other processes sharing a redis cache are bounded by the TTL only.
type CachedStore struct {
	next    Store
	cache   Cache
	ttl     time.Duration
	log     zerolog.Logger
	stripes [fillStripes]fillStripe
}

func NewCachedStore(next Store, cache Cache, ttl time.Duration, log zerolog.Logger) *CachedStore {
	return &CachedStore{next: next, cache: cache, ttl: ttl, log: log}
}

func cacheKey(id int64) string {
	return cacheKeyPrefix + strconv.FormatInt(id, 10)
}

func (s *CachedStore) Insert(ctx context.Context, b *Book) error {
	return s.next.Insert(ctx, b)
}

func (s *CachedStore) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	return s.next.ExistsByISBN(ctx, isbn)
}

func (s *CachedStore) FindByID(ctx context.Context, id int64) (Book, error) {
	key := cacheKey(id)
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache get failed")
	}
	if ok {
		var b Book
		if err := json.Unmarshal(data, &b); err == nil {
			return b, nil
		}
		s.log.Warn().Str("key", key).Msg("dropping undecodable cache entry")
		s.invalidate(ctx, id)
	}

	stripe := s.stripe(id)
	stripe.mu.Lock()
	gen := stripe.gen
	stripe.mu.Unlock()

	b, err := s.next.FindByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	data, err = json.Marshal(b)
	if err != nil {
		return b, nil
	}

	stripe.mu.Lock()
	defer stripe.mu.Unlock()
	if stripe.gen != gen {
		// a write landed while loading; the row may be stale
		return b, nil
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return b, nil
}

func (s *CachedStore) Update(ctx context.Context, b *Book) error {
	err := s.next.Update(ctx, b)
	s.writeFence(ctx, b.ID)
	return err
}

func (s *CachedStore) Delete(ctx context.Context, id int64) error {
	err := s.next.Delete(ctx, id)
	s.writeFence(ctx, id)
	return err
}

func (s *CachedStore) stripe(id int64) *fillStripe {
	return &s.stripes[uint64(id)%fillStripes]
}

// writeFence voids in-flight fills for id and drops its cache entry.
func (s *CachedStore) writeFence(ctx context.Context, id int64) {
	stripe := s.stripe(id)
	stripe.mu.Lock()
	defer stripe.mu.Unlock()
	stripe.gen++
	s.invalidate(ctx, id)
}

func (s *CachedStore) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.log.Warn().Err(err).Int64("book_id", id).Msg("cache invalidation failed")
	}
}
