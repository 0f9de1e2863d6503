package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/query"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultCachePrefix namespaces the cache keys in redis.
const DefaultCachePrefix = "campus-market:listings"

// CachedStore caches Find results of the wrapped store in redis. Keys carry a
// generation number that every successful insert, update and delete
// increments, so a result cached before such a write is never returned after
// it. View counts are not part of that: IncrementViews goes straight to the
// wrapped store and cached lists may show a count up to one TTL old. Redis
// failures fall through to the wrapped store.
type CachedStore struct {
	Store
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewCachedStore wraps inner with a read-through cache.
func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{
		Store:  inner,
		client: client,
		ttl:    ttl,
		prefix: DefaultCachePrefix,
		logger: logger,
	}
}

func (s *CachedStore) generationKey() string {
	return s.prefix + ":generation"
}

// queryKey builds the cache key for q at generation gen.
func (s *CachedStore) queryKey(gen int64, q query.Query) string {
	hash := md5.Sum([]byte(q.Key()))
	return s.prefix + ":" + strconv.FormatInt(gen, 10) + ":" + hex.EncodeToString(hash[:])
}

func (s *CachedStore) Find(ctx context.Context, q query.Query) ([]models.Listing, error) {
	gen, err := s.client.Get(ctx, s.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.cacheFailed("read generation", err)
		return s.Store.Find(ctx, q)
	}

	key := s.queryKey(gen, q)
	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var listings []models.Listing
		if jsonErr := json.Unmarshal(data, &listings); jsonErr == nil {
			cacheRequests.WithLabelValues("hit").Inc()
			return listings, nil
		}
		cacheRequests.WithLabelValues("miss").Inc()
	case errors.Is(err, redis.Nil):
		cacheRequests.WithLabelValues("miss").Inc()
	default:
		s.cacheFailed("read", err)
		return s.Store.Find(ctx, q)
	}

	listings, err := s.Store.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(listings); err == nil {
		if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.cacheFailed("write", err)
		}
	}
	return listings, nil
}

// invalidate moves every reader to a new generation.
func (s *CachedStore) invalidate(ctx context.Context, affected int64) {
	if affected == 0 {
		return
	}
	if err := s.client.Incr(ctx, s.generationKey()).Err(); err != nil {
		s.cacheFailed("invalidate", err)
	}
}

func (s *CachedStore) cacheFailed(op string, err error) {
	cacheRequests.WithLabelValues("error").Inc()
	s.logger.Warn("listing cache unavailable", zap.String("operation", op), zap.Error(err))
}

func (s *CachedStore) Insert(ctx context.Context, listing *models.Listing) (string, error) {
	id, err := s.Store.Insert(ctx, listing)
	if err == nil {
		s.invalidate(ctx, 1)
	}
	return id, err
}

func (s *CachedStore) Update(ctx context.Context, id string, update *models.ListingUpdate) (int64, error) {
	n, err := s.Store.Update(ctx, id, update)
	if err == nil {
		s.invalidate(ctx, n)
	}
	return n, err
}

func (s *CachedStore) Delete(ctx context.Context, id string) (int64, error) {
	n, err := s.Store.Delete(ctx, id)
	if err == nil {
		s.invalidate(ctx, n)
	}
	return n, err
}

// Ping checks the wrapped store only; the cache is optional.
func (s *CachedStore) Ping(ctx context.Context) error {
	return s.Store.Ping(ctx)
}

func (s *CachedStore) Close(ctx context.Context) error {
	err := s.Store.Close(ctx)
	if cerr := s.client.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *CachedStore) Name() string {
	return s.Store.Name() + "+redis"
}
