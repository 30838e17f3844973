package search

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	cachePrefix  = "inkwell:search:"
	defaultLimit = 20
	maxQueryLen  = 120
)

// ErrEmptyQuery indicates a blank search term.
var ErrEmptyQuery = errors.New("search: empty query")

// Service answers search queries. Concurrent identical queries collapse to
// one postgres round trip; results are cached in Redis for a short TTL.
type Service struct {
	store  Store
	cache  *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewService constructs a Service. cache may be nil, disabling caching.
func NewService(store Store, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cache: cache, ttl: ttl, logger: logger}
}

// Query runs a search for q.
func (s *Service) Query(ctx context.Context, q string) ([]Result, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	if len(q) > maxQueryLen {
		q = q[:maxQueryLen]
	}
	key := cachePrefix + strings.ToLower(q)

	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached []Result
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		results, err := s.store.Search(ctx, q, defaultLimit)
		if err != nil {
			return nil, err
		}
		if results == nil {
			results = []Result{}
		}
		if s.cache != nil {
			if payload, err := json.Marshal(results); err == nil {
				if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
					s.logger.Warn("search cache set", slog.Any("error", err))
				}
			}
		}
		return results, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Result), nil
}

// Invalidate drops all cached search results. Called by the reindex task
// after content changes.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	iter := s.cache.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
