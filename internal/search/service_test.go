package search_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/search"
)

type countingStore struct {
	calls atomic.Int64
	block chan struct{}
}

func (s *countingStore) Search(_ context.Context, query string, _ int) ([]search.Result, error) {
	s.calls.Add(1)
	if s.block != nil {
		<-s.block
	}
	return []search.Result{{ID: "p1", Title: "Result for " + query, Slug: "result"}}, nil
}

func newCachedService(t *testing.T, store search.Store, ttl time.Duration) *search.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return search.NewService(store, client, ttl, nil)
}

func TestQueryRejectsEmpty(t *testing.T) {
	svc := search.NewService(&countingStore{}, nil, 0, nil)

	_, err := svc.Query(t.Context(), "   ")
	require.ErrorIs(t, err, search.ErrEmptyQuery)
}

func TestQueryCachesResults(t *testing.T) {
	store := &countingStore{}
	svc := newCachedService(t, store, time.Minute)

	first, err := svc.Query(t.Context(), "go generics")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Query(t.Context(), "go generics")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.EqualValues(t, 1, store.calls.Load(), "second query must come from cache")
}

func TestQueryCollapsesConcurrentCalls(t *testing.T) {
	store := &countingStore{block: make(chan struct{})}
	svc := newCachedService(t, store, time.Minute)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Query(context.Background(), "concurrency")
			require.NoError(t, err)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(store.block)
	wg.Wait()

	require.EqualValues(t, 1, store.calls.Load(), "concurrent identical queries must collapse")
}

func TestInvalidateDropsCache(t *testing.T) {
	store := &countingStore{}
	svc := newCachedService(t, store, time.Minute)

	_, err := svc.Query(t.Context(), "cached")
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(t.Context()))

	_, err = svc.Query(t.Context(), "cached")
	require.NoError(t, err)
	require.EqualValues(t, 2, store.calls.Load())
}
