package options

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Numbertalktw/sku-gen-sheet/internal/model"
)

func TestCache_MemoizesUntilInvalidated(t *testing.T) {
	src := seededSource()
	cache := NewCache(NewLoader(src, testSpecs()), CacheOptions{Enabled: true})
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, cache.Cached())
	calls := src.callCount()

	second, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, calls, src.callCount())

	src.set("尺寸", []string{"Linen"}, []string{"Cotton"})
	stale, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Cotton"}, stale.Set("size").Labels())

	cache.Invalidate()
	require.False(t, cache.Cached())

	fresh, err := cache.Get(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, fresh.ID)
	require.Equal(t, []string{"Linen", "Cotton"}, fresh.Set("size").Labels())
}

func TestCache_Refresh(t *testing.T) {
	src := seededSource()
	cache := NewCache(NewLoader(src, testSpecs()), CacheOptions{Enabled: true})

	before, err := cache.Get(context.Background())
	require.NoError(t, err)

	src.set("商品類別", []string{"WidgetC"})
	after, err := cache.Refresh(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, before.ID, after.ID)
	require.Equal(t, []string{"WidgetC"}, after.Set("category").Labels())
}

func TestCache_Disabled(t *testing.T) {
	src := seededSource()
	cache := NewCache(NewLoader(src, testSpecs()), CacheOptions{Enabled: false})

	a, err := cache.Get(context.Background())
	require.NoError(t, err)
	b, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
	require.False(t, cache.Cached())
	require.Equal(t, a.Set("feature").Labels(), b.Set("feature").Labels())
}

func TestCache_TTL(t *testing.T) {
	cache := NewCache(NewLoader(seededSource(), testSpecs()), CacheOptions{Enabled: true, TTL: time.Minute})
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	a, err := cache.Get(context.Background())
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	b, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, a.ID, b.ID)

	now = now.Add(time.Minute)
	require.False(t, cache.Cached())
	c, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, a.ID, c.ID)
}

// blockingLoader blocks each Load until released.
type blockingLoader struct {
	started chan struct{}
	release chan struct{}
	loads   atomic.Int32
}

func (b *blockingLoader) Load(ctx context.Context) *model.Snapshot {
	n := b.loads.Add(1)
	b.started <- struct{}{}
	<-b.release
	return &model.Snapshot{ID: string(rune('a' + n - 1)), Sets: map[string]model.OptionSet{}}
}

func TestCache_ConcurrentMissesShareLoad(t *testing.T) {
	bl := &blockingLoader{started: make(chan struct{}, 4), release: make(chan struct{})}
	cache := NewCache(bl, CacheOptions{Enabled: true})

	var wg sync.WaitGroup
	ids := make([]string, 3)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := cache.Get(context.Background())
			if err == nil {
				ids[i] = snap.ID
			}
		}()
	}

	<-bl.started
	// let the other callers join the in-flight load
	time.Sleep(50 * time.Millisecond)
	close(bl.release)
	wg.Wait()

	require.Equal(t, int32(1), bl.loads.Load())
	require.Equal(t, []string{"a", "a", "a"}, ids)
}

func TestCache_InvalidateDuringLoadDiscardsResult(t *testing.T) {
	bl := &blockingLoader{started: make(chan struct{}, 4), release: make(chan struct{}, 4)}
	cache := NewCache(bl, CacheOptions{Enabled: true})

	done := make(chan *model.Snapshot, 1)
	go func() {
		snap, _ := cache.Get(context.Background())
		done <- snap
	}()
	<-bl.started

	cache.Invalidate()
	bl.release <- struct{}{}
	stale := <-done
	require.Equal(t, "a", stale.ID)
	require.False(t, cache.Cached())

	bl.release <- struct{}{}
	fresh, err := cache.Get(context.Background())
	require.NoError(t, err)
	<-bl.started
	require.Equal(t, "b", fresh.ID)
	require.True(t, cache.Cached())
}

func TestCache_ContextCancelled(t *testing.T) {
	bl := &blockingLoader{started: make(chan struct{}, 4), release: make(chan struct{})}
	cache := NewCache(bl, CacheOptions{Enabled: true})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx)
		errCh <- err
	}()
	<-bl.started
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	close(bl.release)
	require.Eventually(t, cache.Cached, time.Second, 10*time.Millisecond)
}
