package options

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Numbertalktw/sku-gen-sheet/internal/metrics"
	"github.com/Numbertalktw/sku-gen-sheet/internal/model"
)

// SnapshotLoader 执行一次完整加载
type SnapshotLoader interface {
	Load(ctx context.Context) *model.Snapshot
}

// CacheOptions 缓存配置
type CacheOptions struct {
	Enabled bool
	TTL     time.Duration // 0 表示直到显式失效
	Metrics *metrics.Metrics
}

// Cache 选项快照缓存，由调用方持有
//
// Invalidate 之后的 Get 一定触发新的加载；失效前已开始的加载结果不会写回缓存。
type Cache struct {
	loader SnapshotLoader
	opts   CacheOptions
	group  singleflight.Group
	now    func() time.Time

	mu       sync.Mutex
	gen      uint64
	snap     *model.Snapshot
	storedAt time.Time
}

// NewCache 创建缓存
func NewCache(loader SnapshotLoader, opts CacheOptions) *Cache {
	return &Cache{
		loader: loader,
		opts:   opts,
		now:    time.Now,
	}
}

// Get 返回缓存的快照，未命中时加载
// 并发未命中共享同一次加载；ctx 取消时提前返回，但加载本身继续完成
func (c *Cache) Get(ctx context.Context) (*model.Snapshot, error) {
	if !c.opts.Enabled {
		c.opts.Metrics.ObserveCache(false)
		return c.loader.Load(ctx), nil
	}

	c.mu.Lock()
	if c.validLocked() {
		snap := c.snap
		c.mu.Unlock()
		c.opts.Metrics.ObserveCache(true)
		return snap, nil
	}
	gen := c.gen
	c.mu.Unlock()
	c.opts.Metrics.ObserveCache(false)

	ch := c.group.DoChan(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		snap := c.loader.Load(context.WithoutCancel(ctx))

		c.mu.Lock()
		if c.gen == gen {
			c.snap = snap
			c.storedAt = c.now()
		}
		c.mu.Unlock()
		return snap, nil
	})

	select {
	case res := <-ch:
		return res.Val.(*model.Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate 丢弃缓存，下一次 Get 重新加载
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.snap = nil
	c.storedAt = time.Time{}
	c.mu.Unlock()
}

// Refresh 失效后立即重新加载
func (c *Cache) Refresh(ctx context.Context) (*model.Snapshot, error) {
	c.Invalidate()
	return c.Get(ctx)
}

// Cached 当前是否持有有效快照
func (c *Cache) Cached() bool {
	_, ok := c.Peek()
	return ok
}

// Peek 返回当前缓存的快照，不触发加载
func (c *Cache) Peek() (*model.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opts.Enabled || !c.validLocked() {
		return nil, false
	}
	return c.snap, true
}

func (c *Cache) validLocked() bool {
	if c.snap == nil {
		return false
	}
	if c.opts.TTL > 0 && c.now().Sub(c.storedAt) >= c.opts.TTL {
		return false
	}
	return true
}
