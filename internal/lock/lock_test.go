package lock

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

func TestLocalExcludes(t *testing.T) {
	l := NewLocal()

	var inside, maxInside int32
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			release, err := l.Acquire(ctx)
			if err != nil {
				return err
			}
			defer release()

			n := atomic.AddInt32(&inside, 1)
			mu.Lock()
			if n > maxInside {
				maxInside = n
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			return nil
		})
	}
	assert.NoError(t, g.Wait())
	assert.Equal(t, int32(1), maxInside)
}

func TestLocalWaitHonoursContext(t *testing.T) {
	l := NewLocal()
	release, err := l.Acquire(context.Background())
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx)
	assert.IsError(t, err, context.DeadlineExceeded)

	release()
	release2, err := l.Acquire(context.Background())
	assert.NoError(t, err)
	release2()
}

// Needs a disposable Redis, e.g. CART_TEST_REDIS_ADDR=localhost:6379.
func TestRedisLock(t *testing.T) {
	addr := os.Getenv("CART_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CART_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	key := "cart:test:lock:" + t.Name()
	a := NewRedis(rdb, key, 5*time.Second)
	b := NewRedis(rdb, key, 5*time.Second)

	release, err := a.Acquire(context.Background())
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = b.Acquire(ctx)
	assert.IsError(t, err, context.DeadlineExceeded)

	release()
	releaseB, err := b.Acquire(context.Background())
	assert.NoError(t, err)
	releaseB()
}
