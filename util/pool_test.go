package util

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPoolRunsEverything(t *testing.T) {
	pool := NewPool(4)
	var count int64
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&count, 1)
		})
	}
	pool.Wait()
	if count != 100 {
		t.Fatalf("ran %d tasks, want 100", count)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const size = 3
	pool := NewPool(size)
	var running, peak int64
	var mu sync.Mutex

	for i := 0; i < 50; i++ {
		pool.Submit(func() {
			n := atomic.AddInt64(&running, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			atomic.AddInt64(&running, -1)
		})
	}
	pool.Wait()

	if peak > size {
		t.Fatalf("observed %d concurrent tasks, want at most %d", peak, size)
	}
}

func TestPoolSizeFloor(t *testing.T) {
	pool := NewPool(0)
	done := false
	pool.Submit(func() { done = true })
	pool.Wait()
	if !done {
		t.Fatal("task did not run")
	}
}
