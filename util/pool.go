package util

import "sync"

// Pool runs submitted tasks on at most size concurrent goroutines.
// Wait blocks until every submitted task has returned.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// NewPool creates a pool; a size below 1 is treated as 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: make(chan struct{}, size)}
}

// Submit schedules fn, blocking while the pool is saturated.
func (p *Pool) Submit(fn func()) {
	p.wg.Add(1)
	p.sem <- struct{}{}
	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()
		fn()
	}()
}

// Wait joins on all submitted tasks.
func (p *Pool) Wait() {
	p.wg.Wait()
}
