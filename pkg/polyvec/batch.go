package polyvec

import (
	"runtime"
	"sync"
)

// Batch runs fn(0), ..., fn(n-1) concurrently and waits for all of them.
// The calls must not share mutable state.
func Batch(n int, fn func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			fn(i)
		}()
	}
	wg.Wait()
}

// pool hands out reusable per-goroutine state, such as XOF instances, to
// concurrent tasks.
type pool[T any] struct {
	sync.WaitGroup
	items chan T
}

func newPool[T any](items []T) *pool[T] {
	ch := make(chan T, len(items))
	for i := range items {
		ch <- items[i]
	}
	return &pool[T]{items: ch}
}

// Run runs f with a borrowed item and returns the item when f is done.
func (p *pool[T]) Run(f func(item T)) {
	p.Add(1)
	go func() {
		defer p.Done()
		item := <-p.items
		f(item)
		p.items <- item
	}()
}

// workers returns the pool size for n tasks.
func workers(n int) int {
	return max(1, min(n, runtime.GOMAXPROCS(0)))
}
