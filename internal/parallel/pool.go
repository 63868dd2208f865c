// Package parallel runs independent per-op work on a fixed set of
// goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a pool of goroutines with per-worker queues. A worker whose
// own queue is empty steals from the others, which balances batches
// where some items (large stroke lists) take much longer than the rest.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool

	// mu orders queue sends before close(done), so a worker's final
	// drain sees every queued item.
	mu sync.RWMutex
}

// NewPool creates and starts a pool. If workers is 0 or negative,
// GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &Pool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	own := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *Pool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run calls fn(i) for every i in [0, n) across the workers and waits for
// all calls to return. When a worker queue is full the caller runs the
// item itself. Items not yet queued when ctx is cancelled are skipped
// and ctx.Err() is returned. A panic in fn is re-raised on the
// calling goroutine once the batch has settled, so contract violations
// surface where the batch was submitted. On a closed pool the calls run
// inline.
func (p *Pool) Run(ctx context.Context, n int, fn func(i int)) error {
	if n == 0 {
		return nil
	}
	if !p.running.Load() {
		for i := range n {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
		}
		return nil
	}

	var (
		wg        sync.WaitGroup
		panicOnce sync.Once
		panicVal  any
	)
	submit := func(i int) bool {
		if ctx.Err() != nil {
			return false
		}
		wg.Add(1)
		work := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panicOnce.Do(func() { panicVal = r })
				}
			}()
			fn(i)
		}
		queued := false
		p.mu.RLock()
		if p.running.Load() {
			select {
			case p.workQueues[i%p.workers] <- work:
				queued = true
			default:
			}
		}
		p.mu.RUnlock()
		if !queued {
			// Full queue or closed pool: run it here.
			work()
		}
		return true
	}

	var err error
	for i := range n {
		if !submit(i) {
			err = ctx.Err()
			break
		}
	}
	wg.Wait()
	if panicVal != nil {
		panic(panicVal)
	}
	return err
}

// Close stops accepting work, finishes what is queued and stops the
// workers. Close is safe to call multiple times.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}
