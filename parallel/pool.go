// Package parallel runs index-range kernels on a persistent worker pool.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the minimum invocation count to use the pool.
// Below this, single-threaded is faster due to goroutine overhead.
const DefaultThreshold = 64

// RangeFunc processes invocations [start, end).
type RangeFunc func(start, end int)

// workChunk represents a range of invocations for a worker to process.
type workChunk struct {
	start, end int
	fn         RangeFunc
}

// Pool executes dispatches across persistent worker goroutines.
// Dispatch must not be called concurrently with itself or Close.
type Pool struct {
	numWorkers int
	threshold  int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// New creates a pool. workers <= 0 uses GOMAXPROCS; threshold <= 0 uses
// DefaultThreshold. Workers start on the first parallel dispatch.
func New(workers, threshold int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Pool{numWorkers: workers, threshold: threshold}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.numWorkers }

// startWorkers launches persistent worker goroutines.
func (p *Pool) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Close signals all workers to exit and waits for them.
func (p *Pool) Close() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// Dispatch runs fn over [0, n) split into one chunk per worker and blocks
// until every chunk has completed.
func (p *Pool) Dispatch(n int, fn RangeFunc) {
	p.DispatchGrain(n, (n+p.numWorkers-1)/p.numWorkers, fn)
}

// DispatchGrain runs fn over [0, n) in chunks of at most grain invocations
// and blocks until every chunk has completed.
func (p *Pool) DispatchGrain(n, grain int, fn RangeFunc) {
	if n <= 0 {
		return
	}
	if n < p.threshold || p.numWorkers == 1 {
		fn(0, n)
		return
	}
	if grain < 1 {
		grain = 1
	}

	// Ensure workers are running
	if !p.running {
		p.startWorkers()
	}

	next := 0
	inflight := 0
	send := func() {
		end := next + grain
		if end > n {
			end = n
		}
		p.workChan <- workChunk{start: next, end: end, fn: fn}
		next = end
		inflight++
	}

	// Keep at most one chunk per worker in flight so completions never block.
	for next < n && inflight < p.numWorkers {
		send()
	}
	for inflight > 0 {
		<-p.doneChan
		inflight--
		if next < n {
			send()
		}
	}
}
