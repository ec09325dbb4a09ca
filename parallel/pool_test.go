package parallel

import (
	"sync/atomic"
	"testing"
)

func TestPool_EachInvocationOnce(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		n       int
		grain   int
	}{
		{"serial below threshold", 4, 10, 0},
		{"one chunk per worker", 4, 1000, 0},
		{"uneven split", 3, 1001, 0},
		{"small grain", 4, 777, 7},
		{"single worker", 1, 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.workers, 64)
			defer p.Close()

			hits := make([]int32, tt.n)
			fn := func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			}
			if tt.grain > 0 {
				p.DispatchGrain(tt.n, tt.grain, fn)
			} else {
				p.Dispatch(tt.n, fn)
			}

			for i, h := range hits {
				if h != 1 {
					t.Fatalf("invocation %d ran %d times, want 1", i, h)
				}
			}
		})
	}
}

func TestPool_ReusableAcrossDispatches(t *testing.T) {
	p := New(4, 1)
	defer p.Close()

	var total int64
	for round := 0; round < 20; round++ {
		p.DispatchGrain(256, 16, func(start, end int) {
			atomic.AddInt64(&total, int64(end-start))
		})
	}
	if total != 20*256 {
		t.Errorf("total = %d, want %d", total, 20*256)
	}
}

func TestPool_CloseIdempotent(t *testing.T) {
	p := New(2, 1)
	p.Dispatch(10, func(int, int) {})
	p.Close()
	p.Close()

	// A closed pool restarts its workers on demand.
	var n int64
	p.Dispatch(10, func(start, end int) { atomic.AddInt64(&n, int64(end-start)) })
	p.Close()
	if n != 10 {
		t.Errorf("n = %d, want 10", n)
	}
}

func TestPool_EmptyDispatch(t *testing.T) {
	p := New(2, 1)
	defer p.Close()
	called := false
	p.Dispatch(0, func(int, int) { called = true })
	if called {
		t.Error("fn called for empty dispatch")
	}
}
