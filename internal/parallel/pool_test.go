package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPoolDefaults(t *testing.T) {
	p := NewPool(0)
	defer p.Close()
	if p.Workers() != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers() = %d, want GOMAXPROCS", p.Workers())
	}
	if !p.IsRunning() {
		t.Error("new pool not running")
	}
}

func TestPoolRunAll(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	const n = 500
	var seen [n]atomic.Int32
	if err := p.Run(context.Background(), n, func(i int) { seen[i].Add(1) }); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	for i := range seen {
		if got := seen[i].Load(); got != 1 {
			t.Fatalf("item %d ran %d times", i, got)
		}
	}
}

func TestPoolRunUnevenWork(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var count atomic.Int32
	err := p.Run(context.Background(), 40, func(i int) {
		if i%4 == 0 {
			time.Sleep(2 * time.Millisecond)
		}
		count.Add(1)
	})
	if err != nil || count.Load() != 40 {
		t.Fatalf("Run = %v, count %d", err, count.Load())
	}
}

func TestPoolRunPropagatesPanic(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recover() = %v, want boom", r)
		}
	}()
	_ = p.Run(context.Background(), 8, func(i int) {
		if i == 5 {
			panic("boom")
		}
	})
	t.Error("Run did not re-panic")
}

func TestPoolRunCancelled(t *testing.T) {
	p := NewPool(1)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// The first submit may still win the select race; any error must be
	// the context error.
	err := p.Run(ctx, 1000, func(int) {})
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

func TestPoolClosedRunsInline(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()

	n := 0
	if err := p.Run(context.Background(), 3, func(int) { n++ }); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("inline run count = %d, want 3", n)
	}
}

func TestPoolCloseDuringRun(t *testing.T) {
	for range 50 {
		p := NewPool(2)
		const n = 200
		var count atomic.Int32
		started := make(chan struct{})
		result := make(chan error, 1)
		go func() {
			result <- p.Run(context.Background(), n, func(i int) {
				if i == 0 {
					close(started)
				}
				count.Add(1)
			})
		}()
		<-started
		p.Close()

		select {
		case err := <-result:
			if err != nil {
				t.Fatalf("Run error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return after Close")
		}
		if got := count.Load(); got != n {
			t.Fatalf("ran %d items, want %d", got, n)
		}
	}
}
