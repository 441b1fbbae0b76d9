package orchestrator

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPool_RunsAllJobs(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var count int32
	for i := 0; i < 20; i++ {
		pool.Submit(func() {
			atomic.AddInt32(&count, 1)
		})
	}
	pool.CloseAndWait()

	if count != 20 {
		t.Errorf("Expected 20 jobs run, got %d", count)
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const workers = 2
	pool := NewPool(workers)
	pool.Start()

	var active, peak int32
	var mu sync.Mutex

	for i := 0; i < 10; i++ {
		pool.Submit(func() {
			n := atomic.AddInt32(&active, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			atomic.AddInt32(&active, -1)
		})
	}
	pool.CloseAndWait()

	if peak > workers {
		t.Errorf("Expected at most %d concurrent jobs, saw %d", workers, peak)
	}
}

func TestPool_DefaultWorkerCount(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	ran := false
	pool.Submit(func() { ran = true })
	pool.CloseAndWait()

	if !ran {
		t.Error("Expected job to run with default worker count")
	}
}

func TestPool_StartIsIdempotent(t *testing.T) {
	pool := NewPool(1)
	pool.Start()
	pool.Start()

	var count int32
	pool.Submit(func() { atomic.AddInt32(&count, 1) })
	pool.CloseAndWait()

	if count != 1 {
		t.Errorf("Expected 1 job run, got %d", count)
	}
}
