package orchestrator

import (
	"runtime"
	"sync"
)

// Pool bounds how many independent upload requests run at once. Each
// submitted job owns its own orchestrator and progress state; jobs are not
// coalesced.
type Pool struct {
	workers int
	jobs    chan func()
	wg      sync.WaitGroup
	once    sync.Once
}

// NewPool creates a pool with the given concurrency; values <= 0 fall back
// to the CPU count
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan func(), workers*2),
	}
}

// Start launches the workers. Calling it more than once is harmless.
func (p *Pool) Start() {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Submit queues a job; blocks when the queue is full
func (p *Pool) Submit(job func()) {
	p.jobs <- job
}

// CloseAndWait stops accepting jobs and blocks until queued work finishes
func (p *Pool) CloseAndWait() {
	close(p.jobs)
	p.wg.Wait()
}
