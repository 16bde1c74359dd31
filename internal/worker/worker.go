package worker

import (
	"sync"

	"github.com/labstack/gommon/log"
)

// Task represents a unit of work executed by the pool.
type Task func()

// Pool runs background tasks such as removing files that a failed request left behind.
type Pool interface {
	// Submit queues t and reports false once the pool has been stopped.
	Submit(Task) bool
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task, n)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				run(job)
			}
		}()
	}
	return p
}

type pool struct {
	mu      sync.RWMutex
	stopped bool
	jobs    chan Task
	wg      sync.WaitGroup
}

// run keeps one panicking task from taking its worker down.
func run(t Task) {
	if t == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("worker: task panicked: %v", r)
		}
	}()
	t()
}

func (p *pool) Submit(t Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	p.jobs <- t
	return true
}

// Stop waits for queued tasks to finish.
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// Inline runs every task synchronously on the caller's goroutine.
type Inline struct{}

func (Inline) Submit(t Task) bool { run(t); return true }
func (Inline) Stop()              {}
