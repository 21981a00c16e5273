// Package parallel runs independent jobs, such as encoding the frames of
// an exported sequence, on a fixed set of worker goroutines.
//
// Thread safety: WorkerPool is safe for concurrent use.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Job is one unit of work. A non-nil error is recorded by the pool.
type Job func() error

// WorkerPool distributes jobs round-robin over per-worker queues. A worker
// whose queue is empty steals from the others, so a few slow jobs do not
// hold up the rest.
type WorkerPool struct {
	workers int
	queues  []chan Job
	done    chan struct{}
	wg      sync.WaitGroup
	next    atomic.Uint64

	// mu is held for reading while a job is queued, so Close never
	// strands one in the queue of a stopped worker.
	mu     sync.RWMutex
	closed bool

	// pending counts jobs submitted but not yet finished.
	pending sync.WaitGroup

	errMu sync.Mutex
	err   error
}

// NewWorkerPool starts a pool of the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan Job, workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan Job, queueSize)
	}

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case job := <-own:
			p.run(job)
			continue
		default:
		}
		if job := p.steal(id); job != nil {
			p.run(job)
			continue
		}
		select {
		case job := <-own:
			p.run(job)
		case <-p.done:
			p.drain(own)
			return
		}
	}
}

// steal takes a queued job from another worker, or returns nil.
func (p *WorkerPool) steal(id int) Job {
	for i := range p.queues {
		if i == id {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
		}
	}
	return nil
}

func (p *WorkerPool) drain(queue chan Job) {
	for {
		select {
		case job := <-queue:
			p.run(job)
		default:
			return
		}
	}
}

func (p *WorkerPool) run(job Job) {
	defer p.pending.Done()
	if err := job(); err != nil {
		p.errMu.Lock()
		if p.err == nil {
			p.err = err
		}
		p.errMu.Unlock()
	}
}

// Submit queues job, blocking while the chosen worker's queue is full.
// It reports false if the pool is closed.
func (p *WorkerPool) Submit(job Job) bool {
	if job == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.pending.Add(1)
	p.queues[int(p.next.Add(1)-1)%p.workers] <- job
	return true
}

// Wait blocks until every submitted job has finished and returns the
// first error any of them reported.
func (p *WorkerPool) Wait() error {
	p.pending.Wait()
	return p.Err()
}

// Err returns the first job error reported so far.
func (p *WorkerPool) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}

// Close stops accepting jobs, finishes the queued ones and stops the
// workers. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}
