package notify

import (
	"sync"

	"go.uber.org/zap"
)

type Task func() error

// WorkerPool runs tasks on a fixed set of goroutines fed from a bounded queue.
type WorkerPool struct {
	pool   chan Task
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewWorkerPool(workers, queue int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	wp := &WorkerPool{pool: make(chan Task, queue)}

	wp.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.pool {
		if err := task(); err != nil {
			zap.L().Error("Task execution failed", zap.Error(err))
		}
	}
}

// TryAdd enqueues task without blocking. It reports false when the queue is full or the
// pool is closed.
func (wp *WorkerPool) TryAdd(task Task) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return false
	}
	select {
	case wp.pool <- task:
		return true
	default:
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.pool)
	}
	wp.mu.Unlock()
	wp.wg.Wait()
}
