package reconcile

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type WorkerPoolI interface {
	AddTask(ctx context.Context, task Task) error
	Close()
}

type Task func() error

type job struct {
	task Task
	done chan error
}

// WorkerPool runs tasks on a fixed number of goroutines.
type WorkerPool struct {
	pool      chan job
	closeOnce sync.Once
}

func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{pool: make(chan job)}

	for i := 0; i < size; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	for j := range wp.pool {
		err := j.task()
		if err != nil {
			zap.L().Error("task execution failed", zap.Error(err))
		}
		j.done <- err
	}
}

// AddTask hands the task to a free worker and waits for its result.
func (wp *WorkerPool) AddTask(ctx context.Context, task Task) error {
	j := job{task: task, done: make(chan error, 1)}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case wp.pool <- j:
	}
	return <-j.done
}

func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() { close(wp.pool) })
}
