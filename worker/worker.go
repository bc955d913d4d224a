package worker

import (
	"sync"
	"sync/atomic"

	"github.com/myeof/gonetmsg/pkg/logger"
)

// Worker runs message handlers on a fixed set of goroutines.
type Worker struct {
	wg   sync.WaitGroup
	jobs chan func()
	n    int64
}

// NewWorker create a new worker
// n: number of workers
// l: task queue length
func NewWorker(n, l int) *Worker {
	if n < 1 {
		n = 1
	}
	w := Worker{
		jobs: make(chan func(), l),
	}
	// 启动多个goroutine作为worker
	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for job := range w.jobs {
				w.run(job)
			}
		}()
	}
	return &w
}

// run executes one job, keeping a panicking handler from killing the worker goroutine.
func (w *Worker) run(job func()) {
	atomic.AddInt64(&w.n, 1)
	defer atomic.AddInt64(&w.n, -1)
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("Job panicked", "panic", r)
		}
	}()
	job()
}

// StartJob queues job, blocking while the queue is full.
// It must not be called after Shutdown.
func (w *Worker) StartJob(job func()) {
	w.jobs <- job
}

// Shutdown stops accepting jobs, waits for queued ones to finish and returns a closed channel.
func (w *Worker) Shutdown() chan struct{} {
	close(w.jobs)
	w.wg.Wait()
	ch := make(chan struct{})
	defer close(ch)
	return ch
}

func (w *Worker) Running() int64 {
	return atomic.LoadInt64(&w.n)
}

func (w *Worker) Pending() int {
	return len(w.jobs)
}

func (w *Worker) Status() {
	logger.Infof("[%d] jobs running, [%d] job pendding", w.Running(), w.Pending())
}
