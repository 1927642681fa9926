package render

import (
	"context"
	"errors"
	"time"
)

// ErrWorkerClosed is returned for submissions after Close.
var ErrWorkerClosed = errors.New("render worker closed")

type result struct {
	pdf []byte
	err error
}

type request struct {
	ctx  context.Context
	job  Job
	done chan result
}

// Worker owns the renderer and runs all render jobs on one dedicated
// goroutine, one at a time. Every submission is bounded by the worker
// timeout so an unresponsive browser cannot wedge a request forever.
type Worker struct {
	renderer Renderer
	timeout  time.Duration
	jobs     chan request
	quit     chan struct{}
	done     chan struct{}
}

// NewWorker starts the single render goroutine. timeout bounds each
// job; zero means 60s.
func NewWorker(r Renderer, timeout time.Duration) *Worker {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	w := &Worker{
		renderer: r,
		timeout:  timeout,
		jobs:     make(chan request),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Worker) run() {
	defer close(w.done)
	for {
		select {
		case req := <-w.jobs:
			pdf, err := w.renderer.Render(req.ctx, req.job)
			req.done <- result{pdf: pdf, err: err}
		case <-w.quit:
			return
		}
	}
}

// Render submits a job and blocks until the worker returns, the
// timeout elapses, or ctx is cancelled. A timed-out job's result is
// discarded when it eventually finishes; the worker stays usable.
func (w *Worker) Render(ctx context.Context, job Job) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req := request{ctx: ctx, job: job, done: make(chan result, 1)}

	select {
	case w.jobs <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.quit:
		return nil, ErrWorkerClosed
	}

	select {
	case res := <-req.done:
		return res.pdf, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the worker goroutine and shuts down the renderer.
func (w *Worker) Close() error {
	close(w.quit)
	<-w.done
	return w.renderer.Close()
}
