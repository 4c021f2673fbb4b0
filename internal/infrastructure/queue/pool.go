package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sundevs/user-access-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrPoolClosed is returned by Do once the pool's context has been cancelled.
var ErrPoolClosed = errors.New("worker pool closed")

type job struct {
	fn   func() error
	done chan error
}

// Pool runs CPU-bound jobs (password hashing) on a fixed set of workers so a
// burst of requests cannot occupy every core at once.
type Pool struct {
	jobs     chan job
	workers  int
	quit     chan struct{}
	quitOnce sync.Once
	log      zerolog.Logger
}

// NewPool creates a Pool with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewPool(numWorkers int, log zerolog.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Pool{
		jobs:    make(chan job, channelBuffer),
		workers: numWorkers,
		quit:    make(chan struct{}),
		log:     log,
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		p.quitOnce.Do(func() { close(p.quit) })
	}()
}

// Do runs fn on a worker and waits for its result. If ctx ends first, Do
// returns ctx.Err(); the job itself is not interrupted and is never retried.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	j := job{fn: fn, done: make(chan error, 1)}

	select {
	case p.jobs <- j:
		metrics.HashQueueDepth.Set(float64(len(p.jobs)))
	case <-p.quit:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-p.quit:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			metrics.HashQueueDepth.Set(float64(len(p.jobs)))
			j.done <- p.run(id, j.fn)
		}
	}
}

func (p *Pool) run(id int, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Int("worker_id", id).Msg("pool job panicked")
			err = fmt.Errorf("pool job panicked: %v", r)
		}
	}()
	return fn()
}
