// Package dispatch runs update handlers on a fixed set of workers so that
// updates of one chat execute strictly in arrival order while different
// chats proceed in parallel.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/m3rciful/coinbot/core/logger"
)

// ErrClosed is returned when Submit is called after Close.
var ErrClosed = errors.New("dispatch: executor closed")

// Options sizes the executor. Zero values select defaults.
type Options struct {
	Workers   int
	QueueSize int
}

type job struct {
	ctx  context.Context
	name string
	run  func(context.Context) error
}

// Executor owns one queue and goroutine per shard; a key always maps to the same shard.
type Executor struct {
	shards []chan job
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts an executor with opts.Workers shards.
func New(opts Options) *Executor {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	e := &Executor{shards: make([]chan job, opts.Workers)}
	e.wg.Add(opts.Workers)
	for i := range e.shards {
		ch := make(chan job, opts.QueueSize)
		e.shards[i] = ch
		go e.worker(ch)
	}
	return e
}

// Submit queues run on the shard owning key. It blocks while that shard's queue is full.
func (e *Executor) Submit(ctx context.Context, key int64, name string, run func(context.Context) error) error {
	if run == nil {
		return errors.New("dispatch: nil run function")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrClosed
	}
	e.shards[e.shardFor(key)] <- job{ctx: ctx, name: name, run: run}
	return nil
}

func (e *Executor) shardFor(key int64) int {
	return int(uint64(key) % uint64(len(e.shards)))
}

// Close stops accepting jobs and waits until every queued job has run.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	for _, ch := range e.shards {
		close(ch)
	}
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Executor) worker(jobs <-chan job) {
	defer e.wg.Done()
	for j := range jobs {
		e.handle(j)
	}
}

func (e *Executor) handle(j job) {
	start := time.Now()
	err := runSafely(j)
	if err == nil {
		return
	}
	logger.Error(j.ctx, logger.CompDispatch, "job.fail",
		slog.String("handler", j.name),
		slog.String("err", SanitizeError(err)),
		slog.String("error_kind", ClassifyError(err)),
		slog.Duration("duration", logger.Took(start)),
	)
}

func runSafely(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(j.ctx, logger.CompDispatch, "job.panic",
				slog.String("handler", j.name),
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return j.run(j.ctx)
}
