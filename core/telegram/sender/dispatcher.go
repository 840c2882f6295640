// Package sender runs outbound Telegram calls on a small worker pool with
// retries and a shared send rate.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/core/telegram/netutil"
)

var (
	// ErrQueueClosed is returned by Enqueue after Close.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull means the job was rejected because the queue is saturated.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

// Options controls the dispatcher. Zero values get defaults.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent on one job, retries included.
	MaxDuration time.Duration
	// PerSecond caps calls across all workers; 0 leaves them unthrottled.
	PerSecond float64
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	o.MaxRetries = max(o.MaxRetries, 0)
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 2 * time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 12 * time.Second
	}
	return o
}

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
}

func (j job) attrs(extra ...slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(extra)+2)
	out = append(out, slog.String("action", j.action))
	if j.endpoint != "" {
		out = append(out, slog.String("endpoint", j.endpoint))
	}
	return append(out, extra...)
}

// Dispatcher executes queued Telegram calls asynchronously.
type Dispatcher struct {
	opts    Options
	limiter *rate.Limiter
	jobs    chan job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	failed atomic.Uint64
}

// NewDispatcher starts the worker pool.
func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{
		opts: opts,
		jobs: make(chan job, opts.QueueSize),
	}
	if opts.PerSecond > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(opts.PerSecond), max(1, int(opts.PerSecond)))
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go func() {
			defer d.wg.Done()
			for j := range d.jobs {
				d.process(j)
			}
		}()
	}
	return d
}

// Enqueue schedules run. The closure must be safe to call again when
// retries are enabled.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.jobs <- job{ctx: ctx, action: action, endpoint: endpoint, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns the number of jobs that finally failed.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.failed.Load()
}

// Close rejects new jobs, drains the queue and waits for the workers.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) process(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	policy := netutil.Backoff{
		Attempts: d.opts.MaxRetries + 1,
		Step:     d.opts.RetryBackoff,
		OnRetry: func(try int, delay time.Duration, _ error) {
			logger.Debug(j.ctx, "tg.sender", "send.retry.backoff",
				j.attrs(slog.Int("attempt", try), slog.Duration("delay", delay))...)
		},
	}
	tries, err := policy.Do(ctx, func(int) error {
		if d.limiter != nil {
			if werr := d.limiter.Wait(ctx); werr != nil {
				return werr
			}
		}
		return j.run()
	})
	elapsed := slog.Duration("elapsed", time.Since(start))

	if err != nil {
		d.failed.Add(1)
		logger.Error(j.ctx, "tg.sender", "send.fail", j.attrs(
			slog.String("err", SanitizeError(err)),
			slog.String("error_kind", Classify(err)),
			slog.Int("attempts", tries),
			elapsed,
		)...)
		return
	}
	if tries > 1 {
		logger.Info(j.ctx, "tg.sender", "send.retry.success", j.attrs(slog.Int("attempt", tries), elapsed)...)
		return
	}
	if logger.ShouldSampleDebug() {
		logger.Debug(j.ctx, "tg.sender", "send.success", j.attrs(elapsed)...)
	}
}
