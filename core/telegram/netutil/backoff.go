package netutil

import (
	"context"
	"time"
)

// Backoff is a linear retry policy for calls to the Telegram API. The delay
// before try n+1 is Step*n.
type Backoff struct {
	Attempts int
	Step     time.Duration
	// OnRetry, when set, runs before each wait.
	OnRetry func(try int, delay time.Duration, err error)
}

// Do calls fn until it succeeds, fails with an error ShouldRetry rejects, or
// the attempts run out. It reports how many tries were made and the last
// error. A done ctx stops the loop with ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func(try int) error) (int, error) {
	tries := max(b.Attempts, 1)
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return n - 1, err
		}
		err := fn(n)
		if err == nil || n == tries || !ShouldRetry(err) {
			return n, err
		}
		delay := b.Step * time.Duration(n)
		if b.OnRetry != nil {
			b.OnRetry(n, delay, err)
		}
		if delay <= 0 {
			continue
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return n, ctx.Err()
		case <-t.C:
		}
	}
}
