package sender

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("send: %w", tele.ErrBlockedByUser), "blocked"},
		{tele.ErrChatNotFound, "chat_not_found"},
		{tele.NewError(502, "Bad Gateway"), "http_5xx"},
		{errors.New("telegram: something odd (418)"), "http_4xx"},
		{errors.New("boom"), "unknown"},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestSanitizeErrorRedactsToken(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:ABC-def_9/sendMessage": timeout`)
	got := SanitizeError(err)
	if want := `Post "https://api.telegram.org/bot<redacted>/sendMessage": timeout`; got != want {
		t.Fatalf("SanitizeError = %q, want %q", got, want)
	}
}

func TestDispatcherRunsQueuedJobs(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2, RetryBackoff: time.Millisecond})

	var (
		mu  sync.Mutex
		ran int
	)
	for i := 0; i < 5; i++ {
		if err := d.Enqueue(context.Background(), "send", "sendMessage", func() error {
			mu.Lock()
			ran++
			mu.Unlock()
			return nil
		}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	d.Close()

	if ran != 5 {
		t.Fatalf("ran %d jobs, want 5", ran)
	}
	if err := d.Enqueue(context.Background(), "send", "", func() error { return nil }); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed after Close, got %v", err)
	}
}

func TestDispatcherCountsPermanentFailures(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 3, RetryBackoff: time.Millisecond})
	calls := 0
	_ = d.Enqueue(context.Background(), "send", "sendMessage", func() error {
		calls++
		return tele.ErrBlockedByUser
	})
	d.Close()

	if calls != 1 {
		t.Fatalf("permanent failure retried: %d calls", calls)
	}
	if d.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1", d.ErrorCount())
	}
}

func TestDispatcherRetriesTransientFailures(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})
	calls := 0
	_ = d.Enqueue(context.Background(), "send", "sendMessage", func() error {
		calls++
		if calls < 3 {
			return context.DeadlineExceeded
		}
		return nil
	})
	d.Close()
	d.Close()

	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if d.ErrorCount() != 0 {
		t.Fatalf("ErrorCount = %d, want 0", d.ErrorCount())
	}
}

func TestDispatcherThrottlesSends(t *testing.T) {
	d := NewDispatcher(Options{Workers: 3, PerSecond: 50})
	start := time.Now()
	for i := 0; i < 60; i++ {
		if err := d.Enqueue(context.Background(), "send", "", func() error { return nil }); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	d.Close()
	// 50 tokens are available at once, the remaining 10 need about 200ms.
	if took := time.Since(start); took < 150*time.Millisecond {
		t.Fatalf("60 sends at 50/s took %v", took)
	}
}
