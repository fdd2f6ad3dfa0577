package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestExecutorPreservesPerKeyOrder(t *testing.T) {
	e := New(Options{Workers: 4, QueueSize: 2})

	var mu sync.Mutex
	seen := map[int64][]int{}
	for i := 0; i < 50; i++ {
		for _, key := range []int64{-1001, 7, 42} {
			key, i := key, i
			err := e.Submit(context.Background(), key, "test", func(context.Context) error {
				mu.Lock()
				seen[key] = append(seen[key], i)
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
		}
	}
	e.Close()

	for key, order := range seen {
		if len(order) != 50 {
			t.Fatalf("key %d ran %d jobs, want 50", key, len(order))
		}
		for i, v := range order {
			if v != i {
				t.Fatalf("key %d: job %d ran at position %d", key, v, i)
			}
		}
	}
}

func TestExecutorRunsDifferentKeysConcurrently(t *testing.T) {
	e := New(Options{Workers: 2, QueueSize: 1})
	defer e.Close()

	release := make(chan struct{})
	done := make(chan struct{})
	_ = e.Submit(context.Background(), 0, "blocked", func(context.Context) error {
		<-release
		return nil
	})
	_ = e.Submit(context.Background(), 1, "free", func(context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job on another shard was blocked by a slow chat")
	}
	close(release)
}

func TestExecutorCloseDrainsAndRejects(t *testing.T) {
	e := New(Options{Workers: 1, QueueSize: 8})
	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		_ = e.Submit(context.Background(), 1, "n", func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	e.Close()
	if ran.Load() != 5 {
		t.Fatalf("ran %d jobs before close returned, want 5", ran.Load())
	}
	if err := e.Submit(context.Background(), 1, "late", func(context.Context) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Fatalf("submit after close = %v, want ErrClosed", err)
	}
	e.Close()
}

func TestExecutorSurvivesPanics(t *testing.T) {
	e := New(Options{Workers: 1})
	var after atomic.Bool
	_ = e.Submit(context.Background(), 3, "panics", func(context.Context) error { panic("boom") })
	_ = e.Submit(context.Background(), 3, "after", func(context.Context) error {
		after.Store(true)
		return nil
	})
	e.Close()
	if !after.Load() {
		t.Fatal("worker died after panic")
	}
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("wrap: %w", context.Canceled), "cancelled"},
		{&tele.Error{Code: 400, Description: "Bad Request: message is not modified"}, "http_4xx"},
		{&tele.Error{Code: 502}, "http_5xx"},
		{errors.New("mystery"), "unknown"},
	}
	for _, tc := range cases {
		if got := ClassifyError(tc.err); got != tc.want {
			t.Fatalf("ClassifyError(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestSanitizeErrorRedactsToken(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:ABC-def_1/sendMessage": EOF`)
	got := SanitizeError(err)
	if got != `Post "https://api.telegram.org/bot<redacted>/sendMessage": EOF` {
		t.Fatalf("SanitizeError = %s", got)
	}
}
