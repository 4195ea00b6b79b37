package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"course-builder/internal/platform/metrics"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	return nil
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestGateway(clock *fakeClock, minInterval time.Duration) *Gateway {
	return NewWithClock(Config{RequestsPerWindow: 50, Window: time.Minute, MinInterval: minInterval}, clock, testLogger(), nil)
}

// scripted returns a Call that replays responses in order; the last one repeats.
func scripted(calls *int, responses ...*Response) Call {
	return func(ctx context.Context) (*Response, error) {
		i := *calls
		*calls++
		if i >= len(responses) {
			i = len(responses) - 1
		}
		return responses[i], nil
	}
}

func ok(body string) *Response {
	return &Response{StatusCode: http.StatusOK, Body: []byte(body)}
}

func TestThrottle_success(t *testing.T) {
	g := newTestGateway(newFakeClock(), 0)
	calls := 0

	body, err := g.Throttle(context.Background(), scripted(&calls, ok(`{"items":[]}`)), DefaultOptions())
	if err != nil {
		t.Fatalf("Throttle: %v", err)
	}
	if string(body) != `{"items":[]}` {
		t.Errorf("body = %s", body)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if g.InWindow() != 1 {
		t.Errorf("expected 1 dispatch in window, got %d", g.InWindow())
	}
}

func TestThrottle_window_full_waits_for_oldest(t *testing.T) {
	clock := newFakeClock()
	g := newTestGateway(clock, 0)

	var dispatched []time.Time
	call := func(ctx context.Context) (*Response, error) {
		dispatched = append(dispatched, clock.Now())
		return ok("{}"), nil
	}

	for i := 0; i < 51; i++ {
		if _, err := g.Throttle(context.Background(), call, DefaultOptions()); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	if len(dispatched) != 51 {
		t.Fatalf("expected 51 dispatches, got %d", len(dispatched))
	}
	for i := 1; i < 50; i++ {
		if !dispatched[i].Equal(dispatched[0]) {
			t.Fatalf("dispatch %d waited unexpectedly", i)
		}
	}
	if waited := dispatched[50].Sub(dispatched[0]); waited < time.Minute {
		t.Errorf("51st call dispatched after %v, want >= 1m", waited)
	}
	if sleeps := clock.Sleeps(); len(sleeps) != 1 || sleeps[0] != time.Minute+windowBuffer {
		t.Errorf("expected one wait of 61s, got %v", sleeps)
	}
}

func TestThrottle_min_interval(t *testing.T) {
	clock := newFakeClock()
	g := newTestGateway(clock, 100*time.Millisecond)
	calls := 0

	for i := 0; i < 2; i++ {
		if _, err := g.Throttle(context.Background(), scripted(&calls, ok("{}")), DefaultOptions()); err != nil {
			t.Fatal(err)
		}
	}
	sleeps := clock.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != 100*time.Millisecond {
		t.Errorf("expected a single 100ms spacing wait, got %v", sleeps)
	}
}

func TestThrottle_quota_exceeded_not_retried(t *testing.T) {
	clock := newFakeClock()
	g := NewWithClock(Config{}, clock, testLogger(), metrics.New())
	calls := 0
	quota := &Response{
		StatusCode: http.StatusForbidden,
		Body:       []byte(`{"error":{"code":403,"errors":[{"reason":"quotaExceeded"}]}}`),
	}

	_, err := g.Throttle(context.Background(), scripted(&calls, quota, ok("{}")), Options{Delay: time.Second, MaxRetries: 5, BackoffMultiplier: 2})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if calls != 1 {
		t.Errorf("quota must not be retried, got %d calls", calls)
	}
	if len(clock.Sleeps()) != 0 {
		t.Errorf("quota must not sleep, got %v", clock.Sleeps())
	}
}

func TestThrottle_forbidden_without_quota_is_retried(t *testing.T) {
	g := newTestGateway(newFakeClock(), 0)
	calls := 0
	forbidden := &Response{StatusCode: http.StatusForbidden, Body: []byte(`{"error":{"message":"forbidden"}}`)}

	body, err := g.Throttle(context.Background(), scripted(&calls, forbidden, ok("done")), DefaultOptions())
	if err != nil {
		t.Fatalf("Throttle: %v", err)
	}
	if string(body) != "done" || calls != 2 {
		t.Errorf("body=%s calls=%d", body, calls)
	}
}

func TestThrottle_rate_limited_honors_retry_after(t *testing.T) {
	clock := newFakeClock()
	g := newTestGateway(clock, 0)
	calls := 0
	limited := &Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": []string{"7"}}}

	body, err := g.Throttle(context.Background(), scripted(&calls, limited, ok("after")), DefaultOptions())
	if err != nil {
		t.Fatalf("Throttle: %v", err)
	}
	if string(body) != "after" || calls != 2 {
		t.Errorf("body=%s calls=%d", body, calls)
	}
	sleeps := clock.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != 7*time.Second {
		t.Errorf("expected only the 7s retry-after wait, got %v", sleeps)
	}
}

func TestThrottle_rate_limited_default_hint_and_attempt_budget(t *testing.T) {
	clock := newFakeClock()
	g := newTestGateway(clock, 0)
	calls := 0
	limited := &Response{StatusCode: http.StatusTooManyRequests}

	_, err := g.Throttle(context.Background(), scripted(&calls, limited), Options{Delay: time.Second, MaxRetries: 2, BackoffMultiplier: 2})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected exhausted RequestError, got %v", err)
	}
	if calls != 2 {
		t.Errorf("429 consumes an attempt: expected 2 calls, got %d", calls)
	}
	sleeps := clock.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != 60*time.Second {
		t.Errorf("expected one default 60s wait, got %v", sleeps)
	}
}

func TestThrottle_exponential_backoff_then_failure(t *testing.T) {
	clock := newFakeClock()
	g := newTestGateway(clock, 0)
	calls := 0
	failing := &Response{StatusCode: http.StatusBadGateway, Body: []byte("upstream boom")}

	body, err := g.Throttle(context.Background(), scripted(&calls, failing), Options{Delay: time.Second, MaxRetries: 4, BackoffMultiplier: 2})
	if body != nil {
		t.Errorf("expected nil body, got %s", body)
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T %v", err, err)
	}
	if reqErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", reqErr.StatusCode)
	}
	if !strings.Contains(reqErr.Message, "upstream boom") {
		t.Errorf("message should carry last error, got %q", reqErr.Message)
	}
	if calls != 4 {
		t.Errorf("expected 4 attempts, got %d", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	got := clock.Sleeps()
	if len(got) != len(want) {
		t.Fatalf("sleeps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestThrottle_network_error_then_success(t *testing.T) {
	g := newTestGateway(newFakeClock(), 0)
	calls := 0
	call := func(ctx context.Context) (*Response, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return ok("recovered"), nil
	}

	body, err := g.Throttle(context.Background(), call, DefaultOptions())
	if err != nil || string(body) != "recovered" {
		t.Errorf("body=%s err=%v", body, err)
	}
}

func TestThrottle_context_cancelled(t *testing.T) {
	g := newTestGateway(newFakeClock(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0

	_, err := g.Throttle(ctx, scripted(&calls, &Response{StatusCode: http.StatusInternalServerError}), DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestThrottle_concurrent_callers_share_window(t *testing.T) {
	g := newTestGateway(newFakeClock(), 0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = g.Throttle(context.Background(), func(ctx context.Context) (*Response, error) {
				return ok("{}"), nil
			}, DefaultOptions())
		}()
	}
	wg.Wait()

	if got := g.InWindow(); got != 20 {
		t.Errorf("expected 20 dispatches recorded, got %d", got)
	}
}

func TestRetryAfter(t *testing.T) {
	if got := retryAfter(http.Header{"Retry-After": []string{"3"}}); got != 3*time.Second {
		t.Errorf("retryAfter(3) = %v", got)
	}
	if got := retryAfter(http.Header{"Retry-After": []string{"Wed, 21 Oct 2015 07:28:00 GMT"}}); got != defaultRetryAfter {
		t.Errorf("unparseable hint should use default, got %v", got)
	}
	if got := retryAfter(nil); got != defaultRetryAfter {
		t.Errorf("missing header should use default, got %v", got)
	}
}
