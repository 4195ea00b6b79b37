package gateway

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"course-builder/internal/platform/metrics"
)

// Defaults for the provider's per-minute ceiling.
const (
	DefaultRequestsPerWindow = 50
	DefaultWindow            = time.Minute
	DefaultMinInterval       = 100 * time.Millisecond

	// windowBuffer is added when waiting for the oldest dispatch to leave the window.
	windowBuffer = time.Second
	// defaultRetryAfter applies to a 429 without a usable Retry-After header.
	defaultRetryAfter = 60 * time.Second
)

// Response is the raw outcome of one outbound call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Call performs one outbound attempt. A non-nil error means the call never
// produced a response (network failure, timeout).
type Call func(ctx context.Context) (*Response, error)

// Options tune retry behaviour for a single Throttle invocation.
type Options struct {
	// Delay is the first backoff sleep after a failed attempt.
	Delay time.Duration
	// MaxRetries is the total number of attempts, including the first.
	MaxRetries int
	// BackoffMultiplier scales Delay after each failed attempt.
	BackoffMultiplier float64
}

// DefaultOptions returns 3 attempts starting at 1s and doubling.
func DefaultOptions() Options {
	return Options{Delay: time.Second, MaxRetries: 3, BackoffMultiplier: 2}
}

func (o Options) normalized() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = 1
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.BackoffMultiplier < 1 {
		o.BackoffMultiplier = 1
	}
	return o
}

// Config sets the shared throttling limits.
type Config struct {
	RequestsPerWindow int
	Window            time.Duration
	MinInterval       time.Duration
}

// Gateway throttles and retries calls to the video provider. One instance is
// shared by every caller in the process; dispatch timing is serialized across
// goroutines.
type Gateway struct {
	cfg     Config
	clock   Clock
	log     *slog.Logger
	metrics *metrics.Metrics

	// turn is a one-slot semaphore guarding window and lastDispatch.
	turn         chan struct{}
	window       []time.Time
	lastDispatch time.Time
}

// New returns a Gateway using the real clock. Zero fields in cfg fall back to
// the defaults. Metrics may be nil.
func New(cfg Config, log *slog.Logger, m *metrics.Metrics) *Gateway {
	return NewWithClock(cfg, realClock{}, log, m)
}

// NewWithClock is New with an explicit Clock.
func NewWithClock(cfg Config, clock Clock, log *slog.Logger, m *metrics.Metrics) *Gateway {
	if cfg.RequestsPerWindow <= 0 {
		cfg.RequestsPerWindow = DefaultRequestsPerWindow
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	return &Gateway{
		cfg:     cfg,
		clock:   clock,
		log:     log,
		metrics: m,
		turn:    make(chan struct{}, 1),
	}
}

// Throttle runs call under the shared rate limit and retry policy.
//
// A 2xx response returns its body. A 403 whose body mentions the quota
// returns ErrQuotaExceeded immediately. A 429 sleeps for the Retry-After hint
// (60s when absent) and uses up one attempt without growing the backoff
// delay. Any other failure sleeps for the current delay, multiplies it and
// tries again. Once attempts run out the result is a *RequestError with
// StatusCode 500 carrying the last failure.
func (g *Gateway) Throttle(ctx context.Context, call Call, opts Options) ([]byte, error) {
	opts = opts.normalized()
	delay := opts.Delay
	var lastErr error

	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		if err := g.waitTurn(ctx); err != nil {
			return nil, err
		}

		resp, err := call(ctx)
		switch {
		case err != nil:
			g.record(metrics.UpstreamError)
			lastErr = err

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			g.record(metrics.UpstreamSuccess)
			return resp.Body, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			g.record(metrics.UpstreamRateLimited)
			lastErr = &RequestError{StatusCode: resp.StatusCode, Message: "rate limited"}
			if attempt == opts.MaxRetries {
				continue
			}
			wait := retryAfter(resp.Header)
			g.log.Debug("provider rate limited, honoring retry-after",
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait))
			if err := g.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue

		case resp.StatusCode == http.StatusForbidden && isQuotaBody(resp.Body):
			g.record(metrics.UpstreamQuota)
			g.log.Error("provider quota exceeded", slog.Int("attempt", attempt))
			return nil, ErrQuotaExceeded

		default:
			g.record(metrics.UpstreamError)
			lastErr = &RequestError{StatusCode: resp.StatusCode, Message: snippet(resp.Body)}
		}

		if attempt == opts.MaxRetries {
			break
		}
		g.log.Debug("provider call failed, backing off",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", lastErr.Error()))
		if err := g.sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay = time.Duration(float64(delay) * opts.BackoffMultiplier)
	}

	return nil, exhausted(lastErr)
}

// waitTurn blocks until a dispatch is allowed under both the sliding window
// and the minimum spacing, then records the dispatch.
func (g *Gateway) waitTurn(ctx context.Context) error {
	select {
	case g.turn <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-g.turn }()

	for {
		now := g.clock.Now()
		g.pruneLocked(now)
		if len(g.window) < g.cfg.RequestsPerWindow {
			break
		}
		wait := g.window[0].Add(g.cfg.Window).Sub(now) + windowBuffer
		g.log.Debug("request window full, waiting",
			slog.Int("in_window", len(g.window)),
			slog.Duration("wait", wait))
		if err := g.sleep(ctx, wait); err != nil {
			return err
		}
	}

	if !g.lastDispatch.IsZero() {
		if since := g.clock.Now().Sub(g.lastDispatch); since < g.cfg.MinInterval {
			if err := g.sleep(ctx, g.cfg.MinInterval-since); err != nil {
				return err
			}
		}
	}

	now := g.clock.Now()
	g.lastDispatch = now
	g.window = append(g.window, now)
	return nil
}

// pruneLocked drops dispatches older than the window. Caller must hold turn.
func (g *Gateway) pruneLocked(now time.Time) {
	i := 0
	for i < len(g.window) && now.Sub(g.window[i]) >= g.cfg.Window {
		i++
	}
	if i > 0 {
		g.window = append(g.window[:0], g.window[i:]...)
	}
}

// InWindow returns the number of dispatches counted in the current window.
func (g *Gateway) InWindow() int {
	g.turn <- struct{}{}
	defer func() { <-g.turn }()
	g.pruneLocked(g.clock.Now())
	return len(g.window)
}

func (g *Gateway) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if g.metrics != nil {
		g.metrics.AddGatewayWait(d)
	}
	return g.clock.Sleep(ctx, d)
}

func (g *Gateway) record(outcome string) {
	if g.metrics != nil {
		g.metrics.IncUpstream(outcome)
	}
}

func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return defaultRetryAfter
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After"))); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultRetryAfter
}

func isQuotaBody(body []byte) bool {
	lower := bytes.ToLower(body)
	return bytes.Contains(lower, []byte("quota")) || bytes.Contains(lower, []byte("dailylimitexceeded"))
}

func snippet(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		s = s[:limit]
	}
	return s
}
