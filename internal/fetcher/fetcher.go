// Package fetcher retrieves single documents over HTTP with bounded retries,
// backing off exponentially between failed attempts.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// ErrAttemptsExhausted is returned when every attempt failed. It carries no
// detail about the last failure; the per-attempt log lines do.
var ErrAttemptsExhausted = errors.New("fetch attempts exhausted")

var errNoResponse = errors.New("no response received")

// Attempt outcomes reported to the Observer.
const (
	OutcomeOK     = "ok"
	OutcomeStatus = "status"
	OutcomeError  = "error"
)

// Config controls the retry loop and each request.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Timeout     time.Duration
	UserAgents  []string
}

// Response is a successful (HTTP 200) fetch.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	FinalURL   string
}

// Sleeper waits between attempts.
type Sleeper interface {
	Sleep(ctx context.Context, delay time.Duration) error
}

// Observer receives per-attempt telemetry.
type Observer interface {
	ObserveAttempt(outcome string)
	ObserveBackoff(delay time.Duration)
}

// Fetcher issues GET requests through a colly collector.
type Fetcher struct {
	cfg           Config
	agents        *Picker
	baseCollector *colly.Collector
	sleeper       Sleeper
	observer      Observer
	logger        *zap.Logger
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher. observer and logger may be nil.
func New(cfg Config, sleeper Sleeper, observer Observer, logger *zap.Logger) (*Fetcher, error) {
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("max attempts must be > 0")
	}
	if cfg.BaseDelay < 0 {
		return nil, fmt.Errorf("base delay must be >= 0")
	}
	if sleeper == nil {
		return nil, fmt.Errorf("sleeper is required")
	}
	agents, err := NewPicker(cfg.UserAgents)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		cfg:           cfg,
		agents:        agents,
		baseCollector: newCollector(cfg.Timeout),
		sleeper:       sleeper,
		observer:      observer,
		logger:        logger,
	}, nil
}

// Fetch GETs target until it answers 200 or the attempt bound is reached.
// A non-200 status is retried exactly like a network error and is never
// returned; after the last failed attempt the result is ErrAttemptsExhausted.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*Response, error) {
	machine := newRetryMachine(f.cfg.MaxAttempts, f.cfg.BaseDelay)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetch %s canceled: %w", target, err)
		}
		index := machine.attempt
		resp, err := f.attempt(ctx, target)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("fetch %s canceled: %w", target, ctx.Err())
		}
		outcome := classify(resp, err)
		f.logAttempt(index, target, resp, err)
		f.observeAttempt(outcome)

		delay := machine.record(outcome == OutcomeOK)
		switch machine.state {
		case stateSucceeded:
			return resp, nil
		case stateFailed:
			f.logger.Error("fetch failed after all attempts",
				zap.String("url", target),
				zap.Int("attempts", f.cfg.MaxAttempts),
			)
			return nil, ErrAttemptsExhausted
		}

		f.logger.Info("backing off before retry",
			zap.String("url", target),
			zap.Duration("delay", delay),
			zap.Int("next_attempt", machine.attempt+1),
		)
		f.observeBackoff(delay)
		if err := f.sleeper.Sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("fetch %s backoff: %w", target, err)
		}
	}
}

func (f *Fetcher) attempt(ctx context.Context, target string) (*Response, error) {
	var (
		result   *Response
		fetchErr error
	)
	collector := f.baseCollector.Clone()
	collector.Context = ctx
	collector.UserAgent = f.agents.Pick()
	configureHooks(collector, &result, &fetchErr)

	if err := runCollector(ctx, func() error { return collector.Visit(target) }, &fetchErr); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("visit %s: %w", target, errNoResponse)
	}
	return result, nil
}

func configureHooks(hooks collectorHooks, result **Response, fetchErr *error) {
	hooks.OnResponse(func(r *colly.Response) {
		resp := &Response{
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
		}
		if r.Headers != nil {
			resp.Headers = r.Headers.Clone()
		}
		if r.Request != nil && r.Request.URL != nil {
			resp.FinalURL = r.Request.URL.String()
		}
		*result = resp
	})

	hooks.OnError(func(_ *colly.Response, err error) {
		*fetchErr = err
	})
}

func runCollector(ctx context.Context, visit func() error, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- visit()
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func classify(resp *Response, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case resp.StatusCode == http.StatusOK:
		return OutcomeOK
	default:
		return OutcomeStatus
	}
}

func (f *Fetcher) logAttempt(index int, target string, resp *Response, err error) {
	fields := []zap.Field{
		zap.Int("attempt", index+1),
		zap.Int("max_attempts", f.cfg.MaxAttempts),
		zap.String("url", target),
	}
	switch {
	case err != nil:
		f.logger.Warn("fetch attempt errored", append(fields, zap.Error(err))...)
	case resp.StatusCode != http.StatusOK:
		f.logger.Warn("fetch attempt returned non-200 status", append(fields, zap.Int("status", resp.StatusCode))...)
	default:
		f.logger.Info("fetch attempt succeeded", append(fields,
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(resp.Body)),
		)...)
	}
}

func (f *Fetcher) observeAttempt(outcome string) {
	if f.observer != nil {
		f.observer.ObserveAttempt(outcome)
	}
}

func (f *Fetcher) observeBackoff(delay time.Duration) {
	if f.observer != nil {
		f.observer.ObserveBackoff(delay)
	}
}

// newCollector returns a synchronous collector that reports every status through
// OnResponse and may visit the same URL repeatedly. Bodies are read in full;
// sitemaps may legally reach 50 MB.
func newCollector(timeout time.Duration) *colly.Collector {
	c := colly.NewCollector(
		colly.Async(false),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(0),
	)
	c.WithTransport(newHTTPTransport())
	c.SetRequestTimeout(timeout)
	return c
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}
}
