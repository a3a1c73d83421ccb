package fetcher

import (
	"context"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Prober checks that a host answers before any real fetching starts.
type Prober struct {
	agents        *Picker
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewProber builds a Prober whose requests never follow redirects, so 301 and
// 302 are observed as such.
func NewProber(timeout time.Duration, userAgents []string, logger *zap.Logger) (*Prober, error) {
	agents, err := NewPicker(userAgents)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := newCollector(timeout)
	c.SetRedirectHandler(func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	})
	return &Prober{
		agents:        agents,
		baseCollector: c,
		logger:        logger,
	}, nil
}

// Reachable sends HEAD and falls back to GET when HEAD fails or answers with a
// status outside {200, 301, 302}.
func (p *Prober) Reachable(ctx context.Context, target string) bool {
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		status, err := p.probe(ctx, method, target)
		if err != nil {
			p.logger.Warn("reachability probe errored",
				zap.String("method", method),
				zap.String("url", target),
				zap.Error(err),
			)
			continue
		}
		if reachableStatus(status) {
			p.logger.Info("reachability probe succeeded",
				zap.String("method", method),
				zap.String("url", target),
				zap.Int("status", status),
			)
			return true
		}
		p.logger.Warn("reachability probe returned unexpected status",
			zap.String("method", method),
			zap.String("url", target),
			zap.Int("status", status),
		)
	}
	return false
}

func (p *Prober) probe(ctx context.Context, method, target string) (int, error) {
	var (
		result   *Response
		fetchErr error
	)
	collector := p.baseCollector.Clone()
	collector.Context = ctx
	collector.UserAgent = p.agents.Pick()
	configureHooks(collector, &result, &fetchErr)

	visit := func() error { return collector.Visit(target) }
	if method == http.MethodHead {
		visit = func() error { return collector.Head(target) }
	}
	if err := runCollector(ctx, visit, &fetchErr); err != nil {
		return 0, err
	}
	if result == nil {
		return 0, errNoResponse
	}
	return result.StatusCode, nil
}

func reachableStatus(status int) bool {
	switch status {
	case http.StatusOK, http.StatusMovedPermanently, http.StatusFound:
		return true
	default:
		return false
	}
}
