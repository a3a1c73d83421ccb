// Package session drives one interactive robotsmap run: choose a target, fetch
// and analyze robots.txt, then fetch sitemap.xml, offering a retry after each.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/robotsmap/internal/fetcher"
	"github.com/JakeFAU/robotsmap/internal/prompt"
	"github.com/JakeFAU/robotsmap/internal/robots"
)

// Fetcher retrieves one document with retries.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (*fetcher.Response, error)
}

// Prompter handles interactive input and output.
type Prompter interface {
	AskURL(ctx context.Context, checker prompt.ReachabilityChecker) (string, error)
	Confirm(question string) (bool, error)
	Printf(format string, args ...any)
}

// ArtifactWriter persists fetched artifacts.
type ArtifactWriter interface {
	SaveRobots(ctx context.Context, target string, body []byte, at time.Time) (string, error)
	SaveAnalysis(ctx context.Context, target string, analysis robots.Analysis) (string, error)
	SaveSitemap(ctx context.Context, target string, body []byte) (string, error)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// MetricsExporter dumps run metrics to a file.
type MetricsExporter interface {
	WriteTextfile(path string) error
}

// Deps are the collaborators of a Session. Metrics and Logger are optional.
type Deps struct {
	Fetcher Fetcher
	Prober  prompt.ReachabilityChecker
	Prompt  Prompter
	Writer  ArtifactWriter
	Clock   Clock
	Metrics MetricsExporter
	Logger  *zap.Logger
}

// Options tune what a Session prints and exports.
type Options struct {
	// MetricsTextfile is written after both phases; empty disables the export.
	MetricsTextfile string
	// ShowRobots echoes the fetched robots.txt before its summary.
	ShowRobots bool
}

// Session runs one interactive robots.txt and sitemap.xml retrieval.
type Session struct {
	deps   Deps
	opts   Options
	logger *zap.Logger
}

// New validates deps and builds a Session.
func New(deps Deps, opts Options) (*Session, error) {
	switch {
	case deps.Fetcher == nil:
		return nil, errors.New("session: fetcher is required")
	case deps.Prober == nil:
		return nil, errors.New("session: prober is required")
	case deps.Prompt == nil:
		return nil, errors.New("session: prompt is required")
	case deps.Writer == nil:
		return nil, errors.New("session: writer is required")
	case deps.Clock == nil:
		return nil, errors.New("session: clock is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{deps: deps, opts: opts, logger: logger}, nil
}

// Run executes both phases. Fetch failures never end the run; storage failures do.
// robots.txt and sitemap.xml are always requested from the host root, whatever
// path the entered URL carries.
func (s *Session) Run(ctx context.Context) error {
	target, err := s.deps.Prompt.AskURL(ctx, s.deps.Prober)
	if err != nil {
		return fmt.Errorf("read target url: %w", err)
	}
	s.logger.Info("target accepted", zap.String("url", target))

	if err := s.repeat(ctx, "Retry fetching robots.txt?", func() error {
		return s.robotsPhase(ctx, target)
	}); err != nil {
		return err
	}
	if err := s.repeat(ctx, "Retry fetching sitemap.xml?", func() error {
		return s.sitemapPhase(ctx, target)
	}); err != nil {
		return err
	}

	if s.opts.MetricsTextfile != "" && s.deps.Metrics != nil {
		if err := s.deps.Metrics.WriteTextfile(s.opts.MetricsTextfile); err != nil {
			s.logger.Warn("metrics export failed", zap.String("path", s.opts.MetricsTextfile), zap.Error(err))
		} else {
			s.logger.Info("metrics exported", zap.String("path", s.opts.MetricsTextfile))
		}
	}
	s.logger.Info("session finished", zap.String("url", target))
	return nil
}

func (s *Session) repeat(ctx context.Context, question string, phase func() error) error {
	for {
		if err := phase(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("session interrupted: %w", err)
		}
		again, err := s.deps.Prompt.Confirm(question)
		if errors.Is(err, io.EOF) {
			// Closed input declines further retries.
			return nil
		}
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if !again {
			return nil
		}
	}
}

func (s *Session) robotsPhase(ctx context.Context, target string) error {
	robotsURL, err := resolve(target, "/robots.txt")
	if err != nil {
		return err
	}
	s.logger.Info("fetching robots.txt", zap.String("url", robotsURL))
	resp, ok, err := s.fetch(ctx, robotsURL)
	if err != nil {
		return err
	}
	if !ok {
		s.deps.Prompt.Printf("Could not retrieve robots.txt from %s.\n", robotsURL)
		return nil
	}

	analysis := robots.Analyze(string(resp.Body))
	if _, err := s.deps.Writer.SaveRobots(ctx, target, resp.Body, s.deps.Clock.Now()); err != nil {
		return err
	}
	if _, err := s.deps.Writer.SaveAnalysis(ctx, target, analysis); err != nil {
		return err
	}
	s.logger.Info("robots.txt analyzed",
		zap.Int("user_agents", len(analysis.UserAgents())),
		zap.Int("disallowed_paths", len(analysis.DisallowedPaths())),
		zap.Int("sitemaps", len(analysis.Sitemaps())),
	)
	if s.opts.ShowRobots {
		s.deps.Prompt.Printf("robots.txt content:\n%s\n", strings.TrimRight(string(resp.Body), "\n"))
	}
	s.printSummary(analysis)
	return nil
}

func (s *Session) sitemapPhase(ctx context.Context, target string) error {
	sitemapURL, err := resolve(target, "/sitemap.xml")
	if err != nil {
		return err
	}
	s.logger.Info("fetching sitemap.xml", zap.String("url", sitemapURL))
	resp, ok, err := s.fetch(ctx, sitemapURL)
	if err != nil {
		return err
	}
	if !ok {
		s.deps.Prompt.Printf("Could not retrieve sitemap.xml from %s.\n", sitemapURL)
		return nil
	}

	if _, err := s.deps.Writer.SaveSitemap(ctx, target, resp.Body); err != nil {
		return err
	}
	s.deps.Prompt.Printf("Saved sitemap.xml (%d bytes).\n", len(resp.Body))
	return nil
}

// fetch reports ok=false when attempts ran out; only interruption is an error.
func (s *Session) fetch(ctx context.Context, target string) (*fetcher.Response, bool, error) {
	resp, err := s.deps.Fetcher.Fetch(ctx, target)
	switch {
	case err == nil:
		return resp, true, nil
	case errors.Is(err, fetcher.ErrAttemptsExhausted):
		s.logger.Warn("artifact not retrieved", zap.String("url", target))
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("fetch %s: %w", target, err)
	}
}

func (s *Session) printSummary(a robots.Analysis) {
	s.deps.Prompt.Printf("robots.txt analysis:\n")
	s.deps.Prompt.Printf("  user agents:      %d\n", len(a.UserAgents()))
	s.deps.Prompt.Printf("  disallowed paths: %d\n", len(a.DisallowedPaths()))
	s.deps.Prompt.Printf("  allowed paths:    %d\n", len(a.AllowedPaths()))
	s.deps.Prompt.Printf("  crawl delays:     %d\n", len(a.CrawlDelays()))
	s.deps.Prompt.Printf("  sitemaps:         %d\n", len(a.Sitemaps()))
}

// resolve returns the absolute URL of a root-relative path on target's host.
func resolve(target, rootPath string) (string, error) {
	base, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse target %q: %w", target, err)
	}
	return base.ResolveReference(&url.URL{Path: rootPath}).String(), nil
}
