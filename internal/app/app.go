// Package app initializes and holds the services of one robotsmap run, acting
// as a dependency injection container for the commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcsclient "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/JakeFAU/robotsmap/internal/clock/system"
	"github.com/JakeFAU/robotsmap/internal/config"
	"github.com/JakeFAU/robotsmap/internal/fetcher"
	"github.com/JakeFAU/robotsmap/internal/id/uuid"
	"github.com/JakeFAU/robotsmap/internal/logging"
	"github.com/JakeFAU/robotsmap/internal/metrics"
	"github.com/JakeFAU/robotsmap/internal/prompt"
	"github.com/JakeFAU/robotsmap/internal/session"
	"github.com/JakeFAU/robotsmap/internal/storage"
	"github.com/JakeFAU/robotsmap/internal/storage/gcs"
	"github.com/JakeFAU/robotsmap/internal/storage/local"
)

// Options carries process-level inputs that do not come from configuration.
type Options struct {
	In  io.Reader
	Out io.Writer
	// GCSClientOptions are passed to the GCS client when a bucket is configured.
	GCSClientOptions []option.ClientOption
}

// App holds the long-lived services for a run.
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	RunID   string
	Metrics *metrics.Recorder
	Session *session.Session

	closers []io.Closer
}

// NewApp builds every service from cfg. It fails fast if any of them cannot
// be initialized, closing whatever was already opened.
func NewApp(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if opts.In == nil || opts.Out == nil {
		return nil, errors.New("app: input and output streams are required")
	}

	base, err := logging.New(logging.Options{
		File:        cfg.Log.File,
		Development: cfg.Log.Development,
		Console:     cfg.Log.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	runID, err := uuid.NewGenerator().NewID()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	logger := base.With(zap.String("run_id", runID))
	a := &App{Config: cfg, Logger: logger, RunID: runID, Metrics: metrics.NewRecorder()}

	if err := a.buildSession(ctx, opts); err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("application services initialized",
		zap.Int("max_attempts", cfg.Fetch.MaxAttempts),
		zap.Duration("base_delay", cfg.Fetch.BaseDelay),
		zap.String("output_dir", cfg.Output.BaseDir),
	)
	return a, nil
}

func (a *App) buildSession(ctx context.Context, opts Options) error {
	cfg := a.Config
	clock := system.New(nil)

	f, err := fetcher.New(fetcher.Config{
		MaxAttempts: cfg.Fetch.MaxAttempts,
		BaseDelay:   cfg.Fetch.BaseDelay,
		Timeout:     cfg.RequestTimeout(),
		UserAgents:  cfg.Fetch.UserAgents,
	}, clock, a.Metrics, a.Logger.Named("fetcher"))
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	prober, err := fetcher.NewProber(cfg.ProbeTimeout(), cfg.Fetch.UserAgents, a.Logger.Named("probe"))
	if err != nil {
		return fmt.Errorf("init prober: %w", err)
	}

	primary, err := local.New(local.Config{BaseDir: cfg.Output.BaseDir})
	if err != nil {
		return fmt.Errorf("init output directory: %w", err)
	}

	var mirrors []storage.BlobStore
	if cfg.Storage.GCSBucket != "" {
		mirror, err := a.openGCS(ctx, opts.GCSClientOptions)
		if err != nil {
			return err
		}
		mirrors = append(mirrors, mirror)
	}

	writer, err := storage.NewWriter(primary, mirrors, a.Metrics, a.Logger.Named("storage"))
	if err != nil {
		return fmt.Errorf("init writer: %w", err)
	}

	s, err := session.New(session.Deps{
		Fetcher: f,
		Prober:  prober,
		Prompt:  prompt.New(opts.In, opts.Out),
		Writer:  writer,
		Clock:   clock,
		Metrics: a.Metrics,
		Logger:  a.Logger.Named("session"),
	}, session.Options{MetricsTextfile: cfg.Metrics.Textfile, ShowRobots: cfg.Output.ShowRobots})
	if err != nil {
		return fmt.Errorf("init session: %w", err)
	}
	a.Session = s
	return nil
}

func (a *App) openGCS(ctx context.Context, clientOpts []option.ClientOption) (*gcs.BlobStore, error) {
	bucket := a.Config.Storage.GCSBucket
	a.Logger.Info("mirroring artifacts to GCS", zap.String("bucket", bucket))
	client, err := gcsclient.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	store, err := gcs.New(client, gcs.Config{Bucket: bucket, Prefix: a.Config.Storage.GCSPrefix})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("init GCS mirror: %w", err)
	}
	a.closers = append(a.closers, store)
	return store, nil
}

// Close releases every service. It is called by a cobra hook after the
// command finishes.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Logger.Warn("error closing service", zap.Error(err))
		}
	}
	a.closers = nil
	// Best effort: syncing a file-backed logger can fail on some platforms.
	_ = a.Logger.Sync()
}
