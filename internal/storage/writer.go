package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/robotsmap/internal/hash/sha256"
	"github.com/JakeFAU/robotsmap/internal/robots"
)

// Artifact kinds, also used as metric labels.
const (
	KindRobots   = "robots"
	KindAnalysis = "analysis"
	KindSitemap  = "sitemap"
)

const (
	analysisFileName = "robots_analysis.json"
	sitemapFileName  = "sitemap.xml"
	robotsTimeLayout = "20060102_150405"
)

// Artifact is one file destined for a target directory.
type Artifact struct {
	Kind        string
	Name        string
	ContentType string
	Data        []byte
}

// SaveObserver is notified after each successful primary save.
type SaveObserver interface {
	ObserveSaved(kind string)
}

// Writer stores artifacts under DirName(target) in the primary store and copies
// them to any mirrors. Mirror failures are logged and otherwise ignored.
type Writer struct {
	primary  BlobStore
	mirrors  []BlobStore
	observer SaveObserver
	digester *sha256.Hasher
	logger   *zap.Logger
}

// NewWriter builds a Writer. observer and logger may be nil.
func NewWriter(primary BlobStore, mirrors []BlobStore, observer SaveObserver, logger *zap.Logger) (*Writer, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary blob store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		primary:  primary,
		mirrors:  mirrors,
		observer: observer,
		digester: sha256.New(),
		logger:   logger,
	}, nil
}

// SaveRobots writes the raw robots.txt body as robots_<YYYYMMDD_HHMMSS>.txt.
func (w *Writer) SaveRobots(ctx context.Context, target string, body []byte, at time.Time) (string, error) {
	return w.Save(ctx, target, Artifact{
		Kind:        KindRobots,
		Name:        RobotsFileName(at),
		ContentType: "text/plain; charset=utf-8",
		Data:        body,
	})
}

// SaveAnalysis writes the parsed directives as robots_analysis.json.
func (w *Writer) SaveAnalysis(ctx context.Context, target string, analysis robots.Analysis) (string, error) {
	payload, err := robots.MarshalDocument(analysis)
	if err != nil {
		return "", err
	}
	return w.Save(ctx, target, Artifact{
		Kind:        KindAnalysis,
		Name:        analysisFileName,
		ContentType: "application/json",
		Data:        payload,
	})
}

// SaveSitemap writes the raw sitemap body as sitemap.xml, replacing any earlier copy.
func (w *Writer) SaveSitemap(ctx context.Context, target string, body []byte) (string, error) {
	return w.Save(ctx, target, Artifact{
		Kind:        KindSitemap,
		Name:        sitemapFileName,
		ContentType: "application/xml",
		Data:        body,
	})
}

// Save writes one artifact and returns the primary store's URI.
func (w *Writer) Save(ctx context.Context, target string, artifact Artifact) (string, error) {
	objectPath := path.Join(DirName(target), artifact.Name)
	uri, err := w.primary.PutObject(ctx, objectPath, artifact.ContentType, bytes.NewReader(artifact.Data))
	if err != nil {
		return "", fmt.Errorf("save %s: %w", artifact.Name, err)
	}
	w.logger.Info("artifact saved",
		zap.String("kind", artifact.Kind),
		zap.String("uri", uri),
		zap.Int("bytes", len(artifact.Data)),
		zap.String("digest", w.digester.Digest(artifact.Data)),
	)
	if w.observer != nil {
		w.observer.ObserveSaved(artifact.Kind)
	}

	for _, mirror := range w.mirrors {
		mirrorURI, err := mirror.PutObject(ctx, objectPath, artifact.ContentType, bytes.NewReader(artifact.Data))
		if err != nil {
			w.logger.Warn("artifact mirror failed",
				zap.String("kind", artifact.Kind),
				zap.String("path", objectPath),
				zap.Error(err),
			)
			continue
		}
		w.logger.Info("artifact mirrored", zap.String("kind", artifact.Kind), zap.String("uri", mirrorURI))
	}
	return uri, nil
}

// RobotsFileName is the timestamped name of a raw robots.txt snapshot.
func RobotsFileName(at time.Time) string {
	return fmt.Sprintf("robots_%s.txt", at.Format(robotsTimeLayout))
}
