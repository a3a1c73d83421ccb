// Package storage names per-target output directories and persists fetched
// artifacts to blob stores (local filesystem by default, optional mirrors).
package storage

import (
	"context"
	"io"
	"regexp"
)

// BlobStore writes raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

// maxDirNameLen matches the common filesystem limit for one path component.
const maxDirNameLen = 255

var (
	schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)
	nonAlnum     = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// DirName derives the per-target directory name from a URL: the scheme is
// stripped, every non-alphanumeric character becomes "_", and the result is
// truncated to 255 bytes. Case is preserved.
func DirName(rawURL string) string {
	name := schemePrefix.ReplaceAllString(rawURL, "")
	name = nonAlnum.ReplaceAllString(name, "_")
	if len(name) > maxDirNameLen {
		name = name[:maxDirNameLen]
	}
	return name
}
