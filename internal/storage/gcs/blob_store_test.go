package gcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// newTestClient creates a storage client pointed at a test server.
func newTestClient(t *testing.T, handler http.Handler) *storage.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := storage.NewClient(context.Background(), option.WithEndpoint(server.URL), option.WithoutAuthentication())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(nil, Config{Bucket: "bucket"})
	assert.Error(t, err)

	client := newTestClient(t, http.NotFoundHandler())
	_, err = New(client, Config{Bucket: " "})
	assert.Error(t, err)
}

func TestPutObjectUploadsWithPrefix(t *testing.T) {
	t.Parallel()

	const bucket = "test-bucket"
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, fmt.Sprintf("/upload/storage/v1/b/%s/o", bucket))
		assert.Equal(t, "multipart", r.URL.Query().Get("uploadType"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(body), "User-agent: *")
		assert.Contains(t, string(body), "runs/example_com/robots.txt")

		fmt.Fprintln(w, `{ "name": "runs/example_com/robots.txt", "bucket": "test-bucket" }`)
	})

	store, err := New(newTestClient(t, handler), Config{Bucket: bucket, Prefix: "/runs/"})
	require.NoError(t, err)

	uri, err := store.PutObject(context.Background(), "example_com/robots.txt", "text/plain", bytes.NewReader([]byte("User-agent: *")))
	require.NoError(t, err)
	assert.Equal(t, "gs://test-bucket/runs/example_com/robots.txt", uri)
}

func TestPutObjectError(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	store, err := New(newTestClient(t, handler), Config{Bucket: "test-bucket"})
	require.NoError(t, err)

	_, err = store.PutObject(context.Background(), "example_com/sitemap.xml", "application/xml", bytes.NewReader([]byte("<urlset/>")))
	assert.Error(t, err)

	_, err = store.PutObject(context.Background(), "", "", bytes.NewReader(nil))
	assert.Error(t, err)
}
