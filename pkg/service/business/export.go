package business

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
)

// GCSExporter writes data exports to a Cloud Storage bucket
type GCSExporter struct {
	client *storage.Client
	bucket string
}

var _ interfaces.Exporter = &GCSExporter{}

func NewGCSExporter(ctx context.Context, bucket string) (*GCSExporter, error) {
	if bucket == "" {
		return nil, goerr.New("export bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &GCSExporter{client: client, bucket: bucket}, nil
}

func (e *GCSExporter) Write(ctx context.Context, name string, data []byte) (string, error) {
	w := e.client.Bucket(e.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		return "", goerr.Wrap(err, "failed to write export object",
			goerr.V("bucket", e.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize export object",
			goerr.V("bucket", e.bucket), goerr.V("object", name))
	}

	return fmt.Sprintf("gs://%s/%s", e.bucket, name), nil
}

func (e *GCSExporter) Close() error {
	return e.client.Close()
}

// FileExporter writes data exports to a local directory, for local runs
// without a bucket
type FileExporter struct {
	dir string
}

var _ interfaces.Exporter = &FileExporter{}

func NewFileExporter(dir string) (*FileExporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create export directory", goerr.V("dir", dir))
	}
	return &FileExporter{dir: dir}, nil
}

func (e *FileExporter) Write(ctx context.Context, name string, data []byte) (string, error) {
	path := filepath.Join(e.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", goerr.Wrap(err, "failed to write export file", goerr.V("path", path))
	}
	return path, nil
}
