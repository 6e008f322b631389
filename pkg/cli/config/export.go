package config

import (
	"context"

	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/service/business"
	"github.com/munim-lab/munim/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Export holds CLI flags for the data-export sink
type Export struct {
	bucket string
	dir    string
}

// Flags returns CLI flags for export configuration
func (e *Export) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "export-bucket",
			Usage:       "GCS bucket for data exports",
			Sources:     cli.EnvVars("MUNIM_EXPORT_BUCKET"),
			Destination: &e.bucket,
		},
		&cli.StringFlag{
			Name:        "export-dir",
			Usage:       "Local directory for data exports (used when no bucket is set)",
			Value:       "./exports",
			Sources:     cli.EnvVars("MUNIM_EXPORT_DIR"),
			Destination: &e.dir,
		},
	}
}

// Configure builds the exporter, preferring GCS over the local
// directory fallback.
func (e *Export) Configure(ctx context.Context) (interfaces.Exporter, error) {
	if e.bucket != "" {
		exporter, err := business.NewGCSExporter(ctx, e.bucket)
		if err != nil {
			return nil, err
		}
		logging.Default().Info("Using GCS exporter", "bucket", e.bucket)
		return exporter, nil
	}

	exporter, err := business.NewFileExporter(e.dir)
	if err != nil {
		return nil, err
	}
	logging.Default().Info("Using local file exporter", "dir", e.dir)
	return exporter, nil
}
