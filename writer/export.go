// Package writer exports engine results as delimited and columnar files and
// optionally ships them to S3. It is the only component that touches the
// filesystem on the output side; the engine itself stays pure.
package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	appconfig "profitflow/config"
	"profitflow/internal/metadata"
	"profitflow/logger"
	"profitflow/models"
)

type Exporter struct {
	config   *appconfig.Config
	log      *logger.Log
	uploader *s3Uploader
}

// NewExporter builds an exporter for the configured formats. The S3 client is
// only constructed when uploads are enabled; a local-only configuration needs
// no credentials.
func NewExporter(cfg *appconfig.Config) (*Exporter, error) {
	e := &Exporter{
		config: cfg,
		log:    logger.GetLogger(),
	}
	if cfg.Storage.S3.Enabled {
		up, err := newS3Uploader(cfg)
		if err != nil {
			return nil, err
		}
		e.uploader = up
	}
	return e, nil
}

// Export writes every enabled format for the given result and records an
// export manifest. File names carry the run ID so successive runs never
// clobber each other.
func (e *Exporter) Export(ctx context.Context, result *models.Result) error {
	log := e.log.WithComponent("writer").WithFields(logger.Fields{
		"run_id":     result.RunID,
		"output_dir": e.config.Writer.OutputDir,
	})

	if err := os.MkdirAll(e.config.Writer.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rec := metadata.NewRecorder(e.config.Writer.OutputDir, result.RunID, result.InputHash)
	rec.SetPeriods(result.CurrentPeriod, result.PreviousPeriod)

	if e.config.Writer.Formats.CSV.Enabled {
		if err := e.exportCSV(ctx, result, rec); err != nil {
			return err
		}
	}
	if e.config.Writer.Formats.Parquet.Enabled {
		if err := e.exportParquet(ctx, result, rec); err != nil {
			return err
		}
	}

	if err := rec.Write(); err != nil {
		log.WithError(err).Warn("failed to write export manifest")
	}

	log.Info("export completed")
	return nil
}

func (e *Exporter) exportCSV(ctx context.Context, result *models.Result, rec *metadata.Recorder) error {
	files := []struct {
		table string
		write func(path string) (int64, int, error)
	}{
		{"master", func(p string) (int64, int, error) {
			size, err := e.WriteMasterCSV(p, result.Master)
			return size, len(result.Master), err
		}},
		{"pvm", func(p string) (int64, int, error) {
			size, err := e.WritePVMCSV(p, result.PVM)
			return size, len(result.PVM), err
		}},
		{"ledger", func(p string) (int64, int, error) {
			size, err := e.WriteLedgerCSV(p, result.Ledger)
			return size, len(result.Ledger), err
		}},
	}

	for _, f := range files {
		if f.table == "pvm" && result.PVMSkipped {
			e.log.WithComponent("writer").WithFields(logger.Fields{"run_id": result.RunID}).
				Info("pvm bridge skipped for insufficient data, omitting pvm file")
			continue
		}

		path := filepath.Join(e.config.Writer.OutputDir, fmt.Sprintf("%s_%s.csv", f.table, result.RunID))
		size, count, err := f.write(path)
		if err != nil {
			return err
		}

		e.log.WithComponent("writer").WithFields(logger.Fields{
			"table":     f.table,
			"path":      path,
			"file_size": size,
			"rows":      count,
		}).Info("csv file written")
		e.log.LogMetric("writer", "files_written", 1, "counter", logger.Fields{"table": f.table, "format": "csv"})
		logger.IncrementFilesWritten()

		rec.AddFile(metadata.ExportFile{
			Path:        path,
			Table:       f.table,
			Format:      "csv",
			FileSize:    size,
			RecordCount: int64(count),
		})

		if e.uploader != nil {
			if err := e.uploader.upload(ctx, path); err != nil {
				e.log.WithComponent("writer").WithError(err).
					WithEnv("S3_BUCKET").
					WithFields(logger.Fields{"path": path}).
					Error("failed to upload csv to S3")
			}
		}
	}
	return nil
}

func (e *Exporter) exportParquet(ctx context.Context, result *models.Result, rec *metadata.Recorder) error {
	files := []struct {
		table  string
		render func() ([]byte, int, error)
	}{
		{"master", func() ([]byte, int, error) {
			b, err := e.MasterParquet(result.Master)
			return b, len(result.Master), err
		}},
		{"ledger", func() ([]byte, int, error) {
			b, err := e.LedgerParquet(result.Ledger)
			return b, len(result.Ledger), err
		}},
	}

	for _, f := range files {
		data, count, err := f.render()
		if err != nil {
			return err
		}

		path := filepath.Join(e.config.Writer.OutputDir, fmt.Sprintf("%s_%s.parquet", f.table, result.RunID))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		e.log.WithComponent("writer").WithFields(logger.Fields{
			"table":       f.table,
			"path":        path,
			"file_size":   len(data),
			"rows":        count,
			"compression": e.config.Writer.Formats.Parquet.Compression,
		}).Info("parquet file written")
		e.log.LogMetric("writer", "files_written", 1, "counter", logger.Fields{"table": f.table, "format": "parquet"})
		logger.IncrementFilesWritten()

		rec.AddFile(metadata.ExportFile{
			Path:        path,
			Table:       f.table,
			Format:      "parquet",
			FileSize:    int64(len(data)),
			RecordCount: int64(count),
		})

		if e.uploader != nil {
			if err := e.uploader.upload(ctx, path); err != nil {
				e.log.WithComponent("writer").WithError(err).
					WithEnv("S3_BUCKET").
					WithFields(logger.Fields{"path": path}).
					Error("failed to upload parquet to S3")
			}
		}
	}
	return nil
}
