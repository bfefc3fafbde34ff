package oep

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"b3data/internal/config"
	"b3data/internal/files"
	"b3data/internal/infrastructure"
	"b3data/internal/metadata"
	"b3data/internal/schema"
	"b3data/internal/table"
	"b3data/internal/validation"
)

// Uploader pushes a directory of prepared tables to the platform. Tables
// are uploaded concurrently and a failing table does not stop the others.
type Uploader struct {
	client      *Client
	concurrency int
	log         *slog.Logger
}

// NewUploader creates an uploader on top of a client.
func NewUploader(client *Client, cfg config.UploadConfig, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Uploader{client: client, concurrency: concurrency, log: logger}
}

// KindForTable derives the record kind from a table name. Tables holding
// time series carry "timeseries" in their name, everything else is scalar
// data.
func KindForTable(name string) schema.Kind {
	if strings.Contains(name, "timeseries") {
		return schema.KindTimeseries
	}
	return schema.KindScalar
}

// UploadDir discovers the table files in dataDir, writes one metadata
// document per table into metadataDir and uploads tables, rows and metadata.
// It returns an error when at least one table failed, after attempting all
// of them.
func (u *Uploader) UploadDir(ctx context.Context, dataDir, metadataDir string) error {
	discovered, err := files.NewDiscovery(dataDir).FindTableFiles(".")
	if err != nil {
		return err
	}
	if len(discovered) == 0 {
		u.log.Warn("no table files found", slog.String("dir", dataDir))
		return nil
	}

	names := make([]string, 0, len(discovered))
	for _, f := range discovered {
		names = append(names, f.Name)
	}
	u.log.Info("uploading tables",
		slog.Int("count", len(discovered)),
		slog.String("files", strings.Join(names, ", ")))

	var failures atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for _, file := range discovered {
		file := file
		g.Go(func() error {
			if err := u.uploadTable(ctx, file, metadataDir); err != nil {
				failures.Add(1)
				infrastructure.UploadFailures.Inc()
				u.log.Error("table upload failed",
					slog.String("table", file.TableName()),
					slog.String("error", err.Error()))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if n := failures.Load(); n > 0 {
		return fmt.Errorf("%d of %d tables failed to upload", n, len(discovered))
	}
	return nil
}

func (u *Uploader) uploadTable(ctx context.Context, file files.FileInfo, metadataDir string) error {
	tableName := file.TableName()

	if err := validation.NewFileValidator(u.log).ValidateTableFile(file.Path); err != nil {
		return err
	}

	doc, err := metadata.ForKind(tableName, KindForTable(tableName))
	if err != nil {
		return err
	}
	if err := doc.WriteJSON(filepath.Join(metadataDir, tableName+".json")); err != nil {
		return err
	}

	t, err := table.Read(file.Path)
	if err != nil {
		return err
	}

	if err := u.client.CreateTable(ctx, doc); err != nil {
		return err
	}
	if err := u.client.InsertRows(ctx, doc, t); err != nil {
		return err
	}
	if err := u.client.AttachMetadata(ctx, doc); err != nil {
		return err
	}

	infrastructure.RowsUploaded.Add(float64(t.NumRows()))
	return nil
}
