// Command upload pushes prepared tables to the OpenEnergyPlatform. For
// every table file in the data directory it creates the table, inserts the
// rows and attaches a generated oemetadata document.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"b3data/internal/config"
	"b3data/internal/infrastructure"
	"b3data/internal/oep"
	"b3data/pkg/contracts"
)

func main() {
	dir := flag.String("dir", "", "directory with prepared table files (defaults to the configured results dir)")
	metadataDir := flag.String("metadata", "", "directory for generated metadata documents (defaults to the configured metadata dir)")
	configPath := flag.String("config", "", "optional YAML config file")
	deleteTable := flag.String("delete", "", "delete the named table from the platform and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if cfg.Upload.Token == "" {
		logger.Error("No platform token configured, set B3_UPLOAD_TOKEN")
		os.Exit(1)
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		logger.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if *dir == "" {
		*dir = paths.ResultsDir
	}
	if *metadataDir == "" {
		*metadataDir = paths.MetadataDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := oep.NewClient(cfg.Upload, logger)

	if *deleteTable != "" {
		if err := client.DeleteTable(ctx, *deleteTable); err != nil {
			logger.Error("Deletion failed", "table", *deleteTable, "error", err)
			os.Exit(1)
		}
		return
	}

	uploader := oep.NewUploader(client, cfg.Upload, logger)
	if err := uploader.UploadDir(ctx, *dir, *metadataDir); err != nil {
		logger.Error("Upload failed", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("Upload finished", "dir", *dir)
}
