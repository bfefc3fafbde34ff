package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories of a pipeline run. This is
// the single source of truth for file placement; relative entries in
// PathsConfig are resolved against the working directory.
type Paths struct {
	DataDir     string
	ResultsDir  string
	MetadataDir string
	LogsDir     string
}

// ResolvePaths turns the configured directory names into absolute paths.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	resolve := func(dir string) (string, error) {
		if filepath.IsAbs(dir) {
			return dir, nil
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
		}
		return abs, nil
	}

	var (
		p   Paths
		err error
	)
	if p.DataDir, err = resolve(cfg.DataDir); err != nil {
		return nil, err
	}
	if p.ResultsDir, err = resolve(cfg.ResultsDir); err != nil {
		return nil, err
	}
	if p.MetadataDir, err = resolve(cfg.MetadataDir); err != nil {
		return nil, err
	}
	if p.LogsDir, err = resolve(cfg.LogsDir); err != nil {
		return nil, err
	}
	return &p, nil
}

// EnsureDirectories creates every configured directory that does not
// exist yet.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ResultsDir, p.MetadataDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// MetadataFile returns the metadata document path for a table name.
func (p *Paths) MetadataFile(tableName string) string {
	return filepath.Join(p.MetadataDir, tableName+".json")
}
