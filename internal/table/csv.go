package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ReadCSV reads a whole comma-separated file into a Table. The first
// line is the header.
func ReadCSV(path string) (Table, error) {
	return readCSV(path, 0, -1)
}

// ReadCSVProbe reads the header and at most nrows data rows. It is used
// to inspect a file's shape before committing to a parse strategy.
func ReadCSVProbe(path string, nrows int) (Table, error) {
	return readCSV(path, 0, nrows)
}

// ReadCSVOffset skips the first skip lines of the file and reads the
// remainder as a table, the first unskipped line being the header.
func ReadCSVOffset(path string, skip int) (Table, error) {
	return readCSV(path, skip, -1)
}

func readCSV(path string, skip, nrows int) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = false

	for i := 0; i < skip; i++ {
		if _, err := r.Read(); err != nil {
			return Table{}, fmt.Errorf("failed to skip line %d of %s: %w", i, path, err)
		}
	}

	header, err := r.Read()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	t := Table{Name: tableName(path), Columns: header}
	for nrows < 0 || len(t.Rows) < nrows {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("failed to read row %d of %s: %w", len(t.Rows)+1, path, err)
		}
		// Pad short rows so every row matches the header width.
		for len(record) < len(header) {
			record = append(record, "")
		}
		t.Rows = append(t.Rows, record[:len(header)])
	}
	return t, nil
}

// WriteCSV writes the table to a comma-separated file, header first,
// creating parent directories as needed.
func (t Table) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	// A short write can surface only when the file is closed.
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	slog.Info("table saved",
		slog.String("path", path),
		slog.Int("rows", len(t.Rows)))
	return nil
}

func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
