package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	b3errors "b3data/internal/errors"
	"b3data/internal/infrastructure"
	"b3data/internal/schema"
	"b3data/internal/table"
	"b3data/pkg/contracts/domain"
)

// Loader reads raw tables and turns them into canonical records. The
// zero value is not usable; create one with NewLoader.
type Loader struct {
	log     *slog.Logger
	regions RegionExtractor
}

// NewLoader creates a loader. A nil logger falls back to slog.Default,
// a nil extractor to the substring extractor with the dataset's default
// region codes.
func NewLoader(logger *slog.Logger, regions RegionExtractor) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if regions == nil {
		regions = NewSubstringRegionExtractor("", "")
	}
	return &Loader{log: logger, regions: regions}
}

// LoadScalars reads a scalar table from a CSV or XLSX file, enforces
// the required columns, fills missing optional ones with nulls and
// returns the records in canonical column order. Keys are taken from
// the id_scal column if present, otherwise from the row position.
func (l *Loader) LoadScalars(path string) ([]domain.ScalarRecord, error) {
	sch, err := schema.ForKind(schema.KindScalar)
	if err != nil {
		return nil, err
	}

	t, err := table.Read(path)
	if err != nil {
		return nil, err
	}

	t, err = l.conform(t, sch)
	if err != nil {
		return nil, err
	}

	records := make([]domain.ScalarRecord, len(t.Rows))
	for i, row := range t.Rows {
		r, err := scalarFromRow(t.Name, i, row)
		if err != nil {
			return nil, err
		}
		records[i] = r
	}

	infrastructure.TablesLoaded.WithLabelValues(string(schema.KindScalar)).Inc()
	l.log.Info("scalar table loaded",
		slog.String("table", t.Name),
		slog.Int("records", len(records)))
	return records, nil
}

// conform checks the required columns, adds missing optional ones as
// null columns and reorders to the canonical header.
func (l *Loader) conform(t table.Table, sch schema.Schema) (table.Table, error) {
	if missing := sch.MissingRequired(t.Columns); len(missing) > 0 {
		infrastructure.ValidationFailures.WithLabelValues(string(sch.Kind)).Inc()
		return table.Table{}, b3errors.NewSchemaError(t.Name, missing)
	}

	var err error
	for _, col := range sch.MissingOptional(t.Columns) {
		t, err = t.WithColumn(col, "")
		if err != nil {
			return table.Table{}, err
		}
		l.log.Info("missing optional column added as an empty column",
			slog.String("table", t.Name),
			slog.String("column", col))
	}
	return t.Reorder(sch.Header)
}

// scalarFromRow parses one row in canonical column order.
func scalarFromRow(name string, position int, row []string) (domain.ScalarRecord, error) {
	id, err := parseKey(row[0], position)
	if err != nil {
		return domain.ScalarRecord{}, fmt.Errorf("table %s row %d: %w", name, position, err)
	}
	value, err := parseValue(row[8])
	if err != nil {
		return domain.ScalarRecord{}, fmt.Errorf("table %s row %d: %w", name, position, err)
	}
	return domain.ScalarRecord{
		ID:        id,
		Scenario:  row[1],
		Name:      row[2],
		VarName:   row[3],
		Carrier:   row[4],
		Region:    row[5],
		Tech:      row[6],
		Type:      row[7],
		VarValue:  value,
		VarUnit:   row[9],
		Reference: row[10],
		Comment:   row[11],
	}, nil
}

// parseKey reads a record key cell; an empty cell assigns the row
// position instead.
func parseKey(cell string, position int) (int64, error) {
	if cell == "" {
		return int64(position), nil
	}
	id, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse key %q: %w", cell, err)
	}
	return id, nil
}

func parseValue(cell string) (float64, error) {
	if cell == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse var_value %q: %w", cell, err)
	}
	return v, nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ScalarTable renders records back into a raw table with the canonical
// scalar header.
func ScalarTable(records []domain.ScalarRecord) table.Table {
	sch, _ := schema.ForKind(schema.KindScalar)
	t := table.Table{Columns: append([]string(nil), sch.Header...)}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Scenario,
			r.Name,
			r.VarName,
			r.Carrier,
			r.Region,
			r.Tech,
			r.Type,
			formatValue(r.VarValue),
			r.VarUnit,
			r.Reference,
			r.Comment,
		})
	}
	return t
}

// SaveScalars writes records to a CSV file in canonical column order,
// key column included.
func SaveScalars(records []domain.ScalarRecord, path string) error {
	return ScalarTable(records).WriteCSV(path)
}
