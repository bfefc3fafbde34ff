package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	b3errors "b3data/internal/errors"
	"b3data/internal/infrastructure"
	"b3data/internal/schema"
	"b3data/internal/table"
	"b3data/pkg/contracts/domain"
)

// timeLayout is the on-disk timestamp format of the canonical tables.
const timeLayout = "2006-01-02 15:04:05"

var timeLayouts = []string{
	timeLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadTimeseries reads a time series table from a CSV file. The input
// may be stacked already, wide (one column per series over a time
// index), or in the flow-result layout with three encoded header rows;
// the shape is detected from a probe of the first rows and wide input
// is stacked on the fly. Records missing an id or region are completed
// from the row position and the series name.
func (l *Loader) LoadTimeseries(path string) ([]domain.TimeseriesRecord, error) {
	sch, err := schema.ForKind(schema.KindTimeseries)
	if err != nil {
		return nil, err
	}

	probe, err := table.ReadCSVProbe(path, 3)
	if err != nil {
		return nil, err
	}

	variant := DetectVariant(probe, sch)
	l.log.Debug("time series format detected",
		slog.String("table", probe.Name),
		slog.String("variant", variant.String()))

	var records []domain.TimeseriesRecord
	switch variant {
	case VariantStacked:
		records, err = l.loadStacked(path, sch)
	case VariantFlowResult:
		var t table.Table
		t, err = collapseFlowResult(path, probe)
		if err != nil {
			return nil, err
		}
		records, err = l.stackRaw(t)
	default:
		var t table.Table
		t, err = table.ReadCSV(path)
		if err != nil {
			return nil, err
		}
		records, err = l.stackRaw(t)
	}
	if err != nil {
		return nil, err
	}

	infrastructure.TablesLoaded.WithLabelValues(string(schema.KindTimeseries)).Inc()
	l.log.Info("time series table loaded",
		slog.String("table", probe.Name),
		slog.String("variant", variant.String()),
		slog.Int("records", len(records)))
	return records, nil
}

// stackRaw turns a raw wide table into completed stacked records.
func (l *Loader) stackRaw(t table.Table) ([]domain.TimeseriesRecord, error) {
	w, err := wideFromTable(t)
	if err != nil {
		return nil, err
	}
	records, err := Stack(w)
	if err != nil {
		return nil, err
	}
	return l.complete(records)
}

// complete assigns positional ids and derives missing regions from the
// series names.
func (l *Loader) complete(records []domain.TimeseriesRecord) ([]domain.TimeseriesRecord, error) {
	for i := range records {
		records[i].ID = int64(i)
		if records[i].Region == "" {
			region, err := l.regions.Extract(records[i].VarName)
			if err != nil {
				return nil, err
			}
			records[i].Region = region
		}
	}
	return records, nil
}

// wideFromTable interprets a raw table as wide form: the first column
// is the time axis, every other column one named series.
func wideFromTable(t table.Table) (domain.WideTimeseries, error) {
	if len(t.Columns) < 2 {
		return domain.WideTimeseries{}, fmt.Errorf(
			"table %s has no series columns next to the time axis", t.Name)
	}

	t, err := t.Renamed(0, schema.ColTimeindex)
	if err != nil {
		return domain.WideTimeseries{}, err
	}

	w := domain.WideTimeseries{
		IndexName: schema.ColTimeindex,
		Index:     make([]time.Time, len(t.Rows)),
		Columns:   append([]string(nil), t.Columns[1:]...),
		Values:    make([][]float64, len(t.Columns)-1),
	}
	for i, row := range t.Rows {
		ts, err := parseTime(row[0])
		if err != nil || ts.IsZero() {
			return domain.WideTimeseries{}, b3errors.NewFormatError(
				"the data should have a time series as an index of the format "+
					"'2006-01-02 15:04:05', cannot read %q", row[0])
		}
		w.Index[i] = ts
	}
	for c := range w.Columns {
		w.Values[c] = make([]float64, len(t.Rows))
		for i, row := range t.Rows {
			v, err := parseValue(row[c+1])
			if err != nil {
				return domain.WideTimeseries{}, fmt.Errorf(
					"table %s row %d column %q: %w", t.Name, i, w.Columns[c], err)
			}
			w.Values[c][i] = v
		}
	}
	return w, nil
}

// loadStacked reads input that is already in the one-row-per-series
// form, completing derivable columns and filling optional ones.
func (l *Loader) loadStacked(path string, sch schema.Schema) ([]domain.TimeseriesRecord, error) {
	t, err := table.ReadCSV(path)
	if err != nil {
		return nil, err
	}

	// The region is derivable from var_name, so it is not part of the
	// hard requirement here.
	var missing []string
	for _, col := range sch.MissingRequired(t.Columns) {
		if col != schema.ColRegion {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		infrastructure.ValidationFailures.WithLabelValues(string(sch.Kind)).Inc()
		return nil, b3errors.NewSchemaError(t.Name, missing)
	}

	if completable(t.Columns, sch) {
		if !t.HasColumn(schema.ColIDTs) {
			ids := make([]string, len(t.Rows))
			for i := range ids {
				ids[i] = strconv.Itoa(i)
			}
			if t, err = t.WithColumn(schema.ColIDTs, ids...); err != nil {
				return nil, err
			}
		}
		if !t.HasColumn(schema.ColRegion) {
			names, err := t.Column(schema.ColVarName)
			if err != nil {
				return nil, err
			}
			regions := make([]string, len(names))
			for i, name := range names {
				if regions[i], err = l.regions.Extract(name); err != nil {
					return nil, err
				}
			}
			if t, err = t.WithColumn(schema.ColRegion, regions...); err != nil {
				return nil, err
			}
		}
	}

	if t, err = l.conform(t, sch); err != nil {
		return nil, err
	}

	records := make([]domain.TimeseriesRecord, len(t.Rows))
	for i, row := range t.Rows {
		r, err := timeseriesFromRow(t.Name, i, row)
		if err != nil {
			return nil, err
		}
		records[i] = r
	}
	return records, nil
}

// completable reports whether the column set equals the required set or
// the required set minus region, the only shapes whose missing id and
// region columns may be derived.
func completable(columns []string, sch schema.Schema) bool {
	withRegion := sch.Required()
	withoutRegion := make([]string, 0, len(withRegion)-1)
	for _, col := range withRegion {
		if col != schema.ColRegion {
			withoutRegion = append(withoutRegion, col)
		}
	}
	return sameColumnSet(columns, withRegion) || sameColumnSet(columns, withoutRegion)
}

func sameColumnSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, col := range a {
		set[col] = true
	}
	for _, col := range b {
		if !set[col] {
			return false
		}
	}
	return true
}

// timeseriesFromRow parses one stacked row in canonical column order.
func timeseriesFromRow(name string, position int, row []string) (domain.TimeseriesRecord, error) {
	id, err := parseKey(row[0], position)
	if err != nil {
		return domain.TimeseriesRecord{}, fmt.Errorf("table %s row %d: %w", name, position, err)
	}

	start, err := parseTimeCell(row[3])
	if err != nil {
		return domain.TimeseriesRecord{}, b3errors.NewFormatError(
			"table %s row %d: %s is not a timestamp of the format '2006-01-02 15:04:05': %q",
			name, position, schema.ColStart, row[3])
	}
	stop, err := parseTimeCell(row[4])
	if err != nil {
		return domain.TimeseriesRecord{}, b3errors.NewFormatError(
			"table %s row %d: %s is not a timestamp of the format '2006-01-02 15:04:05': %q",
			name, position, schema.ColStop, row[4])
	}

	var freq domain.Frequency
	if row[5] != "" {
		if freq, err = domain.ParseFrequency(row[5]); err != nil {
			return domain.TimeseriesRecord{}, b3errors.NewFormatError(
				"table %s row %d: %v", name, position, err)
		}
	}

	series, err := parseSeries(row[6])
	if err != nil {
		return domain.TimeseriesRecord{}, fmt.Errorf("table %s row %d: %w", name, position, err)
	}

	r := domain.TimeseriesRecord{
		ID:         id,
		Region:     row[1],
		VarName:    row[2],
		Start:      start,
		Stop:       stop,
		Resolution: freq,
		Series:     series,
		VarUnit:    row[7],
		Source:     row[8],
		Comment:    row[9],
	}

	// The series length is derivable from the axis descriptors and must
	// agree with the stored sequence.
	if !r.Start.IsZero() && !r.Stop.IsZero() && !r.Resolution.IsZero() {
		expected, err := r.ExpectedSamples()
		if err != nil {
			return domain.TimeseriesRecord{}, b3errors.NewFormatError(
				"table %s row %d: %v", name, position, err)
		}
		if expected != len(r.Series) {
			return domain.TimeseriesRecord{}, b3errors.NewFormatError(
				"table %s row %d: series %q holds %d values, expected %d from its time axis",
				name, position, r.VarName, len(r.Series), expected)
		}
	}
	return r, nil
}

func parseTimeCell(cell string) (time.Time, error) {
	if cell == "" {
		return time.Time{}, nil
	}
	return parseTime(cell)
}

func parseTime(cell string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", cell)
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(timeLayout)
}

// parseSeries reads the bracketed list literal a stacked series cell
// holds, e.g. "[0.1, 0.2, 0.3]".
func parseSeries(cell string) ([]float64, error) {
	trimmed := strings.TrimSpace(cell)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil, fmt.Errorf("series cell %q is not a bracketed list of values", cell)
	}
	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if inner == "" {
		return []float64{}, nil
	}
	parts := strings.Split(inner, ",")
	series := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse series value %q: %w", part, err)
		}
		series[i] = v
	}
	return series, nil
}

func renderSeries(series []float64) string {
	parts := make([]string, len(series))
	for i, v := range series {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TimeseriesTable renders stacked records back into a raw table with
// the canonical timeseries header.
func TimeseriesTable(records []domain.TimeseriesRecord) table.Table {
	sch, _ := schema.ForKind(schema.KindTimeseries)
	t := table.Table{Columns: append([]string(nil), sch.Header...)}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Region,
			r.VarName,
			formatTime(r.Start),
			formatTime(r.Stop),
			string(r.Resolution),
			renderSeries(r.Series),
			r.VarUnit,
			r.Source,
			r.Comment,
		})
	}
	return t
}

// SaveTimeseries writes stacked records to a CSV file in canonical
// column order, key column included.
func SaveTimeseries(records []domain.TimeseriesRecord, path string) error {
	return TimeseriesTable(records).WriteCSV(path)
}

// WideTable renders a wide time series as a raw table: the time axis
// first, one column per series.
func WideTable(w domain.WideTimeseries) table.Table {
	name := w.IndexName
	if name == "" {
		name = schema.ColTimeindex
	}
	t := table.Table{Columns: append([]string{name}, w.Columns...)}
	for i, ts := range w.Index {
		row := make([]string, 0, len(w.Columns)+1)
		row = append(row, formatTime(ts))
		for c := range w.Columns {
			row = append(row, formatValue(w.Values[c][i]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SaveWide writes the wide form to a CSV file.
func SaveWide(w domain.WideTimeseries, path string) error {
	return WideTable(w).WriteCSV(path)
}
