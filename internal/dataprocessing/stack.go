package dataprocessing

import (
	"fmt"
	"log/slog"
	"time"

	b3errors "b3data/internal/errors"
	"b3data/internal/schema"
	"b3data/pkg/contracts/domain"
)

// Stack converts a wide, uniformly sampled table into the stacked
// one-row-per-series form. The whole index must carry one inferable
// sampling frequency; if the table was not tagged with a frequency the
// inferred one is adopted and a notice is logged. A tagged frequency
// that disagrees with the inferred one is rejected.
func Stack(w domain.WideTimeseries) ([]domain.TimeseriesRecord, error) {
	if len(w.Index) == 0 {
		return nil, b3errors.NewFormatError(
			"the data should have a time series as an index of the format '2006-01-02 15:04:05'")
	}
	if len(w.Columns) != len(w.Values) {
		return nil, fmt.Errorf("wide table has %d columns but %d value sequences",
			len(w.Columns), len(w.Values))
	}

	inferred, err := InferFrequency(w.Index)
	if err != nil {
		return nil, err
	}
	freq := w.Freq
	if freq.IsZero() {
		slog.Info("frequency of the data is not specified, adopting the inferred alias",
			slog.String("frequency", string(inferred)))
		freq = inferred
	} else {
		tagged, err := freq.Duration()
		if err != nil {
			return nil, b3errors.NewFormatError("invalid frequency alias %s: %v", freq, err)
		}
		step, _ := inferred.Duration()
		if tagged != step {
			return nil, b3errors.NewFormatError(
				"the tagged frequency %s does not match the %s frequency inferred from the time index",
				freq, inferred)
		}
	}

	start := w.Index[0]
	stop := w.Index[len(w.Index)-1]

	records := make([]domain.TimeseriesRecord, 0, len(w.Columns))
	for i, name := range w.Columns {
		if len(w.Values[i]) != len(w.Index) {
			return nil, fmt.Errorf("series %q has %d values but the index has %d entries",
				name, len(w.Values[i]), len(w.Index))
		}
		records = append(records, domain.TimeseriesRecord{
			VarName:    name,
			Start:      start,
			Stop:       stop,
			Resolution: freq,
			Series:     append([]float64(nil), w.Values[i]...),
		})
	}
	return records, nil
}

// Unstack reconstructs the wide table from a batch of stacked records.
// All records must agree on one start, one stop and one resolution:
// they describe a single shared time axis. Values in the source and
// comment columns do not exist in wide form and are dropped with a
// notice.
func Unstack(records []domain.TimeseriesRecord) (domain.WideTimeseries, error) {
	if len(records) == 0 {
		return domain.WideTimeseries{}, b3errors.NewFormatError("cannot unstack an empty batch of records")
	}

	freq, err := consistentResolution(records)
	if err != nil {
		return domain.WideTimeseries{}, err
	}
	start, err := consistentTime(records, schema.ColStart, "start date",
		func(r domain.TimeseriesRecord) time.Time { return r.Start })
	if err != nil {
		return domain.WideTimeseries{}, err
	}
	stop, err := consistentTime(records, schema.ColStop, "end date",
		func(r domain.TimeseriesRecord) time.Time { return r.Stop })
	if err != nil {
		return domain.WideTimeseries{}, err
	}

	warnLostColumns(records)

	index, err := domain.DateRange(start, stop, freq)
	if err != nil {
		return domain.WideTimeseries{}, b3errors.NewFormatError(
			"cannot rebuild the time axis from %s to %s at resolution %s: %v", start, stop, freq, err)
	}

	w := domain.WideTimeseries{
		IndexName: schema.ColTimeindex,
		Index:     index,
		Columns:   make([]string, len(records)),
		Values:    make([][]float64, len(records)),
		Freq:      freq,
	}
	for i, r := range records {
		if len(r.Series) != len(index) {
			return domain.WideTimeseries{}, b3errors.NewFormatError(
				"series %q holds %d values but the shared time axis has %d samples",
				r.VarName, len(r.Series), len(index))
		}
		w.Columns[i] = r.VarName
		w.Values[i] = append([]float64(nil), r.Series...)
	}
	return w, nil
}

// consistentResolution asserts that all records share one non-null
// resolution and returns it.
func consistentResolution(records []domain.TimeseriesRecord) (domain.Frequency, error) {
	first := records[0].Resolution
	for _, r := range records[1:] {
		if r.Resolution != first {
			return "", b3errors.NewFormatError(
				"the frequency of your provided data doesn't match for all entries, "+
					"please make sure to pass the frequency with %s", schema.ColResolution)
		}
	}
	if first.IsZero() {
		return "", b3errors.NewFormatError(
			"your provided data is missing a frequency, please make sure to pass "+
				"the frequency with %s", schema.ColResolution)
	}
	return first, nil
}

// consistentTime asserts that all records share one non-null timestamp
// in the given field and returns it.
func consistentTime(records []domain.TimeseriesRecord, column, name string,
	get func(domain.TimeseriesRecord) time.Time) (time.Time, error) {

	first := get(records[0])
	for _, r := range records[1:] {
		if !get(r).Equal(first) {
			return time.Time{}, b3errors.NewFormatError(
				"the %s of your provided data doesn't match for all entries, "+
					"please make sure to pass the %s with %s", name, name, column)
		}
	}
	if first.IsZero() {
		return time.Time{}, b3errors.NewFormatError(
			"your provided data is missing a %s, please make sure to pass the %s with %s",
			name, name, column)
	}
	return first, nil
}

// warnLostColumns logs one notice per column whose remarks cannot be
// carried into the wide form.
func warnLostColumns(records []domain.TimeseriesRecord) {
	lost := map[string]bool{}
	for _, r := range records {
		if r.Source != "" {
			lost[schema.ColSource] = true
		}
		if r.Comment != "" {
			lost[schema.ColComment] = true
		}
	}
	for _, col := range []string{schema.ColSource, schema.ColComment} {
		if lost[col] {
			slog.Warn("remarks are lost after unstacking", slog.String("column", col))
		}
	}
}
