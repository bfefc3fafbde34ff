package dataprocessing

import (
	"fmt"
	"sort"
	"strings"

	"b3data/internal/schema"
	"b3data/pkg/contracts/domain"
)

var timeseriesDimension = map[string]func(domain.TimeseriesRecord) string{
	schema.ColRegion:  func(r domain.TimeseriesRecord) string { return r.Region },
	schema.ColVarName: func(r domain.TimeseriesRecord) string { return r.VarName },
	schema.ColVarUnit: func(r domain.TimeseriesRecord) string { return r.VarUnit },
	schema.ColSource:  func(r domain.TimeseriesRecord) string { return r.Source },
}

// FilterScalars keeps the records whose column value is one of the given
// values. The input is never modified.
func FilterScalars(records []domain.ScalarRecord, column string, values ...string) ([]domain.ScalarRecord, error) {
	get, ok := scalarDimension[column]
	if !ok {
		return nil, fmt.Errorf("cannot filter by %q, expected one of: %s",
			column, strings.Join(groupColumns, ", "))
	}

	keep := make(map[string]bool, len(values))
	for _, v := range values {
		keep[v] = true
	}

	var out []domain.ScalarRecord
	for _, r := range records {
		if keep[get(r)] {
			out = append(out, r)
		}
	}
	return out, nil
}

// FilterTimeseries keeps the records whose column value is one of the given
// values. The input is never modified.
func FilterTimeseries(records []domain.TimeseriesRecord, column string, values ...string) ([]domain.TimeseriesRecord, error) {
	get, ok := timeseriesDimension[column]
	if !ok {
		columns := make([]string, 0, len(timeseriesDimension))
		for col := range timeseriesDimension {
			columns = append(columns, col)
		}
		sort.Strings(columns)
		return nil, fmt.Errorf("cannot filter by %q, expected one of: %s",
			column, strings.Join(columns, ", "))
	}

	keep := make(map[string]bool, len(values))
	for _, v := range values {
		keep[v] = true
	}

	var out []domain.TimeseriesRecord
	for _, r := range records {
		if keep[get(r)] {
			out = append(out, r)
		}
	}
	return out, nil
}
