// Package schema is the registry of the two canonical table schemas
// handled by the pipeline. Header order is authoritative for every
// table written out; required and optional column membership is checked
// with set operations, never by scanning the header for substrings.
package schema

import (
	b3errors "b3data/internal/errors"
)

// Kind identifies one of the two canonical record kinds.
type Kind string

const (
	KindScalar     Kind = "scalar"
	KindTimeseries Kind = "timeseries"
)

// Canonical column names shared across packages.
const (
	ColIDScal     = "id_scal"
	ColIDTs       = "id_ts"
	ColScenario   = "scenario"
	ColName       = "name"
	ColVarName    = "var_name"
	ColCarrier    = "carrier"
	ColRegion     = "region"
	ColTech       = "tech"
	ColType       = "type"
	ColVarValue   = "var_value"
	ColVarUnit    = "var_unit"
	ColReference  = "reference"
	ColComment    = "comment"
	ColSource     = "source"
	ColStart      = "timeindex_start"
	ColStop       = "timeindex_stop"
	ColResolution = "timeindex_resolution"
	ColSeries     = "series"
	ColTimeindex  = "timeindex"
)

// Schema describes one record kind: the full ordered header and the
// subset of it that may be absent from input tables.
type Schema struct {
	Kind     Kind
	Header   []string
	optional map[string]bool
}

var (
	scalarSchema = newSchema(KindScalar,
		[]string{
			ColIDScal,
			ColScenario,
			ColName,
			ColVarName,
			ColCarrier,
			ColRegion,
			ColTech,
			ColType,
			ColVarValue,
			ColVarUnit,
			ColReference,
			ColComment,
		},
		[]string{ColIDScal, ColVarUnit, ColReference, ColComment},
	)

	timeseriesSchema = newSchema(KindTimeseries,
		[]string{
			ColIDTs,
			ColRegion,
			ColVarName,
			ColStart,
			ColStop,
			ColResolution,
			ColSeries,
			ColVarUnit,
			ColSource,
			ColComment,
		},
		[]string{ColIDTs, ColVarUnit, ColSource, ColComment},
	)
)

func newSchema(kind Kind, header, optional []string) Schema {
	set := make(map[string]bool, len(optional))
	for _, col := range optional {
		set[col] = true
	}
	return Schema{Kind: kind, Header: header, optional: set}
}

// ForKind returns the schema registered for the given record kind.
func ForKind(kind Kind) (Schema, error) {
	switch kind {
	case KindScalar:
		return scalarSchema, nil
	case KindTimeseries:
		return timeseriesSchema, nil
	default:
		return Schema{}, b3errors.NewUnknownKindError(string(kind))
	}
}

// IsOptional reports whether the column may be absent from input tables.
func (s Schema) IsOptional(column string) bool {
	return s.optional[column]
}

// Optional returns the optional columns in header order.
func (s Schema) Optional() []string {
	cols := make([]string, 0, len(s.optional))
	for _, col := range s.Header {
		if s.optional[col] {
			cols = append(cols, col)
		}
	}
	return cols
}

// Required returns the header with the optional columns removed.
func (s Schema) Required() []string {
	cols := make([]string, 0, len(s.Header)-len(s.optional))
	for _, col := range s.Header {
		if !s.optional[col] {
			cols = append(cols, col)
		}
	}
	return cols
}

// MissingRequired returns the required columns absent from present, in
// header order.
func (s Schema) MissingRequired(present []string) []string {
	return missing(s.Required(), present)
}

// MissingOptional returns the optional columns absent from present, in
// header order.
func (s Schema) MissingOptional(present []string) []string {
	return missing(s.Optional(), present)
}

func missing(wanted, present []string) []string {
	set := make(map[string]bool, len(present))
	for _, col := range present {
		set[col] = true
	}
	var out []string
	for _, col := range wanted {
		if !set[col] {
			out = append(out, col)
		}
	}
	return out
}
