// Package errors defines the error taxonomy of the b3data validation
// and reshaping pipeline. All four error types are fail-fast: callers
// are expected to halt the pipeline step that raised them. Non-fatal
// repairs (filled optional columns, loosened aggregation keys) are
// reported through the log, not through this package.
package errors

import (
	"fmt"
	"strings"
)

// SchemaError reports one or more required columns absent from an input
// table. Missing always lists every absent column, not just the first.
type SchemaError struct {
	File    string
	Missing []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("the data in %s is missing the required column(s): %s",
		e.File, strings.Join(e.Missing, ", "))
}

// NewSchemaError creates a SchemaError for a table identified by file
func NewSchemaError(file string, missing []string) *SchemaError {
	return &SchemaError{File: file, Missing: missing}
}

// FormatError reports a time axis that is not datetime-typed, has no
// inferable sampling frequency, or disagrees across a stacked batch.
type FormatError struct {
	Reason string
}

// Error implements the error interface
func (e *FormatError) Error() string {
	return e.Reason
}

// NewFormatError creates a FormatError from a format string
func NewFormatError(format string, args ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// DataError reports values that cannot be derived from the data itself,
// such as a region missing from a series name.
type DataError struct {
	Reason string
}

// Error implements the error interface
func (e *DataError) Error() string {
	return e.Reason
}

// NewDataError creates a DataError from a format string
func NewDataError(format string, args ...any) *DataError {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}

// UnknownKindError reports a schema request for an unrecognized record
// kind.
type UnknownKindError struct {
	Kind string
}

// Error implements the error interface
func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("%s is not a valid record kind, please choose between 'scalar' and 'timeseries'", e.Kind)
}

// NewUnknownKindError creates an UnknownKindError
func NewUnknownKindError(kind string) *UnknownKindError {
	return &UnknownKindError{Kind: kind}
}
