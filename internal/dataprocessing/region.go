package dataprocessing

import (
	"strings"

	b3errors "b3data/internal/errors"
)

// Default region codes of the two-region source dataset.
const (
	DefaultRegionA = "BE"
	DefaultRegionB = "BB"
)

// RegionExtractor derives a region code from a series name. It is used
// when stacked input carries no region column of its own.
type RegionExtractor interface {
	Extract(varName string) (string, error)
}

// SubstringRegionExtractor matches two fixed region codes as substrings
// of the series name. Both codes present yield the compound code
// "<A>_<B>". This is a convention of the two-region dataset, not a
// general rule.
type SubstringRegionExtractor struct {
	CodeA string
	CodeB string
}

// NewSubstringRegionExtractor creates an extractor for the given codes,
// falling back to the dataset defaults for empty ones.
func NewSubstringRegionExtractor(codeA, codeB string) SubstringRegionExtractor {
	if codeA == "" {
		codeA = DefaultRegionA
	}
	if codeB == "" {
		codeB = DefaultRegionB
	}
	return SubstringRegionExtractor{CodeA: codeA, CodeB: codeB}
}

// Extract implements RegionExtractor.
func (e SubstringRegionExtractor) Extract(varName string) (string, error) {
	hasA := strings.Contains(varName, e.CodeA)
	hasB := strings.Contains(varName, e.CodeB)
	switch {
	case hasA && hasB:
		return e.CodeA + "_" + e.CodeB, nil
	case hasA:
		return e.CodeA, nil
	case hasB:
		return e.CodeB, nil
	default:
		return "", b3errors.NewDataError(
			"the data is missing the region, please add %s or %s to the var_name column",
			e.CodeA, e.CodeB)
	}
}
