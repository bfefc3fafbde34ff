package dataprocessing

import (
	"fmt"

	"b3data/internal/schema"
	"b3data/internal/table"
)

// Variant is the closed set of recognized time series input shapes. It
// is detected once from a small probe of the file, then dispatched on.
type Variant int

const (
	// VariantStacked marks input already in the one-row-per-series form.
	VariantStacked Variant = iota
	// VariantWide marks a time-indexed table with one column per series.
	VariantWide
	// VariantFlowResult marks the optimization-result layout whose three
	// leading rows encode the link type and endpoints of each column.
	VariantFlowResult
)

func (v Variant) String() string {
	switch v {
	case VariantStacked:
		return "stacked"
	case VariantWide:
		return "wide"
	case VariantFlowResult:
		return "flow-result"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// DetectVariant classifies a raw time series table from a probe of its
// header and first three data rows.
func DetectVariant(probe table.Table, sch schema.Schema) Variant {
	if isFlowResult(probe) {
		return VariantFlowResult
	}
	required := make(map[string]bool)
	for _, col := range sch.Required() {
		required[col] = true
	}
	for _, col := range probe.Columns {
		if required[col] {
			return VariantStacked
		}
	}
	return VariantWide
}

// isFlowResult checks for the multi-row-header layout: the first column
// is named "from" and its first three values are the literal tokens
// "to", "type" and "timeindex".
func isFlowResult(probe table.Table) bool {
	if len(probe.Columns) == 0 || probe.Columns[0] != "from" || probe.NumRows() < 3 {
		return false
	}
	from, err := probe.Column("from")
	if err != nil {
		return false
	}
	return from[0] == "to" && from[1] == "type" && from[2] == "timeindex"
}

// collapseFlowResult re-reads a flow-result file skipping the three
// encoded header rows and renames each data column following the
// convention "<type> from <from> to <to>", e.g.
// "flow from BB-biomass-st to BB-electricity". The first column becomes
// the time axis.
func collapseFlowResult(path string, probe table.Table) (table.Table, error) {
	names := make([]string, len(probe.Columns))
	names[0] = schema.ColTimeindex
	for i := 1; i < len(probe.Columns); i++ {
		to := probe.Rows[0][i]
		typ := probe.Rows[1][i]
		names[i] = typ + " from " + probe.Columns[i] + " to " + to
	}

	full, err := table.ReadCSVOffset(path, 3)
	if err != nil {
		return table.Table{}, err
	}
	if len(full.Columns) != len(names) {
		return table.Table{}, fmt.Errorf(
			"flow-result table %s has %d columns, expected %d from its header",
			full.Name, len(full.Columns), len(names))
	}
	full.Columns = names
	return full, nil
}
