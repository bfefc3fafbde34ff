package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"b3data/internal/schema"
	"b3data/pkg/contracts/domain"
)

// AggregateAll is the sentinel written into every dimension that was
// collapsed during aggregation.
const AggregateAll = "ALL"

// Reducer collapses the var_value entries of one aggregation group into
// a single value.
type Reducer func(values []float64) float64

// Sum is the default reducer.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// groupColumns are the identity dimensions of a scalar record. The
// aggregation key is this set minus the collapsed dimensions.
var groupColumns = []string{
	schema.ColScenario,
	schema.ColCarrier,
	schema.ColRegion,
	schema.ColTech,
	schema.ColType,
	schema.ColVarName,
	schema.ColVarUnit,
}

var scalarDimension = map[string]func(domain.ScalarRecord) string{
	schema.ColScenario: func(r domain.ScalarRecord) string { return r.Scenario },
	schema.ColCarrier:  func(r domain.ScalarRecord) string { return r.Carrier },
	schema.ColRegion:   func(r domain.ScalarRecord) string { return r.Region },
	schema.ColTech:     func(r domain.ScalarRecord) string { return r.Tech },
	schema.ColType:     func(r domain.ScalarRecord) string { return r.Type },
	schema.ColVarName:  func(r domain.ScalarRecord) string { return r.VarName },
	schema.ColVarUnit:  func(r domain.ScalarRecord) string { return r.VarUnit },
}

// AggregateScalars collapses scalar records along the given dimensions.
// Records are grouped by the remaining identity dimensions and reduced
// with the given reducer (nil means Sum). Each collapsed dimension is
// overwritten with the sentinel "ALL". A group column that contains
// empty entries is removed from the key entirely, with a notice; the
// affected rows are kept and grouped under the looser key.
func AggregateScalars(records []domain.ScalarRecord, collapse []string, reduce Reducer) ([]domain.ScalarRecord, error) {
	if reduce == nil {
		reduce = Sum
	}

	collapsed := make(map[string]bool, len(collapse))
	for _, dim := range collapse {
		if _, ok := scalarDimension[dim]; !ok {
			return nil, fmt.Errorf("cannot aggregate by %q, expected one of: %s",
				dim, strings.Join(groupColumns, ", "))
		}
		collapsed[dim] = true
	}

	var key []string
	for _, col := range groupColumns {
		if !collapsed[col] {
			key = append(key, col)
		}
	}

	// A key column with empty entries loosens the key instead of
	// dropping rows.
	key = dropNullKeyColumns(records, key)

	type group struct {
		exemplar domain.ScalarRecord
		values   []float64
	}
	var order []string
	groups := make(map[string]*group)
	for _, r := range records {
		parts := make([]string, len(key))
		for i, col := range key {
			parts[i] = scalarDimension[col](r)
		}
		k := strings.Join(parts, "\x1f")
		g, ok := groups[k]
		if !ok {
			g = &group{exemplar: r}
			groups[k] = g
			order = append(order, k)
		}
		g.values = append(g.values, r.VarValue)
	}

	keySet := make(map[string]bool, len(key))
	for _, col := range key {
		keySet[col] = true
	}

	out := make([]domain.ScalarRecord, 0, len(order))
	for i, k := range order {
		g := groups[k]
		r := domain.ScalarRecord{ID: int64(i), VarValue: reduce(g.values)}
		for col, get := range scalarDimension {
			switch {
			case collapsed[col]:
				setScalarDimension(&r, col, AggregateAll)
			case keySet[col]:
				setScalarDimension(&r, col, get(g.exemplar))
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func dropNullKeyColumns(records []domain.ScalarRecord, key []string) []string {
	kept := key[:0:0]
	for _, col := range key {
		hasNull := false
		for _, r := range records {
			if scalarDimension[col](r) == "" {
				hasNull = true
				break
			}
		}
		if hasNull {
			slog.Warn("group column contains empty entries, removed from the aggregation key",
				slog.String("column", col))
			continue
		}
		kept = append(kept, col)
	}
	return kept
}

func setScalarDimension(r *domain.ScalarRecord, column, value string) {
	switch column {
	case schema.ColScenario:
		r.Scenario = value
	case schema.ColCarrier:
		r.Carrier = value
	case schema.ColRegion:
		r.Region = value
	case schema.ColTech:
		r.Tech = value
	case schema.ColType:
		r.Type = value
	case schema.ColVarName:
		r.VarName = value
	case schema.ColVarUnit:
		r.VarUnit = value
	}
}
