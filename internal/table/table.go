// Package table provides the raw tabular value type the pipeline reads,
// filters and writes. A Table is a value: every operation returns a new
// Table and never mutates its receiver or arguments. An empty cell
// represents a null.
package table

import (
	"fmt"
)

// Table is an ordered set of named columns over rows of string cells.
// Name identifies the source (file name without extension) and is used
// in error messages.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// NumRows returns the number of data rows.
func (t Table) NumRows() int {
	return len(t.Rows)
}

// HasColumn reports whether a column with the given name exists.
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column in row order.
func (t Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("table %s has no column %q", t.Name, name)
	}
	cells := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells, nil
}

// Cell returns the cell at the given row in the named column.
func (t Table) Cell(row int, column string) (string, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return "", fmt.Errorf("table %s has no column %q", t.Name, column)
	}
	if row < 0 || row >= len(t.Rows) {
		return "", fmt.Errorf("table %s has no row %d", t.Name, row)
	}
	return t.Rows[row][idx], nil
}

// Filter returns the rows whose cell in the named column equals any of
// the given values. The input table is left untouched.
func (t Table) Filter(column string, values ...string) (Table, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return Table{}, fmt.Errorf("table %s has no column %q", t.Name, column)
	}
	wanted := make(map[string]bool, len(values))
	for _, v := range values {
		wanted[v] = true
	}
	out := Table{Name: t.Name, Columns: append([]string(nil), t.Columns...)}
	for _, row := range t.Rows {
		if wanted[row[idx]] {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out, nil
}

// Reorder returns a copy of the table with its columns rearranged to
// match the given header exactly.
func (t Table) Reorder(header []string) (Table, error) {
	indices := make([]int, len(header))
	for i, col := range header {
		idx := t.ColumnIndex(col)
		if idx < 0 {
			return Table{}, fmt.Errorf("table %s has no column %q", t.Name, col)
		}
		indices[i] = idx
	}
	out := Table{Name: t.Name, Columns: append([]string(nil), header...)}
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(indices))
		for j, idx := range indices {
			cells[j] = row[idx]
		}
		out.Rows[i] = cells
	}
	return out, nil
}

// WithColumn returns a copy of the table with an extra column appended.
// A single fill value is broadcast to every row; otherwise one value per
// row is required.
func (t Table) WithColumn(name string, values ...string) (Table, error) {
	if t.HasColumn(name) {
		return Table{}, fmt.Errorf("table %s already has a column %q", t.Name, name)
	}
	if len(values) != 1 && len(values) != len(t.Rows) {
		return Table{}, fmt.Errorf("column %q needs 1 or %d values, got %d", name, len(t.Rows), len(values))
	}
	out := Table{
		Name:    t.Name,
		Columns: append(append([]string(nil), t.Columns...), name),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		cell := values[0]
		if len(values) > 1 {
			cell = values[i]
		}
		out.Rows[i] = append(append([]string(nil), row...), cell)
	}
	return out, nil
}

// Renamed returns a copy of the table with the column at the given
// position renamed.
func (t Table) Renamed(index int, name string) (Table, error) {
	if index < 0 || index >= len(t.Columns) {
		return Table{}, fmt.Errorf("table %s has no column at position %d", t.Name, index)
	}
	out := t
	out.Columns = append([]string(nil), t.Columns...)
	out.Columns[index] = name
	return out, nil
}
