package models

import (
	"sort"
	"time"
)

// Table is a time-indexed table: one row per timestamp, one cell per column.
type Table struct {
	Index   []time.Time
	Columns []string
	Rows    [][]Value
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Index)
}

// AppendRow adds a row. The row must have one cell per column.
func (t *Table) AppendRow(ts time.Time, row []Value) {
	t.Index = append(t.Index, ts)
	t.Rows = append(t.Rows, row)
}

// ColumnIndex returns the position of a column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Column returns a copy of the cells of one column.
func (t *Table) Column(name string) ([]Value, bool) {
	j, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out, true
}

// SetColumn replaces the cells of a column, appending it when absent.
func (t *Table) SetColumn(name string, values []Value) {
	j, ok := t.ColumnIndex(name)
	if !ok {
		t.Columns = append(t.Columns, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], values[i])
		}
		return
	}
	for i := range t.Rows {
		t.Rows[i][j] = values[i]
	}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		Index:   make([]time.Time, len(t.Index)),
		Columns: make([]string, len(t.Columns)),
		Rows:    make([][]Value, len(t.Rows)),
	}
	copy(out.Index, t.Index)
	copy(out.Columns, t.Columns)
	for i, row := range t.Rows {
		out.Rows[i] = make([]Value, len(row))
		copy(out.Rows[i], row)
	}
	return out
}

// SortByIndex orders rows chronologically, keeping the input order of rows
// sharing a timestamp.
func (t *Table) SortByIndex() {
	sort.Stable(byIndex{t})
}

type byIndex struct{ t *Table }

func (b byIndex) Len() int           { return len(b.t.Index) }
func (b byIndex) Less(i, j int) bool { return b.t.Index[i].Before(b.t.Index[j]) }
func (b byIndex) Swap(i, j int) {
	b.t.Index[i], b.t.Index[j] = b.t.Index[j], b.t.Index[i]
	b.t.Rows[i], b.t.Rows[j] = b.t.Rows[j], b.t.Rows[i]
}

// MinColumn and MaxColumn name the two columns a daily min/max aggregation
// produces for an input column.
func MinColumn(name string) string { return name + "_min" }
func MaxColumn(name string) string { return name + "_max" }
