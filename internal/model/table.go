package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type ColumnType string

const (
	ColumnString   ColumnType = "string"
	ColumnInt64    ColumnType = "int64"
	ColumnFloat64  ColumnType = "float64"
	ColumnDateTime ColumnType = "datetime"
)

type ColumnKind string

const (
	KindDimension ColumnKind = "dimension"
	KindMetric    ColumnKind = "metric"
)

// Column is a named, typed, row-aligned vector. Exactly one of the value
// slices is populated, selected by Type.
type Column struct {
	Name    string
	Kind    ColumnKind
	Type    ColumnType
	Strings []string
	Ints    []int64
	Floats  []float64
	Times   []time.Time
}

func NewColumn(name string, kind ColumnKind, typ ColumnType, capacity int) *Column {
	c := &Column{Name: name, Kind: kind, Type: typ}
	switch typ {
	case ColumnInt64:
		c.Ints = make([]int64, 0, capacity)
	case ColumnFloat64:
		c.Floats = make([]float64, 0, capacity)
	case ColumnDateTime:
		c.Times = make([]time.Time, 0, capacity)
	default:
		c.Strings = make([]string, 0, capacity)
	}
	return c
}

func (c *Column) Len() int {
	switch c.Type {
	case ColumnInt64:
		return len(c.Ints)
	case ColumnFloat64:
		return len(c.Floats)
	case ColumnDateTime:
		return len(c.Times)
	default:
		return len(c.Strings)
	}
}

// Value returns the i-th value boxed in its Go type.
func (c *Column) Value(i int) interface{} {
	switch c.Type {
	case ColumnInt64:
		return c.Ints[i]
	case ColumnFloat64:
		return c.Floats[i]
	case ColumnDateTime:
		return c.Times[i]
	default:
		return c.Strings[i]
	}
}

// Table is the typed result of a report query: dimension columns first, then
// metric columns, all of equal length.
type Table struct {
	Columns []*Column
}

func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

func (t *Table) Empty() bool {
	return t.NumRows() == 0
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Rows materialises the table row by row.
func (t *Table) Rows() [][]interface{} {
	n := t.NumRows()
	rows := make([][]interface{}, n)
	for i := 0; i < n; i++ {
		row := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = c.Value(i)
		}
		rows[i] = row
	}
	return rows
}

// Schema describes the columns of a table without its data.
func (t *Table) Schema() []ColumnSchema {
	schema := make([]ColumnSchema, len(t.Columns))
	for i, c := range t.Columns {
		schema[i] = ColumnSchema{Name: c.Name, Kind: c.Kind, Type: c.Type}
	}
	return schema
}

// Validate checks that every column holds the same number of values.
func (t *Table) Validate() error {
	n := t.NumRows()
	for _, c := range t.Columns {
		if c.Len() != n {
			return fmt.Errorf("column %q has %d values, expected %d", c.Name, c.Len(), n)
		}
	}
	return nil
}

type ColumnSchema struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
	Type ColumnType `json:"type"`
}

func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Columns []ColumnSchema  `json:"columns"`
		Data    [][]interface{} `json:"data"`
	}{
		Columns: t.Schema(),
		Data:    t.Rows(),
	})
}
