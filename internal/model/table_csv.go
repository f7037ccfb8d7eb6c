package model

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// FormatValue renders the i-th value as text. Datetimes use RFC 3339.
func (c *Column) FormatValue(i int) string {
	switch c.Type {
	case ColumnInt64:
		return strconv.FormatInt(c.Ints[i], 10)
	case ColumnFloat64:
		return strconv.FormatFloat(c.Floats[i], 'f', -1, 64)
	case ColumnDateTime:
		return c.Times[i].Format(time.RFC3339)
	default:
		return c.Strings[i]
	}
}

// WriteCSV writes a header row of column names followed by one record per row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range t.Columns {
			record[j] = c.FormatValue(i)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
