package model

import "time"

// ReportRecord is one table row as it travels through the export pipeline.
type ReportRecord struct {
	RunID      string             `json:"run_id"`
	Source     string             `json:"source"`
	ViewID     string             `json:"view_id"`
	FetchedAt  time.Time          `json:"fetched_at"`
	EventTime  *time.Time         `json:"@timestamp,omitempty"` // first datetime dimension, if any
	RowIndex   int                `json:"row_index"`
	Dimensions map[string]string  `json:"dimensions"`
	Metrics    map[string]float64 `json:"metrics"`
}

// RecordsFromTable flattens a table into export records. Datetime columns are
// rendered as RFC 3339 strings; string metrics are kept with the dimensions.
func RecordsFromTable(t *Table, runID, source, viewID string, fetchedAt time.Time) []ReportRecord {
	n := t.NumRows()
	records := make([]ReportRecord, n)
	for i := 0; i < n; i++ {
		rec := ReportRecord{
			RunID:      runID,
			Source:     source,
			ViewID:     viewID,
			FetchedAt:  fetchedAt,
			RowIndex:   i,
			Dimensions: make(map[string]string),
			Metrics:    make(map[string]float64),
		}
		for _, c := range t.Columns {
			switch c.Type {
			case ColumnInt64:
				rec.Metrics[c.Name] = float64(c.Ints[i])
			case ColumnFloat64:
				rec.Metrics[c.Name] = c.Floats[i]
			case ColumnDateTime:
				ts := c.Times[i]
				if rec.EventTime == nil {
					rec.EventTime = &ts
				}
				rec.Dimensions[c.Name] = ts.Format(time.RFC3339)
			default:
				rec.Dimensions[c.Name] = c.Strings[i]
			}
		}
		records[i] = rec
	}
	return records
}
