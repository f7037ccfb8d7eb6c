package model

// Report is one page (or the accumulation of all pages) of a reporting API response.
type Report struct {
	ColumnHeader  ColumnHeader `json:"columnHeader"`
	Data          ReportData   `json:"data"`
	NextPageToken string       `json:"nextPageToken,omitempty"`
}

type ColumnHeader struct {
	Dimensions   []string     `json:"dimensions,omitempty"`
	MetricHeader MetricHeader `json:"metricHeader"`
}

type MetricHeader struct {
	MetricHeaderEntries []MetricHeaderEntry `json:"metricHeaderEntries"`
}

type MetricHeaderEntry struct {
	Name string `json:"name"`
	Type string `json:"type"` // INTEGER, TIME, PERCENT, CURRENCY, STRING, FLOAT...
}

type ReportData struct {
	Rows     []ReportRow `json:"rows,omitempty"`
	RowCount int         `json:"rowCount,omitempty"`
}

type ReportRow struct {
	Dimensions []string          `json:"dimensions,omitempty"`
	Metrics    []DateRangeValues `json:"metrics,omitempty"`
}

// DateRangeValues holds the metric values of a row for one requested date range.
type DateRangeValues struct {
	Values []string `json:"values"`
}

// MetricNames returns the metric column names in header order.
func (h ColumnHeader) MetricNames() []string {
	names := make([]string, len(h.MetricHeader.MetricHeaderEntries))
	for i, e := range h.MetricHeader.MetricHeaderEntries {
		names[i] = e.Name
	}
	return names
}
