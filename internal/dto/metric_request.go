package dto

import "time"

type MetricTimeseriesRequest struct {
	StartTime   time.Time
	EndTime     time.Time
	MetricName  string
	Interval    string
	Aggregation string   // sum, avg, min, max
	Sources     []string // empty means all
	GroupBy     string   // "source", a dimension name, or empty for a single series
	Limit       *int
	Sort        *SortOption
}

type SortOption struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

type TimeseriesDataPoint struct {
	Timestamp int64   `json:"timestamp"` // epoch milliseconds
	Value     float64 `json:"value"`
}

type TimeseriesSeries struct {
	Name string                `json:"name"`
	Data []TimeseriesDataPoint `json:"data"`
}

type MetricTimeseriesResponse struct {
	MetricName string             `json:"metricName"`
	Series     []TimeseriesSeries `json:"series"`
}

type SourceListRequest struct {
	StartTime time.Time
	EndTime   time.Time
}

type SourceListResponse struct {
	Sources []string `json:"sources"`
}
