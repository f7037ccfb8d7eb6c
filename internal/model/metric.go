package model

import "time"

// MetricPoint is a single numeric metric observation extracted from an exported report row.
type MetricPoint struct {
	Time       time.Time         `json:"time"`
	Source     string            `json:"source"`
	MetricName string            `json:"metric_name"`
	Value      float64           `json:"value"`
	Tags       map[string]string `json:"tags"`
}
