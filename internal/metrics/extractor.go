// Package metrics turns exported report records into time-series points.
package metrics

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/model"
)

type Extractor interface {
	ExtractMetricPoints(record *model.ReportRecord) []model.MetricPoint
}

type reportRecordExtractor struct{}

func NewReportRecordExtractor() Extractor {
	return &reportRecordExtractor{}
}

// ExtractMetricPoints emits one point per numeric metric. The point time is
// the record's event time, or the fetch time for reports without a date
// dimension. Dimensions other than the event time become tags.
func (e *reportRecordExtractor) ExtractMetricPoints(record *model.ReportRecord) []model.MetricPoint {
	if record == nil || len(record.Metrics) == 0 {
		return nil
	}

	ts := record.FetchedAt
	eventValue := ""
	if record.EventTime != nil {
		ts = *record.EventTime
		eventValue = ts.Format(time.RFC3339)
	}

	tags := make(map[string]string, len(record.Dimensions)+1)
	for name, value := range record.Dimensions {
		if eventValue != "" && value == eventValue {
			continue
		}
		tags[name] = value
	}
	tags["view_id"] = record.ViewID

	names := make([]string, 0, len(record.Metrics))
	for name := range record.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	points := make([]model.MetricPoint, 0, len(names))
	for _, name := range names {
		points = append(points, model.MetricPoint{
			Time:       ts.UTC(),
			Source:     record.Source,
			MetricName: name,
			Value:      record.Metrics[name],
			Tags:       tags,
		})
	}
	log.Trace().Str("source", record.Source).Int("row", record.RowIndex).Int("point_count", len(points)).Msg("Extracted metric points")
	return points
}
