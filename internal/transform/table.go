// Package transform reshapes an accumulated report payload into a typed table.
package transform

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/model"
)

var (
	ErrCoercion     = errors.New("value cannot be converted to column type")
	ErrMalformedRow = errors.New("row does not match column header")
)

type Transformer struct {
	parseDates bool
}

type Option func(*Transformer)

// WithParseDates toggles promotion of fixed-width date dimensions. Enabled by default.
func WithParseDates(enabled bool) Option {
	return func(t *Transformer) {
		t.parseDates = enabled
	}
}

func New(opts ...Option) *Transformer {
	t := &Transformer{parseDates: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ToTable builds the table for report. A report without rows yields an
// empty table that still carries the declared columns.
func (t *Transformer) ToTable(report *model.Report) (*model.Table, error) {
	if report == nil {
		return nil, errors.New("report is nil")
	}
	header := report.ColumnHeader
	rows := report.Data.Rows
	entries := header.MetricHeader.MetricHeaderEntries

	dimCols := make([]*model.Column, len(header.Dimensions))
	for i, name := range header.Dimensions {
		dimCols[i] = model.NewColumn(name, model.KindDimension, model.ColumnString, len(rows))
	}
	metricTypes := make([]MetricType, len(entries))
	metricCols := make([]*model.Column, len(entries))
	for i, e := range entries {
		metricTypes[i] = ParseMetricType(e.Type)
		metricCols[i] = model.NewColumn(e.Name, model.KindMetric, metricTypes[i].ColumnType(), len(rows))
	}

	zeros := make([]string, len(entries))
	for i := range zeros {
		zeros[i] = "0"
	}

	for r, row := range rows {
		if len(row.Dimensions) != len(dimCols) {
			return nil, fmt.Errorf("%w: row %d has %d dimension values, header declares %d", ErrMalformedRow, r, len(row.Dimensions), len(dimCols))
		}
		for i, v := range row.Dimensions {
			dimCols[i].Strings = append(dimCols[i].Strings, v)
		}

		values := zeros
		if len(row.Metrics) > 0 {
			values = row.Metrics[0].Values
		}
		if len(values) != len(metricCols) {
			return nil, fmt.Errorf("%w: row %d has %d metric values, header declares %d", ErrMalformedRow, r, len(values), len(metricCols))
		}
		for i, raw := range values {
			if err := metricTypes[i].appendValue(metricCols[i], raw); err != nil {
				return nil, fmt.Errorf("%w: column %q (%s) row %d: %q: %v", ErrCoercion, metricCols[i].Name, metricTypes[i], r, raw, err)
			}
		}
	}

	if t.parseDates && len(rows) > 0 {
		for i, c := range dimCols {
			parsed, err := parseDateColumn(c)
			if err != nil {
				return nil, err
			}
			if parsed != c {
				log.Debug().Str("column", c.Name).Msg("Promoted dimension column to datetime")
			}
			dimCols[i] = parsed
		}
	}

	table := &model.Table{Columns: append(dimCols, metricCols...)}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}
	return table, nil
}
