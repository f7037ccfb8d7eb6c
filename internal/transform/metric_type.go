package transform

import (
	"fmt"
	"strconv"

	"analytics-report-backend/internal/model"
)

// MetricType is the closed set of metric type tags the reporting API declares.
type MetricType int

const (
	MetricFloat MetricType = iota // fallback for FLOAT and any unknown tag
	MetricInteger
	MetricTime
	MetricPercent
	MetricCurrency
	MetricString
)

func ParseMetricType(tag string) MetricType {
	switch tag {
	case "INTEGER":
		return MetricInteger
	case "TIME":
		return MetricTime
	case "PERCENT":
		return MetricPercent
	case "CURRENCY":
		return MetricCurrency
	case "STRING":
		return MetricString
	default:
		return MetricFloat
	}
}

func (m MetricType) String() string {
	switch m {
	case MetricInteger:
		return "INTEGER"
	case MetricTime:
		return "TIME"
	case MetricPercent:
		return "PERCENT"
	case MetricCurrency:
		return "CURRENCY"
	case MetricString:
		return "STRING"
	case MetricFloat:
		return "FLOAT"
	}
	panic(fmt.Sprintf("transform: unknown metric type %d", int(m)))
}

// ColumnType maps the metric type onto the semantic type of its table column.
func (m MetricType) ColumnType() model.ColumnType {
	switch m {
	case MetricInteger:
		return model.ColumnInt64
	case MetricTime, MetricPercent, MetricCurrency, MetricFloat:
		return model.ColumnFloat64
	case MetricString:
		return model.ColumnString
	}
	panic(fmt.Sprintf("transform: unknown metric type %d", int(m)))
}

// appendValue converts raw and appends it to c, which must have been created
// with m.ColumnType().
func (m MetricType) appendValue(c *model.Column, raw string) error {
	switch m.ColumnType() {
	case model.ColumnInt64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		c.Ints = append(c.Ints, v)
	case model.ColumnFloat64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		c.Floats = append(c.Floats, v)
	default:
		c.Strings = append(c.Strings, raw)
	}
	return nil
}
