package timescaledb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/repository"
)

var (
	ErrInvalidInterval    = errors.New("invalid interval")
	ErrInvalidAggregation = errors.New("invalid aggregation")
)

var validIntervals = map[string]bool{
	"1 hour":  true,
	"6 hours": true,
	"1 day":   true,
	"1 week":  true,
	"1 month": true,
}

var aggregations = map[string]string{
	"":    "SUM(value)",
	"sum": "SUM(value)",
	"avg": "AVG(value)",
	"min": "MIN(value)",
	"max": "MAX(value)",
}

type timescaleMetricRepository struct {
	pool       *pgxpool.Pool
	pointTable string
}

func NewTimescaleMetricRepository(pool *pgxpool.Pool) (repository.MetricRepository, error) {
	if pool == nil {
		return nil, errors.New("TimescaleDB connection pool is required for MetricRepository")
	}
	return &timescaleMetricRepository{
		pool:       pool,
		pointTable: metricPointsTableName,
	}, nil
}

// buildTimeseriesQuery renders the bucketed aggregation for req. Dimension
// names are passed as parameters, never spliced into the SQL.
func buildTimeseriesQuery(table string, req dto.MetricTimeseriesRequest) (string, []interface{}, error) {
	if !validIntervals[req.Interval] {
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidInterval, req.Interval)
	}
	aggSQL, ok := aggregations[strings.ToLower(req.Aggregation)]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidAggregation, req.Aggregation)
	}

	var b strings.Builder
	args := []interface{}{req.Interval}
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	b.WriteString("SELECT time_bucket($1::interval, time) AS bucket, ")
	grouped := true
	switch req.GroupBy {
	case "":
		grouped = false
		b.WriteString("'total' AS group_key, ")
	case "source":
		b.WriteString("source AS group_key, ")
	default:
		b.WriteString(fmt.Sprintf("tags->>%s AS group_key, ", next(req.GroupBy)))
	}
	b.WriteString(fmt.Sprintf("%s AS value FROM %s ", aggSQL, table))
	b.WriteString(fmt.Sprintf("WHERE metric_name = %s AND time >= %s AND time < %s ", next(req.MetricName), next(req.StartTime), next(req.EndTime)))

	if len(req.Sources) > 0 {
		placeholders := make([]string, len(req.Sources))
		for i, src := range req.Sources {
			placeholders[i] = next(src)
		}
		b.WriteString(fmt.Sprintf("AND source IN (%s) ", strings.Join(placeholders, ",")))
	}

	b.WriteString("GROUP BY bucket")
	if grouped {
		b.WriteString(", group_key")
	}

	order := "ORDER BY bucket ASC"
	if req.Sort != nil {
		field := "bucket"
		switch req.Sort.Field {
		case "value":
			field = "value"
		case "group", "group_key":
			field = "group_key"
		case "time", "bucket", "":
		default:
			log.Warn().Str("sort_field", req.Sort.Field).Msg("Unsupported sort field requested, defaulting to time bucket.")
		}
		direction := "ASC"
		if strings.ToLower(req.Sort.Order) == "desc" {
			direction = "DESC"
		}
		order = fmt.Sprintf("ORDER BY %s %s, bucket ASC", field, direction)
	}
	b.WriteString(" ")
	b.WriteString(order)

	if req.Limit != nil && *req.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(next(*req.Limit))
	}
	return b.String(), args, nil
}

func (r *timescaleMetricRepository) GetTimeseriesMetrics(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error) {
	querySQL, args, err := buildTimeseriesQuery(r.pointTable, req)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("query", querySQL).Interface("args", args).Msg("Executing TimescaleDB timeseries query")

	rows, err := r.pool.Query(ctx, querySQL, args...)
	if err != nil {
		log.Error().Err(err).Str("query", querySQL).Msg("Failed to execute timeseries query")
		return nil, fmt.Errorf("timeseries query failed: %w", err)
	}
	defer rows.Close()

	seriesMap := make(map[string][]dto.TimeseriesDataPoint)
	order := make([]string, 0)
	for rows.Next() {
		var bucket time.Time
		var groupKey *string
		var value float64
		if err := rows.Scan(&bucket, &groupKey, &value); err != nil {
			log.Error().Err(err).Msg("Failed to scan timeseries row")
			continue
		}

		key := "total"
		if req.GroupBy != "" {
			if groupKey != nil {
				key = *groupKey
			} else {
				key = fmt.Sprintf("%s_NULL", req.GroupBy)
			}
		}
		if _, exists := seriesMap[key]; !exists {
			order = append(order, key)
		}
		seriesMap[key] = append(seriesMap[key], dto.TimeseriesDataPoint{
			Timestamp: bucket.UnixMilli(),
			Value:     value,
		})
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Error iterating timeseries rows")
		return nil, fmt.Errorf("failed iterating query results: %w", err)
	}

	response := &dto.MetricTimeseriesResponse{
		MetricName: req.MetricName,
		Series:     make([]dto.TimeseriesSeries, 0, len(seriesMap)),
	}
	for _, name := range order {
		response.Series = append(response.Series, dto.TimeseriesSeries{Name: name, Data: seriesMap[name]})
	}
	return response, nil
}

func (r *timescaleMetricRepository) GetDistinctSources(ctx context.Context, req dto.SourceListRequest) (*dto.SourceListResponse, error) {
	querySQL := fmt.Sprintf("SELECT DISTINCT source FROM %s WHERE time >= $1 AND time < $2 ORDER BY source", r.pointTable)

	rows, err := r.pool.Query(ctx, querySQL, req.StartTime, req.EndTime)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query distinct sources")
		return nil, fmt.Errorf("failed getting sources: %w", err)
	}
	defer rows.Close()

	sources := make([]string, 0)
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			log.Error().Err(err).Msg("Failed to scan source row")
			continue
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Error iterating source rows")
		return nil, fmt.Errorf("failed iterating source results: %w", err)
	}

	return &dto.SourceListResponse{Sources: sources}, nil
}
