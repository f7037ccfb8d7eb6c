package repository

import (
	"context"

	"analytics-report-backend/internal/dto"
)

type MetricRepository interface {
	GetTimeseriesMetrics(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error)
	GetDistinctSources(ctx context.Context, req dto.SourceListRequest) (*dto.SourceListResponse, error)
}
