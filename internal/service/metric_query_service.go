package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/repository"
)

var ErrInvalidMetricQuery = errors.New("invalid metric query")

type MetricQueryService interface {
	GetTimeseries(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error)
	GetSources(ctx context.Context, req dto.SourceListRequest) (*dto.SourceListResponse, error)
}

type metricQueryService struct {
	metricRepo repository.MetricRepository
}

func NewMetricQueryService(metricRepo repository.MetricRepository) MetricQueryService {
	return &metricQueryService{
		metricRepo: metricRepo,
	}
}

func validateTimeRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errors.Join(ErrInvalidTimeRange, errors.New("startTime and endTime are required"))
	}
	if end.Before(start) {
		return errors.Join(ErrInvalidTimeRange, errors.New("endTime cannot be before startTime"))
	}
	return nil
}

func (s *metricQueryService) GetTimeseries(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error) {
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if req.MetricName == "" {
		return nil, fmt.Errorf("%w: metricName is required", ErrInvalidMetricQuery)
	}
	if req.Interval == "" {
		req.Interval = "1 day"
	}
	if req.GroupBy == "total" {
		req.GroupBy = ""
	}

	log.Info().
		Time("start", req.StartTime).
		Time("end", req.EndTime).
		Strs("sources", req.Sources).
		Str("metric", req.MetricName).
		Str("interval", req.Interval).
		Str("aggregation", req.Aggregation).
		Str("group_by", req.GroupBy).
		Msg("Getting timeseries metrics")

	return s.metricRepo.GetTimeseriesMetrics(ctx, req)
}

func (s *metricQueryService) GetSources(ctx context.Context, req dto.SourceListRequest) (*dto.SourceListResponse, error) {
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	log.Info().Time("start", req.StartTime).Time("end", req.EndTime).Msg("Getting distinct metric sources")
	return s.metricRepo.GetDistinctSources(ctx, req)
}
