package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/service"
)

type fakeRecordRepo struct {
	got *dto.RecordSearchRequest
}

func (f *fakeRecordRepo) Search(_ context.Context, req dto.RecordSearchRequest) (*dto.RecordSearchResponse, error) {
	f.got = &req
	return &dto.RecordSearchResponse{Page: req.Page, Size: req.Size}, nil
}

type fakeMetricRepo struct {
	timeseries *dto.MetricTimeseriesRequest
	sources    *dto.SourceListRequest
}

func (f *fakeMetricRepo) GetTimeseriesMetrics(_ context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error) {
	f.timeseries = &req
	return &dto.MetricTimeseriesResponse{MetricName: req.MetricName}, nil
}

func (f *fakeMetricRepo) GetDistinctSources(_ context.Context, req dto.SourceListRequest) (*dto.SourceListResponse, error) {
	f.sources = &req
	return &dto.SourceListResponse{Sources: []string{"daily"}}, nil
}

var (
	rangeStart = time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC)
)

func TestSearchRecords_Defaults(t *testing.T) {
	repo := &fakeRecordRepo{}
	_, err := service.NewRecordQueryService(repo).SearchRecords(context.Background(), dto.RecordSearchRequest{
		StartTime: rangeStart,
		EndTime:   rangeEnd,
		Size:      5000,
		SortOrder: "ASC",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.got)
	assert.Equal(t, 1, repo.got.Page)
	assert.Equal(t, 50, repo.got.Size)
	assert.Equal(t, "fetched_at", repo.got.SortBy)
	assert.Equal(t, "asc", repo.got.SortOrder)
}

func TestSearchRecords_InvalidRange(t *testing.T) {
	repo := &fakeRecordRepo{}
	svc := service.NewRecordQueryService(repo)

	_, err := svc.SearchRecords(context.Background(), dto.RecordSearchRequest{EndTime: rangeEnd})
	assert.ErrorIs(t, err, service.ErrInvalidTimeRange)

	_, err = svc.SearchRecords(context.Background(), dto.RecordSearchRequest{StartTime: rangeEnd, EndTime: rangeStart})
	assert.ErrorIs(t, err, service.ErrInvalidTimeRange)
	assert.Nil(t, repo.got)
}

func TestGetTimeseries_Defaults(t *testing.T) {
	repo := &fakeMetricRepo{}
	resp, err := service.NewMetricQueryService(repo).GetTimeseries(context.Background(), dto.MetricTimeseriesRequest{
		StartTime:  rangeStart,
		EndTime:    rangeEnd,
		MetricName: "ga:users",
		GroupBy:    "total",
	})
	require.NoError(t, err)
	assert.Equal(t, "ga:users", resp.MetricName)
	assert.Equal(t, "1 day", repo.timeseries.Interval)
	assert.Empty(t, repo.timeseries.GroupBy)
}

func TestGetTimeseries_Validation(t *testing.T) {
	repo := &fakeMetricRepo{}
	svc := service.NewMetricQueryService(repo)

	_, err := svc.GetTimeseries(context.Background(), dto.MetricTimeseriesRequest{StartTime: rangeStart, EndTime: rangeEnd})
	assert.ErrorIs(t, err, service.ErrInvalidMetricQuery)

	_, err = svc.GetTimeseries(context.Background(), dto.MetricTimeseriesRequest{MetricName: "ga:users"})
	assert.ErrorIs(t, err, service.ErrInvalidTimeRange)
	assert.Nil(t, repo.timeseries)
}

func TestGetSources(t *testing.T) {
	repo := &fakeMetricRepo{}
	resp, err := service.NewMetricQueryService(repo).GetSources(context.Background(), dto.SourceListRequest{StartTime: rangeStart, EndTime: rangeEnd})
	require.NoError(t, err)
	assert.Equal(t, []string{"daily"}, resp.Sources)
	assert.Equal(t, rangeStart, repo.sources.StartTime)
}
