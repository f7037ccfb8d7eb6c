package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-report-backend/config"
	"analytics-report-backend/internal/dates"
	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/fields"
	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/service"
	"analytics-report-backend/internal/transform"
)

// fakeClient serves pages in order and records the page token of every call.
type fakeClient struct {
	pages  []model.Report
	tokens []string
	err    error
}

func (f *fakeClient) BatchGet(_ context.Context, body *dto.BatchGetRequest) (*dto.BatchGetResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tokens = append(f.tokens, body.ReportRequests[0].PageToken)
	if len(f.tokens) > len(f.pages) {
		return &dto.BatchGetResponse{}, nil
	}
	return &dto.BatchGetResponse{Reports: []model.Report{f.pages[len(f.tokens)-1]}}, nil
}

func newService(client *fakeClient) service.ReportQueryService {
	return service.NewReportQueryService(client, &config.Config{})
}

var usersHeader = model.ColumnHeader{
	MetricHeader: model.MetricHeader{MetricHeaderEntries: []model.MetricHeaderEntry{{Name: "ga:users", Type: "INTEGER"}}},
}

func page(rowCount int, token string, values ...string) model.Report {
	rows := make([]model.ReportRow, len(values))
	for i, v := range values {
		rows[i] = model.ReportRow{Metrics: []model.DateRangeValues{{Values: []string{v}}}}
	}
	return model.Report{
		ColumnHeader:  usersHeader,
		Data:          model.ReportData{Rows: rows, RowCount: rowCount},
		NextPageToken: token,
	}
}

func baseRequest() dto.ReportQueryRequest {
	return dto.ReportQueryRequest{
		ViewID:    "VIEWID",
		StartDate: "5DaysAgo",
		EndDate:   "yesterday",
		Metrics:   fields.Strings("ga:users"),
	}
}

func TestBuildBody_Minimal(t *testing.T) {
	body, err := newService(&fakeClient{}).BuildBody(baseRequest())
	require.NoError(t, err)

	expected := &dto.BatchGetRequest{ReportRequests: []dto.ReportRequest{{
		ViewID:           "VIEWID",
		DateRanges:       []dates.DateRange{{StartDate: "5DaysAgo", EndDate: "yesterday"}},
		Metrics:          []map[string]interface{}{{"expression": "ga:users"}},
		IncludeEmptyRows: true,
		HideTotals:       true,
		HideValueRanges:  true,
	}}}
	assert.Equal(t, expected, body)
}

func TestBuildBody_Optionals(t *testing.T) {
	req := baseRequest()
	req.Dimensions = fields.Strings("ga:date")
	req.Filters = "ga:browser==Firefox"
	req.DimensionFilters = []interface{}{map[string]interface{}{"dimensionName": "ga:country", "expressions": []interface{}{"Norway"}}}
	req.PageSize = 500

	body, err := newService(&fakeClient{}).BuildBody(req)
	require.NoError(t, err)
	r := body.ReportRequests[0]
	assert.Equal(t, []map[string]interface{}{{"name": "ga:date"}}, r.Dimensions)
	assert.Equal(t, "ga:browser==Firefox", r.FiltersExpression)
	require.Len(t, r.DimensionFilterClauses, 1)
	assert.Equal(t, "ga:country", r.DimensionFilterClauses[0].Filters[0]["dimensionName"])
	assert.Equal(t, 500, r.PageSize)
}

func TestBuildBody_Errors(t *testing.T) {
	s := newService(&fakeClient{})

	req := baseRequest()
	req.Metrics = nil
	_, err := s.BuildBody(req)
	assert.ErrorIs(t, err, service.ErrMetricsRequired)
	assert.True(t, service.IsValidationError(err))

	req = baseRequest()
	req.EndDate = "tomorrow"
	_, err = s.BuildBody(req)
	assert.ErrorIs(t, err, dates.ErrInvalidDate)
	assert.Contains(t, err.Error(), "endDate")

	req = baseRequest()
	req.Dimensions = []interface{}{map[string]interface{}{"alias": "x"}}
	_, err = s.BuildBody(req)
	assert.ErrorIs(t, err, fields.ErrInvalidField)
	assert.True(t, service.IsValidationError(err))

	req = baseRequest()
	req.ViewID = ""
	_, err = s.BuildBody(req)
	assert.ErrorIs(t, err, service.ErrViewIDRequired)
}

func TestQuery_SinglePage(t *testing.T) {
	client := &fakeClient{pages: []model.Report{page(1, "", "1")}}
	table, err := newService(client).Query(context.Background(), baseRequest())
	require.NoError(t, err)

	require.Len(t, table.Columns, 1)
	assert.Equal(t, "ga:users", table.Columns[0].Name)
	assert.Equal(t, []int64{1}, table.Columns[0].Ints)
	assert.Equal(t, []string{""}, client.tokens)
}

func TestQuery_AccumulatesPages(t *testing.T) {
	client := &fakeClient{pages: []model.Report{
		page(3, "page-2", "1", "2"),
		page(0, "", "3"),
	}}
	table, err := newService(client).Query(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, table.Columns[0].Ints)
	assert.Equal(t, []string{"", "page-2"}, client.tokens)
}

func TestQuery_RowCountMismatch(t *testing.T) {
	tests := []struct {
		name  string
		pages []model.Report
	}{
		{"fewer rows than promised", []model.Report{page(4, "page-2", "1", "2"), page(4, "", "3")}},
		{"more rows than promised", []model.Report{page(2, "page-2", "1", "2"), page(2, "", "3")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := newService(&fakeClient{pages: tt.pages}).Query(context.Background(), baseRequest())
			require.Error(t, err)
			assert.Nil(t, table)
			assert.ErrorIs(t, err, service.ErrRowCountMismatch)
		})
	}
}

func TestQuery_HeaderReadFromFirstPageOnly(t *testing.T) {
	second := page(0, "", "2")
	second.ColumnHeader = model.ColumnHeader{}
	client := &fakeClient{pages: []model.Report{page(2, "next", "1"), second}}

	table, err := newService(client).Query(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"ga:users"}, table.ColumnNames())
	assert.Equal(t, []int64{1, 2}, table.Columns[0].Ints)
}

func TestQuery_RepeatedTokenStops(t *testing.T) {
	client := &fakeClient{pages: []model.Report{page(3, "same", "1"), page(3, "same", "2"), page(3, "", "3")}}
	_, err := newService(client).Query(context.Background(), baseRequest())
	assert.ErrorIs(t, err, service.ErrPagination)
}

func TestQuery_PageLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.Reporting.MaxPages = 2
	client := &fakeClient{pages: []model.Report{page(3, "a", "1"), page(3, "b", "2"), page(3, "", "3")}}
	_, err := service.NewReportQueryService(client, cfg).Query(context.Background(), baseRequest())
	assert.ErrorIs(t, err, service.ErrPagination)
}

func TestQuery_EmptyReport(t *testing.T) {
	client := &fakeClient{pages: []model.Report{{ColumnHeader: usersHeader}}}
	table, err := newService(client).Query(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.True(t, table.Empty())
	assert.Equal(t, []string{"ga:users"}, table.ColumnNames())
}

func TestQuery_NoReports(t *testing.T) {
	client := &fakeClient{}
	_, err := newService(client).Query(context.Background(), baseRequest())
	assert.ErrorIs(t, err, service.ErrEmptyResponse)
}

func TestQuery_ClientError(t *testing.T) {
	boom := errors.New("boom")
	_, err := newService(&fakeClient{err: boom}).Query(context.Background(), baseRequest())
	assert.ErrorIs(t, err, boom)
	assert.False(t, service.IsValidationError(err))
}

func TestQuery_CoercionErrorSurfaces(t *testing.T) {
	client := &fakeClient{pages: []model.Report{page(1, "", "not-a-number")}}
	_, err := newService(client).Query(context.Background(), baseRequest())
	assert.ErrorIs(t, err, transform.ErrCoercion)
}

func TestQuery_ParseDatesToggle(t *testing.T) {
	header := model.ColumnHeader{
		Dimensions:   []string{"ga:date"},
		MetricHeader: usersHeader.MetricHeader,
	}
	report := model.Report{
		ColumnHeader: header,
		Data: model.ReportData{RowCount: 1, Rows: []model.ReportRow{
			{Dimensions: []string{"20200319"}, Metrics: []model.DateRangeValues{{Values: []string{"1"}}}},
		}},
	}

	table, err := newService(&fakeClient{pages: []model.Report{report}}).Query(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, model.ColumnDateTime, table.Columns[0].Type)

	off := false
	req := baseRequest()
	req.ParseDates = &off
	table, err = newService(&fakeClient{pages: []model.Report{report}}).Query(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.ColumnString, table.Columns[0].Type)
}

func TestQuery_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newService(&fakeClient{pages: []model.Report{page(1, "", "1")}}).Query(ctx, baseRequest())
	assert.ErrorIs(t, err, context.Canceled)
}
