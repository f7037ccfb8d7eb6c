package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog/log"

	"analytics-report-backend/config"
	"analytics-report-backend/internal/dates"
	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/fields"
	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/reporting"
	"analytics-report-backend/internal/transform"
)

var (
	ErrMetricsRequired  = errors.New("at least one metric is required")
	ErrViewIDRequired   = errors.New("viewId is required")
	ErrEmptyResponse    = errors.New("reporting API returned no reports")
	ErrPagination       = errors.New("pagination did not terminate")
	ErrRowCountMismatch = errors.New("accumulated row count does not match reported total")
)

const defaultMaxPages = 10000

type ReportQueryService interface {
	BuildBody(req dto.ReportQueryRequest) (*dto.BatchGetRequest, error)
	FetchReport(ctx context.Context, req dto.ReportQueryRequest) (*model.Report, error)
	Query(ctx context.Context, req dto.ReportQueryRequest) (*model.Table, error)
}

type reportQueryService struct {
	client   reporting.Client
	maxPages int
	pageSize int
}

func NewReportQueryService(client reporting.Client, cfg *config.Config) ReportQueryService {
	maxPages := cfg.Reporting.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &reportQueryService{
		client:   client,
		maxPages: maxPages,
		pageSize: cfg.Reporting.PageSize,
	}
}

// IsValidationError reports whether err was caused by the caller's input
// rather than by the reporting API or the returned data.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMetricsRequired) ||
		errors.Is(err, ErrViewIDRequired) ||
		errors.Is(err, fields.ErrInvalidField) ||
		errors.Is(err, fields.ErrUnsupportedStyle) ||
		errors.Is(err, dates.ErrInvalidDate) ||
		errors.Is(err, dates.ErrUnsupportedDateType)
}

func (s *reportQueryService) BuildBody(req dto.ReportQueryRequest) (*dto.BatchGetRequest, error) {
	if req.ViewID == "" {
		return nil, ErrViewIDRequired
	}
	dateRange, err := dates.NormalizeRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if len(req.Metrics) == 0 {
		return nil, ErrMetricsRequired
	}
	metrics, err := fields.Parse(req.Metrics, fields.StyleMetrics)
	if err != nil {
		return nil, err
	}

	request := dto.ReportRequest{
		ViewID:           req.ViewID,
		DateRanges:       []dates.DateRange{dateRange},
		Metrics:          metrics,
		IncludeEmptyRows: true,
		HideTotals:       true,
		HideValueRanges:  true,
	}

	if len(req.Dimensions) > 0 {
		request.Dimensions, err = fields.Parse(req.Dimensions, fields.StyleDimensions)
		if err != nil {
			return nil, err
		}
	}
	if len(req.DimensionFilters) > 0 {
		filters, err := fields.Parse(req.DimensionFilters, fields.StyleFilters)
		if err != nil {
			return nil, err
		}
		request.DimensionFilterClauses = []dto.DimensionFilterClause{{Filters: filters}}
	}
	if req.Filters != "" {
		request.FiltersExpression = req.Filters
	}

	request.PageSize = s.pageSize
	if req.PageSize > 0 {
		request.PageSize = req.PageSize
	}

	return &dto.BatchGetRequest{ReportRequests: []dto.ReportRequest{request}}, nil
}

// pageAccumulator is the state of one pagination loop.
type pageAccumulator struct {
	header   *model.ColumnHeader
	rows     []model.ReportRow
	expected int
	token    string
	pages    int
}

func (a *pageAccumulator) add(page *model.Report) {
	if a.header == nil {
		header := page.ColumnHeader
		a.header = &header
		a.expected = page.Data.RowCount
	} else if !reflect.DeepEqual(*a.header, page.ColumnHeader) {
		log.Warn().
			Int("page", a.pages).
			Strs("first_metrics", a.header.MetricNames()).
			Strs("page_metrics", page.ColumnHeader.MetricNames()).
			Msg("Column header changed between pages; keeping the first page's header")
	}
	a.rows = append(a.rows, page.Data.Rows...)
	a.token = page.NextPageToken
	a.pages++
}

func (a *pageAccumulator) report() *model.Report {
	return &model.Report{
		ColumnHeader: *a.header,
		Data: model.ReportData{
			Rows:     a.rows,
			RowCount: len(a.rows),
		},
	}
}

// FetchReport executes the query and follows continuation tokens until the
// API stops returning one, then checks the row total.
func (s *reportQueryService) FetchReport(ctx context.Context, req dto.ReportQueryRequest) (*model.Report, error) {
	body, err := s.BuildBody(req)
	if err != nil {
		return nil, err
	}

	acc := &pageAccumulator{}
	for {
		if acc.pages >= s.maxPages {
			return nil, fmt.Errorf("%w: exceeded %d pages", ErrPagination, s.maxPages)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := s.fetchPage(ctx, body)
		if err != nil {
			return nil, err
		}
		previous := acc.token
		acc.add(page)
		log.Debug().
			Str("view_id", req.ViewID).
			Int("page", acc.pages).
			Int("rows", len(page.Data.Rows)).
			Int("accumulated", len(acc.rows)).
			Msg("Fetched report page")

		if acc.token == "" {
			break
		}
		if acc.token == previous {
			return nil, fmt.Errorf("%w: page token %q repeated", ErrPagination, acc.token)
		}
		body.ReportRequests[0].PageToken = acc.token
	}

	if len(acc.rows) != acc.expected {
		log.Error().
			Str("view_id", req.ViewID).
			Int("expected", acc.expected).
			Int("received", len(acc.rows)).
			Msg("Report row count mismatch")
		return nil, fmt.Errorf("%w: expected %d rows, received %d across %d pages", ErrRowCountMismatch, acc.expected, len(acc.rows), acc.pages)
	}

	return acc.report(), nil
}

func (s *reportQueryService) fetchPage(ctx context.Context, body *dto.BatchGetRequest) (*model.Report, error) {
	resp, err := s.client.BatchGet(ctx, body)
	if err != nil {
		log.Error().Err(err).Msg("Reporting API call failed")
		return nil, fmt.Errorf("report query failed: %w", err)
	}
	if resp == nil || len(resp.Reports) == 0 {
		return nil, ErrEmptyResponse
	}
	return &resp.Reports[0], nil
}

func (s *reportQueryService) Query(ctx context.Context, req dto.ReportQueryRequest) (*model.Table, error) {
	log.Info().
		Str("view_id", req.ViewID).
		Interface("start", req.StartDate).
		Interface("end", req.EndDate).
		Int("metrics", len(req.Metrics)).
		Int("dimensions", len(req.Dimensions)).
		Msg("Running report query")

	report, err := s.FetchReport(ctx, req)
	if err != nil {
		return nil, err
	}

	var opts []transform.Option
	if req.ParseDates != nil {
		opts = append(opts, transform.WithParseDates(*req.ParseDates))
	}
	table, err := transform.New(opts...).ToTable(report)
	if err != nil {
		log.Error().Err(err).Str("view_id", req.ViewID).Msg("Failed to build table from report")
		return nil, err
	}

	log.Info().Str("view_id", req.ViewID).Int("rows", table.NumRows()).Int("columns", len(table.Columns)).Msg("Report query complete")
	return table, nil
}
