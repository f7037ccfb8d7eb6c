package dto

import (
	"analytics-report-backend/internal/dates"
	"analytics-report-backend/internal/model"
)

// ReportQueryRequest is the caller facing description of one report query.
// Date fields accept time.Time values or the keyword/pattern strings.
type ReportQueryRequest struct {
	ViewID           string        `json:"viewId" binding:"required"`
	StartDate        interface{}   `json:"startDate" binding:"required"`
	EndDate          interface{}   `json:"endDate" binding:"required"`
	Metrics          []interface{} `json:"metrics" binding:"required"`
	Dimensions       []interface{} `json:"dimensions,omitempty"`
	DimensionFilters []interface{} `json:"dimensionFilters,omitempty"`
	Filters          string        `json:"filters,omitempty"`
	PageSize         int           `json:"pageSize,omitempty"`
	ParseDates       *bool         `json:"parseDates,omitempty"`
}

// BatchGetRequest is the wire body of reports:batchGet.
type BatchGetRequest struct {
	ReportRequests []ReportRequest `json:"reportRequests"`
}

type ReportRequest struct {
	ViewID                 string                   `json:"viewId"`
	DateRanges             []dates.DateRange        `json:"dateRanges"`
	Metrics                []map[string]interface{} `json:"metrics"`
	Dimensions             []map[string]interface{} `json:"dimensions,omitempty"`
	DimensionFilterClauses []DimensionFilterClause  `json:"dimensionFilterClauses,omitempty"`
	FiltersExpression      string                   `json:"filtersExpression,omitempty"`
	PageToken              string                   `json:"pageToken,omitempty"`
	PageSize               int                      `json:"pageSize,omitempty"`
	IncludeEmptyRows       bool                     `json:"includeEmptyRows"`
	HideTotals             bool                     `json:"hideTotals"`
	HideValueRanges        bool                     `json:"hideValueRanges"`
}

type DimensionFilterClause struct {
	Operator string                   `json:"operator,omitempty"`
	Filters  []map[string]interface{} `json:"filters"`
}

type BatchGetResponse struct {
	Reports []model.Report `json:"reports"`
}

// ReportQueryResponse is the HTTP shape of a query result.
type ReportQueryResponse struct {
	ViewID   string       `json:"viewId"`
	RowCount int          `json:"rowCount"`
	Table    *model.Table `json:"table"`
}
