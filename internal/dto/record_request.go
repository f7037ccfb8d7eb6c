package dto

import (
	"time"

	"analytics-report-backend/internal/model"
)

type RecordSearchRequest struct {
	StartTime time.Time
	EndTime   time.Time
	Query     string
	Sources   []string
	RunID     string
	Page      int
	Size      int
	SortBy    string
	SortOrder string
}

type RecordSearchResponse struct {
	Records    []model.ReportRecord `json:"records"`
	TotalCount int64                `json:"totalCount"`
	Page       int                  `json:"page"`
	Size       int                  `json:"size"`
}
