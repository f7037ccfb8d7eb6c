package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/repository"
)

var ErrInvalidTimeRange = errors.New("invalid time range")

const (
	defaultSearchSize = 50
	maxSearchSize     = 1000
)

type RecordQueryService interface {
	SearchRecords(ctx context.Context, req dto.RecordSearchRequest) (*dto.RecordSearchResponse, error)
}

type recordQueryService struct {
	recordRepo repository.RecordRepository
}

func NewRecordQueryService(recordRepo repository.RecordRepository) RecordQueryService {
	return &recordQueryService{
		recordRepo: recordRepo,
	}
}

func (s *recordQueryService) SearchRecords(ctx context.Context, req dto.RecordSearchRequest) (*dto.RecordSearchResponse, error) {
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 || req.Size > maxSearchSize {
		req.Size = defaultSearchSize
	}
	if req.SortBy == "" {
		req.SortBy = "fetched_at"
	}
	req.SortOrder = strings.ToLower(req.SortOrder)
	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		req.SortOrder = "desc"
	}

	log.Info().
		Time("start_time", req.StartTime).
		Time("end_time", req.EndTime).
		Str("query", req.Query).
		Strs("sources", req.Sources).
		Str("run_id", req.RunID).
		Int("page", req.Page).
		Int("size", req.Size).
		Msg("Searching report records")

	return s.recordRepo.Search(ctx, req)
}
