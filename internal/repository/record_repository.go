package repository

import (
	"context"

	"analytics-report-backend/internal/dto"
)

type RecordRepository interface {
	Search(ctx context.Context, req dto.RecordSearchRequest) (*dto.RecordSearchResponse, error)
}
