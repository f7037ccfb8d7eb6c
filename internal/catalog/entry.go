package catalog

import (
	"encoding/json"
	"fmt"

	"analytics-report-backend/internal/dates"
	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/model"
)

// NewEntry turns a query request into a storable catalog entry. Dates are
// normalized first so relative keywords stay relative and time values
// become calendar days.
func NewEntry(name, description string, req dto.ReportQueryRequest, exportEnabled bool) (*model.CatalogEntry, error) {
	dateRange, err := dates.NormalizeRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	metrics, err := encodeFields(req.Metrics)
	if err != nil {
		return nil, fmt.Errorf("encoding metrics: %w", err)
	}
	dimensions, err := encodeFields(req.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("encoding dimensions: %w", err)
	}
	filters, err := encodeFields(req.DimensionFilters)
	if err != nil {
		return nil, fmt.Errorf("encoding dimension filters: %w", err)
	}

	return &model.CatalogEntry{
		Name:              name,
		Description:       description,
		ViewID:            req.ViewID,
		StartDate:         dateRange.StartDate,
		EndDate:           dateRange.EndDate,
		Metrics:           metrics,
		Dimensions:        dimensions,
		DimensionFilters:  filters,
		FiltersExpression: req.Filters,
		PageSize:          req.PageSize,
		ParseDates:        copyBool(req.ParseDates),
		ExportEnabled:     exportEnabled,
	}, nil
}

// RequestFromEntry rebuilds the query request stored in entry.
func RequestFromEntry(entry *model.CatalogEntry) (dto.ReportQueryRequest, error) {
	req := dto.ReportQueryRequest{
		ViewID:     entry.ViewID,
		StartDate:  entry.StartDate,
		EndDate:    entry.EndDate,
		Filters:    entry.FiltersExpression,
		PageSize:   entry.PageSize,
		ParseDates: copyBool(entry.ParseDates),
	}
	var err error
	if req.Metrics, err = decodeFields(entry.Metrics); err != nil {
		return req, fmt.Errorf("catalog entry %q: decoding metrics: %w", entry.Name, err)
	}
	if req.Dimensions, err = decodeFields(entry.Dimensions); err != nil {
		return req, fmt.Errorf("catalog entry %q: decoding dimensions: %w", entry.Name, err)
	}
	if req.DimensionFilters, err = decodeFields(entry.DimensionFilters); err != nil {
		return req, fmt.Errorf("catalog entry %q: decoding dimension filters: %w", entry.Name, err)
	}
	return req, nil
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func encodeFields(items []interface{}) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeFields(raw string) ([]interface{}, error) {
	if raw == "" {
		return nil, nil
	}
	var items []interface{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}
