// Package catalog exposes saved report queries as readable, single
// partition tabular sources.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/model"
)

var ErrPartitionOutOfRange = errors.New("partition index out of range")

// Querier runs one report query.
type Querier interface {
	Query(ctx context.Context, req dto.ReportQueryRequest) (*model.Table, error)
}

type Schema struct {
	Name        string               `json:"name"`
	Columns     []model.ColumnSchema `json:"columns"`
	Shape       [2]int               `json:"shape"` // rows, columns
	NPartitions int                  `json:"npartitions"`
}

// Source is a lazily evaluated report query. The first read runs the
// query; later reads reuse the table until Close.
type Source struct {
	name    string
	req     dto.ReportQueryRequest
	querier Querier

	mu    sync.Mutex
	table *model.Table
}

func NewSource(name string, req dto.ReportQueryRequest, querier Querier) *Source {
	return &Source{
		name:    name,
		req:     req,
		querier: querier,
	}
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) load(ctx context.Context) (*model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table != nil {
		return s.table, nil
	}
	table, err := s.querier.Query(ctx, s.req)
	if err != nil {
		log.Error().Err(err).Str("source", s.name).Msg("Failed to load catalog source")
		return nil, fmt.Errorf("source %q: %w", s.name, err)
	}
	s.table = table
	return table, nil
}

func (s *Source) Discover(ctx context.Context) (*Schema, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &Schema{
		Name:        s.name,
		Columns:     table.Schema(),
		Shape:       [2]int{table.NumRows(), len(table.Columns)},
		NPartitions: 1,
	}, nil
}

func (s *Source) Read(ctx context.Context) (*model.Table, error) {
	return s.load(ctx)
}

// ReadPartition returns partition i; only partition 0 exists.
func (s *Source) ReadPartition(ctx context.Context, i int) (*model.Table, error) {
	if i != 0 {
		return nil, fmt.Errorf("%w: %d (source %q has 1 partition)", ErrPartitionOutOfRange, i, s.name)
	}
	return s.load(ctx)
}

// Close drops the cached table.
func (s *Source) Close() {
	s.mu.Lock()
	s.table = nil
	s.mu.Unlock()
}
