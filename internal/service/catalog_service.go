package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/catalog"
	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/repository"
)

var ErrNameRequired = errors.New("catalog entry name is required")

type CatalogService interface {
	Register(ctx context.Context, req dto.CatalogRegisterRequest) (*model.CatalogEntry, error)
	List(ctx context.Context) ([]model.CatalogEntry, error)
	Get(ctx context.Context, name string) (*model.CatalogEntry, error)
	Delete(ctx context.Context, name string) error
	Source(ctx context.Context, name string) (*catalog.Source, error)
}

type catalogService struct {
	repo         repository.CatalogRepository
	queryService ReportQueryService
}

func NewCatalogService(repo repository.CatalogRepository, queryService ReportQueryService) CatalogService {
	return &catalogService{
		repo:         repo,
		queryService: queryService,
	}
}

// Register validates the query exactly as it would be sent, then stores it.
func (s *catalogService) Register(ctx context.Context, req dto.CatalogRegisterRequest) (*model.CatalogEntry, error) {
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.queryService.BuildBody(req.Query); err != nil {
		log.Warn().Err(err).Str("name", req.Name).Msg("Rejected catalog entry")
		return nil, err
	}

	entry, err := catalog.NewEntry(req.Name, req.Description, req.Query, req.ExportEnabled)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, err
	}
	log.Info().Str("name", entry.Name).Str("view_id", entry.ViewID).Bool("export", entry.ExportEnabled).Msg("Registered catalog entry")
	return entry, nil
}

func (s *catalogService) List(ctx context.Context) ([]model.CatalogEntry, error) {
	return s.repo.List(ctx)
}

func (s *catalogService) Get(ctx context.Context, name string) (*model.CatalogEntry, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *catalogService) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}
	log.Info().Str("name", name).Msg("Deleted catalog entry")
	return nil
}

func (s *catalogService) Source(ctx context.Context, name string) (*catalog.Source, error) {
	entry, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	req, err := catalog.RequestFromEntry(entry)
	if err != nil {
		return nil, err
	}
	return catalog.NewSource(entry.Name, req, s.queryService), nil
}
