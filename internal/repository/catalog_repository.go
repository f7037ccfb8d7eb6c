package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"analytics-report-backend/internal/model"
)

var ErrEntryNotFound = errors.New("catalog entry not found")

type CatalogRepository interface {
	Save(ctx context.Context, entry *model.CatalogEntry) error
	GetByName(ctx context.Context, name string) (*model.CatalogEntry, error)
	List(ctx context.Context) ([]model.CatalogEntry, error)
	ListExportEnabled(ctx context.Context) ([]model.CatalogEntry, error)
	Delete(ctx context.Context, name string) error
}

type gormCatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &gormCatalogRepository{db: db}
}

// Save inserts the entry, or updates it when an entry with the same name exists.
func (r *gormCatalogRepository) Save(ctx context.Context, entry *model.CatalogEntry) error {
	var existing model.CatalogEntry
	err := r.db.WithContext(ctx).Where("name = ?", entry.Name).First(&existing).Error
	switch {
	case err == nil:
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Error().Err(err).Str("name", entry.Name).Msg("Failed to look up catalog entry")
		return fmt.Errorf("failed looking up catalog entry: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		log.Error().Err(err).Str("name", entry.Name).Msg("Failed to save catalog entry")
		return fmt.Errorf("failed saving catalog entry: %w", err)
	}
	return nil
}

func (r *gormCatalogRepository) GetByName(ctx context.Context, name string) (*model.CatalogEntry, error) {
	var entry model.CatalogEntry
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to get catalog entry")
		return nil, fmt.Errorf("failed getting catalog entry: %w", err)
	}
	return &entry, nil
}

func (r *gormCatalogRepository) List(ctx context.Context) ([]model.CatalogEntry, error) {
	entries := make([]model.CatalogEntry, 0)
	if err := r.db.WithContext(ctx).Order("name").Find(&entries).Error; err != nil {
		log.Error().Err(err).Msg("Failed to list catalog entries")
		return nil, fmt.Errorf("failed listing catalog entries: %w", err)
	}
	return entries, nil
}

func (r *gormCatalogRepository) ListExportEnabled(ctx context.Context) ([]model.CatalogEntry, error) {
	entries := make([]model.CatalogEntry, 0)
	if err := r.db.WithContext(ctx).Where("export_enabled = ?", true).Order("name").Find(&entries).Error; err != nil {
		log.Error().Err(err).Msg("Failed to list export-enabled catalog entries")
		return nil, fmt.Errorf("failed listing catalog entries: %w", err)
	}
	return entries, nil
}

func (r *gormCatalogRepository) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("name = ?", name).Delete(&model.CatalogEntry{})
	if res.Error != nil {
		log.Error().Err(res.Error).Str("name", name).Msg("Failed to delete catalog entry")
		return fmt.Errorf("failed deleting catalog entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
