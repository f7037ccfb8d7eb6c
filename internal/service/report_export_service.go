package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"analytics-report-backend/config"
	"analytics-report-backend/internal/catalog"
	"analytics-report-backend/internal/jobstate"
	"analytics-report-backend/internal/kafka"
	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/repository"
)

var ErrExportInProgress = errors.New("export already in progress")

const defaultExportBatchSize = 500

type ExportSummary struct {
	RunID    string `json:"runId"`
	Entries  int    `json:"entries"`
	Failed   int    `json:"failed"`
	Records  int    `json:"records"`
	Duration string `json:"duration"`
}

type ReportExportService interface {
	ExportAll(ctx context.Context) (*ExportSummary, error)
	State() (jobstate.State, error)
}

type reportExportService struct {
	repo         repository.CatalogRepository
	queryService ReportQueryService
	producer     kafka.RecordProducer
	stateMgr     jobstate.Manager
	batchSize    int
	exportLock   sync.Mutex
	now          func() time.Time
}

func NewReportExportService(
	cfg *config.Config,
	repo repository.CatalogRepository,
	queryService ReportQueryService,
	producer kafka.RecordProducer,
	stateMgr jobstate.Manager,
) ReportExportService {
	batchSize := cfg.Export.BatchSize
	if batchSize <= 0 {
		batchSize = defaultExportBatchSize
	}
	return &reportExportService{
		repo:         repo,
		queryService: queryService,
		producer:     producer,
		stateMgr:     stateMgr,
		batchSize:    batchSize,
		now:          time.Now,
	}
}

// ExportAll runs every export-enabled catalog entry once and publishes the
// rows to Kafka. A failing entry does not stop the others; their errors are
// combined in the returned error.
func (s *reportExportService) ExportAll(ctx context.Context) (*ExportSummary, error) {
	if !s.exportLock.TryLock() {
		log.Warn().Msg("Report export already in progress, skipping run.")
		return nil, ErrExportInProgress
	}
	defer s.exportLock.Unlock()

	runID := uuid.NewString()
	startTime := s.now()
	log.Info().Str("run_id", runID).Msg("Starting report export cycle...")

	state, err := s.stateMgr.LoadState()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load job state")
		return nil, fmt.Errorf("failed to load job state: %w", err)
	}

	entries, err := s.repo.ListExportEnabled(ctx)
	if err != nil {
		return nil, err
	}

	summary := &ExportSummary{RunID: runID, Entries: len(entries)}
	var errs error
	for i := range entries {
		entry := &entries[i]
		entryStart := s.now()
		rows, err := s.exportEntry(ctx, runID, entry, entryStart)

		run := jobstate.RunState{
			RunID:         runID,
			StartedAt:     entryStart.UTC(),
			Duration:      s.now().Sub(entryStart).String(),
			Rows:          rows,
			LastSuccessAt: state[entry.Name].LastSuccessAt,
		}
		if err != nil {
			log.Error().Err(err).Str("source", entry.Name).Msg("Failed to export catalog entry")
			run.Status = jobstate.StatusFailed
			run.Error = err.Error()
			summary.Failed++
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", entry.Name, err))
		} else {
			run.Status = jobstate.StatusSucceeded
			finished := run.StartedAt
			run.LastSuccessAt = &finished
			summary.Records += rows
		}
		state[entry.Name] = run

		if ctx.Err() != nil {
			errs = multierr.Append(errs, ctx.Err())
			break
		}
	}

	if err := s.stateMgr.SaveState(state); err != nil {
		log.Error().Err(err).Msg("Failed to save job state")
		errs = multierr.Append(errs, fmt.Errorf("failed to save job state: %w", err))
	}

	summary.Duration = s.now().Sub(startTime).String()
	log.Info().
		Str("run_id", runID).
		Int("entries", summary.Entries).
		Int("failed", summary.Failed).
		Int("records_sent", summary.Records).
		Str("duration", summary.Duration).
		Msg("Finished report export cycle.")

	return summary, errs
}

func (s *reportExportService) exportEntry(ctx context.Context, runID string, entry *model.CatalogEntry, fetchedAt time.Time) (int, error) {
	req, err := catalog.RequestFromEntry(entry)
	if err != nil {
		return 0, err
	}
	table, err := s.queryService.Query(ctx, req)
	if err != nil {
		return 0, err
	}

	records := model.RecordsFromTable(table, runID, entry.Name, entry.ViewID, fetchedAt.UTC())
	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.producer.Produce(ctx, records[start:end]); err != nil {
			return start, fmt.Errorf("kafka produce error: %w", err)
		}
		log.Debug().Str("source", entry.Name).Int("batch_size", end-start).Msg("Sent record batch to Kafka.")
	}
	return len(records), nil
}

func (s *reportExportService) State() (jobstate.State, error) {
	return s.stateMgr.LoadState()
}
