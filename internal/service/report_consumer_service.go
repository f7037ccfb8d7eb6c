package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"analytics-report-backend/config"
	"analytics-report-backend/internal/elasticsearch"
	"analytics-report-backend/internal/kafka"
	"analytics-report-backend/internal/metrics"
	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/timescaledb"
)

type ReportConsumerService interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
}

type reportConsumerService struct {
	consumer    kafka.RecordConsumer
	recordStore elasticsearch.RecordStore
	metricStore timescaledb.MetricStore
	extractor   metrics.Extractor
	batchSize   int           // How many Kafka messages to process at once
	maxWaitTime time.Duration // Max time to wait for batchSize messages
	retryDelay  time.Duration
}

func NewReportConsumerService(
	consumer kafka.RecordConsumer,
	recordStore elasticsearch.RecordStore,
	metricStore timescaledb.MetricStore,
	extractor metrics.Extractor,
	cfg *config.Config,
) ReportConsumerService {
	batchSize := cfg.Export.BatchSize
	if batchSize <= 0 {
		batchSize = defaultExportBatchSize
	}
	maxWaitTime := cfg.Export.MaxBatchWait
	if maxWaitTime <= 0 {
		maxWaitTime = 5 * time.Second
	}
	return &reportConsumerService{
		consumer:    consumer,
		recordStore: recordStore,
		metricStore: metricStore,
		extractor:   extractor,
		batchSize:   batchSize,
		maxWaitTime: maxWaitTime,
		retryDelay:  time.Second,
	}
}

func (s *reportConsumerService) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	log.Info().Msg("Starting Report Consumer Service loop...")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Report Consumer Service loop stopping due to context cancellation.")
			return
		default:
		}

		if err := s.processBatch(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info().Msg("Context cancelled during batch processing.")
				return
			}
			log.Error().Err(err).Msg("Error processing consumer batch")
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.retryDelay):
			}
		}
	}
}

// processBatch collects up to batchSize messages or waits maxWaitTime,
// whichever comes first, then stores them. Offsets are committed only when
// both stores accepted the batch. Undecodable messages are committed past.
func (s *reportConsumerService) processBatch(ctx context.Context) error {
	records := make([]model.ReportRecord, 0, s.batchSize)
	messages := make([]kafkaGo.Message, 0, s.batchSize)
	batchStartTime := time.Now()

	for len(messages) < s.batchSize {
		if err := ctx.Err(); err != nil {
			log.Info().Msg("Context cancelled while building consumer batch.")
			return err
		}
		remaining := s.maxWaitTime - time.Since(batchStartTime)
		if remaining <= 0 {
			break
		}

		fetchCtx, cancel := context.WithTimeout(ctx, remaining)
		record, msg, err := s.consumer.FetchMessage(fetchCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				log.Debug().Int("batch_size", len(messages)).Msg("Max wait time reached for batch, processing partial batch.")
				break
			}
			if errors.Is(err, kafka.ErrInvalidRecord) {
				log.Warn().Str("source_key", string(msg.Key)).Int64("offset", msg.Offset).Msg("Adding invalid record message to batch for commit tracking.")
				messages = append(messages, msg)
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().Err(err).Msg("Failed to fetch message, stopping batch accumulation for now.")
			return fmt.Errorf("failed to fetch kafka message: %w", err)
		}

		records = append(records, *record)
		messages = append(messages, msg)
	}

	if len(messages) == 0 {
		log.Debug().Msg("No messages in batch to process.")
		return nil
	}

	log.Debug().Int("batch_size", len(messages)).Int("records", len(records)).Msg("Processing collected batch...")

	points := make([]model.MetricPoint, 0, len(records))
	for i := range records {
		points = append(points, s.extractor.ExtractMetricPoints(&records[i])...)
	}

	if err := s.recordStore.StoreRecords(ctx, records); err != nil {
		log.Error().Err(err).Msg("Failed to store records to Elasticsearch")
		return fmt.Errorf("failed storing records: %w", err)
	}
	if err := s.metricStore.StoreMetricPoints(ctx, points); err != nil {
		log.Error().Err(err).Msg("Failed to store metric points to TimescaleDB")
		return fmt.Errorf("failed storing metric points: %w", err)
	}

	if err := s.consumer.CommitMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Msg("Failed to commit Kafka messages after successful storage")
		return fmt.Errorf("failed committing kafka messages: %w", err)
	}
	log.Info().Int("batch_size", len(messages)).Int("metric_points", len(points)).Msg("Successfully processed and committed batch.")
	return nil
}
