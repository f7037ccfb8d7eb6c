package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"analytics-report-backend/config"
	"analytics-report-backend/internal/model"
)

type RecordProducer interface {
	Produce(ctx context.Context, records []model.ReportRecord) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaRecordProducer struct {
	writer messageWriter
	topic  string
}

func NewKafkaRecordProducer(lc fx.Lifecycle, cfg *config.Config) (RecordProducer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.ReportTopic == "" {
		log.Error().Msg("Kafka brokers or report topic is not configured.")
		return nil, errors.New("kafka configuration missing")
	}
	// Synchronous writes: an export run is only recorded as successful once
	// every record has been acknowledged.
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.ReportTopic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.Export.BatchSize,
		BatchTimeout: cfg.Export.MaxBatchWait,
	})
	p := newRecordProducer(writer, cfg.Kafka.ReportTopic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Kafka producer")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.ReportTopic).Msg("Kafka producer initialized")
	return p, nil
}

func newRecordProducer(writer messageWriter, topic string) *kafkaRecordProducer {
	return &kafkaRecordProducer{writer: writer, topic: topic}
}

// Produce writes one message per record, keyed by source so that a
// source's records land on a single partition in order.
func (p *kafkaRecordProducer) Produce(ctx context.Context, records []model.ReportRecord) error {
	if len(records) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(records))
	for _, record := range records {
		value, err := json.Marshal(record)
		if err != nil {
			log.Error().Err(err).Str("source", record.Source).Int("row", record.RowIndex).Msg("Failed to marshal report record for Kafka")
			return fmt.Errorf("marshal record %s[%d]: %w", record.Source, record.RowIndex, err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(record.Source),
			Value: value,
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Int("message_count", len(messages)).Msg("Failed to write messages to Kafka")
		return err
	}

	log.Debug().Int("message_count", len(messages)).Str("topic", p.topic).Msg("Successfully produced messages to Kafka")
	return nil
}

func (p *kafkaRecordProducer) Close() error {
	return p.writer.Close()
}
