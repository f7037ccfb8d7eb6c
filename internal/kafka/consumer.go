package kafka

import (
	"bytes"
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

// ErrInvalidRecord marks a message that was fetched but does not hold a
// usable report record. The raw message is still returned with it.
var ErrInvalidRecord = errors.New("invalid report record message")

type RecordConsumer interface {
	FetchMessage(ctx context.Context) (*model.ReportRecord, kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// messageReader is the subset of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaRecordConsumer struct {
	reader messageReader
}

func NewKafkaRecordConsumer(lc fx.Lifecycle, cfg *config.Config) (RecordConsumer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.ReportTopic == "" || cfg.Kafka.ConsumerGroup == "" {
		log.Error().Msg("Kafka brokers, report topic or consumer group is not configured.")
		return nil, errors.New("kafka consumer configuration missing")
	}
	// Offsets are committed explicitly once a batch is stored.
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.ConsumerGroup,
		Topic:          cfg.Kafka.ReportTopic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        cfg.Export.MaxBatchWait,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
	c := newRecordConsumer(reader)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Str("group", cfg.Kafka.ConsumerGroup).Msg("Closing Kafka consumer")
			return c.Close()
		},
	})
	log.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.ReportTopic).
		Str("group", cfg.Kafka.ConsumerGroup).
		Msg("Kafka consumer initialized")
	return c, nil
}

func newRecordConsumer(reader messageReader) *kafkaRecordConsumer {
	return &kafkaRecordConsumer{reader: reader}
}

// decodeRecord parses a message value produced by RecordProducer. The key
// carries the source; a record whose source disagrees with it, or that has
// no source or run id, is rejected.
func decodeRecord(msg kafka.Message) (*model.ReportRecord, error) {
	var record model.ReportRecord
	if err := json.Unmarshal(msg.Value, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if record.Source == "" || record.RunID == "" {
		return nil, fmt.Errorf("%w: missing source or run id", ErrInvalidRecord)
	}
	if len(msg.Key) > 0 && !bytes.Equal(msg.Key, []byte(record.Source)) {
		return nil, fmt.Errorf("%w: key %q does not match source %q", ErrInvalidRecord, msg.Key, record.Source)
	}
	if record.Dimensions == nil {
		record.Dimensions = map[string]string{}
	}
	if record.Metrics == nil {
		record.Metrics = map[string]float64{}
	}
	return &record, nil
}

// FetchMessage returns the decoded record together with the raw message.
// Errors wrapping ErrInvalidRecord come with the raw message so the caller
// can commit past it.
func (c *kafkaRecordConsumer) FetchMessage(ctx context.Context) (*model.ReportRecord, kafka.Message, error) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, kafka.Message{}, err
	}
	record, err := decodeRecord(msg)
	if err != nil {
		log.Error().
			Err(err).
			Str("source_key", string(msg.Key)).
			Int("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("Skipping undecodable report record")
		return nil, msg, err
	}
	log.Debug().
		Str("source", record.Source).
		Str("run_id", record.RunID).
		Int("row", record.RowIndex).
		Int64("offset", msg.Offset).
		Msg("Fetched report record")
	return record, msg, nil
}

// CommitMessages commits msgs and logs the highest committed offset per
// source key.
func (c *kafkaRecordConsumer) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := c.reader.CommitMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Int("count", len(msgs)).Interface("sources", commitSummary(msgs)).Msg("Failed to commit Kafka messages")
		return err
	}
	log.Debug().Int("count", len(msgs)).Interface("sources", commitSummary(msgs)).Msg("Committed Kafka messages")
	return nil
}

// commitSummary maps each source key to the highest offset among msgs.
func commitSummary(msgs []kafka.Message) map[string]int64 {
	summary := make(map[string]int64)
	for _, m := range msgs {
		key := string(m.Key)
		if prev, ok := summary[key]; !ok || m.Offset > prev {
			summary[key] = m.Offset
		}
	}
	return summary
}

func (c *kafkaRecordConsumer) Close() error {
	return c.reader.Close()
}
