package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-report-backend/config"
	"analytics-report-backend/internal/kafka"
	"analytics-report-backend/internal/metrics"
	"analytics-report-backend/internal/model"
)

type queuedMessage struct {
	record *model.ReportRecord
	msg    kafkaGo.Message
	err    error
}

type fakeConsumer struct {
	queue     []queuedMessage
	committed []kafkaGo.Message
}

func (c *fakeConsumer) FetchMessage(ctx context.Context) (*model.ReportRecord, kafkaGo.Message, error) {
	if len(c.queue) == 0 {
		<-ctx.Done()
		return nil, kafkaGo.Message{}, ctx.Err()
	}
	next := c.queue[0]
	c.queue = c.queue[1:]
	return next.record, next.msg, next.err
}

func (c *fakeConsumer) CommitMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	c.committed = append(c.committed, msgs...)
	return nil
}

func (c *fakeConsumer) Close() error { return nil }

type fakeRecordStore struct {
	stored []model.ReportRecord
	err    error
}

func (s *fakeRecordStore) StoreRecords(_ context.Context, records []model.ReportRecord) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, records...)
	return nil
}

func (s *fakeRecordStore) Close(context.Context) error { return nil }

type fakeMetricStore struct {
	points []model.MetricPoint
	err    error
}

func (s *fakeMetricStore) StoreMetricPoints(_ context.Context, points []model.MetricPoint) error {
	if s.err != nil {
		return s.err
	}
	s.points = append(s.points, points...)
	return nil
}

func (s *fakeMetricStore) Close() {}

func message(offset int64) kafkaGo.Message {
	return kafkaGo.Message{Topic: "report_records", Offset: offset}
}

func newTestConsumerService(consumer *fakeConsumer, records *fakeRecordStore, points *fakeMetricStore, batchSize int) *reportConsumerService {
	cfg := &config.Config{}
	cfg.Export.BatchSize = batchSize
	cfg.Export.MaxBatchWait = 50 * time.Millisecond
	return NewReportConsumerService(consumer, records, points, metrics.NewReportRecordExtractor(), cfg).(*reportConsumerService)
}

func TestProcessBatch_StoresAndCommits(t *testing.T) {
	fetched := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	consumer := &fakeConsumer{queue: []queuedMessage{
		{record: &model.ReportRecord{Source: "s", FetchedAt: fetched, Metrics: map[string]float64{"ga:users": 1}}, msg: message(1)},
		{msg: message(2), err: fmt.Errorf("%w: bad json", kafka.ErrInvalidRecord)},
		{record: &model.ReportRecord{Source: "s", FetchedAt: fetched, RowIndex: 1, Metrics: map[string]float64{"ga:users": 2}}, msg: message(3)},
	}}
	records := &fakeRecordStore{}
	points := &fakeMetricStore{}

	require.NoError(t, newTestConsumerService(consumer, records, points, 3).processBatch(context.Background()))
	assert.Len(t, records.stored, 2)
	assert.Len(t, points.points, 2)
	require.Len(t, consumer.committed, 3)
	assert.Equal(t, int64(3), consumer.committed[2].Offset)
}

func TestProcessBatch_PartialBatchOnTimeout(t *testing.T) {
	consumer := &fakeConsumer{queue: []queuedMessage{
		{record: &model.ReportRecord{Source: "s"}, msg: message(1)},
	}}
	records := &fakeRecordStore{}

	require.NoError(t, newTestConsumerService(consumer, records, &fakeMetricStore{}, 10).processBatch(context.Background()))
	assert.Len(t, records.stored, 1)
	assert.Len(t, consumer.committed, 1)
}

func TestProcessBatch_NoCommitWhenStoreFails(t *testing.T) {
	tests := []struct {
		name    string
		records *fakeRecordStore
		points  *fakeMetricStore
	}{
		{"elasticsearch", &fakeRecordStore{err: errors.New("es down")}, &fakeMetricStore{}},
		{"timescaledb", &fakeRecordStore{}, &fakeMetricStore{err: errors.New("pg down")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumer := &fakeConsumer{queue: []queuedMessage{
				{record: &model.ReportRecord{Source: "s", Metrics: map[string]float64{"m": 1}}, msg: message(1)},
			}}
			err := newTestConsumerService(consumer, tt.records, tt.points, 1).processBatch(context.Background())
			assert.Error(t, err)
			assert.Empty(t, consumer.committed)
		})
	}
}

func TestProcessBatch_EmptyIsNoop(t *testing.T) {
	consumer := &fakeConsumer{}
	require.NoError(t, newTestConsumerService(consumer, &fakeRecordStore{}, &fakeMetricStore{}, 5).processBatch(context.Background()))
	assert.Empty(t, consumer.committed)
}

func TestProcessBatch_FetchErrorStopsWithoutCommit(t *testing.T) {
	broker := errors.New("broker unreachable")
	consumer := &fakeConsumer{queue: []queuedMessage{
		{record: &model.ReportRecord{Source: "s"}, msg: message(1)},
		{err: broker},
	}}
	records := &fakeRecordStore{}

	err := newTestConsumerService(consumer, records, &fakeMetricStore{}, 5).processBatch(context.Background())
	assert.ErrorIs(t, err, broker)
	assert.Empty(t, records.stored)
	assert.Empty(t, consumer.committed)
}
