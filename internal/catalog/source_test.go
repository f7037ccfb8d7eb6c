package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-report-backend/internal/catalog"
	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/model"
)

type countingQuerier struct {
	calls int
	err   error
}

func (q *countingQuerier) Query(_ context.Context, _ dto.ReportQueryRequest) (*model.Table, error) {
	q.calls++
	if q.err != nil {
		return nil, q.err
	}
	date := model.NewColumn("ga:date", model.KindDimension, model.ColumnString, 3)
	date.Strings = []string{"a", "b", "c"}
	users := model.NewColumn("ga:users", model.KindMetric, model.ColumnInt64, 3)
	users.Ints = []int64{1, 2, 3}
	return &model.Table{Columns: []*model.Column{date, users}}, nil
}

func TestSource_DiscoverThenReadQueriesOnce(t *testing.T) {
	q := &countingQuerier{}
	src := catalog.NewSource("daily", dto.ReportQueryRequest{ViewID: "V"}, q)

	schema, err := src.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "daily", schema.Name)
	assert.Equal(t, [2]int{3, 2}, schema.Shape)
	assert.Equal(t, 1, schema.NPartitions)
	require.Len(t, schema.Columns, 2)

	table, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, table.NumRows())

	part, err := src.ReadPartition(context.Background(), 0)
	require.NoError(t, err)
	assert.Same(t, table, part)
	assert.Equal(t, 1, q.calls)

	src.Close()
	_, err = src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, q.calls)
}

func TestSource_ReadPartitionOutOfRange(t *testing.T) {
	q := &countingQuerier{}
	src := catalog.NewSource("daily", dto.ReportQueryRequest{}, q)

	for _, i := range []int{-1, 1, 5} {
		_, err := src.ReadPartition(context.Background(), i)
		assert.ErrorIs(t, err, catalog.ErrPartitionOutOfRange)
	}
	assert.Zero(t, q.calls)
}

func TestSource_QueryErrorIsNotCached(t *testing.T) {
	boom := errors.New("boom")
	q := &countingQuerier{err: boom}
	src := catalog.NewSource("daily", dto.ReportQueryRequest{}, q)

	_, err := src.Read(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"daily"`)

	q.err = nil
	_, err = src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, q.calls)
}
