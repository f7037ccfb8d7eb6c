package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-report-backend/config"
	"analytics-report-backend/internal/catalog"
	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/jobstate"
	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/service"
)

// routingClient answers per view id so several catalog entries can share it.
type routingClient struct {
	reports map[string]model.Report
}

func (c *routingClient) BatchGet(_ context.Context, body *dto.BatchGetRequest) (*dto.BatchGetResponse, error) {
	report, ok := c.reports[body.ReportRequests[0].ViewID]
	if !ok {
		return nil, errors.New("view not found")
	}
	return &dto.BatchGetResponse{Reports: []model.Report{report}}, nil
}

func exportEntry(t *testing.T, name, viewID string, export bool) model.CatalogEntry {
	req := baseRequest()
	req.ViewID = viewID
	entry, err := catalog.NewEntry(name, "", req, export)
	require.NoError(t, err)
	return *entry
}

func newExportService(t *testing.T, repo *fakeCatalogRepo, client *routingClient, producer *fakeProducer, batchSize int) (service.ReportExportService, jobstate.Manager) {
	cfg := &config.Config{}
	cfg.Export.BatchSize = batchSize
	stateMgr := jobstate.NewManager(filepath.Join(t.TempDir(), "state.json"))
	query := service.NewReportQueryService(client, cfg)
	return service.NewReportExportService(cfg, repo, query, producer, stateMgr), stateMgr
}

func TestExportAll_PublishesExportEnabledEntries(t *testing.T) {
	repo := newFakeCatalogRepo(
		exportEntry(t, "users", "V1", true),
		exportEntry(t, "skipped", "V2", false),
	)
	client := &routingClient{reports: map[string]model.Report{
		"V1": page(3, "", "1", "2", "3"),
		"V2": page(1, "", "9"),
	}}
	producer := &fakeProducer{}
	svc, stateMgr := newExportService(t, repo, client, producer, 2)

	summary, err := svc.ExportAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Entries)
	assert.Equal(t, 3, summary.Records)
	assert.Zero(t, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	require.Len(t, producer.batches, 2)
	records := producer.records()
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, "users", r.Source)
		assert.Equal(t, "V1", r.ViewID)
		assert.Equal(t, summary.RunID, r.RunID)
		assert.Equal(t, i, r.RowIndex)
		assert.Equal(t, float64(i+1), r.Metrics["ga:users"])
	}

	state, err := stateMgr.LoadState()
	require.NoError(t, err)
	require.Contains(t, state, "users")
	assert.NotContains(t, state, "skipped")
	assert.Equal(t, jobstate.StatusSucceeded, state["users"].Status)
	assert.Equal(t, 3, state["users"].Rows)
	assert.NotNil(t, state["users"].LastSuccessAt)
}

func TestExportAll_FailingEntryDoesNotStopOthers(t *testing.T) {
	repo := newFakeCatalogRepo(
		exportEntry(t, "a_broken", "MISSING", true),
		exportEntry(t, "b_users", "V1", true),
	)
	client := &routingClient{reports: map[string]model.Report{"V1": page(1, "", "7")}}
	producer := &fakeProducer{}
	svc, _ := newExportService(t, repo, client, producer, 0)

	summary, err := svc.ExportAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a_broken")
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Records)

	state, err := svc.State()
	require.NoError(t, err)
	assert.Equal(t, jobstate.StatusFailed, state["a_broken"].Status)
	assert.NotEmpty(t, state["a_broken"].Error)
	assert.Nil(t, state["a_broken"].LastSuccessAt)
	assert.Equal(t, jobstate.StatusSucceeded, state["b_users"].Status)
}

func TestExportAll_ProducerError(t *testing.T) {
	repo := newFakeCatalogRepo(exportEntry(t, "users", "V1", true))
	client := &routingClient{reports: map[string]model.Report{"V1": page(1, "", "1")}}
	boom := errors.New("broker down")
	svc, _ := newExportService(t, repo, client, &fakeProducer{err: boom}, 0)

	_, err := svc.ExportAll(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestExportAll_ListError(t *testing.T) {
	repo := newFakeCatalogRepo()
	repo.listErr = errors.New("db down")
	svc, _ := newExportService(t, repo, &routingClient{}, &fakeProducer{}, 0)

	summary, err := svc.ExportAll(context.Background())
	assert.Error(t, err)
	assert.Nil(t, summary)
}

func TestExportAll_HonorsStoredParseDates(t *testing.T) {
	dated := model.Report{
		ColumnHeader: model.ColumnHeader{Dimensions: []string{"ga:date"}, MetricHeader: usersHeader.MetricHeader},
		Data: model.ReportData{RowCount: 1, Rows: []model.ReportRow{
			{Dimensions: []string{"20200319"}, Metrics: []model.DateRangeValues{{Values: []string{"4"}}}},
		}},
	}

	off := false
	req := baseRequest()
	req.ViewID = "RAW"
	req.ParseDates = &off
	raw, err := catalog.NewEntry("raw", "", req, true)
	require.NoError(t, err)

	repo := newFakeCatalogRepo(*raw, exportEntry(t, "parsed", "PARSED", true))
	client := &routingClient{reports: map[string]model.Report{"RAW": dated, "PARSED": dated}}
	producer := &fakeProducer{}
	svc, _ := newExportService(t, repo, client, producer, 10)

	_, err = svc.ExportAll(context.Background())
	require.NoError(t, err)

	bySource := make(map[string]model.ReportRecord)
	for _, r := range producer.records() {
		bySource[r.Source] = r
	}
	require.Len(t, bySource, 2)
	assert.Equal(t, "20200319", bySource["raw"].Dimensions["ga:date"])
	assert.Nil(t, bySource["raw"].EventTime)
	require.NotNil(t, bySource["parsed"].EventTime)
	assert.Equal(t, 2020, bySource["parsed"].EventTime.Year())
}
