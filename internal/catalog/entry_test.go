package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-report-backend/internal/catalog"
	"analytics-report-backend/internal/dates"
	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/model"
)

func TestEntryRoundTrip(t *testing.T) {
	req := dto.ReportQueryRequest{
		ViewID:    "VIEWID",
		StartDate: time.Date(2020, 3, 1, 15, 30, 0, 0, time.UTC),
		EndDate:   "Yesterday",
		Metrics: []interface{}{
			"ga:users",
			map[string]interface{}{"expression": "ga:sessions", "alias": "sessions"},
		},
		Dimensions:       []interface{}{"ga:date"},
		DimensionFilters: []interface{}{map[string]interface{}{"dimensionName": "ga:country", "expressions": []interface{}{"Norway"}}},
		Filters:          "ga:browser==Firefox",
	}

	entry, err := catalog.NewEntry("daily", "desc", req, true)
	require.NoError(t, err)
	assert.Equal(t, "2020-03-01", entry.StartDate)
	assert.Equal(t, "yesterday", entry.EndDate)
	assert.True(t, entry.ExportEnabled)

	back, err := catalog.RequestFromEntry(entry)
	require.NoError(t, err)
	assert.Equal(t, "VIEWID", back.ViewID)
	assert.Equal(t, "2020-03-01", back.StartDate)
	assert.Equal(t, "yesterday", back.EndDate)
	assert.Equal(t, req.Metrics, back.Metrics)
	assert.Equal(t, req.Dimensions, back.Dimensions)
	assert.Equal(t, req.DimensionFilters, back.DimensionFilters)
	assert.Equal(t, "ga:browser==Firefox", back.Filters)
}

func TestNewEntry_InvalidDate(t *testing.T) {
	_, err := catalog.NewEntry("x", "", dto.ReportQueryRequest{StartDate: "soon", EndDate: "today"}, false)
	assert.ErrorIs(t, err, dates.ErrInvalidDate)
}

func TestRequestFromEntry_CorruptFields(t *testing.T) {
	_, err := catalog.RequestFromEntry(&model.CatalogEntry{Name: "x", Metrics: "{"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding metrics")
}

func TestRequestFromEntry_EmptyOptionalFields(t *testing.T) {
	back, err := catalog.RequestFromEntry(&model.CatalogEntry{Name: "x", Metrics: `["ga:users"]`})
	require.NoError(t, err)
	assert.Nil(t, back.Dimensions)
	assert.Nil(t, back.DimensionFilters)
}

func TestEntryRoundTrip_QueryOptions(t *testing.T) {
	off := false
	req := dto.ReportQueryRequest{
		ViewID:     "VIEWID",
		StartDate:  "7DaysAgo",
		EndDate:    "today",
		Metrics:    []interface{}{"ga:users"},
		PageSize:   500,
		ParseDates: &off,
	}

	entry, err := catalog.NewEntry("weekly", "", req, false)
	require.NoError(t, err)
	assert.Equal(t, 500, entry.PageSize)
	require.NotNil(t, entry.ParseDates)
	assert.False(t, *entry.ParseDates)

	back, err := catalog.RequestFromEntry(entry)
	require.NoError(t, err)
	assert.Equal(t, 500, back.PageSize)
	require.NotNil(t, back.ParseDates)
	assert.False(t, *back.ParseDates)

	// The stored flag is not shared with the caller's request.
	off = true
	assert.False(t, *entry.ParseDates)
}

func TestEntryRoundTrip_DefaultOptions(t *testing.T) {
	entry, err := catalog.NewEntry("x", "", dto.ReportQueryRequest{ViewID: "V", StartDate: "today", EndDate: "today", Metrics: []interface{}{"ga:users"}}, false)
	require.NoError(t, err)

	back, err := catalog.RequestFromEntry(entry)
	require.NoError(t, err)
	assert.Zero(t, back.PageSize)
	assert.Nil(t, back.ParseDates)
}
