package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/service"
	"analytics-report-backend/internal/timescaledb"
	"analytics-report-backend/internal/util"
)

type MetricController struct {
	metricQueryService service.MetricQueryService
}

func NewMetricController(metricQueryService service.MetricQueryService) *MetricController {
	return &MetricController{
		metricQueryService: metricQueryService,
	}
}

func RegisterMetricRoutes(router *gin.Engine, controller *MetricController) {
	v1Metrics := router.Group("/api/v1/metrics")
	{
		v1Metrics.GET("/timeseries", controller.GetTimeseriesMetrics)
		v1Metrics.GET("/sources", controller.GetSources)
	}
}

func isMetricQueryError(err error) bool {
	return errors.Is(err, service.ErrInvalidTimeRange) ||
		errors.Is(err, service.ErrInvalidMetricQuery) ||
		errors.Is(err, timescaledb.ErrInvalidInterval) ||
		errors.Is(err, timescaledb.ErrInvalidAggregation)
}

// GetTimeseriesMetrics godoc
// @Summary      Get metric time series
// @Description  Buckets exported metric values over an interval, optionally grouped by source or by a dimension.
// @Tags         metrics
// @Produce      json
// @Param        startTime    query     string  true   "Start time (ISO 8601 or epoch ms)"
// @Param        endTime      query     string  true   "End time (ISO 8601 or epoch ms)"
// @Param        metricName   query     string  true   "Metric name, e.g. ga:users"
// @Param        sources      query     string  false  "Comma-separated list of catalog entry names"
// @Param        interval     query     string  false  "Bucket width (default: 1 day)" Enums(1 hour, 6 hours, 1 day, 1 week, 1 month)
// @Param        aggregation  query     string  false  "Aggregate per bucket (default: sum)" Enums(sum, avg, min, max)
// @Param        groupBy      query     string  false  "source, a dimension name such as ga:country, or total"
// @Param        sortField    query     string  false  "Sort field" Enums(time, value, group)
// @Param        sortOrder    query     string  false  "Sort order" Enums(asc, desc)
// @Param        limit        query     int     false  "Maximum number of buckets"
// @Success      200          {object}  dto.MetricTimeseriesResponse
// @Failure      400          {object}  model.Response "Invalid query parameters"
// @Failure      500          {object}  model.Response "Internal server error"
// @Router       /api/v1/metrics/timeseries [get]
func (c *MetricController) GetTimeseriesMetrics(ctx *gin.Context) {
	startTime, endTime, err := parseTimeRange(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	req := dto.MetricTimeseriesRequest{
		StartTime:   startTime,
		EndTime:     endTime,
		MetricName:  ctx.Query("metricName"),
		Sources:     splitList(ctx.Query("sources")),
		Interval:    ctx.DefaultQuery("interval", "1 day"),
		Aggregation: ctx.Query("aggregation"),
		GroupBy:     ctx.Query("groupBy"),
	}
	if field := ctx.Query("sortField"); field != "" {
		req.Sort = &dto.SortOption{Field: field, Order: ctx.DefaultQuery("sortOrder", "asc")}
	}
	if limitStr := ctx.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			ctx.JSON(http.StatusBadRequest, model.NewResponse("limit must be a positive integer", nil))
			return
		}
		req.Limit = &limit
	}

	result, err := c.metricQueryService.GetTimeseries(ctx.Request.Context(), req)
	if err != nil {
		if isMetricQueryError(err) {
			ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
			return
		}
		log.Error().Err(err).Msg("Error getting timeseries metrics")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to get timeseries metrics", nil))
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetSources godoc
// @Summary      List sources with metric data
// @Description  Returns the catalog entry names that have metric points within a time range.
// @Tags         metrics
// @Produce      json
// @Param        startTime  query     string  true  "Start time (ISO 8601 or epoch ms)"
// @Param        endTime    query     string  true  "End time (ISO 8601 or epoch ms)"
// @Success      200        {object}  dto.SourceListResponse
// @Failure      400        {object}  model.Response "Invalid query parameters"
// @Failure      500        {object}  model.Response "Internal server error"
// @Router       /api/v1/metrics/sources [get]
func (c *MetricController) GetSources(ctx *gin.Context) {
	startTime, endTime, err := parseTimeRange(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	result, err := c.metricQueryService.GetSources(ctx.Request.Context(), dto.SourceListRequest{
		StartTime: startTime,
		EndTime:   endTime,
	})
	if err != nil {
		if isMetricQueryError(err) {
			ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
			return
		}
		log.Error().Err(err).Msg("Error getting metric sources")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to get sources", nil))
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func parseTimeRange(ctx *gin.Context) (time.Time, time.Time, error) {
	startTimeStr := ctx.Query("startTime")
	endTimeStr := ctx.Query("endTime")
	if startTimeStr == "" || endTimeStr == "" {
		return time.Time{}, time.Time{}, errors.New("startTime and endTime are required query parameters")
	}

	startTime, errStart := util.ParseTimeFlexible(startTimeStr)
	endTime, errEnd := util.ParseTimeFlexible(endTimeStr)
	if errStart != nil || errEnd != nil {
		return time.Time{}, time.Time{}, errors.New("invalid startTime or endTime format. Use ISO 8601 or epoch milliseconds")
	}
	if endTime.Before(startTime) {
		return time.Time{}, time.Time{}, errors.New("endTime cannot be before startTime")
	}
	return startTime, endTime, nil
}
