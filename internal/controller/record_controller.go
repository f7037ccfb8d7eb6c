package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/service"
	"analytics-report-backend/internal/util"
)

type RecordController struct {
	recordQueryService service.RecordQueryService
}

func NewRecordController(recordQueryService service.RecordQueryService) *RecordController {
	return &RecordController{
		recordQueryService: recordQueryService,
	}
}

func RegisterRecordRoutes(router *gin.Engine, controller *RecordController) {
	v1 := router.Group("/api/v1/records")
	{
		v1.GET("", controller.GetRecords)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// GetRecords godoc
// @Summary      Search exported report records
// @Description  Searches rows exported to Elasticsearch by fetch time, source, run and free text over dimension values. Supports pagination and sorting.
// @Tags         records
// @Produce      json
// @Param        startTime  query     string  true   "Start of fetch time range, ISO 8601 or epoch milliseconds"
// @Param        endTime    query     string  true   "End of fetch time range, ISO 8601 or epoch milliseconds"
// @Param        query      query     string  false  "Free text search over dimension values"
// @Param        sources    query     string  false  "Comma-separated list of catalog entry names"
// @Param        runId      query     string  false  "Export run ID"
// @Param        sortBy     query     string  false  "Field to sort by (default: fetched_at)" Enums(fetched_at, @timestamp, row_index, source, view_id, run_id)
// @Param        sortOrder  query     string  false  "Sort order (default: desc)" Enums(asc, desc)
// @Param        page       query     int     false  "Page number (default: 1)" minimum(1)
// @Param        size       query     int     false  "Records per page (default: 50, max: 1000)" minimum(1) maximum(1000)
// @Success      200        {object}  dto.RecordSearchResponse
// @Failure      400        {object}  model.Response "Invalid query parameters"
// @Failure      500        {object}  model.Response "Internal server error"
// @Router       /api/v1/records [get]
func (c *RecordController) GetRecords(ctx *gin.Context) {
	startTime, errStart := util.ParseTimeFlexible(ctx.Query("startTime"))
	endTime, errEnd := util.ParseTimeFlexible(ctx.Query("endTime"))
	if errStart != nil || errEnd != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid startTime or endTime format. Use ISO 8601 or epoch milliseconds.", nil))
		return
	}
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.DefaultQuery("size", "50"))
	if err != nil {
		size = 0
	}

	searchReq := dto.RecordSearchRequest{
		StartTime: startTime,
		EndTime:   endTime,
		Query:     ctx.Query("query"),
		Sources:   splitList(ctx.Query("sources")),
		RunID:     ctx.Query("runId"),
		SortBy:    ctx.DefaultQuery("sortBy", "fetched_at"),
		SortOrder: ctx.DefaultQuery("sortOrder", "desc"),
		Page:      page,
		Size:      size,
	}

	result, err := c.recordQueryService.SearchRecords(ctx.Request.Context(), searchReq)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) {
			ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
			return
		}
		log.Error().Err(err).Msg("Error searching records")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to search records", nil))
		return
	}

	ctx.JSON(http.StatusOK, result)
}
