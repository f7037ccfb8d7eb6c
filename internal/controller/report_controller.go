package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/reporting"
	"analytics-report-backend/internal/service"
)

type ReportController struct {
	reportQueryService service.ReportQueryService
}

func NewReportController(reportQueryService service.ReportQueryService) *ReportController {
	return &ReportController{
		reportQueryService: reportQueryService,
	}
}

func RegisterReportRoutes(router *gin.Engine, controller *ReportController) {
	v1 := router.Group("/api/v1/reports")
	{
		v1.POST("/query", controller.QueryReport)
		v1.POST("/body", controller.BuildBody)
	}
}

// queryErrorStatus maps a query failure to an HTTP status.
func queryErrorStatus(err error) int {
	var statusErr *reporting.StatusError
	switch {
	case service.IsValidationError(err):
		return http.StatusBadRequest
	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// QueryReport godoc
// @Summary      Run a report query
// @Description  Runs the query against the reporting API, follows every page and returns the typed table. Pass format=csv for CSV output.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Produce      text/csv
// @Param        request  body      dto.ReportQueryRequest  true   "Report query"
// @Param        format   query     string                  false  "Response format" Enums(json, csv)
// @Success      200      {object}  dto.ReportQueryResponse
// @Failure      400      {object}  model.Response "Invalid query"
// @Failure      502      {object}  model.Response "Reporting API rejected the request"
// @Failure      500      {object}  model.Response "Internal server error"
// @Router       /api/v1/reports/query [post]
func (c *ReportController) QueryReport(ctx *gin.Context) {
	var req dto.ReportQueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	table, err := c.reportQueryService.Query(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("view_id", req.ViewID).Msg("Error running report query")
		ctx.JSON(queryErrorStatus(err), model.NewResponse(err.Error(), nil))
		return
	}

	if ctx.Query("format") == "csv" {
		ctx.Header("Content-Type", "text/csv; charset=utf-8")
		ctx.Status(http.StatusOK)
		if err := table.WriteCSV(ctx.Writer); err != nil {
			log.Error().Err(err).Msg("Failed to write CSV response")
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.ReportQueryResponse{
		ViewID:   req.ViewID,
		RowCount: table.NumRows(),
		Table:    table,
	})
}

// BuildBody godoc
// @Summary      Preview the request body
// @Description  Validates the query and returns the batchGet body that would be sent, without calling the API.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ReportQueryRequest  true  "Report query"
// @Success      200      {object}  dto.BatchGetRequest
// @Failure      400      {object}  model.Response "Invalid query"
// @Router       /api/v1/reports/body [post]
func (c *ReportController) BuildBody(ctx *gin.Context) {
	var req dto.ReportQueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}
	body, err := c.reportQueryService.BuildBody(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}
	ctx.JSON(http.StatusOK, body)
}
