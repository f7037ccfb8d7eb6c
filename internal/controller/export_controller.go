package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/service"
)

type ExportController struct {
	exportService service.ReportExportService
}

func NewExportController(exportService service.ReportExportService) *ExportController {
	return &ExportController{
		exportService: exportService,
	}
}

func RegisterExportRoutes(router *gin.Engine, controller *ExportController) {
	v1 := router.Group("/api/v1/exports")
	{
		v1.POST("/run", controller.RunExport)
		v1.GET("/state", controller.GetState)
	}
}

// RunExport godoc
// @Summary      Run an export now
// @Description  Exports every export-enabled catalog entry to Kafka outside the schedule. Entries that fail are reported in the message; the others are still exported.
// @Tags         exports
// @Produce      json
// @Success      200  {object}  service.ExportSummary
// @Failure      409  {object}  model.Response "An export is already running"
// @Failure      500  {object}  model.Response "One or more entries failed"
// @Router       /api/v1/exports/run [post]
func (c *ExportController) RunExport(ctx *gin.Context) {
	summary, err := c.exportService.ExportAll(ctx.Request.Context())
	if errors.Is(err, service.ErrExportInProgress) {
		ctx.JSON(http.StatusConflict, model.NewResponse(err.Error(), nil))
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Export run finished with errors")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse(err.Error(), summary))
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// GetState godoc
// @Summary      Last export run per entry
// @Tags         exports
// @Produce      json
// @Success      200  {object}  jobstate.State
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/v1/exports/state [get]
func (c *ExportController) GetState(ctx *gin.Context) {
	state, err := c.exportService.State()
	if err != nil {
		log.Error().Err(err).Msg("Error loading export state")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to load export state", nil))
		return
	}
	ctx.JSON(http.StatusOK, state)
}
