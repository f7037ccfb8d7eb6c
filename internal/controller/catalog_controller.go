package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"analytics-report-backend/internal/catalog"
	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/model"
	"analytics-report-backend/internal/repository"
	"analytics-report-backend/internal/service"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

func RegisterCatalogRoutes(router *gin.Engine, controller *CatalogController) {
	v1 := router.Group("/api/v1/catalog")
	{
		v1.GET("", controller.ListEntries)
		v1.POST("", controller.RegisterEntry)
		v1.GET("/:name", controller.GetEntry)
		v1.DELETE("/:name", controller.DeleteEntry)
		v1.GET("/:name/discover", controller.DiscoverEntry)
		v1.GET("/:name/read", controller.ReadEntry)
	}
}

func catalogErrorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrPartitionOutOfRange), errors.Is(err, service.ErrNameRequired):
		return http.StatusBadRequest
	default:
		return queryErrorStatus(err)
	}
}

func (c *CatalogController) fail(ctx *gin.Context, err error, msg string) {
	status := catalogErrorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("name", ctx.Param("name")).Msg(msg)
	}
	ctx.JSON(status, model.NewResponse(err.Error(), nil))
}

// ListEntries godoc
// @Summary      List catalog entries
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   model.CatalogEntry
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/v1/catalog [get]
func (c *CatalogController) ListEntries(ctx *gin.Context) {
	entries, err := c.catalogService.List(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, err, "Error listing catalog entries")
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

// RegisterEntry godoc
// @Summary      Register a saved query
// @Description  Validates the query and stores it under a unique name. An existing entry with the same name is replaced.
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CatalogRegisterRequest  true  "Catalog entry"
// @Success      201      {object}  model.CatalogEntry
// @Failure      400      {object}  model.Response "Invalid entry"
// @Failure      500      {object}  model.Response "Internal server error"
// @Router       /api/v1/catalog [post]
func (c *CatalogController) RegisterEntry(ctx *gin.Context) {
	var req dto.CatalogRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}
	entry, err := c.catalogService.Register(ctx.Request.Context(), req)
	if err != nil {
		c.fail(ctx, err, "Error registering catalog entry")
		return
	}
	ctx.JSON(http.StatusCreated, entry)
}

// GetEntry godoc
// @Summary      Get a catalog entry
// @Tags         catalog
// @Produce      json
// @Param        name  path      string  true  "Entry name"
// @Success      200   {object}  model.CatalogEntry
// @Failure      404   {object}  model.Response "Not found"
// @Router       /api/v1/catalog/{name} [get]
func (c *CatalogController) GetEntry(ctx *gin.Context) {
	entry, err := c.catalogService.Get(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		c.fail(ctx, err, "Error getting catalog entry")
		return
	}
	ctx.JSON(http.StatusOK, entry)
}

// DeleteEntry godoc
// @Summary      Delete a catalog entry
// @Tags         catalog
// @Param        name  path      string  true  "Entry name"
// @Success      204
// @Failure      404   {object}  model.Response "Not found"
// @Router       /api/v1/catalog/{name} [delete]
func (c *CatalogController) DeleteEntry(ctx *gin.Context) {
	if err := c.catalogService.Delete(ctx.Request.Context(), ctx.Param("name")); err != nil {
		c.fail(ctx, err, "Error deleting catalog entry")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DiscoverEntry godoc
// @Summary      Describe a catalog source
// @Description  Runs the saved query and returns its column schema, shape and partition count.
// @Tags         catalog
// @Produce      json
// @Param        name  path      string  true  "Entry name"
// @Success      200   {object}  catalog.Schema
// @Failure      404   {object}  model.Response "Not found"
// @Failure      502   {object}  model.Response "Reporting API rejected the request"
// @Router       /api/v1/catalog/{name}/discover [get]
func (c *CatalogController) DiscoverEntry(ctx *gin.Context) {
	src, err := c.catalogService.Source(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		c.fail(ctx, err, "Error opening catalog source")
		return
	}
	defer src.Close()

	schema, err := src.Discover(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, err, "Error discovering catalog source")
		return
	}
	ctx.JSON(http.StatusOK, schema)
}

// ReadEntry godoc
// @Summary      Read a catalog source
// @Description  Runs the saved query and returns the table. Sources have a single partition, 0.
// @Tags         catalog
// @Produce      json
// @Param        name       path      string  true   "Entry name"
// @Param        partition  query     int     false  "Partition index"
// @Success      200        {object}  dto.ReportQueryResponse
// @Failure      400        {object}  model.Response "Invalid partition"
// @Failure      404        {object}  model.Response "Not found"
// @Router       /api/v1/catalog/{name}/read [get]
func (c *CatalogController) ReadEntry(ctx *gin.Context) {
	partition, err := strconv.Atoi(ctx.DefaultQuery("partition", "0"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("partition must be an integer", nil))
		return
	}

	src, err := c.catalogService.Source(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		c.fail(ctx, err, "Error opening catalog source")
		return
	}
	defer src.Close()

	table, err := src.ReadPartition(ctx.Request.Context(), partition)
	if err != nil {
		c.fail(ctx, err, "Error reading catalog source")
		return
	}
	ctx.JSON(http.StatusOK, dto.ReportQueryResponse{
		RowCount: table.NumRows(),
		Table:    table,
	})
}
