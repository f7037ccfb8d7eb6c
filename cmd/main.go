package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"analytics-report-backend/config"
	"analytics-report-backend/database"
	_ "analytics-report-backend/docs"
	"analytics-report-backend/internal/controller"
	"analytics-report-backend/internal/elasticsearch"
	"analytics-report-backend/internal/jobstate"
	"analytics-report-backend/internal/kafka"
	"analytics-report-backend/internal/metrics"
	"analytics-report-backend/internal/reporting"
	"analytics-report-backend/internal/repository"
	"analytics-report-backend/internal/scheduler"
	"analytics-report-backend/internal/service"
	"analytics-report-backend/internal/timescaledb"
)

// @title           Analytics Report API
// @version         1.0
// @description     Runs analytics reporting queries, keeps a catalog of saved queries and exports their rows to Kafka, Elasticsearch and TimescaleDB.

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         reports
// @tag.description  Ad hoc report queries

// @tag.name         catalog
// @tag.description  Saved queries exposed as data sources

// @tag.name         exports
// @tag.description  Scheduled export of catalog entries

// @tag.name         records
// @tag.description  Search over exported rows

// @tag.name         metrics
// @tag.description  Time series over exported metric values

func main() {
	var wg sync.WaitGroup

	app := fx.New(
		// Core Dependencies
		fx.Provide(
			config.NewConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			database.NewDB,
			NewGinEngine,
			NewJobStateManager,
			reporting.NewHTTPClient,
			repository.NewCatalogRepository,
			kafka.NewKafkaRecordProducer,
			kafka.NewKafkaRecordConsumer,
			elasticsearch.NewElasticRecordStore,
			elasticsearch.NewElasticsearchRecordRepository,
			timescaledb.ProvideTimescaleDBPool,
			timescaledb.NewTimescaleMetricRepository,
			metrics.NewReportRecordExtractor,
		),
		// Services and Controllers
		fx.Provide(
			service.NewReportQueryService,
			service.NewCatalogService,
			service.NewReportExportService,
			service.NewReportConsumerService,
			service.NewRecordQueryService,
			service.NewMetricQueryService,
			controller.NewReportController,
			controller.NewCatalogController,
			controller.NewExportController,
			controller.NewRecordController,
			controller.NewMetricController,
		),
		fx.Invoke(RegisterAPIRoutes,
			RegisterScheduler,
			func(lc fx.Lifecycle, consumerService service.ReportConsumerService) {
				startReportConsumer(lc, &wg, consumerService)
			},
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}

	// The consumer commits its last batch before returning.
	log.Info().Msg("Waiting for background goroutines to finish...")
	wg.Wait()
	log.Info().Msg("All background processes finished. Exiting.")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	reportController *controller.ReportController,
	catalogController *controller.CatalogController,
	exportController *controller.ExportController,
	recordController *controller.RecordController,
	metricController *controller.MetricController,
) {
	controller.RegisterReportRoutes(router, reportController)
	controller.RegisterCatalogRoutes(router, catalogController)
	controller.RegisterExportRoutes(router, exportController)
	controller.RegisterRecordRoutes(router, recordController)
	controller.RegisterMetricRoutes(router, metricController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// --- Factory Functions ---

func NewJobStateManager(cfg *config.Config) jobstate.Manager {
	return jobstate.NewManager(cfg.JobState.FilePath)
}

// --- Invoker Functions ---

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, exportSvc service.ReportExportService) error {
	_, err := scheduler.NewScheduler(lc, cfg, exportSvc)
	return err
}

// startReportConsumer runs the consumer loop until the app stops.
func startReportConsumer(lc fx.Lifecycle, wg *sync.WaitGroup, consumerService service.ReportConsumerService) {
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info().Msg("Starting Report Consumer goroutine")
			go consumerService.Run(ctx, wg)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info().Msg("Signaling Report Consumer goroutine to stop...")
			cancel()
			return nil
		},
	})
}
