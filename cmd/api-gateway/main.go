package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/brightpath-edu/study-scheduler-api/api/swagger"
	"github.com/brightpath-edu/study-scheduler-api/internal/handler"
	"github.com/brightpath-edu/study-scheduler-api/internal/middleware"
	"github.com/brightpath-edu/study-scheduler-api/internal/remote"
	"github.com/brightpath-edu/study-scheduler-api/internal/repository"
	"github.com/brightpath-edu/study-scheduler-api/internal/service"
	"github.com/brightpath-edu/study-scheduler-api/pkg/cache"
	"github.com/brightpath-edu/study-scheduler-api/pkg/config"
	"github.com/brightpath-edu/study-scheduler-api/pkg/database"
	"github.com/brightpath-edu/study-scheduler-api/pkg/export"
	"github.com/brightpath-edu/study-scheduler-api/pkg/logger"
	corsmiddleware "github.com/brightpath-edu/study-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/brightpath-edu/study-scheduler-api/pkg/middleware/requestid"
	"github.com/brightpath-edu/study-scheduler-api/pkg/storage"
)

// @title Study Scheduler API
// @version 0.1.0
// @description Planner gateway between the family calendar UI and the upstream schedule store
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Snapshot.CacheEnabled {
		redisClient, rerr := cache.NewRedis(cfg.Redis)
		if rerr != nil {
			logr.Sugar().Warnw("redis unavailable, snapshot cache disabled", "error", rerr)
		} else {
			repo := repository.NewCacheRepository(redisClient, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Snapshot.CacheTTL, logr, cfg.Snapshot.CacheEnabled && cacheRepo != nil)

	upstream := remote.NewClient(cfg.Upstream, logr)
	journal := repository.NewUnsyncedEntryRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)

	prefSvc := service.NewPreferenceService(upstream, prefRepo, nil, cfg.Engine, logr)
	plannerSvc := service.NewPlannerService(upstream, journal, cacheSvc, prefSvc, nil, metricsSvc, cfg.Engine, cfg.Snapshot.CacheTTL, logr)

	var resyncSvc *service.ResyncService
	if cfg.Resync.Enabled {
		resyncSvc = service.NewResyncService(upstream, journal, plannerSvc, metricsSvc, cfg.Resync, logr)
		resyncSvc.Start(context.Background())
		defer resyncSvc.Stop()
	}

	var exportSvc *service.ExportService
	if cfg.Export.Enabled {
		store, serr := storage.NewLocalStorage(cfg.Export.Dir)
		if serr != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", serr)
		}
		signer := storage.NewSignedURLSigner(cfg.Export.SigningSecret, cfg.Export.LinkTTL)
		exportSvc = service.NewExportService(plannerSvc, store, signer, cfg.Export, cfg.APIPrefix, logr, export.NewCSVExporter(), export.NewPDFExporter())
	}

	plannerHandler := handler.NewPlannerHandler(plannerSvc)
	entryHandler := handler.NewEntryHandler(plannerSvc)
	prefHandler := handler.NewPreferenceHandler(prefSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		planner := api.Group("/planner")
		{
			planner.GET("/:familyId/snapshot", plannerHandler.Snapshot)
			planner.POST("/:familyId/learners", plannerHandler.SetRoster)
			planner.POST("/:familyId/intent", plannerHandler.SetIntent)
			planner.POST("/:familyId/check", plannerHandler.Check)

			planner.POST("/:familyId/entries", entryHandler.Create)
			planner.POST("/:familyId/entries/batch", entryHandler.BatchCreate)
			planner.PUT("/:familyId/entries/:id", entryHandler.Update)
			planner.DELETE("/:familyId/entries/:id", entryHandler.Delete)
			planner.POST("/:familyId/entries/:id/status", entryHandler.UpdateStatus)

			planner.GET("/preferences/:learnerId", prefHandler.Get)
			planner.PUT("/preferences/:learnerId", prefHandler.Save)

			if exportSvc != nil {
				exportHandler := handler.NewExportHandler(exportSvc)
				planner.GET("/:familyId/export", exportHandler.Export)
				api.GET("/exports/download", exportHandler.Download)
			}
		}
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
