package main

import (
	"fmt"
	"log"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/timetable-core/api/swagger"
	rediscache "github.com/noah-isme/timetable-core/pkg/cache"

	internalcache "github.com/noah-isme/timetable-core/internal/cache"
	"github.com/noah-isme/timetable-core/internal/export"
	internalhandler "github.com/noah-isme/timetable-core/internal/handler"
	"github.com/noah-isme/timetable-core/internal/metrics"
	internalmiddleware "github.com/noah-isme/timetable-core/internal/middleware"
	"github.com/noah-isme/timetable-core/internal/ports"
	"github.com/noah-isme/timetable-core/internal/scheduler"
	"github.com/noah-isme/timetable-core/internal/store/postgres"
	"github.com/noah-isme/timetable-core/pkg/config"
	"github.com/noah-isme/timetable-core/pkg/database"
	"github.com/noah-isme/timetable-core/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-core/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-core/pkg/middleware/requestid"
)

// @title Timetable Scheduling Core API
// @version 0.1.0
// @description Weekly timetable generation, conflict queries, and export
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
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	metricsCollector := metrics.New()

	cacheRepo := newCacheRepository(cfg, logr)
	cacheSvc := internalcache.NewService(cacheRepo, metricsCollector, cfg.Cache.TTL, logr, cfg.Cache.Enabled && cacheRepo != nil)

	// Course, room, teacher, group and faculty catalogues are shared across
	// terms (physical entities persist term to term), so these repositories
	// are built once; settings and the schedule table are term-scoped and
	// are built fresh per request by the factories below.
	courseRepo := postgres.NewCourseRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	teacherRepo := postgres.NewTeacherRepository(db)
	groupRepo := postgres.NewGroupRepository(db)
	facultyRepo := postgres.NewFacultyRepository(db)
	runRepo := postgres.NewGenerationRunRepository(db)

	newScheduler := schedulerFactory(db, courseRepo, roomRepo, teacherRepo, groupRepo, facultyRepo, logr, cfg.Scheduler)
	newReader := scheduleReaderFactory(db)

	exporter := export.NewTimetableExporter(nil, nil, logr)

	generatorHandler := internalhandler.NewScheduleGeneratorHandler(newScheduler, newReader, runRepo, cacheSvc, metricsCollector, logr)
	exportHandler := internalhandler.NewExportHandler(newReader, exporter, cfg.Scheduler.DaysPerWeek, cfg.Scheduler.PeriodsPerDay, logr)
	metricsHandler := internalhandler.NewMetricsHandler(metricsCollector)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsCollector))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		registerPprof(r)
	}

	api := r.Group(cfg.APIPrefix)

	scheduleGroup := api.Group("/schedules")
	scheduleGroup.GET("/export", exportHandler.Timetable)
	scheduleGroup.GET("/runs", generatorHandler.Runs)

	triggerGroup := scheduleGroup.Group("")
	triggerGroup.Use(internalmiddleware.ServiceBearer(cfg.JWT.Secret))
	triggerGroup.POST("/generate", generatorHandler.Generate)
	triggerGroup.POST("/conflicts", generatorHandler.Conflicts)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// schedulerFactory returns a closure building a *scheduler.Service scoped to
// one term, constructing the term-scoped settings/schedule repositories
// fresh per call while reusing the shared catalogue repositories.
func schedulerFactory(
	db *sqlx.DB,
	courseRepo ports.CourseReader,
	roomRepo ports.RoomReader,
	teacherRepo ports.TeacherReader,
	groupRepo ports.GroupReader,
	facultyRepo ports.FacultyReader,
	logr *zap.Logger,
	schedCfg config.SchedulerConfig,
) func(termID string) *scheduler.Service {
	budget := scheduler.Budget{
		MaxDuration:   schedCfg.MaxGenerationTime,
		MaxIterations: schedCfg.MaxIterations,
	}
	return func(termID string) *scheduler.Service {
		settingsRepo := postgres.NewSettingsRepository(db, termID)
		scheduleRepo := postgres.NewScheduleItemRepository(db, termID)
		return scheduler.New(
			courseRepo,
			roomRepo,
			teacherRepo,
			groupRepo,
			facultyRepo,
			settingsRepo,
			scheduleRepo,
			scheduleRepo,
			logr,
			budget,
		)
	}
}

// scheduleReaderFactory returns a closure building a term-scoped
// ports.ScheduleReader, used by the conflict-query and export endpoints.
func scheduleReaderFactory(db *sqlx.DB) func(termID string) ports.ScheduleReader {
	return func(termID string) ports.ScheduleReader {
		return postgres.NewScheduleItemRepository(db, termID)
	}
}

func newCacheRepository(cfg *config.Config, logr *zap.Logger) internalcache.Repository {
	if !cfg.Cache.Enabled {
		return nil
	}
	client, err := rediscache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, conflict cache disabled", "error", err)
		return nil
	}
	return internalcache.NewRedisRepository(client)
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	group.GET("/block", gin.WrapH(pprof.Handler("block")))
	group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	group.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	group.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
}
