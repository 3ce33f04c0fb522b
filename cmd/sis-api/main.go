package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sis-api/api/swagger"
	"github.com/noah-isme/sis-api/internal/handler"
	"github.com/noah-isme/sis-api/internal/realtime"
	"github.com/noah-isme/sis-api/internal/repository"
	"github.com/noah-isme/sis-api/internal/router"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/migrations"
	"github.com/noah-isme/sis-api/pkg/cache"
	"github.com/noah-isme/sis-api/pkg/config"
	"github.com/noah-isme/sis-api/pkg/database"
	"github.com/noah-isme/sis-api/pkg/jobs"
	"github.com/noah-isme/sis-api/pkg/logger"
	"github.com/noah-isme/sis-api/pkg/storage"
)

// @title SIS API
// @version 1.0.0
// @description Student information system: courses, attendance, results, fees, leave and messaging.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, migrations.FS); err != nil {
			return err
		}
		logr.Info("database migrations applied")
	}

	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	var redisClient *redis.Client
	var cacheRepo service.CacheRepository
	if cfg.Analytics.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(redisClient, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cacheRepo != nil)

	users := repository.NewUserRepository(db)
	students := repository.NewStudentRepository(db)
	teachers := repository.NewTeacherRepository(db)
	courses := repository.NewCourseRepository(db)
	attendance := repository.NewAttendanceRepository(db)
	results := repository.NewResultRepository(db)
	fees := repository.NewFeeRepository(db)
	leaves := repository.NewLeaveRepository(db)
	notifications := repository.NewNotificationRepository(db)
	announcements := repository.NewAnnouncementRepository(db)
	timetable := repository.NewTimetableRepository(db)
	messages := repository.NewMessageRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	reportJobs := repository.NewReportRepository(db)

	var hub *realtime.Hub
	var pusher service.NotificationPusher
	if cfg.Realtime.Enabled {
		hub = realtime.NewHub(cfg.CORS.AllowedOrigins, logr)
		defer hub.Close()
		pusher = hub
	}

	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	notificationSvc := service.NewNotificationService(notifications, pusher, metrics, logr)
	reportSvc := service.NewReportService(service.ReportServiceParams{
		Counts:     analyticsRepo,
		Students:   students,
		Teachers:   teachers,
		Courses:    courses,
		Attendance: attendance,
		Fees:       fees,
		Logger:     logr,
	})

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Users:         handler.NewUserHandler(service.NewUserService(users, students, teachers, validate, logr)),
		Profiles:      handler.NewProfileHandler(service.NewProfileService(students, teachers, courses, validate, logr)),
		Courses:       handler.NewCourseHandler(service.NewCourseService(courses, students, teachers, users, validate, logr)),
		Attendance:    handler.NewAttendanceHandler(service.NewAttendanceService(attendance, students, courses, cacheSvc, validate, logr)),
		Results:       handler.NewResultHandler(service.NewResultService(results, students, courses, cacheSvc, validate, logr)),
		Fees:          handler.NewFeeHandler(service.NewFeeService(fees, students, users, cacheSvc, validate, logr)),
		Leave:         handler.NewLeaveHandler(service.NewLeaveService(leaves, students, notificationSvc, users, validate, logr)),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Announcements: handler.NewAnnouncementHandler(service.NewAnnouncementService(announcements, validate, logr)),
		Timetable:     handler.NewTimetableHandler(service.NewTimetableService(timetable, courses, teachers, students, validate, logr)),
		Messages:      handler.NewMessageHandler(service.NewMessageService(messages, users, validate, logr)),
		Analytics:     handler.NewAnalyticsHandler(service.NewAnalyticsService(attendance, results, fees, students, cacheSvc, metrics, logr)),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(service.DashboardServiceParams{
			Students:    students,
			StudentRows: students,
			TeacherRows: teachers,
			CourseRows:  courses,
			Instructors: courses,
			Attendance:  attendance,
			Results:     results,
			Fees:        fees,
			Logger:      logr,
		})),
		Reports: handler.NewReportHandler(reportSvc),
	}

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	handlers.Metrics = handler.NewMetricsHandler(metrics, checks, logr)
	if hub != nil {
		handlers.Realtime = handler.NewRealtimeHandler(hub, logr)
	}

	if cfg.Exports.Enabled {
		queue, exportJobs, err := startExports(ctx, cfg, reportJobs, reportSvc, fees, metrics, validate, logr)
		if err != nil {
			return err
		}
		defer queue.Stop()
		handlers.Exports = handler.NewExportHandler(exportJobs)
	}

	engine := router.New(handlers, router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Tokens:         authSvc,
		Audit:          users,
		Metrics:        metrics,
		Logger:         logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func startExports(
	ctx context.Context,
	cfg *config.Config,
	jobsRepo *repository.ReportRepository,
	reports *service.ReportService,
	fees *repository.FeeRepository,
	metrics *service.MetricsService,
	validate *validator.Validate,
	logr *zap.Logger,
) (*jobs.Queue, *service.ExportJobService, error) {
	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return nil, nil, fmt.Errorf("init export storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exporter := service.NewExportService(reports, fees, store, signer, nil, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr)

	worker := service.NewExportWorker(jobsRepo, exporter, metrics, logr)
	queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.Workers,
		MaxRetries: cfg.Exports.Retries,
		OnFailure:  worker.Fail,
		Logger:     logr,
	})
	queue.Start(ctx)

	svc := service.NewExportJobService(jobsRepo, queue, exporter, metrics, validate, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
	})
	svc.RecoverPendingJobs(ctx)
	svc.StartCleanup(ctx)
	return queue, svc, nil
}
