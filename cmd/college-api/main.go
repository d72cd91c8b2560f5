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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campora/college-admin-api/api/swagger"
	"github.com/campora/college-admin-api/internal/handler"
	"github.com/campora/college-admin-api/internal/middleware"
	"github.com/campora/college-admin-api/internal/models"
	"github.com/campora/college-admin-api/internal/repository"
	"github.com/campora/college-admin-api/internal/service"
	"github.com/campora/college-admin-api/pkg/cache"
	"github.com/campora/college-admin-api/pkg/config"
	"github.com/campora/college-admin-api/pkg/database"
	"github.com/campora/college-admin-api/pkg/jobs"
	"github.com/campora/college-admin-api/pkg/logger"
	corsmiddleware "github.com/campora/college-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campora/college-admin-api/pkg/middleware/requestid"
)

// @title College Admin API
// @version 1.0.0
// @description Student, fee ledger and administration backend for an engineering college
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, analytics cache disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// repositories
	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)
	configRepo := repository.NewConfigurationRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	// services
	authSvc := service.NewAuthService(userRepo, auditRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "college-admin-api",
	})
	var analyticsCache = redisClient
	if !cfg.Analytics.Enabled {
		analyticsCache = nil
	}
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, analyticsCache, metricsSvc, cfg.Analytics.CacheTTL, logr)

	studentSvc := service.NewStudentService(studentRepo, userRepo, configRepo, auditRepo, validate, logr)
	feeSvc := service.NewFeeService(studentRepo, configRepo, auditRepo, analyticsSvc, validate, logr)
	librarySvc := service.NewLibraryService(libraryRepo, studentRepo, auditRepo, validate, logr, cfg.Library.DefaultLoanDays)
	promotionSvc := service.NewPromotionService(studentRepo, librarySvc, auditRepo, analyticsSvc, logr)
	hostelSvc := service.NewHostelService(studentRepo, auditRepo, validate, logr)
	placementSvc := service.NewPlacementService(studentRepo, analyticsRepo, auditRepo, validate, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, studentRepo, validate, logr)
	exportSvc := service.NewExportService(analyticsRepo, studentRepo, logr)

	// the queue handler needs the service and the service needs the queue,
	// so the handler closes over a late-bound pointer
	var reconciliationSvc *service.ReconciliationService
	reconcileQueue := jobs.NewQueue("reconciliation", func(ctx context.Context, job jobs.Job) error {
		return reconciliationSvc.HandleJob(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Reconcile.Workers,
		MaxRetries: cfg.Reconcile.MaxRetries,
		RetryDelay: cfg.Reconcile.RetryDelay,
		Logger:     logr,
	})
	reconciliationSvc = service.NewReconciliationService(studentRepo, auditRepo, reconcileQueue, analyticsSvc, cfg.Fees.FallbackSemesterFee, logr)
	reconcileQueue.Start(ctx)
	defer reconcileQueue.Stop()

	// handlers
	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	feeHandler := handler.NewFeeHandler(feeSvc, promotionSvc, reconciliationSvc)
	hostelHandler := handler.NewHostelHandler(hostelSvc)
	placementHandler := handler.NewPlacementHandler(placementSvc)
	libraryHandler := handler.NewLibraryHandler(librarySvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, metricsSvc, auditRepo)
	exportHandler := handler.NewExportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		auth.POST("/reset-password",
			middleware.JWT(authSvc),
			middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar),
			authHandler.ResetPassword)
	}

	students := api.Group("/students", middleware.JWT(authSvc))
	{
		students.POST("",
			middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar),
			studentHandler.Create)
		students.GET("", middleware.Staff(), studentHandler.List)
		students.GET("/me", middleware.RequireRoles(models.RoleStudent), studentHandler.Me)
		students.GET("/:usn",
			middleware.RBAC(string(models.RoleAdmin), string(models.RoleRegistrar), string(models.RoleHostel),
				string(models.RolePlacement), string(models.RoleLibrary), "SELF"),
			studentHandler.Get)
		students.PATCH("/:usn/fees",
			middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar),
			studentHandler.UpdateFeeProfile)
		students.PUT("/:usn/eligibility-override",
			middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar),
			studentHandler.SetEligibilityOverride)
	}

	fees := api.Group("/fees", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar))
	{
		fees.POST("/payments", feeHandler.RecordPayment)
		fees.POST("/mark-paid", feeHandler.MarkPaid)
		fees.PUT("/government", feeHandler.SetGovernmentFee)
	}

	promotion := api.Group("/promotion", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar))
	{
		promotion.GET("/:usn/evaluate", feeHandler.Evaluate)
		promotion.POST("/:usn", feeHandler.PromoteStudent)
		promotion.POST("/year/:year", feeHandler.PromoteYear)
	}

	reconciliation := api.Group("/reconciliation", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar))
	{
		reconciliation.POST("", feeHandler.ReconcileAll)
		reconciliation.POST("/:usn", feeHandler.ReconcileStudent)
	}

	hostel := api.Group("/hostel", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleHostel))
	{
		hostel.POST("/fees", hostelHandler.AssignFee)
		hostel.POST("/payments", hostelHandler.RecordPayment)
		hostel.GET("/:usn", hostelHandler.Status)
		hostel.DELETE("/:usn", hostelHandler.Disable)
	}

	placement := api.Group("/placement", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RolePlacement))
	{
		placement.POST("/fees", placementHandler.BulkAssign)
		placement.POST("/payments", placementHandler.RecordPayment)
		placement.GET("/stats", placementHandler.Stats)
	}

	library := api.Group("/library", middleware.JWT(authSvc))
	{
		library.POST("/loans", middleware.RequireRoles(models.RoleAdmin, models.RoleLibrary), libraryHandler.Issue)
		library.POST("/loans/:id/return", middleware.RequireRoles(models.RoleAdmin, models.RoleLibrary), libraryHandler.Return)
		library.GET("/students/:usn",
			middleware.RequireRoles(models.RoleAdmin, models.RoleLibrary, models.RoleRegistrar),
			libraryHandler.History)
		library.GET("/my-books", middleware.RequireRoles(models.RoleStudent), libraryHandler.MyBooks)
		library.GET("/unreturned", middleware.RequireRoles(models.RoleAdmin, models.RoleLibrary), libraryHandler.Unreturned)
	}

	notifications := api.Group("/notifications", middleware.JWT(authSvc))
	{
		notifications.GET("/visible", middleware.RequireRoles(models.RoleStudent), notificationHandler.ListVisible)
		notifications.GET("", middleware.Staff(), notificationHandler.ListAll)
		notifications.POST("",
			middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar),
			notificationHandler.Create)
		notifications.PUT("/:id",
			middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar),
			notificationHandler.Update)
		notifications.DELETE("/:id",
			middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar),
			notificationHandler.Delete)
	}

	analytics := api.Group("/analytics", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar))
	{
		analytics.GET("/dashboard", analyticsHandler.Dashboard)
		analytics.GET("/fees", analyticsHandler.Fees)
		analytics.GET("/system", analyticsHandler.SystemMetrics)
		analytics.GET("/audit", analyticsHandler.AuditTrail)
	}

	exports := api.Group("/exports", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar))
	{
		exports.GET("/due-list",
			middleware.Audit(auditRepo, models.AuditActionExport, "due_list"),
			exportHandler.DueListCSV)
		exports.GET("/receipts/:usn/:record_id",
			middleware.Audit(auditRepo, models.AuditActionExport, "receipt"),
			exportHandler.ReceiptPDF)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
