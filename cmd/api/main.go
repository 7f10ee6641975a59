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

	_ "github.com/noah-isme/sienep-api/api/swagger"
	"github.com/noah-isme/sienep-api/internal/handler"
	"github.com/noah-isme/sienep-api/internal/middleware"
	"github.com/noah-isme/sienep-api/internal/repository"
	"github.com/noah-isme/sienep-api/internal/service"
	"github.com/noah-isme/sienep-api/pkg/cache"
	"github.com/noah-isme/sienep-api/pkg/config"
	"github.com/noah-isme/sienep-api/pkg/database"
	"github.com/noah-isme/sienep-api/pkg/hash"
	"github.com/noah-isme/sienep-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sienep-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sienep-api/pkg/middleware/requestid"
	"golang.org/x/crypto/bcrypt"
)

// @title SIENEP API
// @version 0.1.0
// @description Case tracking backend for student support services
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	hasher := hash.NewBcrypt(bcrypt.DefaultCost)
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, permission caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo = cache.NewStore(redisClient)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, 15*time.Minute, logr, cacheRepo != nil)

	// repositories
	userRepo := repository.NewUserRepository(db, hasher)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	studentRepo := repository.NewStudentRepository(db, userRepo)
	staffRepo := repository.NewStaffRepository(db, userRepo, roleRepo)
	categoryRepo := repository.NewCategoryRepository(db)
	caseRepo := repository.NewCaseRepository(db, categoryRepo, studentRepo, userRepo)
	commonCaseRepo := repository.NewCommonCaseRepository(db, caseRepo)
	incidentRepo := repository.NewIncidentRepository(db, caseRepo, staffRepo)

	// services
	authSvc := service.NewAuthService(userRepo, hasher, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	roleSvc := service.NewRoleService(roleRepo, permissionRepo, cacheSvc, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	staffSvc := service.NewStaffService(staffRepo, roleRepo, validate, logr)
	categorySvc := service.NewCategoryService(categoryRepo, validate, logr)
	caseSvc := service.NewCaseService(caseRepo, commonCaseRepo, incidentRepo, service.NewNoopCalendar(logr), validate, logr, service.CaseServiceConfig{
		CalendarEnabled: cfg.Calendar.Enabled,
		Workers:         cfg.Calendar.Workers,
		QueueSize:       cfg.Calendar.QueueSize,
		MaxRetries:      cfg.Calendar.MaxRetries,
		RetryDelay:      cfg.Calendar.RetryDelay,
		DefaultMinutes:  cfg.Calendar.DefaultMinutes,
	})
	exportSvc := service.NewExportService(caseRepo, cfg.Exports.MaxRows, logr)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	caseSvc.Start(rootCtx)
	defer caseSvc.Stop()

	// handlers
	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	staffHandler := handler.NewStaffHandler(staffSvc)
	caseHandler := handler.NewCaseHandler(caseSvc, exportSvc, metrics)
	roleHandler := handler.NewRoleHandler(roleSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	authed.GET("/auth/me", authHandler.Me)
	authed.PUT("/auth/password", authHandler.ChangePassword)

	students := authed.Group("/students")
	{
		students.GET("", middleware.RequirePermission(roleSvc, "students.read"), studentHandler.List)
		students.GET("/:id", middleware.SelfOrPermission(roleSvc, "students.read"), studentHandler.Get)
		students.POST("", middleware.RequirePermission(roleSvc, "students.write"), studentHandler.Create)
		students.PUT("/:id", middleware.RequirePermission(roleSvc, "students.write"), studentHandler.Update)
		students.PATCH("/:id/phone", middleware.SelfOrPermission(roleSvc, "students.write"), studentHandler.UpdatePhone)
		students.DELETE("/:id", middleware.RequirePermission(roleSvc, "students.write"), studentHandler.Delete)
	}

	staff := authed.Group("/staff", middleware.RequireStaff())
	{
		staff.GET("", middleware.RequirePermission(roleSvc, "staff.read"), staffHandler.List)
		staff.GET("/:id", middleware.RequirePermission(roleSvc, "staff.read"), staffHandler.Get)
		staff.POST("", middleware.RequirePermission(roleSvc, "staff.write"), staffHandler.Create)
		staff.PUT("/:id", middleware.RequirePermission(roleSvc, "staff.write"), staffHandler.Update)
		staff.PUT("/:id/role", middleware.RequirePermission(roleSvc, "staff.write"), staffHandler.AssignRole)
		staff.DELETE("/:id", middleware.RequirePermission(roleSvc, "staff.write"), staffHandler.Delete)
	}

	cases := authed.Group("/cases", middleware.RequireStaff())
	{
		cases.GET("", middleware.RequirePermission(roleSvc, "cases.read"), caseHandler.List)
		cases.GET("/code/:code", middleware.RequirePermission(roleSvc, "cases.read"), caseHandler.GetByCode)
		cases.GET("/common", middleware.RequirePermission(roleSvc, "cases.read"), caseHandler.ListCommon)
		cases.GET("/common/:id", middleware.RequirePermission(roleSvc, "cases.read"), caseHandler.GetCommon)
		cases.POST("/common", middleware.RequirePermission(roleSvc, "cases.write"), caseHandler.CreateCommon)
		cases.PUT("/common/:id", middleware.RequirePermission(roleSvc, "cases.write"), caseHandler.UpdateCommon)
		cases.POST("/common/:id/clone", middleware.RequirePermission(roleSvc, "cases.write"), caseHandler.CloneCommon)
		cases.GET("/incidents", middleware.RequirePermission(roleSvc, "cases.read"), caseHandler.ListIncidents)
		cases.GET("/incidents/:id", middleware.RequirePermission(roleSvc, "cases.read"), caseHandler.GetIncident)
		cases.POST("/incidents", middleware.RequirePermission(roleSvc, "cases.write"), caseHandler.CreateIncident)
		cases.PUT("/incidents/:id", middleware.RequirePermission(roleSvc, "cases.write"), caseHandler.UpdateIncident)
		cases.PATCH("/:id/comment", middleware.RequirePermission(roleSvc, "cases.write"), caseHandler.UpdateComment)
		cases.DELETE("/:id", middleware.RequirePermission(roleSvc, "cases.write"), caseHandler.Delete)
		if cfg.Exports.Enabled {
			cases.GET("/export/csv", middleware.RequirePermission(roleSvc, "cases.export"), caseHandler.ExportCSV)
			cases.GET("/export/pdf", middleware.RequirePermission(roleSvc, "cases.export"), caseHandler.ExportPDF)
		}
	}

	roles := authed.Group("/roles", middleware.RequireStaff(), middleware.RequirePermission(roleSvc, "roles.manage"))
	{
		roles.GET("", roleHandler.List)
		roles.GET("/:id", roleHandler.Get)
		roles.POST("", roleHandler.Create)
		roles.PUT("/:id", roleHandler.Update)
		roles.DELETE("/:id", roleHandler.Delete)
		roles.PUT("/:id/permissions/:permissionId", roleHandler.AddPermission)
		roles.DELETE("/:id/permissions/:permissionId", roleHandler.RemovePermission)
	}
	permissions := authed.Group("/permissions", middleware.RequireStaff(), middleware.RequirePermission(roleSvc, "roles.manage"))
	{
		permissions.GET("", roleHandler.ListPermissions)
		permissions.POST("", roleHandler.CreatePermission)
		permissions.DELETE("/:id", roleHandler.DeletePermission)
	}

	categories := authed.Group("/categories", middleware.RequireStaff())
	{
		categories.GET("", middleware.RequirePermission(roleSvc, "cases.read"), categoryHandler.List)
		categories.GET("/:id", middleware.RequirePermission(roleSvc, "cases.read"), categoryHandler.Get)
		categories.POST("", middleware.RequirePermission(roleSvc, "categories.manage"), categoryHandler.Create)
		categories.PUT("/:id", middleware.RequirePermission(roleSvc, "categories.manage"), categoryHandler.Update)
		categories.DELETE("/:id", middleware.RequirePermission(roleSvc, "categories.manage"), categoryHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
