package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/projecthub-api/internal/app"
	"github.com/noah-isme/projecthub-api/internal/config"
	"github.com/noah-isme/projecthub-api/internal/database"
	"github.com/noah-isme/projecthub-api/internal/handler"
	"github.com/noah-isme/projecthub-api/internal/middleware"
	"github.com/noah-isme/projecthub-api/internal/models"
	"github.com/noah-isme/projecthub-api/internal/profile"
	"github.com/noah-isme/projecthub-api/internal/ratelimit"
	"github.com/noah-isme/projecthub-api/internal/repository"
	"github.com/noah-isme/projecthub-api/internal/router"
	"github.com/noah-isme/projecthub-api/internal/service"
	cloud "github.com/noah-isme/projecthub-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	resources := app.NewRegistry(logger)

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	resources.Register("postgres", func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	if err := db.AutoMigrate(
		&models.Project{},
		&models.Application{},
		&models.Task{},
		&models.Attachment{},
		&models.Comment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	resources.Register("redis", redisClient.Close)

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		resources.Register("nats", natsConn.Drain)
	}

	var storage service.FileStorage
	if cfg.CloudinaryCloudName != "" {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		storage = uploader
	} else {
		logger.Warn().Msg("cloudinary not configured, attachment uploads disabled")
	}

	var profiles *profile.Client
	if cfg.ProfileServiceURL != "" {
		profiles = profile.NewClient(cfg.ProfileServiceURL, cfg.ProfileTimeout, logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	limiter := ratelimit.NewLimiter(redisClient, logger)

	projectRepo := repository.NewProjectRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	auditService := service.NewAuditService(auditRepo, natsConn, logger)
	projectService := service.NewProjectService(projectRepo, redisClient, cfg.ProjectCacheTTL, validate, logger)
	applicationService := service.NewApplicationService(applicationRepo, projectRepo, validate, logger)
	taskService := service.NewTaskService(taskRepo, projectRepo, validate, logger)
	commentService := service.NewCommentService(commentRepo, projectRepo, validate, logger)
	attachmentService := service.NewAttachmentService(storage, attachmentRepo, projectRepo, cfg.MaxUploadMB, logger)
	moderationService := service.NewModerationService(projectRepo, commentRepo, auditService, validate, logger)

	deps := router.Dependencies{
		HealthHandler:      handler.NewHealthHandler(cfg, db, redisClient, profiles, logger),
		ProjectHandler:     handler.NewProjectHandler(projectService, logger),
		ApplicationHandler: handler.NewApplicationHandler(applicationService, logger),
		TaskHandler:        handler.NewTaskHandler(taskService, logger),
		AttachmentHandler:  handler.NewAttachmentHandler(attachmentService, logger),
		CommentHandler:     handler.NewCommentHandler(commentService, logger),
		AdminHandler:       handler.NewAdminHandler(projectService, moderationService, auditService, logger),
		AuthMiddleware: middleware.Authenticate(middleware.AuthConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
			Profiles: scopeLookup(profiles),
			Logger:   logger,
		}),
		RateLimiter: limiter,
	}

	fiberApp := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: router.ErrorHandler(logger, cfg.IsDevelopment()),
	})

	middleware.Register(fiberApp, middleware.Config{Logger: &logger})
	router.Register(fiberApp, cfg, deps)

	go func() {
		if err := fiberApp.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(fiberApp, resources, logger)
}

// scopeLookup avoids handing the middleware a non-nil interface wrapping a
// nil *profile.Client.
func scopeLookup(profiles *profile.Client) middleware.ScopeLookup {
	if profiles == nil {
		return nil
	}
	return profiles
}

func waitForShutdown(fiberApp *fiber.App, resources *app.Registry, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	resources.Close()
	logger.Info().Msg("server stopped")
}
