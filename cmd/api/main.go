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

	"github.com/talentforge/crm-api/internal/config"
	"github.com/talentforge/crm-api/internal/database"
	"github.com/talentforge/crm-api/internal/handler"
	"github.com/talentforge/crm-api/internal/middleware"
	"github.com/talentforge/crm-api/internal/models"
	"github.com/talentforge/crm-api/internal/repository"
	"github.com/talentforge/crm-api/internal/router"
	"github.com/talentforge/crm-api/internal/service"
	cloud "github.com/talentforge/crm-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	storage, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	activityRepo := repository.NewActivityRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	contactRepo := repository.NewContactRepository(db)
	opportunityRepo := repository.NewOpportunityRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	jobRepo := repository.NewJobRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	if err := opportunityRepo.SeedStages(context.Background(), models.DefaultPipelineStages()); err != nil {
		log.Fatalf("failed to seed pipeline stages: %v", err)
	}

	auditRecorder := service.NewAuditService(activityRepo, logger)

	companyService := service.NewCompanyService(db, companyRepo, auditRecorder, validate, logger)
	contactService := service.NewContactService(db, contactRepo, auditRecorder, validate, logger)
	opportunityService := service.NewOpportunityService(db, opportunityRepo, auditRecorder, validate, logger)
	taskService := service.NewTaskService(db, taskRepo, auditRecorder, validate, logger)
	activityService := service.NewActivityService(activityRepo, auditRecorder, redisClient, cfg.ActivityCacheTTL, logger)
	jobService := service.NewJobService(jobRepo, validate, logger)
	applicationService := service.NewApplicationService(applicationRepo, jobRepo, storage, validate, cfg.ResumeMaxMB, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CompanyHandler:     handler.NewCompanyHandler(companyService, logger),
		ContactHandler:     handler.NewContactHandler(contactService, logger),
		OpportunityHandler: handler.NewOpportunityHandler(opportunityService, logger),
		TaskHandler:        handler.NewTaskHandler(taskService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, logger),
		JobHandler:         handler.NewJobHandler(jobService, logger),
		ApplicationHandler: handler.NewApplicationHandler(applicationService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
