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

	"github.com/campushq/projectdesk-api/internal/config"
	"github.com/campushq/projectdesk-api/internal/database"
	"github.com/campushq/projectdesk-api/internal/handler"
	"github.com/campushq/projectdesk-api/internal/middleware"
	"github.com/campushq/projectdesk-api/internal/notify"
	"github.com/campushq/projectdesk-api/internal/repository"
	"github.com/campushq/projectdesk-api/internal/router"
	"github.com/campushq/projectdesk-api/internal/service"
	"github.com/campushq/projectdesk-api/pkg/ai"
	"github.com/campushq/projectdesk-api/pkg/mailer"
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
		logger.Warn().Err(err).Msg("redis unavailable, leaderboard cache disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, event publishing disabled")
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	var assistant ai.Assistant
	if cfg.OpenAIAPIKey != "" {
		assistant, err = ai.NewOpenAIAssistant(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.ChatModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create assistant: %v", err)
		}
	} else {
		logger.Warn().Msg("openai api key missing, chatbot limited to faq answers")
	}

	mail := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
	}, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	requestRepo := repository.NewSupervisorRequestRepository(db)
	adminLogRepo := repository.NewAdminLogRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)

	notifier := notify.New(notificationRepo, natsConn, mail, logger)

	authService := service.NewAuthService(userRepo, otpRepo, notifier, validate, service.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		JWTExpiry: cfg.JWTExpiry,
		OTPExpiry: cfg.OTPExpiry,
	}, logger)
	projectService := service.NewProjectService(projectRepo, userRepo, validate, cfg.EnrollmentBaseURL, logger)
	teamService := service.NewTeamService(teamRepo, projectRepo, userRepo, notifier, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, teamRepo, notifier, validate, cfg.UploadableTeamStatuses(), logger)
	leaderboardService := service.NewLeaderboardService(projectRepo, teamRepo, submissionRepo, feedbackRepo, redisClient, cfg.LeaderboardCacheTTL, logger)
	reviewService := service.NewReviewService(feedbackRepo, submissionRepo, teamRepo, adminLogRepo, notifier, leaderboardService, validate, logger)
	adminService := service.NewAdminService(requestRepo, userRepo, adminLogRepo, notifier, validate, logger)
	chatbotService := service.NewChatbotService(chatRepo, assistant, validate, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		ProjectHandler:      handler.NewProjectHandler(projectService, teamService, leaderboardService, logger),
		TeamHandler:         handler.NewTeamHandler(teamService, logger),
		SubmissionHandler:   handler.NewSubmissionHandler(submissionService, reviewService, logger),
		AdminHandler:        handler.NewAdminHandler(adminService, logger),
		ChatbotHandler:      handler.NewChatbotHandler(chatbotService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
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
