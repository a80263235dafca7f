package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/bot"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/consumer"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/delivery"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/handler"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/middleware"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/repository"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/scheduler"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/service"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/config"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/logger"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/mongodb"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/rabbitmq"
)

func main() {
	// Initialize logger
	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting Reminder Service...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}
	if cfg.Telegram.Token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	// Initialize MongoDB
	mongoClient, err := mongodb.NewMongoClient(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer mongoClient.Disconnect(context.Background())

	// Initialize RabbitMQ
	rabbitClient, err := rabbitmq.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ", "error", err)
	}
	defer rabbitClient.Close()

	// Initialize Telegram API (one long-lived handle shared by the command
	// front-end and the delivery path)
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Fatal("Failed to connect to Telegram", "error", err)
	}

	// Initialize repositories
	reminderRepo := repository.NewReminderRepository(mongoClient)
	preferencesRepo := repository.NewPreferencesRepository(mongoClient)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := reminderRepo.EnsureIndexes(ctx); err != nil {
		log.Error("Failed to ensure indexes", "error", err)
	}
	cancel()

	// Initialize scheduler engine and notifier
	notifier := delivery.NewTelegramNotifier(botAPI, log)
	engine := scheduler.NewEngine(reminderRepo, notifier, log)
	defer engine.Stop()

	// Rebuild timers from the store before any transport accepts requests
	reconcileCtx, cancelReconcile := context.WithTimeout(context.Background(), time.Minute)
	if err := engine.Reconcile(reconcileCtx, time.Now()); err != nil {
		log.Fatal("Failed to reconcile reminders at startup", "error", err)
	}
	cancelReconcile()

	// Initialize expiry sweeper
	sweeper := scheduler.NewSweeper(reminderRepo, engine, log)
	if err := sweeper.Start(); err != nil {
		log.Error("Failed to start expiry sweeper", "error", err)
	}
	defer sweeper.Stop()

	// Initialize the lifecycle publisher and the reminder service
	lifecyclePublisher, err := consumer.NewLifecyclePublisher(rabbitClient, log)
	if err != nil {
		log.Fatal("Failed to initialize lifecycle publisher", "error", err)
	}
	reminderService := service.NewReminderService(reminderRepo, preferencesRepo, engine, lifecyclePublisher, log)

	// Initialize HTTP handlers
	reminderHandler := handler.NewReminderHandler(reminderService, log)
	preferencesHandler := handler.NewPreferencesHandler(reminderService, log)

	// Initialize rate limiter
	rateLimiter := middleware.NewOwnerRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes with rate limiting
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware(rateLimiter))
	{
		reminders := v1.Group("/reminders")
		{
			reminders.POST("", reminderHandler.CreateReminder)
			reminders.GET("", reminderHandler.ListReminders)
			reminders.DELETE("/:id", reminderHandler.DeleteReminder)
		}

		preferences := v1.Group("/preferences")
		{
			preferences.GET("/:owner_id/timezone", preferencesHandler.GetTimezone)
			preferences.PUT("/:owner_id/timezone", preferencesHandler.UpdateTimezone)
		}
	}

	// Start RabbitMQ consumer
	eventConsumer := consumer.NewEventConsumer(rabbitClient, reminderService, log)
	go func() {
		if err := eventConsumer.Start(); err != nil {
			log.Error("Failed to start event consumer", "error", err)
		}
	}()

	// Start the Telegram front-end
	botCtx, stopBot := context.WithCancel(context.Background())
	tgBot := bot.New(botAPI, reminderService, log, cfg.Telegram.PollTimeout)
	go func() {
		if err := tgBot.Run(botCtx); err != nil && err != context.Canceled {
			log.Error("Telegram bot stopped", "error", err)
		}
	}()

	// Start HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("Reminder Service started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Reminder Service...")
	stopBot()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Reminder Service stopped")
}
