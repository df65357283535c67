package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/classdesk/classdesk-be/internal/api"
	"github.com/classdesk/classdesk-be/internal/auth"
	"github.com/classdesk/classdesk-be/internal/config"
	"github.com/classdesk/classdesk-be/internal/database"
	"github.com/classdesk/classdesk-be/internal/email"
	"github.com/classdesk/classdesk-be/internal/logger"
	"github.com/classdesk/classdesk-be/internal/reminder"
	"github.com/classdesk/classdesk-be/internal/services"
	"github.com/classdesk/classdesk-be/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.AppEnv)

	// Ensure the upload directory exists
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Pick the session store variant
	var sessionStore session.Store
	switch cfg.SessionStore {
	case "sqlite":
		sessionStore = session.NewSQLiteStore(db)
	default:
		sessionStore = session.NewMemoryStore()
	}

	// Pick the mail backend: SendGrid when a key is configured, console otherwise
	var mailer email.Service
	if cfg.SendgridKey != "" {
		mailer = email.NewSendgridService(cfg.SendgridKey, cfg.FromEmail, cfg.FromName, cfg.MailTimeout)
	} else {
		log.Warn().Msg("No SendGrid key configured, using console mail backend")
		mailer = email.NewConsoleService()
	}

	// Set up services
	userService := services.NewUserService(db, cfg.BcryptCost)
	courseService := services.NewCourseService(db)
	uploadService := services.NewUploadService(db, cfg.UploadDir)
	ledgerService := services.NewLedgerService(db)
	aiService := services.NewAIService(cfg)

	authLayer := auth.New(sessionStore, cfg)

	// Set up and run the daily reminder scheduler
	scheduler := reminder.NewScheduler(courseService, ledgerService, mailer, cfg.ReminderCron, cfg.Location(), cfg.MailTimeout)
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(authLayer, userService, courseService, uploadService, aiService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
