// @title DevEvents API
// @version 1.0
// @description Developer event listings: organizers publish events, visitors browse them and book a spot.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Organizer token. Format: "Bearer <token>"
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devevents/config"
	_ "devevents/docs"
	"devevents/internal/adapters/auth"
	"devevents/internal/adapters/email"
	"devevents/internal/adapters/queue"
	"devevents/internal/adapters/uploadcare"
	"devevents/internal/database"
	httpdelivery "devevents/internal/delivery/http"
	"devevents/internal/delivery/http/controllers"
	"devevents/internal/repository/mongodb"
	"devevents/internal/services"
)

const (
	shutdownTimeout = 15 * time.Second
	uploadTimeout   = 60 * time.Second
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	manager := database.NewManager(database.Options{
		URI:                    cfg.MongoURI,
		Database:               cfg.MongoDatabase,
		MaxPoolSize:            cfg.MongoMaxPoolSize,
		ServerSelectionTimeout: cfg.MongoServerSelectionTimeout,
	}, logger, mongodb.EnsureIndexes)

	eventRepo := mongodb.NewEventRepository(manager)
	bookingRepo := mongodb.NewBookingRepository(manager)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		logger.Error("failed to load email templates", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, renderer, logger)
	publisher := queue.NewBookingPublisher(cfg.RabbitMQURL, logger)

	eventService := services.NewEventService(eventRepo, logger, cfg.RequestTimeout)
	bookingService := services.NewBookingService(eventRepo, bookingRepo, publisher, emailService, logger, cfg.RequestTimeout)

	uploader := uploadcare.NewUploader(&http.Client{Timeout: uploadTimeout}, uploadcare.Config{
		PublicKey: cfg.UploadcarePublicKey,
		Subdomain: cfg.UploadcareSubdomain,
	})

	router := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Logger:         logger,
		Events:         controllers.NewEventController(logger, eventService, uploader),
		Bookings:       controllers.NewBookingController(logger, bookingService),
		Health:         controllers.NewHealthController(logger, manager),
		Verifier:       auth.NewJWTVerifier(cfg.JWTSecret),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	if err := manager.Close(shutdownCtx); err != nil {
		logger.Error("database disconnect", "err", err)
	}
	logger.Info("server stopped")
}
