package main

import (
	"context"
	"fmt"
	"log" // Using standard log for early errors before zap is set up
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ashika-normality/project-portico-backend/internal/config"
	"github.com/ashika-normality/project-portico-backend/internal/database"
	"github.com/ashika-normality/project-portico-backend/internal/events"
	"github.com/ashika-normality/project-portico-backend/internal/handlers"
	"github.com/ashika-normality/project-portico-backend/internal/mailer"
	"github.com/ashika-normality/project-portico-backend/internal/repository"
	"github.com/ashika-normality/project-portico-backend/internal/server"
	"github.com/ashika-normality/project-portico-backend/internal/services"
	"github.com/ashika-normality/project-portico-backend/internal/sms"
	"github.com/ashika-normality/project-portico-backend/internal/social"
	"github.com/ashika-normality/project-portico-backend/internal/storage"
	"github.com/ashika-normality/project-portico-backend/internal/token"
	"github.com/ashika-normality/project-portico-backend/internal/vault"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables:", err)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Env == "development" {
		l, _ := zap.NewDevelopment()
		logger = l
	} else {
		l, _ := zap.NewProduction()
		logger = l
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting portico-backend in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}
	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	tw := sms.NewTwilioClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From)
	if !tw.IsConfigured() {
		sugar.Warn("Twilio client not fully configured. SMS delivery will be skipped.")
	} else {
		sugar.Info("Twilio client configured.")
	}

	brevo := mailer.NewBrevoClient(cfg.Brevo.APIKey, cfg.Brevo.SenderEmail, cfg.Brevo.SenderName)
	if !brevo.IsConfigured() {
		sugar.Warn("Brevo client not fully configured. Email delivery will be skipped.")
	} else {
		sugar.Info("Brevo client configured.")
	}

	uploads, err := storage.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		sugar.Fatal(err)
	}

	producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	if producer == nil {
		sugar.Warn("Kafka not configured, account events will not be published")
	}

	userRepo := repository.NewMongoUserRepo(db)
	otpRepo := repository.NewMongoOTPRepo(db)
	pendingRepo := repository.NewMongoPendingRepo(db)
	instructorRepo := repository.NewMongoInstructorProfileRepo(db)
	learnerRepo := repository.NewMongoLearnerProfileRepo(db)

	issuer := token.NewIssuer(cfg.JWT.Secret, cfg.AccessTTL, cfg.RefreshTTL)
	verifier := social.NewGoogleVerifier(cfg.Google.ClientID)
	cards := vault.NewLocal()

	otpIssuer := services.NewOTPIssuer(otpRepo, tw, brevo, rdb, cfg.OTPTTL, cfg.OTP.RateLimitPerIdentifierPerHour, logger)
	authSvc := services.NewAuthService(userRepo, pendingRepo, instructorRepo, issuer, verifier, otpIssuer, producer, cfg.Validation.StrictInstructorFields, logger)
	otpSvc := services.NewOTPService(userRepo, pendingRepo, issuer, otpIssuer, producer, logger)
	profileSvc := services.NewProfileService(userRepo, instructorRepo, learnerRepo, cards, producer, logger)

	ah := handlers.NewAuthHandler(authSvc, issuer, uploads, logger)
	oh := handlers.NewOTPHandler(otpSvc, logger)
	ph := handlers.NewProfileHandler(profileSvc, logger)

	app := server.New(cfg, issuer, ah, oh, ph, logger)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}

	if err := producer.Close(); err != nil {
		sugar.Errorf("Kafka producer close error: %v", err)
	}

	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			sugar.Errorf("Redis client close error: %v", err)
		}
	}

	sugar.Info("Graceful shutdown complete. Goodbye!")
}
