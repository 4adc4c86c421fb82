package main

import (
	"context"
	"log"

	"pawperfection/config"
	"pawperfection/controllers"
	"pawperfection/database"
	"pawperfection/logger"
	"pawperfection/middleware"
	"pawperfection/repository"
	"pawperfection/routes"
	"pawperfection/sender"
	"pawperfection/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("Failed to run migrations", zap.Error(err))
	}

	// The payment record store is the one layer with a document-store
	// alternative; everything else stays on Postgres.
	var paymentRepo repository.PaymentRepository
	if cfg.DBDriver == "mongo" {
		mongoClient, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			zl.Fatal("Failed to connect to mongo", zap.Error(err))
		}
		mongoDB := mongoClient.Database(cfg.MongoDB)
		if err := repository.EnsureMongoIndexes(context.Background(), mongoDB); err != nil {
			zl.Fatal("Failed to ensure mongo indexes", zap.Error(err))
		}
		paymentRepo = repository.NewMongoPaymentRepository(mongoDB)
		zl.Info("Payment store backed by MongoDB", zap.String("database", cfg.MongoDB))
	} else {
		paymentRepo = repository.NewGormPaymentRepository(db)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			zl.Warn("Redis unavailable, rate limiting falls back to in-process", zap.Error(err))
			redisClient = nil
		}
	}

	userRepo := repository.NewUserRepository(db)
	programRepo := repository.NewTrainingProgramRepository(db)
	petRepo := repository.NewPetRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	var emailService services.EmailService
	if smtpSender, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword); err != nil {
		zl.Warn("Email delivery disabled", zap.Error(err))
		emailService = services.NewNoopEmailService(zl)
	} else {
		emailService = services.NewEmailService(smtpSender, zl)
	}

	stripeService := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	tokenService := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, tokenService)
	paymentService := services.NewPaymentService(paymentRepo, programRepo, stripeService, emailService, zl, cfg.FrontendURL, cfg.Currency)
	webhookService := services.NewWebhookService(paymentRepo, userRepo, programRepo, emailService, zl)

	devMode := cfg.Env != "production"
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zl))

	routes.Register(router, routes.Deps{
		Auth:     controllers.NewAuthController(authService, zl, devMode),
		Pets:     controllers.NewPetController(petRepo, zl, devMode),
		Training: controllers.NewTrainingController(programRepo, zl, devMode),
		Feedback: controllers.NewFeedbackController(feedbackRepo, zl, devMode),
		Payments: controllers.NewPaymentController(paymentService, zl, devMode),
		Webhooks: controllers.NewWebhookController(stripeService, webhookService, zl),
		Tokens:   tokenService,
		Users:    userRepo,
		Redis:    redisClient,
		Logger:   zl,
	})

	zl.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := router.Run(":" + cfg.Port); err != nil {
		zl.Fatal("Server exited", zap.Error(err))
	}
}
