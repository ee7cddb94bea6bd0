package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lazari03/pyetdoktorin-sub001/internal/config"
	"github.com/lazari03/pyetdoktorin-sub001/internal/handlers"
	"github.com/lazari03/pyetdoktorin-sub001/internal/middleware"
	"github.com/lazari03/pyetdoktorin-sub001/internal/payments"
	"github.com/lazari03/pyetdoktorin-sub001/internal/services"
	"github.com/lazari03/pyetdoktorin-sub001/internal/store"
	"github.com/lazari03/pyetdoktorin-sub001/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	// --- Database ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("MongoDB ping failed", zap.Error(err))
	}
	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	st := store.NewMongoStore(client.Database(cfg.MongoDatabase))

	// --- Services ---
	bookingSvc := services.NewBookingService(st, logger)
	statusSvc := services.NewStatusService(st, logger)
	paymentSvc := services.NewPaymentService(st, logger)
	providerClient := payments.NewClient(cfg.PaymentEnv, cfg.PaymentAPIKey)
	syncSvc := services.NewSyncService(st, paymentSvc, providerClient, logger)
	notifier := services.NewNotificationService(logger, cfg.TextbeltKey)
	jwtManager := utils.NewJWTManager(cfg.JWTSecret)

	h := handlers.NewHandler(st, bookingSvc, statusSvc, paymentSvc, syncSvc, notifier, jwtManager, cfg, logger)

	// --- Router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Signature"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", h.Healthz)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
	}

	// The webhook authenticates via its signature, not a bearer token.
	r.POST("/payments/webhook", h.PaymentWebhook)

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.Auth(jwtManager))
	{
		apiRoutes.POST("/appointments", h.CreateAppointment)
		apiRoutes.GET("/appointments", h.GetAppointments)
		apiRoutes.GET("/appointments/:id", h.GetAppointment)
		apiRoutes.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
		apiRoutes.POST("/appointments/:id/payment-started", h.PaymentStarted)
		apiRoutes.POST("/payments/sync", h.SyncPayment)
	}

	logger.Info("starting server", zap.String("port", cfg.APIPort))
	if err := r.Run(":" + cfg.APIPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	var logLevel zapcore.Level
	switch level {
	case "debug":
		logLevel = zap.DebugLevel
	case "warn":
		logLevel = zap.WarnLevel
	case "error":
		logLevel = zap.ErrorLevel
	default:
		logLevel = zap.InfoLevel
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(logLevel)
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	return logger
}
