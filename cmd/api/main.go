package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/caremeet/telehealth-api/internal/config"
	appointmenthandler "github.com/caremeet/telehealth-api/internal/handler/appointment"
	authhandler "github.com/caremeet/telehealth-api/internal/handler/auth"
	availabilityhandler "github.com/caremeet/telehealth-api/internal/handler/availability"
	chathandler "github.com/caremeet/telehealth-api/internal/handler/chat"
	healthhandler "github.com/caremeet/telehealth-api/internal/handler/health"
	kychandler "github.com/caremeet/telehealth-api/internal/handler/kyc"
	notificationhandler "github.com/caremeet/telehealth-api/internal/handler/notification"
	ratinghandler "github.com/caremeet/telehealth-api/internal/handler/rating"
	userhandler "github.com/caremeet/telehealth-api/internal/handler/user"
	"github.com/caremeet/telehealth-api/internal/middleware"
	"github.com/caremeet/telehealth-api/internal/queue"
	"github.com/caremeet/telehealth-api/internal/repository/postgres"
	"github.com/caremeet/telehealth-api/internal/router"
	appointmentservice "github.com/caremeet/telehealth-api/internal/service/appointment"
	authservice "github.com/caremeet/telehealth-api/internal/service/auth"
	availabilityservice "github.com/caremeet/telehealth-api/internal/service/availability"
	chatservice "github.com/caremeet/telehealth-api/internal/service/chat"
	kycservice "github.com/caremeet/telehealth-api/internal/service/kyc"
	notificationservice "github.com/caremeet/telehealth-api/internal/service/notification"
	ratingservice "github.com/caremeet/telehealth-api/internal/service/rating"
	userservice "github.com/caremeet/telehealth-api/internal/service/user"
	"github.com/caremeet/telehealth-api/pkg/auth"
	"github.com/caremeet/telehealth-api/pkg/lock"
	"github.com/caremeet/telehealth-api/pkg/logger"
	redisbroker "github.com/caremeet/telehealth-api/pkg/messaging/redis"
)

const slotLockTTL = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	kycRepo := postgres.NewKYCRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	jwtService := auth.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	emailQueue := queue.NewRedisQueue(broker.Client())
	slotLocker := lock.NewRedisSlotLocker(broker.Client(), slotLockTTL)

	notificationSvc := notificationservice.NewService(notificationRepo, broker, appLogger)
	availabilitySvc := availabilityservice.NewService(availabilityRepo)
	appointmentSvc := appointmentservice.NewService(
		appointmentRepo, userRepo, kycRepo,
		availabilitySvc, notificationSvc, emailQueue, slotLocker,
		appLogger,
	)
	authSvc := authservice.NewService(userRepo, tokenRepo, jwtService, emailQueue, appLogger)
	kycSvc := kycservice.NewService(kycRepo, userRepo, notificationSvc, appLogger)
	ratingSvc := ratingservice.NewService(ratingRepo, appointmentRepo, notificationSvc, appLogger)
	chatSvc := chatservice.NewService(messageRepo, userRepo, broker, notificationSvc, appLogger)
	userSvc := userservice.NewService(userRepo, kycRepo, appLogger)

	authMW := middleware.NewAuthMiddleware(jwtService)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	r := router.NewRouter(router.Handlers{
		Health:       healthhandler.NewHandler(db),
		Auth:         authhandler.NewHandler(authSvc),
		Availability: availabilityhandler.NewHandler(availabilitySvc),
		Appointment:  appointmenthandler.NewHandler(appointmentSvc),
		KYC:          kychandler.NewHandler(kycSvc),
		Notification: notificationhandler.NewHandler(notificationSvc),
		Rating:       ratinghandler.NewHandler(ratingSvc),
		Chat:         chathandler.NewHandler(chatSvc),
		User:         userhandler.NewHandler(userSvc),
	}, authMW, appLogger, router.Config{
		RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst: cfg.RateLimit.Burst,
		CORS:           corsConfig,
		MetricsPrefix:  "telehealth_api",
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error(err, "graceful shutdown failed")
	}
}
