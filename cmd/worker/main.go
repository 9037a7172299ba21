package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/caremeet/telehealth-api/internal/config"
	"github.com/caremeet/telehealth-api/internal/email"
	"github.com/caremeet/telehealth-api/internal/queue"
	"github.com/caremeet/telehealth-api/internal/repository/postgres"
	appointmentservice "github.com/caremeet/telehealth-api/internal/service/appointment"
	availabilityservice "github.com/caremeet/telehealth-api/internal/service/availability"
	notificationservice "github.com/caremeet/telehealth-api/internal/service/notification"
	"github.com/caremeet/telehealth-api/internal/worker"
	"github.com/caremeet/telehealth-api/pkg/lock"
	"github.com/caremeet/telehealth-api/pkg/logger"
	redisbroker "github.com/caremeet/telehealth-api/pkg/messaging/redis"
	"github.com/caremeet/telehealth-api/pkg/metrics"
)

// workerEnv covers deployment knobs that vary per worker instance and
// are set through the environment rather than the shared config file.
type workerEnv struct {
	HealthAddr string `envconfig:"WORKER_HEALTH_ADDR" default:":8081"`
}

const slotLockTTL = 10 * time.Second

func main() {
	_ = godotenv.Load()

	var env workerEnv
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal().Err(err).Msg("Failed to read worker environment")
	}

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
	kycRepo := postgres.NewKYCRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	emailQueue := queue.NewRedisQueue(broker.Client())
	slotLocker := lock.NewRedisSlotLocker(broker.Client(), slotLockTTL)

	notificationSvc := notificationservice.NewService(notificationRepo, broker, appLogger)
	availabilitySvc := availabilityservice.NewService(availabilityRepo)
	appointmentSvc := appointmentservice.NewService(
		appointmentRepo, userRepo, kycRepo,
		availabilitySvc, notificationSvc, emailQueue, slotLocker,
		appLogger,
	)

	sweeper := worker.NewSweeper(appointmentSvc, cfg.Sweep.Interval, metrics.NewSweepMetrics(), appLogger)
	emailWorker := worker.NewEmailWorker(
		emailQueue,
		email.NewSMTPService(cfg.SMTP),
		metrics.NewEmailMetrics(),
		appLogger,
	)

	startHealthServer(env.HealthAddr, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutting down")
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sweeper.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		emailWorker.Start(ctx)
	}()
	wg.Wait()
}

func startHealthServer(addr string, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			appLogger.Fatal(err, "health server failed")
		}
	}()
}
