package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	goredis "github.com/redis/go-redis/v9"

	"github.com/safeguard/sos_alert_system/internal/config"
	"github.com/safeguard/sos_alert_system/internal/dispatch"
	v1 "github.com/safeguard/sos_alert_system/internal/handler/http/v1"
	"github.com/safeguard/sos_alert_system/internal/notifier"
	"github.com/safeguard/sos_alert_system/internal/ratelimit"
	"github.com/safeguard/sos_alert_system/internal/relay"
	"github.com/safeguard/sos_alert_system/internal/repository"
	"github.com/safeguard/sos_alert_system/internal/service"
	"github.com/safeguard/sos_alert_system/pkg/logger"
	"github.com/safeguard/sos_alert_system/pkg/postgres"
	redisclient "github.com/safeguard/sos_alert_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/safeguard/sos_alert_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title SOS Alert System API
// @version 1.0
// @description Personal safety SOS alerting service: emergency contacts, alert dispatch and live location relay.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// redisPinger адаптирует клиент Redis к проверке живости health-check
type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Транспорт уведомлений: без учетных данных Twilio рассылка
	// деградирует до логирования
	var transport dispatch.Transport
	if t := notifier.NewTwilioTransport(cfg, log); t != nil {
		transport = t
		log.Info("Twilio transport configured")
	} else {
		log.Warn("Twilio transport not configured, notifications will only be logged")
	}
	dispatcher := dispatch.NewDispatcher(transport, log)

	// Redis: лимитер частоты SOS и очередь рассылки. Пустой REDIS_ADDR
	// включает in-memory режим для локальной разработки.
	var (
		limiter        ratelimit.Limiter
		queuePublisher dispatch.Publisher
		redisPing      v1.Pinger
	)
	if cfg.RedisAddr != "" {
		redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")

		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.SOSRateLimit, cfg.SOSRateWindow)
		queuePublisher = dispatch.NewRedisPublisher(redisClient)
		redisPing = redisPinger{client: redisClient}

		// Запуск воркера очереди рассылки
		worker := dispatch.NewWorker(redisClient, dispatcher, log, cfg)
		worker.Start(ctx)
	} else {
		log.Warn("REDIS_ADDR is empty, using in-memory rate limiter and direct dispatch")
		limiter = ratelimit.NewMemoryLimiter(cfg.SOSRateLimit, cfg.SOSRateWindow)
		queuePublisher = dispatch.NewDirectPublisher(dispatcher, log, cfg.DispatchTimeout)
	}

	// Реле живой геолокации
	locationRelay := relay.New(cfg.RelayBufferSize, log)

	// Инициализация репозиториев
	userRepo := repository.NewUserRepository(dbpool)

	// Инициализация сервисов
	guardianService := service.NewGuardianService(userRepo, log)
	sosService := service.NewSOSService(userRepo, limiter, queuePublisher, locationRelay, log, cfg)

	// Инициализация хэндлеров
	handler := v1.NewHandler(guardianService, sosService, locationRelay, log, cfg).
		WithPingers(dbpool, redisPing)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
