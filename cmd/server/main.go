package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/wxai-backend/internal/ai"
	"github.com/ignatzorin/wxai-backend/internal/config"
	"github.com/ignatzorin/wxai-backend/internal/db"
	"github.com/ignatzorin/wxai-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/wxai-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/wxai-backend/internal/http/router"
	"github.com/ignatzorin/wxai-backend/internal/logger"
	"github.com/ignatzorin/wxai-backend/internal/mailer"
	"github.com/ignatzorin/wxai-backend/internal/otpstore"
	"github.com/ignatzorin/wxai-backend/internal/repository"
	"github.com/ignatzorin/wxai-backend/internal/service"
	"github.com/ignatzorin/wxai-backend/internal/storage"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка загрузки конфигурации")
	}
	logger.Init(cfg.Env)
	log := logger.WithComponent("main")

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("ошибка подключения к базе")
	}
	defer safeClose("postgres", dbConn)

	if err := db.RunMigrationsFromDir(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.WithError(err).Fatal("ошибка миграций")
	}

	healthChecks := map[string]httpHandlers.Pinger{"database": dbConn}

	// Хранилище заявок на регистрацию живёт столько же, сколько процесс.
	var pending otpstore.Store
	switch cfg.OTPStore {
	case config.OTPStoreRedis:
		client, err := otpstore.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("ошибка подключения к redis")
		}
		defer safeClose("redis", client)
		pending = otpstore.NewRedisStore(client)
		healthChecks["redis"] = redisPinger(client)
	default:
		pending = otpstore.NewMemoryStore()
		log.Warn("заявки на регистрацию хранятся в памяти и не переживут перезапуск")
	}

	var sender mailer.Sender
	if cfg.Mail.Enabled() {
		smtp, err := mailer.NewSMTPSender(cfg.Mail)
		if err != nil {
			log.WithError(err).Fatal("ошибка настройки почты")
		}
		sender = smtp
	} else {
		log.Warn("MAIL_HOST не задан, коды подтверждения пишутся в лог")
		sender = mailer.NewLogSender()
	}

	var mirror service.ImageMirror
	if cfg.AIImageMirror {
		images, err := storage.NewImageStorage(cfg.MediaStoragePath, cfg.MaxImageSizeMB)
		if err != nil {
			log.WithError(err).Fatal("ошибка инициализации хранилища изображений")
		}
		mirror = storage.NewMirror(images, cfg.AITimeout)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := repository.NewUserRepository(dbConn)
	requestRepo := repository.NewRequestRepository(dbConn)
	leadRepo := repository.NewLeadRepository(dbConn)

	aiClient := ai.NewClient(ai.Config{
		BaseURL:   cfg.AIBaseURL,
		APIKey:    cfg.AIAPIKey,
		Model:     cfg.AIModel,
		ImageSize: cfg.AIImageSize,
		Timeout:   cfg.AITimeout,
	})

	otpService := service.NewOTPService(userRepo, pending, sender, tokenManager, service.OTPConfig{
		TTL:           cfg.OTPTTL,
		Retention:     service.DefaultOTPRetention,
		MailTimeout:   cfg.Mail.Timeout,
		HashOnRequest: cfg.OTPHashOnRequest,
	})
	authService := service.NewAuthService(userRepo, tokenManager)
	aiService := service.NewAIService(userRepo, requestRepo, aiClient, mirror, service.AIConfig{
		Timeout:       cfg.AITimeout,
		TrialEnforced: cfg.AITrialEnforced,
	})
	leadService := service.NewLeadService(leadRepo)

	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Auth:   httpHandlers.NewAuthHandler(otpService, authService),
		AI:     httpHandlers.NewAIHandler(aiService),
		Sales:  httpHandlers.NewSalesHandler(leadService),
		Health: httpHandlers.NewHealthHandler(healthChecks),
	}, tokenManager)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGoWithContext(ctx, "shutdown", func(ctx context.Context) {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("ошибка остановки http сервера")
		}
	})

	log.WithField("port", cfg.HTTPPort).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("сервер завершился с ошибкой")
	}
}

func redisPinger(client *redis.Client) httpHandlers.PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// safeClose закрывает соединение при остановке.
func safeClose(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Log.WithError(err).WithField("resource", name).Error("main: ошибка закрытия")
	}
}
