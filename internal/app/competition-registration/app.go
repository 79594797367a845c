// Package competitionregistration собирает основное HTTP-приложение:
// подключения к PostgreSQL, Redis, S3 и RabbitMQ, бизнес-сервисы,
// маршруты и фоновую очистку просроченных заявок.
package competitionregistration

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/competition-registration/internal/cache"
	"github.com/magabrotheeeer/competition-registration/internal/config"
	"github.com/magabrotheeeer/competition-registration/internal/lib/jwt"
	"github.com/magabrotheeeer/competition-registration/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/media"
	"github.com/magabrotheeeer/competition-registration/internal/migrations"
	adminservice "github.com/magabrotheeeer/competition-registration/internal/services/admin"
	authservice "github.com/magabrotheeeer/competition-registration/internal/services/auth"
	batchservice "github.com/magabrotheeeer/competition-registration/internal/services/batch"
	competitionservice "github.com/magabrotheeeer/competition-registration/internal/services/competition"
	notifierservice "github.com/magabrotheeeer/competition-registration/internal/services/notifier"
	pricingservice "github.com/magabrotheeeer/competition-registration/internal/services/pricing"
	profileservice "github.com/magabrotheeeer/competition-registration/internal/services/profile"
	registrationservice "github.com/magabrotheeeer/competition-registration/internal/services/registration"
	"github.com/magabrotheeeer/competition-registration/internal/storage"
)

// CleanupInterval период фоновой очистки неоплаченных заявок.
const CleanupInterval = time.Hour

// App основное HTTP-приложение системы регистрации.
type App struct {
	server        *http.Server
	logger        *slog.Logger
	db            *storage.Storage
	conn          *amqp.Connection
	ch            *amqp.Channel
	registrations *registrationservice.Service
}

// New собирает приложение из конфигурации: инициализирует хранилища,
// брокер сообщений, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	mediaClient, err := media.New(cfg.MediaStorage)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	notifier := notifierservice.New(ch, logger)

	authService := authservice.New(db, jwtMaker, notifier, logger)
	profileService := profileservice.New(db, logger)
	batchService := batchservice.New(db, logger)
	pricingService := pricingservice.New(db, logger)
	competitionService := competitionservice.New(db, cacheRedis, mediaClient, logger)
	registrationService := registrationservice.New(db, batchService, pricingService, mediaClient, logger)
	adminService := adminservice.New(db, notifier, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, &Services{
		Auth:         authService,
		Profile:      profileService,
		Batch:        batchService,
		Pricing:      pricingService,
		Competition:  competitionService,
		Registration: registrationService,
		Admin:        adminService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:        srv,
		logger:        logger,
		db:            db,
		conn:          conn,
		ch:            ch,
		registrations: registrationService,
	}, nil
}

// Run запускает HTTP-сервер и фоновую очистку, блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	go a.runCleanup(ctx)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.ch.Close()
		a.conn.Close()
		a.db.DB.Close()
		return err
	}
}

// runCleanup раз в час удаляет заявки с истёкшим сроком оплаты.
func (a *App) runCleanup(ctx context.Context) {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.registrations.CleanupExpired(ctx)
			if err != nil {
				a.logger.Error("failed to cleanup expired registrations", sl.Err(err))
				continue
			}
			if n > 0 {
				a.logger.Info("expired registrations removed", slog.Int("count", n))
			}
		}
	}
}
