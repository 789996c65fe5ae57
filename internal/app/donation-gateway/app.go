// Package donationgateway собирает и запускает HTTP-шлюз пожертвований.
package donationgateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/donation-gateway/internal/aiprovider"
	"github.com/magabrotheeeer/donation-gateway/internal/cache"
	"github.com/magabrotheeeer/donation-gateway/internal/config"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/jwt"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/donation-gateway/internal/migrations"
	"github.com/magabrotheeeer/donation-gateway/internal/paymentprovider"
	insightservice "github.com/magabrotheeeer/donation-gateway/internal/services/insight"
	paymentservice "github.com/magabrotheeeer/donation-gateway/internal/services/payment"
	ratelimitservice "github.com/magabrotheeeer/donation-gateway/internal/services/ratelimit"
	"github.com/magabrotheeeer/donation-gateway/internal/storage"
)

// App инкапсулирует HTTP-сервер шлюза и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New создает приложение: хранилище с миграциями, кэш, очередь квитанций,
// сервисы и маршруты. Redis и RabbitMQ необязательны: при пустом адресе
// соответствующая функциональность отключается.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	var statusCache paymentservice.Cache
	if cfg.RedisConnection.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		statusCache = cacheRedis
	}

	var publisher paymentservice.Publisher
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetDonationQueues())
		if err != nil {
			conn.Close()
			return nil, err
		}
		publisher = rabbitmq.NewReceiptPublisher(ch)
	} else {
		logger.Warn("rabbitmq url is empty, donation receipts are disabled")
	}

	tokenMaker := jwt.NewMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	providerClient := paymentprovider.NewClient(cfg.Paystack.APIURL, cfg.Paystack.SecretKey)
	aiClient := aiprovider.NewClient(cfg.Gemini)

	limiterService := ratelimitservice.New(db, logger, cfg.RateLimit)
	paymentService := paymentservice.New(db, logger, publisher, statusCache)
	insightService := insightservice.New(aiClient, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, tokenMaker, limiterService, insightService, providerClient, paymentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
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

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", sl.Err(closeErr))
		}
		return err
	}
}
