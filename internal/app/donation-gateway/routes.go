package donationgateway

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/donation-gateway/docs"
	"github.com/magabrotheeeer/donation-gateway/internal/config"
	"github.com/magabrotheeeer/donation-gateway/internal/http/handlers/ai/insight"
	"github.com/magabrotheeeer/donation-gateway/internal/http/handlers/health"
	"github.com/magabrotheeeer/donation-gateway/internal/http/handlers/payment/paymentinit"
	"github.com/magabrotheeeer/donation-gateway/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/donation-gateway/internal/http/handlers/payment/supporterstatus"
	"github.com/magabrotheeeer/donation-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/donation-gateway/internal/paymentprovider"
	insightservice "github.com/magabrotheeeer/donation-gateway/internal/services/insight"
	paymentservice "github.com/magabrotheeeer/donation-gateway/internal/services/payment"
	ratelimitservice "github.com/magabrotheeeer/donation-gateway/internal/services/ratelimit"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	tokenMaker middlewarectx.TokenParser,
	limiterService *ratelimitservice.Service,
	insightService *insightservice.Service,
	providerClient *paymentprovider.Client,
	paymentService *paymentservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.CORSMiddleware,
		middlewarectx.MetricsMiddleware,
	)

	// Открытые конечные точки
	r.Post("/paystackWebhook", paymentwebhook.New(logger, paymentService, cfg.Paystack.SecretKey).ServeHTTP)
	r.Get("/health", health.New(logger).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		globalLimiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.GlobalRPS), cfg.RateLimit.GlobalBurst)
		r.Use(middlewarectx.JWTMiddleware(tokenMaker, logger))
		r.Use(middlewarectx.RateLimitMiddleware(globalLimiter, logger))
		r.Post("/geminiProxy", insight.New(logger, insightService, limiterService).ServeHTTP)
		r.Post("/initializePayment", paymentinit.New(logger, providerClient, cfg.Paystack.CallbackURL).ServeHTTP)
		r.Get("/supporterStatus", supporterstatus.New(logger, paymentService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
