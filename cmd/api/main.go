package main

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classifyapi/internal/classifier"
	"classifyapi/internal/config"
	handlers "classifyapi/internal/http/handler"
	"classifyapi/internal/http/middleware"
	"classifyapi/internal/otel"
	"classifyapi/internal/ratelimit"
	"classifyapi/internal/service"
	"classifyapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	shutdownTracing, err := otel.Init(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Load the classification model once; every request shares the session.
	clf, err := classifier.NewONNX(cfg.Model)
	if err != nil {
		log.Fatalf("failed to load classification model: %v", err)
	}
	defer clf.Close()

	staging, err := storage.NewLocal(cfg.TempFolder)
	if err != nil {
		log.Fatalf("failed to prepare staging directory: %v", err)
	}

	limiter := ratelimit.New(newLimiterStore(cfg), cfg.RateLimit.FailOpen)
	svc := service.NewClassifyService(staging, clf)

	appCfg := fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    config.MaxUploadSize,
	}
	if cfg.TrustProxy {
		appCfg.ProxyHeader = fiber.HeaderXForwardedFor
	}
	app := fiber.New(appCfg)

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	metricsMW := middleware.Noop()
	var metricsHandler fiber.Handler
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		prom, err := middleware.NewPrometheusMiddleware(reg)
		if err != nil {
			log.Fatalf("failed to register metrics: %v", err)
		}
		metricsMW = prom.Handler()
		metricsHandler = adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	app.Use(metricsMW)

	// Headers first so responses short-circuited further down the chain,
	// HTTPS redirects and preflights included, still carry the hardening set.
	app.Use(middleware.SecurityHeaders(cfg))
	app.Use(middleware.RequireHTTPS(cfg.EnforceHTTPS))
	app.Use(cors.New(corsConfig(cfg)))
	app.Use(middleware.RateLimit(limiter, "global",
		ratelimit.PerHour(cfg.RateLimit.GlobalPerHour),
		ratelimit.PerDay(cfg.RateLimit.GlobalPerDay),
	))

	if metricsHandler != nil {
		app.Get("/metrics", metricsHandler)
	}

	uploadLimit := middleware.RateLimit(limiter, "upload",
		ratelimit.PerMinute(cfg.RateLimit.UploadPerMinute))
	handlers.RegisterRoutes(app, svc, uploadLimit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (%s mode)", addr, cfg.Env)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// newLimiterStore selects the counter backend: Redis when a backend URI is
// configured, otherwise in-process memory.
func newLimiterStore(cfg *config.AppConfig) ratelimit.Store {
	if uri := cfg.RateLimit.BackendURI; uri != "" {
		store, err := ratelimit.NewRedis(uri)
		if err != nil {
			log.Fatalf("failed to configure rate limit backend: %v", err)
		}
		return store
	}
	return ratelimit.NewMemory()
}

// corsConfig builds the origin policy once at startup. Production reflects
// only exact allow-list matches and permits credentials; development
// allows any origin without credentials.
func corsConfig(cfg *config.AppConfig) cors.Config {
	if cfg.IsProduction() && len(cfg.AllowedOrigins) > 0 {
		return cors.Config{
			AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
			AllowCredentials: cfg.AllowCredentials,
			AllowMethods:     "GET,POST,OPTIONS",
			AllowHeaders:     "Origin, Content-Type, Accept",
		}
	}
	return cors.Config{
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}
}
