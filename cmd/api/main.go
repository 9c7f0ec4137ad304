package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bento-navi/internal/infra/gas"
	"bento-navi/internal/infra/ogpparser"
	"bento-navi/internal/infra/proxy"
	"bento-navi/internal/observability/logging"
	"bento-navi/internal/observability/tracing"
	"bento-navi/internal/resilience/retry"
	"bento-navi/pkg/config"

	catUC "bento-navi/internal/usecase/catalog"
	ogpUC "bento-navi/internal/usecase/ogp"

	hhttp "bento-navi/internal/handler/http"
	hcatalog "bento-navi/internal/handler/http/catalog"
	"bento-navi/internal/handler/http/middleware"
	hogp "bento-navi/internal/handler/http/ogp"
	"bento-navi/internal/handler/http/requestid"
)

func main() {
	logger := initLogger()

	shutdownTracing := initTracing(logger)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	version := getVersion()
	serverComponents := setupServer(logger, version)

	runServer(logger, serverComponents, version)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewFromEnv(logging.FormatJSON)
	slog.SetDefault(logger)
	return logger
}

// initTracing installs the tracer provider and returns its shutdown function.
func initTracing(logger *slog.Logger) func(context.Context) error {
	cfg, err := tracing.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load tracing configuration", slog.Any("error", err))
		os.Exit(1)
	}
	shutdown, err := tracing.Setup(cfg)
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("tracing configured",
		slog.Bool("enabled", cfg.Enabled),
		slog.Float64("sample_ratio", cfg.SampleRatio))
	return shutdown
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// ServerComponents holds components needed for server operation.
type ServerComponents struct {
	Handler         http.Handler
	Addr            string
	ShutdownTimeout time.Duration
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, version string) *ServerComponents {
	proxyCfg, err := proxy.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}
	proxies := proxy.NewClients(proxyCfg)
	logger.Info("proxy rotation configured",
		slog.Int("proxies", len(proxies)),
		slog.Duration("attempt_timeout", proxyCfg.Timeout))

	ogpSvc := ogpUC.NewService(proxy.AsProxies(proxies), ogpparser.New(),
		ogpUC.Config{AttemptTimeout: proxyCfg.Timeout})

	gasCfg, err := gas.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load spreadsheet configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// A nil backend puts the catalog into demo mode.
	var backend catUC.Backend
	var backendCircuit hhttp.Circuit
	if gasCfg.Enabled() {
		client := gas.NewClient(gasCfg)
		backend = client
		backendCircuit = client
		logger.Info("spreadsheet backend configured", slog.Duration("timeout", gasCfg.Timeout))
	} else {
		logger.Warn("GAS_URL is not set, catalog runs in demo mode")
	}
	catCfg := catUC.Config{
		EnrichTimeout: config.GetEnvDuration("OGP_ENRICH_TIMEOUT", catUC.DefaultConfig().EnrichTimeout),
	}
	catSvc := catUC.NewService(backend, ogpSvc, catCfg)

	proxyCircuits := make([]hhttp.ProxyCircuit, 0, len(proxies))
	for _, p := range proxies {
		proxyCircuits = append(proxyCircuits, p)
	}

	mux := http.NewServeMux()

	// ヘルスチェックエンドポイント
	mux.Handle("GET    /health", &hhttp.HealthHandler{Proxies: proxyCircuits, Backend: backendCircuit, Version: version})
	mux.Handle("GET    /ready", &hhttp.ReadyHandler{Proxies: proxyCircuits})
	mux.Handle("GET    /live", &hhttp.LiveHandler{})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	// レート制限: OGP取得は公開プロキシに負荷をかけるためクライアント単位で制限
	rateCfg, err := hhttp.LoadRateLimiterConfig()
	if err != nil {
		logger.Error("failed to load rate limit configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("rate limiting initialized",
		slog.Int("limit", rateCfg.Limit),
		slog.Duration("window", rateCfg.Window),
		slog.Bool("trust_proxy_headers", rateCfg.TrustProxyHeaders))
	hogp.Register(mux, ogpSvc, hhttp.NewRateLimiter(rateCfg).Limit)
	hcatalog.Register(mux, catSvc)

	requestTimeout := config.GetEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout(
		proxyCfg.Timeout*time.Duration(len(proxies)),
		catCfg.EnrichTimeout,
		gasCfg.Timeout,
		retry.SpreadsheetConfig(),
	))
	logger.Info("request timeout configured", slog.Duration("timeout", requestTimeout))

	handler := applyMiddleware(logger, mux, requestTimeout)

	return &ServerComponents{
		Handler:         handler,
		Addr:            ":" + config.GetEnvString("PORT", "8080"),
		ShutdownTimeout: config.GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// defaultRequestTimeout covers the slowest route plus headroom: a full proxy
// rotation (GET /api/ogp), an enriched item write (POST /api/items) or a
// retried catalog read (GET /api/catalog).
func defaultRequestTimeout(rotation, enrich, backendTimeout time.Duration, reads retry.Config) time.Duration {
	return max(rotation, enrich+backendTimeout, reads.Budget(backendTimeout)) + 5*time.Second
}

// applyMiddleware wraps the handler with middleware chain.
// Middleware order: CORS → Request ID → Tracing → Recovery → Logging → Input Validation → Body Limit → Metrics → Timeout
func applyMiddleware(logger *slog.Logger, handler http.Handler, requestTimeout time.Duration) http.Handler {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	corsConfig.Logger = logger

	if corsConfig.Validator != nil {
		logger.Info("CORS enabled",
			slog.Any("allowed_origins", corsConfig.Validator.AllowedOrigins()),
			slog.Any("allowed_methods", corsConfig.AllowedMethods),
			slog.Any("allowed_headers", corsConfig.AllowedHeaders),
			slog.Int("max_age", corsConfig.MaxAge))
	} else {
		logger.Warn("CORS is disabled (CORS_ALLOWED_ORIGINS not set)")
	}

	maxBody := int64(config.GetEnvInt("MAX_REQUEST_BODY", 1<<20))

	// Apply in reverse order (innermost to outermost)
	middlewareChain := handler
	middlewareChain = hhttp.Timeout(requestTimeout)(middlewareChain)
	middlewareChain = hhttp.MetricsMiddleware(middlewareChain)
	middlewareChain = hhttp.LimitRequestBody(maxBody)(middlewareChain)
	middlewareChain = hhttp.InputValidation()(middlewareChain)
	middlewareChain = hhttp.Logging(logger)(middlewareChain)
	middlewareChain = hhttp.Recover(logger)(middlewareChain)
	middlewareChain = tracing.Middleware(middlewareChain)
	middlewareChain = requestid.Middleware(middlewareChain)
	middlewareChain = middleware.CORS(corsConfig)(middlewareChain)

	return middlewareChain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, components *ServerComponents, version string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              components.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", components.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), components.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
