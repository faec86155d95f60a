package navigationservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"store-nav/internal/general/config"
	"store-nav/internal/general/jwt"
	"store-nav/internal/general/logger"
	"store-nav/internal/general/postgres"
	"store-nav/internal/general/rabbitmq"
	"store-nav/internal/general/telemetry"
	"store-nav/internal/general/websocket"
	"store-nav/internal/planner"
	"store-nav/internal/software/navigation/handler"
	"store-nav/internal/software/navigation/service"
)

// Run wires the navigation service and blocks until ctx is cancelled.
func Run(ctx context.Context, maxConcurrent int) error {
	// set up a new logger and context for navigation service with a static request ID for startup logs
	logger := logger.New("navigation-service")
	ctx = logger.WithRequestID(ctx, "startup-001")

	// load a config from file
	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		logger.Error(ctx, "config_load_failed", "Failed to load configuration", err, nil)
		return err
	}

	// load the store floor plan (built-in layout when no file is configured)
	plan, err := config.LoadFloorPlan(cfg.Store.LayoutFile)
	if err != nil {
		logger.Error(ctx, "floorplan_load_failed", "Failed to load floor plan", err, nil)
		return err
	}

	// set up a Postgres connection pool
	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err, nil)
		return err
	}
	defer pool.Close()

	// connect to RabbitMQ
	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err, nil)
		return err
	}

	// set up the RabbitMQ publisher and robot command gateway
	pub := rabbitmq.NewMQPublisher(rmq)
	gateway := rabbitmq.NewRobotGateway(pub, logger)

	// set up the JWT manager
	jwtManager := jwt.NewManager(cfg.JWT.SecretKey, 2*time.Hour)

	// set up the necessary repos
	uow := postgres.NewUnitOfWork(pool)
	sessionRepo := postgres.NewSessionRepo()
	productRepo := postgres.NewProductRepo()
	robotRepo := postgres.NewRobotRepo()

	// in-memory telemetry cache backed by the persisted snapshots
	cache := telemetry.NewCache(uow, robotRepo)

	// set up the websocket handler
	ws := websocket.NewWebSocket(logger, jwtManager, pub, cache, robotRepo, uow)

	// set up the navigation service
	svc := service.NewNavigationService(
		logger, uow, sessionRepo, productRepo, robotRepo, cache, gateway,
		planner.New(), plan, cfg.Store.DefaultSpeedMS, pub, rmq, ws,
	)

	// run the background consumer for robot telemetry
	svc.RunBackgroundConsumers(ctx)

	// set up the HTTP handler and its routes
	mux := http.NewServeMux()
	httpHandler := handler.NewNavigationHTTPHandler(svc, logger, jwtManager, ws)
	httpHandler.RegisterRoutes(mux)

	// concurrency limiter (global), blocks when capacity is full
	limitedHandler := withConcurrencyLimit(maxConcurrent, mux)

	// set up the server configurations
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Services.NavigationServicePort), // listen on the specified port
		Handler:           limitedHandler,                                         // apply the concurrency limiter to the HTTP handler
		ReadHeaderTimeout: 5 * time.Second,                                        // time to read headers
		ReadTimeout:       10 * time.Second,                                       // time to read full request body
		WriteTimeout:      15 * time.Second,                                       // full response write timeout
		IdleTimeout:       60 * time.Second,                                       // keep-alive window
		BaseContext:       func(net.Listener) context.Context { return ctx },      // pass base ctx to all handlers
	}

	// log service start
	logger.Info(ctx, "service_started",
		fmt.Sprintf("Navigation Service started on port %d", cfg.Services.NavigationServicePort),
		map[string]any{"port": cfg.Services.NavigationServicePort, "max_concurrent": maxConcurrent},
	)

	// start the server in a background goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// wait for context cancellation or server error
	select {
	case <-ctx.Done():
		// graceful HTTP shutdown on context cancel
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info(ctx, "shutdown_started", "Starting graceful shutdown", nil)
		if err := srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_shutdown_failed", "Failed to gracefully shut down HTTP server", err, nil)
		}
	case err := <-errCh:
		// server returned a terminal error at startup or during run
		if err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_server_error", "HTTP server terminated with error", err, map[string]any{"port": cfg.Services.NavigationServicePort})
			return err
		}
		return nil
	}

	return nil
}

// withConcurrencyLimit wraps an http.Handler with a semaphore-based limiter.
// It controls how many HTTP requests can be in-progress at the same time.
func withConcurrencyLimit(n int, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	sem := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}: // acquire
			defer func() { <-sem }() // release
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
			// client canceled or server is shutting down
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
}
