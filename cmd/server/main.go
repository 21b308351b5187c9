package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asakaida/groupperm/internal/handlers"
	"github.com/asakaida/groupperm/internal/infrastructure/config"
	"github.com/asakaida/groupperm/internal/infrastructure/database"
	"github.com/asakaida/groupperm/internal/infrastructure/metrics"
	"github.com/asakaida/groupperm/internal/repositories/postgres"
	"github.com/asakaida/groupperm/internal/services"
	"github.com/asakaida/groupperm/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	defaultEnv          = "dev"
	healthCheckInterval = 10 * time.Second
	shutdownTimeout     = 30 * time.Second
)

func main() {
	// Get environment from ENV variable or use default
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	// Initialize configuration
	if err := config.InitConfig(env); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	log.Printf("Connected to database: %s@%s:%d/%s",
		cfg.Database.User,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database)

	if cfg.Database.AutoMigrate {
		if err := pg.RunMigrations(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Database migrations applied")
	}

	// Metrics
	collector := metrics.NewCollector()
	exporter := metrics.NewPrometheusExporter(nil)

	// Initialize repository and service
	groupRepo := metrics.InstrumentGroupRepository(postgres.NewPostgresGroupRepository(pg.DB), collector, exporter)
	groupService := services.NewGroupService(groupRepo)

	// Create gRPC server
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(metrics.UnaryServerInterceptor(collector, exporter)),
	)
	handlers.RegisterGroupServiceServer(grpcServer, handlers.NewGroupHandler(groupService))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Register reflection service (for grpcurl, etc.)
	reflection.Register(grpcServer)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:           newRouter(groupService, pg, collector, exporter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start listening
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	go watchHealth(healthCtx, pg, healthServer)

	serverErrors := make(chan error, 2)
	go func() {
		log.Printf("gRPC server listening on %s", listener.Addr())
		if err := grpcServer.Serve(listener); err != nil {
			serverErrors <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	go func() {
		log.Printf("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Initiating graceful shutdown...")

		healthServer.Shutdown()
		stopHealth()

		// Create shutdown context with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down HTTP server: %v", err)
		}

		// Channel to notify when graceful stop completes
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()

		// Wait for graceful stop or timeout
		select {
		case <-stopped:
			log.Println("Server stopped gracefully")
		case <-shutdownCtx.Done():
			log.Println("Shutdown timeout exceeded, forcing stop")
			grpcServer.Stop()
		}

		// Close database connection
		if err := pg.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}

		log.Println("Shutdown complete")
	}
}

// newRouter builds the HTTP API, health and metrics routes
func newRouter(groupService services.GroupServiceInterface, pg *database.Postgres, collector *metrics.Collector, exporter *metrics.PrometheusExporter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.HealthCheck(r.Context()); err != nil {
			response.ServiceUnavailable(w, "database unavailable")
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	groupHandler := handlers.NewGroupHTTPHandler(groupService)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.HTTPMiddleware(collector, exporter))
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/permissions", groupHandler.PermissionRoutes())
	})

	return r
}

// watchHealth mirrors database reachability into the gRPC health service
func watchHealth(ctx context.Context, pg *database.Postgres, healthServer *health.Server) {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		servingStatus := healthpb.HealthCheckResponse_SERVING
		if err := pg.HealthCheck(ctx); err != nil {
			log.Printf("Health check failed: %v", err)
			servingStatus = healthpb.HealthCheckResponse_NOT_SERVING
		}
		healthServer.SetServingStatus("", servingStatus)
		healthServer.SetServingStatus(handlers.GroupServiceName, servingStatus)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
